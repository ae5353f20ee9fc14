package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"voiceletter/internal/domain"
	"voiceletter/internal/usecase/draft"
	"voiceletter/internal/usecase/voice"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handler — HTTP-срез поверх прикладных сервисов.
type Handler struct {
	voice  domain.VoiceService
	trends domain.TrendService
	drafts domain.DraftService
	log    zerolog.Logger
}

// NewHandler создаёт HTTP-обработчик.
func NewHandler(voiceSvc domain.VoiceService, trendSvc domain.TrendService, draftSvc domain.DraftService, logger zerolog.Logger) *Handler {
	return &Handler{voice: voiceSvc, trends: trendSvc, drafts: draftSvc, log: logger}
}

// Routes регистрирует маршруты API.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/voice/retrain", h.retrainVoice)
		r.Get("/voice/profile", h.getProfile)
		r.Post("/voice/test", h.testVoice)

		r.Post("/trends/detect", h.detectTrends)
		r.Get("/trends", h.listTrends)

		r.Post("/drafts/generate", h.generateDraft)
		r.Get("/drafts", h.listDrafts)
		r.Route("/drafts/{id}", func(r chi.Router) {
			r.Get("/", h.getDraft)
			r.Put("/", h.updateDraft)
			r.Post("/approve", h.approveDraft)
			r.Post("/discard", h.discardDraft)
			r.Post("/sent", h.markDraftSent)
		})
	})
}

type retrainRequest struct {
	UserID  int64 `json:"user_id"`
	Samples []struct {
		Title       string     `json:"title"`
		Text        string     `json:"text"`
		PublishedAt *time.Time `json:"published_at"`
	} `json:"samples"`
}

func (h *Handler) retrainVoice(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req retrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return
	}
	samples := make([]domain.TrainingSample, 0, len(req.Samples))
	for _, s := range req.Samples {
		samples = append(samples, domain.TrainingSample{Title: s.Title, Text: s.Text, PublishedAt: s.PublishedAt})
	}
	profile, err := h.voice.Retrain(r.Context(), req.UserID, samples)
	if err != nil {
		h.writeServiceError(w, err, "voice: retrain")
		return
	}
	writeJSON(w, profile)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}
	profile, err := h.voice.Profile(userID)
	if err != nil {
		h.writeServiceError(w, err, "voice: profile")
		return
	}
	writeJSON(w, profile)
}

type voiceTestRequest struct {
	UserID int64  `json:"user_id"`
	Topic  string `json:"topic"`
}

func (h *Handler) testVoice(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req voiceTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "topic is required")
		return
	}
	result, err := h.voice.TestVoice(r.Context(), req.UserID, req.Topic)
	if err != nil {
		h.writeServiceError(w, err, "voice: test")
		return
	}
	writeJSON(w, result)
}

func (h *Handler) detectTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.trends.Detect(r.Context(), domain.DetectOptions{})
	if err != nil {
		h.writeServiceError(w, err, "trends: detect")
		return
	}
	writeJSON(w, map[string]any{"detected": len(trends), "trends": trends})
}

func (h *Handler) listTrends(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r)
	trends, err := h.trends.Trending(limit)
	if err != nil {
		h.writeServiceError(w, err, "trends: list")
		return
	}
	if trends == nil {
		trends = []domain.Trend{}
	}
	writeJSON(w, trends)
}

type generateDraftRequest struct {
	UserID        int64    `json:"user_id"`
	ArticleIDs    []string `json:"article_ids"`
	MaxArticles   int      `json:"max_articles"`
	IncludeTrends *bool    `json:"include_trends"`
	Mode          string   `json:"mode"`
}

func (h *Handler) generateDraft(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req generateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return
	}
	opts := domain.GenerateOptions{
		ArticleIDs:    req.ArticleIDs,
		MaxArticles:   req.MaxArticles,
		IncludeTrends: true,
		Mode:          req.Mode,
	}
	if req.IncludeTrends != nil {
		opts.IncludeTrends = *req.IncludeTrends
	}
	created, err := h.drafts.Generate(r.Context(), req.UserID, opts)
	if err != nil {
		h.writeServiceError(w, err, "drafts: generate")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

func (h *Handler) listDrafts(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}
	status := domain.DraftStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", "unknown status")
		return
	}
	drafts, err := h.drafts.List(r.Context(), userID, status, queryLimit(r))
	if err != nil {
		h.writeServiceError(w, err, "drafts: list")
		return
	}
	if drafts == nil {
		drafts = []domain.NewsletterDraft{}
	}
	writeJSON(w, drafts)
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	found, err := h.drafts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, "drafts: get")
		return
	}
	writeJSON(w, found)
}

type updateDraftRequest struct {
	Title        *string `json:"title"`
	ContentIntro *string `json:"content_intro"`
	Closing      *string `json:"closing"`
}

func (h *Handler) updateDraft(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req updateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.Title == nil && req.ContentIntro == nil && req.Closing == nil {
		writeError(w, http.StatusBadRequest, "bad_request", "nothing to update")
		return
	}
	updated, err := h.drafts.Update(r.Context(), chi.URLParam(r, "id"), domain.DraftEdit{
		Title:        req.Title,
		ContentIntro: req.ContentIntro,
		Closing:      req.Closing,
	})
	if err != nil {
		h.writeServiceError(w, err, "drafts: update")
		return
	}
	writeJSON(w, updated)
}

type approveDraftRequest struct {
	ReviewSeconds int `json:"review_seconds"`
}

func (h *Handler) approveDraft(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req approveDraftRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
			return
		}
	}
	approved, err := h.drafts.Approve(r.Context(), chi.URLParam(r, "id"), req.ReviewSeconds)
	if err != nil {
		h.writeServiceError(w, err, "drafts: approve")
		return
	}
	writeJSON(w, approved)
}

func (h *Handler) discardDraft(w http.ResponseWriter, r *http.Request) {
	discarded, err := h.drafts.Discard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, "drafts: discard")
		return
	}
	writeJSON(w, discarded)
}

type markSentRequest struct {
	DeliveryRef string `json:"delivery_ref"`
}

func (h *Handler) markDraftSent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req markSentRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
			return
		}
	}
	sent, err := h.drafts.MarkSent(r.Context(), chi.URLParam(r, "id"), req.DeliveryRef)
	if err != nil {
		h.writeServiceError(w, err, "drafts: mark sent")
		return
	}
	writeJSON(w, sent)
}

// writeServiceError транслирует ошибки сервисов в HTTP-статусы.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, voice.ErrNoSamples):
		writeError(w, http.StatusUnprocessableEntity, "no_samples", "at least 3 non-empty samples are required")
	case errors.Is(err, voice.ErrNoProfile), errors.Is(err, domain.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "voice profile not found")
	case errors.Is(err, draft.ErrNoVoiceProfile):
		writeError(w, http.StatusUnprocessableEntity, "no_voice_profile", "trained voice profile is required")
	case errors.Is(err, draft.ErrNoArticles):
		writeError(w, http.StatusUnprocessableEntity, "no_articles", "no candidate articles for the draft")
	case errors.Is(err, draft.ErrGenerationAborted):
		writeError(w, http.StatusUnprocessableEntity, "generation_aborted", "generation aborted after consecutive section failures")
	case errors.Is(err, draft.ErrNotEditable):
		writeError(w, http.StatusConflict, "not_editable", "only pending drafts can be edited")
	case errors.Is(err, draft.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrDraftNotFound):
		writeError(w, http.StatusNotFound, "draft_not_found", "draft not found")
	default:
		h.log.Error().Err(err).Msg(logMsg)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func queryUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("user_id")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return 0, false
	}
	return userID, true
}

func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg, "code": code})
}
