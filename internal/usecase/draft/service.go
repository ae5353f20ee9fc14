package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"voiceletter/internal/domain"
	"voiceletter/internal/infra/metrics"
)

// ErrNoVoiceProfile возвращается, если у пользователя нет обученного
// профиля: вызывающая сторона должна предложить обучение, а не повтор.
var ErrNoVoiceProfile = errors.New("нет обученного голосового профиля")

// ErrNoArticles возвращается при пустом наборе материалов-кандидатов.
var ErrNoArticles = errors.New("нет материалов для черновика")

// ErrGenerationAborted возвращается, когда подряд отказало слишком много
// секций и собирать черновик бессмысленно.
var ErrGenerationAborted = errors.New("генерация прервана после серии отказов секций")

// ErrInvalidTransition возвращается при недопустимом переходе статуса.
// Это всегда ошибка вызывающей стороны, повторы не помогут.
var ErrInvalidTransition = errors.New("недопустимый переход статуса черновика")

// ErrNotEditable возвращается при попытке правки черновика вне pending.
var ErrNotEditable = errors.New("черновик доступен для правок только в статусе pending")

const (
	defaultMaxArticles = 10
	topicsLimit        = 3
	promptSampleLimit  = 3
	trendsSectionSize  = 3
	// consecutiveFailureLimit — сколько отказов секций подряд прерывает
	// сборку целиком.
	consecutiveFailureLimit = 3
	// candidateWindow ограничивает давность материалов при выборке без
	// явных идентификаторов.
	candidateWindow = 24 * time.Hour
)

// defaultTopicsByMode — запасные темы выпуска, если у материалов нет
// собственных тем.
var defaultTopicsByMode = map[string][]string{
	"tech":     {"technology", "software", "startups"},
	"business": {"markets", "strategy", "leadership"},
	"general":  {"industry news", "analysis", "ideas"},
}

// Config содержит настройки оркестратора.
type Config struct {
	MaxArticles   int
	MaxConcurrent int
}

// Service собирает черновики рассылок и ведёт их жизненный цикл. Это
// единственный компонент пайплайна с побочными эффектами: внешние вызовы
// генерации и запись в хранилище.
type Service struct {
	profiles  domain.ProfileRepo
	samples   domain.SampleRepo
	articles  domain.ArticleSource
	trends    domain.TrendRepo
	drafts    domain.DraftRepo
	generator domain.VoiceGenerator
	cfg       Config
	log       zerolog.Logger
}

var _ domain.DraftService = (*Service)(nil)

// NewService создаёт оркестратор черновиков.
func NewService(profiles domain.ProfileRepo, samples domain.SampleRepo, articles domain.ArticleSource, trends domain.TrendRepo, drafts domain.DraftRepo, generator domain.VoiceGenerator, cfg Config, logger zerolog.Logger) *Service {
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = defaultMaxArticles
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 5
	}
	return &Service{
		profiles:  profiles,
		samples:   samples,
		articles:  articles,
		trends:    trends,
		drafts:    drafts,
		generator: generator,
		cfg:       cfg,
		log:       logger,
	}
}

// Generate собирает черновик: интро, комментарии к материалам, трендовая
// секция и завершение генерируются в голосе пользователя, затем черновик
// сохраняется целиком со статусом pending. Частично собранные черновики
// никогда не сохраняются.
func (s *Service) Generate(ctx context.Context, userID int64, opts domain.GenerateOptions) (domain.NewsletterDraft, error) {
	metrics.IncDraftOverall()
	metrics.IncDraftForUser(userID)
	buildStart := time.Now()

	profile, err := s.profiles.GetProfile(userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.NewsletterDraft{}, ErrNoVoiceProfile
	}
	if err != nil {
		return domain.NewsletterDraft{}, fmt.Errorf("получение профиля: %w", err)
	}
	if !profile.Trained {
		return domain.NewsletterDraft{}, ErrNoVoiceProfile
	}

	corpus, err := s.samples.ListSamples(userID)
	if err != nil {
		return domain.NewsletterDraft{}, fmt.Errorf("получение образцов: %w", err)
	}
	if len(corpus) > promptSampleLimit {
		corpus = corpus[:promptSampleLimit]
	}

	maxArticles := opts.MaxArticles
	if maxArticles <= 0 {
		maxArticles = s.cfg.MaxArticles
	}
	candidates, err := s.fetchCandidates(userID, opts, maxArticles)
	if err != nil {
		return domain.NewsletterDraft{}, err
	}
	if len(candidates) == 0 {
		return domain.NewsletterDraft{}, ErrNoArticles
	}
	if len(candidates) > maxArticles {
		candidates = candidates[:maxArticles]
	}

	topics := deriveTopics(candidates, opts.Mode)
	now := time.Now().UTC()

	var currentTrends []domain.Trend
	if opts.IncludeTrends {
		currentTrends, err = s.trends.ListCurrent(trendsSectionSize, now)
		if err != nil {
			// Трендовая секция необязательна: при недоступности выборки
			// черновик собирается без неё.
			s.log.Warn().Err(err).Int64("user", userID).Msg("draft: тренды недоступны")
			currentTrends = nil
		}
	}

	jobs, layout := s.planSections(profile, corpus, candidates, currentTrends, topics, now)
	results := s.runSections(ctx, jobs)
	if err := ctx.Err(); err != nil {
		return domain.NewsletterDraft{}, err
	}

	failures := 0
	consecutive := 0
	for _, res := range results {
		if res.err == nil {
			consecutive = 0
			continue
		}
		failures++
		consecutive++
		if consecutive >= consecutiveFailureLimit {
			s.log.Error().Int64("user", userID).Int("failures", failures).Msg("draft: генерация прервана")
			return domain.NewsletterDraft{}, ErrGenerationAborted
		}
	}
	for i, res := range results {
		if res.err != nil {
			// Отказ одной секции не валит черновик: секция остаётся
			// пустой, отказ логируется.
			s.log.Warn().Err(res.err).Str("section", string(jobs[i].input.Kind)).Msg("draft: секция не сгенерирована")
			metrics.IncSectionFailure(string(jobs[i].input.Kind))
		}
	}

	draft := s.assemble(userID, opts, candidates, currentTrends, results, layout, now)
	draft.Metadata = map[string]any{
		"mode":             normalizeMode(opts.Mode),
		"topics":           topics,
		"section_failures": failures,
		"build_ms":         time.Since(buildStart).Milliseconds(),
	}

	saved, err := s.drafts.CreateDraft(draft)
	if err != nil {
		return domain.NewsletterDraft{}, fmt.Errorf("сохранение черновика: %w", err)
	}
	metrics.DraftBuildSeconds.Observe(time.Since(buildStart).Seconds())
	s.log.Info().
		Str("draft", saved.ID).
		Int64("user", userID).
		Int("articles", len(saved.Articles)).
		Bool("trends", saved.TrendsSection != nil).
		Msg("draft: черновик собран")
	return saved, nil
}

type sectionLayout struct {
	intro      int
	firstItem  int
	trendIntro int // -1, если трендовой секции нет
	closing    int
}

func (s *Service) planSections(profile domain.VoiceProfile, corpus []domain.TrainingSample, candidates []domain.Article, currentTrends []domain.Trend, topics []string, now time.Time) ([]sectionJob, sectionLayout) {
	var jobs []sectionJob
	add := func(input domain.GenerationInput) int {
		input.Profile = profile
		input.Samples = corpus
		jobs = append(jobs, sectionJob{index: len(jobs), input: input})
		return len(jobs) - 1
	}

	layout := sectionLayout{trendIntro: -1}
	layout.intro = add(domain.GenerationInput{
		Kind:         domain.SectionIntro,
		Date:         now,
		Topics:       topics,
		ArticleCount: len(candidates),
	})
	layout.firstItem = len(jobs)
	for i := range candidates {
		article := candidates[i]
		add(domain.GenerationInput{
			Kind:    domain.SectionCommentary,
			Article: &article,
		})
	}
	if len(currentTrends) > 0 {
		trendTopics := make([]string, 0, len(currentTrends))
		for _, t := range currentTrends {
			trendTopics = append(trendTopics, t.Topic)
		}
		layout.trendIntro = add(domain.GenerationInput{
			Kind:        domain.SectionTrends,
			TrendTopics: trendTopics,
		})
	}
	layout.closing = add(domain.GenerationInput{
		Kind:   domain.SectionClosing,
		Topics: topics,
	})
	return jobs, layout
}

func (s *Service) assemble(userID int64, opts domain.GenerateOptions, candidates []domain.Article, currentTrends []domain.Trend, results []sectionResult, layout sectionLayout, now time.Time) domain.NewsletterDraft {
	sectionText := func(idx int) string {
		if idx < 0 || idx >= len(results) || results[idx].err != nil {
			return ""
		}
		return results[idx].text
	}

	articles := make([]domain.DraftArticle, 0, len(candidates))
	for i, candidate := range candidates {
		articles = append(articles, domain.DraftArticle{
			ArticleID:    candidate.ID,
			Title:        candidate.Title,
			Summary:      candidate.Summary,
			URL:          candidate.URL,
			BulletPoints: candidate.BulletPoints,
			Hashtags:     candidate.Hashtags,
			Commentary:   sectionText(layout.firstItem + i),
			Source:       candidate.Source,
		})
	}

	var trendsSection *domain.TrendsSection
	if len(currentTrends) > 0 {
		highlights := make([]domain.TrendHighlight, 0, len(currentTrends))
		for _, t := range currentTrends {
			highlights = append(highlights, domain.TrendHighlight{
				Topic:      t.Topic,
				Explainer:  ExplainTrend(t),
				TrendScore: t.TrendScore,
			})
		}
		trendsSection = &domain.TrendsSection{
			Intro:  sectionText(layout.trendIntro),
			Trends: highlights,
		}
	}

	return domain.NewsletterDraft{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         fmt.Sprintf("Newsletter — %s", now.Format("January 2, 2006")),
		ContentIntro:  sectionText(layout.intro),
		Articles:      articles,
		TrendsSection: trendsSection,
		Closing:       sectionText(layout.closing),
		Status:        domain.DraftStatusPending,
		GeneratedAt:   now,
	}
}

func (s *Service) fetchCandidates(userID int64, opts domain.GenerateOptions, maxArticles int) ([]domain.Article, error) {
	query := domain.ArticleQuery{Limit: maxArticles}
	if len(opts.ArticleIDs) > 0 {
		query.IDs = opts.ArticleIDs
	} else {
		query.Since = time.Now().UTC().Add(-candidateWindow)
	}
	candidates, err := s.articles.FetchCandidates(userID, query)
	if err != nil {
		return nil, fmt.Errorf("выборка материалов: %w", err)
	}
	return candidates, nil
}

// deriveTopics выбирает до трёх доминирующих тем материалов; при их
// отсутствии используется запасной список режима.
func deriveTopics(articles []domain.Article, mode string) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string
	for _, article := range articles {
		if article.Topic == "" {
			continue
		}
		if _, ok := counts[article.Topic]; !ok {
			firstSeen[article.Topic] = len(order)
			order = append(order, article.Topic)
		}
		counts[article.Topic]++
	}
	if len(order) == 0 {
		return defaultTopicsByMode[normalizeMode(mode)]
	}

	topics := append([]string(nil), order...)
	for i := 0; i < len(topics); i++ {
		for j := i + 1; j < len(topics); j++ {
			if counts[topics[j]] > counts[topics[i]] ||
				(counts[topics[j]] == counts[topics[i]] && firstSeen[topics[j]] < firstSeen[topics[i]]) {
				topics[i], topics[j] = topics[j], topics[i]
			}
		}
	}
	if len(topics) > topicsLimit {
		topics = topics[:topicsLimit]
	}
	return topics
}

func normalizeMode(mode string) string {
	if _, ok := defaultTopicsByMode[mode]; ok {
		return mode
	}
	return "general"
}

// Update применяет частичную правку. Допустимо только в статусе pending;
// каждая правка увеличивает счётчик редактирований.
func (s *Service) Update(ctx context.Context, draftID string, edit domain.DraftEdit) (domain.NewsletterDraft, error) {
	draft, err := s.drafts.GetDraft(draftID)
	if err != nil {
		return domain.NewsletterDraft{}, fmt.Errorf("получение черновика: %w", err)
	}
	if draft.Status != domain.DraftStatusPending {
		return domain.NewsletterDraft{}, ErrNotEditable
	}

	if edit.Title != nil {
		draft.Title = *edit.Title
	}
	if edit.ContentIntro != nil {
		draft.ContentIntro = *edit.ContentIntro
	}
	if edit.Closing != nil {
		draft.Closing = *edit.Closing
	}
	draft.EditCount++

	if err := s.drafts.UpdateDraft(draft); err != nil {
		return domain.NewsletterDraft{}, fmt.Errorf("сохранение правки: %w", err)
	}
	return draft, nil
}

// Approve переводит черновик pending → approved, фиксируя длительность
// ревью и момент перехода. При недопустимом статусе черновик не меняется.
func (s *Service) Approve(ctx context.Context, draftID string, reviewSeconds int) (domain.NewsletterDraft, error) {
	return s.transition(draftID, domain.DraftStatusApproved, func(draft *domain.NewsletterDraft) {
		now := time.Now().UTC()
		draft.ReviewSeconds = reviewSeconds
		draft.ReviewedAt = &now
	})
}

// MarkSent переводит черновик approved → sent с отметкой доставки.
func (s *Service) MarkSent(ctx context.Context, draftID string, deliveryRef string) (domain.NewsletterDraft, error) {
	return s.transition(draftID, domain.DraftStatusSent, func(draft *domain.NewsletterDraft) {
		now := time.Now().UTC()
		draft.SentAt = &now
		draft.DeliveryRef = deliveryRef
	})
}

// Discard помечает черновик отклонённым. Черновики не удаляются.
func (s *Service) Discard(ctx context.Context, draftID string) (domain.NewsletterDraft, error) {
	return s.transition(draftID, domain.DraftStatusDiscarded, nil)
}

func (s *Service) transition(draftID string, to domain.DraftStatus, apply func(*domain.NewsletterDraft)) (domain.NewsletterDraft, error) {
	draft, err := s.drafts.GetDraft(draftID)
	if err != nil {
		return domain.NewsletterDraft{}, fmt.Errorf("получение черновика: %w", err)
	}
	if !draft.Status.CanTransition(to) {
		return domain.NewsletterDraft{}, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, draft.Status, to)
	}

	draft.Status = to
	if apply != nil {
		apply(&draft)
	}
	if err := s.drafts.UpdateDraft(draft); err != nil {
		return domain.NewsletterDraft{}, fmt.Errorf("сохранение статуса: %w", err)
	}
	s.log.Info().Str("draft", draft.ID).Str("status", string(to)).Msg("draft: смена статуса")
	return draft, nil
}

// Get возвращает черновик по идентификатору.
func (s *Service) Get(ctx context.Context, draftID string) (domain.NewsletterDraft, error) {
	draft, err := s.drafts.GetDraft(draftID)
	if err != nil {
		return domain.NewsletterDraft{}, fmt.Errorf("получение черновика: %w", err)
	}
	return draft, nil
}

// List возвращает черновики пользователя по убыванию времени сборки.
func (s *Service) List(ctx context.Context, userID int64, status domain.DraftStatus, limit int) ([]domain.NewsletterDraft, error) {
	drafts, err := s.drafts.ListDrafts(userID, status, limit)
	if err != nil {
		return nil, fmt.Errorf("список черновиков: %w", err)
	}
	return drafts, nil
}
