package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"voiceletter/internal/domain"
)

type stubProfiles struct {
	profile domain.VoiceProfile
	err     error
}

func (s *stubProfiles) ReplaceProfile(p domain.VoiceProfile) (domain.VoiceProfile, error) {
	return p, nil
}
func (s *stubProfiles) GetProfile(int64) (domain.VoiceProfile, error) {
	if s.err != nil {
		return domain.VoiceProfile{}, s.err
	}
	return s.profile, nil
}
func (s *stubProfiles) ListTrainedUserIDs() ([]int64, error) { return nil, nil }

type stubSamples struct{ samples []domain.TrainingSample }

func (s *stubSamples) ReplaceSamples(_ int64, samples []domain.TrainingSample) ([]domain.TrainingSample, error) {
	return samples, nil
}
func (s *stubSamples) ListSamples(int64) ([]domain.TrainingSample, error) { return s.samples, nil }
func (s *stubSamples) DeleteSamples(int64) error                          { return nil }

type stubArticles struct {
	articles []domain.Article
	query    domain.ArticleQuery
}

func (s *stubArticles) FetchCandidates(_ int64, q domain.ArticleQuery) ([]domain.Article, error) {
	s.query = q
	return s.articles, nil
}
func (s *stubArticles) ListBetween(time.Time, time.Time) ([]domain.Article, error) { return nil, nil }

type stubTrends struct {
	trends []domain.Trend
	err    error
}

func (s *stubTrends) InsertTrends(trends []domain.Trend) ([]domain.Trend, error) {
	return trends, nil
}
func (s *stubTrends) ListCurrent(int, time.Time) ([]domain.Trend, error) {
	return s.trends, s.err
}
func (s *stubTrends) DeleteExpired(time.Time) (int64, error) { return 0, nil }

type stubDrafts struct {
	mu      sync.Mutex
	created *domain.NewsletterDraft
	stored  map[string]domain.NewsletterDraft
}

func newStubDrafts(drafts ...domain.NewsletterDraft) *stubDrafts {
	stored := make(map[string]domain.NewsletterDraft, len(drafts))
	for _, d := range drafts {
		stored[d.ID] = d
	}
	return &stubDrafts{stored: stored}
}

func (s *stubDrafts) CreateDraft(draft domain.NewsletterDraft) (domain.NewsletterDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = &draft
	s.stored[draft.ID] = draft
	return draft, nil
}
func (s *stubDrafts) GetDraft(id string) (domain.NewsletterDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.stored[id]
	if !ok {
		return domain.NewsletterDraft{}, domain.ErrDraftNotFound
	}
	return draft, nil
}
func (s *stubDrafts) UpdateDraft(draft domain.NewsletterDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stored[draft.ID]; !ok {
		return domain.ErrDraftNotFound
	}
	s.stored[draft.ID] = draft
	return nil
}
func (s *stubDrafts) ListDrafts(int64, domain.DraftStatus, int) ([]domain.NewsletterDraft, error) {
	return nil, nil
}

// scriptedGenerator отвечает шаблоном и отказывает на заданных типах секций.
type scriptedGenerator struct {
	failKinds map[domain.SectionKind]bool
	inFlight  int64
	peak      int64
	delay     time.Duration
}

func (g *scriptedGenerator) Section(_ context.Context, in domain.GenerationInput) (string, error) {
	cur := atomic.AddInt64(&g.inFlight, 1)
	for {
		peak := atomic.LoadInt64(&g.peak)
		if cur <= peak || atomic.CompareAndSwapInt64(&g.peak, peak, cur) {
			break
		}
	}
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	atomic.AddInt64(&g.inFlight, -1)

	if g.failKinds[in.Kind] {
		return "", errors.New("секция недоступна")
	}
	switch in.Kind {
	case domain.SectionCommentary:
		return "commentary: " + in.Article.Title, nil
	default:
		return "text: " + string(in.Kind), nil
	}
}

func (g *scriptedGenerator) Match(domain.VoiceProfile, string) float64 { return 0 }

func trainedProfile() domain.VoiceProfile {
	return domain.VoiceProfile{UserID: 7, Trained: true, AvgSentenceLength: 15}
}

func candidateArticles(count int) []domain.Article {
	articles := make([]domain.Article, 0, count)
	for i := 0; i < count; i++ {
		articles = append(articles, domain.Article{
			ID:    fmt.Sprintf("art-%d", i+1),
			Title: fmt.Sprintf("Article %d", i+1),
			Topic: "ai",
		})
	}
	return articles
}

func newDraftService(profiles *stubProfiles, articles *stubArticles, trends *stubTrends, drafts *stubDrafts, gen domain.VoiceGenerator) *Service {
	return NewService(profiles, &stubSamples{}, articles, trends, drafts, gen, Config{}, zerolog.Nop())
}

func TestGenerateNoProfile(t *testing.T) {
	svc := newDraftService(&stubProfiles{err: domain.ErrProfileNotFound}, &stubArticles{}, &stubTrends{}, newStubDrafts(), &scriptedGenerator{})
	if _, err := svc.Generate(context.Background(), 7, domain.GenerateOptions{}); !errors.Is(err, ErrNoVoiceProfile) {
		t.Fatalf("ожидали ErrNoVoiceProfile, получили %v", err)
	}
}

func TestGenerateUntrainedProfile(t *testing.T) {
	svc := newDraftService(&stubProfiles{profile: domain.VoiceProfile{UserID: 7}}, &stubArticles{}, &stubTrends{}, newStubDrafts(), &scriptedGenerator{})
	if _, err := svc.Generate(context.Background(), 7, domain.GenerateOptions{}); !errors.Is(err, ErrNoVoiceProfile) {
		t.Fatalf("ожидали ErrNoVoiceProfile, получили %v", err)
	}
}

func TestGenerateNoArticles(t *testing.T) {
	svc := newDraftService(&stubProfiles{profile: trainedProfile()}, &stubArticles{}, &stubTrends{}, newStubDrafts(), &scriptedGenerator{})
	if _, err := svc.Generate(context.Background(), 7, domain.GenerateOptions{}); !errors.Is(err, ErrNoArticles) {
		t.Fatalf("ожидали ErrNoArticles, получили %v", err)
	}
}

func TestGenerateOrdersAndCaps(t *testing.T) {
	articles := &stubArticles{articles: candidateArticles(5)}
	trends := &stubTrends{trends: []domain.Trend{
		{Topic: "quantum", TrendScore: 9, ArticleCount: 6, Velocity: 120},
		{Topic: "fusion", TrendScore: 4, ArticleCount: 3, Velocity: 40},
	}}
	drafts := newStubDrafts()
	svc := newDraftService(&stubProfiles{profile: trainedProfile()}, articles, trends, drafts, &scriptedGenerator{})

	draft, err := svc.Generate(context.Background(), 7, domain.GenerateOptions{MaxArticles: 3, IncludeTrends: true})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(draft.Articles) != 3 {
		t.Fatalf("ожидали 3 материала, получили %d", len(draft.Articles))
	}
	for i, item := range draft.Articles {
		expectedID := fmt.Sprintf("art-%d", i+1)
		if item.ArticleID != expectedID {
			t.Fatalf("нарушен порядок материалов: позиция %d, получили %s", i, item.ArticleID)
		}
		expectedCommentary := "commentary: " + item.Title
		if item.Commentary != expectedCommentary {
			t.Fatalf("комментарий должен соответствовать материалу: %q", item.Commentary)
		}
	}

	if draft.Status != domain.DraftStatusPending {
		t.Fatalf("новый черновик должен быть pending, получили %s", draft.Status)
	}
	if draft.ContentIntro == "" || draft.Closing == "" {
		t.Fatalf("интро и завершение должны быть сгенерированы")
	}
	if draft.TrendsSection == nil || len(draft.TrendsSection.Trends) != 2 {
		t.Fatalf("ожидали трендовую секцию с 2 элементами: %+v", draft.TrendsSection)
	}
	if draft.TrendsSection.Trends[0].Explainer == "" {
		t.Fatalf("у тренда должно быть пояснение")
	}
	if draft.Metadata["section_failures"] != 0 {
		t.Fatalf("ожидали 0 отказов секций, получили %v", draft.Metadata["section_failures"])
	}
	if drafts.created == nil {
		t.Fatalf("черновик должен быть сохранён")
	}
}

func TestGenerateSectionFailureKeepsDraft(t *testing.T) {
	articles := &stubArticles{articles: candidateArticles(2)}
	drafts := newStubDrafts()
	gen := &scriptedGenerator{failKinds: map[domain.SectionKind]bool{domain.SectionClosing: true}}
	svc := newDraftService(&stubProfiles{profile: trainedProfile()}, articles, &stubTrends{}, drafts, gen)

	draft, err := svc.Generate(context.Background(), 7, domain.GenerateOptions{})
	if err != nil {
		t.Fatalf("отказ одной секции не должен валить сборку: %v", err)
	}
	if draft.Closing != "" {
		t.Fatalf("отказавшая секция должна быть пустой строкой, получили %q", draft.Closing)
	}
	if draft.ContentIntro == "" {
		t.Fatalf("остальные секции должны сохраниться")
	}
	if draft.Metadata["section_failures"] != 1 {
		t.Fatalf("ожидали 1 отказ, получили %v", draft.Metadata["section_failures"])
	}
	if drafts.created == nil {
		t.Fatalf("черновик должен быть сохранён несмотря на отказ секции")
	}
}

func TestGenerateAbortsAfterConsecutiveFailures(t *testing.T) {
	articles := &stubArticles{articles: candidateArticles(3)}
	drafts := newStubDrafts()
	gen := &scriptedGenerator{failKinds: map[domain.SectionKind]bool{domain.SectionCommentary: true}}
	svc := newDraftService(&stubProfiles{profile: trainedProfile()}, articles, &stubTrends{}, drafts, gen)

	_, err := svc.Generate(context.Background(), 7, domain.GenerateOptions{})
	if !errors.Is(err, ErrGenerationAborted) {
		t.Fatalf("ожидали ErrGenerationAborted, получили %v", err)
	}
	if drafts.created != nil {
		t.Fatalf("при прерывании ничего не должно сохраняться")
	}
}

func TestGenerateTrendsDegrade(t *testing.T) {
	articles := &stubArticles{articles: candidateArticles(1)}
	trends := &stubTrends{err: errors.New("хранилище недоступно")}
	drafts := newStubDrafts()
	svc := newDraftService(&stubProfiles{profile: trainedProfile()}, articles, trends, drafts, &scriptedGenerator{})

	draft, err := svc.Generate(context.Background(), 7, domain.GenerateOptions{IncludeTrends: true})
	if err != nil {
		t.Fatalf("недоступность трендов не должна валить сборку: %v", err)
	}
	if draft.TrendsSection != nil {
		t.Fatalf("при недоступных трендах секции быть не должно")
	}
}

func TestGenerateExplicitArticleIDs(t *testing.T) {
	articles := &stubArticles{articles: candidateArticles(2)}
	svc := newDraftService(&stubProfiles{profile: trainedProfile()}, articles, &stubTrends{}, newStubDrafts(), &scriptedGenerator{})

	_, err := svc.Generate(context.Background(), 7, domain.GenerateOptions{ArticleIDs: []string{"art-2", "art-1"}})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(articles.query.IDs) != 2 || articles.query.IDs[0] != "art-2" {
		t.Fatalf("явные идентификаторы должны передаваться в выборку: %+v", articles.query)
	}
	if !articles.query.Since.IsZero() {
		t.Fatalf("при явных идентификаторах окно давности не используется")
	}
}

func TestRunSectionsLimitsConcurrency(t *testing.T) {
	gen := &scriptedGenerator{delay: 10 * time.Millisecond}
	svc := NewService(&stubProfiles{}, &stubSamples{}, &stubArticles{}, &stubTrends{}, newStubDrafts(), gen,
		Config{MaxConcurrent: 2}, zerolog.Nop())

	jobs := make([]sectionJob, 8)
	for i := range jobs {
		jobs[i] = sectionJob{index: i, input: domain.GenerationInput{Kind: domain.SectionClosing}}
	}
	results := svc.runSections(context.Background(), jobs)
	for i, res := range results {
		if res.err != nil || res.text == "" {
			t.Fatalf("секция %d не сгенерирована: %v", i, res.err)
		}
	}
	if peak := atomic.LoadInt64(&gen.peak); peak > 2 {
		t.Fatalf("параллелизм должен быть ограничен 2, пик %d", peak)
	}
}

func pendingDraft(id string) domain.NewsletterDraft {
	return domain.NewsletterDraft{
		ID:     id,
		UserID: 7,
		Title:  "Newsletter — March 1, 2026",
		Status: domain.DraftStatusPending,
	}
}

func TestUpdateOnlyPending(t *testing.T) {
	approved := pendingDraft("d1")
	approved.Status = domain.DraftStatusApproved
	drafts := newStubDrafts(approved)
	svc := newDraftService(&stubProfiles{}, &stubArticles{}, &stubTrends{}, drafts, &scriptedGenerator{})

	newTitle := "Edited"
	if _, err := svc.Update(context.Background(), "d1", domain.DraftEdit{Title: &newTitle}); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("ожидали ErrNotEditable, получили %v", err)
	}
}

func TestUpdateBumpsEditCount(t *testing.T) {
	drafts := newStubDrafts(pendingDraft("d1"))
	svc := newDraftService(&stubProfiles{}, &stubArticles{}, &stubTrends{}, drafts, &scriptedGenerator{})

	newTitle := "Edited title"
	newClosing := "Edited closing"
	updated, err := svc.Update(context.Background(), "d1", domain.DraftEdit{Title: &newTitle, Closing: &newClosing})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if updated.Title != newTitle || updated.Closing != newClosing {
		t.Fatalf("правки не применены: %+v", updated)
	}
	if updated.EditCount != 1 {
		t.Fatalf("ожидали edit_count 1, получили %d", updated.EditCount)
	}

	updated, err = svc.Update(context.Background(), "d1", domain.DraftEdit{Title: &newTitle})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if updated.EditCount != 2 {
		t.Fatalf("каждая правка увеличивает счётчик, получили %d", updated.EditCount)
	}
}

func TestApproveSetsReviewFields(t *testing.T) {
	drafts := newStubDrafts(pendingDraft("d1"))
	svc := newDraftService(&stubProfiles{}, &stubArticles{}, &stubTrends{}, drafts, &scriptedGenerator{})

	approved, err := svc.Approve(context.Background(), "d1", 125)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if approved.Status != domain.DraftStatusApproved {
		t.Fatalf("ожидали approved, получили %s", approved.Status)
	}
	if approved.ReviewSeconds != 125 || approved.ReviewedAt == nil {
		t.Fatalf("поля ревью должны быть заполнены: %+v", approved)
	}
}

func TestDoubleApproveDoesNotMutate(t *testing.T) {
	drafts := newStubDrafts(pendingDraft("d1"))
	svc := newDraftService(&stubProfiles{}, &stubArticles{}, &stubTrends{}, drafts, &scriptedGenerator{})

	first, err := svc.Approve(context.Background(), "d1", 100)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if _, err := svc.Approve(context.Background(), "d1", 999); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("повторное одобрение должно быть ошибкой, получили %v", err)
	}
	stored, _ := drafts.GetDraft("d1")
	if stored.ReviewSeconds != first.ReviewSeconds || !stored.ReviewedAt.Equal(*first.ReviewedAt) {
		t.Fatalf("неудачный переход не должен менять черновик: %+v", stored)
	}
}

func TestMarkSentLifecycle(t *testing.T) {
	drafts := newStubDrafts(pendingDraft("d1"))
	svc := newDraftService(&stubProfiles{}, &stubArticles{}, &stubTrends{}, drafts, &scriptedGenerator{})

	// pending → sent запрещён.
	if _, err := svc.MarkSent(context.Background(), "d1", "smtp-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ожидали ErrInvalidTransition, получили %v", err)
	}

	if _, err := svc.Approve(context.Background(), "d1", 30); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	sent, err := svc.MarkSent(context.Background(), "d1", "smtp-1")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if sent.SentAt == nil || sent.DeliveryRef != "smtp-1" {
		t.Fatalf("поля отправки должны быть заполнены: %+v", sent)
	}

	// Из sent нет исходящих переходов.
	if _, err := svc.Discard(context.Background(), "d1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("sent — терминальный статус, получили %v", err)
	}
}

func TestDiscardFromPendingAndApproved(t *testing.T) {
	drafts := newStubDrafts(pendingDraft("d1"), pendingDraft("d2"))
	svc := newDraftService(&stubProfiles{}, &stubArticles{}, &stubTrends{}, drafts, &scriptedGenerator{})

	discarded, err := svc.Discard(context.Background(), "d1")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if discarded.Status != domain.DraftStatusDiscarded {
		t.Fatalf("ожидали discarded, получили %s", discarded.Status)
	}

	if _, err := svc.Approve(context.Background(), "d2", 10); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if _, err := svc.Discard(context.Background(), "d2"); err != nil {
		t.Fatalf("approved → discarded должен быть разрешён: %v", err)
	}

	// Из discarded переходов нет.
	if _, err := svc.Approve(context.Background(), "d1", 10); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("discarded — терминальный статус, получили %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newDraftService(&stubProfiles{}, &stubArticles{}, &stubTrends{}, newStubDrafts(), &scriptedGenerator{})
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("ожидали ErrDraftNotFound, получили %v", err)
	}
}
