package domain

import (
	"context"
	"time"
)

// SampleRepo управляет корпусом обучающих образцов.
type SampleRepo interface {
	// ReplaceSamples атомарно заменяет корпус пользователя новым набором.
	ReplaceSamples(userID int64, samples []TrainingSample) ([]TrainingSample, error)
	ListSamples(userID int64) ([]TrainingSample, error)
	DeleteSamples(userID int64) error
}

// ProfileRepo хранит голосовые профили. Запись всегда заменяет снимок
// целиком, читатели видят либо старый, либо новый профиль.
type ProfileRepo interface {
	ReplaceProfile(profile VoiceProfile) (VoiceProfile, error)
	GetProfile(userID int64) (VoiceProfile, error)
	ListTrainedUserIDs() ([]int64, error)
}

// ArticleQuery описывает выборку материалов-кандидатов.
type ArticleQuery struct {
	IDs   []string
	Since time.Time
	Limit int
}

// ArticleSource возвращает материалы, подготовленные внешним инжестом.
type ArticleSource interface {
	FetchCandidates(userID int64, q ArticleQuery) ([]Article, error)
	// ListBetween возвращает материалы всех пользователей за интервал,
	// используется детектором трендов.
	ListBetween(from, to time.Time) ([]Article, error)
}

// TrendRepo хранит обнаруженные тренды.
type TrendRepo interface {
	InsertTrends(trends []Trend) ([]Trend, error)
	// ListCurrent возвращает неистёкшие тренды по убыванию trend_score.
	ListCurrent(limit int, now time.Time) ([]Trend, error)
	// DeleteExpired удаляет истёкшие тренды и возвращает число строк.
	DeleteExpired(now time.Time) (int64, error)
}

// DraftRepo хранит черновики рассылок.
type DraftRepo interface {
	CreateDraft(draft NewsletterDraft) (NewsletterDraft, error)
	GetDraft(id string) (NewsletterDraft, error)
	UpdateDraft(draft NewsletterDraft) error
	// ListDrafts: status == "" означает любой статус, сортировка по
	// generated_at по убыванию.
	ListDrafts(userID int64, status DraftStatus, limit int) ([]NewsletterDraft, error)
}

// SectionKind — тип генерируемой секции черновика.
type SectionKind string

const (
	SectionIntro      SectionKind = "intro"
	SectionCommentary SectionKind = "article-commentary"
	SectionTrends     SectionKind = "trend-explainer"
	SectionClosing    SectionKind = "closing"
	SectionVoiceTest  SectionKind = "free-topic-test"
)

// GenerationInput — типизированный запрос на генерацию одной секции.
// Заполняются только поля, относящиеся к Kind.
type GenerationInput struct {
	Kind         SectionKind
	Profile      VoiceProfile
	Samples      []TrainingSample
	Date         time.Time
	Topics       []string
	ArticleCount int
	Article      *Article
	TrendTopics  []string
	TestTopic    string
}

// VoiceGenerator порождает прозу в голосе пользователя и оценивает
// соответствие текста профилю.
type VoiceGenerator interface {
	Section(ctx context.Context, in GenerationInput) (string, error)
	Match(profile VoiceProfile, text string) float64
}

// TrendService отвечает за обнаружение и выборку трендов.
type TrendService interface {
	Detect(ctx context.Context, opts DetectOptions) ([]Trend, error)
	Trending(limit int) ([]Trend, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

// DetectOptions задаёт окна и пороги запуска детекции.
// Нулевые значения заменяются настройками сервиса.
type DetectOptions struct {
	Now                  time.Time
	CurrentWindowHours   int
	HistoricalWindowDays int
	TopN                 int
}

// VoiceService отвечает за обучение голосового профиля.
type VoiceService interface {
	Retrain(ctx context.Context, userID int64, samples []TrainingSample) (VoiceProfile, error)
	Profile(userID int64) (VoiceProfile, error)
	TestVoice(ctx context.Context, userID int64, topic string) (VoiceTestResult, error)
}

// VoiceTestResult — результат пробной генерации с оценкой соответствия.
type VoiceTestResult struct {
	Text       string  `json:"text"`
	MatchScore float64 `json:"match_score"`
}

// GenerateOptions управляет сборкой черновика.
type GenerateOptions struct {
	ArticleIDs    []string
	MaxArticles   int
	IncludeTrends bool
	Mode          string
}

// DraftEdit — частичное редактирование черновика в статусе pending.
type DraftEdit struct {
	Title        *string
	ContentIntro *string
	Closing      *string
}

// DraftService — оркестратор черновиков и их жизненного цикла.
type DraftService interface {
	Generate(ctx context.Context, userID int64, opts GenerateOptions) (NewsletterDraft, error)
	Update(ctx context.Context, draftID string, edit DraftEdit) (NewsletterDraft, error)
	Approve(ctx context.Context, draftID string, reviewSeconds int) (NewsletterDraft, error)
	MarkSent(ctx context.Context, draftID string, deliveryRef string) (NewsletterDraft, error)
	Discard(ctx context.Context, draftID string) (NewsletterDraft, error)
	Get(ctx context.Context, draftID string) (NewsletterDraft, error)
	List(ctx context.Context, userID int64, status DraftStatus, limit int) ([]NewsletterDraft, error)
}

// Cache дедуплицирует фоновые запуски между репликами.
type Cache interface {
	Once(key string, ttl time.Duration, fn func() error) error
}
