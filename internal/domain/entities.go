package domain

import "time"

// TrainingSample описывает один образец текста пользователя.
// После анализа образец не изменяется; сброс обучения удаляет весь корпус.
type TrainingSample struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Title         string     `json:"title"`
	Text          string     `json:"text"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	WordCount     int        `json:"word_count"`
	SentenceCount int        `json:"sentence_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PunctuationStyle хранит частоты знаков препинания на предложение.
type PunctuationStyle struct {
	ExclamationRate float64 `json:"exclamation_rate"`
	QuestionRate    float64 `json:"question_rate"`
	SemicolonRate   float64 `json:"semicolon_rate"`
	ColonRate       float64 `json:"colon_rate"`
	DashRate        float64 `json:"dash_rate"`
}

// WritingStyle хранит лексические характеристики текста.
type WritingStyle struct {
	AdverbRate    float64 `json:"adverb_rate"`
	AdjectiveRate float64 `json:"adjective_rate"`
	AvgWordLength float64 `json:"avg_word_length"`
	// PassiveVoiceRate зарезервирован: текущий тегер не размечает залог.
	PassiveVoiceRate float64 `json:"passive_voice_rate"`
}

// StyleFeatures — стилометрические признаки одного образца.
type StyleFeatures struct {
	SentenceCount      int
	ParagraphCount     int
	WordCount          int
	AvgSentenceLength  float64
	AvgParagraphLength float64
	AvgWordLength      float64
	Punctuation        PunctuationStyle
	Writing            WritingStyle
	ToneMarkers        []string
	TransitionWords    []string
}

// VocabularyLevel — уровень словарного запаса автора.
type VocabularyLevel string

const (
	VocabularySimple       VocabularyLevel = "simple"
	VocabularyIntermediate VocabularyLevel = "intermediate"
	VocabularyAdvanced     VocabularyLevel = "advanced"
)

// StructurePattern — характер структуры абзацев автора.
type StructurePattern string

const (
	StructureConciseDirect      StructurePattern = "concise-direct"
	StructureDetailedAnalytical StructurePattern = "detailed-analytical"
)

// VoiceProfile — производный профиль стиля пользователя.
// Профиль всегда заменяется целиком при переобучении, инкрементальных
// слияний нет.
type VoiceProfile struct {
	UserID             int64            `json:"user_id"`
	AvgSentenceLength  float64          `json:"avg_sentence_length"`
	AvgParagraphLength float64          `json:"avg_paragraph_length"`
	AvgWordLength      float64          `json:"avg_word_length"`
	ToneMarkers        []string         `json:"tone_markers"`
	CommonPhrases      []string         `json:"common_phrases"`
	TransitionWords    []string         `json:"transition_words"`
	VocabularyLevel    VocabularyLevel  `json:"vocabulary_level"`
	StructurePattern   StructurePattern `json:"structure_pattern"`
	Punctuation        PunctuationStyle `json:"punctuation"`
	Writing            WritingStyle     `json:"writing"`
	SampleCount        int              `json:"sample_count"`
	Trained            bool             `json:"trained"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Trend описывает всплеск темы относительно исторической базы.
type Trend struct {
	ID              int64     `json:"id"`
	Topic           string    `json:"topic"`
	Keywords        []string  `json:"keywords"`
	ArticleCount    int       `json:"article_count"`
	Velocity        float64   `json:"velocity"`
	TrendScore      float64   `json:"trend_score"`
	DetectedAt      time.Time `json:"detected_at"`
	ExpiresAt       time.Time `json:"expires_at"`
	RelatedArticles []string  `json:"related_articles"`
	TimeWindow      string    `json:"time_window"`
}

// Article — материал, подготовленный к выпуску внешним пайплайном
// инжеста. BulletPoints и Hashtags заполняются до попадания сюда.
type Article struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	URL          string    `json:"url"`
	Source       string    `json:"source"`
	PublishedAt  time.Time `json:"published_at"`
	BulletPoints []string  `json:"bullet_points"`
	Hashtags     []string  `json:"hashtags"`
	Topic        string    `json:"topic"`
}

// DraftStatus — статус черновика в машине состояний согласования.
type DraftStatus string

const (
	DraftStatusPending   DraftStatus = "pending"
	DraftStatusApproved  DraftStatus = "approved"
	DraftStatusSent      DraftStatus = "sent"
	DraftStatusDiscarded DraftStatus = "discarded"
)

// Valid сообщает, что значение принадлежит машине состояний.
func (s DraftStatus) Valid() bool {
	switch s {
	case DraftStatusPending, DraftStatusApproved, DraftStatusSent, DraftStatusDiscarded:
		return true
	}
	return false
}

// CanTransition проверяет допустимость перехода статуса.
// Разрешены только pending→approved→sent и pending|approved→discarded.
func (s DraftStatus) CanTransition(to DraftStatus) bool {
	switch s {
	case DraftStatusPending:
		return to == DraftStatusApproved || to == DraftStatusDiscarded
	case DraftStatusApproved:
		return to == DraftStatusSent || to == DraftStatusDiscarded
	default:
		return false
	}
}

// Terminal сообщает, что из статуса нет исходящих переходов.
func (s DraftStatus) Terminal() bool {
	return s == DraftStatusSent || s == DraftStatusDiscarded
}

// DraftArticle — одна позиция рассылки со сгенерированным комментарием.
type DraftArticle struct {
	ArticleID    string   `json:"article_id"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	URL          string   `json:"url"`
	BulletPoints []string `json:"bullet_points,omitempty"`
	Hashtags     []string `json:"hashtags,omitempty"`
	Commentary   string   `json:"commentary"`
	Source       string   `json:"source"`
}

// TrendHighlight — один пункт трендовой секции черновика.
type TrendHighlight struct {
	Topic      string  `json:"topic"`
	Explainer  string  `json:"explainer"`
	TrendScore float64 `json:"trend_score"`
}

// TrendsSection — трендовая секция черновика: сгенерированное вступление
// и шаблонные пояснения по каждому тренду.
type TrendsSection struct {
	Intro  string           `json:"intro"`
	Trends []TrendHighlight `json:"trends"`
}

// NewsletterDraft — собранный черновик рассылки. Черновик не удаляется,
// только помечается discarded.
type NewsletterDraft struct {
	ID            string         `json:"id"`
	UserID        int64          `json:"user_id"`
	Title         string         `json:"title"`
	ContentIntro  string         `json:"content_intro"`
	Articles      []DraftArticle `json:"articles"`
	TrendsSection *TrendsSection `json:"trends_section,omitempty"`
	Closing       string         `json:"closing"`
	Status        DraftStatus    `json:"status"`
	EditCount     int            `json:"edit_count"`
	ReviewSeconds int            `json:"review_seconds"`
	ReviewedAt    *time.Time     `json:"reviewed_at,omitempty"`
	SentAt        *time.Time     `json:"sent_at,omitempty"`
	DeliveryRef   string         `json:"delivery_ref,omitempty"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}
