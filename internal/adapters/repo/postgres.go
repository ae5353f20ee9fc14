package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"voiceletter/internal/domain"
	"voiceletter/internal/infra/metrics"
)

// Postgres реализует репозитории на основе pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var (
	_ domain.SampleRepo         = (*Postgres)(nil)
	_ domain.ProfileRepo        = (*Postgres)(nil)
	_ domain.ArticleSource      = (*Postgres)(nil)
	_ domain.TrendRepo          = (*Postgres)(nil)
	_ domain.DraftRepo          = (*Postgres)(nil)
	_ domain.DraftJobStatusRepo = (*Postgres)(nil)
	_ domain.ScheduleTaskRepo   = (*Postgres)(nil)
)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// ReplaceSamples атомарно заменяет корпус пользователя: старые образцы
// удаляются, новые вставляются в переданном порядке.
func (p *Postgres) ReplaceSamples(userID int64, samples []domain.TrainingSample) ([]domain.TrainingSample, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	metrics.ObserveNetworkRequest("postgres", "begin_tx", "training_samples", start, err)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	start = time.Now()
	_, err = tx.Exec(ctx, `DELETE FROM training_samples WHERE user_id=$1`, userID)
	metrics.ObserveNetworkRequest("postgres", "samples_delete", "training_samples", start, err)
	if err != nil {
		return nil, err
	}

	saved := make([]domain.TrainingSample, 0, len(samples))
	for _, sample := range samples {
		var publishedAt sql.NullTime
		if sample.PublishedAt != nil {
			publishedAt = sql.NullTime{Time: *sample.PublishedAt, Valid: true}
		}
		start = time.Now()
		err = tx.QueryRow(ctx, `
INSERT INTO training_samples (user_id, title, text, published_at, word_count, sentence_count)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at
`, userID, sample.Title, sample.Text, publishedAt, sample.WordCount, sample.SentenceCount).Scan(&sample.ID, &sample.CreatedAt)
		metrics.ObserveNetworkRequest("postgres", "samples_insert", "training_samples", start, err)
		if err != nil {
			return nil, err
		}
		sample.UserID = userID
		saved = append(saved, sample)
	}

	start = time.Now()
	err = tx.Commit(ctx)
	metrics.ObserveNetworkRequest("postgres", "commit", "training_samples", start, err)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ListSamples возвращает корпус пользователя в порядке добавления.
func (p *Postgres) ListSamples(userID int64) ([]domain.TrainingSample, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, user_id, title, text, published_at, word_count, sentence_count, created_at
FROM training_samples WHERE user_id=$1 ORDER BY id
`, userID)
	metrics.ObserveNetworkRequest("postgres", "samples_list", "training_samples", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []domain.TrainingSample
	for rows.Next() {
		var sample domain.TrainingSample
		var publishedAt sql.NullTime
		if err := rows.Scan(&sample.ID, &sample.UserID, &sample.Title, &sample.Text, &publishedAt, &sample.WordCount, &sample.SentenceCount, &sample.CreatedAt); err != nil {
			return nil, err
		}
		if publishedAt.Valid {
			ts := publishedAt.Time
			sample.PublishedAt = &ts
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// DeleteSamples удаляет весь корпус пользователя (сброс обучения).
func (p *Postgres) DeleteSamples(userID int64) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `DELETE FROM training_samples WHERE user_id=$1`, userID)
	metrics.ObserveNetworkRequest("postgres", "samples_delete", "training_samples", start, err)
	return err
}

// ReplaceProfile сохраняет профиль целиком: одна строка на пользователя,
// запись всегда перезаписывает снимок.
func (p *Postgres) ReplaceProfile(profile domain.VoiceProfile) (domain.VoiceProfile, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	punctuation, err := json.Marshal(profile.Punctuation)
	if err != nil {
		return domain.VoiceProfile{}, fmt.Errorf("marshal punctuation: %w", err)
	}
	writing, err := json.Marshal(profile.Writing)
	if err != nil {
		return domain.VoiceProfile{}, fmt.Errorf("marshal writing: %w", err)
	}

	start := time.Now()
	err = p.pool.QueryRow(ctx, `
INSERT INTO voice_profiles (user_id, avg_sentence_length, avg_paragraph_length, avg_word_length,
	tone_markers, common_phrases, transition_words, vocabulary_level, structure_pattern,
	punctuation, writing, sample_count, trained, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
ON CONFLICT (user_id) DO UPDATE SET
	avg_sentence_length = EXCLUDED.avg_sentence_length,
	avg_paragraph_length = EXCLUDED.avg_paragraph_length,
	avg_word_length = EXCLUDED.avg_word_length,
	tone_markers = EXCLUDED.tone_markers,
	common_phrases = EXCLUDED.common_phrases,
	transition_words = EXCLUDED.transition_words,
	vocabulary_level = EXCLUDED.vocabulary_level,
	structure_pattern = EXCLUDED.structure_pattern,
	punctuation = EXCLUDED.punctuation,
	writing = EXCLUDED.writing,
	sample_count = EXCLUDED.sample_count,
	trained = EXCLUDED.trained,
	updated_at = now()
RETURNING updated_at
`, profile.UserID, profile.AvgSentenceLength, profile.AvgParagraphLength, profile.AvgWordLength,
		profile.ToneMarkers, profile.CommonPhrases, profile.TransitionWords,
		string(profile.VocabularyLevel), string(profile.StructurePattern),
		punctuation, writing, profile.SampleCount, profile.Trained).Scan(&profile.UpdatedAt)
	metrics.ObserveNetworkRequest("postgres", "profile_upsert", "voice_profiles", start, err)
	if err != nil {
		return domain.VoiceProfile{}, err
	}
	return profile, nil
}

// GetProfile возвращает профиль пользователя.
func (p *Postgres) GetProfile(userID int64) (domain.VoiceProfile, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var profile domain.VoiceProfile
	var vocabulary, structure string
	var punctuation, writing []byte

	start := time.Now()
	err := p.pool.QueryRow(ctx, `
SELECT user_id, avg_sentence_length, avg_paragraph_length, avg_word_length,
	tone_markers, common_phrases, transition_words, vocabulary_level, structure_pattern,
	punctuation, writing, sample_count, trained, updated_at
FROM voice_profiles WHERE user_id=$1
`, userID).Scan(&profile.UserID, &profile.AvgSentenceLength, &profile.AvgParagraphLength, &profile.AvgWordLength,
		&profile.ToneMarkers, &profile.CommonPhrases, &profile.TransitionWords, &vocabulary, &structure,
		&punctuation, &writing, &profile.SampleCount, &profile.Trained, &profile.UpdatedAt)
	metrics.ObserveNetworkRequest("postgres", "profile_get", "voice_profiles", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.VoiceProfile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.VoiceProfile{}, err
	}

	profile.VocabularyLevel = domain.VocabularyLevel(vocabulary)
	profile.StructurePattern = domain.StructurePattern(structure)
	if err := json.Unmarshal(punctuation, &profile.Punctuation); err != nil {
		return domain.VoiceProfile{}, fmt.Errorf("malformed punctuation record: %w", err)
	}
	if err := json.Unmarshal(writing, &profile.Writing); err != nil {
		return domain.VoiceProfile{}, fmt.Errorf("malformed writing record: %w", err)
	}
	return profile, nil
}

// ListTrainedUserIDs возвращает пользователей с обученным профилем.
func (p *Postgres) ListTrainedUserIDs() ([]int64, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `SELECT user_id FROM voice_profiles WHERE trained ORDER BY user_id`)
	metrics.ObserveNetworkRequest("postgres", "profile_list_trained", "voice_profiles", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const articleColumns = `id, user_id, title, summary, url, source, published_at, bullet_points, hashtags, topic`

func scanArticle(row pgx.Row) (domain.Article, error) {
	var article domain.Article
	err := row.Scan(&article.ID, &article.UserID, &article.Title, &article.Summary, &article.URL,
		&article.Source, &article.PublishedAt, &article.BulletPoints, &article.Hashtags, &article.Topic)
	return article, err
}

// FetchCandidates возвращает материалы-кандидаты: либо явные идентификаторы
// в исходном порядке, либо свежие материалы пользователя по убыванию даты.
func (p *Postgres) FetchCandidates(userID int64, q domain.ArticleQuery) ([]domain.Article, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	if len(q.IDs) > 0 {
		start := time.Now()
		rows, err := p.pool.Query(ctx, `
SELECT `+articleColumns+` FROM articles WHERE user_id=$1 AND id = ANY($2)
`, userID, q.IDs)
		metrics.ObserveNetworkRequest("postgres", "articles_by_ids", "articles", start, err)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		byID := make(map[string]domain.Article, len(q.IDs))
		for rows.Next() {
			article, err := scanArticle(rows)
			if err != nil {
				return nil, err
			}
			byID[article.ID] = article
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		// Порядок явных идентификаторов сохраняется.
		ordered := make([]domain.Article, 0, len(q.IDs))
		for _, id := range q.IDs {
			if article, ok := byID[id]; ok {
				ordered = append(ordered, article)
			}
		}
		return ordered, nil
	}

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT `+articleColumns+` FROM articles
WHERE user_id=$1 AND published_at >= $2
ORDER BY published_at DESC
LIMIT $3
`, userID, q.Since, q.Limit)
	metrics.ObserveNetworkRequest("postgres", "articles_recent", "articles", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// ListBetween возвращает материалы всех пользователей за интервал
// [from, to) для детекции трендов.
func (p *Postgres) ListBetween(from, to time.Time) ([]domain.Article, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT `+articleColumns+` FROM articles
WHERE published_at >= $1 AND published_at < $2
ORDER BY published_at
`, from, to)
	metrics.ObserveNetworkRequest("postgres", "articles_between", "articles", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// InsertTrends вставляет пересчитанные тренды со сроком истечения.
func (p *Postgres) InsertTrends(trends []domain.Trend) ([]domain.Trend, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	metrics.ObserveNetworkRequest("postgres", "begin_tx", "trends", start, err)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	saved := make([]domain.Trend, 0, len(trends))
	for _, trend := range trends {
		start = time.Now()
		err = tx.QueryRow(ctx, `
INSERT INTO trends (topic, keywords, article_count, velocity, trend_score, detected_at, expires_at, related_articles, time_window)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`, trend.Topic, trend.Keywords, trend.ArticleCount, trend.Velocity, trend.TrendScore,
			trend.DetectedAt, trend.ExpiresAt, trend.RelatedArticles, trend.TimeWindow).Scan(&trend.ID)
		metrics.ObserveNetworkRequest("postgres", "trends_insert", "trends", start, err)
		if err != nil {
			return nil, err
		}
		saved = append(saved, trend)
	}

	start = time.Now()
	err = tx.Commit(ctx)
	metrics.ObserveNetworkRequest("postgres", "commit", "trends", start, err)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ListCurrent возвращает неистёкшие тренды по убыванию оценки.
func (p *Postgres) ListCurrent(limit int, now time.Time) ([]domain.Trend, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, topic, keywords, article_count, velocity, trend_score, detected_at, expires_at, related_articles, time_window
FROM trends WHERE expires_at > $1
ORDER BY trend_score DESC, detected_at DESC
LIMIT $2
`, now, limit)
	metrics.ObserveNetworkRequest("postgres", "trends_current", "trends", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []domain.Trend
	for rows.Next() {
		var trend domain.Trend
		if err := rows.Scan(&trend.ID, &trend.Topic, &trend.Keywords, &trend.ArticleCount, &trend.Velocity,
			&trend.TrendScore, &trend.DetectedAt, &trend.ExpiresAt, &trend.RelatedArticles, &trend.TimeWindow); err != nil {
			return nil, err
		}
		trends = append(trends, trend)
	}
	return trends, rows.Err()
}

// DeleteExpired удаляет истёкшие тренды и возвращает число строк.
func (p *Postgres) DeleteExpired(now time.Time) (int64, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `DELETE FROM trends WHERE expires_at <= $1`, now)
	metrics.ObserveNetworkRequest("postgres", "trends_cleanup", "trends", start, err)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CreateDraft сохраняет собранный черновик целиком.
func (p *Postgres) CreateDraft(draft domain.NewsletterDraft) (domain.NewsletterDraft, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	articles, trendsSection, metadata, err := marshalDraftSections(draft)
	if err != nil {
		return domain.NewsletterDraft{}, err
	}

	start := time.Now()
	_, err = p.pool.Exec(ctx, `
INSERT INTO drafts (id, user_id, title, content_intro, articles, trends_section, closing, status,
	edit_count, review_seconds, delivery_ref, generated_at, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`, draft.ID, draft.UserID, draft.Title, draft.ContentIntro, articles, trendsSection, draft.Closing,
		string(draft.Status), draft.EditCount, draft.ReviewSeconds, draft.DeliveryRef, draft.GeneratedAt, metadata)
	metrics.ObserveNetworkRequest("postgres", "drafts_insert", "drafts", start, err)
	if err != nil {
		return domain.NewsletterDraft{}, err
	}
	return draft, nil
}

// GetDraft возвращает черновик по идентификатору.
func (p *Postgres) GetDraft(id string) (domain.NewsletterDraft, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	draft, err := scanDraft(p.pool.QueryRow(ctx, `
SELECT id, user_id, title, content_intro, articles, trends_section, closing, status,
	edit_count, review_seconds, reviewed_at, sent_at, delivery_ref, generated_at, metadata
FROM drafts WHERE id=$1
`, id))
	metrics.ObserveNetworkRequest("postgres", "drafts_get", "drafts", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewsletterDraft{}, domain.ErrDraftNotFound
	}
	return draft, err
}

// UpdateDraft перезаписывает изменяемые поля черновика.
func (p *Postgres) UpdateDraft(draft domain.NewsletterDraft) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	articles, trendsSection, metadata, err := marshalDraftSections(draft)
	if err != nil {
		return err
	}

	var reviewedAt, sentAt sql.NullTime
	if draft.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *draft.ReviewedAt, Valid: true}
	}
	if draft.SentAt != nil {
		sentAt = sql.NullTime{Time: *draft.SentAt, Valid: true}
	}

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `
UPDATE drafts SET title=$2, content_intro=$3, articles=$4, trends_section=$5, closing=$6, status=$7,
	edit_count=$8, review_seconds=$9, reviewed_at=$10, sent_at=$11, delivery_ref=$12, metadata=$13
WHERE id=$1
`, draft.ID, draft.Title, draft.ContentIntro, articles, trendsSection, draft.Closing, string(draft.Status),
		draft.EditCount, draft.ReviewSeconds, reviewedAt, sentAt, draft.DeliveryRef, metadata)
	metrics.ObserveNetworkRequest("postgres", "drafts_update", "drafts", start, err)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}

// ListDrafts возвращает черновики пользователя по убыванию generated_at.
// Пустой статус означает любой.
func (p *Postgres) ListDrafts(userID int64, status domain.DraftStatus, limit int) ([]domain.NewsletterDraft, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	query := `
SELECT id, user_id, title, content_intro, articles, trends_section, closing, status,
	edit_count, review_seconds, reviewed_at, sent_at, delivery_ref, generated_at, metadata
FROM drafts WHERE user_id=$1`
	args := []any{userID}
	if status != "" {
		query += ` AND status=$2 ORDER BY generated_at DESC LIMIT $3`
		args = append(args, string(status), limit)
	} else {
		query += ` ORDER BY generated_at DESC LIMIT $2`
		args = append(args, limit)
	}

	start := time.Now()
	rows, err := p.pool.Query(ctx, query, args...)
	metrics.ObserveNetworkRequest("postgres", "drafts_list", "drafts", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []domain.NewsletterDraft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}

func marshalDraftSections(draft domain.NewsletterDraft) (articles, trendsSection, metadata []byte, err error) {
	articles, err = json.Marshal(draft.Articles)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal articles: %w", err)
	}
	if draft.TrendsSection != nil {
		trendsSection, err = json.Marshal(draft.TrendsSection)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshal trends section: %w", err)
		}
	}
	if draft.Metadata != nil {
		metadata, err = json.Marshal(draft.Metadata)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshal metadata: %w", err)
		}
	}
	return articles, trendsSection, metadata, nil
}

// scanDraft читает строку черновика. Вложенные секции хранятся как JSONB и
// проверяются на корректность здесь, на границе хранилища.
func scanDraft(row pgx.Row) (domain.NewsletterDraft, error) {
	var draft domain.NewsletterDraft
	var status string
	var articles, trendsSection, metadata []byte
	var reviewedAt, sentAt sql.NullTime

	err := row.Scan(&draft.ID, &draft.UserID, &draft.Title, &draft.ContentIntro, &articles, &trendsSection,
		&draft.Closing, &status, &draft.EditCount, &draft.ReviewSeconds, &reviewedAt, &sentAt,
		&draft.DeliveryRef, &draft.GeneratedAt, &metadata)
	if err != nil {
		return domain.NewsletterDraft{}, err
	}

	draft.Status = domain.DraftStatus(status)
	if len(articles) > 0 {
		if err := json.Unmarshal(articles, &draft.Articles); err != nil {
			return domain.NewsletterDraft{}, fmt.Errorf("malformed draft articles: %w", err)
		}
	}
	if len(trendsSection) > 0 {
		var section domain.TrendsSection
		if err := json.Unmarshal(trendsSection, &section); err != nil {
			return domain.NewsletterDraft{}, fmt.Errorf("malformed trends section: %w", err)
		}
		draft.TrendsSection = &section
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &draft.Metadata); err != nil {
			return domain.NewsletterDraft{}, fmt.Errorf("malformed draft metadata: %w", err)
		}
	}
	if reviewedAt.Valid {
		ts := reviewedAt.Time
		draft.ReviewedAt = &ts
	}
	if sentAt.Valid {
		ts := sentAt.Time
		draft.SentAt = &ts
	}
	return draft, nil
}

// EnsureDraftJob регистрирует попытку обработки задачи.
func (p *Postgres) EnsureDraftJob(jobID string) (bool, int, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var delivered bool
	var attempt int
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
INSERT INTO draft_jobs (job_id, attempts, delivered)
VALUES ($1, 1, false)
ON CONFLICT (job_id) DO UPDATE SET attempts = draft_jobs.attempts + 1, updated_at = now()
RETURNING delivered, attempts
`, jobID).Scan(&delivered, &attempt)
	metrics.ObserveNetworkRequest("postgres", "draft_jobs_ensure", "draft_jobs", start, err)
	if err != nil {
		return false, 0, err
	}
	return delivered, attempt, nil
}

// MarkDraftJobDelivered помечает задачу доставленной.
func (p *Postgres) MarkDraftJobDelivered(jobID string) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `UPDATE draft_jobs SET delivered = true, updated_at = now() WHERE job_id=$1`, jobID)
	metrics.ObserveNetworkRequest("postgres", "draft_jobs_delivered", "draft_jobs", start, err)
	return err
}

// Acquire идемпотентно помечает запланированный запуск. Возвращает false,
// если запуск на это время уже зарегистрирован.
func (p *Postgres) Acquire(userID int64, scheduledFor time.Time) (bool, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `
INSERT INTO schedule_tasks (user_id, scheduled_for)
VALUES ($1, $2)
ON CONFLICT (user_id, scheduled_for) DO NOTHING
`, userID, scheduledFor)
	metrics.ObserveNetworkRequest("postgres", "schedule_acquire", "schedule_tasks", start, err)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
