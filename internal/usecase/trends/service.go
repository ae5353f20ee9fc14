package trends

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"voiceletter/internal/domain"
	"voiceletter/internal/infra/metrics"
)

// Config содержит настройки детекции по умолчанию.
type Config struct {
	MinArticleCount      int
	MinVelocity          float64
	CurrentWindowHours   int
	HistoricalWindowDays int
	TopN                 int
	TTLDays              int
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{
		MinArticleCount:      3,
		MinVelocity:          20,
		CurrentWindowHours:   24,
		HistoricalWindowDays: 30,
		TopN:                 10,
		TTLDays:              7,
	}
}

// Service реализует детекцию трендов поверх потока материалов.
type Service struct {
	articles domain.ArticleSource
	repo     domain.TrendRepo
	cfg      Config
	log      zerolog.Logger
}

var _ domain.TrendService = (*Service)(nil)

// NewService создаёт сервис трендов.
func NewService(articles domain.ArticleSource, repo domain.TrendRepo, cfg Config, logger zerolog.Logger) *Service {
	return &Service{articles: articles, repo: repo, cfg: cfg, log: logger}
}

// Detect запускает детекцию: тренды пересчитываются заново и вставляются
// со сроком истечения, старые записи не обновляются.
func (s *Service) Detect(ctx context.Context, opts domain.DetectOptions) ([]domain.Trend, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	currentHours := opts.CurrentWindowHours
	if currentHours <= 0 {
		currentHours = s.cfg.CurrentWindowHours
	}
	historicalDays := opts.HistoricalWindowDays
	if historicalDays <= 0 {
		historicalDays = s.cfg.HistoricalWindowDays
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = s.cfg.TopN
	}

	currentFrom := now.Add(-time.Duration(currentHours) * time.Hour)
	historicalFrom := currentFrom.AddDate(0, 0, -historicalDays)

	start := time.Now()
	current, err := s.articles.ListBetween(currentFrom, now)
	if err != nil {
		return nil, fmt.Errorf("материалы текущего окна: %w", err)
	}
	historical, err := s.articles.ListBetween(historicalFrom, currentFrom)
	if err != nil {
		return nil, fmt.Errorf("материалы исторического окна: %w", err)
	}

	detected := Detect(current, historical, DetectParams{
		MinArticleCount:      s.cfg.MinArticleCount,
		MinVelocity:          s.cfg.MinVelocity,
		CurrentWindowDays:    float64(currentHours) / 24,
		HistoricalWindowDays: float64(historicalDays),
		TopN:                 topN,
		TTL:                  time.Duration(s.cfg.TTLDays) * 24 * time.Hour,
		Now:                  now,
		TimeWindow:           fmt.Sprintf("%dh", currentHours),
	})
	metrics.TrendDetectSeconds.Observe(time.Since(start).Seconds())

	if len(detected) == 0 {
		s.log.Info().Int("current_articles", len(current)).Msg("trends: всплесков не обнаружено")
		return nil, nil
	}

	saved, err := s.repo.InsertTrends(detected)
	if err != nil {
		return nil, fmt.Errorf("сохранение трендов: %w", err)
	}
	s.log.Info().
		Int("trends", len(saved)).
		Int("current_articles", len(current)).
		Int("historical_articles", len(historical)).
		Msg("trends: детекция завершена")
	return saved, nil
}

// Trending возвращает актуальные тренды по убыванию оценки. Истёкшие
// записи не попадают в выдачу.
func (s *Service) Trending(limit int) ([]domain.Trend, error) {
	if limit <= 0 {
		limit = s.cfg.TopN
	}
	trends, err := s.repo.ListCurrent(limit, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("выборка трендов: %w", err)
	}
	return trends, nil
}

// CleanupExpired удаляет истёкшие тренды. Операция обслуживания, не часть
// детекции.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpired(time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("очистка трендов: %w", err)
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("trends: истёкшие тренды удалены")
	}
	return removed, nil
}
