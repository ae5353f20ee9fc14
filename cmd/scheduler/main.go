package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"voiceletter/internal/adapters/repo"
	"voiceletter/internal/domain"
	"voiceletter/internal/infra/cache"
	"voiceletter/internal/infra/config"
	"voiceletter/internal/infra/db"
	applog "voiceletter/internal/infra/log"
	"voiceletter/internal/infra/metrics"
	"voiceletter/internal/infra/queue"
	trendsusecase "voiceletter/internal/usecase/trends"
)

const trendDetectEvery = time.Hour

func main() {
	cfg := config.Load()
	log.Logger = applog.NewLogger(cfg.AppEnv, "scheduler")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler: нет подключения к БД")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	dedup := cache.NewRedis(redisClient)

	repoAdapter := repo.NewPostgres(pool)
	trendSvc := trendsusecase.NewService(repoAdapter, repoAdapter, trendsusecase.Config{
		MinArticleCount:      cfg.Trends.MinArticleCount,
		MinVelocity:          cfg.Trends.MinVelocity,
		CurrentWindowHours:   cfg.Trends.CurrentWindowHours,
		HistoricalWindowDays: cfg.Trends.HistoricalWindowDays,
		TopN:                 cfg.Trends.TopN,
		TTLDays:              cfg.Trends.TTLDays,
	}, log.With().Str("component", "trends").Logger())

	jobs, closeQueue, err := newDraftQueue(cfg, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler: очередь недоступна")
	}
	defer closeQueue()

	metrics.StartServer(ctx, log.With().Str("component", "metrics").Logger(), ":9090")

	log.Info().Dur("tick", cfg.Schedule.Tick).Int("daily_hour", cfg.Schedule.DailyHour).Msg("scheduler: старт")
	ticker := time.NewTicker(cfg.Schedule.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler: остановка")
			return
		case <-ticker.C:
			now := time.Now().UTC()
			runTrendMaintenance(ctx, trendSvc, dedup, now)
			runDailyDrafts(ctx, repoAdapter, jobs, cfg, now)
		}
	}
}

// runTrendMaintenance пересчитывает тренды и чистит истёкшие не чаще раза
// в час; дедупликация между репликами через Redis.
func runTrendMaintenance(ctx context.Context, trendSvc *trendsusecase.Service, dedup domain.Cache, now time.Time) {
	key := "trend_detect:" + now.Truncate(trendDetectEvery).Format("2006-01-02T15")
	err := dedup.Once(key, trendDetectEvery, func() error {
		detected, err := trendSvc.Detect(ctx, domain.DetectOptions{Now: now})
		if err != nil {
			return fmt.Errorf("детекция трендов: %w", err)
		}
		removed, err := trendSvc.CleanupExpired(ctx)
		if err != nil {
			return fmt.Errorf("чистка трендов: %w", err)
		}
		log.Info().Int("detected", len(detected)).Int64("removed", removed).Msg("scheduler: тренды обновлены")
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("scheduler: обслуживание трендов")
	}
}

// runDailyDrafts ставит задачи на ежедневные черновики для всех обученных
// пользователей. Acquire гарантирует одну задачу на пользователя и дату.
func runDailyDrafts(ctx context.Context, repoAdapter *repo.Postgres, jobs domain.DraftQueue, cfg config.AppConfig, now time.Time) {
	if now.Hour() != cfg.Schedule.DailyHour {
		return
	}
	scheduledFor := time.Date(now.Year(), now.Month(), now.Day(), cfg.Schedule.DailyHour, 0, 0, 0, time.UTC)

	userIDs, err := repoAdapter.ListTrainedUserIDs()
	if err != nil {
		log.Error().Err(err).Msg("scheduler: выборка пользователей")
		return
	}
	for _, userID := range userIDs {
		acquired, err := repoAdapter.Acquire(userID, scheduledFor)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("scheduler: захват слота")
			continue
		}
		if !acquired {
			continue
		}
		job := domain.DraftJob{
			ID:            uuid.NewString(),
			UserID:        userID,
			Date:          scheduledFor,
			RequestedAt:   now,
			Cause:         domain.DraftCauseScheduled,
			MaxArticles:   cfg.Drafts.MaxArticles,
			IncludeTrends: true,
		}
		if err := jobs.Enqueue(ctx, job); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("scheduler: постановка задачи")
			continue
		}
		log.Info().Int64("user_id", userID).Str("job_id", job.ID).Msg("scheduler: задача поставлена")
	}
}

func newDraftQueue(cfg config.AppConfig, redisClient *redis.Client) (domain.DraftQueue, func(), error) {
	if cfg.Queue.Backend == "rabbitmq" {
		q, err := queue.NewRabbitDraftQueue(cfg.Queue.AMQPURL, cfg.Queue.AMQPQueue)
		if err != nil {
			return nil, nil, err
		}
		return q, func() { _ = q.Close() }, nil
	}
	return queue.NewRedisDraftQueue(redisClient, cfg.Queue.RedisKey), func() {}, nil
}
