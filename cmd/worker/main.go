package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"voiceletter/internal/adapters/generator"
	"voiceletter/internal/adapters/repo"
	"voiceletter/internal/domain"
	"voiceletter/internal/infra/config"
	"voiceletter/internal/infra/db"
	applog "voiceletter/internal/infra/log"
	"voiceletter/internal/infra/metrics"
	"voiceletter/internal/infra/openai"
	"voiceletter/internal/infra/queue"
	draftusecase "voiceletter/internal/usecase/draft"
)

const maxJobAttempts = 3

func main() {
	cfg := config.Load()
	log.Logger = applog.NewLogger(cfg.AppEnv, "worker")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("worker: нет подключения к БД")
	}
	defer pool.Close()

	repoAdapter := repo.NewPostgres(pool)
	voiceGen := newGenerator(cfg)
	draftSvc := draftusecase.NewService(repoAdapter, repoAdapter, repoAdapter, repoAdapter, repoAdapter,
		voiceGen, draftusecase.Config{
			MaxArticles:   cfg.Drafts.MaxArticles,
			MaxConcurrent: cfg.Generator.MaxConcurrent,
		}, log.With().Str("component", "drafts").Logger())

	jobs, closeQueue, err := newDraftQueue(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("worker: очередь недоступна")
	}
	defer closeQueue()

	metrics.StartServer(ctx, log.With().Str("component", "metrics").Logger(), ":9090")

	log.Info().Str("backend", cfg.Queue.Backend).Msg("worker: старт")
	for {
		job, ack, err := jobs.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				break
			}
			log.Error().Err(err).Msg("worker: приём задачи")
			continue
		}
		processJob(ctx, draftSvc, repoAdapter, job, ack)
	}
	log.Info().Msg("worker: остановка")
}

// processJob обрабатывает одну задачу с идемпотентностью: уже доставленная
// задача подтверждается без повторной генерации, безнадёжная — после
// maxJobAttempts попыток.
func processJob(ctx context.Context, drafts domain.DraftService, status domain.DraftJobStatusRepo, job domain.DraftJob, ack domain.DraftAckFunc) {
	logger := log.With().Str("job_id", job.ID).Int64("user_id", job.UserID).Logger()

	delivered, attempt, err := status.EnsureDraftJob(job.ID)
	if err != nil {
		logger.Error().Err(err).Msg("worker: регистрация задачи")
		_ = ack(false)
		return
	}
	if delivered {
		logger.Info().Msg("worker: задача уже доставлена, пропуск")
		_ = ack(true)
		return
	}
	if attempt > maxJobAttempts {
		logger.Error().Int("attempt", attempt).Msg("worker: задача отброшена после исчерпания попыток")
		_ = ack(true)
		return
	}

	draft, err := drafts.Generate(ctx, job.UserID, domain.GenerateOptions{
		MaxArticles:   job.MaxArticles,
		IncludeTrends: job.IncludeTrends,
		Mode:          job.Mode,
	})
	if err != nil {
		// Прикладные отказы (нет профиля, нет материалов) не лечатся
		// повтором, такие задачи подтверждаются.
		if errors.Is(err, draftusecase.ErrNoVoiceProfile) || errors.Is(err, draftusecase.ErrNoArticles) {
			logger.Warn().Err(err).Msg("worker: задача невыполнима")
			_ = ack(true)
			return
		}
		logger.Error().Err(err).Int("attempt", attempt).Msg("worker: генерация черновика")
		_ = ack(false)
		return
	}

	if err := status.MarkDraftJobDelivered(job.ID); err != nil {
		logger.Error().Err(err).Msg("worker: отметка доставки")
		_ = ack(false)
		return
	}
	logger.Info().Str("draft_id", draft.ID).Msg("worker: черновик собран")
	_ = ack(true)
}

func newDraftQueue(cfg config.AppConfig) (domain.DraftQueue, func(), error) {
	switch cfg.Queue.Backend {
	case "rabbitmq":
		q, err := queue.NewRabbitDraftQueue(cfg.Queue.AMQPURL, cfg.Queue.AMQPQueue)
		if err != nil {
			return nil, nil, err
		}
		return q, func() { _ = q.Close() }, nil
	default:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		q := queue.NewRedisDraftQueue(client, cfg.Queue.RedisKey)
		return q, func() { _ = client.Close() }, nil
	}
}

func newGenerator(cfg config.AppConfig) domain.VoiceGenerator {
	if cfg.Generator.Mode == "template" || cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("генератор работает в шаблонном режиме")
		return generator.NewTemplate()
	}
	client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
	return generator.NewOpenAI(client, cfg.OpenAI.Model, cfg.OpenAI.Temperature, cfg.OpenAI.Timeout)
}
