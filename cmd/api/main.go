package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"voiceletter/internal/adapters/api"
	"voiceletter/internal/adapters/generator"
	"voiceletter/internal/adapters/repo"
	"voiceletter/internal/domain"
	"voiceletter/internal/infra/config"
	"voiceletter/internal/infra/db"
	httpinfra "voiceletter/internal/infra/http"
	applog "voiceletter/internal/infra/log"
	"voiceletter/internal/infra/metrics"
	"voiceletter/internal/infra/openai"
	draftusecase "voiceletter/internal/usecase/draft"
	trendsusecase "voiceletter/internal/usecase/trends"
	voiceusecase "voiceletter/internal/usecase/voice"
)

func main() {
	cfg := config.Load()
	log.Logger = applog.NewLogger(cfg.AppEnv, "api")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("api: нет подключения к БД")
	}
	defer pool.Close()

	repoAdapter := repo.NewPostgres(pool)
	voiceGen := newGenerator(cfg)

	voiceSvc := voiceusecase.NewService(repoAdapter, repoAdapter, voiceGen,
		voiceParams(cfg), log.With().Str("component", "voice").Logger())
	trendSvc := trendsusecase.NewService(repoAdapter, repoAdapter,
		trendsConfig(cfg), log.With().Str("component", "trends").Logger())
	draftSvc := draftusecase.NewService(repoAdapter, repoAdapter, repoAdapter, repoAdapter, repoAdapter,
		voiceGen, draftusecase.Config{
			MaxArticles:   cfg.Drafts.MaxArticles,
			MaxConcurrent: cfg.Generator.MaxConcurrent,
		}, log.With().Str("component", "drafts").Logger())

	server := httpinfra.NewServer(log.With().Str("component", "http").Logger())
	handler := api.NewHandler(voiceSvc, trendSvc, draftSvc, log.With().Str("component", "api").Logger())
	handler.Routes(server.Router)

	metrics.StartServer(ctx, log.With().Str("component", "metrics").Logger(), ":9090")

	go func() {
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("api: сервер остановлен")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

// newGenerator выбирает реализацию генератора: LLM или шаблонный
// деградированный режим без внешних вызовов.
func newGenerator(cfg config.AppConfig) domain.VoiceGenerator {
	if cfg.Generator.Mode == "template" || cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("генератор работает в шаблонном режиме")
		return generator.NewTemplate()
	}
	client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
	return generator.NewOpenAI(client, cfg.OpenAI.Model, cfg.OpenAI.Temperature, cfg.OpenAI.Timeout)
}

func voiceParams(cfg config.AppConfig) voiceusecase.Params {
	params := voiceusecase.DefaultParams()
	if cfg.Voice.MinSamples > 0 {
		params.MinTrainingSamples = cfg.Voice.MinSamples
	}
	return params
}

func trendsConfig(cfg config.AppConfig) trendsusecase.Config {
	return trendsusecase.Config{
		MinArticleCount:      cfg.Trends.MinArticleCount,
		MinVelocity:          cfg.Trends.MinVelocity,
		CurrentWindowHours:   cfg.Trends.CurrentWindowHours,
		HistoricalWindowDays: cfg.Trends.HistoricalWindowDays,
		TopN:                 cfg.Trends.TopN,
		TTLDays:              cfg.Trends.TTLDays,
	}
}
