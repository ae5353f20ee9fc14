package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	DraftBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "draft_build_seconds",
		Help:    "Время сборки черновика",
		Buckets: prometheus.DefBuckets,
	})
	TrendDetectSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trend_detect_seconds",
		Help:    "Время детекции трендов",
		Buckets: prometheus.DefBuckets,
	})
	VoiceTrainSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "voice_train_seconds",
		Help:    "Время переобучения голосового профиля",
		Buckets: prometheus.DefBuckets,
	})

	SectionFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "draft_section_failures_total",
		Help: "Отказы генерации секций черновика",
	}, []string{"section"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90, 120, 180, 300},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	LLMGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_generation_duration_seconds",
		Help:    "Длительность генерации ответа LLM",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Количество токенов, использованных LLM",
	}, []string{"model", "type"})

	DraftRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "draft_requests_total",
		Help: "Общее количество запросов на сборку черновика",
	})

	DraftRequestsByUser = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "draft_requests_by_user_total",
		Help: "Количество запросов на сборку черновика по пользователям",
	}, []string{"user_id"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		DraftBuildSeconds,
		TrendDetectSeconds,
		VoiceTrainSeconds,
		SectionFailuresTotal,
		NetworkRequestDuration,
		NetworkRequestTotal,
		LLMGenerationDuration,
		LLMTokensTotal,
		DraftRequestsTotal,
		DraftRequestsByUser,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveLLMGeneration записывает длительность и токены генерации LLM.
func ObserveLLMGeneration(model string, duration time.Duration, promptTokens, completionTokens, totalTokens int) {
	if model == "" {
		model = "unknown"
	}
	LLMGenerationDuration.WithLabelValues(model).Observe(duration.Seconds())
	if promptTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
	if totalTokens <= 0 {
		totalTokens = promptTokens + completionTokens
	}
	if totalTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "total").Add(float64(totalTokens))
	}
}

// IncDraftOverall увеличивает общий счётчик запросов на черновик.
func IncDraftOverall() {
	DraftRequestsTotal.Inc()
}

// IncDraftForUser увеличивает счётчик запросов на черновик пользователя.
func IncDraftForUser(userID int64) {
	DraftRequestsByUser.WithLabelValues(strconv.FormatInt(userID, 10)).Inc()
}

// IncSectionFailure фиксирует отказ генерации секции.
func IncSectionFailure(section string) {
	SectionFailuresTotal.WithLabelValues(section).Inc()
}
