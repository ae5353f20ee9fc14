package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"UTC"`
	Port   int    `envconfig:"PORT" default:"8080"`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	OpenAI struct {
		APIKey      string        `envconfig:"OPENAI_API_KEY"`
		BaseURL     string        `envconfig:"OPENAI_BASE_URL"`
		Model       string        `envconfig:"OPENAI_MODEL" default:"gpt-4.1-mini"`
		Temperature float64       `envconfig:"OPENAI_TEMPERATURE" default:"0.7"`
		Timeout     time.Duration `envconfig:"OPENAI_TIMEOUT" default:"30s"`
	} `envconfig:""`

	Generator struct {
		// Mode: openai или template (деградированный режим без LLM).
		Mode          string `envconfig:"GENERATOR_MODE" default:"openai"`
		MaxConcurrent int    `envconfig:"GENERATOR_MAX_CONCURRENT" default:"5"`
	} `envconfig:""`

	Voice struct {
		MinSamples int `envconfig:"VOICE_MIN_SAMPLES" default:"3"`
	} `envconfig:""`

	Trends struct {
		MinArticleCount      int     `envconfig:"TRENDS_MIN_ARTICLES" default:"3"`
		MinVelocity          float64 `envconfig:"TRENDS_MIN_VELOCITY" default:"20"`
		CurrentWindowHours   int     `envconfig:"TRENDS_CURRENT_WINDOW_HOURS" default:"24"`
		HistoricalWindowDays int     `envconfig:"TRENDS_HISTORICAL_WINDOW_DAYS" default:"30"`
		TopN                 int     `envconfig:"TRENDS_TOP_N" default:"10"`
		TTLDays              int     `envconfig:"TRENDS_TTL_DAYS" default:"7"`
	} `envconfig:""`

	Drafts struct {
		MaxArticles int `envconfig:"DRAFT_MAX_ARTICLES" default:"10"`
	} `envconfig:""`

	Queue struct {
		// Backend: redis или rabbitmq.
		Backend   string `envconfig:"QUEUE_BACKEND" default:"redis"`
		RedisKey  string `envconfig:"DRAFT_QUEUE_KEY" default:"draft_jobs"`
		AMQPURL   string `envconfig:"AMQP_URL"`
		AMQPQueue string `envconfig:"AMQP_QUEUE" default:"draft_jobs"`
	} `envconfig:""`

	Schedule struct {
		DailyHour int           `envconfig:"SCHEDULE_DAILY_HOUR" default:"8"`
		Tick      time.Duration `envconfig:"SCHEDULE_TICK" default:"1m"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
