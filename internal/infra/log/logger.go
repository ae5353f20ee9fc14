package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger создаёт zerolog с уровнем по окружению и именем сервиса,
// общим для всех бинарей.
func NewLogger(appEnv, service string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if appEnv == "dev" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", service).
		Logger().
		Level(level)
}
