package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the service-wide structured logger.
type Logger = zerolog.Logger

// Config controls logger construction.
type Config struct {
	Level       string // "debug", "info", "warn", "error"; empty means "info"
	ServiceName string
	Pretty      bool // human-readable console output instead of JSON
}

// New creates a logger writing JSON records to stdout, tagged with the
// service name.
func New(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stdout)
	if cfg.Pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	log := out.Level(level).With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger()

	return &log
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	log := zerolog.Nop()
	return &log
}
