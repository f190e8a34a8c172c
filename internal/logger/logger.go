package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var once sync.Once
var log zerolog.Logger

// Get returns the process wide logger, built by New on first use. Call it
// from functions rather than package variables so that a .env loaded in main
// is seen.
func Get() zerolog.Logger {
	once.Do(func() {
		log = New()
	})

	return log
}

// New builds a logger from LOG_LEVEL, ENVIRONMENT and LOG_FILE. A LOG_FILE
// that cannot be opened is reported and skipped.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var output io.Writer = os.Stdout
	environment := os.Getenv("ENVIRONMENT")
	if environment == "" || environment == "local" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	var fileErr error
	path := os.Getenv("LOG_FILE")
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fileErr = err
		} else {
			output = zerolog.MultiLevelWriter(output, f)
		}
	}

	l := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	if fileErr != nil {
		l.Warn().Err(fileErr).Str("path", path).Msg("could not open log file, logging to stdout only")
	}

	return l
}
