package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rusenback/netspeed/internal/config"
)

// Init configures the global logger. Output goes to lcfg.File because the
// terminal belongs to the TUI; an empty File logs to stderr.
// The returned closer releases the log file.
func Init(lcfg config.LoggingConfig) (io.Closer, error) {
	zerolog.SetGlobalLevel(parseLevel(lcfg.Level))

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if lcfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(lcfg.File), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(lcfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}

	log.Logger = New(out, lcfg.Format)
	return closer, nil
}

// New builds a logger writing json, or human readable text for "console"
func New(out io.Writer, format string) zerolog.Logger {
	if strings.ToLower(format) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
