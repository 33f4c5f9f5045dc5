// Package logger owns the process-wide slog instance. main initializes it
// from config once; everything downstream receives it through AppContext,
// with L() as the fallback for code running before wiring.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/emberly-app/emberly-backend/internal/config"
)

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// InitFromConfig builds the global logger from the Log section of cfg.
// Safe to call multiple times; a nil cfg yields text/info defaults.
func InitFromConfig(cfg *config.Config) {
	var level, format, component string
	var withSource bool
	if cfg != nil {
		level = cfg.Log.Level
		format = cfg.Log.Format
		component = cfg.Log.Component
		withSource = cfg.Log.Source
	}

	mu.Lock()
	logger = build(os.Stdout, level, format, component, withSource)
	mu.Unlock()
}

// L returns the global logger, initializing defaults on first use.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	InitFromConfig(nil)

	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func build(w io.Writer, level, format, component string, withSource bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: withSource,
	}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		// human-readable timestamps in text mode
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, time.Now().Format("2006-01-02 15:04:05"))
			}
			return a
		}
		handler = slog.NewTextHandler(w, opts)
	}

	log := slog.New(handler)
	if component != "" {
		log = log.With("component", component)
	}
	return log
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
