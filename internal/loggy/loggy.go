// Package loggy provides structured logging for gitsage on top of log/slog.
// Services receive a *Logger rather than writing to the console directly; a
// nil *Logger is safe to call and simply discards records.
package loggy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	globalLogger *Logger
	initOnce     sync.Once
)

// Config controls how log records are formatted and where they are written.
type Config struct {
	Level      slog.Level
	Format     string // "json" or "text"
	Output     string // "stdout", "stderr", or a file path
	AddSource  bool   // annotate records with the calling file:line
	TimeFormat string // defaults to time.RFC3339 when empty
}

// DefaultConfig returns the configuration used when the caller supplies none.
func DefaultConfig() Config {
	return Config{
		Level:      slog.LevelInfo,
		Format:     "text",
		Output:     "stderr",
		TimeFormat: time.RFC3339,
	}
}

// Logger wraps slog.Logger so the rest of the module never depends on slog
// handler details. The zero value and nil are usable no-op loggers.
type Logger struct {
	slogger *slog.Logger
}

// Init builds the global logger from cfg. Only the first call has any
// effect; later calls return the first call's error, if any.
func Init(cfg Config) error {
	var err error
	initOnce.Do(func() {
		var logger *Logger
		logger, err = New(cfg)
		if err != nil {
			return
		}
		globalLogger = logger
	})
	if err != nil {
		NewNoopLogger()
	}
	return err
}

// New builds a standalone logger from cfg without touching the global one.
func New(cfg Config) (*Logger, error) {
	out, err := resolveOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	return &Logger{slogger: slog.New(buildHandler(out, cfg))}, nil
}

// GetGlobalLogger returns the process-wide logger, which may be nil before
// Init or NewNoopLogger has run.
func GetGlobalLogger() *Logger {
	return globalLogger
}

// SetGlobalLogger replaces the process-wide logger.
func SetGlobalLogger(logger *Logger) {
	globalLogger = logger
}

// NewNoopLogger creates a logger that discards everything, installs it as
// the global logger, and returns it. Tests use this to silence services.
func NewNoopLogger() *Logger {
	noop := &Logger{slogger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))}
	SetGlobalLogger(noop)
	return noop
}

func resolveOutput(target string) (io.Writer, error) {
	switch target {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	default:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(target, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		return f, nil
	}
}

func buildHandler(out io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}
	if tf := cfg.TimeFormat; tf != "" {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format(tf))
				}
			}
			return a
		}
	}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// Debug logs at debug level through the global logger.
func Debug(msg string, args ...any) { globalLogger.log(slog.LevelDebug, msg, args...) }

// Info logs at info level through the global logger.
func Info(msg string, args ...any) { globalLogger.log(slog.LevelInfo, msg, args...) }

// Warn logs at warn level through the global logger.
func Warn(msg string, args ...any) { globalLogger.log(slog.LevelWarn, msg, args...) }

// Error logs at error level through the global logger.
func Error(msg string, args ...any) { globalLogger.log(slog.LevelError, msg, args...) }

func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

// log records msg at level with the program counter of the wrapper's caller,
// so AddSource reports user code rather than this package.
func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if l == nil || l.slogger == nil {
		return
	}
	ctx := context.Background()
	h := l.slogger.Handler()
	if !h.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip Callers, log, and the exported wrapper
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = h.Handle(ctx, r)
}

// With returns a logger whose records all carry the given key/value pairs.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.slogger == nil {
		return l
	}
	return &Logger{slogger: l.slogger.With(args...)}
}

// WithGroup returns a logger that nests subsequent attributes under name.
func (l *Logger) WithGroup(name string) *Logger {
	if l == nil || l.slogger == nil {
		return l
	}
	return &Logger{slogger: l.slogger.WithGroup(name)}
}

// WithError returns a logger that annotates every record with err.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With("error", err.Error())
}
