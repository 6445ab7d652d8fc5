package loggy

import "context"

type contextKey struct{}

// WithLogger returns a context carrying logger, for call chains that cross
// package boundaries without a service receiver.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger carried by ctx, falling back to the global
// logger (which may be nil, and nil loggers are safe to use).
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*Logger); ok && l != nil {
			return l
		}
	}
	return globalLogger
}
