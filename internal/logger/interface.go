package logger

import "context"

// Logger is a leveled printf-style logger.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
	// WithField returns a Logger that adds key=value to every line.
	WithField(key string, value interface{}) Logger
}
