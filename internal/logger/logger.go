package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type implLogger struct {
	entry *logrus.Entry
}

// New creates a Logger writing to stdout. format "json" selects the JSON
// formatter; anything else gets the text formatter with full timestamps.
func New(level, format string) Logger {
	return newLogger(level, format, os.Stdout)
}

func newLogger(level, format string, out io.Writer) *implLogger {
	base := logrus.New()
	base.SetOutput(out)

	if strings.ToLower(format) == "json" {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	base.SetLevel(parseLevel(level))

	return &implLogger{entry: logrus.NewEntry(base)}
}

// parseLevel maps a config level to logrus, defaulting to info.
func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// shouldLog reports whether level passes the configured threshold. Callers
// return before building an entry when it does not.
func (l *implLogger) shouldLog(level logrus.Level) bool {
	return l.entry.Logger.IsLevelEnabled(level)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if !l.shouldLog(logrus.DebugLevel) {
		return
	}
	l.entry.WithContext(ctx).Debugf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if !l.shouldLog(logrus.InfoLevel) {
		return
	}
	l.entry.WithContext(ctx).Infof(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if !l.shouldLog(logrus.WarnLevel) {
		return
	}
	l.entry.WithContext(ctx).Warnf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.entry.WithContext(ctx).Errorf(msg, args...)
}

func (l *implLogger) WithField(key string, value interface{}) Logger {
	return &implLogger{entry: l.entry.WithField(key, value)}
}
