package logger

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

type implLogger struct {
	logger *logrus.Logger
}

// New creates a Logger with a format ("text" or "json") and sink. Unknown
// levels fall back to info.
func New(level, format string, out io.Writer) Logger {
	l := logrus.New()
	l.SetOutput(out)
	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return &implLogger{logger: l}
}

// WithJob tags ctx so every log line emitted with it carries the job id.
func WithJob(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, jobID)
}

// JobID returns the job id stored by WithJob, if any.
func JobID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (l *implLogger) entry(ctx context.Context) *logrus.Entry {
	e := logrus.NewEntry(l.logger)
	if id := JobID(ctx); id != "" {
		e = e.WithField("job_id", id)
	}
	return e
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx).Debugf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx).Infof(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx).Warnf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx).Errorf(msg, args...)
}
