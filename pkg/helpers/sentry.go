package helpers

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryReporter forwards unexpected errors to Sentry. A reporter built
// without a DSN is a no-op.
type SentryReporter struct {
	enabled bool
}

func NewSentryReporter(dsn, environment, release string) (*SentryReporter, error) {
	if dsn == "" {
		return &SentryReporter{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		return nil, err
	}
	return &SentryReporter{enabled: true}, nil
}

func (s *SentryReporter) Enabled() bool { return s != nil && s.enabled }

// CaptureError sends err with the given tags on a fresh scope.
func (s *SentryReporter) CaptureError(err error, tags map[string]string) {
	if !s.Enabled() || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// Flush waits up to timeout for buffered events to be delivered.
func (s *SentryReporter) Flush(timeout time.Duration) bool {
	if !s.Enabled() {
		return true
	}
	return sentry.Flush(timeout)
}
