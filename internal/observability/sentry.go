// Package observability reports forced session terminations to Sentry.
package observability

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/umerwe/school-frontend-sub001/internal/client/session"
)

func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// SentryReporter sends one warning-level event per forced termination.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter reports through hub; a nil hub selects the current hub.
func NewSentryReporter(hub *sentry.Hub) *SentryReporter {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &SentryReporter{hub: hub}
}

func (r *SentryReporter) Report(ctx context.Context, ev session.SignOutEvent) {
	hub := r.hub
	if h := sentry.GetHubFromContext(ctx); h != nil {
		hub = h
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelWarning)
		scope.SetTag("signout_reason", ev.Reason.String())
		scope.SetContext("session", sentry.Context{"ended_at": ev.At.Format(time.RFC3339)})
		hub.CaptureMessage("session ended: " + ev.Reason.String())
	})
}
