package wizard

import (
	"context"
	"probe-wizard/internals/modules/notification"
	"probe-wizard/internals/modules/probe"
	"time"
)

// SessionStore keeps encoded sessions. UpdateSession must apply fn atomically
// with respect to other updates of the same session and keep its expiry.
type SessionStore interface {
	CreateSession(ctx context.Context, id string, data []byte, ttl time.Duration) error
	GetSession(ctx context.Context, id string) ([]byte, error)
	UpdateSession(ctx context.Context, id string, fn func(current []byte) ([]byte, error)) error
}

type TokenIssuer interface {
	GenerateSessionToken(sessionID string) (string, error)
}

type Previewer interface {
	Preview(ctx context.Context, p probe.Probe) probe.PreviewResult
}

type NotificationTester interface {
	Test(ctx context.Context, n notification.Notification) error
}

type Metrics interface {
	IncSession()
	IncProbeSubmitted()
	IncNotificationTest(channel string, ok bool)
	IncPreview(outcome string)
}
