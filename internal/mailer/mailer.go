package mailer

import (
	"context"
)

// Mailer delivers a single HTML message to one recipient. Delivery is
// best-effort from the caller's point of view; flows decide individually
// whether a failure matters.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
