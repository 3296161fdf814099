package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send a notification email.
type SendRequest struct {
	To      []string
	From    string
	Subject string
	HTML    string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers notification emails. The app only ever sends best-effort
// single notifications (new roll-call round started); failures are logged,
// never surfaced to the caller's page.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
