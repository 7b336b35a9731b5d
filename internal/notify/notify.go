// Package notify delivers post-run summary messages to the staff channel.
package notify

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Notifier delivers a rendered text message. Delivery is best effort; callers
// treat errors as non-fatal.
type Notifier interface {
	Deliver(ctx context.Context, text string) error
}

// NATSNotifier publishes summary messages on a NATS subject, from which the
// messenger bridge forwards them to the staff chat.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
}

// NewNATSNotifier wraps an established connection.
func NewNATSNotifier(conn *nats.Conn, subject string) *NATSNotifier {
	return &NATSNotifier{conn: conn, subject: subject}
}

// Deliver publishes the message.
func (n *NATSNotifier) Deliver(_ context.Context, text string) error {
	return n.conn.Publish(n.subject, []byte(text))
}

// LogNotifier writes summaries to the log. Used when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier builds a notifier over the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Deliver logs the message.
func (n *LogNotifier) Deliver(ctx context.Context, text string) error {
	n.logger.InfoContext(ctx, "summary", "text", text)
	return nil
}
