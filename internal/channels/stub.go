package channels

import (
	"context"

	"github.com/clinicware/reengage/pkg/logging"
)

// StubSender logs instead of sending. Used in tests and in environments
// where a channel has no configured provider.
type StubSender struct {
	channel Channel
	logger  *logging.Logger
}

// NewStubSender creates a stub sender for a channel.
func NewStubSender(ch Channel, logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{channel: ch, logger: logger}
}

var _ Sender = (*StubSender)(nil)

// Send logs but doesn't send.
func (s *StubSender) Send(ctx context.Context, to string, msg Message) error {
	s.logger.Info("stub sender: would send", "channel", s.channel, "to", to, "body_preview", truncate(msg.Body, 50))
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
