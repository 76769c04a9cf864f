package channels

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/clinicware/reengage/pkg/logging"
)

// SendGridEmailSender sends emails via SendGrid API.
type SendGridEmailSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridEmailSender creates a new SendGrid email sender. Returns nil when
// no API key is configured so callers can fall back to another provider.
func NewSendGridEmailSender(cfg SendGridConfig, logger *logging.Logger) *SendGridEmailSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Reengage"
	}
	return &SendGridEmailSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

var _ Sender = (*SendGridEmailSender)(nil)

// Send sends an email via SendGrid.
func (s *SendGridEmailSender) Send(ctx context.Context, to string, msg Message) error {
	if s.client == nil {
		return fmt.Errorf("channels: sendgrid client not configured")
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, msg.Subject, recipient, msg.Body, msg.Body)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "to", to)
		return fmt.Errorf("channels: sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "to", to)
		return fmt.Errorf("channels: sendgrid returned status %d", response.StatusCode)
	}

	s.logger.Info("email sent via sendgrid", "to", to, "subject", msg.Subject, "status", response.StatusCode)
	return nil
}
