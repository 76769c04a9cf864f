package channels

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/clinicware/reengage/pkg/logging"
)

// SESEmailSender sends emails via AWS SES.
type SESEmailSender struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	FromEmail string
	FromName  string
}

// NewSESEmailSender creates a new AWS SES email sender.
func NewSESEmailSender(client *sesv2.Client, cfg SESConfig, logger *logging.Logger) *SESEmailSender {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Reengage"
	}
	return &SESEmailSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

var _ Sender = (*SESEmailSender)(nil)

// Send sends an email via AWS SES.
func (s *SESEmailSender) Send(ctx context.Context, to string, msg Message) error {
	if s.client == nil {
		return fmt.Errorf("channels: SES client not configured")
	}

	fromAddress := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(msg.Body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("SES send failed", "error", err, "to", to)
		return fmt.Errorf("channels: SES send failed: %w", err)
	}

	s.logger.Info("email sent via SES", "to", to, "subject", msg.Subject, "message_id", aws.ToString(output.MessageId))
	return nil
}
