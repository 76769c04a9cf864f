package channels

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/clinicware/reengage/pkg/logging"
)

const (
	// EmailProviderAuto tries SendGrid first, then SES.
	EmailProviderAuto = "auto"
	// EmailProviderSendGrid forces the SendGrid sender when credentials exist.
	EmailProviderSendGrid = "sendgrid"
	// EmailProviderSES forces the SES sender when a client exists.
	EmailProviderSES = "ses"
)

// EmailProviderConfig captures the settings required to build an email sender.
type EmailProviderConfig struct {
	Preference        string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string
}

// BuildEmailSender instantiates an email Sender based on the preferred
// provider. It returns the sender, the provider that was selected, and a
// reason when no provider could be initialized.
func BuildEmailSender(cfg EmailProviderConfig, sesClient *sesv2.Client, logger *logging.Logger) (Sender, string, string) {
	if logger == nil {
		logger = logging.Default()
	}
	preference := strings.ToLower(strings.TrimSpace(cfg.Preference))
	if preference == "" {
		preference = EmailProviderAuto
	}

	missing := map[string]string{}

	var sendgridSender Sender
	if sg := NewSendGridEmailSender(SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sendgridSender = sg
	} else {
		missing[EmailProviderSendGrid] = "SENDGRID_API_KEY missing"
	}

	var sesSender Sender
	if ses := NewSESEmailSender(sesClient, SESConfig{
		FromEmail: cfg.SESFromEmail,
		FromName:  cfg.SESFromName,
	}, logger); ses != nil {
		sesSender = ses
	} else {
		missing[EmailProviderSES] = "SES client not configured"
	}

	if preference != EmailProviderAuto {
		if preference == EmailProviderSendGrid && sendgridSender != nil {
			return sendgridSender, EmailProviderSendGrid, ""
		}
		if preference == EmailProviderSES && sesSender != nil {
			return sesSender, EmailProviderSES, ""
		}
		reason := missing[preference]
		if reason == "" {
			reason = fmt.Sprintf("%s email sender not configured", preference)
		}
		return nil, "", reason
	}

	if sendgridSender != nil {
		return sendgridSender, EmailProviderSendGrid, ""
	}
	if sesSender != nil {
		return sesSender, EmailProviderSES, ""
	}

	var reasons []string
	for _, provider := range []string{EmailProviderSendGrid, EmailProviderSES} {
		if msg := missing[provider]; msg != "" {
			reasons = append(reasons, fmt.Sprintf("%s: %s", provider, msg))
		}
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "no email providers configured")
	}
	return nil, "", strings.Join(reasons, "; ")
}
