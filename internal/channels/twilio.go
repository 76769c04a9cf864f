package channels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinicware/reengage/pkg/logging"
)

var twilioTracer = otel.Tracer("reengage.internal.channels.twilio")

const defaultTwilioBaseURL = "https://api.twilio.com"

// TwilioSMSSender posts SMS messages using Twilio's REST API.
type TwilioSMSSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewTwilioSMSSender builds a sender with sane defaults.
func NewTwilioSMSSender(accountSID, authToken, from string, logger *logging.Logger) *TwilioSMSSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &TwilioSMSSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    defaultTwilioBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL overrides the Twilio API endpoint (used in tests).
func (s *TwilioSMSSender) WithBaseURL(base string) *TwilioSMSSender {
	s.baseURL = strings.TrimRight(base, "/")
	return s
}

var _ Sender = (*TwilioSMSSender)(nil)

// Send dispatches a single SMS, retrying transient failures.
func (s *TwilioSMSSender) Send(ctx context.Context, to string, msg Message) error {
	if s.accountSID == "" || s.authToken == "" {
		return errors.New("channels: twilio credentials missing")
	}
	if err := s.sendMessage(ctx, s.from, to, msg.Body); err != nil {
		return err
	}
	s.logger.Info("twilio sms sent", "to", to)
	return nil
}

// TwilioWhatsAppSender delivers messages over WhatsApp via Twilio's Messages
// API. Addresses are prefixed with "whatsapp:" as the API requires.
type TwilioWhatsAppSender struct {
	sms  *TwilioSMSSender
	from string
}

// NewTwilioWhatsAppSender builds a WhatsApp sender sharing the SMS transport.
func NewTwilioWhatsAppSender(accountSID, authToken, from string, logger *logging.Logger) *TwilioWhatsAppSender {
	return &TwilioWhatsAppSender{
		sms:  NewTwilioSMSSender(accountSID, authToken, "", logger),
		from: from,
	}
}

// WithBaseURL overrides the Twilio API endpoint (used in tests).
func (s *TwilioWhatsAppSender) WithBaseURL(base string) *TwilioWhatsAppSender {
	s.sms.WithBaseURL(base)
	return s
}

var _ Sender = (*TwilioWhatsAppSender)(nil)

// Send dispatches a single WhatsApp message.
func (s *TwilioWhatsAppSender) Send(ctx context.Context, to string, msg Message) error {
	if s.sms.accountSID == "" || s.sms.authToken == "" {
		return errors.New("channels: twilio credentials missing")
	}
	if err := s.sms.sendMessage(ctx, "whatsapp:"+s.from, "whatsapp:"+to, msg.Body); err != nil {
		return err
	}
	s.sms.logger.Info("twilio whatsapp sent", "to", to)
	return nil
}

func (s *TwilioSMSSender) sendMessage(ctx context.Context, from, to, body string) error {
	if strings.TrimPrefix(to, "whatsapp:") == "" {
		return errors.New("channels: recipient required")
	}
	if from == "" {
		return errors.New("channels: from number required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("channels: message body required")
	}

	ctx, span := twilioTracer.Start(ctx, "channels.twilio.send")
	defer span.End()
	span.SetAttributes(attribute.String("reengage.to", to))

	payload := url.Values{}
	payload.Set("To", to)
	payload.Set("From", from)
	payload.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
		if err != nil {
			lastErr = err
			break
		}
		req.SetBasicAuth(s.accountSID, s.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}
			lastErr = fmt.Errorf("channels: twilio send failed: %s", formatTwilioError(resp.StatusCode, respBody))
			// Don't retry non-rate-limit 4xx errors.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != 429 {
				break
			}
		}

		if attempt < 3 {
			sleep := time.Duration(200+rand.Intn(300)) * time.Millisecond
			time.Sleep(sleep)
		}
	}

	if lastErr != nil {
		span.RecordError(lastErr)
	}
	return lastErr
}

type twilioAPIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func formatTwilioError(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Sprintf("status %d", status)
	}
	var parsed twilioAPIError
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed.Message != "" {
		if parsed.Code != 0 {
			return fmt.Sprintf("status %d code %d: %s", status, parsed.Code, parsed.Message)
		}
		return fmt.Sprintf("status %d: %s", status, parsed.Message)
	}
	return fmt.Sprintf("status %d: %s", status, trimmed)
}
