// Package channels provides the outbound communication adapters used by the
// re-engagement engine. Each adapter implements the Sender interface; the
// Registry maps a channel to the configured adapter.
package channels

import (
	"context"
	"fmt"
	"strings"
)

// Channel identifies a communication medium.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// ParseChannel validates a raw channel string.
func ParseChannel(raw string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(raw))) {
	case ChannelEmail:
		return ChannelEmail, nil
	case ChannelSMS:
		return ChannelSMS, nil
	case ChannelWhatsApp:
		return ChannelWhatsApp, nil
	default:
		return "", fmt.Errorf("channels: unknown channel %q", raw)
	}
}

// Message is a single outbound message. Subject is only meaningful for email.
type Message struct {
	Subject string
	Body    string
}

// Sender dispatches one message to one recipient address (email address or
// phone number depending on the channel). Ordinary delivery failures are
// reported as errors; implementations must not panic on provider errors.
type Sender interface {
	Send(ctx context.Context, to string, msg Message) error
}

// Registry maps channels to their configured senders.
type Registry struct {
	senders map[Channel]Sender
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{senders: make(map[Channel]Sender)}
}

// Register wires a sender for a channel. A nil sender is ignored so callers
// can pass through unconfigured adapters.
func (r *Registry) Register(ch Channel, s Sender) {
	if s == nil {
		return
	}
	r.senders[ch] = s
}

// Sender returns the adapter for a channel, if one is configured.
func (r *Registry) Sender(ch Channel) (Sender, bool) {
	s, ok := r.senders[ch]
	return s, ok
}

// Channels lists the channels with a configured sender.
func (r *Registry) Channels() []Channel {
	out := make([]Channel, 0, len(r.senders))
	for ch := range r.senders {
		out = append(out, ch)
	}
	return out
}
