package channels

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		raw     string
		want    Channel
		wantErr bool
	}{
		{"email", ChannelEmail, false},
		{"SMS", ChannelSMS, false},
		{" whatsapp ", ChannelWhatsApp, false},
		{"carrier-pigeon", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseChannel(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "raw=%q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Sender(ChannelSMS)
	assert.False(t, ok)

	stub := NewStubSender(ChannelSMS, nil)
	reg.Register(ChannelSMS, stub)
	reg.Register(ChannelEmail, nil) // nil senders are ignored

	got, ok := reg.Sender(ChannelSMS)
	require.True(t, ok)
	assert.Equal(t, stub, got)

	_, ok = reg.Sender(ChannelEmail)
	assert.False(t, ok)

	assert.Equal(t, []Channel{ChannelSMS}, reg.Channels())
}

func TestStubSenderNeverFails(t *testing.T) {
	stub := NewStubSender(ChannelWhatsApp, nil)
	err := stub.Send(context.Background(), "+15551234567", Message{Body: "hello"})
	assert.NoError(t, err)
}
