package outreach

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicware/reengage/internal/channels"
	"github.com/clinicware/reengage/internal/msglog"
)

type sentCall struct {
	to  string
	msg channels.Message
}

type fakeSender struct {
	calls []sentCall
	err   error
}

func (f *fakeSender) Send(ctx context.Context, to string, msg channels.Message) error {
	f.calls = append(f.calls, sentCall{to: to, msg: msg})
	return f.err
}

type capturingRecorder struct {
	entries []msglog.Entry
	err     error
}

func (c *capturingRecorder) Record(ctx context.Context, e msglog.Entry) error {
	c.entries = append(c.entries, e)
	return c.err
}

func testRecipient() Recipient {
	return Recipient{
		PatientID:  uuid.New(),
		Name:       "Maria Souza",
		Email:      "maria@example.com",
		Phone:      "+5511999990000",
		ClinicName: "Clínica Sorriso",
	}
}

func twoStepSequence(first channels.Channel) Sequence {
	return Sequence{
		Trigger: TriggerReactivation,
		Name:    "Reativação",
		Steps: []SequenceStep{
			{Order: 1, Channel: first, MessageTemplate: "Oi {nome}, volte à {clinica}!"},
			{Order: 2, DaysAfterStart: 5, Channel: channels.ChannelSMS, MessageTemplate: "Lembrete, {nome}", Condition: "if no reply"},
		},
	}
}

func TestExecutorDispatchesOnlyFirstStep(t *testing.T) {
	sms := &fakeSender{}
	reg := channels.NewRegistry()
	reg.Register(channels.ChannelWhatsApp, sms)

	rec := &capturingRecorder{}
	exec := NewExecutor(reg, rec, nil)
	rcpt := testRecipient()

	result := exec.Run(context.Background(), uuid.New(), twoStepSequence(channels.ChannelWhatsApp), rcpt)

	// Total counts every enumerated step, but only step 1 is attempted.
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Details, 1)
	assert.True(t, result.Details[0].Success)

	require.Len(t, sms.calls, 1)
	assert.Equal(t, "+5511999990000", sms.calls[0].to)
	assert.Equal(t, "Oi Maria Souza, volte à Clínica Sorriso!", sms.calls[0].msg.Body)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, msglog.OutcomeSent, rec.entries[0].Outcome)
}

func TestExecutorTransportFailureRecordedNotRaised(t *testing.T) {
	failing := &fakeSender{err: errors.New("provider 503")}
	reg := channels.NewRegistry()
	reg.Register(channels.ChannelWhatsApp, failing)

	exec := NewExecutor(reg, nil, nil)
	result := exec.Run(context.Background(), uuid.New(), twoStepSequence(channels.ChannelWhatsApp), testRecipient())

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Details, 1)
	assert.False(t, result.Details[0].Success)
	assert.Contains(t, result.Details[0].Error, "provider 503")
}

func TestExecutorMissingContactRecordedAsFailed(t *testing.T) {
	reg := channels.NewRegistry()
	reg.Register(channels.ChannelWhatsApp, &fakeSender{})

	rcpt := testRecipient()
	rcpt.Phone = "" // whatsapp-only sequence, no phone on file

	rec := &capturingRecorder{}
	exec := NewExecutor(reg, rec, nil)
	result := exec.Run(context.Background(), uuid.New(), twoStepSequence(channels.ChannelWhatsApp), rcpt)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Details, 1)
	assert.Contains(t, result.Details[0].Error, "no whatsapp contact")

	require.Len(t, rec.entries, 1)
	assert.Equal(t, msglog.OutcomeFailed, rec.entries[0].Outcome)
}

func TestExecutorUnconfiguredChannelRecordedAsFailed(t *testing.T) {
	exec := NewExecutor(channels.NewRegistry(), nil, nil)
	result := exec.Run(context.Background(), uuid.New(), twoStepSequence(channels.ChannelWhatsApp), testRecipient())

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Details, 1)
	assert.Contains(t, result.Details[0].Error, "no sender configured")
}

func TestExecutorMessageLogFailureSwallowed(t *testing.T) {
	reg := channels.NewRegistry()
	sender := &fakeSender{}
	reg.Register(channels.ChannelWhatsApp, sender)

	rec := &capturingRecorder{err: errors.New("log db down")}
	exec := NewExecutor(reg, rec, nil)
	result := exec.Run(context.Background(), uuid.New(), twoStepSequence(channels.ChannelWhatsApp), testRecipient())

	assert.Equal(t, 1, result.Sent)
	assert.Len(t, sender.calls, 1)
}

func TestExecutorEmailStepUsesSubject(t *testing.T) {
	email := &fakeSender{}
	reg := channels.NewRegistry()
	reg.Register(channels.ChannelEmail, email)

	seq := Sequence{
		Trigger: TriggerLoyalty,
		Steps: []SequenceStep{
			{Order: 1, Channel: channels.ChannelEmail, Subject: "Obrigado, {nome}!", MessageTemplate: "A {clinica} agradece."},
		},
	}

	exec := NewExecutor(reg, nil, nil)
	result := exec.Run(context.Background(), uuid.New(), seq, testRecipient())

	assert.Equal(t, 1, result.Sent)
	require.Len(t, email.calls, 1)
	assert.Equal(t, "maria@example.com", email.calls[0].to)
	assert.Equal(t, "Obrigado, Maria Souza!", email.calls[0].msg.Subject)
}
