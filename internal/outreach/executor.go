package outreach

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicware/reengage/internal/channels"
	"github.com/clinicware/reengage/internal/msglog"
	"github.com/clinicware/reengage/pkg/logging"
)

// Executor runs one sequence for one patient.
//
// Only the step with Order == 1 is dispatched. Later steps are
// future-scheduled touches the engine cannot trigger yet; they are counted in
// the result total but contribute neither success nor failure. See
// Sequence.PendingSteps for the scheduler extension seam.
type Executor struct {
	registry *channels.Registry
	log      msglog.Recorder
	logger   *logging.Logger
}

// NewExecutor creates a sequence executor.
func NewExecutor(registry *channels.Registry, log msglog.Recorder, logger *logging.Logger) *Executor {
	if log == nil {
		log = msglog.Nop{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Executor{registry: registry, log: log, logger: logger}
}

// Run executes a sequence against one recipient. A transport failure or a
// missing contact channel is recorded as a failed detail, never returned as
// an error: the caller always receives a complete result.
func (e *Executor) Run(ctx context.Context, clinicID uuid.UUID, seq Sequence, rcpt Recipient) *CampaignResult {
	result := &CampaignResult{}

	step, ok := seq.FirstStep()
	if !ok {
		e.logger.Warn("outreach: sequence has no first step", "trigger", seq.Trigger)
		result.Skip(len(seq.Steps))
		return result
	}
	result.Skip(len(seq.Steps) - 1)

	detail := DispatchDetail{
		PatientID:   rcpt.PatientID,
		PatientName: rcpt.Name,
		Channel:     step.Channel,
	}

	body := Personalize(step.MessageTemplate, rcpt.Fields())
	subject := Personalize(step.Subject, rcpt.Fields())

	contact, hasContact := rcpt.ContactFor(step.Channel)
	if !hasContact {
		detail.Error = fmt.Sprintf("patient has no %s contact on file", step.Channel)
		result.Attempt(detail)
		e.record(ctx, clinicID, rcpt, step.Channel, body, msglog.OutcomeFailed, detail.Error)
		e.logger.Warn("outreach: missing contact channel",
			"patient_id", rcpt.PatientID, "channel", step.Channel, "trigger", seq.Trigger)
		return result
	}

	sender, ok := e.registry.Sender(step.Channel)
	if !ok {
		detail.Error = fmt.Sprintf("no sender configured for channel %s", step.Channel)
		result.Attempt(detail)
		e.record(ctx, clinicID, rcpt, step.Channel, body, msglog.OutcomeFailed, detail.Error)
		e.logger.Error("outreach: channel not configured", "channel", step.Channel)
		return result
	}

	if err := sender.Send(ctx, contact, channels.Message{Subject: subject, Body: body}); err != nil {
		detail.Error = err.Error()
		result.Attempt(detail)
		e.record(ctx, clinicID, rcpt, step.Channel, body, msglog.OutcomeFailed, detail.Error)
		e.logger.Error("outreach: dispatch failed",
			"patient_id", rcpt.PatientID, "channel", step.Channel, "error", err)
		return result
	}

	detail.Success = true
	result.Attempt(detail)
	e.record(ctx, clinicID, rcpt, step.Channel, body, msglog.OutcomeSent, "")
	e.logger.Info("outreach: step dispatched",
		"patient_id", rcpt.PatientID, "channel", step.Channel, "trigger", seq.Trigger)

	if pending := seq.PendingSteps(); len(pending) > 0 {
		e.logger.Debug("outreach: later steps not yet schedulable",
			"trigger", seq.Trigger, "pending", len(pending))
	}

	return result
}

// record is fire-and-forget: a broken message log never fails a dispatch.
func (e *Executor) record(ctx context.Context, clinicID uuid.UUID, rcpt Recipient, ch channels.Channel, content string, outcome msglog.Outcome, errText string) {
	entry := msglog.Entry{
		ClinicID:  clinicID,
		PatientID: rcpt.PatientID,
		Channel:   string(ch),
		Content:   content,
		Outcome:   outcome,
		Error:     errText,
	}
	if err := e.log.Record(ctx, entry); err != nil {
		e.logger.Warn("outreach: failed to record message log entry", "error", err)
	}
}
