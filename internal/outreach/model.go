// Package outreach defines multi-step outreach sequences and executes them
// against individual patients. Sequences are static configuration: an ordered
// list of steps, each bound to a channel and a message template.
package outreach

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/clinicware/reengage/internal/channels"
)

// ErrSequenceNotFound is returned when a trigger has no configured sequence.
var ErrSequenceNotFound = errors.New("outreach: sequence not found")

// TriggerType names the event that starts a sequence.
type TriggerType string

const (
	TriggerPostTreatment TriggerType = "post_treatment"
	TriggerReactivation  TriggerType = "reactivation"
	TriggerPreventive    TriggerType = "preventive"
	TriggerLoyalty       TriggerType = "loyalty"
	TriggerRecovery      TriggerType = "recovery"
)

// SequenceStep is one touch in a sequence.
type SequenceStep struct {
	// Order is the 1-based position in the sequence.
	Order int `json:"order"`
	// DaysAfterStart is the intended delay before this step fires.
	DaysAfterStart int              `json:"days_after_start"`
	Channel        channels.Channel `json:"channel"`
	Subject        string           `json:"subject,omitempty"`
	// MessageTemplate may contain {placeholder} tokens, resolved at dispatch.
	MessageTemplate string `json:"message_template"`
	// Condition is an informational guard ("if no reply"). It is not
	// machine-enforced.
	Condition string `json:"condition,omitempty"`
}

// Sequence is a named, ordered outreach plan bound to a trigger.
type Sequence struct {
	Trigger     TriggerType    `json:"trigger"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Steps       []SequenceStep `json:"steps"`
}

// FirstStep returns the step with Order == 1, if present.
func (s Sequence) FirstStep() (SequenceStep, bool) {
	for _, step := range s.Steps {
		if step.Order == 1 {
			return step, true
		}
	}
	return SequenceStep{}, false
}

// PendingSteps returns the steps with Order > 1, sorted by order. These are
// future-scheduled touches; a durable step scheduler would consume them.
func (s Sequence) PendingSteps() []SequenceStep {
	var out []SequenceStep
	for _, step := range s.Steps {
		if step.Order > 1 {
			out = append(out, step)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Recipient is the patient-facing contact data a dispatch needs.
type Recipient struct {
	PatientID  uuid.UUID
	Name       string
	Email      string
	Phone      string
	ClinicName string
}

// ContactFor resolves the recipient address for a channel. The second return
// is false when the patient has no contact data for that channel.
func (r Recipient) ContactFor(ch channels.Channel) (string, bool) {
	switch ch {
	case channels.ChannelEmail:
		return r.Email, r.Email != ""
	case channels.ChannelSMS, channels.ChannelWhatsApp:
		return r.Phone, r.Phone != ""
	default:
		return "", false
	}
}

// Fields returns the personalization token map for this recipient. Both the
// Portuguese tokens used by the stock templates and their English aliases
// resolve to the same values.
func (r Recipient) Fields() map[string]string {
	return map[string]string{
		"nome":    r.Name,
		"name":    r.Name,
		"clinica": r.ClinicName,
		"clinic":  r.ClinicName,
	}
}
