package outreach

import (
	"github.com/google/uuid"

	"github.com/clinicware/reengage/internal/channels"
)

// DispatchDetail records the outcome of one attempted dispatch.
type DispatchDetail struct {
	PatientID   uuid.UUID        `json:"patient_id"`
	PatientName string           `json:"patient_name"`
	Channel     channels.Channel `json:"channel"`
	Success     bool             `json:"success"`
	Error       string           `json:"error,omitempty"`
}

// CampaignResult aggregates dispatch outcomes for one sequence execution or
// one batch campaign run.
//
// For batch campaigns Sent + Failed == Total always holds. For a sequence
// execution Total also counts the skipped future steps (Order > 1), which
// contribute neither success nor failure and produce no detail entry.
type CampaignResult struct {
	Total   int              `json:"total"`
	Sent    int              `json:"sent"`
	Failed  int              `json:"failed"`
	Details []DispatchDetail `json:"details"`
}

// Attempt records one attempted dispatch, counting it into Total and into
// Sent or Failed depending on the outcome.
func (r *CampaignResult) Attempt(d DispatchDetail) {
	r.Total++
	if d.Success {
		r.Sent++
	} else {
		r.Failed++
	}
	r.Details = append(r.Details, d)
}

// Skip counts steps that were enumerated but never dispatched.
func (r *CampaignResult) Skip(n int) {
	if n > 0 {
		r.Total += n
	}
}

// Merge folds another result into this one, preserving detail order.
func (r *CampaignResult) Merge(other *CampaignResult) {
	if other == nil {
		return
	}
	r.Total += other.Total
	r.Sent += other.Sent
	r.Failed += other.Failed
	r.Details = append(r.Details, other.Details...)
}
