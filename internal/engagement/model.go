// Package engagement implements the patient re-engagement engine: it
// classifies patients by behavioral recency, scores their propensity to
// return, recommends follow-up actions, and drives outreach campaigns.
package engagement

import (
	"time"

	"github.com/google/uuid"
)

// ActivityStatus is the discrete recency-based classification of a patient.
type ActivityStatus string

const (
	StatusActive   ActivityStatus = "active"
	StatusAtRisk   ActivityStatus = "at_risk"
	StatusInactive ActivityStatus = "inactive"
	StatusDormant  ActivityStatus = "dormant"
	StatusLost     ActivityStatus = "lost"
)

// statusRanks orders statuses from most to least engaged.
var statusRanks = map[ActivityStatus]int{
	StatusActive:   0,
	StatusAtRisk:   1,
	StatusInactive: 2,
	StatusDormant:  3,
	StatusLost:     4,
}

// Rank returns the position of the status in the engagement ordering
// (active < at_risk < inactive < dormant < lost). Unknown statuses rank last.
func (s ActivityStatus) Rank() int {
	if r, ok := statusRanks[s]; ok {
		return r
	}
	return len(statusRanks)
}

// Valid reports whether the status is one of the defined values.
func (s ActivityStatus) Valid() bool {
	_, ok := statusRanks[s]
	return ok
}

// AllStatuses lists the defined statuses from most to least engaged.
func AllStatuses() []ActivityStatus {
	return []ActivityStatus{StatusActive, StatusAtRisk, StatusInactive, StatusDormant, StatusLost}
}

// ActivityFacts is one patient's aggregated activity row from the repository.
// Patients with no recorded visit are excluded upstream, so LastVisitDate is
// always set.
type ActivityFacts struct {
	PatientID         uuid.UUID
	Name              string
	Email             string
	Phone             string
	LastVisitDate     time.Time
	VisitCount        int
	LifetimeValue     float64
	OpenInvoicesCount int
}

// PatientActivitySnapshot is the derived, ephemeral view of one patient's
// engagement. Status, PropensityScore and Recommendation are pure functions
// of the other fields and are recomputed on every query, never stored.
type PatientActivitySnapshot struct {
	PatientID          uuid.UUID      `json:"patient_id"`
	ClinicID           uuid.UUID      `json:"clinic_id"`
	PatientName        string         `json:"patient_name"`
	Email              string         `json:"email,omitempty"`
	Phone              string         `json:"phone,omitempty"`
	LastVisitDate      time.Time      `json:"last_visit_date"`
	DaysSinceLastVisit int            `json:"days_since_last_visit"`
	Status             ActivityStatus `json:"status"`
	VisitCount         int            `json:"visit_count"`
	LifetimeValue      float64        `json:"lifetime_value"`
	OpenInvoicesCount  int            `json:"open_invoices_count"`
	PropensityScore    int            `json:"propensity_score"`
	Recommendation     string         `json:"recommendation"`
}

// DaysSince returns the whole days elapsed between a visit and now, floored
// at zero so clock skew never produces a negative value.
func DaysSince(lastVisit, now time.Time) int {
	days := int(now.Sub(lastVisit).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
