package engagement

import "fmt"

// Classification thresholds in days since last visit. Each bound is
// exclusive: a patient is active below 90 days, at risk below 180, and so on.
const (
	atRiskThresholdDays   = 90
	inactiveThresholdDays = 180
	dormantThresholdDays  = 365
	lostThresholdDays     = 730
)

// ClassifyActivity maps days since the last visit to an activity status.
// Negative input is rejected, never clamped.
func ClassifyActivity(daysSinceLastVisit int) (ActivityStatus, error) {
	if daysSinceLastVisit < 0 {
		return "", fmt.Errorf("%w: days since last visit must be >= 0, got %d", ErrInvalidInput, daysSinceLastVisit)
	}
	switch {
	case daysSinceLastVisit < atRiskThresholdDays:
		return StatusActive, nil
	case daysSinceLastVisit < inactiveThresholdDays:
		return StatusAtRisk, nil
	case daysSinceLastVisit < dormantThresholdDays:
		return StatusInactive, nil
	case daysSinceLastVisit < lostThresholdDays:
		return StatusDormant, nil
	default:
		return StatusLost, nil
	}
}
