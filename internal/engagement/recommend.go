package engagement

import "strings"

// Recommend maps a patient's classification and signals to a semicolon-joined
// list of follow-up actions. It always returns at least one action phrase.
func Recommend(status ActivityStatus, propensityScore, visitCount, openInvoicesCount int) string {
	var actions []string

	switch status {
	case StatusActive:
		actions = append(actions, "maintain engagement with preventive reminders")
	case StatusAtRisk:
		actions = append(actions, "send preventive check-up reminder")
		if propensityScore > 70 {
			actions = append(actions, "prioritize contact")
		}
	case StatusInactive:
		actions = append(actions, "start reactivation sequence")
		if openInvoicesCount > 0 {
			actions = append(actions, "offer payment facilities")
		}
	case StatusDormant:
		actions = append(actions, "recovery campaign with special offer")
		actions = append(actions, "personal phone contact")
	case StatusLost:
		actions = append(actions, "last recovery attempt")
		actions = append(actions, "consider removing from active list")
	default:
		actions = append(actions, "review patient activity manually")
	}

	return strings.Join(actions, "; ")
}
