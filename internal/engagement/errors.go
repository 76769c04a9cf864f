package engagement

import "errors"

var (
	// ErrInvalidInput is returned for malformed or negative numeric input to
	// the pure classification and scoring functions.
	ErrInvalidInput = errors.New("engagement: invalid input")

	// ErrPatientNotFound is returned when a patient has no activity facts in
	// the clinic.
	ErrPatientNotFound = errors.New("engagement: patient not found")

	// ErrRepositoryUnavailable is returned when the activity facts source is
	// unreachable. No partial snapshot list is ever returned alongside it.
	ErrRepositoryUnavailable = errors.New("engagement: activity repository unavailable")
)
