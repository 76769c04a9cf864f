package engagement

import (
	"context"

	"github.com/google/uuid"
)

// ActivityRepository supplies per-patient aggregated activity facts for a
// clinic. Implementations must return one row per patient with at least one
// recorded non-cancelled visit; patients with no visits are excluded
// upstream. When statuses is non-empty only patients whose derived status is
// in the set are returned. Row order must be stable across calls.
type ActivityRepository interface {
	FetchActivityFacts(ctx context.Context, clinicID uuid.UUID, statuses []ActivityStatus) ([]ActivityFacts, error)
}
