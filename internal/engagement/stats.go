package engagement

import (
	"context"

	"github.com/google/uuid"
)

// Propensity band boundaries.
const (
	highBandMin   = 70
	mediumBandMin = 40
)

// PropensityBands buckets patients by score: high >= 70, medium 40-69,
// low < 40.
type PropensityBands struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// EngagementStats summarizes a clinic's patient engagement.
type EngagementStats struct {
	Total            int                    `json:"total"`
	ByStatus         map[ActivityStatus]int `json:"by_status"`
	ByPropensityBand PropensityBands        `json:"by_propensity_band"`
	// ValueAtRisk is the lifetime value held by patients who have drifted
	// to inactive or beyond.
	ValueAtRisk float64 `json:"value_at_risk"`
}

// GetEngagementStatistics aggregates fresh snapshots into clinic-level stats.
func (s *Service) GetEngagementStatistics(ctx context.Context, clinicID uuid.UUID) (*EngagementStats, error) {
	snapshots, err := s.IdentifyInactivePatients(ctx, clinicID, nil)
	if err != nil {
		return nil, err
	}

	stats := &EngagementStats{
		Total:    len(snapshots),
		ByStatus: make(map[ActivityStatus]int, len(statusRanks)),
	}
	for _, status := range AllStatuses() {
		stats.ByStatus[status] = 0
	}

	for _, snap := range snapshots {
		stats.ByStatus[snap.Status]++

		switch {
		case snap.PropensityScore >= highBandMin:
			stats.ByPropensityBand.High++
		case snap.PropensityScore >= mediumBandMin:
			stats.ByPropensityBand.Medium++
		default:
			stats.ByPropensityBand.Low++
		}

		if snap.Status.Rank() >= StatusInactive.Rank() {
			stats.ValueAtRisk += snap.LifetimeValue
		}
	}
	return stats, nil
}
