package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScoreWeightsSumToOne(t *testing.T) {
	w := DefaultScoreWeights()
	require.NoError(t, w.Validate())
	assert.InDelta(t, 1.0, w.Recency+w.Frequency+w.Value+w.Balance, 1e-12)
}

func TestScoreWeightsValidate(t *testing.T) {
	assert.ErrorIs(t, ScoreWeights{Recency: 0.5, Frequency: 0.5, Value: 0.5}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, ScoreWeights{Recency: -0.1, Frequency: 0.6, Value: 0.3, Balance: 0.2}.Validate(), ErrInvalidInput)
}

func TestPropensityScoreKnownValues(t *testing.T) {
	tests := []struct {
		name          string
		days, visits  int
		lifetimeValue float64
		openInvoices  int
		want          int
	}{
		// Perfect signals: visited today, frequent, high value, no balance.
		{"perfect patient", 0, 10, 5000, 0, 100},
		// Recency only drops: half a year away deducts half of the 40% weight.
		{"half-year recency drop", 182, 10, 5000, 0, 80},
		// Open invoices cost 5 points (half the 10% weight).
		{"open balance penalty", 0, 10, 5000, 3, 95},
		// No history and two years away: only the clean balance signal remains.
		{"zero history far away", 800, 0, 0, 0, 10},
		// Brand new patient seen today with one cheap visit.
		{"new patient", 0, 1, 100, 0, 53},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PropensityScore(tt.days, tt.visits, tt.lifetimeValue, tt.openInvoices)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPropensityScoreBounds(t *testing.T) {
	for _, days := range []int{0, 30, 365, 730, 2000, 10000} {
		for _, visits := range []int{0, 1, 5, 50} {
			for _, value := range []float64{0, 500, 10000} {
				for _, open := range []int{0, 2} {
					got, err := PropensityScore(days, visits, value, open)
					require.NoError(t, err)
					assert.GreaterOrEqual(t, got, 0)
					assert.LessOrEqual(t, got, 100)
				}
			}
		}
	}
}

func TestPropensityScoreMonotonicInRecency(t *testing.T) {
	prev := 101
	for days := 0; days <= 1500; days += 25 {
		got, err := PropensityScore(days, 5, 2000, 0)
		require.NoError(t, err)
		assert.LessOrEqual(t, got, prev, "score must never increase with staleness (days=%d)", days)
		prev = got
	}
}

func TestPropensityScoreZeroHistoryNeverNegative(t *testing.T) {
	for _, days := range []int{365, 800, 3650, 100000} {
		got, err := PropensityScore(days, 0, 0, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 10)
	}
}

func TestPropensityScoreRejectsNegativeInputs(t *testing.T) {
	_, err := PropensityScore(-1, 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = PropensityScore(0, -1, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = PropensityScore(0, 0, -0.01, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = PropensityScore(0, 0, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPropensityScoreDeterministic(t *testing.T) {
	a, err := PropensityScore(200, 3, 1500, 1)
	require.NoError(t, err)
	b, err := PropensityScore(200, 3, 1500, 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
