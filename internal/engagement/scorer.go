package engagement

import (
	"fmt"
	"math"
)

// ScoreWeights are the relative weights of the four propensity signals.
// They must sum to 1.0.
type ScoreWeights struct {
	Recency   float64
	Frequency float64
	Value     float64
	Balance   float64
}

// DefaultScoreWeights returns the standard 40/30/20/10 weighting.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Recency:   0.40,
		Frequency: 0.30,
		Value:     0.20,
		Balance:   0.10,
	}
}

// Validate checks that the weights are non-negative and sum to 1.0.
func (w ScoreWeights) Validate() error {
	for name, v := range map[string]float64{
		"recency":   w.Recency,
		"frequency": w.Frequency,
		"value":     w.Value,
		"balance":   w.Balance,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s weight must be >= 0, got %v", ErrInvalidInput, name, v)
		}
	}
	sum := w.Recency + w.Frequency + w.Value + w.Balance
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: score weights must sum to 1.0, got %v", ErrInvalidInput, sum)
	}
	return nil
}

// PropensityScore computes the 0-100 propensity-to-return score using the
// default weights.
func PropensityScore(daysSinceLastVisit, visitCount int, lifetimeValue float64, openInvoicesCount int) (int, error) {
	return PropensityScoreWithWeights(DefaultScoreWeights(), daysSinceLastVisit, visitCount, lifetimeValue, openInvoicesCount)
}

// PropensityScoreWithWeights computes the score with custom weights. Each
// signal becomes a 0-100 sub-score; the weighted shortfall of each sub-score
// from 100 is deducted from a ceiling of 100. Only intermediate sub-scores
// are clamped; negative inputs are rejected.
func PropensityScoreWithWeights(w ScoreWeights, daysSinceLastVisit, visitCount int, lifetimeValue float64, openInvoicesCount int) (int, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}
	if daysSinceLastVisit < 0 {
		return 0, fmt.Errorf("%w: days since last visit must be >= 0, got %d", ErrInvalidInput, daysSinceLastVisit)
	}
	if visitCount < 0 {
		return 0, fmt.Errorf("%w: visit count must be >= 0, got %d", ErrInvalidInput, visitCount)
	}
	if lifetimeValue < 0 {
		return 0, fmt.Errorf("%w: lifetime value must be >= 0, got %v", ErrInvalidInput, lifetimeValue)
	}
	if openInvoicesCount < 0 {
		return 0, fmt.Errorf("%w: open invoices count must be >= 0, got %d", ErrInvalidInput, openInvoicesCount)
	}

	recencyScore := math.Max(0, 100-(float64(daysSinceLastVisit)/365)*100)
	frequencyScore := math.Min(100, float64(visitCount)*10)
	valueScore := math.Min(100, (lifetimeValue/1000)*20)
	balanceScore := 100.0
	if openInvoicesCount > 0 {
		balanceScore = 50
	}

	deductions := (100-recencyScore)*w.Recency +
		(100-frequencyScore)*w.Frequency +
		(100-valueScore)*w.Value +
		(100-balanceScore)*w.Balance

	score := 100 - deductions
	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score)), nil
}
