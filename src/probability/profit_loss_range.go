package probability

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
)

// ProfitLossRange is a price interval with the probability of expiring inside it.
// A nil bound is unbounded on that side.
type ProfitLossRange struct {
	LowerBound  *positive.Positive `json:"lower_bound,omitempty"`
	UpperBound  *positive.Positive `json:"upper_bound,omitempty"`
	Probability positive.Positive  `json:"probability"`
}

func NewProfitLossRange(lower, upper *positive.Positive, probability positive.Positive) (ProfitLossRange, error) {
	if lower != nil && upper != nil && !lower.LessThan(*upper) {
		return ProfitLossRange{}, priceErr("NewProfitLossRange", ErrInvalidPriceRange, "lower bound %s must be less than upper bound %s", lower, upper)
	}

	return ProfitLossRange{LowerBound: lower, UpperBound: upper, Probability: probability}, nil
}

func (r ProfitLossRange) Contains(price positive.Positive) bool {
	if r.LowerBound != nil && price.LessThan(*r.LowerBound) {
		return false
	}

	if r.UpperBound != nil && price.GreaterThan(*r.UpperBound) {
		return false
	}

	return true
}

// CalculateProbability sets Probability to P(S_T <= upper) - P(S_T <= lower).
func (r *ProfitLossRange) CalculateProbability(current positive.Positive, volAdj *VolatilityAdjustment, trend *PriceTrend, expiration models.ExpirationDate, riskFreeRate *decimal.Decimal) error {
	lower := positive.Zero
	if r.LowerBound != nil {
		lower = *r.LowerBound
	}

	upper := positive.Infinity
	if r.UpperBound != nil {
		upper = *r.UpperBound
	}

	if lower.GreaterThan(upper) {
		return priceErr("ProfitLossRange.CalculateProbability", ErrInvalidPriceRange, "lower bound %s is above upper bound %s", lower, upper)
	}

	_, inRange, _, err := CalculatePriceProbability(current, lower, upper, volAdj, trend, expiration, riskFreeRate)
	if err != nil {
		return fmt.Errorf("ProfitLossRange.CalculateProbability: %w", err)
	}

	r.Probability = inRange
	return nil
}

func (r ProfitLossRange) String() string {
	lower, upper := "-inf", "+inf"
	if r.LowerBound != nil {
		lower = r.LowerBound.RoundTo(2).String()
	}
	if r.UpperBound != nil {
		upper = r.UpperBound.RoundTo(2).String()
	}

	return fmt.Sprintf("[%s, %s] p=%s", lower, upper, r.Probability.RoundTo(4))
}

// SumProbabilities adds the probabilities of every range.
func SumProbabilities(ranges []ProfitLossRange) positive.Positive {
	total := positive.Zero
	for _, r := range ranges {
		total = total.Add(r.Probability)
	}
	return total
}
