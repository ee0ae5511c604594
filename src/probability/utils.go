package probability

import (
	"github.com/montanaflynn/stats"

	"github.com/jiaming2012/optionstrat/src/positive"
)

// MeanAndStd returns the mean and population standard deviation of values.
func MeanAndStd(values []positive.Positive) (positive.Positive, positive.Positive) {
	if len(values) == 0 {
		return positive.Zero, positive.Zero
	}

	data := make(stats.Float64Data, len(values))
	for i, v := range values {
		data[i] = v.Float64()
	}

	mean, err := data.Mean()
	if err != nil {
		return positive.Zero, positive.Zero
	}

	std, err := data.StandardDeviationPopulation()
	if err != nil {
		return toPositive(mean), positive.Zero
	}

	return toPositive(mean), toPositive(std)
}

// CalculatePriceRange returns start, start+step, ... up to and including the
// first value strictly greater than end. A zero step returns nil.
func CalculatePriceRange(start, end, step positive.Positive) []positive.Positive {
	if step.IsZero() {
		return nil
	}

	var out []positive.Positive
	for price := start; ; price = price.Add(step) {
		out = append(out, price)
		if price.GreaterThan(end) {
			break
		}
	}

	return out
}
