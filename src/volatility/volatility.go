package volatility

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"
)

// TimeFrame is the number of sampling periods in a year.
type TimeFrame float64

const (
	Minute  TimeFrame = 252 * 6.5 * 60
	Hour    TimeFrame = 252 * 6.5
	Day     TimeFrame = 252
	Week    TimeFrame = 52
	Month   TimeFrame = 12
	Quarter TimeFrame = 4
	Year    TimeFrame = 1
)

var timeFrames = map[string]TimeFrame{
	"minute":  Minute,
	"hour":    Hour,
	"day":     Day,
	"week":    Week,
	"month":   Month,
	"quarter": Quarter,
	"year":    Year,
}

func ParseTimeFrame(name string) (TimeFrame, error) {
	tf, ok := timeFrames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("ParseTimeFrame: unknown time frame: %s", name)
	}
	return tf, nil
}

// LogReturns is ln(p_i / p_{i-1}) for consecutive prices.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, volErr("LogReturns", ErrEmptyReturns, "need at least two prices, got %d", len(prices))
	}

	out := make([]float64, 0, len(prices)-1)
	for i, p := range prices {
		if p <= 0 {
			return nil, volErr("LogReturns", ErrInvalidPrice, "price %d is not positive: %v", i, p)
		}
		if i > 0 {
			out = append(out, math.Log(p/prices[i-1]))
		}
	}
	return out, nil
}

// Constant is the sample standard deviation of returns. Fewer than two
// returns give zero.
func Constant(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	std, err := stats.StandardDeviationSample(stats.Float64Data(returns))
	if err != nil {
		return 0
	}
	return std
}

// Historical is Constant over every window of the given size, oldest first.
// A window longer than the series yields no values.
func Historical(returns []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, volErr("Historical", ErrInvalidWindow, "window must be positive, got %d", window)
	}

	if window > len(returns) {
		return []float64{}, nil
	}

	out := make([]float64, 0, len(returns)-window+1)
	for i := 0; i+window <= len(returns); i++ {
		out = append(out, Constant(returns[i:i+window]))
	}
	return out, nil
}

// EWMA is the exponentially weighted volatility seeded with the first squared
// return: var_t = lambda*var_{t-1} + (1-lambda)*r_t^2.
func EWMA(returns []float64, lambda float64) ([]float64, error) {
	if len(returns) == 0 {
		return nil, volErr("EWMA", ErrEmptyReturns, "returns are empty")
	}

	if lambda < 0 || lambda > 1 {
		return nil, volErr("EWMA", ErrInvalidLambda, "lambda must be in [0, 1], got %v", lambda)
	}

	variance := returns[0] * returns[0]
	out := make([]float64, 0, len(returns))
	out = append(out, math.Sqrt(variance))

	for _, r := range returns[1:] {
		variance = lambda*variance + (1-lambda)*r*r
		out = append(out, math.Sqrt(variance))
	}

	return out, nil
}

// Annualized scales a per-period volatility by the square root of the
// periods in a year.
func Annualized(vol float64, tf TimeFrame) float64 {
	return vol * math.Sqrt(float64(tf))
}

// DeAnnualized is the inverse of Annualized.
func DeAnnualized(annual float64, tf TimeFrame) float64 {
	return annual / math.Sqrt(float64(tf))
}
