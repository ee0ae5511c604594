package probability

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/decimalmath"
	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
)

// DefaultVolatility is used when no VolatilityAdjustment is supplied.
const DefaultVolatility = 0.2

// VolatilityAdjustment widens the lognormal volatility to base + adjustment.
type VolatilityAdjustment struct {
	BaseVolatility   positive.Positive `json:"base_volatility" yaml:"base_volatility"`
	StdDevAdjustment positive.Positive `json:"std_dev_adjustment" yaml:"std_dev_adjustment"`
}

func (v VolatilityAdjustment) Sigma() positive.Positive {
	return v.BaseVolatility.Add(v.StdDevAdjustment)
}

// PriceTrend shifts the mean log-return by DriftRate * Confidence per year.
type PriceTrend struct {
	DriftRate  decimal.Decimal `json:"drift_rate" yaml:"drift_rate"`
	Confidence float64         `json:"confidence" yaml:"confidence"`
}

func (t PriceTrend) Validate() error {
	if t.Confidence < 0 || t.Confidence > 1 || math.IsNaN(t.Confidence) {
		return fmt.Errorf("PriceTrend.Validate: confidence must be in [0, 1], got %v: %w", t.Confidence, ErrInvalidConfidence)
	}

	return nil
}

func (t PriceTrend) drift() float64 {
	return t.DriftRate.InexactFloat64() * t.Confidence
}

type lognormal struct {
	sigma float64
	mu    float64
	years float64
}

func newLognormal(op string, volAdj *VolatilityAdjustment, trend *PriceTrend, expiration models.ExpirationDate, riskFreeRate *decimal.Decimal) (lognormal, error) {
	years := expiration.GetYears().Float64()
	if years <= 0 {
		return lognormal{}, &ExpirationError{Operation: op, Reason: fmt.Sprintf("time to expiration must be positive, got %s", expiration)}
	}

	sigma := DefaultVolatility
	if volAdj != nil {
		sigma = volAdj.Sigma().Float64()
		if sigma <= 0 {
			return lognormal{}, priceErr(op, ErrInvalidVolatility, "adjusted volatility must be positive")
		}
	}

	rate := 0.0
	if riskFreeRate != nil {
		rate = riskFreeRate.InexactFloat64()
	}

	drift := 0.0
	if trend != nil {
		if err := trend.Validate(); err != nil {
			return lognormal{}, &PriceError{Kind: ErrInvalidConfidence, Operation: op, Reason: err.Error()}
		}
		drift = trend.drift()
	}

	return lognormal{
		sigma: sigma,
		mu:    (rate - sigma*sigma/2 + drift) * years,
		years: years,
	}, nil
}

// cdf is P(S_T <= target).
func (l lognormal) cdf(current, target positive.Positive) float64 {
	if target.IsZero() {
		return 0
	}

	if target.IsInfinity() {
		return 1
	}

	z := (math.Log(target.Float64()/current.Float64()) - l.mu) / (l.sigma * math.Sqrt(l.years))
	return decimalmath.NormCDF(z)
}

func toPositive(f float64) positive.Positive {
	return positive.Clamp(decimal.NewFromFloat(f))
}

// CalculateSinglePointProbability returns P(S_T <= target) and P(S_T > target)
// under a lognormal model. A zero target gives (0, 1) and an infinite one (1, 0).
// The rate defaults to zero.
func CalculateSinglePointProbability(current, target positive.Positive, volAdj *VolatilityAdjustment, trend *PriceTrend, expiration models.ExpirationDate, riskFreeRate *decimal.Decimal) (positive.Positive, positive.Positive, error) {
	const op = "CalculateSinglePointProbability"

	if current.IsZero() {
		return positive.Zero, positive.Zero, priceErr(op, ErrInvalidPrice, "current price must be greater than zero")
	}

	model, err := newLognormal(op, volAdj, trend, expiration, riskFreeRate)
	if err != nil {
		return positive.Zero, positive.Zero, err
	}

	below := model.cdf(current, target)
	return toPositive(below), toPositive(1 - below), nil
}

// CalculatePriceProbability splits the distribution at lower and upper into
// the mass below lower, between them, and above upper.
func CalculatePriceProbability(current, lower, upper positive.Positive, volAdj *VolatilityAdjustment, trend *PriceTrend, expiration models.ExpirationDate, riskFreeRate *decimal.Decimal) (positive.Positive, positive.Positive, positive.Positive, error) {
	const op = "CalculatePriceProbability"

	if lower.GreaterThan(upper) {
		return positive.Zero, positive.Zero, positive.Zero, priceErr(op, ErrInvalidPriceRange, "lower %s is above upper %s", lower, upper)
	}

	belowLower, _, err := CalculateSinglePointProbability(current, lower, volAdj, trend, expiration, riskFreeRate)
	if err != nil {
		return positive.Zero, positive.Zero, positive.Zero, fmt.Errorf("%s: %w", op, err)
	}

	belowUpper, aboveUpper, err := CalculateSinglePointProbability(current, upper, volAdj, trend, expiration, riskFreeRate)
	if err != nil {
		return positive.Zero, positive.Zero, positive.Zero, fmt.Errorf("%s: %w", op, err)
	}

	return belowLower, positive.Clamp(belowUpper.SubDecimal(belowLower)), aboveUpper, nil
}

// CalculateBoundsProbability returns the len(bounds)+1 probabilities of the
// intervals cut by strictly ascending bounds.
func CalculateBoundsProbability(current positive.Positive, bounds []positive.Positive, volAdj *VolatilityAdjustment, trend *PriceTrend, expiration models.ExpirationDate, riskFreeRate *decimal.Decimal) ([]positive.Positive, error) {
	const op = "CalculateBoundsProbability"

	if len(bounds) == 0 {
		return nil, priceErr(op, ErrInvalidPriceRange, "no bounds")
	}

	for i := 1; i < len(bounds); i++ {
		if !bounds[i].GreaterThan(bounds[i-1]) {
			return nil, priceErr(op, ErrInvalidPriceRange, "bounds must be strictly ascending: %s then %s", bounds[i-1], bounds[i])
		}
	}

	out := make([]positive.Positive, 0, len(bounds)+1)
	previous := positive.Zero
	for _, bound := range bounds {
		below, _, err := CalculateSinglePointProbability(current, bound, volAdj, trend, expiration, riskFreeRate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, positive.Clamp(below.SubDecimal(previous)))
		previous = below
	}

	out = append(out, positive.Clamp(positive.One.SubDecimal(previous)))
	return out, nil
}
