package volatility

import (
	"math"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/pricing"
)

const (
	MinVolatility = 1e-4
	MaxVolatility = 5.0

	// PriceTolerance is how close the model price must get to the market price.
	PriceTolerance    = 1e-6
	DefaultGuess      = 0.2
	DefaultIterations = 100
)

// Implied solves for the volatility at which pricer values option at
// marketPrice, using Newton steps on vega. The option's own implied
// volatility is the starting guess. Each step is clamped to
// [MinVolatility, MaxVolatility].
func Implied(pricer pricing.Pricer, option models.Option, marketPrice decimal.Decimal, maxIterations int) (positive.Positive, error) {
	op := "volatility.Implied"
	if !marketPrice.IsPositive() {
		return positive.Zero, volErr(op, ErrInvalidPrice, "market price must be positive, got %s", marketPrice)
	}

	if maxIterations <= 0 {
		maxIterations = DefaultIterations
	}

	target := marketPrice.InexactFloat64()
	iv := option.ImpliedVolatility.Float64()
	if iv <= 0 {
		iv = DefaultGuess
	}

	for i := 0; i < maxIterations; i++ {
		option.ImpliedVolatility = positive.MustFromFloat(iv)

		price, err := pricer.Price(option)
		if err != nil {
			return positive.Zero, err
		}

		diff := price.InexactFloat64() - target
		if math.Abs(diff) < PriceTolerance {
			log.Debugf("%s: %s converged to %.6f after %d iterations", op, option.Title(), iv, i)
			return positive.MustFromFloat(iv), nil
		}

		vega, err := pricer.Greek(pricing.Vega, option)
		if err != nil {
			return positive.Zero, err
		}

		v := vega.InexactFloat64()
		if math.Abs(v) < 1e-16 {
			return positive.MustFromFloat(iv), volErr(op, ErrVegaTooSmall, "vega %g at volatility %.6f", v, iv)
		}

		next := iv - diff/v
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return positive.MustFromFloat(iv), volErr(op, ErrNoConvergence, "newton step is not finite at volatility %.6f", iv)
		}

		iv = math.Min(math.Max(next, MinVolatility), MaxVolatility)
	}

	return positive.MustFromFloat(iv), volErr(op, ErrNoConvergence, "no solution within %d iterations", maxIterations)
}
