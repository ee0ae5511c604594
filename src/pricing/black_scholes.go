package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/decimalmath"
	"github.com/jiaming2012/optionstrat/src/models"
)

// BlackScholes prices European options with continuous dividend yield.
// Inputs and outputs are decimal; the model is evaluated on float64.
type BlackScholes struct{}

func NewBlackScholes() *BlackScholes {
	return &BlackScholes{}
}

type bsInputs struct {
	s, k, t, r, sigma, q float64
	call                 bool
}

func newInputs(option models.Option) (bsInputs, error) {
	in := bsInputs{
		s:     option.UnderlyingPrice.Float64(),
		k:     option.StrikePrice.Float64(),
		t:     option.ExpirationDate.GetYears().Float64(),
		r:     option.RiskFreeRate.InexactFloat64(),
		sigma: option.ImpliedVolatility.Float64(),
		q:     option.DividendYield.Float64(),
		call:  option.Style == models.Call,
	}

	if in.k <= 0 {
		return bsInputs{}, fmt.Errorf("BlackScholes: strike must be greater than zero: %w", models.ErrPricing)
	}

	if err := option.Style.Validate(); err != nil {
		return bsInputs{}, fmt.Errorf("BlackScholes: %v: %w", err, models.ErrPricing)
	}

	return in, nil
}

// degenerate means no time value: expired, zero volatility or a worthless underlying.
func (in bsInputs) degenerate() bool {
	return in.t <= 0 || in.sigma <= 0 || in.s <= 0
}

func (in bsInputs) d1d2() (float64, float64) {
	sqrtT := math.Sqrt(in.t)
	d1 := (math.Log(in.s/in.k) + (in.r-in.q+0.5*in.sigma*in.sigma)*in.t) / (in.sigma * sqrtT)
	return d1, d1 - in.sigma*sqrtT
}

func (in bsInputs) forwardIntrinsic() float64 {
	spot := in.s * math.Exp(-in.q*math.Max(in.t, 0))
	strike := in.k * math.Exp(-in.r*math.Max(in.t, 0))
	if in.call {
		return math.Max(spot-strike, 0)
	}
	return math.Max(strike-spot, 0)
}

func (b *BlackScholes) Price(option models.Option) (decimal.Decimal, error) {
	in, err := newInputs(option)
	if err != nil {
		return decimal.Zero, err
	}

	if in.degenerate() {
		return decimal.NewFromFloat(in.forwardIntrinsic()), nil
	}

	d1, d2 := in.d1d2()
	eq := math.Exp(-in.q * in.t)
	er := math.Exp(-in.r * in.t)

	var price float64
	if in.call {
		price = in.s*eq*decimalmath.NormCDF(d1) - in.k*er*decimalmath.NormCDF(d2)
	} else {
		price = in.k*er*decimalmath.NormCDF(-d2) - in.s*eq*decimalmath.NormCDF(-d1)
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return decimal.Zero, fmt.Errorf("BlackScholes.Price: non-finite price for %s: %w", option.Title(), models.ErrPricing)
	}

	return decimal.NewFromFloat(math.Max(price, 0)), nil
}

// Greek returns the per-unit sensitivity. Theta, veta and color are annualized.
func (b *BlackScholes) Greek(greek Greek, option models.Option) (decimal.Decimal, error) {
	if err := greek.Validate(); err != nil {
		return decimal.Zero, fmt.Errorf("BlackScholes.Greek: %v: %w", err, models.ErrGreeks)
	}

	in, err := newInputs(option)
	if err != nil {
		return decimal.Zero, err
	}

	if in.degenerate() {
		if greek != Delta {
			return decimal.Zero, nil
		}
		return decimal.NewFromFloat(in.stepDelta()), nil
	}

	value := in.greek(greek)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero, fmt.Errorf("BlackScholes.Greek: non-finite %s for %s: %w", greek, option.Title(), models.ErrGreeks)
	}

	return decimal.NewFromFloat(value), nil
}

func (in bsInputs) stepDelta() float64 {
	if in.call {
		if in.s >= in.k {
			return 1
		}
		return 0
	}

	if in.s <= in.k {
		return -1
	}
	return 0
}

func (in bsInputs) greek(greek Greek) float64 {
	d1, d2 := in.d1d2()
	sqrtT := math.Sqrt(in.t)
	sigmaSqrtT := in.sigma * sqrtT
	eq := math.Exp(-in.q * in.t)
	er := math.Exp(-in.r * in.t)
	pdf := decimalmath.NormPDF(d1)
	cdf := decimalmath.NormCDF

	switch greek {
	case Delta:
		if in.call {
			return eq * cdf(d1)
		}
		return eq * (cdf(d1) - 1)
	case Gamma:
		return eq * pdf / (in.s * sigmaSqrtT)
	case Theta:
		common := -in.s * pdf * in.sigma * eq / (2 * sqrtT)
		if in.call {
			return common - in.r*in.k*er*cdf(d2) + in.q*in.s*eq*cdf(d1)
		}
		return common + in.r*in.k*er*cdf(-d2) - in.q*in.s*eq*cdf(-d1)
	case Vega:
		return in.s * eq * pdf * sqrtT
	case Rho:
		if in.call {
			return in.k * in.t * er * cdf(d2)
		}
		return -in.k * in.t * er * cdf(-d2)
	case Vanna:
		return -eq * pdf * d2 / in.sigma
	case Vomma:
		return in.s * eq * pdf * sqrtT * d1 * d2 / in.sigma
	case Veta:
		return -in.s * eq * pdf * sqrtT * (in.q + (in.r-in.q)*d1/sigmaSqrtT - (1+d1*d2)/(2*in.t))
	case Charm:
		drift := eq * pdf * (2*(in.r-in.q)*in.t - d2*sigmaSqrtT) / (2 * in.t * sigmaSqrtT)
		if in.call {
			return in.q*eq*cdf(d1) - drift
		}
		return -in.q*eq*cdf(-d1) - drift
	default:
		return -eq * pdf / (2 * in.s * in.t * sigmaSqrtT) *
			(2*in.q*in.t + 1 + (2*(in.r-in.q)*in.t-d2*sigmaSqrtT)/sigmaSqrtT*d1)
	}
}
