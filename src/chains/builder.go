package chains

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/pricing"
)

// OptionChainBuildParams describes a synthetic chain centered on the underlying.
type OptionChainBuildParams struct {
	Symbol            string                `json:"symbol" yaml:"symbol"`
	UnderlyingPrice   positive.Positive     `json:"underlying_price" yaml:"underlying_price"`
	ExpirationDate    models.ExpirationDate `json:"expiration_date" yaml:"-"`
	ImpliedVolatility positive.Positive     `json:"implied_volatility" yaml:"implied_volatility"`
	RiskFreeRate      decimal.Decimal       `json:"risk_free_rate" yaml:"risk_free_rate"`
	DividendYield     positive.Positive     `json:"dividend_yield" yaml:"dividend_yield"`
	ChainSize         int                   `json:"chain_size" yaml:"chain_size"`
	StrikeInterval    positive.Positive     `json:"strike_interval" yaml:"strike_interval"`
	SkewSlope         float64               `json:"skew_slope" yaml:"skew_slope"`
	SmileCurve        float64               `json:"smile_curve" yaml:"smile_curve"`
	Spread            positive.Positive     `json:"spread" yaml:"spread"`
	DecimalPlaces     int32                 `json:"decimal_places" yaml:"decimal_places"`
	Volume            *positive.Positive    `json:"volume,omitempty" yaml:"volume,omitempty"`
}

func (p OptionChainBuildParams) Validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("OptionChainBuildParams.Validate: symbol is empty")
	}

	if p.UnderlyingPrice.IsZero() {
		return fmt.Errorf("OptionChainBuildParams.Validate: underlying price must be greater than zero")
	}

	if p.StrikeInterval.IsZero() {
		return fmt.Errorf("OptionChainBuildParams.Validate: strike interval must be greater than zero")
	}

	if p.ChainSize <= 0 {
		return fmt.Errorf("OptionChainBuildParams.Validate: chain size must be positive, got %d", p.ChainSize)
	}

	return nil
}

// AdjustVolatility scales the base volatility by 1 + slope*m + smile*m^2 with
// m = ln(strike/underlying). The factor is clamped to [0.01, 3] and the result to [0, 1].
func AdjustVolatility(base positive.Positive, skewSlope, smileCurve float64, strike, underlying positive.Positive) positive.Positive {
	if strike.IsZero() || underlying.IsZero() {
		return base
	}

	m := math.Log(strike.Float64() / underlying.Float64())
	factor := math.Min(math.Max(1+skewSlope*m+smileCurve*m*m, 0.01), 3)

	return base.Mul(positive.MustFromFloat(factor)).Min(positive.One)
}

// strikesAround returns chainSize strikes on each side of the interval-rounded underlying.
func strikesAround(underlying, interval positive.Positive, chainSize int) []positive.Positive {
	steps := underlying.Decimal().Div(interval.Decimal()).Round(0)
	atm := steps.Mul(interval.Decimal())

	var out []positive.Positive
	for i := -chainSize; i <= chainSize; i++ {
		strike := atm.Add(interval.Decimal().Mul(decimal.NewFromInt(int64(i))))
		if strike.IsPositive() {
			out = append(out, positive.MustNew(strike))
		}
	}
	return out
}

// BuildChain prices every strike with the pricer, widens quotes by the spread
// and fills deltas and gamma.
func BuildChain(params OptionChainBuildParams, pricer pricing.Pricer) (*OptionChain, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("BuildChain: %w", err)
	}

	chain := NewOptionChain(params.Symbol, params.UnderlyingPrice, params.ExpirationDate, params.RiskFreeRate, params.DividendYield)

	for _, strike := range strikesAround(params.UnderlyingPrice, params.StrikeInterval, params.ChainSize) {
		iv := AdjustVolatility(params.ImpliedVolatility, params.SkewSlope, params.SmileCurve, strike, params.UnderlyingPrice)

		option := models.NewOption(models.Long, models.Call, params.Symbol, strike, params.ExpirationDate,
			iv, positive.One, params.UnderlyingPrice, params.RiskFreeRate, params.DividendYield)

		data := OptionData{StrikePrice: strike, ImpliedVolatility: ptr(iv), Volume: params.Volume}

		for _, style := range []models.OptionStyle{models.Call, models.Put} {
			option.Style = style

			price, err := pricer.Price(option)
			if err != nil {
				return nil, fmt.Errorf("BuildChain: strike %s %s: %w", strike, style, err)
			}

			delta, err := pricer.Greek(pricing.Delta, option)
			if err != nil {
				return nil, fmt.Errorf("BuildChain: strike %s %s: %w", strike, style, err)
			}

			quote := positive.FromAbs(price)
			if style == models.Call {
				data.CallAsk, data.CallBid, data.DeltaCall = ptr(quote), ptr(quote), decPtr(delta)
			} else {
				data.PutAsk, data.PutBid, data.DeltaPut = ptr(quote), ptr(quote), decPtr(delta)
			}
		}

		gamma, err := pricer.Greek(pricing.Gamma, option)
		if err != nil {
			return nil, fmt.Errorf("BuildChain: strike %s gamma: %w", strike, err)
		}
		data.Gamma = decPtr(gamma)

		data.applySpread(params.Spread, params.DecimalPlaces)
		chain.AddOption(data)
	}

	log.Debugf("BuildChain: built %s with %d strikes", chain.Title(), chain.Len())

	return chain, nil
}
