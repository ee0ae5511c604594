package chains

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/optionstrat/src/decimalmath"
	"github.com/jiaming2012/optionstrat/src/positive"
)

type RNDParameters struct {
	RiskFreeRate        decimal.Decimal   `json:"risk_free_rate" yaml:"risk_free_rate"`
	InterpolationPoints int               `json:"interpolation_points" yaml:"interpolation_points"`
	DerivativeTolerance positive.Positive `json:"derivative_tolerance" yaml:"derivative_tolerance"`
}

func DefaultRNDParameters() RNDParameters {
	return RNDParameters{
		RiskFreeRate:        decimal.Zero,
		InterpolationPoints: 100,
		DerivativeTolerance: positive.Zero,
	}
}

type Density struct {
	Strike positive.Positive `json:"strike"`
	Value  decimal.Decimal   `json:"value"`
}

type RNDStatistics struct {
	Mean       decimal.Decimal   `json:"mean"`
	Variance   positive.Positive `json:"variance"`
	Skewness   decimal.Decimal   `json:"skewness"`
	Kurtosis   decimal.Decimal   `json:"kurtosis"`
	Volatility positive.Positive `json:"volatility"`
}

type RNDResult struct {
	Densities  []Density     `json:"densities"`
	Statistics RNDStatistics `json:"statistics"`
}

var three = decimal.NewFromInt(3)

// NewRNDStatistics computes moments of the density map, weighting by
// density and normalizing by its total. Densities must be in ascending strike order.
func NewRNDStatistics(densities []Density) RNDStatistics {
	total := decimal.Zero
	weighted := decimal.Zero
	for _, d := range densities {
		total = total.Add(d.Value)
		weighted = weighted.Add(d.Strike.Decimal().Mul(d.Value))
	}

	if total.IsZero() {
		return RNDStatistics{}
	}

	mean := weighted.Div(total)

	second := decimal.Zero
	for _, d := range densities {
		diff := d.Strike.Decimal().Sub(mean)
		second = second.Add(diff.Mul(diff).Mul(d.Value))
	}
	variance := positive.Clamp(second.Div(total))

	stats := RNDStatistics{
		Mean:       mean,
		Variance:   variance,
		Volatility: variance.Sqrt(),
	}

	if variance.IsZero() {
		return stats
	}

	std := stats.Volatility.Decimal()
	varianceSquared := variance.Decimal().Mul(variance.Decimal())

	skew := decimal.Zero
	fourth := decimal.Zero
	for _, d := range densities {
		diff := d.Strike.Decimal().Sub(mean)
		z := diff.Div(std)
		skew = skew.Add(z.Mul(z).Mul(z).Mul(d.Value))
		fourth = fourth.Add(diff.Mul(diff).Mul(diff).Mul(diff).Mul(d.Value))
	}

	stats.Skewness = skew.Div(total)
	stats.Kurtosis = fourth.Div(total).Div(varianceSquared).Sub(three)

	return stats
}

func NewRNDResult(densities []Density) RNDResult {
	return RNDResult{
		Densities:  densities,
		Statistics: NewRNDStatistics(densities),
	}
}

// CalculateRND applies Breeden-Litzenberger to the call asks. The step h is the
// derivative tolerance raised to the smallest strike gap. Strikes missing one
// neighbor at distance h use a one-sided second difference towards the side
// with two neighbors; strikes with neither are skipped.
func (c *OptionChain) CalculateRND(params RNDParameters) (RNDResult, error) {
	if params.DerivativeTolerance.IsZero() {
		return RNDResult{}, chainErr("OptionChain.CalculateRND", ErrDerivativeToleranceZero, "%s", c.Symbol)
	}

	if len(c.options) == 0 {
		return RNDResult{}, chainErr("OptionChain.CalculateRND", ErrEmptyChain, "%s", c.Symbol)
	}

	h := params.DerivativeTolerance
	if interval, err := c.StrikeInterval(); err == nil && h.LessThan(interval) {
		h = interval
	}

	years := c.ExpirationDate.GetYears().Decimal()
	growth := decimalmath.Exp(params.RiskFreeRate.Mul(years))
	hSquared := h.Mul(h).Decimal()

	price := func(strike decimal.Decimal) (decimal.Decimal, bool) {
		if !strike.IsPositive() {
			return decimal.Zero, false
		}
		p := c.GetCallPrice(positive.MustNew(strike))
		if p == nil {
			return decimal.Zero, false
		}
		return p.Decimal(), true
	}

	hd := h.Decimal()
	var densities []Density
	total := decimal.Zero

	for _, o := range c.options {
		k := o.StrikePrice.Decimal()
		mid, ok := price(k)
		if !ok {
			continue
		}

		up, hasUp := price(k.Add(hd))
		down, hasDown := price(k.Sub(hd))

		var second decimal.Decimal
		switch {
		case hasUp && hasDown:
			second = up.Add(down).Sub(mid.Mul(decimalmath.Two)).Div(hSquared)
		case hasUp:
			up2, ok := price(k.Add(hd.Mul(decimalmath.Two)))
			if !ok {
				continue
			}
			log.Debugf("OptionChain.CalculateRND: forward difference at strike %s", o.StrikePrice)
			second = mid.Sub(up.Mul(decimalmath.Two)).Add(up2).Div(hSquared)
		case hasDown:
			down2, ok := price(k.Sub(hd.Mul(decimalmath.Two)))
			if !ok {
				continue
			}
			log.Debugf("OptionChain.CalculateRND: backward difference at strike %s", o.StrikePrice)
			second = mid.Sub(down.Mul(decimalmath.Two)).Add(down2).Div(hSquared)
		default:
			continue
		}

		density := second.Mul(growth)
		if density.IsNegative() {
			log.Warnf("OptionChain.CalculateRND: clipping negative density %s at strike %s", density.StringFixed(8), o.StrikePrice)
			density = decimal.Zero
		}

		densities = append(densities, Density{Strike: o.StrikePrice, Value: density})
		total = total.Add(density)
	}

	if len(densities) < 3 || !total.IsPositive() {
		return RNDResult{}, chainErr("OptionChain.CalculateRND", ErrFailedDensities, "%d usable densities", len(densities))
	}

	for i := range densities {
		densities[i].Value = densities[i].Value.Div(total)
	}

	return NewRNDResult(densities), nil
}

type SkewPoint struct {
	Strike positive.Positive `json:"strike"`
	Skew   decimal.Decimal   `json:"skew"`
}

// CalculateSkew returns iv - atm_iv for every strike with an implied volatility.
func (c *OptionChain) CalculateSkew() ([]SkewPoint, error) {
	atm, err := c.GetATMImpliedVolatility()
	if err != nil {
		return nil, fmt.Errorf("OptionChain.CalculateSkew: %w", err)
	}

	var out []SkewPoint
	for _, o := range c.options {
		if o.ImpliedVolatility == nil {
			continue
		}
		out = append(out, SkewPoint{Strike: o.StrikePrice, Skew: o.ImpliedVolatility.SubDecimal(atm)})
	}

	return out, nil
}

func (r RNDResult) String() string {
	display := &strings.Builder{}

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Statistic", "Value"})
	table.Append([]string{"Mean", r.Statistics.Mean.StringFixed(4)})
	table.Append([]string{"Variance", r.Statistics.Variance.Decimal().StringFixed(4)})
	table.Append([]string{"Volatility", r.Statistics.Volatility.Decimal().StringFixed(4)})
	table.Append([]string{"Skewness", r.Statistics.Skewness.StringFixed(6)})
	table.Append([]string{"Kurtosis", r.Statistics.Kurtosis.StringFixed(6)})
	table.Append([]string{"Strikes", fmt.Sprintf("%d", len(r.Densities))})
	table.Render()

	return display.String()
}
