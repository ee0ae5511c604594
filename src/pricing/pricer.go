package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/models"
)

// Pricer values options and their sensitivities per unit of a long contract.
// Callers apply side and quantity.
type Pricer interface {
	Price(option models.Option) (decimal.Decimal, error)
	Greek(greek Greek, option models.Option) (decimal.Decimal, error)
}

type Greeks struct {
	Delta decimal.Decimal `json:"delta"`
	Gamma decimal.Decimal `json:"gamma"`
	Theta decimal.Decimal `json:"theta"`
	Vega  decimal.Decimal `json:"vega"`
	Rho   decimal.Decimal `json:"rho"`
	Vanna decimal.Decimal `json:"vanna"`
	Vomma decimal.Decimal `json:"vomma"`
	Veta  decimal.Decimal `json:"veta"`
	Charm decimal.Decimal `json:"charm"`
	Color decimal.Decimal `json:"color"`
}

func (g *Greeks) set(greek Greek, value decimal.Decimal) {
	switch greek {
	case Delta:
		g.Delta = value
	case Gamma:
		g.Gamma = value
	case Theta:
		g.Theta = value
	case Vega:
		g.Vega = value
	case Rho:
		g.Rho = value
	case Vanna:
		g.Vanna = value
	case Vomma:
		g.Vomma = value
	case Veta:
		g.Veta = value
	case Charm:
		g.Charm = value
	case Color:
		g.Color = value
	}
}

func (g Greeks) Get(greek Greek) decimal.Decimal {
	switch greek {
	case Delta:
		return g.Delta
	case Gamma:
		return g.Gamma
	case Theta:
		return g.Theta
	case Vega:
		return g.Vega
	case Rho:
		return g.Rho
	case Vanna:
		return g.Vanna
	case Vomma:
		return g.Vomma
	case Veta:
		return g.Veta
	case Charm:
		return g.Charm
	default:
		return g.Color
	}
}

// Add sums two greek sets component-wise.
func (g Greeks) Add(o Greeks) Greeks {
	var out Greeks
	for _, greek := range AllGreeks {
		out.set(greek, g.Get(greek).Add(o.Get(greek)))
	}
	return out
}

// Scale multiplies every component by factor.
func (g Greeks) Scale(factor decimal.Decimal) Greeks {
	var out Greeks
	for _, greek := range AllGreeks {
		out.set(greek, g.Get(greek).Mul(factor))
	}
	return out
}

// CalculateGreeks evaluates all greeks of a single option.
func CalculateGreeks(pricer Pricer, option models.Option) (Greeks, error) {
	var out Greeks
	for _, greek := range AllGreeks {
		value, err := pricer.Greek(greek, option)
		if err != nil {
			return Greeks{}, err
		}
		out.set(greek, value)
	}

	return out, nil
}

// PositionGreeks weights the per-unit greeks by side sign and quantity.
func PositionGreeks(pricer Pricer, option models.Option) (Greeks, error) {
	g, err := CalculateGreeks(pricer, option)
	if err != nil {
		return Greeks{}, err
	}

	return g.Scale(option.Side.Sign().Mul(option.Quantity.Decimal())), nil
}
