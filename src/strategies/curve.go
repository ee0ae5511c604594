package strategies

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/curves"
	"github.com/jiaming2012/optionstrat/src/positive"
)

// ProfitCurve samples the expiration profit over [start, end].
func ProfitCurve(s Strategy, start, end positive.Positive, steps int) (*curves.Curve, error) {
	if !end.GreaterThan(start) {
		return nil, invalidParams("ProfitCurve", "end %s must be above start %s", end, start)
	}

	curve, err := curves.Parametric(func(x decimal.Decimal) (curves.Point2D, error) {
		price, err := positive.New(x)
		if err != nil {
			return curves.Point2D{}, err
		}
		return curves.NewPoint2D(x, s.ProfitAt(price)), nil
	}, start.Decimal(), end.Decimal(), steps)
	if err != nil {
		return nil, fmt.Errorf("ProfitCurve: %s: %w", s.GetName(), err)
	}

	return curve, nil
}

// DefaultProfitCurve spans half to one and a half times the underlying price.
func DefaultProfitCurve(s Strategy) (*curves.Curve, error) {
	spot := s.UnderlyingPrice()
	half, _ := spot.Div(positive.Two)
	return ProfitCurve(s, half, spot.Add(half), 100)
}
