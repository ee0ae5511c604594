package surfaces

import (
	"fmt"
	"runtime"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/pricing"
)

// evaluate prices the option when greek is nil and computes the greek otherwise.
// Values are per unit of a long contract.
func evaluate(pricer pricing.Pricer, option models.Option, greek *pricing.Greek) (decimal.Decimal, error) {
	if greek == nil {
		return pricer.Price(option)
	}
	return pricer.Greek(*greek, option)
}

// grid evaluates f on every (x, y) pair in parallel and builds the surface.
func grid(xs, ys []positive.Positive, f func(x, y positive.Positive) (decimal.Decimal, error)) (*Surface, error) {
	if len(xs) == 0 || len(ys) == 0 {
		return nil, surfaceErr("grid", ErrInsufficientPoints, "empty axis: %d x values, %d y values", len(xs), len(ys))
	}

	points := make([]Point3D, len(xs)*len(ys))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, x := range xs {
		for j, y := range ys {
			idx, x, y := i*len(ys)+j, x, y
			g.Go(func() error {
				z, err := f(x, y)
				if err != nil {
					return fmt.Errorf("grid: (%s, %s): %w", x, y, err)
				}
				points[idx] = NewPoint3D(x.Decimal(), y.Decimal(), z)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewSurface(points)
}

// VolatilitySurface maps (strike, implied volatility) to the option price or greek.
func VolatilitySurface(pricer pricing.Pricer, option models.Option, greek *pricing.Greek, strikes, vols []positive.Positive) (*Surface, error) {
	return grid(strikes, vols, func(strike, vol positive.Positive) (decimal.Decimal, error) {
		o := option
		o.StrikePrice = strike
		o.ImpliedVolatility = vol
		return evaluate(pricer, o, greek)
	})
}

// TimeSurface maps (strike, days to expiration) to the option price or greek.
func TimeSurface(pricer pricing.Pricer, option models.Option, greek *pricing.Greek, strikes, days []positive.Positive) (*Surface, error) {
	return grid(strikes, days, func(strike, d positive.Positive) (decimal.Decimal, error) {
		o := option
		o.StrikePrice = strike
		o.ExpirationDate = models.Days(d)
		return evaluate(pricer, o, greek)
	})
}
