package strategies

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/decimalmath"
	"github.com/jiaming2012/optionstrat/src/positive"
)

// payoffProfile is the piecewise linear profit at expiration, sampled at
// zero and every distinct strike.
type payoffProfile struct {
	points     []positive.Positive
	values     []decimal.Decimal
	leftSlope  decimal.Decimal
	rightSlope decimal.Decimal
}

func (b *strategyBase) profile() payoffProfile {
	points := append([]positive.Positive{positive.Zero}, b.Strikes()...)

	values := make([]decimal.Decimal, len(points))
	for i, p := range points {
		values[i] = b.ProfitAt(p)
	}

	var p payoffProfile
	p.points = points
	p.values = values

	if len(points) > 1 {
		width := points[1].SubDecimal(points[0])
		if !width.IsZero() {
			p.leftSlope = values[1].Sub(values[0]).Div(width)
		}
	}

	last := points[len(points)-1]
	p.rightSlope = b.ProfitAt(last.Add(positive.One)).Sub(values[len(values)-1])

	return p
}

func (p payoffProfile) profitUnbounded() bool {
	return p.rightSlope.IsPositive() || (p.leftSlope.IsNegative() && len(p.points) > 1)
}

func (p payoffProfile) lossUnbounded() bool {
	return p.rightSlope.IsNegative() || (p.leftSlope.IsPositive() && len(p.points) > 1)
}

func (p payoffProfile) maxValue() decimal.Decimal {
	best := p.values[0]
	for _, v := range p.values[1:] {
		best = decimalmath.MaxOf(best, v)
	}
	return best
}

func (p payoffProfile) minValue() decimal.Decimal {
	worst := p.values[0]
	for _, v := range p.values[1:] {
		worst = decimalmath.MinOf(worst, v)
	}
	return worst
}

// roots returns the prices where the profit crosses or touches zero.
func (p payoffProfile) roots() []positive.Positive {
	var out []positive.Positive
	n := len(p.points)

	for i := 0; i < n; i++ {
		x, v := p.points[i].Decimal(), p.values[i]
		if v.IsZero() && !x.IsZero() {
			out = append(out, p.points[i])
			continue
		}

		if i+1 < n {
			nx, nv := p.points[i+1].Decimal(), p.values[i+1]
			if v.Sign()*nv.Sign() < 0 {
				root := x.Sub(v.Mul(nx.Sub(x)).Div(nv.Sub(v)))
				out = append(out, positive.Clamp(root))
			}
		}
	}

	last := p.values[n-1]
	if last.Sign()*p.rightSlope.Sign() < 0 {
		root := p.points[n-1].Decimal().Sub(last.Div(p.rightSlope))
		out = append(out, positive.Clamp(root))
	}

	return out
}

func (b *strategyBase) ProfitAt(price positive.Positive) decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.positions() {
		total = total.Add(p.PnLAtExpiration(&price))
	}
	return total
}

// UpdateBreakEvenPoints recomputes the roots of the expiration profit,
// rounded to cents.
func (b *strategyBase) UpdateBreakEvenPoints() {
	b.BreakEvenPoints = nil
	if len(b.Strikes()) == 0 {
		return
	}

	roots := b.profile().roots()
	sort.Slice(roots, func(i, j int) bool { return roots[i].LessThan(roots[j]) })

	for _, r := range roots {
		r = r.RoundTo(2)
		if n := len(b.BreakEvenPoints); n > 0 && b.BreakEvenPoints[n-1].Equal(r) {
			continue
		}
		b.BreakEvenPoints = append(b.BreakEvenPoints, r)
	}
}

func (b *strategyBase) GetBreakEvenPoints() []positive.Positive {
	out := make([]positive.Positive, len(b.BreakEvenPoints))
	copy(out, b.BreakEvenPoints)
	return out
}

func (b *strategyBase) MaxProfit() (positive.Positive, error) {
	op := fmt.Sprintf("%s.MaxProfit", b.Kind.Title())
	if len(b.Strikes()) == 0 {
		return positive.Zero, strategyErr(op, ErrNoPositions, "strategy has no legs")
	}

	profile := b.profile()
	if profile.profitUnbounded() {
		return positive.Infinity, strategyErr(op, ErrMaxProfitUnlimited, "payoff grows without bound")
	}

	return positive.Clamp(profile.maxValue()), nil
}

func (b *strategyBase) MaxLoss() (positive.Positive, error) {
	op := fmt.Sprintf("%s.MaxLoss", b.Kind.Title())
	if len(b.Strikes()) == 0 {
		return positive.Zero, strategyErr(op, ErrNoPositions, "strategy has no legs")
	}

	profile := b.profile()
	if profile.lossUnbounded() {
		return positive.Infinity, strategyErr(op, ErrMaxLossUnlimited, "loss grows without bound")
	}

	return positive.Clamp(profile.minValue().Neg()), nil
}

func (b *strategyBase) TotalCost() positive.Positive {
	total := positive.Zero
	for _, p := range b.positions() {
		total = total.Add(p.TotalCost())
	}
	return total
}

// NetCost is negative when the strategy is opened for a net credit.
func (b *strategyBase) NetCost() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.positions() {
		total = total.Add(p.NetCost())
	}
	return total
}

func (b *strategyBase) NetPremiumReceived() positive.Positive {
	return positive.Clamp(b.NetCost().Neg())
}

func (b *strategyBase) Fees() positive.Positive {
	total := positive.Zero
	for _, p := range b.positions() {
		total = total.Add(p.Fees())
	}
	return total
}

// ProfitRatio is max profit over max loss in percent.
func (b *strategyBase) ProfitRatio() decimal.Decimal {
	maxProfit, profitErr := b.MaxProfit()
	maxLoss, lossErr := b.MaxLoss()

	switch {
	case profitErr == nil && maxProfit.IsZero():
		return decimal.Zero
	case lossErr != nil:
		return decimal.Zero
	case profitErr != nil || maxLoss.IsZero():
		return decimalmath.Max
	}

	return maxProfit.Decimal().Div(maxLoss.Decimal()).Mul(decimal.NewFromInt(100))
}

// ProfitArea is max profit times the width of the profitable region over 200.
// Open ends of that region stop at the farthest strike on their side.
func (b *strategyBase) ProfitArea() (decimal.Decimal, error) {
	maxProfit, err := b.MaxProfit()
	if err != nil {
		return decimal.Zero, err
	}

	strikes := b.Strikes()
	lowest, highest := strikes[0], strikes[len(strikes)-1]

	span := decimal.Zero
	for _, r := range b.partition() {
		if !r.profitable {
			continue
		}

		lower, upper := lowest, highest
		if r.lower != nil {
			lower = *r.lower
		}
		if r.upper != nil {
			upper = *r.upper
		}

		if upper.GreaterThan(lower) {
			span = span.Add(upper.SubDecimal(lower))
		}
	}

	return maxProfit.Decimal().Mul(span).Div(decimal.NewFromInt(200)), nil
}

type segment struct {
	lower, upper *positive.Positive
	profitable   bool
}

// partition splits the price axis at the break-even points.
func (b *strategyBase) partition() []segment {
	bes := b.BreakEvenPoints
	if len(bes) == 0 {
		return []segment{{profitable: b.ProfitAt(b.UnderlyingPrice()).IsPositive()}}
	}

	var out []segment
	for i := 0; i <= len(bes); i++ {
		var s segment
		var sample positive.Positive

		switch {
		case i == 0:
			upper := bes[0]
			s.upper = &upper
			sample = positive.MustNew(upper.Decimal().Div(decimalmath.Two))
		case i == len(bes):
			lower := bes[i-1]
			s.lower = &lower
			sample = lower.Mul(positive.Two).Add(positive.One)
		default:
			lower, upper := bes[i-1], bes[i]
			s.lower, s.upper = &lower, &upper
			sample = positive.MustNew(lower.Decimal().Add(upper.Decimal()).Div(decimalmath.Two))
		}

		s.profitable = b.ProfitAt(sample).IsPositive()
		out = append(out, s)
	}

	return out
}
