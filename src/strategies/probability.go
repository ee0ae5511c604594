package strategies

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/probability"
)

const expectedValueSteps = 100

// volatility falls back to the mean and deviation of the legs' implied volatilities.
func (b *strategyBase) volatility(volAdj *probability.VolatilityAdjustment) *probability.VolatilityAdjustment {
	if volAdj != nil {
		return volAdj
	}

	var ivs []positive.Positive
	for _, p := range b.positions() {
		ivs = append(ivs, p.Option.ImpliedVolatility)
	}

	mean, std := probability.MeanAndStd(ivs)
	if mean.IsZero() {
		return nil
	}
	return &probability.VolatilityAdjustment{BaseVolatility: mean, StdDevAdjustment: std}
}

func (b *strategyBase) ranges(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend, profitable bool) ([]probability.ProfitLossRange, error) {
	op := fmt.Sprintf("%s.ranges", b.Kind.Title())
	if len(b.Strikes()) == 0 {
		return nil, strategyErr(op, ErrNoPositions, "strategy has no legs")
	}

	rate := b.RiskFreeRate()
	vol := b.volatility(volAdj)

	var out []probability.ProfitLossRange
	for _, s := range b.bounds(profitable) {
		r, err := probability.NewProfitLossRange(s.lower, s.upper, positive.Zero)
		if err != nil {
			return nil, err
		}

		if err := r.CalculateProbability(b.UnderlyingPrice(), vol, trend, b.Expiration(), &rate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	return out, nil
}

// bounds returns the profitable or losing pieces of the break-even partition.
// When the layout caps that outcome, an open end stops at the lowest or
// highest strike, unless the cap would invert the range.
func (b *strategyBase) bounds(profitable bool) []segment {
	l := b.self.layout()
	capped := l.capLoss
	if profitable {
		capped = l.capProfit
	}

	strikes := b.Strikes()
	lowest, highest := strikes[0], strikes[len(strikes)-1]

	var out []segment
	for _, s := range b.partition() {
		if s.profitable != profitable {
			continue
		}

		if capped {
			if s.lower == nil && (s.upper == nil || s.upper.GreaterThan(lowest)) {
				lower := lowest
				s.lower = &lower
			}
			if s.upper == nil && s.lower.LessThan(highest) {
				upper := highest
				s.upper = &upper
			}
		}

		out = append(out, s)
	}

	return out
}

// GetProfitRanges returns the price ranges where the strategy ends in profit,
// with their probabilities.
func (b *strategyBase) GetProfitRanges(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend) ([]probability.ProfitLossRange, error) {
	return b.ranges(volAdj, trend, true)
}

func (b *strategyBase) GetLossRanges(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend) ([]probability.ProfitLossRange, error) {
	return b.ranges(volAdj, trend, false)
}

func (b *strategyBase) ProbabilityOfProfit(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend) (positive.Positive, error) {
	profits, err := b.GetProfitRanges(volAdj, trend)
	if err != nil {
		return positive.Zero, err
	}
	return probability.SumProbabilities(profits), nil
}

// CalculateExpectedValue integrates the expiration profit over the lognormal
// distribution in 100 steps covering the strikes and four deviations below spot.
func (b *strategyBase) CalculateExpectedValue(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend) (positive.Positive, error) {
	op := fmt.Sprintf("%s.CalculateExpectedValue", b.Kind.Title())
	strikes := b.Strikes()
	if len(strikes) == 0 {
		return positive.Zero, strategyErr(op, ErrNoPositions, "strategy has no legs")
	}

	vol := b.volatility(volAdj)
	sigma := probability.DefaultVolatility
	if vol != nil {
		sigma = vol.Sigma().Float64()
	}

	spot := b.UnderlyingPrice()
	years := b.Expiration().GetYears().Float64()
	spread := math.Exp(4 * sigma * math.Sqrt(years))

	start := spot.Decimal().Div(decimal.NewFromFloat(spread))
	end := spot.Decimal().Mul(decimal.NewFromFloat(spread))
	for _, p := range append(strikes, b.BreakEvenPoints...) {
		if p.Decimal().LessThan(start) {
			start = p.Decimal()
		}
		if p.Decimal().GreaterThan(end) {
			end = p.Decimal()
		}
	}

	step := end.Sub(start).Div(decimal.NewFromInt(expectedValueSteps))
	prices := probability.CalculatePriceRange(positive.Clamp(start), positive.Clamp(end), positive.Clamp(step))
	if len(prices) == 0 {
		return positive.Zero, strategyErr(op, ErrInvalidStrategy, "empty price range")
	}

	rate := b.RiskFreeRate()
	total := decimal.Zero
	mass := decimal.Zero
	previous := decimal.Zero

	for _, price := range prices {
		below, _, err := probability.CalculateSinglePointProbability(spot, price, vol, trend, b.Expiration(), &rate)
		if err != nil {
			return positive.Zero, err
		}

		increment := below.Decimal().Sub(previous)
		previous = below.Decimal()

		mass = mass.Add(increment)
		total = total.Add(increment.Mul(b.ProfitAt(price)))
	}

	if mass.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(decimal.NewFromFloat(0.05)) {
		log.Warnf("%s: probability mass %s deviates from 1", op, mass.StringFixed(4))
	}

	if trend != nil {
		total = total.Div(decimal.NewFromInt(1).Add(trend.DriftRate.Abs()))
	}

	return positive.Clamp(total), nil
}

// CalculateExtremeProbabilities returns the probability of the open ended
// profit ranges and of the open ended loss ranges. A side with only bounded
// ranges reports zero.
func (b *strategyBase) CalculateExtremeProbabilities(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend) (positive.Positive, positive.Positive, error) {
	op := fmt.Sprintf("%s.CalculateExtremeProbabilities", b.Kind.Title())
	if len(b.Strikes()) == 0 {
		return positive.Zero, positive.Zero, strategyErr(op, ErrNoPositions, "strategy has no legs")
	}

	profits, err := b.GetProfitRanges(volAdj, trend)
	if err != nil {
		return positive.Zero, positive.Zero, err
	}

	losses, err := b.GetLossRanges(volAdj, trend)
	if err != nil {
		return positive.Zero, positive.Zero, err
	}

	return openRangeProbability(profits), openRangeProbability(losses), nil
}

func openRangeProbability(ranges []probability.ProfitLossRange) positive.Positive {
	total := positive.Zero
	for _, r := range ranges {
		if r.LowerBound == nil || r.UpperBound == nil {
			total = total.Add(r.Probability)
		}
	}
	return total.Min(positive.One)
}

func (b *strategyBase) AnalyzeProbabilities(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend) (probability.StrategyProbabilityAnalysis, error) {
	pop, err := b.ProbabilityOfProfit(volAdj, trend)
	if err != nil {
		return probability.StrategyProbabilityAnalysis{}, err
	}

	ev, err := b.CalculateExpectedValue(volAdj, trend)
	if err != nil {
		return probability.StrategyProbabilityAnalysis{}, err
	}

	maxProfitProb, maxLossProb, err := b.CalculateExtremeProbabilities(volAdj, trend)
	if err != nil {
		return probability.StrategyProbabilityAnalysis{}, err
	}

	return probability.StrategyProbabilityAnalysis{
		ProbabilityOfProfit:    pop,
		ProbabilityOfMaxProfit: maxProfitProb,
		ProbabilityOfMaxLoss:   maxLossProb,
		ExpectedValue:          ev,
		BreakEvenPoints:        b.GetBreakEvenPoints(),
		RiskRewardRatio:        b.ProfitRatio(),
	}, nil
}
