package strategies

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/probability"
)

var flatVolatility = &probability.VolatilityAdjustment{BaseVolatility: pos(0.2), StdDevAdjustment: positive.Zero}

// below is P(S_T <= price) for the 30 day, 20% volatility test setup.
func below(t *testing.T, price float64) float64 {
	t.Helper()
	rate := decimal.Zero
	p, _, err := probability.CalculateSinglePointProbability(pos(100), pos(price), flatVolatility, nil, models.Days(pos(30)), &rate)
	require.NoError(t, err)
	return p.Float64()
}

func assertBounds(t *testing.T, r probability.ProfitLossRange, lower, upper float64) {
	t.Helper()
	if lower < 0 {
		assert.Nil(t, r.LowerBound)
	} else {
		require.NotNil(t, r.LowerBound)
		assertDecimal(t, lower, r.LowerBound.Decimal())
	}

	if upper < 0 {
		assert.Nil(t, r.UpperBound)
	} else {
		require.NotNil(t, r.UpperBound)
		assertDecimal(t, upper, r.UpperBound.Decimal())
	}
}

func TestProfitAndLossRanges(t *testing.T) {
	t.Run("bear put profits between the short strike and the break even", func(t *testing.T) {
		s := newBearPut(t, 0)

		profits, err := s.GetProfitRanges(nil, nil)
		require.NoError(t, err)
		require.Len(t, profits, 1)
		assertBounds(t, profits[0], 95, 103)
		assert.InDelta(t, below(t, 103)-below(t, 95), profits[0].Probability.Float64(), 1e-9)
		assert.True(t, profits[0].Contains(pos(99)))
		assert.False(t, profits[0].Contains(pos(90)))

		losses, err := s.GetLossRanges(nil, nil)
		require.NoError(t, err)
		require.Len(t, losses, 1)
		assertBounds(t, losses[0], 103, -1)
		assert.InDelta(t, 1-below(t, 103), losses[0].Probability.Float64(), 1e-9)

		pop, err := s.ProbabilityOfProfit(nil, nil)
		require.NoError(t, err)
		assert.InDelta(t, below(t, 103)-below(t, 95), pop.Float64(), 1e-9)
	})

	t.Run("bull call profits between the break even and the short strike", func(t *testing.T) {
		s, err := NewBullCallSpread(testParams(100), Leg(pos(95), pos(7), positive.Zero), Leg(pos(105), pos(2), positive.Zero))
		require.NoError(t, err)

		profits, err := s.GetProfitRanges(flatVolatility, nil)
		require.NoError(t, err)
		require.Len(t, profits, 1)
		assertBounds(t, profits[0], 100, 105)

		losses, err := s.GetLossRanges(flatVolatility, nil)
		require.NoError(t, err)
		require.Len(t, losses, 1)
		assertBounds(t, losses[0], -1, 100)
	})

	t.Run("long butterfly loses between the wings and the break evens", func(t *testing.T) {
		s := newLongButterfly(t)

		profits, err := s.GetProfitRanges(flatVolatility, nil)
		require.NoError(t, err)
		require.Len(t, profits, 1)
		assertBounds(t, profits[0], 90.4, 109.6)

		losses, err := s.GetLossRanges(flatVolatility, nil)
		require.NoError(t, err)
		require.Len(t, losses, 2)
		assertBounds(t, losses[0], 90, 90.4)
		assertBounds(t, losses[1], 109.6, 110)

		total := probability.SumProbabilities(profits).Add(probability.SumProbabilities(losses))
		assert.InDelta(t, below(t, 110)-below(t, 90), total.Float64(), 1e-9)
	})

	t.Run("short butterfly profits on both sides", func(t *testing.T) {
		s, err := NewShortButterflySpread(testParams(100),
			Leg(pos(90), pos(12), positive.Zero),
			Leg(pos(100), pos(5), positive.Zero),
			Leg(pos(110), pos(1), positive.Zero),
		)
		require.NoError(t, err)

		profits, err := s.GetProfitRanges(flatVolatility, nil)
		require.NoError(t, err)
		require.Len(t, profits, 2)
		assertBounds(t, profits[0], -1, 93)
		assertBounds(t, profits[1], 107, -1)

		losses, err := s.GetLossRanges(flatVolatility, nil)
		require.NoError(t, err)
		require.Len(t, losses, 1)
		assertBounds(t, losses[0], 93, 107)

		total := probability.SumProbabilities(profits).Add(probability.SumProbabilities(losses))
		assert.InDelta(t, 1, total.Float64(), 1e-9)
	})

	t.Run("long call and long put have a bounded loss range", func(t *testing.T) {
		call, err := NewLongCall(testParams(100), Leg(pos(100), pos(3), positive.Zero))
		require.NoError(t, err)

		profits, err := call.GetProfitRanges(flatVolatility, nil)
		require.NoError(t, err)
		require.Len(t, profits, 1)
		assertBounds(t, profits[0], 103, -1)

		losses, err := call.GetLossRanges(flatVolatility, nil)
		require.NoError(t, err)
		require.Len(t, losses, 1)
		assertBounds(t, losses[0], 100, 103)

		put, err := NewLongPut(testParams(100), Leg(pos(100), pos(3), positive.Zero))
		require.NoError(t, err)

		profits, err = put.GetProfitRanges(flatVolatility, nil)
		require.NoError(t, err)
		require.Len(t, profits, 1)
		assertBounds(t, profits[0], -1, 97)

		losses, err = put.GetLossRanges(flatVolatility, nil)
		require.NoError(t, err)
		require.Len(t, losses, 1)
		assertBounds(t, losses[0], 97, 100)
	})

	t.Run("iron condor keeps open loss ranges", func(t *testing.T) {
		s, err := NewIronCondor(testParams(100),
			Leg(pos(85), pos(1), positive.Zero),
			Leg(pos(90), pos(2), positive.Zero),
			Leg(pos(110), pos(2), positive.Zero),
			Leg(pos(115), pos(1), positive.Zero),
		)
		require.NoError(t, err)

		losses, err := s.GetLossRanges(flatVolatility, nil)
		require.NoError(t, err)
		require.Len(t, losses, 2)
		assert.Nil(t, losses[0].LowerBound)
		assert.Nil(t, losses[1].UpperBound)

		profits, err := s.GetProfitRanges(flatVolatility, nil)
		require.NoError(t, err)
		total := probability.SumProbabilities(profits).Add(probability.SumProbabilities(losses))
		assert.InDelta(t, 1, total.Float64(), 1e-9)
	})

	t.Run("a stronger trend moves the probability", func(t *testing.T) {
		s := newBearPut(t, 0)

		flat, err := s.ProbabilityOfProfit(flatVolatility, nil)
		require.NoError(t, err)

		bullish, err := s.ProbabilityOfProfit(flatVolatility, &probability.PriceTrend{DriftRate: dec(0.5), Confidence: 1})
		require.NoError(t, err)
		assert.True(t, bullish.LessThan(flat))
	})

	t.Run("invalid trend", func(t *testing.T) {
		s := newBearPut(t, 0)

		_, err := s.ProbabilityOfProfit(nil, &probability.PriceTrend{DriftRate: dec(0.1), Confidence: 2})
		assert.ErrorIs(t, err, probability.ErrInvalidConfidence)
	})
}

func TestExtremeProbabilities(t *testing.T) {
	t.Run("bear put has an open loss range only", func(t *testing.T) {
		s := newBearPut(t, 0)

		maxProfitProb, maxLossProb, err := s.CalculateExtremeProbabilities(flatVolatility, nil)
		require.NoError(t, err)
		assert.True(t, maxProfitProb.IsZero())
		assert.InDelta(t, 1-below(t, 103), maxLossProb.Float64(), 1e-9)
	})

	t.Run("long butterfly ranges are all bounded", func(t *testing.T) {
		s := newLongButterfly(t)

		maxProfitProb, maxLossProb, err := s.CalculateExtremeProbabilities(nil, nil)
		require.NoError(t, err)
		assert.True(t, maxProfitProb.IsZero())
		assert.True(t, maxLossProb.IsZero())
	})

	t.Run("short butterfly sums both open profit ranges", func(t *testing.T) {
		s, err := NewShortButterflySpread(testParams(100),
			Leg(pos(90), pos(12), positive.Zero),
			Leg(pos(100), pos(5), positive.Zero),
			Leg(pos(110), pos(1), positive.Zero),
		)
		require.NoError(t, err)

		maxProfitProb, maxLossProb, err := s.CalculateExtremeProbabilities(flatVolatility, nil)
		require.NoError(t, err)
		assert.InDelta(t, below(t, 93)+1-below(t, 107), maxProfitProb.Float64(), 1e-9)
		assert.True(t, maxLossProb.IsZero())
	})

	t.Run("long call profit is open above the break even", func(t *testing.T) {
		s, err := NewLongCall(testParams(100), Leg(pos(100), pos(3), positive.Zero))
		require.NoError(t, err)

		maxProfitProb, maxLossProb, err := s.CalculateExtremeProbabilities(flatVolatility, nil)
		require.NoError(t, err)
		assert.True(t, maxLossProb.IsZero())

		pop, err := s.ProbabilityOfProfit(flatVolatility, nil)
		require.NoError(t, err)
		assert.True(t, maxProfitProb.Equal(pop))
	})
}

func TestExpectedValueAndAnalysis(t *testing.T) {
	t.Run("expected value", func(t *testing.T) {
		s := newLongButterfly(t)

		ev, err := s.CalculateExpectedValue(nil, nil)
		require.NoError(t, err)

		maxProfit, err := s.MaxProfit()
		require.NoError(t, err)
		assert.True(t, ev.LessThanOrEqual(maxProfit))

		trended, err := s.CalculateExpectedValue(nil, &probability.PriceTrend{DriftRate: dec(0.2), Confidence: 0.5})
		require.NoError(t, err)
		assert.True(t, trended.LessThanOrEqual(maxProfit))
	})

	t.Run("analysis", func(t *testing.T) {
		s := newBearPut(t, 0)

		analysis, err := s.AnalyzeProbabilities(nil, nil)
		require.NoError(t, err)

		pop, err := s.ProbabilityOfProfit(nil, nil)
		require.NoError(t, err)

		assert.True(t, analysis.ProbabilityOfProfit.Equal(pop))
		assert.True(t, analysis.RiskRewardRatio.Equal(s.ProfitRatio()))
		require.Len(t, analysis.BreakEvenPoints, 1)
		assert.True(t, analysis.ProbabilityOfMaxProfit.LessThanOrEqual(analysis.ProbabilityOfProfit))
		assert.Contains(t, analysis.String(), "Probability of profit")
	})
}
