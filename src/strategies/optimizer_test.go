package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/optionstrat/src/chains"
	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/pricing"
)

func buildTestChain(t *testing.T) *chains.OptionChain {
	chain, err := chains.BuildChain(chains.OptionChainBuildParams{
		Symbol:            "TEST",
		UnderlyingPrice:   pos(100),
		ExpirationDate:    models.Days(pos(30)),
		ImpliedVolatility: pos(0.2),
		RiskFreeRate:      dec(0.05),
		ChainSize:         5,
		StrikeInterval:    pos(5),
		Spread:            pos(0.1),
		DecimalPlaces:     2,
	}, pricing.NewBlackScholes())
	require.NoError(t, err)
	return chain
}

func TestFilterCombinations(t *testing.T) {
	chain := buildTestChain(t)

	t.Run("upper side keeps strikes at or above the underlying", func(t *testing.T) {
		candidates, err := FilterCombinations(KindBullCallSpread, chain, chains.SideUpper, OptimizerDefaults{})
		require.NoError(t, err)
		require.NotEmpty(t, candidates)

		for _, s := range candidates {
			assert.True(t, s.IsValid())
			for _, strike := range s.Strikes() {
				assert.True(t, strike.GreaterThanOrEqual(pos(100)), strike.String())
			}
		}
	})

	t.Run("center puts the iron butterfly body at the money", func(t *testing.T) {
		candidates, err := FilterCombinations(KindIronButterfly, chain, chains.SideCenter, OptimizerDefaults{})
		require.NoError(t, err)
		require.NotEmpty(t, candidates)

		for _, s := range candidates {
			strikes := s.Strikes()
			require.Len(t, strikes, 3)
			assert.True(t, strikes[0].LessThan(pos(100)))
			assert.True(t, strikes[1].Equal(pos(100)))
			assert.True(t, strikes[2].GreaterThan(pos(100)))
		}
	})

	t.Run("legs use chain quotes", func(t *testing.T) {
		candidates, err := FilterCombinations(KindBullCallSpread, chain, chains.SideAll, OptimizerDefaults{Quantity: pos(2)})
		require.NoError(t, err)
		require.NotEmpty(t, candidates)

		spread, ok := candidates[0].(*BullCallSpread)
		require.True(t, ok)

		row, ok := chain.Get(spread.LongCall.Option.StrikePrice)
		require.True(t, ok)
		assert.True(t, spread.LongCall.Premium.Equal(*row.CallAsk))
		assert.True(t, spread.LongCall.Option.Quantity.Equal(pos(2)))

		row, ok = chain.Get(spread.ShortCall.Option.StrikePrice)
		require.True(t, ok)
		assert.True(t, spread.ShortCall.Premium.Equal(*row.CallBid))
	})

	t.Run("unbounded kinds are filtered out", func(t *testing.T) {
		candidates, err := FilterCombinations(KindLongCall, chain, chains.SideAll, OptimizerDefaults{})
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})
}

func TestFindOptimal(t *testing.T) {
	chain := buildTestChain(t)

	t.Run("ratio", func(t *testing.T) {
		best, err := FindOptimal(KindBullCallSpread, chain, chains.SideAll, Ratio, OptimizerDefaults{})
		require.NoError(t, err)
		assert.Equal(t, KindBullCallSpread, best.GetKind())
		assert.True(t, best.IsValid())

		candidates, err := FilterCombinations(KindBullCallSpread, chain, chains.SideAll, OptimizerDefaults{})
		require.NoError(t, err)
		for _, s := range candidates {
			assert.True(t, best.ProfitRatio().GreaterThanOrEqual(s.ProfitRatio()), s.Title())
		}
	})

	t.Run("area", func(t *testing.T) {
		best, err := FindOptimal(KindIronCondor, chain, chains.SideAll, Area, OptimizerDefaults{})
		require.NoError(t, err)

		bestArea, err := best.ProfitArea()
		require.NoError(t, err)

		candidates, err := FilterCombinations(KindIronCondor, chain, chains.SideAll, OptimizerDefaults{})
		require.NoError(t, err)
		for _, s := range candidates {
			area, err := s.ProfitArea()
			require.NoError(t, err)
			assert.True(t, bestArea.GreaterThanOrEqual(area), s.Title())
		}
	})

	t.Run("no valid combination", func(t *testing.T) {
		_, err := FindOptimal(KindLongCall, chain, chains.SideAll, Ratio, OptimizerDefaults{})
		assert.ErrorIs(t, err, ErrNoValidCombination)
	})

	t.Run("unknown criterion", func(t *testing.T) {
		_, err := FindOptimal(KindBullCallSpread, chain, chains.SideAll, OptimizationCriterion("sharpe"), OptimizerDefaults{})

		var opErr *models.OperationError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, models.InvalidParameters, opErr.Kind)
	})
}

func TestStrategyFindOptimal(t *testing.T) {
	chain := buildTestChain(t)

	params := testParams(100)
	params.Quantity = pos(2)
	params.RiskFreeRate = dec(0.05)

	s, err := NewBullCallSpread(params, Leg(pos(95), pos(7), positive.Zero), Leg(pos(105), pos(2), positive.Zero))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	require.NoError(t, s.FindOptimal(chain, chains.SideAll, Ratio))

	expected, err := FindOptimal(KindBullCallSpread, chain, chains.SideAll, Ratio, OptimizerDefaults{Quantity: pos(2), RiskFreeRate: dec(0.05)})
	require.NoError(t, err)

	require.Len(t, s.Strikes(), 2)
	for i, strike := range expected.Strikes() {
		assert.True(t, strike.Equal(s.Strikes()[i]))
	}
	for _, q := range s.Quantities() {
		assert.True(t, q.Equal(pos(2)))
	}
	assert.True(t, s.ProfitRatio().Equal(expected.ProfitRatio()))

	t.Run("invalid strategy is refused", func(t *testing.T) {
		invalid, err := NewBullCallSpread(params, Leg(pos(105), pos(2), positive.Zero), Leg(pos(95), pos(7), positive.Zero))
		require.NoError(t, err)

		err = invalid.FindOptimal(chain, chains.SideAll, Ratio)
		assert.ErrorIs(t, err, ErrInvalidStrategy)
	})
}
