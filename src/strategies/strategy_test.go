package strategies

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/pricing"
)

func pos(f float64) positive.Positive {
	return positive.MustFromFloat(f)
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func testParams(underlying float64) Params {
	return Params{
		Symbol:            "TEST",
		UnderlyingPrice:   pos(underlying),
		Expiration:        models.Days(pos(30)),
		ImpliedVolatility: pos(0.2),
		RiskFreeRate:      decimal.Zero,
		Quantity:          positive.One,
	}
}

func newBearPut(t *testing.T, fee float64) *BearPutSpread {
	s, err := NewBearPutSpread(testParams(100),
		Leg(pos(105), pos(4), pos(fee)),
		Leg(pos(95), pos(2), pos(fee)),
	)
	require.NoError(t, err)
	return s
}

func newLongButterfly(t *testing.T) *LongButterflySpread {
	s, err := NewLongButterflySpread(testParams(100),
		Leg(pos(90), pos(3), pos(0.05)),
		Leg(pos(100), pos(2), pos(0.05)),
		Leg(pos(110), pos(1), pos(0.05)),
	)
	require.NoError(t, err)
	return s
}

func assertDecimal(t *testing.T, expected float64, actual decimal.Decimal) {
	t.Helper()
	assert.InDelta(t, expected, actual.InexactFloat64(), 1e-9, actual.String())
}

func TestBearPutSpread(t *testing.T) {
	t.Run("profile without fees", func(t *testing.T) {
		s := newBearPut(t, 0)
		require.NoError(t, s.Validate())

		require.Len(t, s.GetBreakEvenPoints(), 1)
		assertDecimal(t, 103, s.GetBreakEvenPoints()[0].Decimal())

		maxProfit, err := s.MaxProfit()
		require.NoError(t, err)
		assertDecimal(t, 8, maxProfit.Decimal())

		maxLoss, err := s.MaxLoss()
		require.NoError(t, err)
		assertDecimal(t, 2, maxLoss.Decimal())

		assertDecimal(t, -2, s.ProfitAt(pos(110)))
		assertDecimal(t, 8, s.ProfitAt(pos(90)))

		mid := s.ProfitAt(pos(100))
		assert.True(t, mid.GreaterThan(dec(-2)) && mid.LessThan(dec(8)), mid.String())

		assertDecimal(t, 2, s.NetCost())
		assertDecimal(t, 400, s.ProfitRatio())

		area, err := s.ProfitArea()
		require.NoError(t, err)
		assertDecimal(t, 0.32, area)
	})

	t.Run("break even and extremes follow net cost", func(t *testing.T) {
		for _, quantity := range []float64{1, 2, 3} {
			params := testParams(100)
			params.Quantity = pos(quantity)
			s, err := NewBearPutSpread(params,
				Leg(pos(105), pos(4), pos(0.5)),
				Leg(pos(95), pos(2), pos(0.5)),
			)
			require.NoError(t, err)

			netCost := s.NetCost()
			assertDecimal(t, 4*quantity, netCost)

			expectedBE := dec(105).Sub(netCost.Div(dec(quantity))).Round(2)
			require.Len(t, s.GetBreakEvenPoints(), 1)
			assert.True(t, s.GetBreakEvenPoints()[0].Decimal().Equal(expectedBE))

			maxProfit, err := s.MaxProfit()
			require.NoError(t, err)
			assertDecimal(t, 10*quantity-netCost.InexactFloat64(), maxProfit.Decimal())

			maxLoss, err := s.MaxLoss()
			require.NoError(t, err)
			assert.True(t, maxLoss.Decimal().Equal(netCost))

			assert.True(t, s.ProfitAt(pos(95)).Equal(maxProfit.Decimal()))
			assert.True(t, s.ProfitAt(pos(105)).Equal(maxLoss.Decimal().Neg()))
		}
	})

	t.Run("strikes out of order are invalid but queryable", func(t *testing.T) {
		s, err := NewBearPutSpread(testParams(100),
			Leg(pos(95), pos(2), positive.Zero),
			Leg(pos(105), pos(4), positive.Zero),
		)
		require.NoError(t, err)
		assert.False(t, s.IsValid())

		var opErr *models.OperationError
		require.ErrorAs(t, s.Validate(), &opErr)
		assert.Equal(t, models.InvalidParameters, opErr.Kind)
		assert.ErrorIs(t, s.Validate(), models.ErrStrategy)

		_, err = s.MaxLoss()
		assert.NoError(t, err)
	})

	t.Run("wrong leg count", func(t *testing.T) {
		_, err := NewBearPutSpread(testParams(100), Leg(pos(95), pos(2), positive.Zero))
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrStrategy)
	})
}

func TestLongButterflySpread(t *testing.T) {
	s := newLongButterfly(t)
	require.NoError(t, s.Validate())

	assert.True(t, s.ShortCalls.Option.Quantity.Equal(pos(2)))
	assertDecimal(t, 9.6, s.ProfitAt(pos(100)))

	maxProfit, err := s.MaxProfit()
	require.NoError(t, err)
	assert.True(t, s.ProfitAt(pos(100)).Equal(maxProfit.Decimal()))

	maxLoss, err := s.MaxLoss()
	require.NoError(t, err)
	assertDecimal(t, 0.4, maxLoss.Decimal())
	assert.True(t, s.ProfitAt(pos(90)).Equal(maxLoss.Decimal().Neg()))
	assert.True(t, s.ProfitAt(pos(110)).Equal(maxLoss.Decimal().Neg()))

	bes := s.GetBreakEvenPoints()
	require.Len(t, bes, 2)
	assertDecimal(t, 90.4, bes[0].Decimal())
	assertDecimal(t, 109.6, bes[1].Decimal())
	assert.True(t, pos(100).SubDecimal(bes[0]).Equal(bes[1].SubDecimal(pos(100))))

	area, err := s.ProfitArea()
	require.NoError(t, err)
	assertDecimal(t, 9.6*19.2/200, area)

	t.Run("asymmetric wings are invalid", func(t *testing.T) {
		asym, err := NewLongButterflySpread(testParams(100),
			Leg(pos(90), pos(3), pos(0.05)),
			Leg(pos(100), pos(2), pos(0.05)),
			Leg(pos(115), pos(1), pos(0.05)),
		)
		require.NoError(t, err)
		assert.False(t, asym.IsValid())
	})
}

func TestShortButterflySpread(t *testing.T) {
	s, err := NewShortButterflySpread(testParams(100),
		Leg(pos(90), pos(12), positive.Zero),
		Leg(pos(100), pos(5), positive.Zero),
		Leg(pos(110), pos(1), positive.Zero),
	)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	// credit 12 + 1 - 10 = 3 on the wings, worst at the middle strike
	assertDecimal(t, 3, s.ProfitAt(pos(80)))
	assertDecimal(t, -7, s.ProfitAt(pos(100)))
	assertDecimal(t, 3, s.ProfitAt(pos(120)))
	require.Len(t, s.GetBreakEvenPoints(), 2)
}

func TestUnboundedStrategies(t *testing.T) {
	t.Run("long call", func(t *testing.T) {
		s, err := NewLongCall(testParams(100), Leg(pos(100), pos(3), positive.Zero))
		require.NoError(t, err)

		_, err = s.MaxProfit()
		assert.ErrorIs(t, err, ErrMaxProfitUnlimited)
		assert.ErrorIs(t, err, models.ErrStrategy)

		maxLoss, err := s.MaxLoss()
		require.NoError(t, err)
		assertDecimal(t, 3, maxLoss.Decimal())

		assert.True(t, s.ProfitRatio().Equal(positive.Infinity.Decimal()))
		_, err = s.ProfitArea()
		assert.ErrorIs(t, err, ErrMaxProfitUnlimited)
	})

	t.Run("short put", func(t *testing.T) {
		s, err := NewShortPut(testParams(100), Leg(pos(95), pos(2), positive.Zero))
		require.NoError(t, err)

		_, err = s.MaxLoss()
		assert.ErrorIs(t, err, ErrMaxLossUnlimited)

		maxProfit, err := s.MaxProfit()
		require.NoError(t, err)
		assertDecimal(t, 2, maxProfit.Decimal())
		assert.True(t, s.ProfitRatio().IsZero())
	})

	t.Run("long straddle", func(t *testing.T) {
		s, err := NewLongStraddle(testParams(100),
			Leg(pos(100), pos(3), positive.Zero),
			Leg(pos(100), pos(2), positive.Zero),
		)
		require.NoError(t, err)
		require.NoError(t, s.Validate())

		bes := s.GetBreakEvenPoints()
		require.Len(t, bes, 2)
		assertDecimal(t, 95, bes[0].Decimal())
		assertDecimal(t, 105, bes[1].Decimal())
	})
}

func TestIronCondor(t *testing.T) {
	s, err := NewIronCondor(testParams(100),
		Leg(pos(85), pos(1), positive.Zero),
		Leg(pos(90), pos(2), positive.Zero),
		Leg(pos(110), pos(2), positive.Zero),
		Leg(pos(115), pos(1), positive.Zero),
	)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	maxProfit, err := s.MaxProfit()
	require.NoError(t, err)
	assertDecimal(t, 2, maxProfit.Decimal())

	maxLoss, err := s.MaxLoss()
	require.NoError(t, err)
	assertDecimal(t, 3, maxLoss.Decimal())

	bes := s.GetBreakEvenPoints()
	require.Len(t, bes, 2)
	assertDecimal(t, 88, bes[0].Decimal())
	assertDecimal(t, 112, bes[1].Decimal())
}

func TestSetters(t *testing.T) {
	s := newBearPut(t, 0)
	pricer := pricing.NewBlackScholes()

	require.NoError(t, s.SetUnderlyingPrice(pos(110)))
	for _, p := range s.GetPositions() {
		assert.True(t, p.Option.UnderlyingPrice.Equal(pos(110)))

		price, err := pricer.Price(p.Option)
		require.NoError(t, err)
		assert.True(t, p.Premium.Equal(positive.FromAbs(price)))
	}

	require.NoError(t, s.SetImpliedVolatility(pos(0.35)))
	for _, p := range s.GetPositions() {
		assert.True(t, p.Option.ImpliedVolatility.Equal(pos(0.35)))
	}
	for _, iv := range s.ImpliedVolatilities() {
		assert.True(t, iv.Equal(pos(0.35)))
	}
}

func TestGreeksAndPnL(t *testing.T) {
	s := newBearPut(t, 0)

	greeks, err := s.Greeks()
	require.NoError(t, err)

	info, err := s.CalculateNetDelta()
	require.NoError(t, err)
	assert.True(t, greeks.Delta.Equal(info.NetDelta))
	assert.True(t, info.NetDelta.IsNegative())

	atExpiration := s.CalculatePnLAtExpiration(pos(90))
	require.NotNil(t, atExpiration.Realized)
	assertDecimal(t, 8, *atExpiration.Realized)

	pnl, err := s.CalculatePnL(pos(100), models.Days(pos(30)), pos(0.2))
	require.NoError(t, err)
	require.NotNil(t, pnl.Unrealized)
	assertDecimal(t, 4, pnl.InitialCosts.Decimal())
	assertDecimal(t, 2, pnl.InitialIncome.Decimal())
}

func TestKind(t *testing.T) {
	assert.Equal(t, "Bear Put Spread", KindBearPutSpread.Title())
	assert.NoError(t, KindIronCondor.Validate())
	assert.Error(t, Kind("calendar_spread").Validate())

	for _, kind := range AllKinds {
		count, err := LegCount(kind)
		require.NoError(t, err)
		assert.Greater(t, count, 0, kind)
		assert.NotEmpty(t, descriptions[kind], kind)
	}
}

func TestCallButterfly(t *testing.T) {
	s, err := NewCallButterfly(testParams(100),
		Leg(pos(90), pos(12), positive.Zero),
		Leg(pos(100), pos(5), positive.Zero),
		Leg(pos(110), pos(1), positive.Zero),
	)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assertDecimal(t, -6, s.ProfitAt(pos(90)))
	assertDecimal(t, 4, s.ProfitAt(pos(100)))
	assertDecimal(t, 4, s.ProfitAt(pos(110)))
	assertDecimal(t, -6, s.ProfitAt(pos(120)))

	bes := s.GetBreakEvenPoints()
	require.Len(t, bes, 2)
	assertDecimal(t, 96, bes[0].Decimal())
	assertDecimal(t, 114, bes[1].Decimal())

	maxProfit, err := s.MaxProfit()
	require.NoError(t, err)
	assertDecimal(t, 4, maxProfit.Decimal())

	_, err = s.MaxLoss()
	assert.ErrorIs(t, err, ErrMaxLossUnlimited)

	profits, err := s.GetProfitRanges(flatVolatility, nil)
	require.NoError(t, err)
	require.Len(t, profits, 1)
	assertBounds(t, profits[0], 96, 114)

	losses, err := s.GetLossRanges(flatVolatility, nil)
	require.NoError(t, err)
	require.Len(t, losses, 2)
	assertBounds(t, losses[0], -1, 96)
	assertBounds(t, losses[1], 114, -1)

	t.Run("short strikes out of order", func(t *testing.T) {
		s, err := NewCallButterfly(testParams(100),
			Leg(pos(100), pos(5), positive.Zero),
			Leg(pos(90), pos(12), positive.Zero),
			Leg(pos(110), pos(1), positive.Zero),
		)
		require.NoError(t, err)
		assert.ErrorIs(t, s.Validate(), models.ErrStrategy)
	})
}

func TestRatioCallSpread(t *testing.T) {
	s, err := NewRatioCallSpread(testParams(100),
		Leg(pos(95), pos(7), positive.Zero),
		Leg(pos(105), pos(2), positive.Zero),
	)
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.True(t, s.ShortCalls.Option.Quantity.Equal(pos(2)))

	assertDecimal(t, -3, s.ProfitAt(pos(90)))
	assertDecimal(t, 7, s.ProfitAt(pos(105)))
	assertDecimal(t, -3, s.ProfitAt(pos(115)))

	bes := s.GetBreakEvenPoints()
	require.Len(t, bes, 2)
	assertDecimal(t, 98, bes[0].Decimal())
	assertDecimal(t, 112, bes[1].Decimal())

	maxProfit, err := s.MaxProfit()
	require.NoError(t, err)
	assertDecimal(t, 7, maxProfit.Decimal())

	_, err = s.MaxLoss()
	assert.ErrorIs(t, err, ErrMaxLossUnlimited)
}
