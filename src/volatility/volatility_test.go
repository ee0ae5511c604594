package volatility

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/pricing"
)

func TestConstant(t *testing.T) {
	assert.InDelta(t, 0.01, Constant([]float64{0.01, 0.02, 0.03}), 1e-12)
	assert.Equal(t, 0.0, Constant([]float64{0.01}))
	assert.Equal(t, 0.0, Constant(nil))
}

func TestHistorical(t *testing.T) {
	returns := []float64{0.01, 0.02, 0.03, 0.01, 0.01}

	t.Run("rolls the window over the series", func(t *testing.T) {
		out, err := Historical(returns, 3)
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.InDelta(t, 0.01, out[0], 1e-12)
		assert.InDelta(t, Constant(returns[2:5]), out[2], 1e-12)
	})

	t.Run("window longer than the series", func(t *testing.T) {
		out, err := Historical(returns, 10)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("invalid window", func(t *testing.T) {
		_, err := Historical(returns, 0)
		assert.ErrorIs(t, err, ErrInvalidWindow)
		assert.ErrorIs(t, err, models.ErrVolatility)
	})
}

func TestEWMA(t *testing.T) {
	t.Run("constant returns", func(t *testing.T) {
		out, err := EWMA([]float64{0.02, 0.02, 0.02, 0.02}, 0.94)
		require.NoError(t, err)
		require.Len(t, out, 4)
		for _, v := range out {
			assert.InDelta(t, 0.02, v, 1e-12)
		}
	})

	t.Run("lambda zero tracks the latest return", func(t *testing.T) {
		out, err := EWMA([]float64{0.01, -0.03}, 0)
		require.NoError(t, err)
		assert.InDelta(t, 0.03, out[1], 1e-12)
	})

	t.Run("invalid lambda", func(t *testing.T) {
		_, err := EWMA([]float64{0.01}, 1.5)
		assert.ErrorIs(t, err, ErrInvalidLambda)
	})

	t.Run("empty returns", func(t *testing.T) {
		_, err := EWMA(nil, 0.94)
		assert.ErrorIs(t, err, ErrEmptyReturns)
	})
}

func TestAnnualized(t *testing.T) {
	assert.InDelta(t, 0.01*math.Sqrt(252), Annualized(0.01, Day), 1e-12)
	assert.InDelta(t, 0.01, DeAnnualized(Annualized(0.01, Week), Week), 1e-12)
	assert.InDelta(t, 0.2, Annualized(0.2, Year), 1e-12)
}

func TestLogReturns(t *testing.T) {
	out, err := LogReturns([]float64{100, 110, 99})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.InDelta(t, math.Log(1.1), out[0], 1e-12)
	assert.InDelta(t, math.Log(0.9), out[1], 1e-12)

	_, err = LogReturns([]float64{100, 0})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = LogReturns([]float64{100})
	assert.ErrorIs(t, err, ErrEmptyReturns)
}

func TestParseTimeFrame(t *testing.T) {
	tf, err := ParseTimeFrame("Day")
	require.NoError(t, err)
	assert.Equal(t, Day, tf)

	_, err = ParseTimeFrame("fortnight")
	assert.Error(t, err)
}

func TestImplied(t *testing.T) {
	pricer := pricing.NewBlackScholes()
	option := func(style models.OptionStyle, iv float64) models.Option {
		return models.NewOption(models.Long, style, "SPY", positive.MustFromInt(100), models.Days(positive.MustFromInt(30)),
			positive.MustFromFloat(iv), positive.One, positive.MustFromInt(100), decimal.NewFromFloat(0.05), positive.Zero)
	}

	for _, style := range []models.OptionStyle{models.Call, models.Put} {
		t.Run("recovers the pricing volatility of a "+string(style), func(t *testing.T) {
			price, err := pricer.Price(option(style, 0.3))
			require.NoError(t, err)

			iv, err := Implied(pricer, option(style, DefaultGuess), price, 0)
			require.NoError(t, err)
			assert.InDelta(t, 0.3, iv.Float64(), 1e-4)
		})
	}

	t.Run("zero guess starts from the default", func(t *testing.T) {
		price, err := pricer.Price(option(models.Call, 0.45))
		require.NoError(t, err)

		iv, err := Implied(pricer, option(models.Call, 0), price, DefaultIterations)
		require.NoError(t, err)
		assert.InDelta(t, 0.45, iv.Float64(), 1e-4)
	})

	t.Run("non positive market price", func(t *testing.T) {
		_, err := Implied(pricer, option(models.Call, DefaultGuess), decimal.NewFromInt(-1), 0)
		assert.ErrorIs(t, err, ErrInvalidPrice)
		assert.ErrorIs(t, err, models.ErrVolatility)
	})

	t.Run("price above the underlying", func(t *testing.T) {
		_, err := Implied(pricer, option(models.Call, DefaultGuess), decimal.NewFromInt(150), 20)
		assert.Error(t, err)
	})
}
