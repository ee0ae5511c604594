package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
)

func newTestOption(side models.Side, style models.OptionStyle) models.Option {
	return models.NewOption(side, style, "SPY", positive.Hundred, models.Days(positive.MustFromInt(30)),
		positive.MustFromFloat(0.2), positive.One, positive.Hundred, decimal.NewFromFloat(0.05), positive.MustFromFloat(0.01))
}

func TestBlackScholesPrice(t *testing.T) {
	bs := NewBlackScholes()

	t.Run("call", func(t *testing.T) {
		price, err := bs.Price(newTestOption(models.Long, models.Call))
		require.NoError(t, err)
		assert.InDelta(t, 2.449248300868831, price.InexactFloat64(), 1e-8)
	})

	t.Run("put", func(t *testing.T) {
		price, err := bs.Price(newTestOption(models.Long, models.Put))
		require.NoError(t, err)
		assert.InDelta(t, 2.1212906899192134, price.InexactFloat64(), 1e-8)
	})

	t.Run("expired option is worth its intrinsic value", func(t *testing.T) {
		option := newTestOption(models.Long, models.Call)
		option.ExpirationDate = models.Days(positive.Zero)
		option.UnderlyingPrice = positive.MustFromInt(110)

		price, err := bs.Price(option)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, price.InexactFloat64(), 1e-12)
	})

	t.Run("zero strike", func(t *testing.T) {
		option := newTestOption(models.Long, models.Call)
		option.StrikePrice = positive.Zero

		_, err := bs.Price(option)
		require.ErrorIs(t, err, models.ErrPricing)
	})
}

func TestBlackScholesGreeks(t *testing.T) {
	bs := NewBlackScholes()

	t.Run("call", func(t *testing.T) {
		g, err := CalculateGreeks(bs, newTestOption(models.Long, models.Call))
		require.NoError(t, err)

		assert.InDelta(t, 0.5338307582207132, g.Delta.InexactFloat64(), 1e-8)
		assert.InDelta(t, 0.06926321174822156, g.Gamma.InexactFloat64(), 1e-8)
		assert.InDelta(t, -15.865502967483724, g.Theta.InexactFloat64(), 1e-6)
		assert.InDelta(t, 11.385733438063816, g.Vega.InexactFloat64(), 1e-6)
		assert.InDelta(t, 4.186341988044041, g.Rho.InexactFloat64(), 1e-6)
		assert.InDelta(t, -0.05692866719031906, g.Vanna.InexactFloat64(), 1e-8)
		assert.InDelta(t, 0.1403720560857182, g.Vomma.InexactFloat64(), 1e-8)
		assert.InDelta(t, 68.63699640912805, g.Veta.InexactFloat64(), 1e-5)
		assert.InDelta(t, -0.20245132766245758, g.Charm.InexactFloat64(), 1e-8)
		assert.InDelta(t, -0.4251606814478334, g.Color.InexactFloat64(), 1e-8)
	})

	t.Run("put", func(t *testing.T) {
		g, err := CalculateGreeks(bs, newTestOption(models.Long, models.Put))
		require.NoError(t, err)

		assert.InDelta(t, -0.46534766165298735, g.Delta.InexactFloat64(), 1e-8)
		assert.InDelta(t, -11.885187168536405, g.Theta.InexactFloat64(), 1e-6)
		assert.InDelta(t, -3.9991279607028445, g.Rho.InexactFloat64(), 1e-6)
		assert.InDelta(t, -0.21244311186119458, g.Charm.InexactFloat64(), 1e-8)
	})

	t.Run("position greeks are signed by side and quantity", func(t *testing.T) {
		option := newTestOption(models.Short, models.Call)
		option.Quantity = positive.Two

		g, err := PositionGreeks(bs, option)
		require.NoError(t, err)
		assert.InDelta(t, -2*0.5338307582207132, g.Delta.InexactFloat64(), 1e-8)
	})

	t.Run("expired delta is a step", func(t *testing.T) {
		option := newTestOption(models.Long, models.Put)
		option.ExpirationDate = models.Days(positive.Zero)
		option.UnderlyingPrice = positive.MustFromInt(90)

		delta, err := bs.Greek(Delta, option)
		require.NoError(t, err)
		assert.Equal(t, "-1", delta.String())

		gamma, err := bs.Greek(Gamma, option)
		require.NoError(t, err)
		assert.True(t, gamma.IsZero())
	})

	t.Run("unknown greek", func(t *testing.T) {
		_, err := bs.Greek(Greek("lambda"), newTestOption(models.Long, models.Call))
		require.ErrorIs(t, err, models.ErrGreeks)
	})
}
