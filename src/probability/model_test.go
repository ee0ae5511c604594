package probability

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
)

func pos(f float64) positive.Positive {
	return positive.MustFromFloat(f)
}

func spos(f float64) *positive.Positive {
	p := pos(f)
	return &p
}

var oneYear = models.Days(pos(365))

func TestCalculateSinglePointProbability(t *testing.T) {
	t.Run("default volatility", func(t *testing.T) {
		below, above, err := CalculateSinglePointProbability(pos(100), pos(100), nil, nil, oneYear, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.539828, below.Float64(), 1e-6)
		assert.InDelta(t, 1.0, below.Float64()+above.Float64(), 1e-12)
	})

	t.Run("risk free rate shifts the mean", func(t *testing.T) {
		rate := decimal.NewFromFloat(0.05)
		below, _, err := CalculateSinglePointProbability(pos(100), pos(100), nil, nil, oneYear, &rate)
		require.NoError(t, err)
		assert.InDelta(t, 0.440382, below.Float64(), 1e-6)
	})

	t.Run("volatility adjustment", func(t *testing.T) {
		adj := &VolatilityAdjustment{BaseVolatility: pos(0.2), StdDevAdjustment: pos(0.1)}
		below, _, err := CalculateSinglePointProbability(pos(100), pos(100), adj, nil, oneYear, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.559618, below.Float64(), 1e-6)
	})

	t.Run("trend", func(t *testing.T) {
		trend := &PriceTrend{DriftRate: decimal.NewFromFloat(0.1), Confidence: 0.5}
		below, _, err := CalculateSinglePointProbability(pos(100), pos(100), nil, trend, oneYear, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.440382, below.Float64(), 1e-6)
	})

	t.Run("boundaries", func(t *testing.T) {
		below, above, err := CalculateSinglePointProbability(pos(100), positive.Zero, nil, nil, oneYear, nil)
		require.NoError(t, err)
		assert.True(t, below.IsZero())
		assert.True(t, above.Equal(positive.One))

		below, above, err = CalculateSinglePointProbability(pos(100), positive.Infinity, nil, nil, oneYear, nil)
		require.NoError(t, err)
		assert.True(t, below.Equal(positive.One))
		assert.True(t, above.IsZero())
	})

	t.Run("expired", func(t *testing.T) {
		_, _, err := CalculateSinglePointProbability(pos(100), pos(100), nil, nil, models.Days(positive.Zero), nil)
		require.ErrorIs(t, err, ErrInvalidExpiration)
		require.ErrorIs(t, err, models.ErrProbability)

		var expErr *ExpirationError
		require.ErrorAs(t, err, &expErr)
	})

	t.Run("bad confidence", func(t *testing.T) {
		trend := &PriceTrend{DriftRate: decimal.NewFromFloat(0.1), Confidence: 1.5}
		_, _, err := CalculateSinglePointProbability(pos(100), pos(100), nil, trend, oneYear, nil)
		require.ErrorIs(t, err, ErrInvalidConfidence)
	})

	t.Run("zero volatility", func(t *testing.T) {
		adj := &VolatilityAdjustment{}
		_, _, err := CalculateSinglePointProbability(pos(100), pos(100), adj, nil, oneYear, nil)
		require.ErrorIs(t, err, ErrInvalidVolatility)
	})

	t.Run("zero current price", func(t *testing.T) {
		_, _, err := CalculateSinglePointProbability(positive.Zero, pos(100), nil, nil, oneYear, nil)
		require.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestCalculatePriceProbability(t *testing.T) {
	expiration := models.Days(pos(30))

	below, inRange, above, err := CalculatePriceProbability(pos(100), pos(90), pos(110), nil, nil, expiration, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.035237, below.Float64(), 1e-6)
	assert.InDelta(t, 0.919337, inRange.Float64(), 1e-6)
	assert.InDelta(t, 0.045427, above.Float64(), 1e-6)

	_, _, _, err = CalculatePriceProbability(pos(100), pos(110), pos(90), nil, nil, expiration, nil)
	require.ErrorIs(t, err, ErrInvalidPriceRange)

	var priceErr *PriceError
	require.ErrorAs(t, err, &priceErr)
}

func TestCalculateBoundsProbability(t *testing.T) {
	expiration := models.Days(pos(30))

	probs, err := CalculateBoundsProbability(pos(100), []positive.Positive{pos(90), pos(110)}, nil, nil, expiration, nil)
	require.NoError(t, err)
	require.Len(t, probs, 3)
	assert.InDelta(t, 0.035237, probs[0].Float64(), 1e-6)
	assert.InDelta(t, 0.919337, probs[1].Float64(), 1e-6)
	assert.InDelta(t, 0.045427, probs[2].Float64(), 1e-6)
	assert.InDelta(t, 1.0, positive.Sum(probs).Float64(), 1e-9)

	_, err = CalculateBoundsProbability(pos(100), nil, nil, nil, expiration, nil)
	require.ErrorIs(t, err, ErrInvalidPriceRange)

	_, err = CalculateBoundsProbability(pos(100), []positive.Positive{pos(110), pos(90)}, nil, nil, expiration, nil)
	require.ErrorIs(t, err, ErrInvalidPriceRange)
}
