package strategies

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/optionstrat/src/models"
)

const bearPutYAML = `
kind: bear_put_spread
symbol: TEST
underlying_price: 100
expiration_days: 30
implied_volatility: 0.2
risk_free_rate: 0
legs:
  - strike: 105
    premium: 4
  - strike: 95
    premium: 2
adjustment:
  delta_tolerance: 0.05
  allow_underlying: true
volatility_adjustment:
  base_volatility: 0.2
  std_dev_adjustment: 0.05
trend:
  drift_rate: 0.1
  confidence: 0.8
`

func TestParseStrategyConfig(t *testing.T) {
	t.Run("bear put", func(t *testing.T) {
		config, err := ParseStrategyConfig([]byte(bearPutYAML))
		require.NoError(t, err)
		assert.Equal(t, KindBearPutSpread, config.Kind)
		assert.True(t, config.Quantity.Equal(pos(1)))

		s, err := config.Build()
		require.NoError(t, err)
		require.NoError(t, s.Validate())

		require.Len(t, s.GetBreakEvenPoints(), 1)
		assertDecimal(t, 103, s.GetBreakEvenPoints()[0].Decimal())
		assert.Equal(t, "TEST Bear Put Spread", s.GetName())

		require.NotNil(t, config.VolatilityAdjustment)
		assertDecimal(t, 0.25, config.VolatilityAdjustment.Sigma().Decimal())
		require.NotNil(t, config.Trend)
		assert.Equal(t, 0.8, config.Trend.Confidence)
	})

	t.Run("adjustment keeps defaults for omitted keys", func(t *testing.T) {
		config, err := ParseStrategyConfig([]byte(bearPutYAML))
		require.NoError(t, err)

		adjustment := config.AdjustmentConfig()
		assert.True(t, adjustment.AllowUnderlying)
		assert.True(t, adjustment.AllowNewLegs)
		assert.True(t, adjustment.PreferExistingLegs)
		assert.Equal(t, 2, adjustment.MaxNewLegs)
		assert.Equal(t, []models.OptionStyle{models.Call, models.Put}, adjustment.AllowedStyles)
		assertDecimal(t, 0.05, adjustment.DeltaTolerance)
	})

	t.Run("missing adjustment falls back to defaults", func(t *testing.T) {
		config := StrategyConfig{}
		assert.Equal(t, DefaultAdjustmentConfig(), config.AdjustmentConfig())
	})

	t.Run("per leg overrides", func(t *testing.T) {
		data := `
kind: poor_mans_covered_call
symbol: TEST
underlying_price: 100
expiration_days: 30
implied_volatility: 0.2
quantity: 2
legs:
  - strike: 90
    premium: 15
    expiration_days: 365
    implied_volatility: 0.25
  - strike: 110
    premium: 2
    open_fee: 0.1
    close_fee: 0.1
`
		config, err := ParseStrategyConfig([]byte(data))
		require.NoError(t, err)

		s, err := config.Build()
		require.NoError(t, err)
		require.NoError(t, s.Validate())

		pmcc, ok := s.(*PoorMansCoveredCall)
		require.True(t, ok)
		assert.True(t, pmcc.LongCall.Option.ExpirationDate.Equal(models.Days(pos(365))))
		assert.True(t, pmcc.LongCall.Option.ImpliedVolatility.Equal(pos(0.25)))
		assert.True(t, pmcc.ShortCall.Option.Quantity.Equal(pos(2)))
		assert.True(t, pmcc.ShortCall.OpenFee.Equal(pos(0.1)))
	})

	t.Run("wrong leg count", func(t *testing.T) {
		data := `
kind: iron_condor
symbol: TEST
underlying_price: 100
expiration_days: 30
legs:
  - strike: 90
    premium: 1
`
		_, err := ParseStrategyConfig([]byte(data))
		assert.ErrorContains(t, err, "needs 4 legs")
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := ParseStrategyConfig([]byte("kind: jade_lizard\nexpiration_days: 30\n"))
		assert.Error(t, err)
	})

	t.Run("invalid trend", func(t *testing.T) {
		config, err := ParseStrategyConfig([]byte(bearPutYAML))
		require.NoError(t, err)

		config.Trend.Confidence = 1.5
		assert.Error(t, config.Validate())
	})
}

func TestLoadStrategyConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bearPutYAML), 0o600))

	config, err := LoadStrategyConfig(path)
	require.NoError(t, err)
	assert.Len(t, config.Legs, 2)

	_, err = LoadStrategyConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadAdjustmentConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adjustment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_new_legs: 1\nallowed_styles: [put]\nmin_strike: 90\n"), 0o600))

	config, err := LoadAdjustmentConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, config.MaxNewLegs)
	assert.Equal(t, []models.OptionStyle{models.Put}, config.AllowedStyles)
	require.NotNil(t, config.MinStrike)
	assert.True(t, config.MinStrike.Equal(pos(90)))
	assert.True(t, config.PreferExistingLegs)

	require.NoError(t, os.WriteFile(path, []byte("max_new_legs: -1\n"), 0o600))
	_, err = LoadAdjustmentConfig(path)
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	out := Summary(newBearPut(t, 0))
	assert.Contains(t, out, "TEST Bear Put Spread")
	assert.Contains(t, out, "long_put")
	assert.Contains(t, out, "103.00")

	unbounded, err := NewLongCall(testParams(100), Leg(pos(100), pos(3), pos(0)))
	require.NoError(t, err)
	assert.Contains(t, Summary(unbounded), "unlimited")
}

func TestOpenTrades(t *testing.T) {
	s := newBearPut(t, 0)

	trades := OpenTrades(s)
	require.Len(t, trades, 2)
	assert.Equal(t, models.TradeActionBuy, trades[0].Action)
	assert.Equal(t, models.TradeActionSell, trades[1].Action)
	assert.True(t, trades.NetPremium().Equal(s.NetCost().Neg()))
	assert.Contains(t, TradesTable(trades), "-2.00")
}
