package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/optionstrat/src/chains"
	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/pricing"
	"github.com/jiaming2012/optionstrat/src/strategies"
	"github.com/jiaming2012/optionstrat/src/volatility"
)

const strategyYAML = `
kind: bear_put_spread
symbol: SPY
underlying_price: 100
expiration_days: 30
implied_volatility: 0.2
risk_free_rate: 0.05
legs:
  - strike: 105
    premium: 6.5
    open_fee: 0.1
    close_fee: 0.1
  - strike: 95
    premium: 1.4
    open_fee: 0.1
    close_fee: 0.1
`

func writeChain(t *testing.T, dir string) ChainArgs {
	path := filepath.Join(dir, "chain.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	err = RunBuildChain(BuildChainArgs{
		Params: chains.OptionChainBuildParams{
			Symbol:            "SPY",
			UnderlyingPrice:   positive.MustFromInt(100),
			ExpirationDate:    models.Days(positive.MustFromInt(30)),
			ImpliedVolatility: positive.MustFromFloat(0.2),
			RiskFreeRate:      decimal.NewFromFloat(0.05),
			ChainSize:         10,
			StrikeInterval:    positive.MustFromInt(5),
			Spread:            positive.MustFromFloat(0.02),
			DecimalPlaces:     2,
		},
		Out: f,
	})
	require.NoError(t, err)

	return ChainArgs{
		Path:            path,
		Symbol:          "SPY",
		UnderlyingPrice: positive.MustFromInt(100),
		ExpirationDays:  positive.MustFromInt(30),
		RiskFreeRate:    decimal.NewFromFloat(0.05),
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	chainArgs := writeChain(t, dir)

	configPath := filepath.Join(dir, "strategy.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(strategyYAML), 0o600))

	t.Run("rnd", func(t *testing.T) {
		result, err := RunRND(RNDArgs{Chain: chainArgs, Tolerance: positive.One})
		require.NoError(t, err)
		assert.NotEmpty(t, result)
	})

	t.Run("analyze", func(t *testing.T) {
		result, err := RunAnalyze(AnalyzeArgs{ConfigPath: configPath})
		require.NoError(t, err)
		assert.Contains(t, result, "SPY Bear Put Spread")
		assert.Contains(t, result, "Probability of profit")
		assert.Contains(t, result, "profit curve")
	})

	t.Run("adjust", func(t *testing.T) {
		result, err := RunAdjust(AdjustArgs{ConfigPath: configPath, ChainPath: chainArgs.Path, Apply: true})
		require.NoError(t, err)
		assert.Contains(t, result, "residual delta")
	})

	t.Run("optimize", func(t *testing.T) {
		result, err := RunOptimize(OptimizeArgs{
			Chain:     chainArgs,
			Kind:      strategies.KindBullCallSpread,
			Side:      chains.SideAll,
			Criterion: strategies.Ratio,
		})
		require.NoError(t, err)
		assert.Contains(t, result, "Bull Call Spread")
	})

	t.Run("missing chain", func(t *testing.T) {
		missing := chainArgs
		missing.Path = filepath.Join(dir, "missing.csv")

		_, err := RunRND(RNDArgs{Chain: missing, Tolerance: positive.One})
		assert.Error(t, err)
	})

	t.Run("implied vol", func(t *testing.T) {
		option := models.NewOption(models.Long, models.Call, "SPY", positive.MustFromInt(100), models.Days(positive.MustFromInt(30)),
			positive.MustFromFloat(0.3), positive.One, positive.MustFromInt(100), decimal.NewFromFloat(0.05), positive.Zero)
		price, err := pricing.NewBlackScholes().Price(option)
		require.NoError(t, err)

		option.ImpliedVolatility = positive.MustFromFloat(volatility.DefaultGuess)
		result, err := RunImpliedVol(ImpliedVolArgs{Option: option, MarketPrice: price})
		require.NoError(t, err)
		assert.Contains(t, result, "implied volatility 0.3000")

		_, err = RunImpliedVol(ImpliedVolArgs{Option: option, MarketPrice: decimal.Zero})
		assert.ErrorIs(t, err, volatility.ErrInvalidPrice)
	})

	t.Run("hist vol", func(t *testing.T) {
		result, err := RunHistVol(HistVolArgs{
			Prices:    []float64{100, 101, 99.5, 102, 101.5, 103},
			Window:    3,
			Lambda:    0.94,
			TimeFrame: volatility.Day,
		})
		require.NoError(t, err)
		assert.Contains(t, result, "constant:")
		assert.Contains(t, result, "EWMA")

		_, err = RunHistVol(HistVolArgs{Prices: []float64{100}, Window: 3, Lambda: 0.94, TimeFrame: volatility.Day})
		assert.ErrorIs(t, err, volatility.ErrEmptyReturns)
	})
}
