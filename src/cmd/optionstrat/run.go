package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/optionstrat/src/chains"
	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/pricing"
	"github.com/jiaming2012/optionstrat/src/strategies"
	"github.com/jiaming2012/optionstrat/src/volatility"
)

type ChainArgs struct {
	Path            string
	Symbol          string
	UnderlyingPrice positive.Positive
	ExpirationDays  positive.Positive
	RiskFreeRate    decimal.Decimal
	DividendYield   positive.Positive
}

func loadChain(args ChainArgs) (*chains.OptionChain, error) {
	f, err := os.Open(args.Path)
	if err != nil {
		return nil, fmt.Errorf("loadChain: %w", err)
	}
	defer f.Close()

	return chains.ReadOptionChainCSV(f, args.Symbol, args.UnderlyingPrice, models.Days(args.ExpirationDays), args.RiskFreeRate, args.DividendYield)
}

type BuildChainArgs struct {
	Params chains.OptionChainBuildParams
	Out    io.Writer
}

func RunBuildChain(args BuildChainArgs) error {
	chain, err := chains.BuildChain(args.Params, pricing.NewBlackScholes())
	if err != nil {
		return err
	}

	return chain.WriteCSV(args.Out)
}

type RNDArgs struct {
	Chain     ChainArgs
	Tolerance positive.Positive
}

func RunRND(args RNDArgs) (string, error) {
	chain, err := loadChain(args.Chain)
	if err != nil {
		return "", err
	}

	params := chains.DefaultRNDParameters()
	params.RiskFreeRate = args.Chain.RiskFreeRate
	params.DerivativeTolerance = args.Tolerance

	result, err := chain.CalculateRND(params)
	if err != nil {
		return "", err
	}

	return result.String(), nil
}

type AnalyzeArgs struct {
	ConfigPath string
}

func RunAnalyze(args AnalyzeArgs) (string, error) {
	config, err := strategies.LoadStrategyConfig(args.ConfigPath)
	if err != nil {
		return "", err
	}

	s, err := config.Build()
	if err != nil {
		return "", err
	}

	out := &strings.Builder{}
	out.WriteString(strategies.Summary(s))
	out.WriteString(strategies.TradesTable(strategies.OpenTrades(s)))

	delta, err := s.CalculateNetDelta()
	if err != nil {
		return "", err
	}
	fmt.Fprintln(out, delta.String())

	analysis, err := s.AnalyzeProbabilities(config.VolatilityAdjustment, config.Trend)
	if err != nil {
		return "", err
	}
	out.WriteString(analysis.String())

	if curve, err := strategies.DefaultProfitCurve(s); err != nil {
		log.Warnf("RunAnalyze: profit curve: %v", err)
	} else {
		metrics := curve.ComputeMetrics()
		fmt.Fprintf(out, "profit curve: mean %s, std dev %s, value at risk %s\n",
			metrics.Basic.Mean.StringFixed(2), metrics.Basic.StdDev.StringFixed(2), metrics.Risk.ValueAtRisk.StringFixed(2))
	}

	return out.String(), nil
}

type AdjustArgs struct {
	ConfigPath string
	ChainPath  string
	Apply      bool
}

func RunAdjust(args AdjustArgs) (string, error) {
	config, err := strategies.LoadStrategyConfig(args.ConfigPath)
	if err != nil {
		return "", err
	}

	s, err := config.Build()
	if err != nil {
		return "", err
	}

	var chain *chains.OptionChain
	if args.ChainPath != "" {
		chain, err = loadChain(ChainArgs{
			Path:            args.ChainPath,
			Symbol:          config.Symbol,
			UnderlyingPrice: config.UnderlyingPrice,
			ExpirationDays:  config.ExpirationDays,
			RiskFreeRate:    config.RiskFreeRate,
			DividendYield:   config.DividendYield,
		})
		if err != nil {
			return "", err
		}
	}

	plan, err := strategies.PlanDeltaAdjustments(s, chain, config.AdjustmentConfig())
	if err != nil {
		return "", err
	}

	out := &strings.Builder{}
	out.WriteString(plan.String())

	if args.Apply {
		if err := strategies.ApplyAdjustmentPlan(s, plan); err != nil {
			return "", err
		}

		delta, err := s.CalculateNetDelta()
		if err != nil {
			return "", err
		}
		fmt.Fprintln(out, delta.String())
	}

	return out.String(), nil
}

type OptimizeArgs struct {
	Chain     ChainArgs
	Kind      strategies.Kind
	Side      chains.FindOptimalSide
	Criterion strategies.OptimizationCriterion
	Defaults  strategies.OptimizerDefaults
}

func RunOptimize(args OptimizeArgs) (string, error) {
	chain, err := loadChain(args.Chain)
	if err != nil {
		return "", err
	}

	args.Defaults.RiskFreeRate = args.Chain.RiskFreeRate
	args.Defaults.DividendYield = args.Chain.DividendYield

	best, err := strategies.FindOptimal(args.Kind, chain, args.Side, args.Criterion, args.Defaults)
	if err != nil {
		return "", err
	}

	return strategies.Summary(best), nil
}

type ImpliedVolArgs struct {
	Option      models.Option
	MarketPrice decimal.Decimal
	Iterations  int
}

func RunImpliedVol(args ImpliedVolArgs) (string, error) {
	iv, err := volatility.Implied(pricing.NewBlackScholes(), args.Option, args.MarketPrice, args.Iterations)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s @ %s: implied volatility %.4f", args.Option.Title(), args.MarketPrice.StringFixed(2), iv.Float64()), nil
}

type HistVolArgs struct {
	Prices    []float64
	Window    int
	Lambda    float64
	TimeFrame volatility.TimeFrame
}

func RunHistVol(args HistVolArgs) (string, error) {
	returns, err := volatility.LogReturns(args.Prices)
	if err != nil {
		return "", err
	}

	historical, err := volatility.Historical(returns, args.Window)
	if err != nil {
		return "", err
	}

	ewma, err := volatility.EWMA(returns, args.Lambda)
	if err != nil {
		return "", err
	}

	out := &strings.Builder{}
	fmt.Fprintf(out, "constant: %.4f annualized\n", volatility.Annualized(volatility.Constant(returns), args.TimeFrame))

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Return", "Historical", "EWMA"})
	offset := args.Window - 1
	for i, e := range ewma {
		hist := "-"
		if i >= offset && i-offset < len(historical) {
			hist = fmt.Sprintf("%.4f", volatility.Annualized(historical[i-offset], args.TimeFrame))
		}
		table.Append([]string{fmt.Sprintf("%d", i+1), hist, fmt.Sprintf("%.4f", volatility.Annualized(e, args.TimeFrame))})
	}
	table.Render()

	return out.String(), nil
}
