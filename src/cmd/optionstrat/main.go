package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/optionstrat/src/chains"
	"github.com/jiaming2012/optionstrat/src/logger"
	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/strategies"
	"github.com/jiaming2012/optionstrat/src/utils"
	"github.com/jiaming2012/optionstrat/src/volatility"
)

var rootCmd = &cobra.Command{
	Use:   "optionstrat",
	Short: "Analyze, adjust and optimize European option strategies",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Setup(level, jsonLogs); err != nil {
			log.Fatalf("error setting up logger: %v", err)
		}

		envDir, _ := cmd.Flags().GetString("env-dir")
		goEnv, _ := cmd.Flags().GetString("go-env")
		if err := utils.InitEnvironmentVariables(envDir, goEnv); err != nil {
			log.Fatalf("error loading environment variables: %v", err)
		}
	},
}

func positiveFlag(cmd *cobra.Command, name string) positive.Positive {
	value, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		log.Fatalf("error getting %s: %v", name, err)
	}

	p, err := positive.NewFromFloat(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", name, err)
	}
	return p
}

func stringFlag(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		log.Fatalf("error getting %s: %v", name, err)
	}
	return value
}

func chainArgs(cmd *cobra.Command) ChainArgs {
	rate, err := cmd.Flags().GetFloat64("rate")
	if err != nil {
		log.Fatalf("error getting rate: %v", err)
	}

	return ChainArgs{
		Path:            stringFlag(cmd, "chain"),
		Symbol:          stringFlag(cmd, "symbol"),
		UnderlyingPrice: positiveFlag(cmd, "underlying"),
		ExpirationDays:  positiveFlag(cmd, "days"),
		RiskFreeRate:    decimal.NewFromFloat(rate),
		DividendYield:   positiveFlag(cmd, "dividend"),
	}
}

func addChainFlags(cmd *cobra.Command) {
	cmd.Flags().String("chain", "", "Path to the option chain CSV.")
	cmd.Flags().String("symbol", "", "Underlying symbol of the chain.")
	cmd.Flags().Float64("underlying", 0, "Underlying price.")
	cmd.Flags().Float64("days", 30, "Days to expiration.")
	cmd.Flags().Float64("rate", 0, "Annual risk free rate.")
	cmd.Flags().Float64("dividend", 0, "Annual dividend yield.")
	cmd.MarkFlagRequired("chain")
	cmd.MarkFlagRequired("underlying")
}

var buildChainCmd = &cobra.Command{
	Use:   "build-chain --symbol SPY --underlying 100 --iv 0.2",
	Short: "Generate a synthetic option chain as CSV",
	Run: func(cmd *cobra.Command, args []string) {
		size, _ := cmd.Flags().GetInt("size")
		places, _ := cmd.Flags().GetInt32("decimal-places")
		skew, _ := cmd.Flags().GetFloat64("skew")
		smile, _ := cmd.Flags().GetFloat64("smile")
		rate, _ := cmd.Flags().GetFloat64("rate")

		params := chains.OptionChainBuildParams{
			Symbol:            stringFlag(cmd, "symbol"),
			UnderlyingPrice:   positiveFlag(cmd, "underlying"),
			ExpirationDate:    models.Days(positiveFlag(cmd, "days")),
			ImpliedVolatility: positiveFlag(cmd, "iv"),
			RiskFreeRate:      decimal.NewFromFloat(rate),
			DividendYield:     positiveFlag(cmd, "dividend"),
			ChainSize:         size,
			StrikeInterval:    positiveFlag(cmd, "interval"),
			SkewSlope:         skew,
			SmileCurve:        smile,
			Spread:            positiveFlag(cmd, "spread"),
			DecimalPlaces:     places,
		}

		out := os.Stdout
		if path := stringFlag(cmd, "out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				log.Fatalf("error creating %s: %v", path, err)
			}
			defer f.Close()
			out = f
		}

		if err := RunBuildChain(BuildChainArgs{Params: params, Out: out}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

var rndCmd = &cobra.Command{
	Use:   "rnd --chain chain.csv --underlying 100",
	Short: "Risk neutral density implied by a chain's call prices",
	Run: func(cmd *cobra.Command, args []string) {
		result, err := RunRND(RNDArgs{
			Chain:     chainArgs(cmd),
			Tolerance: positiveFlag(cmd, "tolerance"),
		})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		fmt.Println(result)
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze --config strategy.yaml",
	Short: "Print the profile, greeks and probabilities of a strategy",
	Run: func(cmd *cobra.Command, args []string) {
		result, err := RunAnalyze(AnalyzeArgs{ConfigPath: stringFlag(cmd, "config")})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		fmt.Println(result)
	},
}

var adjustCmd = &cobra.Command{
	Use:   "adjust --config strategy.yaml [--chain chain.csv]",
	Short: "Plan the cheapest adjustment that makes a strategy delta neutral",
	Run: func(cmd *cobra.Command, args []string) {
		apply, _ := cmd.Flags().GetBool("apply")

		result, err := RunAdjust(AdjustArgs{
			ConfigPath: stringFlag(cmd, "config"),
			ChainPath:  stringFlag(cmd, "chain"),
			Apply:      apply,
		})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		fmt.Println(result)
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize --kind bull_call_spread --chain chain.csv --underlying 100",
	Short: "Find the best strike combination of a strategy in a chain",
	Run: func(cmd *cobra.Command, args []string) {
		kind := strategies.Kind(stringFlag(cmd, "kind"))
		if err := kind.Validate(); err != nil {
			log.Fatalf("Error: %v", err)
		}

		side, err := chains.ParseFindOptimalSide(stringFlag(cmd, "side"))
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		criterion := strategies.OptimizationCriterion(stringFlag(cmd, "criterion"))
		if err := criterion.Validate(); err != nil {
			log.Fatalf("Error: %v", err)
		}

		fee := positiveFlag(cmd, "fee")
		result, err := RunOptimize(OptimizeArgs{
			Chain:     chainArgs(cmd),
			Kind:      kind,
			Side:      side,
			Criterion: criterion,
			Defaults: strategies.OptimizerDefaults{
				Quantity: positiveFlag(cmd, "quantity"),
				OpenFee:  fee,
				CloseFee: fee,
			},
		})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		fmt.Println(result)
	},
}

var impliedVolCmd = &cobra.Command{
	Use:   "implied-vol --style call --strike 100 --underlying 100 --price 2.5",
	Short: "Solve for the volatility that prices an option at its market price",
	Run: func(cmd *cobra.Command, args []string) {
		style := models.OptionStyle(stringFlag(cmd, "style"))
		if err := style.Validate(); err != nil {
			log.Fatalf("Error: %v", err)
		}

		side := models.Side(stringFlag(cmd, "side"))
		if err := side.Validate(); err != nil {
			log.Fatalf("Error: %v", err)
		}

		rate, _ := cmd.Flags().GetFloat64("rate")
		price, _ := cmd.Flags().GetFloat64("price")
		iterations, _ := cmd.Flags().GetInt("iterations")

		option := models.NewOption(side, style, stringFlag(cmd, "symbol"), positiveFlag(cmd, "strike"),
			models.Days(positiveFlag(cmd, "days")), positiveFlag(cmd, "guess"), positive.One,
			positiveFlag(cmd, "underlying"), decimal.NewFromFloat(rate), positiveFlag(cmd, "dividend"))

		result, err := RunImpliedVol(ImpliedVolArgs{
			Option:      option,
			MarketPrice: decimal.NewFromFloat(price),
			Iterations:  iterations,
		})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		fmt.Println(result)
	},
}

var histVolCmd = &cobra.Command{
	Use:   "hist-vol --prices 100,101,99.5,102 --window 2",
	Short: "Rolling and exponentially weighted volatility of a price series",
	Run: func(cmd *cobra.Command, args []string) {
		prices, err := cmd.Flags().GetFloat64Slice("prices")
		if err != nil {
			log.Fatalf("error getting prices: %v", err)
		}

		tf, err := volatility.ParseTimeFrame(stringFlag(cmd, "timeframe"))
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		window, _ := cmd.Flags().GetInt("window")
		lambda, _ := cmd.Flags().GetFloat64("lambda")

		result, err := RunHistVol(HistVolArgs{
			Prices:    prices,
			Window:    window,
			Lambda:    lambda,
			TimeFrame: tf,
		})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		fmt.Println(result)
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level, defaults to LOG_LEVEL or info.")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON.")
	rootCmd.PersistentFlags().String("go-env", "development", "The go environment to run the command in.")
	rootCmd.PersistentFlags().String("env-dir", ".", "The directory holding the .env files.")

	buildChainCmd.Flags().String("symbol", "", "Underlying symbol.")
	buildChainCmd.Flags().Float64("underlying", 0, "Underlying price.")
	buildChainCmd.Flags().Float64("days", 30, "Days to expiration.")
	buildChainCmd.Flags().Float64("iv", 0.2, "At the money implied volatility.")
	buildChainCmd.Flags().Float64("rate", 0, "Annual risk free rate.")
	buildChainCmd.Flags().Float64("dividend", 0, "Annual dividend yield.")
	buildChainCmd.Flags().Int("size", 10, "Strikes on each side of the money.")
	buildChainCmd.Flags().Float64("interval", 5, "Strike interval.")
	buildChainCmd.Flags().Float64("skew", 0, "Volatility skew slope.")
	buildChainCmd.Flags().Float64("smile", 0, "Volatility smile curvature.")
	buildChainCmd.Flags().Float64("spread", 0.02, "Bid ask spread.")
	buildChainCmd.Flags().Int32("decimal-places", 2, "Quote rounding.")
	buildChainCmd.Flags().String("out", "", "Output CSV path, stdout when empty.")
	buildChainCmd.MarkFlagRequired("symbol")
	buildChainCmd.MarkFlagRequired("underlying")

	addChainFlags(rndCmd)
	rndCmd.Flags().Float64("tolerance", 1, "Finite difference step.")

	analyzeCmd.Flags().String("config", "", "Strategy YAML file.")
	analyzeCmd.MarkFlagRequired("config")

	adjustCmd.Flags().String("config", "", "Strategy YAML file.")
	adjustCmd.Flags().String("chain", "", "Option chain CSV used for new legs.")
	adjustCmd.Flags().Bool("apply", false, "Apply the plan and print the resulting delta.")
	adjustCmd.MarkFlagRequired("config")

	addChainFlags(optimizeCmd)
	optimizeCmd.Flags().String("kind", "", "Strategy kind, e.g. bull_call_spread.")
	optimizeCmd.Flags().String("side", "all", "Strike side: upper, lower, all or center.")
	optimizeCmd.Flags().String("criterion", "ratio", "Optimization criterion: ratio or area.")
	optimizeCmd.Flags().Float64("quantity", 1, "Contracts per unit leg.")
	optimizeCmd.Flags().Float64("fee", 0, "Open and close fee per contract.")
	optimizeCmd.MarkFlagRequired("kind")

	impliedVolCmd.Flags().String("symbol", "", "Underlying symbol.")
	impliedVolCmd.Flags().String("style", "call", "Option style: call or put.")
	impliedVolCmd.Flags().String("side", "long", "Option side: long or short.")
	impliedVolCmd.Flags().Float64("strike", 0, "Strike price.")
	impliedVolCmd.Flags().Float64("underlying", 0, "Underlying price.")
	impliedVolCmd.Flags().Float64("days", 30, "Days to expiration.")
	impliedVolCmd.Flags().Float64("rate", 0, "Annual risk free rate.")
	impliedVolCmd.Flags().Float64("dividend", 0, "Annual dividend yield.")
	impliedVolCmd.Flags().Float64("price", 0, "Market price of one contract.")
	impliedVolCmd.Flags().Float64("guess", volatility.DefaultGuess, "Starting volatility.")
	impliedVolCmd.Flags().Int("iterations", volatility.DefaultIterations, "Maximum Newton steps.")
	impliedVolCmd.MarkFlagRequired("strike")
	impliedVolCmd.MarkFlagRequired("underlying")
	impliedVolCmd.MarkFlagRequired("price")

	histVolCmd.Flags().Float64Slice("prices", nil, "Comma separated closing prices, oldest first.")
	histVolCmd.Flags().Int("window", 20, "Rolling window in returns.")
	histVolCmd.Flags().Float64("lambda", 0.94, "EWMA decay factor.")
	histVolCmd.Flags().String("timeframe", "day", "Sampling period: minute, hour, day, week, month, quarter or year.")
	histVolCmd.MarkFlagRequired("prices")

	rootCmd.AddCommand(buildChainCmd, rndCmd, analyzeCmd, adjustCmd, optimizeCmd, impliedVolCmd, histVolCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
