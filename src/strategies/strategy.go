package strategies

import (
	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/chains"
	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/pricing"
	"github.com/jiaming2012/optionstrat/src/probability"
)

type Validable interface {
	Validate() error
	IsValid() bool
}

type Positionable interface {
	AddPosition(position models.Position) error
	GetPositions() []models.Position
	GetPosition(style models.OptionStyle, side models.Side, strike positive.Positive) ([]*models.Position, error)
	ModifyPosition(position models.Position) error
	AdjustOptionPosition(quantity decimal.Decimal, strike positive.Positive, style models.OptionStyle, side models.Side) error
}

type BreakEvenable interface {
	UpdateBreakEvenPoints()
	GetBreakEvenPoints() []positive.Positive
}

type Profit interface {
	ProfitAt(price positive.Positive) decimal.Decimal
	MaxProfit() (positive.Positive, error)
	MaxLoss() (positive.Positive, error)
	TotalCost() positive.Positive
	NetCost() decimal.Decimal
	NetPremiumReceived() positive.Positive
	Fees() positive.Positive
	ProfitArea() (decimal.Decimal, error)
	ProfitRatio() decimal.Decimal
}

type Greeks interface {
	Greeks() (pricing.Greeks, error)
}

type DeltaNeutrality interface {
	CalculateNetDelta() (DeltaInfo, error)
	IsDeltaNeutral(tolerance decimal.Decimal) (bool, error)
	DeltaAdjustments() ([]DeltaAdjustment, error)
	SuggestDeltaAdjustments(tolerance decimal.Decimal) ([]DeltaAdjustment, error)
	ApplyDeltaAdjustment(adjustment DeltaAdjustment) error
}

type ProbabilityAnalysis interface {
	GetProfitRanges(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend) ([]probability.ProfitLossRange, error)
	GetLossRanges(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend) ([]probability.ProfitLossRange, error)
	AnalyzeProbabilities(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend) (probability.StrategyProbabilityAnalysis, error)
	CalculateExpectedValue(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend) (positive.Positive, error)
	CalculateExtremeProbabilities(volAdj *probability.VolatilityAdjustment, trend *probability.PriceTrend) (positive.Positive, positive.Positive, error)
}

type Optimizable interface {
	FindOptimal(chain *chains.OptionChain, side chains.FindOptimalSide, criterion OptimizationCriterion) error
}

type PnLCalculator interface {
	CalculatePnL(marketPrice positive.Positive, expiration models.ExpirationDate, iv positive.Positive) (models.PnL, error)
	CalculatePnLAtExpiration(underlying positive.Positive) models.PnL
}

// Strategy is the full capability set shared by every concrete strategy.
type Strategy interface {
	Validable
	Positionable
	BreakEvenable
	Profit
	Greeks
	DeltaNeutrality
	ProbabilityAnalysis
	Optimizable
	PnLCalculator

	GetKind() Kind
	GetName() string
	Title() string
	Symbol() string
	UnderlyingPrice() positive.Positive
	Expiration() models.ExpirationDate
	RiskFreeRate() decimal.Decimal
	Strikes() []positive.Positive
	ImpliedVolatilities() map[string]positive.Positive
	Quantities() map[string]positive.Positive
	SetUnderlyingPrice(price positive.Positive) error
	SetImpliedVolatility(iv positive.Positive) error
	SetPricer(pricer pricing.Pricer)

	layout() layout
	base() *strategyBase
}
