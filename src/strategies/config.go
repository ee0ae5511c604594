package strategies

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/probability"
)

type StrategyLegConfig struct {
	Strike            positive.Positive  `yaml:"strike"`
	Premium           positive.Positive  `yaml:"premium"`
	OpenFee           positive.Positive  `yaml:"open_fee"`
	CloseFee          positive.Positive  `yaml:"close_fee"`
	Quantity          *positive.Positive `yaml:"quantity,omitempty"`
	ImpliedVolatility *positive.Positive `yaml:"implied_volatility,omitempty"`
	ExpirationDays    *positive.Positive `yaml:"expiration_days,omitempty"`
}

// StrategyConfig is one strategy as written in a YAML file. Legs follow the
// constructor order of the kind.
type StrategyConfig struct {
	Kind                 Kind                              `yaml:"kind"`
	Symbol               string                            `yaml:"symbol"`
	UnderlyingPrice      positive.Positive                 `yaml:"underlying_price"`
	ExpirationDays       positive.Positive                 `yaml:"expiration_days"`
	ImpliedVolatility    positive.Positive                 `yaml:"implied_volatility"`
	RiskFreeRate         decimal.Decimal                   `yaml:"risk_free_rate"`
	DividendYield        positive.Positive                 `yaml:"dividend_yield"`
	Quantity             positive.Positive                 `yaml:"quantity"`
	Legs                 []StrategyLegConfig               `yaml:"legs"`
	Adjustment           *AdjustmentConfig                 `yaml:"adjustment,omitempty"`
	VolatilityAdjustment *probability.VolatilityAdjustment `yaml:"volatility_adjustment,omitempty"`
	Trend                *probability.PriceTrend           `yaml:"trend,omitempty"`
}

func ParseStrategyConfig(data []byte) (StrategyConfig, error) {
	var config StrategyConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return StrategyConfig{}, fmt.Errorf("ParseStrategyConfig: failed to unmarshal: %w", err)
	}

	if config.Quantity.IsZero() {
		config.Quantity = positive.One
	}

	if err := config.Validate(); err != nil {
		return StrategyConfig{}, err
	}

	return config, nil
}

func LoadStrategyConfig(path string) (StrategyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StrategyConfig{}, fmt.Errorf("LoadStrategyConfig: failed to read %s: %w", path, err)
	}

	config, err := ParseStrategyConfig(data)
	if err != nil {
		return StrategyConfig{}, fmt.Errorf("LoadStrategyConfig: %s: %w", path, err)
	}

	return config, nil
}

func (c StrategyConfig) Validate() error {
	if err := c.Kind.Validate(); err != nil {
		return fmt.Errorf("StrategyConfig.Validate: %w", err)
	}

	if c.ExpirationDays.IsZero() {
		return fmt.Errorf("StrategyConfig.Validate: expiration_days must be greater than zero")
	}

	count, err := LegCount(c.Kind)
	if err != nil {
		return err
	}

	if len(c.Legs) != count {
		return fmt.Errorf("StrategyConfig.Validate: %s needs %d legs, got %d", c.Kind, count, len(c.Legs))
	}

	if c.Adjustment != nil {
		if err := c.Adjustment.Validate(); err != nil {
			return fmt.Errorf("StrategyConfig.Validate: %w", err)
		}
	}

	if c.Trend != nil {
		if err := c.Trend.Validate(); err != nil {
			return fmt.Errorf("StrategyConfig.Validate: %w", err)
		}
	}

	return nil
}

func (c StrategyConfig) Params() Params {
	return Params{
		Symbol:            c.Symbol,
		UnderlyingPrice:   c.UnderlyingPrice,
		Expiration:        models.Days(c.ExpirationDays),
		ImpliedVolatility: c.ImpliedVolatility,
		RiskFreeRate:      c.RiskFreeRate,
		DividendYield:     c.DividendYield,
		Quantity:          c.Quantity,
	}
}

func (c StrategyConfig) LegParams() []LegParams {
	legs := make([]LegParams, len(c.Legs))
	for i, leg := range c.Legs {
		legs[i] = LegParams{
			Strike:            leg.Strike,
			Premium:           leg.Premium,
			OpenFee:           leg.OpenFee,
			CloseFee:          leg.CloseFee,
			Quantity:          leg.Quantity,
			ImpliedVolatility: leg.ImpliedVolatility,
		}

		if leg.ExpirationDays != nil {
			expiration := models.Days(*leg.ExpirationDays)
			legs[i].Expiration = &expiration
		}
	}
	return legs
}

func (c StrategyConfig) Build() (Strategy, error) {
	s, err := NewStrategy(c.Kind, c.Params(), c.LegParams()...)
	if err != nil {
		return nil, fmt.Errorf("StrategyConfig.Build: %w", err)
	}
	return s, nil
}

// AdjustmentConfig falls back to DefaultAdjustmentConfig.
func (c StrategyConfig) AdjustmentConfig() AdjustmentConfig {
	if c.Adjustment != nil {
		return *c.Adjustment
	}
	return DefaultAdjustmentConfig()
}
