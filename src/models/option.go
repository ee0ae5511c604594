package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/positive"
)

type Option struct {
	OptionType        OptionType        `json:"option_type"`
	Side              Side              `json:"side"`
	Style             OptionStyle       `json:"option_style"`
	UnderlyingSymbol  string            `json:"underlying_symbol"`
	StrikePrice       positive.Positive `json:"strike_price"`
	ExpirationDate    ExpirationDate    `json:"expiration_date"`
	ImpliedVolatility positive.Positive `json:"implied_volatility"`
	Quantity          positive.Positive `json:"quantity"`
	UnderlyingPrice   positive.Positive `json:"underlying_price"`
	RiskFreeRate      decimal.Decimal   `json:"risk_free_rate"`
	DividendYield     positive.Positive `json:"dividend_yield"`
}

func NewOption(side Side, style OptionStyle, symbol string, strike positive.Positive, expiration ExpirationDate, iv, quantity, underlying positive.Positive, rate decimal.Decimal, dividendYield positive.Positive) Option {
	return Option{
		OptionType:        European,
		Side:              side,
		Style:             style,
		UnderlyingSymbol:  symbol,
		StrikePrice:       strike,
		ExpirationDate:    expiration,
		ImpliedVolatility: iv,
		Quantity:          quantity,
		UnderlyingPrice:   underlying,
		RiskFreeRate:      rate,
		DividendYield:     dividendYield,
	}
}

func (o Option) IsLong() bool {
	return o.Side == Long
}

func (o Option) IsShort() bool {
	return o.Side == Short
}

// IntrinsicValue is the per-unit exercise value at the given underlying price.
func (o Option) IntrinsicValue(price positive.Positive) positive.Positive {
	switch o.Style {
	case Call:
		return positive.Clamp(price.SubDecimal(o.StrikePrice))
	default:
		return positive.Clamp(o.StrikePrice.SubDecimal(price))
	}
}

// PayoffAt is the signed terminal value of the whole contract, premium excluded.
func (o Option) PayoffAt(price positive.Positive) decimal.Decimal {
	return o.IntrinsicValue(price).Decimal().Mul(o.Side.Sign()).Mul(o.Quantity.Decimal())
}

func (o Option) Validate() error {
	if err := o.OptionType.Validate(); err != nil {
		return fmt.Errorf("Option.Validate: %v: %w", err, ErrInvalidOption)
	}

	if err := o.Side.Validate(); err != nil {
		return fmt.Errorf("Option.Validate: %v: %w", err, ErrInvalidOption)
	}

	if err := o.Style.Validate(); err != nil {
		return fmt.Errorf("Option.Validate: %v: %w", err, ErrInvalidOption)
	}

	if o.UnderlyingSymbol == "" {
		return fmt.Errorf("Option.Validate: underlying symbol is empty: %w", ErrInvalidOption)
	}

	if o.StrikePrice.IsZero() {
		return fmt.Errorf("Option.Validate: strike price must be greater than zero: %w", ErrInvalidOption)
	}

	if o.Quantity.IsZero() {
		return fmt.Errorf("Option.Validate: quantity must be greater than zero: %w", ErrInvalidOption)
	}

	if o.RiskFreeRate.IsNegative() {
		return fmt.Errorf("Option.Validate: risk free rate must be non-negative: %w", ErrInvalidOption)
	}

	return nil
}

func (o Option) Title() string {
	return fmt.Sprintf("%s %s %s %s @ %s x %s", o.UnderlyingSymbol, o.Side, o.Style, o.StrikePrice, o.ExpirationDate, o.Quantity)
}
