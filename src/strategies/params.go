package strategies

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
)

// Params are the market inputs shared by every leg.
type Params struct {
	Symbol            string                `json:"symbol"`
	UnderlyingPrice   positive.Positive     `json:"underlying_price"`
	Expiration        models.ExpirationDate `json:"expiration"`
	ImpliedVolatility positive.Positive     `json:"implied_volatility"`
	RiskFreeRate      decimal.Decimal       `json:"risk_free_rate"`
	DividendYield     positive.Positive     `json:"dividend_yield"`
	Quantity          positive.Positive     `json:"quantity"`
}

func (p Params) Validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("Params.Validate: symbol is empty")
	}

	if p.UnderlyingPrice.IsZero() {
		return fmt.Errorf("Params.Validate: underlying price must be greater than zero")
	}

	if p.Quantity.IsZero() {
		return fmt.Errorf("Params.Validate: quantity must be greater than zero")
	}

	return nil
}

// LegParams describe one leg. Nil overrides fall back to Params.
type LegParams struct {
	Strike            positive.Positive      `json:"strike"`
	Premium           positive.Positive      `json:"premium"`
	OpenFee           positive.Positive      `json:"open_fee"`
	CloseFee          positive.Positive      `json:"close_fee"`
	Quantity          *positive.Positive     `json:"quantity,omitempty"`
	ImpliedVolatility *positive.Positive     `json:"implied_volatility,omitempty"`
	Expiration        *models.ExpirationDate `json:"expiration,omitempty"`
}

// Leg is shorthand for a leg with a premium and symmetric fees.
func Leg(strike, premium, fee positive.Positive) LegParams {
	return LegParams{Strike: strike, Premium: premium, OpenFee: fee, CloseFee: fee}
}

func (p Params) position(s slot, leg LegParams) models.Position {
	quantity := p.Quantity.Mul(positive.MustFromInt(s.ratio))
	if leg.Quantity != nil {
		quantity = *leg.Quantity
	}

	iv := p.ImpliedVolatility
	if leg.ImpliedVolatility != nil {
		iv = *leg.ImpliedVolatility
	}

	expiration := p.Expiration
	if leg.Expiration != nil {
		expiration = *leg.Expiration
	}

	option := models.NewOption(s.side, s.style, p.Symbol, leg.Strike, expiration, iv, quantity, p.UnderlyingPrice, p.RiskFreeRate, p.DividendYield)
	return *models.NewPosition(option, leg.Premium, time.Now(), leg.OpenFee, leg.CloseFee)
}
