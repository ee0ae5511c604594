package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/positive"
)

// Pricer values a single option per unit of quantity.
type Pricer interface {
	Price(option Option) (decimal.Decimal, error)
}

type Position struct {
	Option      Option                 `json:"option"`
	Premium     positive.Positive      `json:"premium"`
	DateTime    time.Time              `json:"date_time"`
	OpenFee     positive.Positive      `json:"open_fee"`
	CloseFee    positive.Positive      `json:"close_fee"`
	Epic        *string                `json:"epic,omitempty"`
	ExtraFields map[string]interface{} `json:"extra_fields,omitempty"`
}

func NewPosition(option Option, premium positive.Positive, openedAt time.Time, openFee, closeFee positive.Positive) *Position {
	return &Position{
		Option:   option,
		Premium:  premium,
		DateTime: openedAt,
		OpenFee:  openFee,
		CloseFee: closeFee,
	}
}

func (p *Position) Clone() *Position {
	cp := *p
	if p.ExtraFields != nil {
		cp.ExtraFields = make(map[string]interface{}, len(p.ExtraFields))
		for k, v := range p.ExtraFields {
			cp.ExtraFields[k] = v
		}
	}

	return &cp
}

// Fees is (open + close) fees times quantity.
func (p *Position) Fees() positive.Positive {
	return p.OpenFee.Add(p.CloseFee).Mul(p.Option.Quantity)
}

// TotalCost is premium plus fees for long positions and fees alone for short ones.
func (p *Position) TotalCost() positive.Positive {
	if p.Option.IsLong() {
		return p.Premium.Add(p.OpenFee).Add(p.CloseFee).Mul(p.Option.Quantity)
	}

	return p.Fees()
}

func (p *Position) PremiumReceived() positive.Positive {
	if p.Option.IsShort() {
		return p.Premium.Mul(p.Option.Quantity)
	}

	return positive.Zero
}

// NetCost is the out-of-pocket amount. It is negative for short positions that collect more than they pay in fees.
func (p *Position) NetCost() decimal.Decimal {
	if p.Option.IsLong() {
		return p.TotalCost().Decimal()
	}

	return p.Fees().SubDecimal(p.PremiumReceived())
}

func (p *Position) NetPremiumReceived() positive.Positive {
	if p.Option.IsLong() {
		return positive.Zero
	}

	return positive.Clamp(p.PremiumReceived().SubDecimal(p.Fees()))
}

// PnLAtExpiration defaults to the option's underlying price when price is nil.
func (p *Position) PnLAtExpiration(price *positive.Positive) decimal.Decimal {
	underlying := p.Option.UnderlyingPrice
	if price != nil {
		underlying = *price
	}

	return p.Option.PayoffAt(underlying).
		Sub(p.TotalCost().Decimal()).
		Add(p.PremiumReceived().Decimal())
}

func (p *Position) BreakEven() (positive.Positive, error) {
	if p.Option.Quantity.IsZero() {
		return positive.Zero, NewInvalidPositionError("quantity must be greater than zero")
	}

	strike := p.Option.StrikePrice.Decimal()
	costPerUnit := p.TotalCost().Decimal().Div(p.Option.Quantity.Decimal())
	premium := p.Premium.Decimal()

	var be decimal.Decimal
	switch {
	case p.Option.Style == Call && p.Option.IsLong():
		be = strike.Add(costPerUnit)
	case p.Option.Style == Call && p.Option.IsShort():
		be = strike.Add(premium).Sub(costPerUnit)
	case p.Option.Style == Put && p.Option.IsLong():
		be = strike.Sub(costPerUnit)
	default:
		be = strike.Sub(premium).Add(costPerUnit)
	}

	return positive.Clamp(be), nil
}

func (p *Position) Validate() error {
	if err := p.Option.Validate(); err != nil {
		return &PositionError{Kind: ErrInvalidPosition, Side: p.Option.Side, Reason: err.Error()}
	}

	if p.Option.IsShort() {
		if p.Premium.IsZero() {
			return &PositionError{Kind: ErrInvalidPosition, Side: Short, Reason: "premium must be greater than zero for short positions"}
		}

		if p.Premium.LessThan(p.OpenFee.Add(p.CloseFee)) {
			return &PositionError{Kind: ErrInvalidPosition, Side: Short, Reason: "premium must cover open and close fees for short positions"}
		}
	}

	return nil
}

// IsValid reports whether Validate succeeds.
func (p *Position) IsValid() bool {
	return p.Validate() == nil
}

// CalculatePnL reprices the option under new market conditions.
func (p *Position) CalculatePnL(pricer Pricer, marketPrice positive.Positive, expiration ExpirationDate, iv positive.Positive) (PnL, error) {
	current := p.Option
	current.UnderlyingPrice = marketPrice
	current.ExpirationDate = expiration
	current.ImpliedVolatility = iv

	price, err := pricer.Price(current)
	if err != nil {
		return PnL{}, fmt.Errorf("Position.CalculatePnL: %w", err)
	}

	qty := p.Option.Quantity.Decimal()
	unrealized := price.Sub(p.Premium.Decimal()).Mul(qty).Mul(p.Option.Side.Sign()).Sub(p.Fees().Decimal())

	return PnL{
		Unrealized:    &unrealized,
		InitialCosts:  p.TotalCost(),
		InitialIncome: p.PremiumReceived(),
		DateTime:      time.Now(),
	}, nil
}

func (p *Position) CalculatePnLAtExpiration(price positive.Positive) PnL {
	realized := p.PnLAtExpiration(&price)

	return PnL{
		Realized:      &realized,
		InitialCosts:  p.TotalCost(),
		InitialIncome: p.PremiumReceived(),
		DateTime:      time.Now(),
	}
}

func (p *Position) Title() string {
	return fmt.Sprintf("%s premium %s", p.Option.Title(), p.Premium)
}
