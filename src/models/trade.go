package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jiaming2012/optionstrat/src/positive"
)

// Trade is an executed option leg.
type Trade struct {
	ID              uuid.UUID         `json:"id"`
	Action          TradeAction       `json:"action"`
	Side            Side              `json:"side"`
	Style           OptionStyle       `json:"option_style"`
	Fee             positive.Positive `json:"fee"`
	Symbol          *string           `json:"symbol,omitempty"`
	Strike          positive.Positive `json:"strike"`
	Expiry          time.Time         `json:"expiry"`
	Timestamp       time.Time         `json:"-"`
	Quantity        positive.Positive `json:"quantity"`
	Premium         positive.Positive `json:"premium"`
	UnderlyingPrice positive.Positive `json:"underlying_price"`
	Notes           *string           `json:"notes,omitempty"`
}

func NewTrade(action TradeAction, side Side, style OptionStyle, fee positive.Positive, symbol *string, strike positive.Positive, expiry time.Time, quantity, premium, underlyingPrice positive.Positive, notes *string) Trade {
	return Trade{
		ID:              uuid.New(),
		Action:          action,
		Side:            side,
		Style:           style,
		Fee:             fee,
		Symbol:          symbol,
		Strike:          strike,
		Expiry:          expiry,
		Timestamp:       time.Now(),
		Quantity:        quantity,
		Premium:         premium,
		UnderlyingPrice: underlyingPrice,
		Notes:           notes,
	}
}

// NetValue is premium received minus premium paid and fees.
func (tr Trade) NetValue() positive.Positive {
	gross := tr.Premium.Mul(tr.Quantity)
	fees := tr.Fee.Mul(tr.Quantity)
	if tr.Action == TradeActionSell {
		return positive.Clamp(gross.SubDecimal(fees))
	}

	return gross.Add(fees)
}

type tradeAlias Trade

type tradeJSON struct {
	tradeAlias
	Timestamp int64 `json:"timestamp"`
}

// MarshalJSON emits the timestamp as int64 nanoseconds since the epoch.
func (tr Trade) MarshalJSON() ([]byte, error) {
	return json.Marshal(tradeJSON{
		tradeAlias: tradeAlias(tr),
		Timestamp:  tr.Timestamp.UnixNano(),
	})
}

func (tr *Trade) UnmarshalJSON(data []byte) error {
	var dto tradeJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return fmt.Errorf("Trade.UnmarshalJSON: %w", err)
	}

	*tr = Trade(dto.tradeAlias)
	tr.Timestamp = time.Unix(0, dto.Timestamp).UTC()
	return nil
}

// OpenTrade records the opening of the position.
func (p *Position) OpenTrade() Trade {
	action := TradeActionBuy
	if p.Option.IsShort() {
		action = TradeActionSell
	}

	symbol := p.Option.UnderlyingSymbol
	return NewTrade(action, p.Option.Side, p.Option.Style, p.OpenFee, &symbol, p.Option.StrikePrice,
		p.Option.ExpirationDate.GetDate(p.DateTime), p.Option.Quantity, p.Premium, p.Option.UnderlyingPrice, p.Epic)
}

// CloseTrade records closing the position at the given premium.
func (p *Position) CloseTrade(premium positive.Positive) Trade {
	action := TradeActionSell
	if p.Option.IsShort() {
		action = TradeActionBuy
	}

	symbol := p.Option.UnderlyingSymbol
	return NewTrade(action, p.Option.Side, p.Option.Style, p.CloseFee, &symbol, p.Option.StrikePrice,
		p.Option.ExpirationDate.GetDate(p.DateTime), p.Option.Quantity, premium, p.Option.UnderlyingPrice, p.Epic)
}
