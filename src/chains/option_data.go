package chains

import (
	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
)

// OptionData is one strike row of a chain. Missing market data is nil.
type OptionData struct {
	StrikePrice       positive.Positive  `json:"strike_price"`
	CallBid           *positive.Positive `json:"call_bid,omitempty"`
	CallAsk           *positive.Positive `json:"call_ask,omitempty"`
	PutBid            *positive.Positive `json:"put_bid,omitempty"`
	PutAsk            *positive.Positive `json:"put_ask,omitempty"`
	CallMiddle        *positive.Positive `json:"call_middle,omitempty"`
	PutMiddle         *positive.Positive `json:"put_middle,omitempty"`
	ImpliedVolatility *positive.Positive `json:"implied_volatility,omitempty"`
	DeltaCall         *decimal.Decimal   `json:"delta_call,omitempty"`
	DeltaPut          *decimal.Decimal   `json:"delta_put,omitempty"`
	Gamma             *decimal.Decimal   `json:"gamma,omitempty"`
	Volume            *positive.Positive `json:"volume,omitempty"`
	OpenInterest      *uint64            `json:"open_interest,omitempty"`
}

func ptr(p positive.Positive) *positive.Positive {
	return &p
}

func decPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func NewOptionData(strike positive.Positive, callBid, callAsk, putBid, putAsk, iv *positive.Positive) OptionData {
	data := OptionData{
		StrikePrice:       strike,
		CallBid:           callBid,
		CallAsk:           callAsk,
		PutBid:            putBid,
		PutAsk:            putAsk,
		ImpliedVolatility: iv,
	}
	data.SetMidPrices()

	return data
}

func (o OptionData) ValidCall() bool {
	return !o.StrikePrice.IsZero() && o.ImpliedVolatility != nil && o.CallBid != nil && o.CallAsk != nil
}

func (o OptionData) ValidPut() bool {
	return !o.StrikePrice.IsZero() && o.ImpliedVolatility != nil && o.PutBid != nil && o.PutAsk != nil
}

func (o OptionData) Validate() error {
	if o.StrikePrice.IsZero() {
		return chainErr("OptionData.Validate", ErrInvalidOptionData, "strike price cannot be zero")
	}

	if o.ImpliedVolatility == nil {
		return chainErr("OptionData.Validate", ErrInvalidOptionData, "strike %s: implied volatility missing", o.StrikePrice)
	}

	if !o.ValidCall() {
		return chainErr("OptionData.Validate", ErrInvalidOptionData, "strike %s: call bid/ask missing", o.StrikePrice)
	}

	if !o.ValidPut() {
		return chainErr("OptionData.Validate", ErrInvalidOptionData, "strike %s: put bid/ask missing", o.StrikePrice)
	}

	return nil
}

// SomePriceIsMissing reports whether any bid or ask is absent.
func (o OptionData) SomePriceIsMissing() bool {
	return o.CallBid == nil || o.CallAsk == nil || o.PutBid == nil || o.PutAsk == nil
}

// GetPrice returns the ask when buying (Long) and the bid when selling (Short).
func (o OptionData) GetPrice(style models.OptionStyle, side models.Side) *positive.Positive {
	switch {
	case style == models.Call && side == models.Long:
		return o.CallAsk
	case style == models.Call:
		return o.CallBid
	case side == models.Long:
		return o.PutAsk
	default:
		return o.PutBid
	}
}

// HasPositivePrice reports whether GetPrice is present and non-zero.
func (o OptionData) HasPositivePrice(style models.OptionStyle, side models.Side) bool {
	p := o.GetPrice(style, side)
	return p != nil && !p.IsZero()
}

func (o OptionData) GetDelta(style models.OptionStyle) *decimal.Decimal {
	if style == models.Call {
		return o.DeltaCall
	}
	return o.DeltaPut
}

func mid(bid, ask *positive.Positive) *positive.Positive {
	if bid == nil || ask == nil {
		return nil
	}

	m, _ := bid.Add(*ask).Div(positive.Two)
	return &m
}

func (o *OptionData) SetMidPrices() {
	o.CallMiddle = mid(o.CallBid, o.CallAsk)
	o.PutMiddle = mid(o.PutBid, o.PutAsk)
}

// IsValidOptimalSide checks the strike against the side policy. Center
// accepts every strike here; strategies apply it leg by leg.
func (o OptionData) IsValidOptimalSide(underlying positive.Positive, side FindOptimalSide) bool {
	switch side.Kind {
	case Upper:
		return o.StrikePrice.GreaterThanOrEqual(underlying)
	case Lower:
		return o.StrikePrice.LessThanOrEqual(underlying)
	case Range:
		return o.StrikePrice.GreaterThanOrEqual(side.Start) && o.StrikePrice.LessThanOrEqual(side.End)
	default:
		return true
	}
}

// applySpread shifts asks up and bids down by half the spread, dropping
// quotes that would go negative.
func (o *OptionData) applySpread(spread positive.Positive, places int32) {
	half, _ := spread.Div(positive.Two)

	widen := func(p *positive.Positive, up bool) *positive.Positive {
		if p == nil || p.LessThan(half) {
			return nil
		}
		if up {
			return ptr(p.Add(half).RoundTo(places))
		}
		shifted, _ := p.Sub(half)
		return ptr(shifted.RoundTo(places))
	}

	o.CallAsk = widen(o.CallAsk, true)
	o.CallBid = widen(o.CallBid, false)
	o.PutAsk = widen(o.PutAsk, true)
	o.PutBid = widen(o.PutBid, false)
	o.SetMidPrices()
}
