package strategies

import (
	"github.com/jiaming2012/optionstrat/src/models"
)

// LongButterflySpread buys the wings and sells twice the quantity at the
// middle strike. Legs are given as low, middle, high.
type LongButterflySpread struct {
	strategyBase
	LongCallLow  models.Position `json:"long_call_low"`
	ShortCalls   models.Position `json:"short_calls"`
	LongCallHigh models.Position `json:"long_call_high"`
}

func NewLongButterflySpread(params Params, legs ...LegParams) (*LongButterflySpread, error) {
	s := &LongButterflySpread{}
	s.strategyBase = newBase(KindLongButterflySpread, s)
	if err := s.fill("NewLongButterflySpread", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LongButterflySpread) layout() layout {
	return layout{strikes: 3, symmetric: true, capLoss: true, slots: []slot{
		{name: "long_call_low", side: models.Long, style: models.Call, rank: 0, ratio: 1, position: &s.LongCallLow},
		{name: "short_calls", side: models.Short, style: models.Call, rank: 1, ratio: 2, position: &s.ShortCalls},
		{name: "long_call_high", side: models.Long, style: models.Call, rank: 2, ratio: 1, position: &s.LongCallHigh},
	}}
}

// ShortButterflySpread sells the wings and buys twice the quantity at the
// middle strike. Legs are given as low, middle, high.
type ShortButterflySpread struct {
	strategyBase
	ShortCallLow  models.Position `json:"short_call_low"`
	LongCalls     models.Position `json:"long_calls"`
	ShortCallHigh models.Position `json:"short_call_high"`
}

func NewShortButterflySpread(params Params, legs ...LegParams) (*ShortButterflySpread, error) {
	s := &ShortButterflySpread{}
	s.strategyBase = newBase(KindShortButterflySpread, s)
	if err := s.fill("NewShortButterflySpread", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ShortButterflySpread) layout() layout {
	return layout{strikes: 3, symmetric: true, slots: []slot{
		{name: "short_call_low", side: models.Short, style: models.Call, rank: 0, ratio: 1, position: &s.ShortCallLow},
		{name: "long_calls", side: models.Long, style: models.Call, rank: 1, ratio: 2, position: &s.LongCalls},
		{name: "short_call_high", side: models.Short, style: models.Call, rank: 2, ratio: 1, position: &s.ShortCallHigh},
	}}
}

// CallButterfly buys a call and sells one call at each of two higher strikes.
// Legs are given as long call, short call low, short call high.
type CallButterfly struct {
	strategyBase
	LongCall      models.Position `json:"long_call"`
	ShortCallLow  models.Position `json:"short_call_low"`
	ShortCallHigh models.Position `json:"short_call_high"`
}

func NewCallButterfly(params Params, legs ...LegParams) (*CallButterfly, error) {
	s := &CallButterfly{}
	s.strategyBase = newBase(KindCallButterfly, s)
	if err := s.fill("NewCallButterfly", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CallButterfly) layout() layout {
	return layout{strikes: 3, slots: []slot{
		{name: "long_call", side: models.Long, style: models.Call, rank: 0, ratio: 1, position: &s.LongCall},
		{name: "short_call_low", side: models.Short, style: models.Call, rank: 1, ratio: 1, position: &s.ShortCallLow},
		{name: "short_call_high", side: models.Short, style: models.Call, rank: 2, ratio: 1, position: &s.ShortCallHigh},
	}}
}
