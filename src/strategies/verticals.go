package strategies

import (
	"github.com/jiaming2012/optionstrat/src/models"
)

// BearPutSpread is long a put and short a lower strike put.
// Legs are given as long put, short put.
type BearPutSpread struct {
	strategyBase
	LongPut  models.Position `json:"long_put"`
	ShortPut models.Position `json:"short_put"`
}

func NewBearPutSpread(params Params, legs ...LegParams) (*BearPutSpread, error) {
	s := &BearPutSpread{}
	s.strategyBase = newBase(KindBearPutSpread, s)
	if err := s.fill("NewBearPutSpread", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *BearPutSpread) layout() layout {
	return layout{strikes: 2, capProfit: true, slots: []slot{
		{name: "long_put", side: models.Long, style: models.Put, rank: 1, ratio: 1, position: &s.LongPut},
		{name: "short_put", side: models.Short, style: models.Put, rank: 0, ratio: 1, position: &s.ShortPut},
	}}
}

// BullCallSpread is long a call and short a higher strike call.
// Legs are given as long call, short call.
type BullCallSpread struct {
	strategyBase
	LongCall  models.Position `json:"long_call"`
	ShortCall models.Position `json:"short_call"`
}

func NewBullCallSpread(params Params, legs ...LegParams) (*BullCallSpread, error) {
	s := &BullCallSpread{}
	s.strategyBase = newBase(KindBullCallSpread, s)
	if err := s.fill("NewBullCallSpread", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *BullCallSpread) layout() layout {
	return layout{strikes: 2, capProfit: true, slots: []slot{
		{name: "long_call", side: models.Long, style: models.Call, rank: 0, ratio: 1, position: &s.LongCall},
		{name: "short_call", side: models.Short, style: models.Call, rank: 1, ratio: 1, position: &s.ShortCall},
	}}
}

// BearCallSpread is short a call and long a higher strike call.
// Legs are given as short call, long call.
type BearCallSpread struct {
	strategyBase
	ShortCall models.Position `json:"short_call"`
	LongCall  models.Position `json:"long_call"`
}

func NewBearCallSpread(params Params, legs ...LegParams) (*BearCallSpread, error) {
	s := &BearCallSpread{}
	s.strategyBase = newBase(KindBearCallSpread, s)
	if err := s.fill("NewBearCallSpread", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *BearCallSpread) layout() layout {
	return layout{strikes: 2, capLoss: true, slots: []slot{
		{name: "short_call", side: models.Short, style: models.Call, rank: 0, ratio: 1, position: &s.ShortCall},
		{name: "long_call", side: models.Long, style: models.Call, rank: 1, ratio: 1, position: &s.LongCall},
	}}
}

// BullPutSpread is short a put and long a lower strike put.
// Legs are given as long put, short put.
type BullPutSpread struct {
	strategyBase
	LongPut  models.Position `json:"long_put"`
	ShortPut models.Position `json:"short_put"`
}

func NewBullPutSpread(params Params, legs ...LegParams) (*BullPutSpread, error) {
	s := &BullPutSpread{}
	s.strategyBase = newBase(KindBullPutSpread, s)
	if err := s.fill("NewBullPutSpread", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *BullPutSpread) layout() layout {
	return layout{strikes: 2, capLoss: true, slots: []slot{
		{name: "long_put", side: models.Long, style: models.Put, rank: 0, ratio: 1, position: &s.LongPut},
		{name: "short_put", side: models.Short, style: models.Put, rank: 1, ratio: 1, position: &s.ShortPut},
	}}
}

// RatioCallSpread buys a call and sells twice the quantity at a higher strike.
// Legs are given as long call, short calls.
type RatioCallSpread struct {
	strategyBase
	LongCall   models.Position `json:"long_call"`
	ShortCalls models.Position `json:"short_calls"`
}

func NewRatioCallSpread(params Params, legs ...LegParams) (*RatioCallSpread, error) {
	s := &RatioCallSpread{}
	s.strategyBase = newBase(KindRatioCallSpread, s)
	if err := s.fill("NewRatioCallSpread", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RatioCallSpread) layout() layout {
	return layout{strikes: 2, slots: []slot{
		{name: "long_call", side: models.Long, style: models.Call, rank: 0, ratio: 1, position: &s.LongCall},
		{name: "short_calls", side: models.Short, style: models.Call, rank: 1, ratio: 2, position: &s.ShortCalls},
	}}
}
