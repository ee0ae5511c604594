package strategies

import (
	"github.com/jiaming2012/optionstrat/src/models"
)

type LongCall struct {
	strategyBase
	Leg models.Position `json:"long_call"`
}

func NewLongCall(params Params, legs ...LegParams) (*LongCall, error) {
	s := &LongCall{}
	s.strategyBase = newBase(KindLongCall, s)
	if err := s.fill("NewLongCall", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LongCall) layout() layout {
	return singleLeg("long_call", models.Long, models.Call, &s.Leg)
}

type LongPut struct {
	strategyBase
	Leg models.Position `json:"long_put"`
}

func NewLongPut(params Params, legs ...LegParams) (*LongPut, error) {
	s := &LongPut{}
	s.strategyBase = newBase(KindLongPut, s)
	if err := s.fill("NewLongPut", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LongPut) layout() layout {
	return singleLeg("long_put", models.Long, models.Put, &s.Leg)
}

type ShortCall struct {
	strategyBase
	Leg models.Position `json:"short_call"`
}

func NewShortCall(params Params, legs ...LegParams) (*ShortCall, error) {
	s := &ShortCall{}
	s.strategyBase = newBase(KindShortCall, s)
	if err := s.fill("NewShortCall", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ShortCall) layout() layout {
	return singleLeg("short_call", models.Short, models.Call, &s.Leg)
}

type ShortPut struct {
	strategyBase
	Leg models.Position `json:"short_put"`
}

func NewShortPut(params Params, legs ...LegParams) (*ShortPut, error) {
	s := &ShortPut{}
	s.strategyBase = newBase(KindShortPut, s)
	if err := s.fill("NewShortPut", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ShortPut) layout() layout {
	return singleLeg("short_put", models.Short, models.Put, &s.Leg)
}

func singleLeg(name string, side models.Side, style models.OptionStyle, position *models.Position) layout {
	return layout{strikes: 1, capProfit: side == models.Short, capLoss: side == models.Long, slots: []slot{
		{name: name, side: side, style: style, rank: 0, ratio: 1, position: position},
	}}
}
