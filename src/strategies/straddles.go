package strategies

import (
	"github.com/jiaming2012/optionstrat/src/models"
)

// LongStraddle buys a call and a put at one strike. Legs are given as call, put.
type LongStraddle struct {
	strategyBase
	LongCall models.Position `json:"long_call"`
	LongPut  models.Position `json:"long_put"`
}

func NewLongStraddle(params Params, legs ...LegParams) (*LongStraddle, error) {
	s := &LongStraddle{}
	s.strategyBase = newBase(KindLongStraddle, s)
	if err := s.fill("NewLongStraddle", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LongStraddle) layout() layout {
	return layout{strikes: 1, slots: []slot{
		{name: "long_call", side: models.Long, style: models.Call, rank: 0, ratio: 1, position: &s.LongCall},
		{name: "long_put", side: models.Long, style: models.Put, rank: 0, ratio: 1, position: &s.LongPut},
	}}
}

// ShortStraddle sells a call and a put at one strike. Legs are given as call, put.
type ShortStraddle struct {
	strategyBase
	ShortCall models.Position `json:"short_call"`
	ShortPut  models.Position `json:"short_put"`
}

func NewShortStraddle(params Params, legs ...LegParams) (*ShortStraddle, error) {
	s := &ShortStraddle{}
	s.strategyBase = newBase(KindShortStraddle, s)
	if err := s.fill("NewShortStraddle", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ShortStraddle) layout() layout {
	return layout{strikes: 1, slots: []slot{
		{name: "short_call", side: models.Short, style: models.Call, rank: 0, ratio: 1, position: &s.ShortCall},
		{name: "short_put", side: models.Short, style: models.Put, rank: 0, ratio: 1, position: &s.ShortPut},
	}}
}

// LongStrangle buys a put and a higher strike call. Legs are given as put, call.
type LongStrangle struct {
	strategyBase
	LongPut  models.Position `json:"long_put"`
	LongCall models.Position `json:"long_call"`
}

func NewLongStrangle(params Params, legs ...LegParams) (*LongStrangle, error) {
	s := &LongStrangle{}
	s.strategyBase = newBase(KindLongStrangle, s)
	if err := s.fill("NewLongStrangle", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LongStrangle) layout() layout {
	return layout{strikes: 2, slots: []slot{
		{name: "long_put", side: models.Long, style: models.Put, rank: 0, ratio: 1, position: &s.LongPut},
		{name: "long_call", side: models.Long, style: models.Call, rank: 1, ratio: 1, position: &s.LongCall},
	}}
}

// ShortStrangle sells a put and a higher strike call. Legs are given as put, call.
type ShortStrangle struct {
	strategyBase
	ShortPut  models.Position `json:"short_put"`
	ShortCall models.Position `json:"short_call"`
}

func NewShortStrangle(params Params, legs ...LegParams) (*ShortStrangle, error) {
	s := &ShortStrangle{}
	s.strategyBase = newBase(KindShortStrangle, s)
	if err := s.fill("NewShortStrangle", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ShortStrangle) layout() layout {
	return layout{strikes: 2, slots: []slot{
		{name: "short_put", side: models.Short, style: models.Put, rank: 0, ratio: 1, position: &s.ShortPut},
		{name: "short_call", side: models.Short, style: models.Call, rank: 1, ratio: 1, position: &s.ShortCall},
	}}
}
