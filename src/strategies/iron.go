package strategies

import (
	"github.com/jiaming2012/optionstrat/src/models"
)

// IronCondor is a bull put spread below a bear call spread.
// Legs are given from the lowest strike up.
type IronCondor struct {
	strategyBase
	LongPut   models.Position `json:"long_put"`
	ShortPut  models.Position `json:"short_put"`
	ShortCall models.Position `json:"short_call"`
	LongCall  models.Position `json:"long_call"`
}

func NewIronCondor(params Params, legs ...LegParams) (*IronCondor, error) {
	s := &IronCondor{}
	s.strategyBase = newBase(KindIronCondor, s)
	if err := s.fill("NewIronCondor", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *IronCondor) layout() layout {
	return layout{strikes: 4, slots: []slot{
		{name: "long_put", side: models.Long, style: models.Put, rank: 0, ratio: 1, position: &s.LongPut},
		{name: "short_put", side: models.Short, style: models.Put, rank: 1, ratio: 1, position: &s.ShortPut},
		{name: "short_call", side: models.Short, style: models.Call, rank: 2, ratio: 1, position: &s.ShortCall},
		{name: "long_call", side: models.Long, style: models.Call, rank: 3, ratio: 1, position: &s.LongCall},
	}}
}

// IronButterfly is a short straddle at the middle strike with long wings.
// Legs are given as long put, short put, short call, long call.
type IronButterfly struct {
	strategyBase
	LongPut   models.Position `json:"long_put"`
	ShortPut  models.Position `json:"short_put"`
	ShortCall models.Position `json:"short_call"`
	LongCall  models.Position `json:"long_call"`
}

func NewIronButterfly(params Params, legs ...LegParams) (*IronButterfly, error) {
	s := &IronButterfly{}
	s.strategyBase = newBase(KindIronButterfly, s)
	if err := s.fill("NewIronButterfly", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *IronButterfly) layout() layout {
	return layout{strikes: 3, symmetric: true, slots: []slot{
		{name: "long_put", side: models.Long, style: models.Put, rank: 0, ratio: 1, position: &s.LongPut},
		{name: "short_put", side: models.Short, style: models.Put, rank: 1, ratio: 1, position: &s.ShortPut},
		{name: "short_call", side: models.Short, style: models.Call, rank: 1, ratio: 1, position: &s.ShortCall},
		{name: "long_call", side: models.Long, style: models.Call, rank: 2, ratio: 1, position: &s.LongCall},
	}}
}

// PoorMansCoveredCall is a long dated in the money call with a near term
// short call above it. Legs are given as long call, short call; the long
// call usually carries its own expiration.
type PoorMansCoveredCall struct {
	strategyBase
	LongCall  models.Position `json:"long_call"`
	ShortCall models.Position `json:"short_call"`
}

func NewPoorMansCoveredCall(params Params, legs ...LegParams) (*PoorMansCoveredCall, error) {
	s := &PoorMansCoveredCall{}
	s.strategyBase = newBase(KindPoorMansCoveredCall, s)
	if err := s.fill("NewPoorMansCoveredCall", params, legs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PoorMansCoveredCall) layout() layout {
	return layout{strikes: 2, calendar: true, slots: []slot{
		{name: "long_call", side: models.Long, style: models.Call, rank: 0, ratio: 1, position: &s.LongCall},
		{name: "short_call", side: models.Short, style: models.Call, rank: 1, ratio: 1, position: &s.ShortCall},
	}}
}
