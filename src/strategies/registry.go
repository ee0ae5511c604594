package strategies

import (
	"fmt"
	"sort"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
)

type constructor func() Strategy

var constructors = map[Kind]constructor{
	KindBearPutSpread: func() Strategy {
		s := &BearPutSpread{}
		s.strategyBase = newBase(KindBearPutSpread, s)
		return s
	},
	KindBullCallSpread: func() Strategy {
		s := &BullCallSpread{}
		s.strategyBase = newBase(KindBullCallSpread, s)
		return s
	},
	KindBearCallSpread: func() Strategy {
		s := &BearCallSpread{}
		s.strategyBase = newBase(KindBearCallSpread, s)
		return s
	},
	KindBullPutSpread: func() Strategy {
		s := &BullPutSpread{}
		s.strategyBase = newBase(KindBullPutSpread, s)
		return s
	},
	KindLongButterflySpread: func() Strategy {
		s := &LongButterflySpread{}
		s.strategyBase = newBase(KindLongButterflySpread, s)
		return s
	},
	KindShortButterflySpread: func() Strategy {
		s := &ShortButterflySpread{}
		s.strategyBase = newBase(KindShortButterflySpread, s)
		return s
	},
	KindLongCall: func() Strategy {
		s := &LongCall{}
		s.strategyBase = newBase(KindLongCall, s)
		return s
	},
	KindLongPut: func() Strategy {
		s := &LongPut{}
		s.strategyBase = newBase(KindLongPut, s)
		return s
	},
	KindShortCall: func() Strategy {
		s := &ShortCall{}
		s.strategyBase = newBase(KindShortCall, s)
		return s
	},
	KindShortPut: func() Strategy {
		s := &ShortPut{}
		s.strategyBase = newBase(KindShortPut, s)
		return s
	},
	KindLongStraddle: func() Strategy {
		s := &LongStraddle{}
		s.strategyBase = newBase(KindLongStraddle, s)
		return s
	},
	KindShortStraddle: func() Strategy {
		s := &ShortStraddle{}
		s.strategyBase = newBase(KindShortStraddle, s)
		return s
	},
	KindLongStrangle: func() Strategy {
		s := &LongStrangle{}
		s.strategyBase = newBase(KindLongStrangle, s)
		return s
	},
	KindShortStrangle: func() Strategy {
		s := &ShortStrangle{}
		s.strategyBase = newBase(KindShortStrangle, s)
		return s
	},
	KindIronCondor: func() Strategy {
		s := &IronCondor{}
		s.strategyBase = newBase(KindIronCondor, s)
		return s
	},
	KindIronButterfly: func() Strategy {
		s := &IronButterfly{}
		s.strategyBase = newBase(KindIronButterfly, s)
		return s
	},
	KindPoorMansCoveredCall: func() Strategy {
		s := &PoorMansCoveredCall{}
		s.strategyBase = newBase(KindPoorMansCoveredCall, s)
		return s
	},
	KindCallButterfly: func() Strategy {
		s := &CallButterfly{}
		s.strategyBase = newBase(KindCallButterfly, s)
		return s
	},
	KindRatioCallSpread: func() Strategy {
		s := &RatioCallSpread{}
		s.strategyBase = newBase(KindRatioCallSpread, s)
		return s
	},
}

func newEmpty(op string, kind Kind) (Strategy, error) {
	build, ok := constructors[kind]
	if !ok {
		return nil, strategyErr(op, ErrUnknownStrategyKind, "%s", kind)
	}
	return build(), nil
}

// NewStrategy creates any kind from shared params and legs in slot order.
func NewStrategy(kind Kind, params Params, legs ...LegParams) (Strategy, error) {
	op := "NewStrategy"
	s, err := newEmpty(op, kind)
	if err != nil {
		return nil, err
	}

	if err := s.base().fill(op, params, legs); err != nil {
		return nil, err
	}

	return s, nil
}

// LegCount is the number of positions the kind holds.
func LegCount(kind Kind) (int, error) {
	s, err := newEmpty("LegCount", kind)
	if err != nil {
		return 0, err
	}
	return len(s.layout().slots), nil
}

// GetStrategy rebuilds a typed strategy from raw positions in any order.
// KindCustom takes the positions as they are.
func GetStrategy(kind Kind, positions []models.Position) (Strategy, error) {
	op := fmt.Sprintf("GetStrategy(%s)", kind)
	if kind == KindCustom {
		custom, err := NewCustomStrategy("", positions)
		if err != nil {
			return nil, err
		}
		return custom, nil
	}

	s, err := newEmpty(op, kind)
	if err != nil {
		return nil, err
	}

	lay := s.layout()
	if len(positions) != len(lay.slots) {
		return nil, invalidParams(op, "expected %d positions, got %d", len(lay.slots), len(positions))
	}

	sorted := make([]models.Position, len(positions))
	copy(sorted, positions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Option.StrikePrice.LessThan(sorted[j].Option.StrikePrice)
	})

	ptrs := make([]*models.Position, len(sorted))
	for i := range sorted {
		ptrs[i] = &sorted[i]
	}
	strikes := distinctStrikes(ptrs)
	if len(strikes) != lay.strikes {
		return nil, invalidParams(op, "expected %d distinct strikes, got %d", lay.strikes, len(strikes))
	}

	used := make([]bool, len(sorted))
	for _, sl := range lay.slots {
		idx := matchSlot(sl, sorted, used, strikes)
		if idx < 0 {
			return nil, invalidParams(op, "no %s %s position at strike rank %d for %s", sl.side, sl.style, sl.rank, sl.name)
		}
		used[idx] = true
		*sl.position = sorted[idx]
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	s.UpdateBreakEvenPoints()
	return s, nil
}

func matchSlot(sl slot, positions []models.Position, used []bool, strikes []positive.Positive) int {
	for i, p := range positions {
		if used[i] {
			continue
		}
		if p.Option.Side == sl.side && p.Option.Style == sl.style && strikeRank(strikes, p.Option.StrikePrice) == sl.rank {
			return i
		}
	}
	return -1
}

func (b *strategyBase) base() *strategyBase {
	return b
}
