package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/positive"
)

type PnL struct {
	Realized      *decimal.Decimal  `json:"realized,omitempty"`
	Unrealized    *decimal.Decimal  `json:"unrealized,omitempty"`
	InitialCosts  positive.Positive `json:"initial_costs"`
	InitialIncome positive.Positive `json:"initial_income"`
	DateTime      time.Time         `json:"date_time"`
}

func addOptional(a, b *decimal.Decimal) *decimal.Decimal {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil:
		v := *a
		return &v
	default:
		v := a.Add(*b)
		return &v
	}
}

func (p PnL) Add(o PnL) PnL {
	dt := p.DateTime
	if o.DateTime.After(dt) {
		dt = o.DateTime
	}

	return PnL{
		Realized:      addOptional(p.Realized, o.Realized),
		Unrealized:    addOptional(p.Unrealized, o.Unrealized),
		InitialCosts:  p.InitialCosts.Add(o.InitialCosts),
		InitialIncome: p.InitialIncome.Add(o.InitialIncome),
		DateTime:      dt,
	}
}

// Total is realized plus unrealized, treating missing parts as zero.
func (p PnL) Total() decimal.Decimal {
	total := decimal.Zero
	if p.Realized != nil {
		total = total.Add(*p.Realized)
	}
	if p.Unrealized != nil {
		total = total.Add(*p.Unrealized)
	}

	return total
}
