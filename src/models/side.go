package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Side string

func (s Side) Validate() error {
	if s != Long && s != Short {
		return fmt.Errorf("Side: Validate: invalid side: %s", s)
	}

	return nil
}

// Sign is +1 for long and -1 for short.
func (s Side) Sign() decimal.Decimal {
	if s == Short {
		return decimal.NewFromInt(-1)
	}

	return decimal.NewFromInt(1)
}

func (s Side) Opposite() Side {
	if s == Long {
		return Short
	}

	return Long
}

const (
	Long  Side = "long"
	Short Side = "short"
)
