package models

import "fmt"

type TradeAction string

func (a TradeAction) Validate() error {
	if a != TradeActionBuy && a != TradeActionSell && a != TradeActionOther {
		return fmt.Errorf("TradeAction: Validate: invalid trade action: %s", a)
	}

	return nil
}

const (
	TradeActionBuy   TradeAction = "buy"
	TradeActionSell  TradeAction = "sell"
	TradeActionOther TradeAction = "other"
)
