package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Trades []Trade

func (trades *Trades) ToRows() [][]interface{} {
	results := make([][]interface{}, 0)

	for _, tr := range *trades {
		symbol := ""
		if tr.Symbol != nil {
			symbol = *tr.Symbol
		}

		results = append(results, []interface{}{
			tr.Timestamp.Format(time.RFC3339),
			symbol,
			string(tr.Action),
			string(tr.Style),
			tr.Strike.String(),
			tr.Quantity.String(),
			tr.Premium.String(),
		})
	}

	return results
}

func (trades *Trades) Add(trade *Trade) {
	*trades = append(*trades, *trade)
}

// NetPremium is premium collected by sells minus premium paid by buys, fees included.
func (trades *Trades) NetPremium() decimal.Decimal {
	total := decimal.Zero
	for _, tr := range *trades {
		gross := tr.Premium.Mul(tr.Quantity).Decimal()
		fees := tr.Fee.Mul(tr.Quantity).Decimal()
		switch tr.Action {
		case TradeActionSell:
			total = total.Add(gross)
		case TradeActionBuy:
			total = total.Sub(gross)
		}
		total = total.Sub(fees)
	}

	return total
}
