package chains

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
)

// optionDataCSV is the on-disk row. Empty cells are missing values.
type optionDataCSV struct {
	StrikePrice       string `csv:"strike_price"`
	CallBid           string `csv:"call_bid"`
	CallAsk           string `csv:"call_ask"`
	PutBid            string `csv:"put_bid"`
	PutAsk            string `csv:"put_ask"`
	ImpliedVolatility string `csv:"implied_volatility"`
	DeltaCall         string `csv:"delta_call"`
	DeltaPut          string `csv:"delta_put"`
	Gamma             string `csv:"gamma"`
	Volume            string `csv:"volume"`
	OpenInterest      string `csv:"open_interest"`
}

func parseOptionalPositive(field, s string) (*positive.Positive, error) {
	if s == "" {
		return nil, nil
	}

	p, err := positive.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &p, nil
}

func parseOptionalDecimal(field, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &d, nil
}

func (row optionDataCSV) toOptionData() (OptionData, error) {
	strike, err := positive.NewFromString(row.StrikePrice)
	if err != nil {
		return OptionData{}, fmt.Errorf("strike_price: %w", err)
	}

	data := OptionData{StrikePrice: strike}

	positives := []struct {
		name string
		raw  string
		dst  **positive.Positive
	}{
		{"call_bid", row.CallBid, &data.CallBid},
		{"call_ask", row.CallAsk, &data.CallAsk},
		{"put_bid", row.PutBid, &data.PutBid},
		{"put_ask", row.PutAsk, &data.PutAsk},
		{"implied_volatility", row.ImpliedVolatility, &data.ImpliedVolatility},
		{"volume", row.Volume, &data.Volume},
	}
	for _, f := range positives {
		if *f.dst, err = parseOptionalPositive(f.name, f.raw); err != nil {
			return OptionData{}, err
		}
	}

	decimals := []struct {
		name string
		raw  string
		dst  **decimal.Decimal
	}{
		{"delta_call", row.DeltaCall, &data.DeltaCall},
		{"delta_put", row.DeltaPut, &data.DeltaPut},
		{"gamma", row.Gamma, &data.Gamma},
	}
	for _, f := range decimals {
		if *f.dst, err = parseOptionalDecimal(f.name, f.raw); err != nil {
			return OptionData{}, err
		}
	}

	if row.OpenInterest != "" {
		oi, err := strconv.ParseUint(row.OpenInterest, 10, 64)
		if err != nil {
			return OptionData{}, fmt.Errorf("open_interest: %w", err)
		}
		data.OpenInterest = &oi
	}

	data.SetMidPrices()
	return data, nil
}

func positiveCell(p *positive.Positive) string {
	if p == nil {
		return ""
	}
	return p.String()
}

func decimalCell(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func fromOptionData(o OptionData) optionDataCSV {
	row := optionDataCSV{
		StrikePrice:       o.StrikePrice.String(),
		CallBid:           positiveCell(o.CallBid),
		CallAsk:           positiveCell(o.CallAsk),
		PutBid:            positiveCell(o.PutBid),
		PutAsk:            positiveCell(o.PutAsk),
		ImpliedVolatility: positiveCell(o.ImpliedVolatility),
		DeltaCall:         decimalCell(o.DeltaCall),
		DeltaPut:          decimalCell(o.DeltaPut),
		Gamma:             decimalCell(o.Gamma),
		Volume:            positiveCell(o.Volume),
	}

	if o.OpenInterest != nil {
		row.OpenInterest = strconv.FormatUint(*o.OpenInterest, 10)
	}

	return row
}

// ReadOptionChainCSV loads one row per strike from r.
func ReadOptionChainCSV(r io.Reader, symbol string, underlying positive.Positive, expiration models.ExpirationDate, rate decimal.Decimal, dividendYield positive.Positive) (*OptionChain, error) {
	var rows []optionDataCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("ReadOptionChainCSV: %w", err)
	}

	chain := NewOptionChain(symbol, underlying, expiration, rate, dividendYield)
	for i, row := range rows {
		data, err := row.toOptionData()
		if err != nil {
			return nil, fmt.Errorf("ReadOptionChainCSV: row %d: %w", i+1, err)
		}
		chain.AddOption(data)
	}

	return chain, nil
}

func (c *OptionChain) WriteCSV(w io.Writer) error {
	rows := make([]optionDataCSV, 0, len(c.options))
	for _, o := range c.options {
		rows = append(rows, fromOptionData(o))
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("OptionChain.WriteCSV: %w", err)
	}

	return nil
}
