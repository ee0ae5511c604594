package chains

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
)

// OptionChain holds one row per strike, kept in ascending strike order.
type OptionChain struct {
	Symbol          string                `json:"symbol"`
	UnderlyingPrice positive.Positive     `json:"underlying_price"`
	ExpirationDate  models.ExpirationDate `json:"expiration_date"`
	RiskFreeRate    decimal.Decimal       `json:"risk_free_rate"`
	DividendYield   positive.Positive     `json:"dividend_yield"`
	options         []OptionData
}

// OptionDataGroup is a combination of chain rows in ascending strike order.
type OptionDataGroup []OptionData

func NewOptionChain(symbol string, underlying positive.Positive, expiration models.ExpirationDate, rate decimal.Decimal, dividendYield positive.Positive) *OptionChain {
	return &OptionChain{
		Symbol:          symbol,
		UnderlyingPrice: underlying,
		ExpirationDate:  expiration,
		RiskFreeRate:    rate,
		DividendYield:   dividendYield,
	}
}

// AddOption inserts the row, replacing any existing row at the same strike.
func (c *OptionChain) AddOption(data OptionData) {
	data.SetMidPrices()

	idx := sort.Search(len(c.options), func(i int) bool {
		return c.options[i].StrikePrice.GreaterThanOrEqual(data.StrikePrice)
	})

	if idx < len(c.options) && c.options[idx].StrikePrice.Equal(data.StrikePrice) {
		c.options[idx] = data
		return
	}

	c.options = append(c.options, OptionData{})
	copy(c.options[idx+1:], c.options[idx:])
	c.options[idx] = data
}

func (c *OptionChain) Len() int {
	return len(c.options)
}

func (c *OptionChain) Options() []OptionData {
	out := make([]OptionData, len(c.options))
	copy(out, c.options)
	return out
}

func (c *OptionChain) Get(strike positive.Positive) (OptionData, bool) {
	for _, o := range c.options {
		if o.StrikePrice.Equal(strike) {
			return o, true
		}
	}
	return OptionData{}, false
}

// Title renders as symbol-expiration-underlying, with spaces replaced by dashes.
func (c *OptionChain) Title() string {
	return strings.ReplaceAll(fmt.Sprintf("%s-%s-%s", c.Symbol, c.ExpirationDate, c.UnderlyingPrice), " ", "-")
}

// ATMStrike returns the strike nearest to the underlying price. Ties go to the lower strike.
func (c *OptionChain) ATMStrike() (positive.Positive, error) {
	if len(c.options) == 0 {
		return positive.Zero, chainErr("OptionChain.ATMStrike", ErrEmptyChain, "%s", c.Symbol)
	}

	best := c.options[0].StrikePrice
	bestDist := best.SubDecimal(c.UnderlyingPrice).Abs()
	for _, o := range c.options[1:] {
		if dist := o.StrikePrice.SubDecimal(c.UnderlyingPrice).Abs(); dist.LessThan(bestDist) {
			best, bestDist = o.StrikePrice, dist
		}
	}

	return best, nil
}

// GetCallPrice returns the call ask at exactly the given strike.
func (c *OptionChain) GetCallPrice(strike positive.Positive) *positive.Positive {
	o, ok := c.Get(strike)
	if !ok {
		return nil
	}
	return o.CallAsk
}

// GetATMImpliedVolatility requires a row whose strike equals the underlying price.
func (c *OptionChain) GetATMImpliedVolatility() (positive.Positive, error) {
	o, ok := c.Get(c.UnderlyingPrice)
	if !ok || o.ImpliedVolatility == nil {
		return positive.Zero, chainErr("OptionChain.GetATMImpliedVolatility", ErrMissingATM, "underlying %s", c.UnderlyingPrice)
	}

	return *o.ImpliedVolatility, nil
}

// GetSingleIter returns the rows that carry an implied volatility.
func (c *OptionChain) GetSingleIter() []OptionData {
	var out []OptionData
	for _, o := range c.options {
		if o.ImpliedVolatility != nil {
			out = append(out, o)
		}
	}
	return out
}

// combinations enumerates k-element index tuples in lexicographic order.
// Inclusive combinations may repeat an element.
func combinations(rows []OptionData, k int, inclusive bool) []OptionDataGroup {
	var out []OptionDataGroup
	idx := make([]int, k)

	var walk func(pos, start int)
	walk = func(pos, start int) {
		if pos == k {
			group := make(OptionDataGroup, k)
			for i, j := range idx {
				group[i] = rows[j]
			}
			out = append(out, group)
			return
		}

		for i := start; i < len(rows); i++ {
			idx[pos] = i
			next := i + 1
			if inclusive {
				next = i
			}
			walk(pos+1, next)
		}
	}

	walk(0, 0)
	return out
}

func (c *OptionChain) GetDoubleIter() []OptionDataGroup {
	return combinations(c.GetSingleIter(), 2, false)
}

func (c *OptionChain) GetDoubleInclusiveIter() []OptionDataGroup {
	return combinations(c.GetSingleIter(), 2, true)
}

func (c *OptionChain) GetTripleIter() []OptionDataGroup {
	return combinations(c.GetSingleIter(), 3, false)
}

func (c *OptionChain) GetTripleInclusiveIter() []OptionDataGroup {
	return combinations(c.GetSingleIter(), 3, true)
}

func (c *OptionChain) GetQuadIter() []OptionDataGroup {
	return combinations(c.GetSingleIter(), 4, false)
}

func (c *OptionChain) GetQuadInclusiveIter() []OptionDataGroup {
	return combinations(c.GetSingleIter(), 4, true)
}

// FilterOptionData keeps rows strictly above (Upper) or below (Lower) the
// underlying, inside an inclusive Range, or at the ATM strike for Center.
func (c *OptionChain) FilterOptionData(side FindOptimalSide) []OptionData {
	var atm *positive.Positive
	if side.Kind == Center {
		if strike, err := c.ATMStrike(); err == nil {
			atm = &strike
		}
	}

	var out []OptionData
	for _, o := range c.options {
		keep := false
		switch side.Kind {
		case Upper:
			keep = o.StrikePrice.GreaterThan(c.UnderlyingPrice)
		case Lower:
			keep = o.StrikePrice.LessThan(c.UnderlyingPrice)
		case All:
			keep = true
		case Range:
			keep = o.StrikePrice.GreaterThanOrEqual(side.Start) && o.StrikePrice.LessThanOrEqual(side.End)
		case Center:
			keep = atm != nil && o.StrikePrice.Equal(*atm)
		}

		if keep {
			out = append(out, o)
		}
	}

	return out
}

// StrikeInterval is the smallest gap between adjacent strikes.
func (c *OptionChain) StrikeInterval() (positive.Positive, error) {
	if len(c.options) < 2 {
		return positive.Zero, chainErr("OptionChain.StrikeInterval", ErrEmptyChain, "need at least 2 strikes, have %d", len(c.options))
	}

	interval := positive.Infinity
	for i := 1; i < len(c.options); i++ {
		gap, err := c.options[i].StrikePrice.Sub(c.options[i-1].StrikePrice)
		if err != nil {
			return positive.Zero, fmt.Errorf("OptionChain.StrikeInterval: %w", err)
		}
		interval = interval.Min(gap)
	}

	return interval, nil
}

func (c *OptionChain) exposure(op string, value func(OptionData) *decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range c.options {
		v := value(o)
		if v == nil {
			return decimal.Zero, chainErr(op, ErrMissingGreeks, "strike %s", o.StrikePrice)
		}
		total = total.Add(*v)
	}
	return total, nil
}

// DeltaExposure sums call and put deltas across every strike.
func (c *OptionChain) DeltaExposure() (decimal.Decimal, error) {
	return c.exposure("OptionChain.DeltaExposure", func(o OptionData) *decimal.Decimal {
		if o.DeltaCall == nil || o.DeltaPut == nil {
			return nil
		}
		return decPtr(o.DeltaCall.Add(*o.DeltaPut))
	})
}

func (c *OptionChain) GammaExposure() (decimal.Decimal, error) {
	return c.exposure("OptionChain.GammaExposure", func(o OptionData) *decimal.Decimal {
		return o.Gamma
	})
}

func optionalString(p *positive.Positive, printer *message.Printer) string {
	if p == nil {
		return ""
	}
	return printer.Sprintf("%.2f", p.Float64())
}

func optionalDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(4)
}

func (c *OptionChain) String() string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	display.WriteString(fmt.Sprintf("Option Chain %s (underlying %s, expiration %s):\n", c.Symbol, p.Sprintf("%.2f", c.UnderlyingPrice.Float64()), c.ExpirationDate))

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Strike", "Call Bid", "Call Ask", "Put Bid", "Put Ask", "IV", "Delta C", "Delta P", "Gamma", "Volume", "OI"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, o := range c.options {
		iv := ""
		if o.ImpliedVolatility != nil {
			iv = fmt.Sprintf("%.3f", o.ImpliedVolatility.Float64())
		}

		oi := ""
		if o.OpenInterest != nil {
			oi = p.Sprintf("%d", *o.OpenInterest)
		}

		table.Append([]string{
			p.Sprintf("%.2f", o.StrikePrice.Float64()),
			optionalString(o.CallBid, p),
			optionalString(o.CallAsk, p),
			optionalString(o.PutBid, p),
			optionalString(o.PutAsk, p),
			iv,
			optionalDecimal(o.DeltaCall),
			optionalDecimal(o.DeltaPut),
			optionalDecimal(o.Gamma),
			optionalString(o.Volume, p),
			oi,
		})
	}

	table.Render()
	return display.String()
}
