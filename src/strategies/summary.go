package strategies

import (
	"errors"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
)

func formatExtreme(p *message.Printer, value positive.Positive, err error, unlimited error) string {
	if errors.Is(err, unlimited) {
		return "unlimited"
	}
	if err != nil {
		return err.Error()
	}
	return p.Sprintf("%.2f", value.Float64())
}

// Summary renders the legs and the expiration profile of a strategy.
func Summary(s Strategy) string {
	p := message.NewPrinter(language.English)
	display := &strings.Builder{}

	fmt.Fprintf(display, "%s (%s)\n", s.GetName(), s.GetKind())

	legs := tablewriter.NewWriter(display)
	legs.SetHeader([]string{"Leg", "Side", "Style", "Strike", "Qty", "Premium", "IV", "Expiration"})
	for _, slot := range s.layout().slots {
		opt := slot.position.Option
		legs.Append([]string{
			slot.name,
			string(opt.Side),
			string(opt.Style),
			p.Sprintf("%.2f", opt.StrikePrice.Float64()),
			opt.Quantity.String(),
			p.Sprintf("%.2f", slot.position.Premium.Float64()),
			p.Sprintf("%.2f%%", opt.ImpliedVolatility.Float64()*100),
			opt.ExpirationDate.String(),
		})
	}
	legs.Render()

	maxProfit, profitErr := s.MaxProfit()
	maxLoss, lossErr := s.MaxLoss()

	breakEvens := make([]string, 0, len(s.GetBreakEvenPoints()))
	for _, be := range s.GetBreakEvenPoints() {
		breakEvens = append(breakEvens, p.Sprintf("%.2f", be.Float64()))
	}

	status := "valid"
	if err := s.Validate(); err != nil {
		status = err.Error()
	}

	metrics := tablewriter.NewWriter(display)
	metrics.SetHeader([]string{"Metric", "Value"})
	metrics.Append([]string{"Underlying", p.Sprintf("%s @ %.2f", s.Symbol(), s.UnderlyingPrice().Float64())})
	metrics.Append([]string{"Net cost", p.Sprintf("%.2f", s.NetCost().InexactFloat64())})
	metrics.Append([]string{"Fees", p.Sprintf("%.2f", s.Fees().Float64())})
	metrics.Append([]string{"Max profit", formatExtreme(p, maxProfit, profitErr, ErrMaxProfitUnlimited)})
	metrics.Append([]string{"Max loss", formatExtreme(p, maxLoss, lossErr, ErrMaxLossUnlimited)})
	metrics.Append([]string{"Break even points", strings.Join(breakEvens, ", ")})
	metrics.Append([]string{"Profit ratio", p.Sprintf("%.2f", s.ProfitRatio().InexactFloat64())})
	metrics.Append([]string{"Validation", status})
	metrics.Render()

	return display.String()
}

// OpenTrades returns the trades that open every leg of the strategy.
func OpenTrades(s Strategy) models.Trades {
	trades := models.Trades{}
	for _, p := range s.GetPositions() {
		tr := p.OpenTrade()
		trades.Add(&tr)
	}
	return trades
}

func TradesTable(trades models.Trades) string {
	display := &strings.Builder{}

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Time", "Symbol", "Action", "Style", "Strike", "Qty", "Premium"})
	for _, row := range trades.ToRows() {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprint(cell)
		}
		table.Append(cells)
	}
	table.SetFooter([]string{"", "", "", "", "", "Net", trades.NetPremium().StringFixed(2)})
	table.Render()

	return display.String()
}
