package probability

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/optionstrat/src/positive"
)

// StrategyProbabilityAnalysis summarizes a strategy under the lognormal model.
type StrategyProbabilityAnalysis struct {
	ProbabilityOfProfit    positive.Positive   `json:"probability_of_profit"`
	ProbabilityOfMaxProfit positive.Positive   `json:"probability_of_max_profit"`
	ProbabilityOfMaxLoss   positive.Positive   `json:"probability_of_max_loss"`
	ExpectedValue          positive.Positive   `json:"expected_value"`
	BreakEvenPoints        []positive.Positive `json:"break_even_points"`
	RiskRewardRatio        decimal.Decimal     `json:"risk_reward_ratio"`
}

func (a StrategyProbabilityAnalysis) String() string {
	p := message.NewPrinter(language.English)
	display := &strings.Builder{}

	breakEvens := make([]string, len(a.BreakEvenPoints))
	for i, be := range a.BreakEvenPoints {
		breakEvens[i] = be.RoundTo(2).String()
	}

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Probability of profit", p.Sprintf("%.2f%%", a.ProbabilityOfProfit.Float64()*100)})
	table.Append([]string{"Probability of max profit", p.Sprintf("%.2f%%", a.ProbabilityOfMaxProfit.Float64()*100)})
	table.Append([]string{"Probability of max loss", p.Sprintf("%.2f%%", a.ProbabilityOfMaxLoss.Float64()*100)})
	table.Append([]string{"Expected value", p.Sprintf("%.2f", a.ExpectedValue.Float64())})
	table.Append([]string{"Break even points", strings.Join(breakEvens, ", ")})
	table.Append([]string{"Risk/reward ratio", p.Sprintf("%.2f", a.RiskRewardRatio.InexactFloat64())})
	table.Render()

	return display.String()
}
