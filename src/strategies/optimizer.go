package strategies

import (
	"fmt"
	"runtime"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jiaming2012/optionstrat/src/chains"
	"github.com/jiaming2012/optionstrat/src/positive"
)

type OptimizationCriterion string

const (
	Ratio OptimizationCriterion = "ratio"
	Area  OptimizationCriterion = "area"
)

func (c OptimizationCriterion) Validate() error {
	switch c {
	case Ratio, Area:
		return nil
	}

	return fmt.Errorf("OptimizationCriterion: Validate: invalid criterion: %s", c)
}

// OptimizerDefaults fill in what a chain row does not carry.
type OptimizerDefaults struct {
	Quantity      positive.Positive `yaml:"quantity"`
	OpenFee       positive.Positive `yaml:"open_fee"`
	CloseFee      positive.Positive `yaml:"close_fee"`
	RiskFreeRate  decimal.Decimal   `yaml:"risk_free_rate"`
	DividendYield positive.Positive `yaml:"dividend_yield"`
}

func (d OptimizerDefaults) quantity() positive.Positive {
	if d.Quantity.IsZero() {
		return positive.One
	}
	return d.Quantity
}

// groups enumerates ascending strike combinations sized to the layout.
func groups(chain *chains.OptionChain, strikes int) ([]chains.OptionDataGroup, error) {
	switch strikes {
	case 1:
		var out []chains.OptionDataGroup
		for _, row := range chain.GetSingleIter() {
			out = append(out, chains.OptionDataGroup{row})
		}
		return out, nil
	case 2:
		return chain.GetDoubleIter(), nil
	case 3:
		return chain.GetTripleIter(), nil
	case 4:
		return chain.GetQuadIter(), nil
	}

	return nil, fmt.Errorf("groups: unsupported strike count %d", strikes)
}

// allowed applies the side policy to the strike of the given rank. Center
// puts the lower ranks below the underlying, the upper ranks above, and the
// middle rank of an odd count on the ATM strike.
func allowed(chain *chains.OptionChain, side chains.FindOptimalSide, atm *positive.Positive, row chains.OptionData, rank, strikes int) bool {
	if side.Kind != chains.Center {
		return row.IsValidOptimalSide(chain.UnderlyingPrice, side)
	}

	half := strikes / 2
	switch {
	case strikes%2 == 1 && rank == half:
		return atm != nil && row.StrikePrice.Equal(*atm)
	case rank < half:
		return row.IsValidOptimalSide(chain.UnderlyingPrice, chains.SideLower)
	default:
		return row.IsValidOptimalSide(chain.UnderlyingPrice, chains.SideUpper)
	}
}

// CreateStrategy builds kind from chain rows, paying the ask on long legs and
// receiving the bid on short ones.
func CreateStrategy(kind Kind, chain *chains.OptionChain, group chains.OptionDataGroup, defaults OptimizerDefaults) (Strategy, error) {
	op := fmt.Sprintf("CreateStrategy(%s)", kind)
	s, err := newEmpty(op, kind)
	if err != nil {
		return nil, err
	}

	lay := s.layout()
	if len(group) != lay.strikes {
		return nil, invalidParams(op, "expected %d strikes, got %d", lay.strikes, len(group))
	}

	legs := make([]LegParams, len(lay.slots))
	for i, sl := range lay.slots {
		row := group[sl.rank]
		premium := row.GetPrice(sl.style, sl.side)
		if premium == nil {
			return nil, invalidParams(op, "no %s %s price at strike %s", sl.side, sl.style, row.StrikePrice)
		}

		quantity := defaults.quantity().Mul(positive.MustFromInt(sl.ratio))
		legs[i] = LegParams{
			Strike:            row.StrikePrice,
			Premium:           *premium,
			OpenFee:           defaults.OpenFee,
			CloseFee:          defaults.CloseFee,
			Quantity:          &quantity,
			ImpliedVolatility: row.ImpliedVolatility,
		}
	}

	params := Params{
		Symbol:          chain.Symbol,
		UnderlyingPrice: chain.UnderlyingPrice,
		Expiration:      chain.ExpirationDate,
		RiskFreeRate:    defaults.RiskFreeRate,
		DividendYield:   defaults.DividendYield,
		Quantity:        defaults.quantity(),
	}
	if group[0].ImpliedVolatility != nil {
		params.ImpliedVolatility = *group[0].ImpliedVolatility
	}

	if err := s.base().fill(op, params, legs); err != nil {
		return nil, err
	}

	return s, nil
}

// FilterCombinations keeps the chain combinations that satisfy the side policy,
// have every needed quote, validate, and have bounded profit and loss.
func FilterCombinations(kind Kind, chain *chains.OptionChain, side chains.FindOptimalSide, defaults OptimizerDefaults) ([]Strategy, error) {
	op := fmt.Sprintf("FilterCombinations(%s)", kind)
	if err := side.Validate(); err != nil {
		return nil, invalidParams(op, "%v", err)
	}

	template, err := newEmpty(op, kind)
	if err != nil {
		return nil, err
	}
	strikes := template.layout().strikes

	candidates, err := groups(chain, strikes)
	if err != nil {
		return nil, invalidParams(op, "%v", err)
	}

	var atm *positive.Positive
	if strike, err := chain.ATMStrike(); err == nil {
		atm = &strike
	}

	var out []Strategy
	for _, group := range candidates {
		ok := true
		for rank, row := range group {
			if !allowed(chain, side, atm, row, rank, strikes) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		s, err := CreateStrategy(kind, chain, group, defaults)
		if err != nil {
			continue
		}

		if !s.IsValid() {
			continue
		}

		if _, err := s.MaxProfit(); err != nil {
			continue
		}

		if _, err := s.MaxLoss(); err != nil {
			continue
		}

		out = append(out, s)
	}

	return out, nil
}

func score(s Strategy, criterion OptimizationCriterion) (decimal.Decimal, error) {
	if criterion == Area {
		return s.ProfitArea()
	}
	return s.ProfitRatio(), nil
}

// FindOptimal scores every filtered combination in parallel and returns the
// best one. Ties keep the combination enumerated first.
func FindOptimal(kind Kind, chain *chains.OptionChain, side chains.FindOptimalSide, criterion OptimizationCriterion, defaults OptimizerDefaults) (Strategy, error) {
	op := fmt.Sprintf("FindOptimal(%s)", kind)
	if err := criterion.Validate(); err != nil {
		return nil, invalidParams(op, "%v", err)
	}

	candidates, err := FilterCombinations(kind, chain, side, defaults)
	if err != nil {
		return nil, err
	}

	scores := make([]*decimal.Decimal, len(candidates))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, s := range candidates {
		i, s := i, s
		g.Go(func() error {
			value, err := score(s, criterion)
			if err != nil {
				log.Debugf("%s: skipping %s: %v", op, s.Title(), err)
				return nil
			}
			scores[i] = &value
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var best Strategy
	var bestScore decimal.Decimal
	for i, s := range candidates {
		if scores[i] == nil {
			continue
		}

		if best == nil || scores[i].GreaterThan(bestScore) {
			best, bestScore = s, *scores[i]
			log.Infof("%s: new best %s %v with %s %s", op, criterion, s.Strikes(), criterion, bestScore.StringFixed(4))
		}
	}

	if best == nil {
		return nil, strategyErr(op, ErrNoValidCombination, "%d combinations on %s, side %s", len(candidates), chain.Symbol, side)
	}

	return best, nil
}

// FindOptimal replaces the legs with the best combination from chain, keeping
// the strategy's own quantity, fees, rate and dividend yield.
func (b *strategyBase) FindOptimal(chain *chains.OptionChain, side chains.FindOptimalSide, criterion OptimizationCriterion) error {
	op := fmt.Sprintf("%s.FindOptimal", b.Kind.Title())
	if err := b.Validate(); err != nil {
		return strategyErr(op, ErrInvalidStrategy, "%v", err)
	}

	first := b.slots()[0]
	defaults := OptimizerDefaults{
		Quantity:      positive.Clamp(first.position.Option.Quantity.Decimal().Div(decimal.NewFromInt(first.ratio))),
		OpenFee:       first.position.OpenFee,
		CloseFee:      first.position.CloseFee,
		RiskFreeRate:  first.position.Option.RiskFreeRate,
		DividendYield: first.position.Option.DividendYield,
	}

	best, err := FindOptimal(b.Kind, chain, side, criterion, defaults)
	if err != nil {
		return err
	}

	for i, sl := range b.slots() {
		*sl.position = *best.layout().slots[i].position
	}

	b.UpdateBreakEvenPoints()
	return nil
}
