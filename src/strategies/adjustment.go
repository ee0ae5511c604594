package strategies

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/optionstrat/src/chains"
	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/pricing"
)

var costWeight = decimal.NewFromFloat(0.01)

type AdjustmentActionKind string

const (
	ActionModifyQuantity AdjustmentActionKind = "modify_quantity"
	ActionAddLeg         AdjustmentActionKind = "add_leg"
	ActionCloseLeg       AdjustmentActionKind = "close_leg"
	ActionRollStrike     AdjustmentActionKind = "roll_strike"
	ActionRollExpiration AdjustmentActionKind = "roll_expiration"
	ActionAddUnderlying  AdjustmentActionKind = "add_underlying"
)

// AdjustmentAction is one step of a plan. For ActionModifyQuantity Quantity is
// the leg's new quantity, for ActionAddLeg the quantity of the new leg.
type AdjustmentAction struct {
	Kind               AdjustmentActionKind   `json:"kind"`
	LegIndex           int                    `json:"leg_index"`
	Strike             positive.Positive      `json:"strike"`
	Style              models.OptionStyle     `json:"style,omitempty"`
	Side               models.Side            `json:"side,omitempty"`
	Quantity           positive.Positive      `json:"quantity"`
	UnderlyingQuantity decimal.Decimal        `json:"underlying_quantity"`
	NewStrike          *positive.Positive     `json:"new_strike,omitempty"`
	NewExpiration      *models.ExpirationDate `json:"new_expiration,omitempty"`
}

func (a AdjustmentAction) String() string {
	switch a.Kind {
	case ActionAddUnderlying:
		return fmt.Sprintf("%s %s", a.Kind, a.UnderlyingQuantity.StringFixed(4))
	case ActionModifyQuantity:
		return fmt.Sprintf("%s leg %d (%s %s @ %s) to %s", a.Kind, a.LegIndex, a.Side, a.Style, a.Strike, a.Quantity.RoundTo(4))
	default:
		return fmt.Sprintf("%s %s %s %s @ %s", a.Kind, a.Quantity.RoundTo(4), a.Side, a.Style, a.Strike)
	}
}

// AdjustmentConfig limits what the planner may propose.
type AdjustmentConfig struct {
	AllowNewLegs       bool                 `yaml:"allow_new_legs"`
	AllowUnderlying    bool                 `yaml:"allow_underlying"`
	MaxNewLegs         int                  `yaml:"max_new_legs"`
	AllowedStyles      []models.OptionStyle `yaml:"allowed_styles"`
	MinStrike          *positive.Positive   `yaml:"min_strike,omitempty"`
	MaxStrike          *positive.Positive   `yaml:"max_strike,omitempty"`
	MaxCost            *positive.Positive   `yaml:"max_cost,omitempty"`
	MinLiquidity       *uint64              `yaml:"min_liquidity,omitempty"`
	DeltaTolerance     decimal.Decimal      `yaml:"delta_tolerance"`
	PreferExistingLegs bool                 `yaml:"prefer_existing_legs"`
}

func DefaultAdjustmentConfig() AdjustmentConfig {
	return AdjustmentConfig{
		AllowNewLegs:       true,
		AllowUnderlying:    false,
		MaxNewLegs:         2,
		AllowedStyles:      []models.OptionStyle{models.Call, models.Put},
		DeltaTolerance:     DefaultDeltaTolerance,
		PreferExistingLegs: true,
	}
}

func (c AdjustmentConfig) Validate() error {
	if c.DeltaTolerance.IsNegative() {
		return fmt.Errorf("AdjustmentConfig.Validate: delta tolerance must be non-negative")
	}

	if c.MaxNewLegs < 0 {
		return fmt.Errorf("AdjustmentConfig.Validate: max new legs must be non-negative, got %d", c.MaxNewLegs)
	}

	for _, style := range c.AllowedStyles {
		if err := style.Validate(); err != nil {
			return fmt.Errorf("AdjustmentConfig.Validate: %w", err)
		}
	}

	if c.MinStrike != nil && c.MaxStrike != nil && c.MinStrike.GreaterThan(*c.MaxStrike) {
		return fmt.Errorf("AdjustmentConfig.Validate: min strike %s is above max strike %s", c.MinStrike, c.MaxStrike)
	}

	return nil
}

func LoadAdjustmentConfig(path string) (AdjustmentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AdjustmentConfig{}, fmt.Errorf("LoadAdjustmentConfig: failed to read %s: %w", path, err)
	}

	var config AdjustmentConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return AdjustmentConfig{}, fmt.Errorf("LoadAdjustmentConfig: failed to parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return AdjustmentConfig{}, err
	}

	return config, nil
}

// UnmarshalYAML starts from DefaultAdjustmentConfig so omitted keys keep their defaults.
func (c *AdjustmentConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain AdjustmentConfig
	out := plain(DefaultAdjustmentConfig())
	if err := value.Decode(&out); err != nil {
		return err
	}

	*c = AdjustmentConfig(out)
	return nil
}

func (c AdjustmentConfig) allowsStyle(style models.OptionStyle) bool {
	for _, s := range c.AllowedStyles {
		if s == style {
			return true
		}
	}
	return false
}

func (c AdjustmentConfig) allowsRow(row chains.OptionData) bool {
	if c.MinStrike != nil && row.StrikePrice.LessThan(*c.MinStrike) {
		return false
	}
	if c.MaxStrike != nil && row.StrikePrice.GreaterThan(*c.MaxStrike) {
		return false
	}
	if c.MinLiquidity != nil && (row.OpenInterest == nil || *row.OpenInterest < *c.MinLiquidity) {
		return false
	}
	return true
}

type AdjustmentPlan struct {
	Actions         []AdjustmentAction `json:"actions"`
	EstimatedCost   positive.Positive  `json:"estimated_cost"`
	ResultingGreeks pricing.Greeks     `json:"resulting_greeks"`
	ResidualDelta   decimal.Decimal    `json:"residual_delta"`
	QualityScore    decimal.Decimal    `json:"quality_score"`
}

func newPlan(actions []AdjustmentAction, cost positive.Positive, greeks pricing.Greeks) AdjustmentPlan {
	return AdjustmentPlan{
		Actions:         actions,
		EstimatedCost:   cost,
		ResultingGreeks: greeks,
		ResidualDelta:   greeks.Delta,
		QualityScore:    greeks.Delta.Abs().Add(costWeight.Mul(cost.Decimal())),
	}
}

func (p AdjustmentPlan) String() string {
	printer := message.NewPrinter(language.English)
	display := &strings.Builder{}

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"#", "Action"})
	for i, a := range p.Actions {
		table.Append([]string{fmt.Sprintf("%d", i+1), a.String()})
	}
	table.SetFooter([]string{
		printer.Sprintf("cost %.2f", p.EstimatedCost.Float64()),
		printer.Sprintf("residual delta %.4f, score %.4f", p.ResidualDelta.InexactFloat64(), p.QualityScore.InexactFloat64()),
	})
	table.Render()

	return display.String()
}

// PlanDeltaAdjustments searches single action plans that bring the strategy's
// net delta inside the configured tolerance and returns the one with the
// lowest quality score. chain may be nil, in which case no new legs are
// considered.
func PlanDeltaAdjustments(strategy Strategy, chain *chains.OptionChain, config AdjustmentConfig) (AdjustmentPlan, error) {
	op := "PlanDeltaAdjustments"
	if err := config.Validate(); err != nil {
		return AdjustmentPlan{}, invalidParams(op, "%v", err)
	}

	if err := strategy.Validate(); err != nil {
		return AdjustmentPlan{}, strategyErr(op, ErrInvalidStrategy, "%v", err)
	}

	current, err := strategy.Greeks()
	if err != nil {
		return AdjustmentPlan{}, err
	}

	net := current.Delta
	if net.Abs().LessThanOrEqual(config.DeltaTolerance) {
		return newPlan(nil, positive.Zero, current), nil
	}

	planner := &deltaPlanner{
		base:    strategy.base(),
		config:  config,
		current: current,
	}

	existing, err := planner.existingLegPlans()
	if err != nil {
		return AdjustmentPlan{}, err
	}

	if config.PreferExistingLegs {
		if best, ok := planner.best(existing, true); ok {
			return best, nil
		}
	}

	candidates := existing
	if config.AllowNewLegs && config.MaxNewLegs > 0 && chain != nil {
		added, err := planner.newLegPlans(chain)
		if err != nil {
			return AdjustmentPlan{}, err
		}
		candidates = append(candidates, added...)
	}

	if config.AllowUnderlying {
		candidates = append(candidates, planner.underlyingPlan())
	}

	best, ok := planner.best(candidates, false)
	if !ok {
		return AdjustmentPlan{}, strategyErr(op, ErrNoViablePlan, "net delta %s", net.StringFixed(4))
	}

	log.Debugf("%s: %s picked %d action(s), residual %s", op, strategy.GetName(), len(best.Actions), best.ResidualDelta.StringFixed(6))
	return best, nil
}

type deltaPlanner struct {
	base    *strategyBase
	config  AdjustmentConfig
	current pricing.Greeks
}

// best drops plans over the cost cap, and with neutralOnly set also those
// that stay outside the tolerance.
func (p *deltaPlanner) best(plans []AdjustmentPlan, neutralOnly bool) (AdjustmentPlan, bool) {
	var out AdjustmentPlan
	found := false

	for _, plan := range plans {
		if p.config.MaxCost != nil && plan.EstimatedCost.GreaterThan(*p.config.MaxCost) {
			log.Debugf("deltaPlanner: skipping plan costing %s over max %s", plan.EstimatedCost, p.config.MaxCost)
			continue
		}

		if neutralOnly && plan.ResidualDelta.Abs().GreaterThan(p.config.DeltaTolerance) {
			continue
		}

		if !found || plan.QualityScore.LessThan(out.QualityScore) {
			out = plan
			found = true
		}
	}

	return out, found
}

// existingLegPlans resize one leg so its delta cancels the net delta.
func (p *deltaPlanner) existingLegPlans() ([]AdjustmentPlan, error) {
	net := p.current.Delta

	var plans []AdjustmentPlan
	for i, s := range p.base.slots() {
		opt := s.position.Option
		unit, err := pricing.CalculateGreeks(p.base.pricer, opt)
		if err != nil {
			return nil, fmt.Errorf("deltaPlanner: greeks of %s: %v: %w", opt.Title(), err, models.ErrGreeks)
		}

		signedDelta := unit.Delta.Mul(opt.Side.Sign())
		if signedDelta.Abs().LessThan(minLegDelta) {
			continue
		}

		change := net.Neg().Div(signedDelta)
		quantity := opt.Quantity.Decimal().Add(change)
		if !quantity.IsPositive() {
			continue
		}

		price, err := p.base.pricer.Price(opt)
		if err != nil {
			return nil, fmt.Errorf("deltaPlanner: price of %s: %w", opt.Title(), err)
		}

		action := AdjustmentAction{
			Kind:     ActionModifyQuantity,
			LegIndex: i,
			Strike:   opt.StrikePrice,
			Style:    opt.Style,
			Side:     opt.Side,
			Quantity: positive.MustNew(quantity),
		}

		cost := positive.FromAbs(price.Mul(change))
		greeks := p.current.Add(unit.Scale(opt.Side.Sign().Mul(change)))
		plans = append(plans, newPlan([]AdjustmentAction{action}, cost, greeks))
	}

	return plans, nil
}

// newLegPlans open one new leg per chain row and allowed style.
func (p *deltaPlanner) newLegPlans(chain *chains.OptionChain) ([]AdjustmentPlan, error) {
	net := p.current.Delta
	first := p.base.slots()[0].position.Option

	var plans []AdjustmentPlan
	for _, row := range chain.GetSingleIter() {
		if !p.config.allowsRow(row) {
			continue
		}

		for _, style := range []models.OptionStyle{models.Call, models.Put} {
			if !p.config.allowsStyle(style) {
				continue
			}

			opt := models.NewOption(models.Long, style, first.UnderlyingSymbol, row.StrikePrice, p.base.Expiration(), *row.ImpliedVolatility, positive.One, first.UnderlyingPrice, first.RiskFreeRate, first.DividendYield)
			unit, err := pricing.CalculateGreeks(p.base.pricer, opt)
			if err != nil {
				return nil, fmt.Errorf("deltaPlanner: greeks of %s: %v: %w", opt.Title(), err, models.ErrGreeks)
			}

			if unit.Delta.Abs().LessThan(minLegDelta) {
				continue
			}

			side := models.Short
			if unit.Delta.Sign() == -net.Sign() {
				side = models.Long
			}

			quantity := positive.FromAbs(net.Div(unit.Delta))
			price := row.GetPrice(style, side)
			if price == nil {
				continue
			}

			action := AdjustmentAction{
				Kind:     ActionAddLeg,
				LegIndex: -1,
				Strike:   row.StrikePrice,
				Style:    style,
				Side:     side,
				Quantity: quantity,
			}

			greeks := p.current.Add(unit.Scale(side.Sign().Mul(quantity.Decimal())))
			plans = append(plans, newPlan([]AdjustmentAction{action}, price.Mul(quantity), greeks))
		}
	}

	return plans, nil
}

func (p *deltaPlanner) underlyingPlan() AdjustmentPlan {
	hedge := p.current.Delta.Neg()
	greeks := p.current
	greeks.Delta = decimal.Zero

	action := AdjustmentAction{Kind: ActionAddUnderlying, LegIndex: -1, UnderlyingQuantity: hedge}
	cost := positive.FromAbs(p.base.UnderlyingPrice().Decimal().Mul(hedge))
	return newPlan([]AdjustmentAction{action}, cost, greeks)
}

// ApplyAdjustmentPlan applies the quantity changes of a plan. Actions that need
// a new leg or the underlying are not supported by fixed leg strategies.
func ApplyAdjustmentPlan(strategy Strategy, plan AdjustmentPlan) error {
	op := "ApplyAdjustmentPlan"
	for _, action := range plan.Actions {
		switch action.Kind {
		case ActionModifyQuantity:
			err := strategy.ApplyDeltaAdjustment(DeltaAdjustment{
				Kind:     ModifyQuantity,
				Strike:   action.Strike,
				Style:    action.Style,
				Side:     action.Side,
				Quantity: action.Quantity,
				LegIndex: action.LegIndex,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		case ActionRollStrike, ActionRollExpiration:
			kind := RollStrike
			if action.Kind == ActionRollExpiration {
				kind = RollExpiration
			}
			err := strategy.ApplyDeltaAdjustment(DeltaAdjustment{
				Kind:          kind,
				Strike:        action.Strike,
				Style:         action.Style,
				Side:          action.Side,
				NewStrike:     action.NewStrike,
				NewExpiration: action.NewExpiration,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		default:
			return models.NewNotSupportedError(models.ErrStrategy, op, fmt.Sprintf("%s on %s", action.Kind, strategy.GetKind()))
		}
	}

	return nil
}
