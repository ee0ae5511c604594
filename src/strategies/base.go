package strategies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/optionstrat/src/models"
	"github.com/jiaming2012/optionstrat/src/positive"
	"github.com/jiaming2012/optionstrat/src/pricing"
)

// slot is one named leg of a strategy. rank is the index of the leg's strike
// among the strategy's distinct strikes and ratio its quantity multiple.
type slot struct {
	name     string
	side     models.Side
	style    models.OptionStyle
	rank     int
	ratio    int64
	position *models.Position
}

type layout struct {
	slots   []slot
	strikes int
	// symmetric requires equal distance between consecutive strikes.
	symmetric bool
	// calendar lets the first slot expire after the others.
	calendar bool
	// capProfit and capLoss stop open ended profit or loss ranges at the
	// outermost strike on that side.
	capProfit bool
	capLoss   bool
}

type strategyBase struct {
	Name            string              `json:"name"`
	Kind            Kind                `json:"kind"`
	Description     string              `json:"description"`
	BreakEvenPoints []positive.Positive `json:"break_even_points"`

	pricer pricing.Pricer
	self   Strategy
}

func newBase(kind Kind, self Strategy) strategyBase {
	return strategyBase{
		Name:        kind.Title(),
		Kind:        kind,
		Description: descriptions[kind],
		pricer:      pricing.NewBlackScholes(),
		self:        self,
	}
}

func (b *strategyBase) slots() []slot {
	return b.self.layout().slots
}

func (b *strategyBase) positions() []*models.Position {
	slots := b.slots()
	out := make([]*models.Position, len(slots))
	for i, s := range slots {
		out[i] = s.position
	}
	return out
}

// fill builds one position per slot from the leg parameters, in slot order.
func (b *strategyBase) fill(op string, params Params, legs []LegParams) error {
	slots := b.slots()
	if len(legs) != len(slots) {
		return invalidParams(op, "expected %d legs, got %d", len(slots), len(legs))
	}

	if err := params.Validate(); err != nil {
		return invalidParams(op, "%v", err)
	}

	for i, s := range slots {
		*s.position = params.position(s, legs[i])
	}

	b.Name = fmt.Sprintf("%s %s", params.Symbol, b.Kind.Title())
	b.UpdateBreakEvenPoints()

	if err := b.Validate(); err != nil {
		log.Debugf("%s: created invalid %s: %v", op, b.Kind, err)
	}

	return nil
}

func (b *strategyBase) GetKind() Kind {
	return b.Kind
}

func (b *strategyBase) GetName() string {
	return b.Name
}

func (b *strategyBase) SetPricer(pricer pricing.Pricer) {
	b.pricer = pricer
}

func (b *strategyBase) Title() string {
	lines := []string{fmt.Sprintf("%s Strategy:", b.Kind.Title())}
	for _, s := range b.slots() {
		lines = append(lines, fmt.Sprintf("  %s: %s", s.name, s.position.Title()))
	}
	return strings.Join(lines, "\n")
}

func (b *strategyBase) Symbol() string {
	slots := b.slots()
	if len(slots) == 0 {
		return ""
	}
	return slots[0].position.Option.UnderlyingSymbol
}

func (b *strategyBase) UnderlyingPrice() positive.Positive {
	slots := b.slots()
	if len(slots) == 0 {
		return positive.Zero
	}
	return slots[0].position.Option.UnderlyingPrice
}

// Expiration is the nearest expiration among the legs.
func (b *strategyBase) Expiration() models.ExpirationDate {
	var nearest models.ExpirationDate
	for i, p := range b.positions() {
		if i == 0 || p.Option.ExpirationDate.GetDays().LessThan(nearest.GetDays()) {
			nearest = p.Option.ExpirationDate
		}
	}
	return nearest
}

func (b *strategyBase) RiskFreeRate() decimal.Decimal {
	slots := b.slots()
	if len(slots) == 0 {
		return decimal.Zero
	}
	return slots[0].position.Option.RiskFreeRate
}

// Strikes returns the distinct strikes in ascending order.
func (b *strategyBase) Strikes() []positive.Positive {
	return distinctStrikes(b.positions())
}

func distinctStrikes(positions []*models.Position) []positive.Positive {
	var out []positive.Positive
	for _, p := range positions {
		out = append(out, p.Option.StrikePrice)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].LessThan(out[j]) })

	unique := out[:0]
	for i, s := range out {
		if i == 0 || !s.Equal(unique[len(unique)-1]) {
			unique = append(unique, s)
		}
	}
	return unique
}

func strikeRank(strikes []positive.Positive, strike positive.Positive) int {
	for i, s := range strikes {
		if s.Equal(strike) {
			return i
		}
	}
	return -1
}

func (b *strategyBase) ImpliedVolatilities() map[string]positive.Positive {
	out := make(map[string]positive.Positive)
	for _, s := range b.slots() {
		out[s.name] = s.position.Option.ImpliedVolatility
	}
	return out
}

func (b *strategyBase) Quantities() map[string]positive.Positive {
	out := make(map[string]positive.Positive)
	for _, s := range b.slots() {
		out[s.name] = s.position.Option.Quantity
	}
	return out
}

func (b *strategyBase) Validate() error {
	op := fmt.Sprintf("%s.Validate", b.Kind.Title())
	lay := b.self.layout()
	if len(lay.slots) == 0 {
		return invalidParams(op, "strategy has no legs")
	}

	first := lay.slots[0].position.Option
	for _, s := range lay.slots {
		opt := s.position.Option
		if opt.Side != s.side || opt.Style != s.style {
			return invalidParams(op, "%s must be %s %s, got %s %s", s.name, s.side, s.style, opt.Side, opt.Style)
		}

		if err := s.position.Validate(); err != nil {
			return invalidParams(op, "%s: %v", s.name, err)
		}

		if opt.UnderlyingSymbol != first.UnderlyingSymbol {
			return invalidParams(op, "%s underlying %s does not match %s", s.name, opt.UnderlyingSymbol, first.UnderlyingSymbol)
		}
	}

	strikes := b.Strikes()
	if len(strikes) != lay.strikes {
		return invalidParams(op, "expected %d distinct strikes, got %d", lay.strikes, len(strikes))
	}

	for _, s := range lay.slots {
		if rank := strikeRank(strikes, s.position.Option.StrikePrice); rank != s.rank {
			return invalidParams(op, "%s strike %s is out of order", s.name, s.position.Option.StrikePrice)
		}
	}

	if lay.symmetric && len(strikes) == 3 {
		lower := strikes[1].SubDecimal(strikes[0])
		upper := strikes[2].SubDecimal(strikes[1])
		if !lower.Equal(upper) {
			return invalidParams(op, "wings are not symmetric: %s vs %s", lower, upper)
		}
	}

	reference := lay.slots[len(lay.slots)-1].position.Option.ExpirationDate
	for i, s := range lay.slots {
		exp := s.position.Option.ExpirationDate
		if lay.calendar && i == 0 {
			if exp.GetDays().LessThan(reference.GetDays()) {
				return invalidParams(op, "%s must not expire before the other legs", s.name)
			}
			continue
		}

		if !exp.Equal(reference) {
			return invalidParams(op, "%s expiration %s does not match %s", s.name, exp, reference)
		}
	}

	return nil
}

func (b *strategyBase) IsValid() bool {
	return b.Validate() == nil
}

func (b *strategyBase) GetPositions() []models.Position {
	out := make([]models.Position, 0, len(b.slots()))
	for _, p := range b.positions() {
		out = append(out, *p.Clone())
	}
	return out
}

// AddPosition routes by style and side, preferring the slot with the same
// strike and then an empty slot.
func (b *strategyBase) AddPosition(position models.Position) error {
	var candidates []slot
	for _, s := range b.slots() {
		if s.side == position.Option.Side && s.style == position.Option.Style {
			candidates = append(candidates, s)
		}
	}

	if len(candidates) == 0 {
		return models.NewInvalidPositionTypeError(position.Option.Side, fmt.Sprintf("%s %s is not a leg of %s", position.Option.Side, position.Option.Style, b.Kind.Title()))
	}

	target := -1
	for i, s := range candidates {
		if s.position.Option.StrikePrice.Equal(position.Option.StrikePrice) {
			target = i
			break
		}
	}

	if target < 0 {
		for i, s := range candidates {
			if s.position.Option.StrikePrice.IsZero() {
				target = i
				break
			}
		}
	}

	if target < 0 {
		if len(candidates) > 1 {
			return models.NewInvalidPositionTypeError(position.Option.Side, fmt.Sprintf("ambiguous %s %s leg at strike %s", position.Option.Side, position.Option.Style, position.Option.StrikePrice))
		}
		target = 0
	}

	*candidates[target].position = position
	b.UpdateBreakEvenPoints()
	return nil
}

func (b *strategyBase) GetPosition(style models.OptionStyle, side models.Side, strike positive.Positive) ([]*models.Position, error) {
	var out []*models.Position
	for _, s := range b.slots() {
		opt := s.position.Option
		if opt.Style == style && opt.Side == side && opt.StrikePrice.Equal(strike) {
			out = append(out, s.position)
		}
	}

	if len(out) == 0 {
		return nil, models.NewPositionNotFoundError(side, fmt.Sprintf("no %s %s at strike %s", side, style, strike))
	}

	return out, nil
}

func (b *strategyBase) ModifyPosition(position models.Position) error {
	if err := position.Validate(); err != nil {
		return err
	}

	matches, err := b.GetPosition(position.Option.Style, position.Option.Side, position.Option.StrikePrice)
	if err != nil {
		return err
	}

	*matches[0] = position
	b.UpdateBreakEvenPoints()
	return nil
}

// AdjustOptionPosition adds quantity (which may be negative) to an existing leg.
func (b *strategyBase) AdjustOptionPosition(quantity decimal.Decimal, strike positive.Positive, style models.OptionStyle, side models.Side) error {
	matches, err := b.GetPosition(style, side, strike)
	if err != nil {
		return err
	}

	leg := matches[0]
	updated := leg.Option.Quantity.Decimal().Add(quantity)
	if !updated.IsPositive() {
		return models.NewInvalidPositionError(fmt.Sprintf("quantity of %s would become %s", leg.Option.Title(), updated))
	}

	leg.Option.Quantity = positive.MustNew(updated)
	b.UpdateBreakEvenPoints()
	return nil
}

// SetUnderlyingPrice moves every leg to the new price and reprices its premium.
func (b *strategyBase) SetUnderlyingPrice(price positive.Positive) error {
	return b.reprice(func(o *models.Option) { o.UnderlyingPrice = price })
}

// SetImpliedVolatility moves every leg to the new volatility and reprices its premium.
func (b *strategyBase) SetImpliedVolatility(iv positive.Positive) error {
	return b.reprice(func(o *models.Option) { o.ImpliedVolatility = iv })
}

func (b *strategyBase) reprice(update func(o *models.Option)) error {
	for _, p := range b.positions() {
		update(&p.Option)
		if err := b.repriceLeg(p); err != nil {
			return err
		}
	}

	b.UpdateBreakEvenPoints()
	return nil
}

func (b *strategyBase) CalculatePnL(marketPrice positive.Positive, expiration models.ExpirationDate, iv positive.Positive) (models.PnL, error) {
	var total models.PnL
	for _, p := range b.positions() {
		pnl, err := p.CalculatePnL(b.pricer, marketPrice, expiration, iv)
		if err != nil {
			return models.PnL{}, fmt.Errorf("%s.CalculatePnL: %w", b.Kind.Title(), err)
		}
		total = total.Add(pnl)
	}
	return total, nil
}

func (b *strategyBase) CalculatePnLAtExpiration(underlying positive.Positive) models.PnL {
	var total models.PnL
	for _, p := range b.positions() {
		total = total.Add(p.CalculatePnLAtExpiration(underlying))
	}
	return total
}

func (b *strategyBase) Greeks() (pricing.Greeks, error) {
	var total pricing.Greeks
	for _, p := range b.positions() {
		g, err := pricing.PositionGreeks(b.pricer, p.Option)
		if err != nil {
			return pricing.Greeks{}, fmt.Errorf("%s.Greeks: %v: %w", b.Kind.Title(), err, models.ErrGreeks)
		}
		total = total.Add(g)
	}
	return total, nil
}
