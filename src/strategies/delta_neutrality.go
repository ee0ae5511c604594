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

var (
	DefaultDeltaTolerance = decimal.NewFromFloat(0.01)

	// legs with a smaller per unit delta cannot offset anything useful
	minLegDelta = decimal.NewFromFloat(0.001)
)

type DeltaInfo struct {
	NetDelta         decimal.Decimal            `json:"net_delta"`
	IndividualDeltas map[string]decimal.Decimal `json:"individual_deltas"`
	IsNeutral        bool                       `json:"is_neutral"`
	Threshold        decimal.Decimal            `json:"threshold"`
	UnderlyingPrice  positive.Positive          `json:"underlying_price"`
}

func (d DeltaInfo) String() string {
	names := make([]string, 0, len(d.IndividualDeltas))
	for name := range d.IndividualDeltas {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := []string{fmt.Sprintf("net delta %s (neutral=%v, threshold %s) at %s", d.NetDelta.StringFixed(6), d.IsNeutral, d.Threshold, d.UnderlyingPrice)}
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %s: %s", name, d.IndividualDeltas[name].StringFixed(6)))
	}
	return strings.Join(lines, "\n")
}

type DeltaAdjustmentKind string

const (
	NoAdjustmentNeeded DeltaAdjustmentKind = "no_adjustment_needed"
	BuyOptions         DeltaAdjustmentKind = "buy_options"
	SellOptions        DeltaAdjustmentKind = "sell_options"
	AddUnderlying      DeltaAdjustmentKind = "add_underlying"
	ModifyQuantity     DeltaAdjustmentKind = "modify_quantity"
	CloseLeg           DeltaAdjustmentKind = "close_leg"
	RollStrike         DeltaAdjustmentKind = "roll_strike"
	RollExpiration     DeltaAdjustmentKind = "roll_expiration"
)

// DeltaAdjustment is one suggested trade. Only the fields relevant to Kind are set.
type DeltaAdjustment struct {
	Kind               DeltaAdjustmentKind    `json:"kind"`
	Strike             positive.Positive      `json:"strike"`
	Style              models.OptionStyle     `json:"style,omitempty"`
	Side               models.Side            `json:"side,omitempty"`
	Quantity           positive.Positive      `json:"quantity"`
	UnderlyingQuantity decimal.Decimal        `json:"underlying_quantity"`
	LegIndex           int                    `json:"leg_index"`
	NewStrike          *positive.Positive     `json:"new_strike,omitempty"`
	NewExpiration      *models.ExpirationDate `json:"new_expiration,omitempty"`
}

func (a DeltaAdjustment) String() string {
	switch a.Kind {
	case NoAdjustmentNeeded:
		return "no adjustment needed"
	case BuyOptions, SellOptions:
		return fmt.Sprintf("%s %s %s %s @ %s", a.Kind, a.Quantity.RoundTo(6), a.Side, a.Style, a.Strike)
	case AddUnderlying:
		return fmt.Sprintf("%s %s", a.Kind, a.UnderlyingQuantity.StringFixed(6))
	case RollStrike:
		return fmt.Sprintf("%s %s %s %s -> %s", a.Kind, a.Side, a.Style, a.Strike, a.NewStrike)
	case RollExpiration:
		return fmt.Sprintf("%s %s %s %s -> %s", a.Kind, a.Side, a.Style, a.Strike, a.NewExpiration)
	default:
		return fmt.Sprintf("%s %s %s %s x %s", a.Kind, a.Side, a.Style, a.Strike, a.Quantity)
	}
}

// unitDelta is the delta of one long contract.
func (b *strategyBase) unitDelta(option models.Option) (decimal.Decimal, error) {
	delta, err := b.pricer.Greek(pricing.Delta, option)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: delta of %s: %v: %w", b.Kind.Title(), option.Title(), err, models.ErrGreeks)
	}
	return delta, nil
}

func (b *strategyBase) CalculateNetDelta() (DeltaInfo, error) {
	info := DeltaInfo{
		IndividualDeltas: make(map[string]decimal.Decimal),
		Threshold:        DefaultDeltaTolerance,
		UnderlyingPrice:  b.UnderlyingPrice(),
	}

	for _, s := range b.slots() {
		opt := s.position.Option
		unit, err := b.unitDelta(opt)
		if err != nil {
			return DeltaInfo{}, err
		}

		delta := unit.Mul(opt.Side.Sign()).Mul(opt.Quantity.Decimal())
		info.IndividualDeltas[s.name] = delta
		info.NetDelta = info.NetDelta.Add(delta)
	}

	info.IsNeutral = info.NetDelta.Abs().LessThanOrEqual(info.Threshold)
	return info, nil
}

func (b *strategyBase) IsDeltaNeutral(tolerance decimal.Decimal) (bool, error) {
	info, err := b.CalculateNetDelta()
	if err != nil {
		return false, err
	}
	return info.NetDelta.Abs().LessThanOrEqual(tolerance), nil
}

func (b *strategyBase) DeltaAdjustments() ([]DeltaAdjustment, error) {
	return b.SuggestDeltaAdjustments(DefaultDeltaTolerance)
}

// SuggestDeltaAdjustments offers, per leg, the contracts that would offset the
// net delta on their own. Trades that extend an existing leg come first and a
// hedge in the underlying comes last.
func (b *strategyBase) SuggestDeltaAdjustments(tolerance decimal.Decimal) ([]DeltaAdjustment, error) {
	info, err := b.CalculateNetDelta()
	if err != nil {
		return nil, err
	}

	net := info.NetDelta
	if net.Abs().LessThanOrEqual(tolerance) {
		return []DeltaAdjustment{{Kind: NoAdjustmentNeeded}}, nil
	}

	type candidate struct {
		adjustment DeltaAdjustment
		extends    bool
	}

	var candidates []candidate
	for i, s := range b.slots() {
		opt := s.position.Option
		unit, err := b.unitDelta(opt)
		if err != nil {
			return nil, err
		}

		if unit.Abs().LessThan(minLegDelta) {
			continue
		}

		side := models.Short
		if unit.Sign() == -net.Sign() {
			side = models.Long
		}

		kind := SellOptions
		if side == models.Long {
			kind = BuyOptions
		}

		candidates = append(candidates, candidate{
			adjustment: DeltaAdjustment{
				Kind:     kind,
				Strike:   opt.StrikePrice,
				Style:    opt.Style,
				Side:     side,
				Quantity: positive.FromAbs(net.Div(unit)),
				LegIndex: i,
			},
			extends: side == s.side,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].extends && !candidates[j].extends
	})

	out := make([]DeltaAdjustment, 0, len(candidates)+1)
	for _, c := range candidates {
		out = append(out, c.adjustment)
	}
	out = append(out, DeltaAdjustment{Kind: AddUnderlying, UnderlyingQuantity: net.Neg()})

	log.Debugf("%s: net delta %s, %d adjustments suggested", b.Kind.Title(), net.StringFixed(6), len(out))
	return out, nil
}

// ApplyDeltaAdjustment mutates the matching leg. Buying into a short leg or
// selling into a long leg reduces its quantity. Invalid strategies are refused.
func (b *strategyBase) ApplyDeltaAdjustment(adjustment DeltaAdjustment) error {
	op := fmt.Sprintf("%s.ApplyDeltaAdjustment", b.Kind.Title())
	if err := b.Validate(); err != nil {
		return strategyErr(op, ErrInvalidStrategy, "%v", err)
	}

	switch adjustment.Kind {
	case NoAdjustmentNeeded:
		return nil
	case AddUnderlying, CloseLeg:
		return models.NewNotSupportedError(models.ErrStrategy, op, fmt.Sprintf("%s cannot be applied to a fixed leg strategy", adjustment.Kind))
	}

	leg, s, err := b.findLeg(adjustment)
	if err != nil {
		return err
	}

	switch adjustment.Kind {
	case BuyOptions, SellOptions:
		quantity := adjustment.Quantity.Decimal()
		if s.side != adjustment.Side {
			quantity = quantity.Neg()
		}
		return b.AdjustOptionPosition(quantity, leg.Option.StrikePrice, leg.Option.Style, leg.Option.Side)
	case ModifyQuantity:
		if adjustment.Quantity.IsZero() {
			return invalidParams(op, "quantity must be greater than zero")
		}
		leg.Option.Quantity = adjustment.Quantity
	case RollStrike:
		if adjustment.NewStrike == nil {
			return invalidParams(op, "roll strike needs a new strike")
		}
		leg.Option.StrikePrice = *adjustment.NewStrike
		if err := b.repriceLeg(leg); err != nil {
			return err
		}
	case RollExpiration:
		if adjustment.NewExpiration == nil {
			return invalidParams(op, "roll expiration needs a new expiration")
		}
		leg.Option.ExpirationDate = *adjustment.NewExpiration
		if err := b.repriceLeg(leg); err != nil {
			return err
		}
	default:
		return invalidParams(op, "unknown adjustment kind %s", adjustment.Kind)
	}

	b.UpdateBreakEvenPoints()
	return nil
}

// findLeg matches by strike and style. Buy and sell adjustments may target a
// leg of either side, other kinds must match the side too.
func (b *strategyBase) findLeg(adjustment DeltaAdjustment) (*models.Position, slot, error) {
	anySide := adjustment.Kind == BuyOptions || adjustment.Kind == SellOptions

	for _, s := range b.slots() {
		opt := s.position.Option
		if !opt.StrikePrice.Equal(adjustment.Strike) || opt.Style != adjustment.Style {
			continue
		}
		if !anySide && opt.Side != adjustment.Side {
			continue
		}
		return s.position, s, nil
	}

	return nil, slot{}, models.NewPositionNotFoundError(adjustment.Side, fmt.Sprintf("no %s leg at strike %s", adjustment.Style, adjustment.Strike))
}

func (b *strategyBase) repriceLeg(leg *models.Position) error {
	price, err := b.pricer.Price(leg.Option)
	if err != nil {
		return fmt.Errorf("%s: reprice %s: %w", b.Kind.Title(), leg.Option.Title(), err)
	}
	leg.Premium = positive.FromAbs(price)
	return nil
}
