package strategies

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/optionstrat/src/chains"
	"github.com/jiaming2012/optionstrat/src/models"
)

// CustomStrategy holds any set of option positions on one underlying. Its
// slots follow the positions, so every leg is named leg_<index>.
type CustomStrategy struct {
	strategyBase
	Positions []models.Position `json:"positions"`
}

// NewCustomStrategy copies positions. An empty name becomes "<symbol> Custom".
func NewCustomStrategy(name string, positions []models.Position) (*CustomStrategy, error) {
	op := "NewCustomStrategy"
	if len(positions) == 0 {
		return nil, invalidParams(op, "at least one position is required")
	}

	s := &CustomStrategy{Positions: append([]models.Position(nil), positions...)}
	s.strategyBase = newBase(KindCustom, s)

	s.Name = name
	if s.Name == "" {
		s.Name = fmt.Sprintf("%s %s", s.Symbol(), KindCustom.Title())
	}

	s.UpdateBreakEvenPoints()
	if err := s.Validate(); err != nil {
		log.Debugf("%s: created invalid %s: %v", op, KindCustom, err)
	}

	return s, nil
}

func (s *CustomStrategy) layout() layout {
	ptrs := make([]*models.Position, len(s.Positions))
	for i := range s.Positions {
		ptrs[i] = &s.Positions[i]
	}
	strikes := distinctStrikes(ptrs)

	slots := make([]slot, len(s.Positions))
	for i, p := range ptrs {
		slots[i] = slot{
			name:     fmt.Sprintf("leg_%d", i),
			side:     p.Option.Side,
			style:    p.Option.Style,
			rank:     strikeRank(strikes, p.Option.StrikePrice),
			ratio:    1,
			position: p,
		}
	}

	return layout{strikes: len(strikes), slots: slots}
}

// AddPosition appends the position as a new leg.
func (s *CustomStrategy) AddPosition(position models.Position) error {
	if err := position.Validate(); err != nil {
		return err
	}

	s.Positions = append(s.Positions, position)
	s.UpdateBreakEvenPoints()
	return nil
}

// FindOptimal is not supported: a custom strategy has no leg structure to
// search a chain for.
func (s *CustomStrategy) FindOptimal(_ *chains.OptionChain, _ chains.FindOptimalSide, _ OptimizationCriterion) error {
	return models.NewNotSupportedError(models.ErrStrategy, "Custom.FindOptimal", "custom strategies have no fixed legs to optimize")
}
