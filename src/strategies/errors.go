package strategies

import (
	"fmt"

	"github.com/jiaming2012/optionstrat/src/models"
)

var (
	ErrMaxProfitUnlimited  = fmt.Errorf("max profit is unlimited")
	ErrMaxLossUnlimited    = fmt.Errorf("max loss is unlimited")
	ErrInvalidStrategy     = fmt.Errorf("invalid strategy")
	ErrNoPositions         = fmt.Errorf("no positions to adjust")
	ErrNoViablePlan        = fmt.Errorf("no viable adjustment plan")
	ErrCostExceeded        = fmt.Errorf("adjustment cost exceeds maximum")
	ErrNoValidCombination  = fmt.Errorf("no valid combination found")
	ErrUnknownStrategyKind = fmt.Errorf("unknown strategy kind")
)

func strategyErr(op string, kind error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %s: %w: %w", op, msg, models.ErrStrategy, kind)
}

func invalidParams(op string, format string, args ...interface{}) error {
	return models.NewInvalidParametersError(models.ErrStrategy, op, fmt.Sprintf(format, args...))
}
