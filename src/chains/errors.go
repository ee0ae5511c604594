package chains

import (
	"fmt"

	"github.com/jiaming2012/optionstrat/src/models"
)

var (
	ErrEmptyChain              = fmt.Errorf("option chain is empty")
	ErrDerivativeToleranceZero = fmt.Errorf("derivative tolerance must be greater than zero")
	ErrFailedDensities         = fmt.Errorf("failed to calculate valid densities")
	ErrMissingATM              = fmt.Errorf("no ATM implied volatility available")
	ErrStrikeNotFound          = fmt.Errorf("strike not found")
	ErrMissingGreeks           = fmt.Errorf("greeks not initialized")
	ErrInvalidOptionData       = fmt.Errorf("invalid option data")
)

func chainErr(op string, kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w: %w", op, fmt.Sprintf(format, args...), models.ErrChain, kind)
}
