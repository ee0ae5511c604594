package volatility

import (
	"fmt"

	"github.com/jiaming2012/optionstrat/src/models"
)

var (
	ErrEmptyReturns  = fmt.Errorf("no returns")
	ErrInvalidWindow = fmt.Errorf("invalid window")
	ErrInvalidLambda = fmt.Errorf("invalid decay factor")
	ErrInvalidPrice  = fmt.Errorf("invalid price")
	ErrVegaTooSmall  = fmt.Errorf("vega too small")
	ErrNoConvergence = fmt.Errorf("did not converge")
)

func volErr(op string, kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w: %w", op, fmt.Sprintf(format, args...), models.ErrVolatility, kind)
}
