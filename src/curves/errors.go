package curves

import (
	"fmt"

	"github.com/jiaming2012/optionstrat/src/models"
)

var (
	ErrInsufficientPoints = fmt.Errorf("insufficient points")
	ErrOutOfRange         = fmt.Errorf("point out of range")
	ErrDuplicateX         = fmt.Errorf("duplicate x value")
	ErrInvalidStep        = fmt.Errorf("invalid step")
	ErrEmptyCurves        = fmt.Errorf("no curves provided")
	ErrNoOverlap          = fmt.Errorf("curves do not overlap")
)

func curveErr(op string, kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w: %w", op, fmt.Sprintf(format, args...), models.ErrCurve, kind)
}
