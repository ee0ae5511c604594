package surfaces

import (
	"fmt"

	"github.com/jiaming2012/optionstrat/src/models"
)

var (
	ErrInsufficientPoints = fmt.Errorf("insufficient points")
	ErrOutOfRange         = fmt.Errorf("point out of range")
	ErrDuplicatePoint     = fmt.Errorf("duplicate (x, y) with different z")
	ErrInvalidParameters  = fmt.Errorf("invalid parameters")
)

func surfaceErr(op string, kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w: %w", op, fmt.Sprintf(format, args...), models.ErrSurface, kind)
}
