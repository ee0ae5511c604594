package curves

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Point2D struct {
	X decimal.Decimal `json:"x"`
	Y decimal.Decimal `json:"y"`
}

func NewPoint2D(x, y decimal.Decimal) Point2D {
	return Point2D{X: x, Y: y}
}

func NewPoint2DFromFloat(x, y float64) Point2D {
	return Point2D{X: decimal.NewFromFloat(x), Y: decimal.NewFromFloat(y)}
}

// Less orders by x, then y.
func (p Point2D) Less(o Point2D) bool {
	if c := p.X.Cmp(o.X); c != 0 {
		return c < 0
	}
	return p.Y.LessThan(o.Y)
}

func (p Point2D) Equal(o Point2D) bool {
	return p.X.Equal(o.X) && p.Y.Equal(o.Y)
}

// RoundTo rounds both coordinates.
func (p Point2D) RoundTo(places int32) Point2D {
	return Point2D{X: p.X.Round(places), Y: p.Y.Round(places)}
}

func (p Point2D) String() string {
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}
