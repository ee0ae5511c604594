package surfaces

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Point3D struct {
	X decimal.Decimal `json:"x"`
	Y decimal.Decimal `json:"y"`
	Z decimal.Decimal `json:"z"`
}

func NewPoint3D(x, y, z decimal.Decimal) Point3D {
	return Point3D{X: x, Y: y, Z: z}
}

func NewPoint3DFromFloat(x, y, z float64) Point3D {
	return Point3D{X: decimal.NewFromFloat(x), Y: decimal.NewFromFloat(y), Z: decimal.NewFromFloat(z)}
}

// Less orders by x, then y.
func (p Point3D) Less(o Point3D) bool {
	if c := p.X.Cmp(o.X); c != 0 {
		return c < 0
	}
	return p.Y.LessThan(o.Y)
}

func (p Point3D) Equal(o Point3D) bool {
	return p.X.Equal(o.X) && p.Y.Equal(o.Y) && p.Z.Equal(o.Z)
}

func (p Point3D) sameXY(o Point3D) bool {
	return p.X.Equal(o.X) && p.Y.Equal(o.Y)
}

// distanceSquared is measured in the (x, y) plane only.
func (p Point3D) distanceSquared(x, y decimal.Decimal) decimal.Decimal {
	dx := p.X.Sub(x)
	dy := p.Y.Sub(y)
	return dx.Mul(dx).Add(dy.Mul(dy))
}

func (p Point3D) String() string {
	return fmt.Sprintf("(%s, %s, %s)", p.X, p.Y, p.Z)
}
