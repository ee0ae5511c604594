package curves

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type InterpolationType string

func (t InterpolationType) Validate() error {
	switch t {
	case LinearInterpolation, BilinearInterpolation, CubicInterpolation, SplineInterpolation:
		return nil
	}

	return fmt.Errorf("InterpolationType: Validate: invalid interpolation type: %s", t)
}

const (
	LinearInterpolation   InterpolationType = "linear"
	BilinearInterpolation InterpolationType = "bilinear"
	CubicInterpolation    InterpolationType = "cubic"
	SplineInterpolation   InterpolationType = "spline"
)

var (
	two  = decimal.NewFromInt(2)
	six  = decimal.NewFromInt(6)
	half = decimal.NewFromFloat(0.5)
)

func (c *Curve) Interpolate(x decimal.Decimal, mode InterpolationType) (Point2D, error) {
	switch mode {
	case LinearInterpolation:
		return c.LinearInterpolate(x)
	case BilinearInterpolation:
		return c.BilinearInterpolate(x)
	case CubicInterpolation:
		return c.CubicInterpolate(x)
	case SplineInterpolation:
		return c.SplineInterpolate(x)
	default:
		return Point2D{}, curveErr("Curve.Interpolate", ErrInvalidStep, "unknown interpolation type %q", mode)
	}
}

// FindBracketPoints returns the indices of the stored points enclosing x.
func (c *Curve) FindBracketPoints(x decimal.Decimal) (int, int, error) {
	if len(c.points) < 2 {
		return 0, 0, curveErr("Curve.FindBracketPoints", ErrInsufficientPoints, "need at least 2 points, have %d", len(c.points))
	}

	if x.LessThan(c.xRange[0]) || x.GreaterThan(c.xRange[1]) {
		return 0, 0, curveErr("Curve.FindBracketPoints", ErrOutOfRange, "x=%s outside [%s, %s]", x, c.xRange[0], c.xRange[1])
	}

	for i := 0; i < len(c.points)-1; i++ {
		if c.points[i].X.LessThanOrEqual(x) && x.LessThanOrEqual(c.points[i+1].X) {
			return i, i + 1, nil
		}
	}

	return 0, 0, curveErr("Curve.FindBracketPoints", ErrOutOfRange, "x=%s not bracketed", x)
}

func (c *Curve) exactMatch(x decimal.Decimal) (Point2D, bool) {
	for _, p := range c.points {
		if p.X.Equal(x) {
			return p, true
		}
	}
	return Point2D{}, false
}

func (c *Curve) LinearInterpolate(x decimal.Decimal) (Point2D, error) {
	i, j, err := c.FindBracketPoints(x)
	if err != nil {
		return Point2D{}, err
	}

	p1, p2 := c.points[i], c.points[j]
	if p2.X.Equal(p1.X) {
		return p1, nil
	}

	y := p1.Y.Add(x.Sub(p1.X).Mul(p2.Y.Sub(p1.Y)).Div(p2.X.Sub(p1.X)))
	return NewPoint2D(x, y), nil
}

// BilinearInterpolate treats four consecutive stored points as one cell:
// the bracket pair and the two points after it.
func (c *Curve) BilinearInterpolate(x decimal.Decimal) (Point2D, error) {
	if len(c.points) < 4 {
		return Point2D{}, curveErr("Curve.BilinearInterpolate", ErrInsufficientPoints, "need at least 4 points, have %d", len(c.points))
	}

	if p, ok := c.exactMatch(x); ok {
		return p, nil
	}

	i, _, err := c.FindBracketPoints(x)
	if err != nil {
		return Point2D{}, err
	}

	// cells near the right edge reuse the last four points
	if i > len(c.points)-4 {
		i = len(c.points) - 4
	}

	p11, p12, p21, p22 := c.points[i], c.points[i+1], c.points[i+2], c.points[i+3]

	dx := x.Sub(p11.X).Div(p12.X.Sub(p11.X))
	bottom := p11.Y.Add(dx.Mul(p12.Y.Sub(p11.Y)))
	top := p21.Y.Add(dx.Mul(p22.Y.Sub(p21.Y)))
	y := bottom.Add(top.Sub(bottom).Div(two))

	return NewPoint2D(x, y), nil
}

// CubicInterpolate uses a Catmull-Rom segment through the bracket and its neighbors.
func (c *Curve) CubicInterpolate(x decimal.Decimal) (Point2D, error) {
	n := len(c.points)
	if n < 4 {
		return Point2D{}, curveErr("Curve.CubicInterpolate", ErrInsufficientPoints, "need at least 4 points, have %d", n)
	}

	if p, ok := c.exactMatch(x); ok {
		return p, nil
	}

	i, _, err := c.FindBracketPoints(x)
	if err != nil {
		return Point2D{}, err
	}

	var p0, p1, p2, p3 Point2D
	switch {
	case i == 0:
		p0, p1, p2, p3 = c.points[0], c.points[1], c.points[2], c.points[3]
	case i >= n-2:
		p0, p1, p2, p3 = c.points[n-4], c.points[n-3], c.points[n-2], c.points[n-1]
	default:
		p0, p1, p2, p3 = c.points[i-1], c.points[i], c.points[i+1], c.points[i+2]
	}

	t := x.Sub(p1.X).Div(p2.X.Sub(p1.X))
	t2 := t.Mul(t)
	t3 := t2.Mul(t)

	a := two.Mul(p1.Y)
	b := p2.Y.Sub(p0.Y).Mul(t)
	cc := two.Mul(p0.Y).Sub(decimal.NewFromInt(5).Mul(p1.Y)).Add(decimal.NewFromInt(4).Mul(p2.Y)).Sub(p3.Y).Mul(t2)
	d := p0.Y.Neg().Add(decimal.NewFromInt(3).Mul(p1.Y)).Sub(decimal.NewFromInt(3).Mul(p2.Y)).Add(p3.Y).Mul(t3)

	y := half.Mul(a.Add(b).Add(cc).Add(d))
	return NewPoint2D(x, y), nil
}

// SplineInterpolate evaluates a natural cubic spline. Second derivatives are
// solved with the Thomas algorithm, with m[0] = m[n-1] = 0.
func (c *Curve) SplineInterpolate(x decimal.Decimal) (Point2D, error) {
	n := len(c.points)
	if n < 3 {
		return Point2D{}, curveErr("Curve.SplineInterpolate", ErrInsufficientPoints, "need at least 3 points, have %d", n)
	}

	if x.LessThan(c.xRange[0]) || x.GreaterThan(c.xRange[1]) {
		return Point2D{}, curveErr("Curve.SplineInterpolate", ErrOutOfRange, "x=%s outside [%s, %s]", x, c.xRange[0], c.xRange[1])
	}

	if p, ok := c.exactMatch(x); ok {
		return p, nil
	}

	m := c.splineSecondDerivatives()

	seg := 0
	for i := 0; i < n-1; i++ {
		if c.points[i].X.LessThanOrEqual(x) && x.LessThanOrEqual(c.points[i+1].X) {
			seg = i
			break
		}
	}

	p0, p1 := c.points[seg], c.points[seg+1]
	h := p1.X.Sub(p0.X)
	dx := p1.X.Sub(x)
	dx1 := x.Sub(p0.X)
	sixH := six.Mul(h)

	y := m[seg].Mul(dx.Pow(decimal.NewFromInt(3))).Div(sixH).
		Add(m[seg+1].Mul(dx1.Pow(decimal.NewFromInt(3))).Div(sixH)).
		Add(p0.Y.Div(h).Sub(m[seg].Mul(h).Div(six)).Mul(dx)).
		Add(p1.Y.Div(h).Sub(m[seg+1].Mul(h).Div(six)).Mul(dx1))

	return NewPoint2D(x, y), nil
}

func (c *Curve) splineSecondDerivatives() []decimal.Decimal {
	n := len(c.points)
	a := make([]decimal.Decimal, n)
	b := make([]decimal.Decimal, n)
	cc := make([]decimal.Decimal, n)
	r := make([]decimal.Decimal, n)

	b[0] = decimal.NewFromInt(1)
	b[n-1] = decimal.NewFromInt(1)

	for i := 1; i < n-1; i++ {
		hi := c.points[i].X.Sub(c.points[i-1].X)
		hi1 := c.points[i+1].X.Sub(c.points[i].X)
		a[i] = hi
		b[i] = two.Mul(hi.Add(hi1))
		cc[i] = hi1
		r[i] = six.Mul(
			c.points[i+1].Y.Sub(c.points[i].Y).Div(hi1).
				Sub(c.points[i].Y.Sub(c.points[i-1].Y).Div(hi)),
		)
	}

	for i := 1; i < n-1; i++ {
		w := a[i].Div(b[i-1])
		b[i] = b[i].Sub(w.Mul(cc[i-1]))
		r[i] = r[i].Sub(w.Mul(r[i-1]))
	}

	m := make([]decimal.Decimal, n)
	m[n-1] = r[n-1].Div(b[n-1])
	for i := n - 2; i > 0; i-- {
		m[i] = r[i].Sub(cc[i].Mul(m[i+1])).Div(b[i])
	}

	return m
}
