package curves

import (
	"encoding/json"
	"fmt"
	"runtime"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Curve is an immutable set of points with unique x values, sorted by x.
type Curve struct {
	points []Point2D
	xRange [2]decimal.Decimal
}

// NewCurve sorts the points and computes the x range in one pass.
func NewCurve(points []Point2D) (*Curve, error) {
	sorted := make([]Point2D, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].X.Equal(sorted[i-1].X) {
			if sorted[i].Y.Equal(sorted[i-1].Y) {
				continue
			}
			return nil, curveErr("NewCurve", ErrDuplicateX, "x=%s", sorted[i].X)
		}
	}

	unique := make([]Point2D, 0, len(sorted))
	for i, p := range sorted {
		if i > 0 && p.Equal(sorted[i-1]) {
			continue
		}
		unique = append(unique, p)
	}

	c := &Curve{points: unique}
	if len(unique) > 0 {
		c.xRange = [2]decimal.Decimal{unique[0].X, unique[len(unique)-1].X}
	}

	return c, nil
}

// MustNewCurve panics when the points are invalid.
func MustNewCurve(points []Point2D) *Curve {
	c, err := NewCurve(points)
	if err != nil {
		panic(err)
	}
	return c
}

// Parametric samples steps+1 points of f over [tStart, tEnd] in parallel.
func Parametric(f func(t decimal.Decimal) (Point2D, error), tStart, tEnd decimal.Decimal, steps int) (*Curve, error) {
	if steps <= 0 {
		return nil, curveErr("Parametric", ErrInvalidStep, "steps must be positive, got %d", steps)
	}

	step := tEnd.Sub(tStart).Div(decimal.NewFromInt(int64(steps)))
	points := make([]Point2D, steps+1)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := 0; i <= steps; i++ {
		i := i
		g.Go(func() error {
			t := tStart.Add(step.Mul(decimal.NewFromInt(int64(i))))
			p, err := f(t)
			if err != nil {
				return fmt.Errorf("Parametric: t=%s: %w", t, err)
			}
			points[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewCurve(points)
}

// Constant builds an 11-point flat curve over [start, end].
func Constant(start, end, y decimal.Decimal) *Curve {
	return sampled(start, end, func(decimal.Decimal) decimal.Decimal { return y })
}

// Linear builds an 11-point curve y = slope * x over [start, end].
func Linear(start, end, slope decimal.Decimal) *Curve {
	return sampled(start, end, func(x decimal.Decimal) decimal.Decimal { return slope.Mul(x) })
}

func sampled(start, end decimal.Decimal, f func(decimal.Decimal) decimal.Decimal) *Curve {
	const steps = 10
	step := end.Sub(start).Div(decimal.NewFromInt(steps))
	points := make([]Point2D, 0, steps+1)
	for i := 0; i <= steps; i++ {
		x := start.Add(step.Mul(decimal.NewFromInt(int64(i))))
		points = append(points, NewPoint2D(x, f(x)))
	}

	return MustNewCurve(points)
}

func (c *Curve) Len() int {
	return len(c.points)
}

// Index returns the i-th point in x order and panics when i is out of bounds.
func (c *Curve) Index(i int) Point2D {
	if i < 0 || i >= len(c.points) {
		panic(fmt.Sprintf("Curve.Index: index %d out of bounds for curve with %d points", i, len(c.points)))
	}
	return c.points[i]
}

func (c *Curve) Points() []Point2D {
	out := make([]Point2D, len(c.points))
	copy(out, c.points)
	return out
}

func (c *Curve) XRange() (decimal.Decimal, decimal.Decimal) {
	return c.xRange[0], c.xRange[1]
}

func (c *Curve) Clone() *Curve {
	return &Curve{points: c.Points(), xRange: c.xRange}
}

func (c *Curve) Equal(o *Curve) bool {
	if len(c.points) != len(o.points) {
		return false
	}
	for i := range c.points {
		if !c.points[i].Equal(o.points[i]) {
			return false
		}
	}
	return true
}

// Translate shifts every point by (dx, dy).
func (c *Curve) Translate(dx, dy decimal.Decimal) *Curve {
	points := make([]Point2D, len(c.points))
	for i, p := range c.points {
		points[i] = NewPoint2D(p.X.Add(dx), p.Y.Add(dy))
	}
	return MustNewCurve(points)
}

// Scale multiplies every point by (sx, sy). A zero sx collapses x and is rejected.
func (c *Curve) Scale(sx, sy decimal.Decimal) (*Curve, error) {
	if sx.IsZero() && len(c.points) > 1 {
		return nil, curveErr("Curve.Scale", ErrInvalidStep, "x scale must be non-zero")
	}

	points := make([]Point2D, len(c.points))
	for i, p := range c.points {
		points[i] = NewPoint2D(p.X.Mul(sx), p.Y.Mul(sy))
	}
	return NewCurve(points)
}

// Extrema returns the points with the lowest and highest y.
func (c *Curve) Extrema() (Point2D, Point2D, error) {
	if len(c.points) == 0 {
		return Point2D{}, Point2D{}, curveErr("Curve.Extrema", ErrInsufficientPoints, "curve is empty")
	}

	lo, hi := c.points[0], c.points[0]
	for _, p := range c.points[1:] {
		if p.Y.LessThan(lo.Y) {
			lo = p
		}
		if p.Y.GreaterThan(hi.Y) {
			hi = p
		}
	}

	return lo, hi, nil
}

// MeasureUnder is the trapezoidal area between the curve and the x axis, taken in absolute value.
func (c *Curve) MeasureUnder() decimal.Decimal {
	area := decimal.Zero
	for i := 1; i < len(c.points); i++ {
		p0, p1 := c.points[i-1], c.points[i]
		width := p1.X.Sub(p0.X)
		area = area.Add(p0.Y.Add(p1.Y).Mul(width).Div(decimal.NewFromInt(2)))
	}
	return area.Abs()
}

// GetClosestPoint returns the stored point nearest to x.
func (c *Curve) GetClosestPoint(x decimal.Decimal) (Point2D, error) {
	if len(c.points) == 0 {
		return Point2D{}, curveErr("Curve.GetClosestPoint", ErrInsufficientPoints, "curve is empty")
	}

	best := c.points[0]
	bestDist := best.X.Sub(x).Abs()
	for _, p := range c.points[1:] {
		if d := p.X.Sub(x).Abs(); d.LessThan(bestDist) {
			best, bestDist = p, d
		}
	}

	return best, nil
}

// IntersectWith returns stored points of c whose y matches other at the same x within 1e-6.
func (c *Curve) IntersectWith(other *Curve) []Point2D {
	tolerance := decimal.New(1, -6)
	var out []Point2D
	for _, p := range c.points {
		for _, q := range other.points {
			if p.X.Sub(q.X).Abs().LessThan(tolerance) && p.Y.Sub(q.Y).Abs().LessThan(tolerance) {
				out = append(out, p)
			}
		}
	}
	return out
}

type curveJSON struct {
	Points []Point2D          `json:"points"`
	XRange [2]decimal.Decimal `json:"x_range"`
}

func (c *Curve) MarshalJSON() ([]byte, error) {
	return json.Marshal(curveJSON{Points: c.points, XRange: c.xRange})
}

func (c *Curve) UnmarshalJSON(data []byte) error {
	var dto curveJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return fmt.Errorf("Curve.UnmarshalJSON: %w", err)
	}

	parsed, err := NewCurve(dto.Points)
	if err != nil {
		return err
	}

	*c = *parsed
	return nil
}
