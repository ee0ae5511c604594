package curves

import (
	"fmt"
	"runtime"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jiaming2012/optionstrat/src/decimalmath"
)

type MergeOperation string

func (op MergeOperation) Validate() error {
	switch op {
	case Add, Subtract, Multiply, Divide, Max, Min:
		return nil
	}

	return fmt.Errorf("MergeOperation: Validate: invalid merge operation: %s", op)
}

const (
	Add      MergeOperation = "add"
	Subtract MergeOperation = "subtract"
	Multiply MergeOperation = "multiply"
	Divide   MergeOperation = "divide"
	Max      MergeOperation = "max"
	Min      MergeOperation = "min"
)

// MergeSamples is the number of intervals sampled across the shared x range.
const MergeSamples = 100

// Merge resamples the curves over their common x range with cubic
// interpolation and combines the y values with op. The fold runs left to
// right so Subtract and Divide keep the first curve as the minuend/dividend.
func Merge(curves []*Curve, op MergeOperation) (*Curve, error) {
	if len(curves) == 0 {
		return nil, curveErr("Merge", ErrEmptyCurves, "merge requires at least one curve")
	}

	if err := op.Validate(); err != nil {
		return nil, curveErr("Merge", ErrInvalidStep, "%v", err)
	}

	if len(curves) == 1 {
		return curves[0].Clone(), nil
	}

	minX, maxX := curves[0].xRange[0], curves[0].xRange[1]
	for _, c := range curves[1:] {
		minX = decimalmath.MaxOf(minX, c.xRange[0])
		maxX = decimalmath.MinOf(maxX, c.xRange[1])
	}

	if minX.GreaterThanOrEqual(maxX) {
		return nil, curveErr("Merge", ErrNoOverlap, "shared range [%s, %s] is empty", minX, maxX)
	}

	step := maxX.Sub(minX).Div(decimal.NewFromInt(MergeSamples))
	points := make([]Point2D, MergeSamples+1)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := 0; i <= MergeSamples; i++ {
		i := i
		g.Go(func() error {
			x := minX.Add(step.Mul(decimal.NewFromInt(int64(i))))
			if i == MergeSamples {
				x = maxX
			}

			ys := make([]decimal.Decimal, len(curves))
			for j, c := range curves {
				p, err := c.CubicInterpolate(x)
				if err != nil {
					return fmt.Errorf("Merge: curve %d: %w", j, err)
				}
				ys[j] = p.Y
			}

			points[i] = NewPoint2D(x, combine(ys, op))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewCurve(points)
}

func (c *Curve) MergeWith(other *Curve, op MergeOperation) (*Curve, error) {
	return Merge([]*Curve{c, other}, op)
}

func combine(ys []decimal.Decimal, op MergeOperation) decimal.Decimal {
	acc := ys[0]
	for _, y := range ys[1:] {
		switch op {
		case Add:
			acc = acc.Add(y)
		case Subtract:
			acc = acc.Sub(y)
		case Multiply:
			acc = acc.Mul(y)
		case Divide:
			if y.IsZero() {
				acc = acc.Mul(decimalmath.Max)
			} else {
				acc = acc.Mul(decimal.NewFromInt(1).Div(y))
			}
		case Max:
			acc = decimalmath.MaxOf(acc, y)
		case Min:
			acc = decimalmath.MinOf(acc, y)
		}
	}

	return acc
}
