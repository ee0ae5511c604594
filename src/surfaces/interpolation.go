package surfaces

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

type InterpolationType string

func (t InterpolationType) Validate() error {
	switch t {
	case LinearInterpolation, BilinearInterpolation, NearestInterpolation:
		return nil
	}

	return fmt.Errorf("InterpolationType: Validate: invalid interpolation type: %s", t)
}

const (
	LinearInterpolation   InterpolationType = "linear"
	BilinearInterpolation InterpolationType = "bilinear"
	NearestInterpolation  InterpolationType = "nearest"
)

// inverseDistanceNeighbors is the number of stored points weighted by Linear.
const inverseDistanceNeighbors = 3

// Interpolate evaluates z at (x, y). Queries at a stored (x, y) return its z in every mode.
func (s *Surface) Interpolate(x, y decimal.Decimal, mode InterpolationType) (Point3D, error) {
	if err := mode.Validate(); err != nil {
		return Point3D{}, surfaceErr("Surface.Interpolate", ErrInvalidParameters, "%v", err)
	}

	if len(s.points) == 0 {
		return Point3D{}, surfaceErr("Surface.Interpolate", ErrInsufficientPoints, "surface is empty")
	}

	if !s.inRange(x, y) {
		return Point3D{}, surfaceErr("Surface.Interpolate", ErrOutOfRange, "(%s, %s) outside x [%s, %s] y [%s, %s]",
			x, y, s.xRange[0], s.xRange[1], s.yRange[0], s.yRange[1])
	}

	for _, p := range s.points {
		if p.X.Equal(x) && p.Y.Equal(y) {
			return p, nil
		}
	}

	switch mode {
	case LinearInterpolation:
		return s.inverseDistance(x, y)
	case BilinearInterpolation:
		return s.bilinear(x, y)
	default:
		return s.nearest(x, y), nil
	}
}

func (s *Surface) byDistance(x, y decimal.Decimal) []Point3D {
	sorted := s.Points()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].distanceSquared(x, y).LessThan(sorted[j].distanceSquared(x, y))
	})
	return sorted
}

func (s *Surface) nearest(x, y decimal.Decimal) Point3D {
	best := s.byDistance(x, y)[0]
	return NewPoint3D(x, y, best.Z)
}

func (s *Surface) inverseDistance(x, y decimal.Decimal) (Point3D, error) {
	if len(s.points) < inverseDistanceNeighbors {
		return Point3D{}, surfaceErr("Surface.Interpolate", ErrInsufficientPoints, "need at least %d points, have %d", inverseDistanceNeighbors, len(s.points))
	}

	neighbors := s.byDistance(x, y)[:inverseDistanceNeighbors]

	weighted := decimal.Zero
	total := decimal.Zero
	for _, p := range neighbors {
		w := decimal.NewFromInt(1).Div(p.distanceSquared(x, y))
		weighted = weighted.Add(w.Mul(p.Z))
		total = total.Add(w)
	}

	return NewPoint3D(x, y, weighted.Div(total)), nil
}

// bilinear interpolates inside the grid cell whose four corners are stored
// points, falling back to the nearest point when the cell is incomplete.
func (s *Surface) bilinear(x, y decimal.Decimal) (Point3D, error) {
	if len(s.points) < 4 {
		return Point3D{}, surfaceErr("Surface.Interpolate", ErrInsufficientPoints, "need at least 4 points, have %d", len(s.points))
	}

	x0, x1, okX := bracket(s.distinctX(), x)
	y0, y1, okY := bracket(s.distinctY(), y)
	if !okX || !okY {
		return s.nearest(x, y), nil
	}

	q11, ok11 := s.lookup(x0, y0)
	q12, ok12 := s.lookup(x0, y1)
	q21, ok21 := s.lookup(x1, y0)
	q22, ok22 := s.lookup(x1, y1)
	if !(ok11 && ok12 && ok21 && ok22) {
		return s.nearest(x, y), nil
	}

	tx := decimal.Zero
	if !x1.Equal(x0) {
		tx = x.Sub(x0).Div(x1.Sub(x0))
	}
	ty := decimal.Zero
	if !y1.Equal(y0) {
		ty = y.Sub(y0).Div(y1.Sub(y0))
	}

	one := decimal.NewFromInt(1)
	bottom := q11.Mul(one.Sub(tx)).Add(q21.Mul(tx))
	top := q12.Mul(one.Sub(tx)).Add(q22.Mul(tx))

	return NewPoint3D(x, y, bottom.Mul(one.Sub(ty)).Add(top.Mul(ty))), nil
}

func (s *Surface) lookup(x, y decimal.Decimal) (decimal.Decimal, bool) {
	for _, p := range s.points {
		if p.X.Equal(x) && p.Y.Equal(y) {
			return p.Z, true
		}
	}
	return decimal.Zero, false
}

func (s *Surface) distinctX() []decimal.Decimal {
	var out []decimal.Decimal
	for i, p := range s.points {
		if i == 0 || !p.X.Equal(s.points[i-1].X) {
			out = append(out, p.X)
		}
	}
	return out
}

func (s *Surface) distinctY() []decimal.Decimal {
	var out []decimal.Decimal
	for _, p := range s.points {
		seen := false
		for _, y := range out {
			if y.Equal(p.Y) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, p.Y)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessThan(out[j]) })
	return out
}

// bracket returns the neighbors of v in the sorted values. A value equal to a
// stored coordinate brackets to itself on both sides.
func bracket(values []decimal.Decimal, v decimal.Decimal) (decimal.Decimal, decimal.Decimal, bool) {
	for i, candidate := range values {
		if candidate.Equal(v) {
			return candidate, candidate, true
		}
		if i > 0 && values[i-1].LessThan(v) && v.LessThan(candidate) {
			return values[i-1], candidate, true
		}
	}
	return decimal.Zero, decimal.Zero, false
}
