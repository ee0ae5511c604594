package surfaces

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/curves"
)

// Surface is an immutable set of points with unique (x, y), sorted by x then y.
type Surface struct {
	points []Point3D
	xRange [2]decimal.Decimal
	yRange [2]decimal.Decimal
}

func NewSurface(points []Point3D) (*Surface, error) {
	sorted := make([]Point3D, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})

	unique := make([]Point3D, 0, len(sorted))
	for i, p := range sorted {
		if i > 0 && p.sameXY(sorted[i-1]) {
			if !p.Z.Equal(sorted[i-1].Z) {
				return nil, surfaceErr("NewSurface", ErrDuplicatePoint, "(%s, %s)", p.X, p.Y)
			}
			continue
		}
		unique = append(unique, p)
	}

	s := &Surface{points: unique}
	if len(unique) == 0 {
		return s, nil
	}

	s.xRange = [2]decimal.Decimal{unique[0].X, unique[len(unique)-1].X}
	s.yRange = [2]decimal.Decimal{unique[0].Y, unique[0].Y}
	for _, p := range unique[1:] {
		if p.Y.LessThan(s.yRange[0]) {
			s.yRange[0] = p.Y
		}
		if p.Y.GreaterThan(s.yRange[1]) {
			s.yRange[1] = p.Y
		}
	}

	return s, nil
}

func (s *Surface) Len() int {
	return len(s.points)
}

func (s *Surface) Points() []Point3D {
	out := make([]Point3D, len(s.points))
	copy(out, s.points)
	return out
}

func (s *Surface) XRange() (decimal.Decimal, decimal.Decimal) {
	return s.xRange[0], s.xRange[1]
}

func (s *Surface) YRange() (decimal.Decimal, decimal.Decimal) {
	return s.yRange[0], s.yRange[1]
}

func (s *Surface) inRange(x, y decimal.Decimal) bool {
	return x.GreaterThanOrEqual(s.xRange[0]) && x.LessThanOrEqual(s.xRange[1]) &&
		y.GreaterThanOrEqual(s.yRange[0]) && y.LessThanOrEqual(s.yRange[1])
}

// GetCurveAtX slices the surface at a fixed x, returning the (y, z) curve.
func (s *Surface) GetCurveAtX(x decimal.Decimal) (*curves.Curve, error) {
	var pts []curves.Point2D
	for _, p := range s.points {
		if p.X.Equal(x) {
			pts = append(pts, curves.NewPoint2D(p.Y, p.Z))
		}
	}

	if len(pts) == 0 {
		return nil, surfaceErr("Surface.GetCurveAtX", ErrOutOfRange, "no points at x=%s", x)
	}

	return curves.NewCurve(pts)
}

// GetCurveAtY slices the surface at a fixed y, returning the (x, z) curve.
func (s *Surface) GetCurveAtY(y decimal.Decimal) (*curves.Curve, error) {
	var pts []curves.Point2D
	for _, p := range s.points {
		if p.Y.Equal(y) {
			pts = append(pts, curves.NewPoint2D(p.X, p.Z))
		}
	}

	if len(pts) == 0 {
		return nil, surfaceErr("Surface.GetCurveAtY", ErrOutOfRange, "no points at y=%s", y)
	}

	return curves.NewCurve(pts)
}

func (s *Surface) Translate(dx, dy, dz decimal.Decimal) *Surface {
	points := make([]Point3D, len(s.points))
	for i, p := range s.points {
		points[i] = NewPoint3D(p.X.Add(dx), p.Y.Add(dy), p.Z.Add(dz))
	}

	out, _ := NewSurface(points)
	return out
}

func (s *Surface) Scale(sx, sy, sz decimal.Decimal) (*Surface, error) {
	if (sx.IsZero() || sy.IsZero()) && len(s.points) > 1 {
		return nil, surfaceErr("Surface.Scale", ErrInvalidParameters, "x and y scales must be non-zero")
	}

	points := make([]Point3D, len(s.points))
	for i, p := range s.points {
		points[i] = NewPoint3D(p.X.Mul(sx), p.Y.Mul(sy), p.Z.Mul(sz))
	}

	return NewSurface(points)
}

func (s *Surface) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Points []Point3D          `json:"points"`
		XRange [2]decimal.Decimal `json:"x_range"`
		YRange [2]decimal.Decimal `json:"y_range"`
	}{s.points, s.xRange, s.yRange})
}

func (s *Surface) UnmarshalJSON(data []byte) error {
	var dto struct {
		Points []Point3D `json:"points"`
	}
	if err := json.Unmarshal(data, &dto); err != nil {
		return fmt.Errorf("Surface.UnmarshalJSON: %w", err)
	}

	parsed, err := NewSurface(dto.Points)
	if err != nil {
		return err
	}

	*s = *parsed
	return nil
}
