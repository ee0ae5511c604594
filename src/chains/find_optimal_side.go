package chains

import (
	"fmt"

	"github.com/jiaming2012/optionstrat/src/positive"
)

type FindOptimalSideKind string

const (
	Upper  FindOptimalSideKind = "upper"
	Lower  FindOptimalSideKind = "lower"
	All    FindOptimalSideKind = "all"
	Range  FindOptimalSideKind = "range"
	Center FindOptimalSideKind = "center"
)

// FindOptimalSide restricts which strikes an optimizer may use. Start and End
// are only meaningful for Range and are inclusive.
type FindOptimalSide struct {
	Kind  FindOptimalSideKind `json:"kind" yaml:"kind"`
	Start positive.Positive   `json:"start,omitempty" yaml:"start,omitempty"`
	End   positive.Positive   `json:"end,omitempty" yaml:"end,omitempty"`
}

var (
	SideUpper  = FindOptimalSide{Kind: Upper}
	SideLower  = FindOptimalSide{Kind: Lower}
	SideAll    = FindOptimalSide{Kind: All}
	SideCenter = FindOptimalSide{Kind: Center}
)

func SideRange(start, end positive.Positive) FindOptimalSide {
	return FindOptimalSide{Kind: Range, Start: start, End: end}
}

func (s FindOptimalSide) Validate() error {
	switch s.Kind {
	case Upper, Lower, All, Center:
		return nil
	case Range:
		if s.Start.GreaterThan(s.End) {
			return fmt.Errorf("FindOptimalSide: Validate: range start %s is above end %s", s.Start, s.End)
		}
		return nil
	}

	return fmt.Errorf("FindOptimalSide: Validate: invalid side: %s", s.Kind)
}

// ParseFindOptimalSide accepts upper, lower, all and center.
func ParseFindOptimalSide(s string) (FindOptimalSide, error) {
	side := FindOptimalSide{Kind: FindOptimalSideKind(s)}
	if side.Kind == Range {
		return FindOptimalSide{}, fmt.Errorf("ParseFindOptimalSide: range requires explicit bounds")
	}

	if err := side.Validate(); err != nil {
		return FindOptimalSide{}, err
	}

	return side, nil
}

func (s FindOptimalSide) String() string {
	if s.Kind == Range {
		return fmt.Sprintf("range(%s, %s)", s.Start, s.End)
	}
	return string(s.Kind)
}
