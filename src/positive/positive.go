package positive

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/optionstrat/src/decimalmath"
)

var (
	ErrNegative       = fmt.Errorf("value must be non-negative")
	ErrUnderflow      = fmt.Errorf("subtraction underflow")
	ErrDivisionByZero = fmt.Errorf("division by zero")
)

var (
	Zero     = Positive{}
	One      = Positive{d: decimal.NewFromInt(1)}
	Two      = Positive{d: decimal.NewFromInt(2)}
	Ten      = Positive{d: decimal.NewFromInt(10)}
	Hundred  = Positive{d: decimal.NewFromInt(100)}
	Thousand = Positive{d: decimal.NewFromInt(1000)}
	Infinity = Positive{d: decimalmath.Max}
)

// Positive is a decimal scalar that is never negative.
type Positive struct {
	d decimal.Decimal
}

func New(d decimal.Decimal) (Positive, error) {
	if d.IsNegative() {
		return Zero, fmt.Errorf("positive.New: %s: %w", d, ErrNegative)
	}

	return Positive{d: d}, nil
}

// MustNew panics on a negative input.
func MustNew(d decimal.Decimal) Positive {
	p, err := New(d)
	if err != nil {
		panic(err)
	}

	return p
}

func NewFromFloat(f float64) (Positive, error) {
	return New(decimal.NewFromFloat(f))
}

func MustFromFloat(f float64) Positive {
	return MustNew(decimal.NewFromFloat(f))
}

func MustFromInt(i int64) Positive {
	return MustNew(decimal.NewFromInt(i))
}

func MustFromString(s string) Positive {
	return MustNew(decimal.RequireFromString(s))
}

func NewFromString(s string) (Positive, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("positive.NewFromString: %w", err)
	}

	return New(d)
}

// FromAbs builds a Positive from the absolute value of d.
func FromAbs(d decimal.Decimal) Positive {
	return Positive{d: d.Abs()}
}

// Clamp maps negative values to Zero.
func Clamp(d decimal.Decimal) Positive {
	if d.IsNegative() {
		return Zero
	}
	return Positive{d: d}
}

func (p Positive) Decimal() decimal.Decimal {
	return p.d
}

func (p Positive) Float64() float64 {
	return p.d.InexactFloat64()
}

func (p Positive) String() string {
	return p.d.String()
}

func (p Positive) IsZero() bool {
	return p.d.IsZero()
}

func (p Positive) IsInfinity() bool {
	return p.d.GreaterThanOrEqual(decimalmath.Max)
}

func (p Positive) Add(o Positive) Positive {
	return Positive{d: p.d.Add(o.d)}
}

func (p Positive) Sub(o Positive) (Positive, error) {
	res := p.d.Sub(o.d)
	if res.IsNegative() {
		return Zero, fmt.Errorf("Positive.Sub: %s - %s: %w", p, o, ErrUnderflow)
	}

	return Positive{d: res}, nil
}

// SubDecimal returns the signed difference without the non-negative constraint.
func (p Positive) SubDecimal(o Positive) decimal.Decimal {
	return p.d.Sub(o.d)
}

func (p Positive) Mul(o Positive) Positive {
	return Positive{d: p.d.Mul(o.d)}
}

func (p Positive) Div(o Positive) (Positive, error) {
	if o.d.IsZero() {
		return Zero, fmt.Errorf("Positive.Div: %s / 0: %w", p, ErrDivisionByZero)
	}

	return Positive{d: p.d.Div(o.d)}, nil
}

func (p Positive) Sqrt() Positive {
	res, err := decimalmath.Sqrt(p.d)
	if err != nil {
		// unreachable: p is never negative
		panic(err)
	}

	return Positive{d: res}
}

func (p Positive) Pow(exp Positive) (Positive, error) {
	res, err := decimalmath.Pow(p.d, exp.d)
	if err != nil {
		return Zero, fmt.Errorf("Positive.Pow: %w", err)
	}

	return Positive{d: res}, nil
}

func (p Positive) PowInt(exp int64) Positive {
	return Positive{d: p.d.Pow(decimal.NewFromInt(exp))}
}

func (p Positive) RoundTo(places int32) Positive {
	return Positive{d: p.d.Round(places)}
}

func (p Positive) Floor() Positive {
	return Positive{d: p.d.Floor()}
}

func (p Positive) Cmp(o Positive) int {
	return p.d.Cmp(o.d)
}

func (p Positive) Equal(o Positive) bool {
	return p.d.Equal(o.d)
}

func (p Positive) LessThan(o Positive) bool {
	return p.d.LessThan(o.d)
}

func (p Positive) LessThanOrEqual(o Positive) bool {
	return p.d.LessThanOrEqual(o.d)
}

func (p Positive) GreaterThan(o Positive) bool {
	return p.d.GreaterThan(o.d)
}

func (p Positive) GreaterThanOrEqual(o Positive) bool {
	return p.d.GreaterThanOrEqual(o.d)
}

func (p Positive) Max(o Positive) Positive {
	if p.d.GreaterThanOrEqual(o.d) {
		return p
	}
	return o
}

func (p Positive) Min(o Positive) Positive {
	if p.d.LessThanOrEqual(o.d) {
		return p
	}
	return o
}

func Sum(values []Positive) Positive {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}

	return total
}

func (p Positive) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.d)
}

func (p *Positive) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("Positive.UnmarshalJSON: %w", err)
	}

	v, err := New(d)
	if err != nil {
		return err
	}

	*p = v
	return nil
}

func (p Positive) MarshalYAML() (interface{}, error) {
	return p.d.InexactFloat64(), nil
}

func (p *Positive) UnmarshalYAML(value *yaml.Node) error {
	v, err := NewFromString(value.Value)
	if err != nil {
		return err
	}

	*p = v
	return nil
}
