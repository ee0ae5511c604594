package decimalmath

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"
)

// Precision is the number of fractional digits kept by the iterative routines.
const Precision int32 = 28

var (
	// Max stands in for the largest representable decimal.
	Max = decimal.RequireFromString("79228162514264337593543950335")

	Half = decimal.NewFromFloat(0.5)
	Two  = decimal.NewFromInt(2)

	ErrNegativeSqrt   = fmt.Errorf("square root of a negative number")
	ErrNonPositiveLog = fmt.Errorf("logarithm of a non-positive number")
)

// Sqrt uses Newton's method seeded from float64.
func Sqrt(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("decimalmath.Sqrt: %s: %w", d, ErrNegativeSqrt)
	}

	if d.IsZero() {
		return decimal.Zero, nil
	}

	x := decimal.NewFromFloat(math.Sqrt(d.InexactFloat64()))
	if x.IsZero() {
		x = decimal.New(1, -14)
	}

	for i := 0; i < 8; i++ {
		next := x.Add(d.DivRound(x, Precision)).Mul(Half).Round(Precision)
		if next.Equal(x) {
			break
		}
		x = next
	}

	return x, nil
}

func Exp(d decimal.Decimal) decimal.Decimal {
	// ExpTaylor loses precision on large negative arguments
	if d.IsNegative() {
		pos, err := d.Neg().ExpTaylor(Precision)
		if err != nil || pos.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(1).DivRound(pos, Precision)
	}

	res, err := d.ExpTaylor(Precision)
	if err != nil {
		return decimal.NewFromFloat(math.Exp(d.InexactFloat64()))
	}

	return res
}

func Ln(d decimal.Decimal) (decimal.Decimal, error) {
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("decimalmath.Ln: %s: %w", d, ErrNonPositiveLog)
	}

	res, err := d.Ln(Precision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimalmath.Ln: %w", err)
	}

	return res, nil
}

// Pow supports fractional exponents; integer exponents are exact.
func Pow(base, exp decimal.Decimal) (decimal.Decimal, error) {
	if exp.IsInteger() {
		return base.Pow(exp), nil
	}

	res, err := base.PowWithPrecision(exp, Precision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimalmath.Pow: %s^%s: %w", base, exp, err)
	}

	return res, nil
}

func Erf(d decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(math.Erf(d.InexactFloat64()))
}

// NormCDF is the standard normal cumulative distribution.
func NormCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormPDF is the standard normal density.
func NormPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}

func NormCDFDecimal(x decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(NormCDF(x.InexactFloat64()))
}

func Abs(d decimal.Decimal) decimal.Decimal {
	return d.Abs()
}

func MaxOf(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func MinOf(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
