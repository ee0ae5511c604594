package decimalmath

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqrt(t *testing.T) {
	t.Run("perfect square", func(t *testing.T) {
		res, err := Sqrt(decimal.NewFromInt(49))
		require.NoError(t, err)
		assert.True(t, res.Equal(decimal.NewFromInt(7)), res.String())
	})

	t.Run("irrational", func(t *testing.T) {
		res, err := Sqrt(decimal.NewFromInt(2))
		require.NoError(t, err)
		assert.InDelta(t, 1.41421356237309504880, res.InexactFloat64(), 1e-12)
	})

	t.Run("small values", func(t *testing.T) {
		res, err := Sqrt(decimal.RequireFromString("0.000001"))
		require.NoError(t, err)
		assert.InDelta(t, 0.001, res.InexactFloat64(), 1e-12)
	})

	t.Run("negative", func(t *testing.T) {
		_, err := Sqrt(decimal.NewFromInt(-1))
		require.ErrorIs(t, err, ErrNegativeSqrt)
	})
}

func TestExpLn(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		x := decimal.RequireFromString("3.75")
		ln, err := Ln(Exp(x))
		require.NoError(t, err)
		assert.InDelta(t, 3.75, ln.InexactFloat64(), 1e-10)
	})

	t.Run("negative exponent", func(t *testing.T) {
		assert.InDelta(t, 0.049787068367863944, Exp(decimal.NewFromInt(-3)).InexactFloat64(), 1e-12)
	})

	t.Run("ln of zero", func(t *testing.T) {
		_, err := Ln(decimal.Zero)
		require.ErrorIs(t, err, ErrNonPositiveLog)
	})
}

func TestPow(t *testing.T) {
	res, err := Pow(decimal.NewFromInt(2), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, res.Equal(decimal.NewFromInt(1024)))

	res, err = Pow(decimal.NewFromInt(9), decimal.NewFromFloat(0.5))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, res.InexactFloat64(), 1e-10)
}

func TestNormalDistribution(t *testing.T) {
	assert.InDelta(t, 0.5, NormCDF(0), 1e-12)
	assert.InDelta(t, 0.9750021048517795, NormCDF(1.96), 1e-10)
	assert.InDelta(t, 0.3989422804014327, NormPDF(0), 1e-12)
	assert.InDelta(t, 0.8427007929497149, Erf(decimal.NewFromInt(1)).InexactFloat64(), 1e-12)
}
