package curves

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

type BasicMetrics struct {
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
	Mode   decimal.Decimal `json:"mode"`
	StdDev decimal.Decimal `json:"std_dev"`
}

type ShapeMetrics struct {
	Skewness decimal.Decimal `json:"skewness"`
	Kurtosis decimal.Decimal `json:"kurtosis"`
	Peaks    []Point2D       `json:"peaks"`
	Valleys  []Point2D       `json:"valleys"`
}

type RangeMetrics struct {
	Min                Point2D            `json:"min"`
	Max                Point2D            `json:"max"`
	Range              decimal.Decimal    `json:"range"`
	Quartiles          [3]decimal.Decimal `json:"quartiles"`
	InterquartileRange decimal.Decimal    `json:"interquartile_range"`
}

type TrendMetrics struct {
	Slope         decimal.Decimal `json:"slope"`
	Intercept     decimal.Decimal `json:"intercept"`
	RSquared      decimal.Decimal `json:"r_squared"`
	MovingAverage []Point2D       `json:"moving_average"`
}

type RiskMetrics struct {
	Volatility        decimal.Decimal `json:"volatility"`
	ValueAtRisk       decimal.Decimal `json:"value_at_risk"`
	ExpectedShortfall decimal.Decimal `json:"expected_shortfall"`
	Beta              decimal.Decimal `json:"beta"`
	SharpeRatio       decimal.Decimal `json:"sharpe_ratio"`
}

// CurveMetrics bundles every metric family.
type CurveMetrics struct {
	Basic BasicMetrics `json:"basic"`
	Shape ShapeMetrics `json:"shape"`
	Range RangeMetrics `json:"range"`
	Trend TrendMetrics `json:"trend"`
	Risk  RiskMetrics  `json:"risk"`
}

// valueAtRiskZ is the one-sided 95% normal quantile.
const valueAtRiskZ = 1.645

var movingAverageWindows = []int{3, 5, 7}

func (c *Curve) yValues() stats.Float64Data {
	ys := make(stats.Float64Data, len(c.points))
	for i, p := range c.points {
		ys[i] = p.Y.InexactFloat64()
	}
	return ys
}

func (c *Curve) xValues() stats.Float64Data {
	xs := make(stats.Float64Data, len(c.points))
	for i, p := range c.points {
		xs[i] = p.X.InexactFloat64()
	}
	return xs
}

func dec(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func (c *Curve) ComputeBasicMetrics() BasicMetrics {
	ys := c.yValues()
	if len(ys) == 0 {
		return BasicMetrics{}
	}

	mean, _ := stats.Mean(ys)
	median, _ := stats.Median(ys)
	std, _ := stats.StandardDeviationPopulation(ys)

	// with no repeated value the smallest y stands in for the mode
	mode, _ := stats.Min(ys)
	if modes, err := stats.Mode(ys); err == nil && len(modes) > 0 {
		mode = modes[0]
	}

	return BasicMetrics{
		Mean:   dec(mean),
		Median: dec(median),
		Mode:   dec(mode),
		StdDev: dec(std),
	}
}

func (c *Curve) ComputeShapeMetrics() ShapeMetrics {
	ys := c.yValues()
	if len(ys) < 2 {
		return ShapeMetrics{}
	}

	mean, _ := stats.Mean(ys)
	std, _ := stats.StandardDeviationPopulation(ys)

	var skew, kurt float64
	if std > 1e-9 {
		for _, y := range ys {
			z := (y - mean) / std
			skew += z * z * z
			kurt += z * z * z * z
		}
		n := float64(len(ys))
		skew /= n
		kurt = kurt/n - 3
	}

	var peaks, valleys []Point2D
	for i := 1; i < len(c.points)-1; i++ {
		prev, cur, next := c.points[i-1].Y, c.points[i].Y, c.points[i+1].Y
		if cur.GreaterThan(prev) && cur.GreaterThan(next) {
			peaks = append(peaks, c.points[i])
		}
		if cur.LessThan(prev) && cur.LessThan(next) {
			valleys = append(valleys, c.points[i])
		}
	}

	return ShapeMetrics{
		Skewness: dec(skew),
		Kurtosis: dec(kurt),
		Peaks:    peaks,
		Valleys:  valleys,
	}
}

func (c *Curve) ComputeRangeMetrics() RangeMetrics {
	if len(c.points) == 0 {
		return RangeMetrics{}
	}

	lo, hi, _ := c.Extrema()

	sorted := make([]decimal.Decimal, len(c.points))
	for i, p := range c.points {
		sorted[i] = p.Y
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	n := len(sorted)
	q1, q2, q3 := sorted[n/4], sorted[n/2], sorted[3*n/4]

	return RangeMetrics{
		Min:                lo,
		Max:                hi,
		Range:              hi.Y.Sub(lo.Y),
		Quartiles:          [3]decimal.Decimal{q1, q2, q3},
		InterquartileRange: q3.Sub(q1),
	}
}

func (c *Curve) ComputeTrendMetrics() TrendMetrics {
	if len(c.points) < 2 {
		return TrendMetrics{}
	}

	xs, ys := c.xValues(), c.yValues()
	cov, _ := stats.CovariancePopulation(xs, ys)
	varX, _ := stats.PopulationVariance(xs)
	meanX, _ := stats.Mean(xs)
	meanY, _ := stats.Mean(ys)

	var slope float64
	if varX != 0 {
		slope = cov / varX
	}
	intercept := meanY - slope*meanX

	rSquared := 1.0
	if varY, _ := stats.PopulationVariance(ys); varY != 0 {
		var ssr float64
		for i := range xs {
			residual := ys[i] - (slope*xs[i] + intercept)
			ssr += residual * residual
		}
		rSquared = 1 - ssr/(varY*float64(len(ys)))
	}

	var moving []Point2D
	for _, window := range movingAverageWindows {
		if window > len(c.points) {
			continue
		}
		for start := 0; start+window <= len(c.points); start++ {
			mx, _ := stats.Mean(xs[start : start+window])
			my, _ := stats.Mean(ys[start : start+window])
			moving = append(moving, NewPoint2D(dec(mx), dec(my)))
		}
	}

	return TrendMetrics{
		Slope:         dec(slope),
		Intercept:     dec(intercept),
		RSquared:      dec(rSquared),
		MovingAverage: moving,
	}
}

func (c *Curve) ComputeRiskMetrics() RiskMetrics {
	ys := c.yValues()
	if len(ys) == 0 {
		return RiskMetrics{}
	}

	mean, _ := stats.Mean(ys)
	vol, _ := stats.StandardDeviationPopulation(ys)
	if vol == 0 {
		return RiskMetrics{}
	}

	valueAtRisk := mean - valueAtRiskZ*vol

	var tail stats.Float64Data
	for _, y := range ys {
		if y < valueAtRisk {
			tail = append(tail, y)
		}
	}

	var shortfall float64
	if len(tail) > 0 {
		shortfall, _ = stats.Mean(tail)
	}

	var beta float64
	if mean != 0 {
		beta = vol / mean
	}

	return RiskMetrics{
		Volatility:        dec(vol),
		ValueAtRisk:       dec(valueAtRisk),
		ExpectedShortfall: dec(shortfall),
		Beta:              dec(beta),
		SharpeRatio:       dec(mean / vol),
	}
}

func (c *Curve) ComputeMetrics() CurveMetrics {
	return CurveMetrics{
		Basic: c.ComputeBasicMetrics(),
		Shape: c.ComputeShapeMetrics(),
		Range: c.ComputeRangeMetrics(),
		Trend: c.ComputeTrendMetrics(),
		Risk:  c.ComputeRiskMetrics(),
	}
}
