package history

import (
	"math"
	"sort"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

// Stats summarizes a demand series. Percentiles use linear interpolation
// between order statistics, matching the predictor's training-time tooling.
func Stats(points []model.DemandPoint) model.DemandStats {
	if len(points) == 0 {
		return DefaultStats()
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	sort.Float64s(values)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	// Population standard deviation.
	std := math.Sqrt(variance / float64(len(values)))

	return model.DemandStats{
		Mean:   mean,
		Median: percentile(values, 50),
		Std:    std,
		P25:    percentile(values, 25),
		P50:    percentile(values, 50),
		P75:    percentile(values, 75),
		P90:    percentile(values, 90),
		P95:    percentile(values, 95),
		Min:    values[0],
		Max:    values[len(values)-1],
	}
}

// percentile computes the p-th percentile of sorted values with linear
// interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Seed extracts the lag seed from the series: the last observed value and the
// value 7 rows prior. A series shorter than 7 rows falls back to the last
// value for both.
func Seed(points []model.DemandPoint) model.DemandSeed {
	if len(points) == 0 {
		return DefaultSeed()
	}
	last := points[len(points)-1].Value
	sevenPrior := last
	if len(points) >= 7 {
		sevenPrior = points[len(points)-7].Value
	}
	return model.DemandSeed{LastKnown: last, SevenDaysPrior: sevenPrior}
}

// DefaultStats returns the documented fallback distribution used when the
// historical source is unavailable. Downstream cannot distinguish these from
// genuine data; the Fallback flag carries that provenance.
func DefaultStats() model.DemandStats {
	return model.DemandStats{
		Mean:     2000,
		Median:   2000,
		Std:      500,
		P25:      1500,
		P50:      2000,
		P75:      2500,
		P90:      3000,
		P95:      3500,
		Min:      1000,
		Max:      4000,
		Fallback: true,
	}
}

// DefaultSeed returns the fallback lag seed.
func DefaultSeed() model.DemandSeed {
	return model.DemandSeed{LastKnown: 2000, SevenDaysPrior: 2000}
}
