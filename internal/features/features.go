// Package features derives the model's feature table from aggregated weather.
//
// The table spans the historical window immediately followed by the forecast
// window, one row per calendar day with no gaps. Weather-derived lag and
// rolling features are fully determined here because future weather is known
// in advance; the demand lag fields start from a seed and are overwritten by
// the sequential forecaster as predictions become available.
package features

import (
	"math"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

// ErrNoForecastWeather is returned when the forecast window has no weather at
// all. No feature row can be constructed, so the run must abort.
var ErrNoForecastWeather = eris.New("features: forecast window weather absent")

// FeatureRow is one calendar day of model inputs. Demand and the lag fields
// hold NaN where no value exists yet.
type FeatureRow struct {
	Date time.Time

	// Raw aggregated weather.
	TempMax       float64
	TempMin       float64
	Precipitation float64

	// Calendar features. Weekday is 0-6 with Monday as 0.
	Weekday   int
	Month     int
	IsWeekend bool
	IsHoliday bool // always false until a holiday calendar integration exists

	// Cyclical encodings. Calendar numbers are not Euclidean-ordered
	// (December is adjacent to January), so weekday and month are projected
	// onto the unit circle at periods 7 and 12.
	WeekdaySin float64
	WeekdayCos float64
	MonthSin   float64
	MonthCos   float64

	// Weather-derived features.
	TempRange      float64
	TempComfort    float64
	TempMaxSquared float64

	// Weekend interaction products, letting the predictor learn
	// weekend-specific weather sensitivity.
	TempMaxWeekend       float64
	PrecipitationWeekend float64
	TempComfortWeekend   float64

	// Shift-based weather lags. NaN before the shift origin.
	TempMaxLag1       float64
	TempMinLag1       float64
	PrecipitationLag1 float64
	TempMaxLag7       float64
	TempMinLag7       float64
	PrecipitationLag7 float64

	// Demand lags, seeded uniformly and overwritten by the forecaster.
	DemandLag1 float64
	DemandLag7 float64

	// 7-day trailing rolling means, expanding over the first 6 rows.
	TempMax7d       float64
	Precipitation7d float64

	// Realized or predicted demand. NaN until the forecaster fills it.
	Demand float64
}

// Table is the full feature table for one run. Rows before ForecastStart are
// the historical window and are never mutated after construction.
type Table struct {
	Rows          []FeatureRow
	ForecastStart int
}

// ForecastLen returns the number of forecast-window rows.
func (t *Table) ForecastLen() int {
	return len(t.Rows) - t.ForecastStart
}

// Build derives the feature table from the historical weather series
// immediately followed by the forecast series. The seed initializes the
// demand lag fields on every row.
func Build(historical, forecast []model.AggregatedWeatherDay, seed model.DemandSeed) (*Table, error) {
	if len(forecast) == 0 {
		return nil, ErrNoForecastWeather
	}

	days := make([]model.AggregatedWeatherDay, 0, len(historical)+len(forecast))
	days = append(days, historical...)
	days = append(days, forecast...)

	if err := checkContiguous(days); err != nil {
		return nil, err
	}

	rows := make([]FeatureRow, len(days))
	for i, day := range days {
		rows[i] = baseRow(day, seed)
	}

	applyWeatherLags(rows)
	applyRollingMeans(rows)

	return &Table{Rows: rows, ForecastStart: len(historical)}, nil
}

// checkContiguous verifies dates are strictly ascending with no gaps.
func checkContiguous(days []model.AggregatedWeatherDay) error {
	for i := 1; i < len(days); i++ {
		want := days[i-1].Date.AddDate(0, 0, 1)
		if !days[i].Date.Equal(want) {
			return eris.Errorf("features: dates not contiguous: %s followed by %s",
				days[i-1].Date.Format("2006-01-02"), days[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

func baseRow(day model.AggregatedWeatherDay, seed model.DemandSeed) FeatureRow {
	weekday := mondayIndexed(day.Date.Weekday())
	month := int(day.Date.Month())
	weekend := weekday >= 5

	row := FeatureRow{
		Date:          day.Date,
		TempMax:       day.TempMax,
		TempMin:       day.TempMin,
		Precipitation: day.Precipitation,

		Weekday:   weekday,
		Month:     month,
		IsWeekend: weekend,
		IsHoliday: false,

		WeekdaySin: math.Sin(2 * math.Pi * float64(weekday) / 7),
		WeekdayCos: math.Cos(2 * math.Pi * float64(weekday) / 7),
		MonthSin:   math.Sin(2 * math.Pi * float64(month) / 12),
		MonthCos:   math.Cos(2 * math.Pi * float64(month) / 12),

		TempRange:      day.TempMax - day.TempMin,
		TempComfort:    (day.TempMax + day.TempMin) / 2,
		TempMaxSquared: day.TempMax * day.TempMax,

		DemandLag1: seed.LastKnown,
		DemandLag7: seed.SevenDaysPrior,

		Demand: math.NaN(),
	}

	if weekend {
		row.TempMaxWeekend = day.TempMax
		row.PrecipitationWeekend = day.Precipitation
		row.TempComfortWeekend = row.TempComfort
	}

	return row
}

// mondayIndexed converts Go's Sunday-first weekday to a Monday=0 index.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// applyWeatherLags fills the shift-based weather lag columns. Rows before the
// shift origin have no value available and stay NaN; they are zero-filled at
// vector extraction, mirroring the predictor's training-time preprocessing.
func applyWeatherLags(rows []FeatureRow) {
	for i := range rows {
		if i >= 1 {
			rows[i].TempMaxLag1 = rows[i-1].TempMax
			rows[i].TempMinLag1 = rows[i-1].TempMin
			rows[i].PrecipitationLag1 = rows[i-1].Precipitation
		} else {
			rows[i].TempMaxLag1 = math.NaN()
			rows[i].TempMinLag1 = math.NaN()
			rows[i].PrecipitationLag1 = math.NaN()
		}
		if i >= 7 {
			rows[i].TempMaxLag7 = rows[i-7].TempMax
			rows[i].TempMinLag7 = rows[i-7].TempMin
			rows[i].PrecipitationLag7 = rows[i-7].Precipitation
		} else {
			rows[i].TempMaxLag7 = math.NaN()
			rows[i].TempMinLag7 = math.NaN()
			rows[i].PrecipitationLag7 = math.NaN()
		}
	}
}

// applyRollingMeans computes the 7-day trailing means of max temperature and
// precipitation with a minimum window of one observation: an expanding mean
// over the first six rows, a true 7-day mean thereafter.
func applyRollingMeans(rows []FeatureRow) {
	for i := range rows {
		start := i - 6
		if start < 0 {
			start = 0
		}
		n := float64(i - start + 1)
		var tempSum, precipSum float64
		for j := start; j <= i; j++ {
			tempSum += rows[j].TempMax
			precipSum += rows[j].Precipitation
		}
		rows[i].TempMax7d = tempSum / n
		rows[i].Precipitation7d = precipSum / n
	}
}

// Vector materializes the row's feature vector in the given field order.
// Remaining NaN entries (lags before the start of data) are zero-filled, and
// categorical flags are emitted as exact 0/1 values. An unknown field name is
// a schema mismatch and must abort the run.
func (r *FeatureRow) Vector(order []string) ([]float64, error) {
	vec := make([]float64, len(order))
	for i, name := range order {
		v, err := r.feature(name)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) {
			v = 0
		}
		if CategoricalFeatures[name] {
			v = math.Trunc(v)
		}
		vec[i] = v
	}
	return vec, nil
}

func (r *FeatureRow) feature(name string) (float64, error) {
	switch name {
	case FIsWeekend:
		return boolToFloat(r.IsWeekend), nil
	case FIsHoliday:
		return boolToFloat(r.IsHoliday), nil
	case FWeekdaySin:
		return r.WeekdaySin, nil
	case FWeekdayCos:
		return r.WeekdayCos, nil
	case FMonthSin:
		return r.MonthSin, nil
	case FMonthCos:
		return r.MonthCos, nil
	case FTempMax:
		return r.TempMax, nil
	case FTempMin:
		return r.TempMin, nil
	case FPrecipitation:
		return r.Precipitation, nil
	case FTempRange:
		return r.TempRange, nil
	case FTempComfort:
		return r.TempComfort, nil
	case FPrecipBinary:
		return boolToFloat(r.Precipitation > 0), nil
	case FPrecipHeavy:
		return boolToFloat(r.Precipitation > 10), nil
	case FTempMaxLag1:
		return r.TempMaxLag1, nil
	case FTempMinLag1:
		return r.TempMinLag1, nil
	case FPrecipitationLag1:
		return r.PrecipitationLag1, nil
	case FDemandLag1:
		return r.DemandLag1, nil
	case FDemandLag7:
		return r.DemandLag7, nil
	case FTempMaxLag7:
		return r.TempMaxLag7, nil
	case FTempMinLag7:
		return r.TempMinLag7, nil
	case FPrecipitationLag7:
		return r.PrecipitationLag7, nil
	case FTempMax7d:
		return r.TempMax7d, nil
	case FPrecipitation7d:
		return r.Precipitation7d, nil
	case FTempMaxSquared:
		return r.TempMaxSquared, nil
	case FTempMaxWeekend:
		return r.TempMaxWeekend, nil
	case FPrecipitationWeekend:
		return r.PrecipitationWeekend, nil
	case FTempComfortWeekend:
		return r.TempComfortWeekend, nil
	default:
		return 0, eris.Wrapf(ErrSchemaMismatch, "unknown feature %q", name)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
