// Package weather fetches per-location daily weather and collapses it into a
// single population-weighted national series.
package weather

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

// ErrNoData is returned when zero locations reported for the whole window.
// Callers must substitute a fallback series or abort, depending on window.
var ErrNoData = eris.New("weather: no observations for window")

// Weights returns each location's share of the total population. Shares sum
// to 1.0 across the full location set.
func Weights(locations []model.Location) map[string]float64 {
	var total int64
	for _, loc := range locations {
		total += loc.Population
	}
	weights := make(map[string]float64, len(locations))
	if total == 0 {
		return weights
	}
	for _, loc := range locations {
		weights[loc.Name] = float64(loc.Population) / float64(total)
	}
	return weights
}

// Aggregate collapses per-location observations into one weighted national
// row per date, sorted ascending. Each output field is the sum of
// value*weight over the locations reporting that date.
//
// When a location is missing for a date its weight is simply absent from
// that date's sum; remaining weights are NOT renormalized, so such dates are
// slightly under-weighted. This matches the historical behavior of the
// system and is kept deliberately.
func Aggregate(observations []model.WeatherObservation) ([]model.AggregatedWeatherDay, error) {
	if len(observations) == 0 {
		return nil, ErrNoData
	}

	byDate := make(map[time.Time]*model.AggregatedWeatherDay)
	for _, obs := range observations {
		day := byDate[obs.Date]
		if day == nil {
			day = &model.AggregatedWeatherDay{Date: obs.Date}
			byDate[obs.Date] = day
		}
		day.TempMax += obs.TempMax * obs.Weight
		day.TempMin += obs.TempMin * obs.Weight
		day.Precipitation += obs.Precipitation * obs.Weight
	}

	out := make([]model.AggregatedWeatherDay, 0, len(byDate))
	for _, day := range byDate {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// FillWindow returns one row per date in [start, end], substituting the
// nearest available day for any date the series is missing. The archive API
// reports recent days as null, so a fetched window can arrive with gaps or
// stop short of its end; lag and rolling features require every date.
// Returns nil when the input series is empty.
func FillWindow(days []model.AggregatedWeatherDay, start, end time.Time) []model.AggregatedWeatherDay {
	if len(days) == 0 || end.Before(start) {
		return nil
	}
	n := int(end.Sub(start).Hours()/24) + 1
	out := make([]model.AggregatedWeatherDay, 0, n)
	j := 0
	for i := 0; i < n; i++ {
		date := start.AddDate(0, 0, i)
		for j+1 < len(days) && daysApart(days[j+1].Date, date) < daysApart(days[j].Date, date) {
			j++
		}
		day := days[j]
		day.Date = date
		out = append(out, day)
	}
	return out
}

func daysApart(a, b time.Time) int {
	d := int(a.Sub(b).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}

// SyntheticHistory builds a fallback historical series by projecting the
// first forecast day backwards for the given number of days. Used when the
// archive source is entirely unavailable: the forecast can still run, at
// degraded precision.
func SyntheticHistory(forecast []model.AggregatedWeatherDay, days int) ([]model.AggregatedWeatherDay, error) {
	if len(forecast) == 0 {
		return nil, ErrNoData
	}
	first := forecast[0]
	out := make([]model.AggregatedWeatherDay, 0, days)
	for i := days; i >= 1; i-- {
		day := first
		day.Date = first.Date.AddDate(0, 0, -i)
		out = append(out, day)
	}
	return out, nil
}
