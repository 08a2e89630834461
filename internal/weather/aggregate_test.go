package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/config"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeights_SumToOne(t *testing.T) {
	weights := Weights(config.DefaultLocations())
	require.Len(t, weights, 10)

	sum := 0.0
	for _, w := range weights {
		assert.Positive(t, w)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestWeights_Proportional(t *testing.T) {
	weights := Weights([]model.Location{
		{Name: "A", Population: 300},
		{Name: "B", Population: 100},
	})
	assert.InDelta(t, 0.75, weights["A"], 1e-9)
	assert.InDelta(t, 0.25, weights["B"], 1e-9)
}

func TestWeights_ZeroPopulation(t *testing.T) {
	weights := Weights([]model.Location{{Name: "A", Population: 0}})
	assert.Empty(t, weights)
}

func TestAggregate_WeightedSum(t *testing.T) {
	d := date(2026, 3, 2)
	obs := []model.WeatherObservation{
		{Location: "A", Date: d, TempMax: 10, TempMin: 2, Precipitation: 4, Weight: 0.75},
		{Location: "B", Date: d, TempMax: 20, TempMin: 6, Precipitation: 0, Weight: 0.25},
	}

	days, err := Aggregate(obs)
	require.NoError(t, err)
	require.Len(t, days, 1)

	// Exactly the weighted sum formula.
	assert.InDelta(t, 10*0.75+20*0.25, days[0].TempMax, 1e-9)
	assert.InDelta(t, 2*0.75+6*0.25, days[0].TempMin, 1e-9)
	assert.InDelta(t, 4*0.75, days[0].Precipitation, 1e-9)
	assert.Equal(t, d, days[0].Date)
}

func TestAggregate_MissingLocationNotRenormalized(t *testing.T) {
	d1 := date(2026, 3, 2)
	d2 := date(2026, 3, 3)
	obs := []model.WeatherObservation{
		{Location: "A", Date: d1, TempMax: 10, Weight: 0.75},
		{Location: "B", Date: d1, TempMax: 10, Weight: 0.25},
		// B is missing on d2: the aggregate only carries A's share.
		{Location: "A", Date: d2, TempMax: 10, Weight: 0.75},
	}

	days, err := Aggregate(obs)
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.InDelta(t, 10.0, days[0].TempMax, 1e-9)
	assert.InDelta(t, 7.5, days[1].TempMax, 1e-9)
}

func TestAggregate_SortedByDate(t *testing.T) {
	obs := []model.WeatherObservation{
		{Location: "A", Date: date(2026, 3, 4), Weight: 1},
		{Location: "A", Date: date(2026, 3, 2), Weight: 1},
		{Location: "A", Date: date(2026, 3, 3), Weight: 1},
	}

	days, err := Aggregate(obs)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.True(t, days[0].Date.Before(days[1].Date))
	assert.True(t, days[1].Date.Before(days[2].Date))
}

func TestAggregate_Empty(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFillWindow_GapFilledFromNearest(t *testing.T) {
	days := []model.AggregatedWeatherDay{
		{Date: date(2026, 2, 20), TempMax: 5},
		{Date: date(2026, 2, 22), TempMax: 11},
	}

	filled := FillWindow(days, date(2026, 2, 20), date(2026, 2, 22))
	require.Len(t, filled, 3)

	// The missing 21st takes the nearer day's values; on a tie the earlier
	// day wins. Dates are rewritten to the slot being filled.
	assert.Equal(t, date(2026, 2, 21), filled[1].Date)
	assert.InDelta(t, 5.0, filled[1].TempMax, 1e-9)
	assert.InDelta(t, 11.0, filled[2].TempMax, 1e-9)
}

func TestFillWindow_TruncatedTailExtended(t *testing.T) {
	// The archive reports recent days as null, so a window can stop short
	// of its requested end.
	days := []model.AggregatedWeatherDay{
		{Date: date(2026, 2, 25), TempMax: 4},
		{Date: date(2026, 2, 26), TempMax: 6},
	}

	filled := FillWindow(days, date(2026, 2, 25), date(2026, 3, 1))
	require.Len(t, filled, 5)
	for i, day := range filled {
		assert.Equal(t, date(2026, 2, 25).AddDate(0, 0, i), day.Date)
	}
	assert.InDelta(t, 6.0, filled[4].TempMax, 1e-9)
}

func TestFillWindow_CompleteWindowUnchanged(t *testing.T) {
	days := []model.AggregatedWeatherDay{
		{Date: date(2026, 2, 20), TempMax: 5},
		{Date: date(2026, 2, 21), TempMax: 7},
		{Date: date(2026, 2, 22), TempMax: 9},
	}

	filled := FillWindow(days, date(2026, 2, 20), date(2026, 2, 22))
	assert.Equal(t, days, filled)
}

func TestFillWindow_Empty(t *testing.T) {
	assert.Nil(t, FillWindow(nil, date(2026, 2, 20), date(2026, 2, 22)))
}

func TestSyntheticHistory(t *testing.T) {
	forecast := []model.AggregatedWeatherDay{
		{Date: date(2026, 3, 2), TempMax: 8, TempMin: 1, Precipitation: 2},
		{Date: date(2026, 3, 3), TempMax: 12, TempMin: 3, Precipitation: 0},
	}

	hist, err := SyntheticHistory(forecast, 14)
	require.NoError(t, err)
	require.Len(t, hist, 14)

	// Dates run back from the day before the forecast start, with the first
	// forecast day's weather repeated.
	assert.Equal(t, date(2026, 2, 16), hist[0].Date)
	assert.Equal(t, date(2026, 3, 1), hist[13].Date)
	for _, day := range hist {
		assert.InDelta(t, 8.0, day.TempMax, 1e-9)
		assert.InDelta(t, 2.0, day.Precipitation, 1e-9)
	}
}

func TestSyntheticHistory_EmptyForecast(t *testing.T) {
	_, err := SyntheticHistory(nil, 14)
	assert.ErrorIs(t, err, ErrNoData)
}
