package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRun(id string, generatedAt time.Time) *model.ForecastRun {
	return &model.ForecastRun{
		ID:          id,
		GeneratedAt: generatedAt,
		Days: []model.ForecastDay{
			{
				Date:            time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				TempMax:         18,
				TempMin:         8,
				PredictedDemand: 2100,
				Tier:            model.TierHigh,
			},
		},
		Week:  model.WeekSummary{Average: 2100, Total: 2100, PeakDemand: 2100, Assessment: "Typical demand expected this week"},
		Stats: model.DemandStats{Mean: 2000, P90: 3000},
		Model: model.ModelInfo{Name: "CatBoost Regression", SchemaVersion: "v1"},
	}
}

func TestSQLiteStore_SaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := testRun("run-1", time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, model.TierHigh, got.Days[0].Tier)
	assert.InDelta(t, 2100.0, got.Week.PeakDemand, 1e-9)
}

func TestSQLiteStore_GetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_LatestRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, testRun("older", time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC))))
	require.NoError(t, s.SaveRun(ctx, testRun("newer", time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC))))

	got, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "newer", got.ID)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveRun(ctx, testRun(id, time.Date(2026, 3, 1+i, 6, 0, 0, 0, time.UTC))))
	}

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID) // newest first

	since, err := s.ListRuns(ctx, RunFilter{Since: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Len(t, since, 2)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "b", limited[0].ID)
}

func TestSQLiteStore_WeatherCache(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	days := []model.AggregatedWeatherDay{
		{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), TempMax: 18, TempMin: 8, Precipitation: 1.2},
	}
	require.NoError(t, s.SetCachedWeather(ctx, "forecast:7", days, time.Hour))

	got, err := s.GetCachedWeather(ctx, "forecast:7")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Days, 1)
	assert.InDelta(t, 18.0, got.Days[0].TempMax, 1e-9)
}

func TestSQLiteStore_WeatherCache_Miss(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetCachedWeather(context.Background(), "archive:unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_WeatherCache_Expired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	days := []model.AggregatedWeatherDay{{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}}
	require.NoError(t, s.SetCachedWeather(ctx, "forecast:7", days, -time.Minute))

	got, err := s.GetCachedWeather(ctx, "forecast:7")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := s.DeleteExpiredWeather(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
