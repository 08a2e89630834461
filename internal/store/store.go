// Package store persists forecast runs and caches aggregated weather windows.
package store

import (
	"context"
	"time"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Since  time.Time `json:"since,omitempty"`
	Limit  int       `json:"limit,omitempty"`
	Offset int       `json:"offset,omitempty"`
}

// RunSummary is the lightweight listing view of a stored run.
type RunSummary struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Average     float64   `json:"average"`
	PeakDemand  float64   `json:"peak_demand"`
	Assessment  string    `json:"assessment"`
}

// WeatherCache is a cached aggregated weather window keyed by window name,
// e.g. "forecast:7" or "archive:2026-02-16:2026-03-01".
type WeatherCache struct {
	ID        string                       `json:"id"`
	Window    string                       `json:"window"`
	Days      []model.AggregatedWeatherDay `json:"days"`
	CachedAt  time.Time                    `json:"cached_at"`
	ExpiresAt time.Time                    `json:"expires_at"`
}

// Store defines the persistence interface for the forecast pipeline.
type Store interface {
	// Runs
	SaveRun(ctx context.Context, run *model.ForecastRun) error
	GetRun(ctx context.Context, runID string) (*model.ForecastRun, error)
	LatestRun(ctx context.Context) (*model.ForecastRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]RunSummary, error)

	// Weather cache
	GetCachedWeather(ctx context.Context, window string) (*WeatherCache, error)
	SetCachedWeather(ctx context.Context, window string, days []model.AggregatedWeatherDay, ttl time.Duration) error
	DeleteExpiredWeather(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
