package weather

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/resilience"
	"github.com/cedricly-git/BADS-Capstone-repo/pkg/openmeteo"
)

// Source provides per-coordinate daily weather. *openmeteo.Client satisfies it.
type Source interface {
	Forecast(ctx context.Context, lat, lon float64, days int) ([]openmeteo.Daily, error)
	Archive(ctx context.Context, lat, lon float64, start, end time.Time) ([]openmeteo.Daily, error)
}

// Fetcher fans fetches out across locations and tags each observation with
// the location's population weight.
type Fetcher struct {
	source        Source
	locations     []model.Location
	weights       map[string]float64
	maxConcurrent int
	breakers      map[string]*resilience.CircuitBreaker
}

// NewFetcher creates a fetcher over the given location set.
func NewFetcher(source Source, locations []model.Location, maxConcurrent int) *Fetcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	breakers := make(map[string]*resilience.CircuitBreaker, len(locations))
	for _, loc := range locations {
		breakers[loc.Name] = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})
	}
	return &Fetcher{
		source:        source,
		locations:     locations,
		weights:       Weights(locations),
		maxConcurrent: maxConcurrent,
		breakers:      breakers,
	}
}

// Weights exposes the population weights, for reporting and tests.
func (f *Fetcher) Weights() map[string]float64 {
	return f.weights
}

// FetchForecast retrieves the forecast window for every location. A failing
// location is excluded, not fatal; zero reporting locations yields ErrNoData.
func (f *Fetcher) FetchForecast(ctx context.Context, days int) ([]model.WeatherObservation, error) {
	return f.fanOut(ctx, "forecast", func(ctx context.Context, loc model.Location) ([]openmeteo.Daily, error) {
		return f.source.Forecast(ctx, loc.Latitude, loc.Longitude, days)
	})
}

// FetchHistory retrieves the historical window [start, end] for every location.
func (f *Fetcher) FetchHistory(ctx context.Context, start, end time.Time) ([]model.WeatherObservation, error) {
	return f.fanOut(ctx, "history", func(ctx context.Context, loc model.Location) ([]openmeteo.Daily, error) {
		return f.source.Archive(ctx, loc.Latitude, loc.Longitude, start, end)
	})
}

// fanOut runs one fetch per location concurrently. Per-location failures are
// isolated: they log a warning and contribute nothing to the result.
func (f *Fetcher) fanOut(ctx context.Context, window string, fetch func(ctx context.Context, loc model.Location) ([]openmeteo.Daily, error)) ([]model.WeatherObservation, error) {
	var mu sync.Mutex
	var observations []model.WeatherObservation

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)

	for _, loc := range f.locations {
		loc := loc
		g.Go(func() error {
			cb := f.breakers[loc.Name]
			days, err := resilience.ExecuteVal(gctx, cb, func(ctx context.Context) ([]openmeteo.Daily, error) {
				return fetch(ctx, loc)
			})
			if err != nil {
				zap.L().Warn("weather: location fetch failed, excluding from aggregate",
					zap.String("window", window),
					zap.String("location", loc.Name),
					zap.Error(err),
				)
				return nil
			}

			weight := f.weights[loc.Name]
			rows := make([]model.WeatherObservation, 0, len(days))
			for _, d := range days {
				rows = append(rows, model.WeatherObservation{
					Location:      loc.Name,
					Date:          d.Date,
					TempMax:       d.TempMax,
					TempMin:       d.TempMin,
					Precipitation: d.Precipitation,
					Weight:        weight,
				})
			}

			mu.Lock()
			observations = append(observations, rows...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(observations) == 0 {
		return nil, ErrNoData
	}
	return observations, nil
}
