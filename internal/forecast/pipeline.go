package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/classify"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/features"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/history"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/report"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/store"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/weather"
)

// WeatherSource supplies per-location weather for both windows.
type WeatherSource interface {
	FetchForecast(ctx context.Context, days int) ([]model.WeatherObservation, error)
	FetchHistory(ctx context.Context, start, end time.Time) ([]model.WeatherObservation, error)
}

// DemandSource supplies the historical demand series.
type DemandSource interface {
	Fetch(ctx context.Context) ([]model.DemandPoint, error)
}

// WeatherCacheStore caches aggregated weather windows between runs.
type WeatherCacheStore interface {
	GetCachedWeather(ctx context.Context, window string) (*store.WeatherCache, error)
	SetCachedWeather(ctx context.Context, window string, days []model.AggregatedWeatherDay, ttl time.Duration) error
	DeleteExpiredWeather(ctx context.Context) (int, error)
}

// Pipeline wires the data sources, feature builder, sequential forecaster and
// classifier into one run.
type Pipeline struct {
	Weather      WeatherSource
	Demand       DemandSource
	Predictor    Predictor
	Model        model.ModelInfo
	HistoryDays  int
	ForecastDays int

	cache    WeatherCacheStore
	cacheTTL time.Duration
	now      func() time.Time
}

// NewPipeline assembles a pipeline with the given collaborators.
func NewPipeline(w WeatherSource, d DemandSource, p Predictor, info model.ModelInfo, historyDays, forecastDays int) *Pipeline {
	return &Pipeline{
		Weather:      w,
		Demand:       d,
		Predictor:    p,
		Model:        info,
		HistoryDays:  historyDays,
		ForecastDays: forecastDays,
		now:          time.Now,
	}
}

// WithCache enables read-through caching of aggregated weather windows.
func (p *Pipeline) WithCache(cache WeatherCacheStore, ttl time.Duration) *Pipeline {
	p.cache = cache
	p.cacheTTL = ttl
	return p
}

// WithNow overrides the clock, for tests.
func (p *Pipeline) WithNow(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run executes one full forecast. A missing forecast window is fatal; a
// missing historical weather window is substituted with a synthetic
// projection of the forecast's first day, and a missing demand series falls
// back to the documented default distribution and seed.
func (p *Pipeline) Run(ctx context.Context) (*model.ForecastRun, error) {
	forecastAgg, err := p.forecastWeather(ctx)
	if err != nil {
		return nil, err
	}

	historicalAgg := p.historicalWeather(ctx, forecastAgg)

	stats, seed := p.demandBaseline(ctx)

	table, err := features.Build(historicalAgg, forecastAgg, seed)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build features")
	}

	predictions, err := Sequential(table, p.Predictor)
	if err != nil {
		return nil, err
	}

	days := make([]model.ForecastDay, len(predictions))
	for i, y := range predictions {
		row := table.Rows[table.ForecastStart+i]
		rec := classify.Classify(y, stats)
		platformWx, restaurantWx := classify.WeatherAdjustment(
			row.TempMax, row.TempMin, row.Precipitation, row.IsHoliday)

		days[i] = model.ForecastDay{
			Date:              row.Date,
			TempMax:           row.TempMax,
			TempMin:           row.TempMin,
			Precipitation:     row.Precipitation,
			PredictedDemand:   y,
			Tier:              rec.Tier,
			PercentileBand:    classify.PercentileBand(y, stats),
			Platform:          rec.Platform,
			Restaurant:        rec.Restaurant,
			PlatformWeather:   platformWx,
			RestaurantWeather: restaurantWx,
		}
	}

	return &model.ForecastRun{
		ID:          uuid.NewString(),
		GeneratedAt: p.now().UTC(),
		Days:        days,
		Week:        report.Summarize(days, stats),
		Stats:       stats,
		Model:       p.Model,
	}, nil
}

// forecastWeather fetches and aggregates the forecast window. Failure is
// fatal: without forecast weather no meaningful prediction is possible.
func (p *Pipeline) forecastWeather(ctx context.Context) ([]model.AggregatedWeatherDay, error) {
	key := fmt.Sprintf("forecast:%d", p.ForecastDays)
	if cached := p.cachedWindow(ctx, key); cached != nil {
		return cached, nil
	}

	obs, err := p.Weather.FetchForecast(ctx, p.ForecastDays)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: forecast weather")
	}
	agg, err := weather.Aggregate(obs)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: aggregate forecast weather")
	}
	p.storeWindow(ctx, key, agg)
	return agg, nil
}

// historicalWeather fetches the archive window preceding the forecast. Dates
// the archive omits are filled from the nearest reported day; on total
// failure it projects the forecast's first day backwards. Either way the
// feature table's lag and rolling columns stay well defined.
func (p *Pipeline) historicalWeather(ctx context.Context, forecastAgg []model.AggregatedWeatherDay) []model.AggregatedWeatherDay {
	end := forecastAgg[0].Date.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(p.HistoryDays - 1))
	key := fmt.Sprintf("archive:%s:%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	if cached := p.cachedWindow(ctx, key); cached != nil {
		return cached
	}

	obs, err := p.Weather.FetchHistory(ctx, start, end)
	if err == nil {
		if agg, aggErr := weather.Aggregate(obs); aggErr == nil {
			filled := weather.FillWindow(agg, start, end)
			if len(filled) != len(agg) {
				zap.L().Warn("historical weather window incomplete, filled from nearest days",
					zap.Int("have", len(agg)),
					zap.Int("want", len(filled)))
			}
			p.storeWindow(ctx, key, filled)
			return filled
		} else {
			err = aggErr
		}
	}

	zap.L().Warn("historical weather unavailable, projecting forecast backwards",
		zap.Error(err),
		zap.Int("days", p.HistoryDays))
	synthetic, synthErr := weather.SyntheticHistory(forecastAgg, p.HistoryDays)
	if synthErr != nil {
		// Unreachable with a non-empty forecast window.
		return nil
	}
	return synthetic
}

func (p *Pipeline) cachedWindow(ctx context.Context, key string) []model.AggregatedWeatherDay {
	if p.cache == nil {
		return nil
	}
	wc, err := p.cache.GetCachedWeather(ctx, key)
	if err != nil {
		zap.L().Warn("weather cache read failed", zap.String("window", key), zap.Error(err))
		return nil
	}
	if wc == nil {
		return nil
	}
	return wc.Days
}

func (p *Pipeline) storeWindow(ctx context.Context, key string, days []model.AggregatedWeatherDay) {
	if p.cache == nil {
		return
	}
	if pruned, err := p.cache.DeleteExpiredWeather(ctx); err != nil {
		zap.L().Warn("weather cache prune failed", zap.Error(err))
	} else if pruned > 0 {
		zap.L().Debug("pruned expired weather windows", zap.Int("count", pruned))
	}
	if err := p.cache.SetCachedWeather(ctx, key, days, p.cacheTTL); err != nil {
		zap.L().Warn("weather cache write failed", zap.String("window", key), zap.Error(err))
	}
}

// demandBaseline fetches the demand series and derives the distribution and
// lag seed, falling back to the documented defaults when the source fails.
func (p *Pipeline) demandBaseline(ctx context.Context) (model.DemandStats, model.DemandSeed) {
	points, err := p.Demand.Fetch(ctx)
	if err != nil {
		zap.L().Warn("demand history unavailable, using fallback distribution", zap.Error(err))
		return history.DefaultStats(), history.DefaultSeed()
	}
	return history.Stats(points), history.Seed(points)
}
