package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/forecast"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/history"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/predictor"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/store"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/weather"
	"github.com/cedricly-git/BADS-Capstone-repo/pkg/openmeteo"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "forecast.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline builds the forecast pipeline from configuration: the
// Open-Meteo weather fetcher, the demand history client and the weights
// model.
func initPipeline() (*forecast.Pipeline, error) {
	model, err := predictor.Load(cfg.Model.WeightsPath)
	if err != nil {
		return nil, err
	}

	meteo := openmeteo.New(openmeteo.Options{
		ForecastBaseURL: cfg.Weather.ForecastBaseURL,
		ArchiveBaseURL:  cfg.Weather.ArchiveBaseURL,
		Timezone:        cfg.Weather.Timezone,
		Timeout:         time.Duration(cfg.Weather.TimeoutSecs) * time.Second,
		MaxRetries:      cfg.Weather.MaxRetries,
	})
	fetcher := weather.NewFetcher(meteo, cfg.Locations, cfg.Weather.MaxConcurrent)

	demand := history.NewClient(cfg.History.CSVURL, time.Duration(cfg.History.TimeoutSecs)*time.Second)

	return forecast.NewPipeline(
		fetcher, demand, model, model.Info(),
		cfg.Weather.HistoryDays, cfg.Weather.ForecastDays,
	), nil
}
