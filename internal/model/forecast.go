package model

import "time"

// ForecastDay is one day of the rendered forecast: the predicted demand, the
// weather inputs it was derived from, and the role-specific narratives.
// Immutable once produced for a run.
type ForecastDay struct {
	Date            time.Time `json:"date"`
	TempMax         float64   `json:"temp_max"`
	TempMin         float64   `json:"temp_min"`
	Precipitation   float64   `json:"precipitation"`
	PredictedDemand float64   `json:"predicted_demand"`
	Tier            Tier      `json:"tier"`
	PercentileBand  string    `json:"percentile_band"`

	// Base recommendations by demand tier, plus weather-conditional
	// adjustment paragraphs, per audience.
	Platform          string `json:"platform"`
	Restaurant        string `json:"restaurant"`
	PlatformWeather   string `json:"platform_weather"`
	RestaurantWeather string `json:"restaurant_weather"`
}

// WeekSummary aggregates a 7-day forecast against the historical distribution.
type WeekSummary struct {
	Average        float64   `json:"average"`
	Total          float64   `json:"total"`
	VsHistoricalPc float64   `json:"vs_historical_pct"` // percent above/below historical mean
	HighDemandDays int       `json:"high_demand_days"`  // days at or above p75
	PeakDate       time.Time `json:"peak_date"`
	PeakDemand     float64   `json:"peak_demand"`
	Assessment     string    `json:"assessment"` // above / below / normal week
}

// ModelInfo describes the fitted point-predictor, for display only.
type ModelInfo struct {
	Name          string  `json:"name"`
	SchemaVersion string  `json:"schema_version"`
	R2            float64 `json:"r2"`
	RMSE          float64 `json:"rmse"`
}

// ForecastRun is the persisted envelope of one pipeline execution.
type ForecastRun struct {
	ID          string        `json:"id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Days        []ForecastDay `json:"days"`
	Week        WeekSummary   `json:"week"`
	Stats       DemandStats   `json:"stats"`
	Model       ModelInfo     `json:"model"`
}
