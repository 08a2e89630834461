package model

import "time"

// Tier is a discrete demand level derived from historical percentile thresholds.
type Tier string

const (
	TierCritical Tier = "CRITICAL"
	TierHigh     Tier = "HIGH"
	TierNormal   Tier = "NORMAL"
	TierLow      Tier = "LOW"
)

// DemandPoint is one observed day of historical demand.
type DemandPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// DemandStats summarizes the historical demand distribution. The percentile
// fields drive tier classification; the rest feed the report comparisons.
type DemandStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`

	// Fallback marks stats substituted from defaults because the historical
	// source was unavailable.
	Fallback bool `json:"fallback,omitempty"`
}

// DemandSeed initializes the demand lag features before any prediction exists.
type DemandSeed struct {
	LastKnown      float64 `json:"last_known"`       // most recent observed demand
	SevenDaysPrior float64 `json:"seven_days_prior"` // demand 7 days before the last observation
}
