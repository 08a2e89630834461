// Package model holds the shared domain types for the demand forecast pipeline.
package model

import "time"

// Location is a city whose weather contributes to the national aggregate.
// Population determines its share of the population-weighted average.
type Location struct {
	Name       string  `json:"name" yaml:"name" mapstructure:"name"`
	Latitude   float64 `json:"latitude" yaml:"latitude" mapstructure:"latitude"`
	Longitude  float64 `json:"longitude" yaml:"longitude" mapstructure:"longitude"`
	Population int64   `json:"population" yaml:"population" mapstructure:"population"`
}

// WeatherObservation is a single location's daily weather reading, tagged with
// the location's population weight. Immutable once produced by the source.
type WeatherObservation struct {
	Location      string    `json:"location"`
	Date          time.Time `json:"date"`
	TempMax       float64   `json:"temp_max"`
	TempMin       float64   `json:"temp_min"`
	Precipitation float64   `json:"precipitation"`
	Weight        float64   `json:"weight"`
}

// AggregatedWeatherDay is the population-weighted national weather for one
// calendar day. At most one row exists per date.
type AggregatedWeatherDay struct {
	Date          time.Time `json:"date"`
	TempMax       float64   `json:"temp_max"`
	TempMin       float64   `json:"temp_min"`
	Precipitation float64   `json:"precipitation"`
}

// AvgTemp returns the midpoint of the daily min and max temperature.
func (d AggregatedWeatherDay) AvgTemp() float64 {
	return (d.TempMax + d.TempMin) / 2
}
