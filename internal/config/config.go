// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig      `yaml:"store" mapstructure:"store"`
	Weather   WeatherConfig    `yaml:"weather" mapstructure:"weather"`
	History   HistoryConfig    `yaml:"history" mapstructure:"history"`
	Model     ModelConfig      `yaml:"model" mapstructure:"model"`
	Locations []model.Location `yaml:"locations" mapstructure:"locations"`
	Server    ServerConfig     `yaml:"server" mapstructure:"server"`
	Log       LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// WeatherConfig configures the Open-Meteo weather source.
type WeatherConfig struct {
	ForecastBaseURL string `yaml:"forecast_base_url" mapstructure:"forecast_base_url"`
	ArchiveBaseURL  string `yaml:"archive_base_url" mapstructure:"archive_base_url"`
	Timezone        string `yaml:"timezone" mapstructure:"timezone"`
	TimeoutSecs     int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries      int    `yaml:"max_retries" mapstructure:"max_retries"`
	HistoryDays     int    `yaml:"history_days" mapstructure:"history_days"`
	ForecastDays    int    `yaml:"forecast_days" mapstructure:"forecast_days"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes"`
	MaxConcurrent   int    `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// HistoryConfig configures the historical demand source.
type HistoryConfig struct {
	CSVURL      string `yaml:"csv_url" mapstructure:"csv_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ModelConfig configures the point-predictor.
type ModelConfig struct {
	WeightsPath string `yaml:"weights_path" mapstructure:"weights_path"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FORECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "forecast.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("weather.forecast_base_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("weather.archive_base_url", "https://archive-api.open-meteo.com/v1/archive")
	v.SetDefault("weather.timezone", "Europe/Zurich")
	v.SetDefault("weather.timeout_secs", 10)
	v.SetDefault("weather.max_retries", 3)
	v.SetDefault("weather.history_days", 14)
	v.SetDefault("weather.forecast_days", 7)
	v.SetDefault("weather.cache_ttl_minutes", 60)
	v.SetDefault("weather.max_concurrent", 5)
	v.SetDefault("history.csv_url", "https://raw.githubusercontent.com/cedricly-git/BADS_Capstone_repo/main/Data/ubereats+time_related_vars.csv")
	v.SetDefault("history.timeout_secs", 15)
	v.SetDefault("model.weights_path", "models/demand.yaml")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if len(cfg.Locations) == 0 {
		cfg.Locations = DefaultLocations()
	}

	return &cfg, nil
}

// DefaultLocations returns the ten most populous Swiss cities. Their
// population shares drive the national weather aggregation.
func DefaultLocations() []model.Location {
	return []model.Location{
		{Name: "Zurich", Latitude: 47.3769, Longitude: 8.5417, Population: 436551},
		{Name: "Geneva", Latitude: 46.2044, Longitude: 6.1432, Population: 209061},
		{Name: "Basel", Latitude: 47.5596, Longitude: 7.5886, Population: 177571},
		{Name: "Lausanne", Latitude: 46.5197, Longitude: 6.6323, Population: 144873},
		{Name: "Bern", Latitude: 46.9481, Longitude: 7.4474, Population: 137995},
		{Name: "Winterthur", Latitude: 47.5056, Longitude: 8.7247, Population: 120376},
		{Name: "Lucerne", Latitude: 47.0502, Longitude: 8.3064, Population: 86234},
		{Name: "St. Gallen", Latitude: 47.4245, Longitude: 9.3767, Population: 78863},
		{Name: "Lugano", Latitude: 46.0101, Longitude: 8.9600, Population: 63629},
		{Name: "Biel", Latitude: 47.1404, Longitude: 7.2471, Population: 56896},
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
