// Package openmeteo is a client for the Open-Meteo forecast and archive APIs.
//
// Only the daily aggregation endpoints are covered: the demand pipeline needs
// daily max/min temperature and precipitation sums, for both the forecast
// window (forecast API) and the trailing historical window (archive API).
package openmeteo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/resilience"
)

const (
	// DefaultForecastBaseURL serves the forward-looking daily forecast.
	DefaultForecastBaseURL = "https://api.open-meteo.com/v1/forecast"
	// DefaultArchiveBaseURL serves historical daily reanalysis data.
	DefaultArchiveBaseURL = "https://archive-api.open-meteo.com/v1/archive"

	dailyParams = "temperature_2m_max,temperature_2m_min,precipitation_sum"
	dateLayout  = "2006-01-02"
)

// Daily is one day of weather for a single coordinate.
type Daily struct {
	Date          time.Time
	TempMax       float64
	TempMin       float64
	Precipitation float64
}

// Options configures the client.
type Options struct {
	ForecastBaseURL string
	ArchiveBaseURL  string
	Timezone        string
	UserAgent       string
	Timeout         time.Duration
	MaxRetries      int
}

// Client calls the Open-Meteo HTTP API with rate limiting and retry.
type Client struct {
	httpClient *http.Client
	opts       Options
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

// New creates a client with the given options.
func New(opts Options) *Client {
	if opts.ForecastBaseURL == "" {
		opts.ForecastBaseURL = DefaultForecastBaseURL
	}
	if opts.ArchiveBaseURL == "" {
		opts.ArchiveBaseURL = DefaultArchiveBaseURL
	}
	if opts.Timezone == "" {
		opts.Timezone = "Europe/Zurich"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "forecast-cli/1.0"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	retryCfg := resilience.DefaultRetryConfig()
	if opts.MaxRetries > 0 {
		retryCfg.MaxAttempts = opts.MaxRetries
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
		limiter:    rate.NewLimiter(10, 10),
		retry:      retryCfg,
	}
}

// dailyResponse is the JSON shape shared by both endpoints. Value entries may
// be null when the upstream station has no reading for a day.
type dailyResponse struct {
	Daily struct {
		Time             []string   `json:"time"`
		TemperatureMax   []*float64 `json:"temperature_2m_max"`
		TemperatureMin   []*float64 `json:"temperature_2m_min"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Forecast fetches the daily forecast for the next days at a coordinate.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) ([]Daily, error) {
	params := url.Values{
		"latitude":      {formatCoord(lat)},
		"longitude":     {formatCoord(lon)},
		"daily":         {dailyParams},
		"timezone":      {c.opts.Timezone},
		"forecast_days": {strconv.Itoa(days)},
	}
	return c.get(ctx, c.opts.ForecastBaseURL+"?"+params.Encode())
}

// Archive fetches historical daily weather for [start, end] at a coordinate.
func (c *Client) Archive(ctx context.Context, lat, lon float64, start, end time.Time) ([]Daily, error) {
	params := url.Values{
		"latitude":   {formatCoord(lat)},
		"longitude":  {formatCoord(lon)},
		"start_date": {start.Format(dateLayout)},
		"end_date":   {end.Format(dateLayout)},
		"daily":      {dailyParams},
		"timezone":   {c.opts.Timezone},
	}
	return c.get(ctx, c.opts.ArchiveBaseURL+"?"+params.Encode())
}

func (c *Client) get(ctx context.Context, reqURL string) ([]Daily, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]Daily, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "openmeteo: rate limit")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "openmeteo: build request")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "openmeteo: request")
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("openmeteo: status %d", resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "openmeteo: read body")
		}

		var parsed dailyResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, eris.Wrap(err, "openmeteo: parse response")
		}

		return collectDaily(parsed)
	})
}

// collectDaily zips the parallel arrays into Daily rows, skipping days where
// any value is null.
func collectDaily(resp dailyResponse) ([]Daily, error) {
	d := resp.Daily
	if len(d.Time) == 0 {
		return nil, eris.New("openmeteo: empty daily series")
	}
	if len(d.TemperatureMax) != len(d.Time) || len(d.TemperatureMin) != len(d.Time) || len(d.PrecipitationSum) != len(d.Time) {
		return nil, eris.New("openmeteo: mismatched daily array lengths")
	}

	out := make([]Daily, 0, len(d.Time))
	for i, ts := range d.Time {
		if d.TemperatureMax[i] == nil || d.TemperatureMin[i] == nil || d.PrecipitationSum[i] == nil {
			continue
		}
		date, err := time.Parse(dateLayout, ts)
		if err != nil {
			return nil, eris.Wrapf(err, "openmeteo: parse date %q", ts)
		}
		out = append(out, Daily{
			Date:          date,
			TempMax:       *d.TemperatureMax[i],
			TempMin:       *d.TemperatureMin[i],
			Precipitation: *d.PrecipitationSum[i],
		})
	}
	return out, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
