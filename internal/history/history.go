// Package history retrieves the historical demand series and derives the
// distribution statistics and lag seed the forecast pipeline needs.
package history

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/resilience"
)

// Client fetches the historical demand CSV over HTTP.
type Client struct {
	httpClient *http.Client
	url        string
	retry      resilience.RetryConfig
}

// NewClient creates a client for the given CSV URL.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		retry:      resilience.DefaultRetryConfig(),
	}
}

// csvRecord mirrors the source CSV's columns of interest; extra columns are
// ignored by the decoder.
type csvRecord struct {
	Day      string  `csv:"Day"`
	Searches float64 `csv:"estimated_daily_searches"`
}

// Fetch downloads and parses the demand series, sorted ascending by date.
func (c *Client) Fetch(ctx context.Context) ([]model.DemandPoint, error) {
	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, eris.Wrap(err, "history: build request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "history: request")
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("history: status %d", resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}

	return ParseCSV(body)
}

// ParseCSV decodes the demand series from raw CSV bytes.
func ParseCSV(data []byte) ([]model.DemandPoint, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	dec, err := csvutil.NewDecoder(reader)
	if err != nil {
		return nil, eris.Wrap(err, "history: csv header")
	}

	var points []model.DemandPoint
	for {
		var rec csvRecord
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "history: csv decode")
		}

		date, err := parseDay(rec.Day)
		if err != nil {
			return nil, err
		}
		points = append(points, model.DemandPoint{Date: date, Value: rec.Searches})
	}

	if len(points) == 0 {
		return nil, eris.New("history: empty demand series")
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func parseDay(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "02.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Truncate(24 * time.Hour), nil
		}
	}
	return time.Time{}, eris.Errorf("history: unparseable date %q", s)
}
