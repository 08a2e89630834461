package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/store"
)

type stubStore struct {
	runs  map[string]*model.ForecastRun
	saved []*model.ForecastRun
}

func newStubStore() *stubStore {
	return &stubStore{runs: map[string]*model.ForecastRun{}}
}

func (s *stubStore) SaveRun(ctx context.Context, run *model.ForecastRun) error {
	s.runs[run.ID] = run
	s.saved = append(s.saved, run)
	return nil
}

func (s *stubStore) GetRun(ctx context.Context, runID string) (*model.ForecastRun, error) {
	run, ok := s.runs[runID]
	if !ok {
		return nil, eris.Errorf("run not found: %s", runID)
	}
	return run, nil
}

func (s *stubStore) LatestRun(ctx context.Context) (*model.ForecastRun, error) {
	var latest *model.ForecastRun
	for _, run := range s.runs {
		if latest == nil || run.GeneratedAt.After(latest.GeneratedAt) {
			latest = run
		}
	}
	if latest == nil {
		return nil, eris.New("run not found: latest")
	}
	return latest, nil
}

func (s *stubStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]store.RunSummary, error) {
	var out []store.RunSummary
	for _, run := range s.runs {
		out = append(out, store.RunSummary{ID: run.ID, GeneratedAt: run.GeneratedAt})
	}
	return out, nil
}

func (s *stubStore) GetCachedWeather(ctx context.Context, window string) (*store.WeatherCache, error) {
	return nil, nil
}

func (s *stubStore) SetCachedWeather(ctx context.Context, window string, days []model.AggregatedWeatherDay, ttl time.Duration) error {
	return nil
}

func (s *stubStore) DeleteExpiredWeather(ctx context.Context) (int, error) { return 0, nil }
func (s *stubStore) Migrate(ctx context.Context) error                    { return nil }
func (s *stubStore) Close() error                                         { return nil }

type stubPipeline struct {
	run *model.ForecastRun
	err error
}

func (p *stubPipeline) Run(ctx context.Context) (*model.ForecastRun, error) {
	return p.run, p.err
}

func sampleRun(id string) *model.ForecastRun {
	return &model.ForecastRun{
		ID:          id,
		GeneratedAt: time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
		Days: []model.ForecastDay{
			{
				Date:            time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				TempMax:         18,
				TempMin:         8,
				PredictedDemand: 2100,
				Tier:            model.TierHigh,
			},
		},
		Week:  model.WeekSummary{Average: 2100, PeakDemand: 2100},
		Model: model.ModelInfo{Name: "CatBoost Regression", SchemaVersion: "v1"},
	}
}

func newTestServer(st store.Store, p PipelineRunner) *httptest.Server {
	return httptest.NewServer(New(st, p).Router())
}

func TestHealth(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubPipeline{})
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestForecast_ServesLatest(t *testing.T) {
	st := newStubStore()
	require.NoError(t, st.SaveRun(context.Background(), sampleRun("run-1")))
	srv := newTestServer(st, &stubPipeline{err: eris.New("should not run")})
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/forecast")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run model.ForecastRun
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, "run-1", run.ID)
}

func TestForecast_GeneratesWhenEmpty(t *testing.T) {
	st := newStubStore()
	srv := newTestServer(st, &stubPipeline{run: sampleRun("fresh")})
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/forecast")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run model.ForecastRun
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, "fresh", run.ID)
	// The generated run was also persisted.
	require.Len(t, st.saved, 1)
}

func TestForecast_PipelineFailure(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubPipeline{err: eris.New("open-meteo down")})
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/forecast")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestRefresh(t *testing.T) {
	st := newStubStore()
	require.NoError(t, st.SaveRun(context.Background(), sampleRun("stale")))
	srv := newTestServer(st, &stubPipeline{run: sampleRun("fresh")})
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/api/forecast/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run model.ForecastRun
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, "fresh", run.ID)
}

func TestExport_CSV(t *testing.T) {
	st := newStubStore()
	require.NoError(t, st.SaveRun(context.Background(), sampleRun("run-1")))
	srv := newTestServer(st, &stubPipeline{})
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/forecast/export?format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "uber_eats_forecast_20260302.csv")
}

func TestExport_UnknownFormat(t *testing.T) {
	st := newStubStore()
	require.NoError(t, st.SaveRun(context.Background(), sampleRun("run-1")))
	srv := newTestServer(st, &stubPipeline{})
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/forecast/export?format=pdf")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExport_NoRuns(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubPipeline{})
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/forecast/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetRun(t *testing.T) {
	st := newStubStore()
	require.NoError(t, st.SaveRun(context.Background(), sampleRun("run-1")))
	srv := newTestServer(st, &stubPipeline{})
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/runs/run-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	missing, err := http.Get(srv.URL + "/api/runs/other")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestListRuns(t *testing.T) {
	st := newStubStore()
	require.NoError(t, st.SaveRun(context.Background(), sampleRun("run-1")))
	srv := newTestServer(st, &stubPipeline{})
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/runs?limit=10")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var runs []store.RunSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	assert.Len(t, runs, 1)

	bad, err := http.Get(srv.URL + "/api/runs?since=tomorrow")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}
