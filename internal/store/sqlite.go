package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS forecast_runs (
	id           TEXT PRIMARY KEY,
	generated_at DATETIME NOT NULL,
	payload      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS weather_cache (
	id         TEXT PRIMARY KEY,
	window_key TEXT NOT NULL,
	days       TEXT NOT NULL,
	cached_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_forecast_runs_generated_at ON forecast_runs(generated_at);
CREATE INDEX IF NOT EXISTS idx_weather_cache_window ON weather_cache(window_key);
CREATE INDEX IF NOT EXISTS idx_weather_cache_expires_at ON weather_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.ForecastRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal run")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO forecast_runs (id, generated_at, payload) VALUES (?, ?, ?)`,
		run.ID, run.GeneratedAt.UTC(), string(payload),
	)
	return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.ForecastRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM forecast_runs WHERE id = ?`, runID)
	return scanRunPayload(row, runID)
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*model.ForecastRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM forecast_runs ORDER BY generated_at DESC LIMIT 1`)
	return scanRunPayload(row, "latest")
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]RunSummary, error) {
	query := `SELECT payload FROM forecast_runs WHERE 1=1`
	var args []any

	if !filter.Since.IsZero() {
		query += ` AND generated_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	query += ` ORDER BY generated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		var run model.ForecastRun
		if err := json.Unmarshal([]byte(payload), &run); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal run")
		}
		summaries = append(summaries, summarize(&run))
	}
	return summaries, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) GetCachedWeather(ctx context.Context, window string) (*WeatherCache, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, window_key, days, cached_at, expires_at FROM weather_cache
		 WHERE window_key = ? AND expires_at > datetime('now')
		 ORDER BY cached_at DESC LIMIT 1`,
		window,
	)

	var wc WeatherCache
	var daysJSON string
	err := row.Scan(&wc.ID, &wc.Window, &daysJSON, &wc.CachedAt, &wc.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get cached weather")
	}
	if err := json.Unmarshal([]byte(daysJSON), &wc.Days); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal cached weather")
	}
	return &wc, nil
}

func (s *SQLiteStore) SetCachedWeather(ctx context.Context, window string, days []model.AggregatedWeatherDay, ttl time.Duration) error {
	id := uuid.New().String()
	now := time.Now().UTC()

	daysJSON, err := json.Marshal(days)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal weather days")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO weather_cache (id, window_key, days, cached_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		id, window, string(daysJSON), now, now.Add(ttl),
	)
	return eris.Wrap(err, "sqlite: set cached weather")
}

func (s *SQLiteStore) DeleteExpiredWeather(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM weather_cache WHERE expires_at <= datetime('now')`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired weather")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanRunPayload(row scannable, id string) (*model.ForecastRun, error) {
	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", id)
	}

	var run model.ForecastRun
	if err := json.Unmarshal([]byte(payload), &run); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal run")
	}
	return &run, nil
}

func summarize(run *model.ForecastRun) RunSummary {
	return RunSummary{
		ID:          run.ID,
		GeneratedAt: run.GeneratedAt,
		Average:     run.Week.Average,
		PeakDemand:  run.Week.PeakDemand,
		Assessment:  run.Week.Assessment,
	}
}
