package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it in
// tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS forecast_runs (
	id           TEXT PRIMARY KEY,
	generated_at TIMESTAMPTZ NOT NULL,
	payload      JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS weather_cache (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	window_key TEXT NOT NULL,
	days       JSONB NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_forecast_runs_generated_at ON forecast_runs(generated_at);
CREATE INDEX IF NOT EXISTS idx_weather_cache_window ON weather_cache(window_key);
CREATE INDEX IF NOT EXISTS idx_weather_cache_expires_at ON weather_cache(expires_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run *model.ForecastRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal run")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO forecast_runs (id, generated_at, payload) VALUES ($1, $2, $3)`,
		run.ID, run.GeneratedAt.UTC(), payload,
	)
	return eris.Wrapf(err, "postgres: insert run %s", run.ID)
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.ForecastRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT payload FROM forecast_runs WHERE id = $1`, runID)
	return scanPgRun(row, runID)
}

func (s *PostgresStore) LatestRun(ctx context.Context) (*model.ForecastRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT payload FROM forecast_runs ORDER BY generated_at DESC LIMIT 1`)
	return scanPgRun(row, "latest")
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]RunSummary, error) {
	query := `SELECT payload FROM forecast_runs WHERE 1=1`
	var args []any

	if !filter.Since.IsZero() {
		args = append(args, filter.Since.UTC())
		query += ` AND generated_at >= $1`
	}
	query += ` ORDER BY generated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		var run model.ForecastRun
		if err := json.Unmarshal(payload, &run); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal run")
		}
		summaries = append(summaries, summarize(&run))
	}
	return summaries, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) GetCachedWeather(ctx context.Context, window string) (*WeatherCache, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, window_key, days, cached_at, expires_at FROM weather_cache
		 WHERE window_key = $1 AND expires_at > now()
		 ORDER BY cached_at DESC LIMIT 1`,
		window,
	)

	var wc WeatherCache
	var daysJSON []byte
	err := row.Scan(&wc.ID, &wc.Window, &daysJSON, &wc.CachedAt, &wc.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get cached weather")
	}
	if err := json.Unmarshal(daysJSON, &wc.Days); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal cached weather")
	}
	return &wc, nil
}

func (s *PostgresStore) SetCachedWeather(ctx context.Context, window string, days []model.AggregatedWeatherDay, ttl time.Duration) error {
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal weather days")
	}
	now := time.Now().UTC()

	_, err = s.pool.Exec(ctx,
		`INSERT INTO weather_cache (id, window_key, days, cached_at, expires_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), window, daysJSON, now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: set cached weather")
}

func (s *PostgresStore) DeleteExpiredWeather(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM weather_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired weather")
	}
	return int(tag.RowsAffected()), nil
}

func scanPgRun(row pgx.Row, id string) (*model.ForecastRun, error) {
	var payload []byte
	err := row.Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", id)
	}

	var run model.ForecastRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal run")
	}
	return &run, nil
}
