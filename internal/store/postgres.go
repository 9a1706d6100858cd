package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/weather"
)

var observationsSchema = []string{
	`CREATE TABLE IF NOT EXISTS observations (
		id           BIGSERIAL PRIMARY KEY,
		location     TEXT             NOT NULL,
		condition    TEXT             NOT NULL,
		temperature  DOUBLE PRECISION NOT NULL,
		feels_like   DOUBLE PRECISION NOT NULL,
		humidity     DOUBLE PRECISION NOT NULL,
		wind_speed   DOUBLE PRECISION NOT NULL,
		observed_at  BIGINT           NOT NULL,
		recorded_at  TIMESTAMPTZ      NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_observations_location_recorded
		ON observations (location, recorded_at)`,
}

// PostgresStore is the durable observation store backed by PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and ensures the observations table
// exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping failed: %w", err)
	}
	for _, stmt := range observationsSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres: schema bootstrap failed: %w", err)
		}
	}
	return &PostgresStore{pool: pool}, nil
}

// SaveObservation persists one observation row.
func (s *PostgresStore) SaveObservation(ctx context.Context, obs weather.Observation) error {
	query := `
		INSERT INTO observations (
			location, condition, temperature, feels_like,
			humidity, wind_speed, observed_at, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		obs.Location, obs.Condition, obs.Temperature, obs.FeelsLike,
		obs.Humidity, obs.WindSpeed, obs.ObservedAt, obs.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save observation: %w", err)
	}
	return nil
}

// Latest returns the most recently recorded observation for a location.
func (s *PostgresStore) Latest(ctx context.Context, location string) (weather.Observation, error) {
	query := `
		SELECT location, condition, temperature, feels_like,
		       humidity, wind_speed, observed_at, recorded_at
		FROM observations
		WHERE location = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	var obs weather.Observation
	err := s.pool.QueryRow(ctx, query, location).Scan(
		&obs.Location, &obs.Condition, &obs.Temperature, &obs.FeelsLike,
		&obs.Humidity, &obs.WindSpeed, &obs.ObservedAt, &obs.RecordedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return weather.Observation{}, weather.ErrNotFound
		}
		return weather.Observation{}, fmt.Errorf("postgres: failed to query latest observation: %w", err)
	}
	return obs, nil
}

// Range returns all observations for a location recorded between from and to,
// both bounds inclusive, ordered by recording time.
func (s *PostgresStore) Range(ctx context.Context, location string, from, to time.Time) ([]weather.Observation, error) {
	query := `
		SELECT location, condition, temperature, feels_like,
		       humidity, wind_speed, observed_at, recorded_at
		FROM observations
		WHERE location = $1 AND recorded_at BETWEEN $2 AND $3
		ORDER BY recorded_at ASC
	`

	rows, err := s.pool.Query(ctx, query, location, from, to)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query observations: %w", err)
	}
	defer rows.Close()

	var results []weather.Observation
	for rows.Next() {
		var obs weather.Observation
		err := rows.Scan(
			&obs.Location, &obs.Condition, &obs.Temperature, &obs.FeelsLike,
			&obs.Humidity, &obs.WindSpeed, &obs.ObservedAt, &obs.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan observation row: %w", err)
		}
		results = append(results, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: row iteration failed: %w", err)
	}
	if len(results) == 0 {
		return nil, weather.ErrNotFound
	}
	return results, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
