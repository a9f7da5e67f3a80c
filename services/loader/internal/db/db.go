package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/models"
)

// Table is the destination table name.
const Table = "irradiance"

const dropTableSQL = `DROP TABLE IF EXISTS irradiance`

const createTableSQL = `CREATE TABLE irradiance (
    timestamp TIMESTAMPTZ,
    latitude FLOAT,
    longitude FLOAT,
    air_temp FLOAT,
    gti FLOAT,
    precipitation_rate FLOAT,
    wind_direction_10m FLOAT,
    wind_speed_10m FLOAT
)`

const insertReadingSQL = `INSERT INTO irradiance (timestamp, latitude, longitude, air_temp, gti, precipitation_rate, wind_direction_10m, wind_speed_10m)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

// Connect opens a pgx pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// InitTable drops and recreates the irradiance table in one transaction.
// Any previously stored rows are lost.
func InitTable(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, dropTableSQL); err != nil {
		return fmt.Errorf("drop table %s: %w", Table, err)
	}
	if _, err := tx.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create table %s: %w", Table, err)
	}

	return tx.Commit(ctx)
}

// InsertReadings writes all readings in a single transaction. Either every
// reading is stored or none is.
func InsertReadings(ctx context.Context, pool *pgxpool.Pool, readings []models.Reading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, r := range readings {
		batch.Queue(insertReadingSQL,
			r.Timestamp,
			r.Latitude,
			r.Longitude,
			r.AirTemp,
			r.GTI,
			r.PrecipitationRate,
			r.WindDirection10m,
			r.WindSpeed10m,
		)
	}

	res := tx.SendBatch(ctx, batch)
	for i := range readings {
		if _, err := res.Exec(); err != nil {
			res.Close()
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err := res.Close(); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(readings), nil
}

// CountReadings returns the number of rows currently in the table.
func CountReadings(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var n int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM irradiance`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
