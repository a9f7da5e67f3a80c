package db

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Location is a distinct coordinate present in the irradiance table.
type Location struct {
	Lat      float64    `json:"lat"`
	Lon      float64    `json:"lon"`
	Readings int64      `json:"readings"`
	FirstTS  *time.Time `json:"first_ts,omitempty"`
	LastTS   *time.Time `json:"last_ts,omitempty"`
}

const listLocationsSQL = `
    SELECT latitude, longitude, COUNT(*), MIN(timestamp), MAX(timestamp)
    FROM irradiance
    GROUP BY latitude, longitude
    ORDER BY latitude, longitude
`

// ListLocations returns every coordinate with its reading count and span.
func (s *Store) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := s.pool.Query(ctx, listLocationsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]Location, 0)
	for rows.Next() {
		var loc Location
		if err := rows.Scan(&loc.Lat, &loc.Lon, &loc.Readings, &loc.FirstTS, &loc.LastTS); err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// Reading is one row of the irradiance table.
type Reading struct {
	Timestamp         time.Time `json:"ts"`
	Lat               float64   `json:"lat"`
	Lon               float64   `json:"lon"`
	AirTemp           *float64  `json:"air_temp"`
	GTI               *float64  `json:"gti"`
	PrecipitationRate *float64  `json:"precipitation_rate"`
	WindDirection10m  *float64  `json:"wind_direction_10m"`
	WindSpeed10m      *float64  `json:"wind_speed_10m"`
}

// ReadingQuery holds filters for retrieving readings.
type ReadingQuery struct {
	Lat   float64
	Lon   float64
	Limit int
	Since *time.Time
	Until *time.Time
}

const readingsBase = `
    SELECT timestamp, latitude, longitude, air_temp, gti, precipitation_rate, wind_direction_10m, wind_speed_10m
    FROM irradiance
    WHERE latitude = $1 AND longitude = $2
`

// FetchReadings returns readings for a coordinate based on the query.
func (s *Store) FetchReadings(ctx context.Context, q ReadingQuery) ([]Reading, error) {
	args := []any{q.Lat, q.Lon}
	clause, args := timeRangeClause(args, q.Since, q.Until)

	order := " ORDER BY timestamp"
	limit := ""
	if q.Limit > 0 {
		limit = " LIMIT $" + strconv.Itoa(len(args)+1)
		args = append(args, q.Limit)
	}

	sql := readingsBase + clause + order + limit

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]Reading, 0)
	for rows.Next() {
		var r Reading
		if err := rows.Scan(
			&r.Timestamp,
			&r.Lat,
			&r.Lon,
			&r.AirTemp,
			&r.GTI,
			&r.PrecipitationRate,
			&r.WindDirection10m,
			&r.WindSpeed10m,
		); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// timeRangeClause appends optional timestamp bounds to a query whose
// existing positional arguments are args.
func timeRangeClause(args []any, since, until *time.Time) (string, []any) {
	clause := ""
	if since != nil {
		clause += " AND timestamp >= $" + strconv.Itoa(len(args)+1)
		args = append(args, *since)
	}
	if until != nil {
		clause += " AND timestamp <= $" + strconv.Itoa(len(args)+1)
		args = append(args, *until)
	}
	return clause, args
}
