package db

import (
	"context"
	"time"
)

// Summary aggregates a location's readings. Averages are nil when no
// non-null values exist in the range.
type Summary struct {
	Lat             float64    `json:"lat"`
	Lon             float64    `json:"lon"`
	Count           int64      `json:"count"`
	FirstTS         *time.Time `json:"first_ts,omitempty"`
	LastTS          *time.Time `json:"last_ts,omitempty"`
	AvgGTI          *float64   `json:"avg_gti,omitempty"`
	MaxGTI          *float64   `json:"max_gti,omitempty"`
	AvgAirTemp      *float64   `json:"avg_air_temp,omitempty"`
	TotalPrecipRate *float64   `json:"total_precipitation_rate,omitempty"`
	AvgWindSpeed10m *float64   `json:"avg_wind_speed_10m,omitempty"`
}

const summaryBase = `
	SELECT COUNT(*),
	       MIN(timestamp),
	       MAX(timestamp),
	       AVG(gti),
	       MAX(gti),
	       AVG(air_temp),
	       SUM(precipitation_rate),
	       AVG(wind_speed_10m)
	FROM irradiance
	WHERE latitude = $1 AND longitude = $2
`

// Summarize computes aggregate statistics for one coordinate.
func (s *Store) Summarize(ctx context.Context, lat, lon float64, since, until *time.Time) (*Summary, error) {
	clause, args := timeRangeClause([]any{lat, lon}, since, until)

	sum := Summary{Lat: lat, Lon: lon}
	row := s.pool.QueryRow(ctx, summaryBase+clause, args...)
	if err := row.Scan(
		&sum.Count,
		&sum.FirstTS,
		&sum.LastTS,
		&sum.AvgGTI,
		&sum.MaxGTI,
		&sum.AvgAirTemp,
		&sum.TotalPrecipRate,
		&sum.AvgWindSpeed10m,
	); err != nil {
		return nil, err
	}
	return &sum, nil
}
