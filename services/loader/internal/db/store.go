package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/models"
)

// Store binds the table helpers to a pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an open pool. The caller keeps ownership of the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// InitTable drops and recreates the destination table.
func (s *Store) InitTable(ctx context.Context) error {
	return InitTable(ctx, s.pool)
}

// InsertReadings stores readings atomically.
func (s *Store) InsertReadings(ctx context.Context, readings []models.Reading) (int, error) {
	return InsertReadings(ctx, s.pool, readings)
}

// CountReadings returns the table's row count.
func (s *Store) CountReadings(ctx context.Context) (int64, error) {
	return CountReadings(ctx, s.pool)
}
