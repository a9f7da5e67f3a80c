package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/models"
)

// Fetcher retrieves observations for one coordinate.
type Fetcher interface {
	Fetch(ctx context.Context, coord models.Coordinate) ([]models.Observation, models.Window, error)
}

// Store is the destination table.
type Store interface {
	InitTable(ctx context.Context) error
	InsertReadings(ctx context.Context, readings []models.Reading) (int, error)
	CountReadings(ctx context.Context) (int64, error)
}

// Options tune a Loader.
type Options struct {
	// DryRun fetches and parses but never touches the store.
	DryRun bool
}

// Loader fetches readings per coordinate and writes them to the store.
type Loader struct {
	fetcher Fetcher
	store   Store
	logger  *zap.SugaredLogger
	opts    Options
	now     func() time.Time
}

// New builds a Loader. store may be nil in dry-run mode.
func New(fetcher Fetcher, store Store, logger *zap.SugaredLogger, opts Options) *Loader {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Loader{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
	}
}

// Result describes what happened for one coordinate.
type Result struct {
	Coordinate models.Coordinate
	Window     models.Window
	Fetched    int
	Inserted   int
	Duration   time.Duration
	Err        error
}

// Summary describes a full run.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Results   []Result
	Inserted  int
	Failed    int
	TableRows int64
}

// Err joins the per-coordinate failures, or returns nil if all succeeded.
func (s Summary) Err() error {
	var errs []error
	for _, r := range s.Results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Coordinate, r.Err))
		}
	}
	return errors.Join(errs...)
}

// LoadCoordinate fetches data for coord and inserts it. A fetch failure
// inserts nothing; an insert failure leaves no rows for this coordinate.
func (l *Loader) LoadCoordinate(ctx context.Context, coord models.Coordinate) (Result, error) {
	started := l.now()
	res := Result{Coordinate: coord}

	observations, window, err := l.fetcher.Fetch(ctx, coord)
	res.Window = window
	if err != nil {
		res.Err = fmt.Errorf("fetch: %w", err)
		res.Duration = l.now().Sub(started)
		return res, res.Err
	}
	res.Fetched = len(observations)

	readings := models.AttachLocation(coord, observations)

	if l.opts.DryRun {
		if len(readings) > 0 {
			l.logger.Infow("dry-run: would insert readings",
				"coordinate", coord.String(),
				"count", len(readings),
				"first", readings[0].Timestamp.Format(time.RFC3339),
				"last", readings[len(readings)-1].Timestamp.Format(time.RFC3339),
			)
		} else {
			l.logger.Infow("dry-run: no readings returned", "coordinate", coord.String())
		}
		res.Duration = l.now().Sub(started)
		return res, nil
	}

	inserted, err := l.store.InsertReadings(ctx, readings)
	res.Inserted = inserted
	res.Duration = l.now().Sub(started)
	if err != nil {
		res.Err = fmt.Errorf("insert: %w", err)
		return res, res.Err
	}

	return res, nil
}

// Run recreates the table, then loads each coordinate in order. Table
// initialization failure aborts the run before any fetch. A failing
// coordinate is recorded in the summary and the run moves on.
func (l *Loader) Run(ctx context.Context, coords []models.Coordinate) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		StartedAt: l.now().UTC(),
		Results:   make([]Result, 0, len(coords)),
	}
	logger := l.logger.With("run_id", summary.RunID)

	if l.opts.DryRun {
		logger.Infow("dry-run: skipping table reset", "coordinates", len(coords))
	} else {
		if err := l.store.InitTable(ctx); err != nil {
			return summary, fmt.Errorf("init table: %w", err)
		}
		logger.Infow("table recreated")
	}

	for _, coord := range coords {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res, err := l.LoadCoordinate(ctx, coord)
		summary.Results = append(summary.Results, res)
		if err != nil {
			summary.Failed++
			logger.Errorw("coordinate failed",
				"coordinate", coord.String(),
				"error", err,
			)
			continue
		}

		summary.Inserted += res.Inserted
		logger.Infow("coordinate loaded",
			"coordinate", coord.String(),
			"start", res.Window.Start.Format(time.RFC3339),
			"end", res.Window.End.Format(time.RFC3339),
			"fetched", res.Fetched,
			"inserted", res.Inserted,
			"duration", res.Duration,
		)
	}

	if !l.opts.DryRun {
		rows, err := l.store.CountReadings(ctx)
		if err != nil {
			logger.Warnw("could not count table rows", "error", err)
		} else {
			summary.TableRows = rows
		}
	}

	logger.Infow("run complete",
		"coordinates", len(coords),
		"failed", summary.Failed,
		"inserted", summary.Inserted,
		"table_rows", summary.TableRows,
	)
	return summary, nil
}
