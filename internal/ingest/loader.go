// Package ingest orchestrates grid loads: decode a GRIB2 file, apply the
// product corrections, publish the grid to the store and invalidate rendered
// tiles. Everything file-format specific lives behind the Decoder interface.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msimp2/GaugeVsQPE/internal/domain"
	"github.com/msimp2/GaugeVsQPE/internal/observability"
)

// Load failures the transport layer distinguishes. Decoders wrap their
// failures with one of these so callers can map them without knowing the
// file format.
var (
	// ErrFileNotFound marks a load request for a path that does not exist.
	ErrFileNotFound = errors.New("grib file not found")
	// ErrNoMessages marks a readable file that holds no GRIB2 messages.
	ErrNoMessages = errors.New("grib file contains no messages")
	// ErrDecode marks a file that could not be parsed as GRIB2.
	ErrDecode = errors.New("grib decode failed")
)

// DecodedGrid is raw decoder output: an uncorrected value array and the
// parameter identity resolved from the product table.
type DecodedGrid struct {
	Values []float32
	Param  domain.Parameter
}

// Decoder turns a file on disk into a DecodedGrid.
type Decoder interface {
	Decode(ctx context.Context, path string) (*DecodedGrid, error)
}

// TileInvalidator drops rendered tiles after the store changes.
type TileInvalidator interface {
	PurgeTiles()
}

// Loader runs the decode-correct-publish cycle for one file at a time.
type Loader struct {
	decoder Decoder
	store   *domain.GridStore
	tiles   TileInvalidator
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader over the given decoder and store.
func NewLoader(decoder Decoder, store *domain.GridStore, tiles TileInvalidator, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		decoder: decoder,
		store:   store,
		tiles:   tiles,
		logger:  logger,
		metrics: metrics,
	}
}

// Load decodes the file at path and publishes the resulting grid under
// cacheKey, replacing any previous grid for that key. On any failure the
// store is left untouched.
func (l *Loader) Load(ctx context.Context, path, cacheKey string) (*domain.Grid, error) {
	start := time.Now()

	decoded, err := l.decoder.Decode(ctx, path)
	if err != nil {
		l.metrics.LoadErrors.Inc()
		l.logger.Error("grid load failed", "path", path, "cache_key", cacheKey, "error", err)
		return nil, err
	}
	if len(decoded.Values) != domain.GridWidth*domain.GridHeight {
		l.metrics.LoadErrors.Inc()
		err := fmt.Errorf("%w: got %d values, want %d", ErrDecode,
			len(decoded.Values), domain.GridWidth*domain.GridHeight)
		l.logger.Error("grid load failed", "path", path, "cache_key", cacheKey, "error", err)
		return nil, err
	}

	grid := domain.NewGrid(decoded.Values, decoded.Param)
	l.store.Put(cacheKey, grid)
	l.tiles.PurgeTiles()

	l.metrics.GridsLoaded.Inc()
	l.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	l.metrics.GridsCached.Set(float64(l.store.Len()))

	l.logger.Info("grid loaded",
		"path", path,
		"cache_key", cacheKey,
		"product", grid.Param.Name,
		"class", grid.Class.String(),
		"duration", time.Since(start),
	)
	return grid, nil
}

// Clear removes the grid under cacheKey and drops rendered tiles. It reports
// whether a grid was present.
func (l *Loader) Clear(cacheKey string) bool {
	ok := l.store.Clear(cacheKey)
	if ok {
		l.tiles.PurgeTiles()
		l.metrics.GridsCached.Set(float64(l.store.Len()))
		l.logger.Info("grid cleared", "cache_key", cacheKey)
	}
	return ok
}

// ClearAll empties the store and drops rendered tiles, returning how many
// grids were removed.
func (l *Loader) ClearAll() int {
	n := l.store.ClearAll()
	if n > 0 {
		l.tiles.PurgeTiles()
		l.metrics.GridsCached.Set(0)
		l.logger.Info("store cleared", "grids_removed", n)
	}
	return n
}
