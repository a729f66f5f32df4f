package filestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/volcano-atlas/internal/domain"
	"github.com/couchcryptid/volcano-atlas/internal/observability"
)

// ErrLoad marks input files that are missing or malformed. The dashboard
// cannot start without both inputs.
var ErrLoad = errors.New("load input")

const (
	kindVolcanoes = "volcanoes"
	kindGeometry  = "geometry"
)

// Loader reads the volcano table and the geometry document, caching parsed
// results by absolute path. Cached values are shared; callers must not
// modify them.
type Loader struct {
	volcanoes *fileMemo[[]domain.VolcanoRecord]
	geometry  *fileMemo[*domain.GeometryDocument]
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewLoader creates a Loader holding up to cacheSize parsed files per kind.
func NewLoader(cacheSize int, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		volcanoes: newFileMemo[[]domain.VolcanoRecord](cacheSize),
		geometry:  newFileMemo[*domain.GeometryDocument](cacheSize),
		logger:    logger,
		metrics:   metrics,
	}
}

// LoadVolcanoes returns the records of a .csv or .xlsx volcano table.
func (l *Loader) LoadVolcanoes(ctx context.Context, path string) ([]domain.VolcanoRecord, error) {
	key, err := cacheKey(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, hit, err := l.volcanoes.load(key, func() ([]domain.VolcanoRecord, error) {
		rows, err := readTable(key)
		if err != nil {
			return nil, fmt.Errorf("%w: volcanoes %s: %w", ErrLoad, path, err)
		}
		records, err := parseVolcanoRows(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: volcanoes %s: %w", ErrLoad, path, err)
		}
		l.logger.Info("volcano table loaded", "path", key, "records", len(records))
		return records, nil
	})
	l.observeCache(kindVolcanoes, hit)
	return records, err
}

// LoadGeometry returns the parsed country-boundary document.
func (l *Loader) LoadGeometry(ctx context.Context, path string) (*domain.GeometryDocument, error) {
	key, err := cacheKey(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, hit, err := l.geometry.load(key, func() (*domain.GeometryDocument, error) {
		data, err := os.ReadFile(key)
		if err != nil {
			return nil, fmt.Errorf("%w: geometry %s: %w", ErrLoad, path, err)
		}
		doc, err := parseGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("%w: geometry %s: %w", ErrLoad, path, err)
		}
		l.logger.Info("geometry document loaded", "path", key, "features", len(doc.Features))
		return doc, nil
	})
	l.observeCache(kindGeometry, hit)
	return doc, err
}

func (l *Loader) observeCache(kind string, hit bool) {
	if l.metrics == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	l.metrics.LoaderCache.WithLabelValues(kind, result).Inc()
}

func cacheKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %w", ErrLoad, path, err)
	}
	return abs, nil
}
