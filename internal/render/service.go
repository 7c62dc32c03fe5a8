package render

import (
	"context"

	"github.com/msimp2/GaugeVsQPE/internal/domain"
)

// Service ties the grid store, the rasterizer and the tile cache together.
// All tile requests go through here so the cache sees every render.
type Service struct {
	store    *domain.GridStore
	renderer *Renderer
	cache    *TileCache
}

// NewService creates a tile service over the given store, renderer and cache.
func NewService(store *domain.GridStore, renderer *Renderer, cache *TileCache) *Service {
	return &Service{store: store, renderer: renderer, cache: cache}
}

// Tile returns the encoded PNG for a tile of the named grid. The boolean is
// false when no grid is loaded under the key; callers serve a placeholder in
// that case rather than treating it as a failure.
func (s *Service) Tile(ctx context.Context, gridKey string, coord TileCoord) ([]byte, bool, error) {
	grid, ok := s.store.Get(gridKey)
	if !ok {
		return nil, false, nil
	}
	if data, hit := s.cache.Get(gridKey, coord); hit {
		return data, true, nil
	}
	data, err := s.renderer.Render(ctx, coord, grid)
	if err != nil {
		return nil, true, err
	}
	s.cache.Add(gridKey, coord, data)
	return data, true, nil
}

// Point returns the stored value of the named grid at a coordinate. The first
// boolean reports whether a grid is loaded; the second whether the coordinate
// falls inside the grid's coverage with a non-missing value. Values come back
// exactly as stored, without the render-time rescales.
func (s *Service) Point(gridKey string, lat, lon float64) (value float32, gridFound, valueFound bool) {
	grid, ok := s.store.Get(gridKey)
	if !ok {
		return 0, false, false
	}
	v, ok := grid.At(lat, lon)
	return v, true, ok
}

// PurgeTiles drops all cached tiles. Called after any store mutation.
func (s *Service) PurgeTiles() {
	s.cache.Purge()
}
