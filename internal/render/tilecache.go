package render

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/msimp2/GaugeVsQPE/internal/observability"
)

// TileCache holds encoded PNG tiles keyed by grid key and tile coordinate.
// Grid mutations purge the whole cache rather than evicting per key: loads
// are rare compared to tile fetches and re-rendering a handful of warm tiles
// is cheaper than tracking which cached tiles belong to which grid key.
type TileCache struct {
	cache   *lru.Cache[string, []byte]
	metrics *observability.Metrics
}

// NewTileCache creates a tile cache holding up to size encoded tiles.
func NewTileCache(size int, metrics *observability.Metrics) (*TileCache, error) {
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create tile cache: %w", err)
	}
	return &TileCache{cache: c, metrics: metrics}, nil
}

func tileCacheKey(gridKey string, coord TileCoord) string {
	return gridKey + "/" + coord.String()
}

// Get returns the cached encoding for a tile, recording a hit or miss.
func (tc *TileCache) Get(gridKey string, coord TileCoord) ([]byte, bool) {
	data, ok := tc.cache.Get(tileCacheKey(gridKey, coord))
	if ok {
		tc.metrics.TileCache.WithLabelValues("hit").Inc()
	} else {
		tc.metrics.TileCache.WithLabelValues("miss").Inc()
	}
	return data, ok
}

// Add stores an encoded tile.
func (tc *TileCache) Add(gridKey string, coord TileCoord, data []byte) {
	tc.cache.Add(tileCacheKey(gridKey, coord), data)
}

// Purge drops every cached tile.
func (tc *TileCache) Purge() {
	tc.cache.Purge()
}

// Len reports the number of cached tiles.
func (tc *TileCache) Len() int {
	return tc.cache.Len()
}
