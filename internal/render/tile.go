// Package render rasterizes MRMS grids into Web Mercator slippy-map tiles.
package render

import (
	"fmt"
	"math"
)

// TileSize is the edge length of every output tile in pixels.
const TileSize = 256

// Zoom levels accepted from clients. 20 is past the point where a single
// 0.01° grid cell spans many tiles, but rendering stays cheap and correct.
const (
	MinZoom = 0
	MaxZoom = 20
)

// TileCoord addresses one slippy-map tile.
type TileCoord struct {
	Z int
	X int
	Y int
}

func (c TileCoord) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Z, c.X, c.Y)
}

// Valid reports whether the coordinate addresses a real tile: zoom within
// range and x/y within the 2^z grid.
func (c TileCoord) Valid() bool {
	if c.Z < MinZoom || c.Z > MaxZoom {
		return false
	}
	n := 1 << c.Z
	return c.X >= 0 && c.X < n && c.Y >= 0 && c.Y < n
}

// Bounds returns the tile's geographic extent. Longitude is linear in x;
// latitude uses the inverse spherical Mercator formula. Tile row y increases
// southward, so the tile's north edge comes from y and its south edge from
// y+1.
func (c TileCoord) Bounds() (minLat, minLon, maxLat, maxLon float64) {
	n := float64(uint(1) << c.Z)
	minLon = float64(c.X)/n*360 - 180
	maxLon = float64(c.X+1)/n*360 - 180
	maxLat = tileLat(float64(c.Y), n)
	minLat = tileLat(float64(c.Y+1), n)
	return minLat, minLon, maxLat, maxLon
}

// tileLat converts a fractional tile row to latitude:
// atan(sinh(π(1 - 2y/n))) in degrees.
func tileLat(y, n float64) float64 {
	return math.Atan(math.Sinh(math.Pi*(1-2*y/n))) * 180 / math.Pi
}
