package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/msimp2/GaugeVsQPE/internal/domain"
	"github.com/msimp2/GaugeVsQPE/internal/observability"
)

// Renderer rasterizes grids into PNG tiles. Rasterization is pure CPU work
// with no suspension points, so a weighted semaphore caps how many renders
// run at once; a burst of tile requests queues here instead of starving the
// accept loop.
type Renderer struct {
	metrics *observability.Metrics
	sem     *semaphore.Weighted
}

// NewRenderer creates a Renderer that allows up to concurrency simultaneous
// rasterizations.
func NewRenderer(metrics *observability.Metrics, concurrency int) *Renderer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Renderer{
		metrics: metrics,
		sem:     semaphore.NewWeighted(int64(concurrency)),
	}
}

// Render rasterizes one tile from the grid. Tiles wholly or partly outside
// the grid's coverage come back as valid PNGs with transparent pixels where
// there is no data; that is normal, not an error. Only an invalid coordinate
// or a PNG encode failure returns an error.
func (r *Renderer) Render(ctx context.Context, coord TileCoord, g *domain.Grid) ([]byte, error) {
	if !coord.Valid() {
		return nil, fmt.Errorf("invalid tile coordinate %s", coord)
	}
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire render slot: %w", err)
	}
	defer r.sem.Release(1)

	start := time.Now()
	encoded, err := rasterize(coord, g)
	if err != nil {
		r.metrics.RenderErrors.Inc()
		return nil, err
	}
	r.metrics.TilesRendered.Inc()
	r.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	return encoded, nil
}

func rasterize(coord TileCoord, g *domain.Grid) ([]byte, error) {
	minLat, minLon, maxLat, maxLon := coord.Bounds()
	latStep := (maxLat - minLat) / TileSize
	lonStep := (maxLon - minLon) / TileSize

	colormap := g.Class.Colormap()
	rescale := renderRescale(g)

	img := image.NewNRGBA(image.Rect(0, 0, TileSize, TileSize))
	for py := 0; py < TileSize; py++ {
		// Pixel row 0 sits on the tile's north edge.
		lat := maxLat - float64(py)*latStep
		for px := 0; px < TileSize; px++ {
			lon := minLon + float64(px)*lonStep
			row, col, ok := domain.GridIndex(lat, lon)
			if !ok {
				continue
			}
			v := g.Values[row*domain.GridWidth+col]
			if domain.IsMissing(v) {
				continue
			}
			if rescale != nil {
				v = rescale(v)
			}
			c := colormap.ColorFor(v)
			if c.A == 0 {
				continue
			}
			i := img.PixOffset(px, py)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode tile %s: %w", coord, err)
	}
	return buf.Bytes(), nil
}

// renderRescale returns the per-pixel rescale for a grid, or nil. Rotation
// tracks are never unpacked at load, and bright-band heights occasionally
// arrive with metres intact; the >100 guard keeps the height re-check safe
// on an already-corrected grid. Point queries report stored values and never
// see these rescales.
func renderRescale(g *domain.Grid) func(float32) float32 {
	if g.Class == domain.ClassRotationTrack {
		return func(v float32) float32 { return v / 1e6 }
	}
	name := strings.ToLower(g.Param.Name)
	if strings.Contains(strings.ToUpper(g.Param.Abbreviation), "BB") ||
		strings.Contains(name, "bright band") {
		return func(v float32) float32 {
			if v > 100 {
				return v / 1000
			}
			return v
		}
	}
	return nil
}
