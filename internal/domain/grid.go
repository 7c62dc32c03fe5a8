package domain

import (
	"math"
	"time"
)

// Fixed CONUS lattice shared by every MRMS product this service handles.
const (
	GridWidth  = 7000
	GridHeight = 3500

	Resolution = 0.01 // degrees per cell

	MinLat = 20.0
	MaxLat = 55.0
	MinLon = -130.0
	MaxLon = -60.0
)

// sentinelFloor is the MRMS "no data" threshold: -999 and -9999 both mark
// cells with no valid reading.
const sentinelFloor = -999.0

// Parameter identifies the physical quantity a grid carries. Discipline,
// Category and Number are the GRIB2 parameter triple; Name, Abbreviation and
// Unit come from the MRMS parameter table (or "Unknown" when the triple is
// not listed). Unit reflects any load-time correction already applied.
type Parameter struct {
	Discipline   uint8  `json:"discipline"`
	Category     int    `json:"category"`
	Number       int    `json:"number"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Unit         string `json:"unit"`
}

// Grid pairs a corrected value array with its parameter identity. Grids are
// immutable after construction: corrections happen while the slice is built,
// and the store only ever swaps whole *Grid pointers.
type Grid struct {
	Values   []float32
	Param    Parameter
	Class    ProductClass
	LoadedAt time.Time
}

// NewGrid builds a corrected, classified grid from raw decoder output.
// The values slice is taken over by the grid and must not be reused.
func NewGrid(values []float32, param Parameter) *Grid {
	param = applyCorrections(values, param)
	return &Grid{
		Values:   values,
		Param:    param,
		Class:    Classify(param),
		LoadedAt: clock.Now(),
	}
}

// IsMissing reports whether v is a no-data cell: NaN or at/below the MRMS
// sentinel floor.
func IsMissing(v float32) bool {
	return math.IsNaN(float64(v)) || v <= sentinelFloor
}

// GridIndex maps a WGS-84 coordinate onto the lattice. ok is false when the
// coordinate falls outside the CONUS domain.
func GridIndex(lat, lon float64) (row, col int, ok bool) {
	row = int(math.Round((MaxLat - lat) / Resolution))
	col = int(math.Round((lon - MinLon) / Resolution))
	if row < 0 || row >= GridHeight || col < 0 || col >= GridWidth {
		return 0, 0, false
	}
	return row, col, true
}

// At returns the stored value at a coordinate. ok is false when the
// coordinate is outside the domain or the cell holds no data. The value is
// the canonical load-time-corrected reading; no render-time rescaling is
// applied here.
func (g *Grid) At(lat, lon float64) (float32, bool) {
	row, col, ok := GridIndex(lat, lon)
	if !ok {
		return 0, false
	}
	i := row*GridWidth + col
	if i >= len(g.Values) {
		return 0, false
	}
	v := g.Values[i]
	if IsMissing(v) {
		return 0, false
	}
	return v, true
}
