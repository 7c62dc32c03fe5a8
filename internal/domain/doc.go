// Package domain models Multi-Radar Multi-Sensor (MRMS) gridded products and
// implements the value pipeline behind tile rendering and point lookups.
//
// # Data Source
//
// Grids originate from NOAA MRMS GRIB2 files (one product per file), decoded
// upstream into a flat array of single-precision floats plus the GRIB2
// parameter triple (discipline, category, number). MRMS uses discipline 209
// with local parameter tables, so the triple alone is not always enough to
// identify a product; the human-readable name and abbreviation carried by the
// parameter table are used as fallbacks throughout this package.
//
// # Grid Geometry
//
// Every product shares the fixed CONUS lattice: 7000×3500 cells at 0.01°
// resolution, latitude 20°N–55°N, longitude 130°W–60°W, row-major with row 0
// at the north edge:
//
//	row = round((55 - lat) / 0.01)
//	col = round((lon + 130) / 0.01)
//	index = row*7000 + col
//
// A coordinate is inside the domain only when 0 <= row < 3500 and
// 0 <= col < 7000.
//
// # Sentinel Values
//
// MRMS encodes "no data" as values at or below -999 (commonly -999 and
// -9999); NaN is treated the same way. Such cells render transparent in tiles
// and are absent in point queries. VIL-family products additionally use -3 as
// a distinct "clear air" flag which must survive de-scaling untouched.
//
// # Load-Time Corrections
//
// Several MRMS products arrive scaled or in inconvenient units. Exactly one
// correction is applied per product, once, while the value slice is being
// built (never in place on a published grid):
//
//	height family (reflectivity/bright-band/model 0°C heights):
//	    v/1000, metres → kilometres
//	VIL / VII (not VIL max, not VIL density): (v-768)/256, -3 preserved
//	QPE family / PrecipRate:                  v/25.4, millimetres → inches
//	RQI:                                      (v-768)/2.56
//	RhoHV:                                    (v+740.975)/18.5
//
// Unit strings are rewritten to match ("m" → "km", "mm/hr" → "in/hr").
//
// # Colormap Selection
//
// Each product class owns a step-function colormap: ordered bands of
// (lower bound, RGBA) with right-open intervals and a transparent region
// below the first bound. Classification is layered (exact GRIB2 triple
// first, then abbreviation, then name substrings, then a reflectivity
// default) because upstream files do not populate the triple for every
// product variant. Classification runs once per grid, not per pixel.
package domain
