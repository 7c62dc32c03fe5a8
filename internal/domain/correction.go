package domain

import (
	"strings"
)

// VIL products use -3 as a "clear air" flag distinct from the -999 no-data
// floor. It must pass through de-scaling untouched: rescaled it would become
// a bogus physical value near -3.01.
const (
	vilSentinel          = -3.0
	vilSentinelTolerance = 0.001
)

// applyCorrections applies at most one unit/encoding correction to values,
// in evaluation order, and returns the parameter with its unit string updated
// to match. values must not yet be visible to readers. No-data cells are
// never rescaled.
func applyCorrections(values []float32, p Parameter) Parameter {
	switch {
	case isHeightProduct(p):
		scaleValues(values, 1.0/1000)
		p.Unit = heightUnit(p.Unit)
	case isVILProduct(p):
		descaleVIL(values)
	case isQPEProduct(p):
		scaleValues(values, 1.0/25.4)
		p.Unit = precipUnit(p.Unit)
	case isRQIProduct(p):
		offsetScaleValues(values, -768, 1.0/2.56)
	case isRhoHVProduct(p):
		offsetScaleValues(values, 740.975, 1.0/18.5)
	}
	return p
}

// scaleValues multiplies every valid cell by factor.
func scaleValues(values []float32, factor float64) {
	f := float32(factor)
	for i, v := range values {
		if IsMissing(v) {
			continue
		}
		values[i] = v * f
	}
}

// offsetScaleValues computes (v + offset) * factor for every valid cell.
func offsetScaleValues(values []float32, offset, factor float64) {
	o, f := float32(offset), float32(factor)
	for i, v := range values {
		if IsMissing(v) {
			continue
		}
		values[i] = (v + o) * f
	}
}

// descaleVIL converts the MRMS packed VIL encoding (v-768)/256 to kg/m²,
// preserving the -3 clear-air flag.
func descaleVIL(values []float32) {
	for i, v := range values {
		if IsMissing(v) {
			continue
		}
		if v > vilSentinel-vilSentinelTolerance && v < vilSentinel+vilSentinelTolerance {
			continue
		}
		values[i] = (v - 768) / 256
	}
}

// isHeightProduct matches the metre-scaled height family: composite
// reflectivity height, bright band top/bottom, and model 0°C height.
func isHeightProduct(p Parameter) bool {
	abbr := strings.ToUpper(p.Abbreviation)
	if strings.HasPrefix(abbr, "CREFH") || strings.HasPrefix(abbr, "BBTOP") ||
		strings.HasPrefix(abbr, "BBBOT") || abbr == "H0C" {
		return true
	}
	name := strings.ToLower(p.Name)
	if !strings.Contains(name, "height") {
		return false
	}
	return strings.Contains(name, "composite") ||
		strings.Contains(name, "bright band") ||
		strings.Contains(name, "model")
}

// isVILProduct matches VIL and VII but deliberately not VIL max or VIL
// density, which arrive unpacked.
func isVILProduct(p Parameter) bool {
	switch strings.ToUpper(p.Abbreviation) {
	case "VIL", "VII":
		return true
	}
	name := strings.ToLower(p.Name)
	if !strings.Contains(name, "vertically integrated") {
		return false
	}
	return !strings.Contains(name, "max") && !strings.Contains(name, "density")
}

// isQPEProduct matches the millimetre precipitation family: the QPE GRIB2
// category, PrecipRate, and any accumulation named by duration.
func isQPEProduct(p Parameter) bool {
	if p.Discipline == 209 && p.Category == 6 {
		return true
	}
	abbr := strings.ToUpper(p.Abbreviation)
	if abbr == "PRATE" || abbr == "PRECRATE" {
		return true
	}
	name := strings.ToLower(p.Name)
	if strings.Contains(name, "qpe") {
		return true
	}
	if !strings.Contains(name, "precip") {
		return false
	}
	return strings.Contains(name, "hour") ||
		strings.Contains(name, "minute") ||
		strings.Contains(name, "rate")
}

func isRQIProduct(p Parameter) bool {
	if strings.ToUpper(p.Abbreviation) == "RQI" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), "quality index")
}

func isRhoHVProduct(p Parameter) bool {
	abbr := strings.ToUpper(p.Abbreviation)
	if abbr == "RHOHV" || abbr == "RHO" {
		return true
	}
	name := strings.ToLower(p.Name)
	return strings.Contains(name, "rhohv") ||
		strings.Contains(name, "correlation coefficient")
}

func heightUnit(unit string) string {
	if unit == "" || unit == "m" {
		return "km"
	}
	return strings.Replace(unit, "m", "km", 1)
}

func precipUnit(unit string) string {
	if unit == "" {
		return "in"
	}
	if strings.Contains(unit, "mm") {
		return strings.ReplaceAll(unit, "mm", "in")
	}
	return unit
}
