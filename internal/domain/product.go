package domain

import "strings"

// ProductClass is the rendering identity of a grid, derived once at load time
// so that per-pixel work never re-runs string matching.
type ProductClass int

const (
	// ClassReflectivity is the default when nothing else matches.
	ClassReflectivity ProductClass = iota
	ClassPOSH
	ClassSHI
	ClassMESH
	ClassLightning
	ClassVIL
	ClassVILDensity
	ClassEchoTop
	ClassHeight
	ClassPrecipRate
	ClassQPE15Min
	ClassQPE1Hour
	ClassQPE3Hour
	ClassQPE6Hour
	ClassQPE12Hour
	ClassQPE24Hour
	ClassQPE48Hour
	ClassQPE72Hour
	ClassRQI
	ClassGaugeInfluence
	ClassZdr
	ClassRhoHV
	ClassTemperature
	ClassWarmRainProb
	ClassRotationTrack
)

var classNames = map[ProductClass]string{
	ClassReflectivity:   "reflectivity",
	ClassPOSH:           "posh",
	ClassSHI:            "shi",
	ClassMESH:           "mesh",
	ClassLightning:      "lightning",
	ClassVIL:            "vil",
	ClassVILDensity:     "vil-density",
	ClassEchoTop:        "echo-top",
	ClassHeight:         "height",
	ClassPrecipRate:     "precip-rate",
	ClassQPE15Min:       "qpe-15min",
	ClassQPE1Hour:       "qpe-1h",
	ClassQPE3Hour:       "qpe-3h",
	ClassQPE6Hour:       "qpe-6h",
	ClassQPE12Hour:      "qpe-12h",
	ClassQPE24Hour:      "qpe-24h",
	ClassQPE48Hour:      "qpe-48h",
	ClassQPE72Hour:      "qpe-72h",
	ClassRQI:            "rqi",
	ClassGaugeInfluence: "gauge-influence",
	ClassZdr:            "zdr",
	ClassRhoHV:          "rhohv",
	ClassTemperature:    "temperature",
	ClassWarmRainProb:   "warm-rain-probability",
	ClassRotationTrack:  "rotation-track",
}

func (c ProductClass) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "reflectivity"
}

// tripleKey packs a GRIB2 parameter triple for exact-match routing.
type tripleKey struct {
	discipline uint8
	category   int
	number     int
}

// classByTriple routes products whose GRIB2 triple is reliably populated.
// MRMS local table, discipline 209. QPE variants (category 6, numbers 30-43)
// are handled separately because the duration lives in the product name.
var classByTriple = map[tripleKey]ProductClass{
	{209, 3, 0}:  ClassVIL,
	{209, 3, 1}:  ClassVILDensity,
	{209, 3, 3}:  ClassEchoTop,
	{209, 3, 4}:  ClassEchoTop,
	{209, 3, 5}:  ClassEchoTop,
	{209, 3, 6}:  ClassEchoTop,
	{209, 10, 0}: ClassReflectivity, // seamless hybrid-scan reflectivity
	{209, 10, 1}: ClassHeight,       // seamless hybrid-scan height
	{209, 2, 2}:  ClassHeight,       // model freezing-level height
	{209, 4, 2}:  ClassRotationTrack,
}

// qpeDurations maps name substrings to accumulation classes. Ordered longest
// duration first so "12H" cannot be shadowed by a shorter keyword.
var qpeDurations = []struct {
	keyword string
	class   ProductClass
}{
	{"72H", ClassQPE72Hour},
	{"48H", ClassQPE48Hour},
	{"24H", ClassQPE24Hour},
	{"12H", ClassQPE12Hour},
	{"06H", ClassQPE6Hour},
	{"03H", ClassQPE3Hour},
	{"01H", ClassQPE1Hour},
	{"15M", ClassQPE15Min},
}

// Classify resolves the product class for a parameter. Evaluation is
// layered, first match wins: exact GRIB2 triple, then abbreviation, then
// name substrings, then the reflectivity default. The fallbacks exist
// because upstream files do not populate the triple for every variant; the
// order matters (a VIL max file must not hit the generic VIL rule).
func Classify(p Parameter) ProductClass {
	if class, ok := classByTriple[tripleKey{p.Discipline, p.Category, p.Number}]; ok {
		return class
	}
	if p.Discipline == 209 && p.Category == 6 && p.Number >= 30 && p.Number <= 43 {
		return classifyQPEDuration(p.Name)
	}
	if class, ok := classifyByAbbreviation(p.Abbreviation); ok {
		return class
	}
	if class, ok := classifyByName(p.Name); ok {
		return class
	}
	return ClassReflectivity
}

func classifyByAbbreviation(abbr string) (ProductClass, bool) {
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	switch abbr {
	case "POSH":
		return ClassPOSH, true
	case "SHI":
		return ClassSHI, true
	case "MESH":
		return ClassMESH, true
	case "LTNG":
		return ClassLightning, true
	case "VIL", "VII":
		return ClassVIL, true
	case "VILMAX":
		// VIL max shares VIL's scale but arrives unpacked; same colormap.
		return ClassVIL, true
	case "VILD":
		return ClassVILDensity, true
	case "SHSRH", "BBTOPH", "BBBOTH", "H0C":
		return ClassHeight, true
	case "PRATE", "PRECRATE":
		return ClassPrecipRate, true
	case "RQI":
		return ClassRQI, true
	case "GII":
		return ClassGaugeInfluence, true
	case "ZDR":
		return ClassZdr, true
	case "RHOHV", "RHO":
		return ClassRhoHV, true
	case "TMP", "TEMP":
		return ClassTemperature, true
	case "WRPROB":
		return ClassWarmRainProb, true
	}
	switch {
	case strings.HasPrefix(abbr, "ETOP"):
		return ClassEchoTop, true
	case strings.HasPrefix(abbr, "ROTT"):
		return ClassRotationTrack, true
	}
	return 0, false
}

func classifyByName(name string) (ProductClass, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "qpe"):
		return classifyQPEDuration(name), true
	case strings.Contains(lower, "radar quality index"):
		return ClassRQI, true
	case strings.Contains(lower, "gauge influence"):
		return ClassGaugeInfluence, true
	case strings.Contains(lower, "differential reflectivity"):
		return ClassZdr, true
	case strings.Contains(lower, "rhohv"), strings.Contains(lower, "correlation coefficient"):
		return ClassRhoHV, true
	case strings.Contains(lower, "warm rain"):
		return ClassWarmRainProb, true
	case strings.Contains(lower, "rotation track"):
		return ClassRotationTrack, true
	case strings.Contains(lower, "echo top"):
		return ClassEchoTop, true
	case strings.Contains(lower, "bright band"), strings.Contains(lower, "height"):
		return ClassHeight, true
	case strings.Contains(lower, "precip rate"), strings.Contains(lower, "preciprate"):
		return ClassPrecipRate, true
	}
	return 0, false
}

// classifyQPEDuration picks the accumulation class by duration keyword.
// Unmarked QPE products default to the 1-hour table.
func classifyQPEDuration(name string) ProductClass {
	upper := strings.ToUpper(name)
	for _, d := range qpeDurations {
		if strings.Contains(upper, d.keyword) {
			return d.class
		}
	}
	return ClassQPE1Hour
}
