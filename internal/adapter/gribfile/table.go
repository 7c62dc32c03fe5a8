package gribfile

import "github.com/msimp2/GaugeVsQPE/internal/domain"

type parameterKey struct {
	discipline uint8
	category   int
	number     int
}

type parameterInfo struct {
	name         string
	abbreviation string
	unit         string
}

// parameterTable maps GRIB2 parameter triples to MRMS product identities.
// Discipline 209 is the MRMS local table; the discipline 0 entries cover the
// merged reflectivity composites published under the standard table. Units
// are the on-file units; load-time corrections rewrite them where they apply.
var parameterTable = map[parameterKey]parameterInfo{
	{0, 16, 195}: {"MergedBaseReflectivityQC", "BREF", "dBZ"},
	{0, 16, 196}: {"MergedReflectivityQCComposite", "CREF", "dBZ"},

	{209, 2, 0}: {"ModelSurfaceTemperature", "TMP", "C"},
	{209, 2, 2}: {"Model_0degC_Height", "H0C", "m"},

	{209, 3, 0}: {"VIL", "VIL", "kg/m^2"},
	{209, 3, 1}: {"VIL_Density", "VILD", "g/m^3"},
	{209, 3, 2}: {"VII", "VII", "kg/m^2"},
	{209, 3, 3}: {"EchoTop_18", "ETOP18", "km"},
	{209, 3, 4}: {"EchoTop_30", "ETOP30", "km"},
	{209, 3, 5}: {"EchoTop_50", "ETOP50", "km"},
	{209, 3, 6}: {"EchoTop_60", "ETOP60", "km"},
	{209, 3, 7}: {"Brightband_Top_Height", "BBTOPH", "m"},
	{209, 3, 8}: {"Brightband_Bottom_Height", "BBBOTH", "m"},
	{209, 3, 9}: {"CompositeReflectivityHeight", "CREFH", "m"},

	{209, 4, 2}: {"RotationTrackML60min", "ROTT60", "0.001/s"},

	{209, 6, 0}:  {"PrecipRate", "PRATE", "mm/hr"},
	{209, 6, 30}: {"RadarOnly_QPE_15M", "QPE15M", "mm"},
	{209, 6, 31}: {"RadarOnly_QPE_01H", "QPE01H", "mm"},
	{209, 6, 32}: {"RadarOnly_QPE_03H", "QPE03H", "mm"},
	{209, 6, 33}: {"RadarOnly_QPE_06H", "QPE06H", "mm"},
	{209, 6, 34}: {"RadarOnly_QPE_12H", "QPE12H", "mm"},
	{209, 6, 35}: {"RadarOnly_QPE_24H", "QPE24H", "mm"},
	{209, 6, 36}: {"RadarOnly_QPE_48H", "QPE48H", "mm"},
	{209, 6, 37}: {"RadarOnly_QPE_72H", "QPE72H", "mm"},
	{209, 6, 38}: {"MultiSensor_QPE_01H_Pass2", "MSQPE01H", "mm"},
	{209, 6, 39}: {"MultiSensor_QPE_03H_Pass2", "MSQPE03H", "mm"},
	{209, 6, 40}: {"MultiSensor_QPE_06H_Pass2", "MSQPE06H", "mm"},
	{209, 6, 41}: {"MultiSensor_QPE_12H_Pass2", "MSQPE12H", "mm"},
	{209, 6, 42}: {"MultiSensor_QPE_24H_Pass2", "MSQPE24H", "mm"},
	{209, 6, 43}: {"MultiSensor_QPE_72H_Pass2", "MSQPE72H", "mm"},

	{209, 7, 0}: {"SHI", "SHI", "index"},
	{209, 7, 1}: {"POSH", "POSH", "%"},
	{209, 7, 2}: {"MESH", "MESH", "mm"},

	{209, 8, 0}: {"LightningDensity", "LTNG", "flashes/km^2/min"},

	{209, 9, 0}: {"MergedZdr", "ZDR", "dB"},
	{209, 9, 1}: {"MergedRhoHV", "RHOHV", "non-dim"},

	{209, 10, 0}: {"SeamlessHSR", "SHSR", "dBZ"},
	{209, 10, 1}: {"SeamlessHSRHeight", "SHSRH", "km"},

	{209, 11, 0}: {"RadarQualityIndex", "RQI", "non-dim"},
	{209, 11, 1}: {"GaugeInfluenceIndex", "GII", "non-dim"},
	{209, 11, 2}: {"WarmRainProbability", "WRPROB", "%"},
}

// LookupParameter resolves a GRIB2 triple against the MRMS product table.
// Unlisted triples come back named "Unknown" with the triple preserved, so
// downstream routing falls through to its default.
func LookupParameter(discipline uint8, category, number int) domain.Parameter {
	p := domain.Parameter{
		Discipline: discipline,
		Category:   category,
		Number:     number,
		Name:       "Unknown",
	}
	if info, ok := parameterTable[parameterKey{discipline, category, number}]; ok {
		p.Name = info.name
		p.Abbreviation = info.abbreviation
		p.Unit = info.unit
	}
	return p
}
