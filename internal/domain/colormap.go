package domain

import "image/color"

// A Colormap is an ordered step function from a physical value to a color.
// Bands are right-open intervals [from, next.from); the last band captures
// everything at or above its bound. Values below the first bound (the class
// floor) are fully transparent so no-signal cells never clutter a tile.
//
// The tables below are literal data assets: thresholds and colors encode
// operational display conventions for each product, not derivable logic.
// Within one table the bounds are strictly increasing.
type Colormap []band

type band struct {
	from  float32
	color color.NRGBA
}

// transparent is the shared "no paint" color: alpha 0.
var transparent = color.NRGBA{}

// ColorFor returns the band color for v, or transparent when v sits below
// the table floor. Bands are scanned from the top so the first bound at or
// below v wins.
func (m Colormap) ColorFor(v float32) color.NRGBA {
	if len(m) == 0 || v < m[0].from {
		return transparent
	}
	for i := len(m) - 1; i >= 0; i-- {
		if v >= m[i].from {
			return m[i].color
		}
	}
	return transparent
}

// Floor returns the lower bound of the first band.
func (m Colormap) Floor() float32 {
	if len(m) == 0 {
		return 0
	}
	return m[0].from
}

// Colormap returns the band table for a product class. VIL density reuses
// VIL's table and the 1h/3h QPE accumulations reuse the 15-minute table;
// these are aliases by requirement so the pairs can never drift apart.
func (c ProductClass) Colormap() Colormap {
	switch c {
	case ClassPOSH:
		return poshTable
	case ClassSHI:
		return shiTable
	case ClassMESH:
		return meshTable
	case ClassLightning:
		return lightningTable
	case ClassVIL, ClassVILDensity:
		return vilTable
	case ClassEchoTop:
		return echoTopTable
	case ClassHeight:
		return heightTable
	case ClassPrecipRate:
		return precipRateTable
	case ClassQPE15Min, ClassQPE1Hour, ClassQPE3Hour:
		return qpe15MinTable
	case ClassQPE6Hour:
		return qpe6HourTable
	case ClassQPE12Hour:
		return qpe12HourTable
	case ClassQPE24Hour:
		return qpe24HourTable
	case ClassQPE48Hour:
		return qpe48HourTable
	case ClassQPE72Hour:
		return qpe72HourTable
	case ClassRQI:
		return rqiTable
	case ClassGaugeInfluence:
		return gaugeInfluenceTable
	case ClassZdr:
		return zdrTable
	case ClassRhoHV:
		return rhoHVTable
	case ClassTemperature:
		return temperatureTable
	case ClassWarmRainProb:
		return warmRainTable
	case ClassRotationTrack:
		return rotationTrackTable
	default:
		return reflectivityTable
	}
}

// reflectivityTable: dBZ, the standard NWS radar ramp. Low bands fade in so
// light returns do not dominate the map.
var reflectivityTable = Colormap{
	{5, color.NRGBA{4, 233, 231, 140}},
	{10, color.NRGBA{1, 159, 244, 180}},
	{15, color.NRGBA{3, 0, 244, 220}},
	{20, color.NRGBA{2, 253, 2, 255}},
	{25, color.NRGBA{1, 197, 1, 255}},
	{30, color.NRGBA{0, 142, 0, 255}},
	{35, color.NRGBA{253, 248, 2, 255}},
	{40, color.NRGBA{229, 188, 0, 255}},
	{45, color.NRGBA{253, 149, 0, 255}},
	{50, color.NRGBA{253, 0, 0, 255}},
	{55, color.NRGBA{212, 0, 0, 255}},
	{60, color.NRGBA{188, 0, 0, 255}},
	{65, color.NRGBA{248, 0, 253, 255}},
	{70, color.NRGBA{152, 84, 198, 255}},
	{75, color.NRGBA{255, 255, 255, 255}},
}

// poshTable: probability of severe hail, percent.
var poshTable = Colormap{
	{0.01, color.NRGBA{105, 105, 105, 90}},
	{10, color.NRGBA{90, 110, 255, 130}},
	{20, color.NRGBA{30, 60, 255, 160}},
	{30, color.NRGBA{0, 200, 255, 180}},
	{40, color.NRGBA{0, 255, 127, 200}},
	{50, color.NRGBA{255, 255, 0, 220}},
	{60, color.NRGBA{255, 200, 0, 230}},
	{70, color.NRGBA{255, 140, 0, 240}},
	{80, color.NRGBA{255, 60, 0, 250}},
	{90, color.NRGBA{230, 0, 0, 255}},
	{100, color.NRGBA{255, 0, 255, 255}},
}

// shiTable: severe hail index, dimensionless.
var shiTable = Colormap{
	{0.003, color.NRGBA{130, 130, 130, 80}},
	{1, color.NRGBA{70, 120, 255, 130}},
	{5, color.NRGBA{0, 200, 255, 160}},
	{10, color.NRGBA{0, 255, 120, 190}},
	{25, color.NRGBA{255, 255, 0, 210}},
	{50, color.NRGBA{255, 190, 0, 230}},
	{75, color.NRGBA{255, 120, 0, 240}},
	{100, color.NRGBA{255, 40, 0, 250}},
	{150, color.NRGBA{220, 0, 0, 255}},
	{200, color.NRGBA{190, 0, 70, 255}},
	{300, color.NRGBA{255, 0, 255, 255}},
}

// meshTable: maximum estimated hail size, millimetres. 25 mm (one inch) is
// the NWS severe criterion, marked by the jump to orange.
var meshTable = Colormap{
	{0.01, color.NRGBA{150, 150, 150, 100}},
	{5, color.NRGBA{80, 200, 80, 160}},
	{10, color.NRGBA{0, 160, 0, 190}},
	{15, color.NRGBA{255, 255, 0, 210}},
	{20, color.NRGBA{255, 200, 0, 225}},
	{25, color.NRGBA{255, 140, 0, 240}},
	{30, color.NRGBA{255, 70, 0, 250}},
	{40, color.NRGBA{230, 0, 0, 255}},
	{50, color.NRGBA{200, 0, 100, 255}},
	{65, color.NRGBA{160, 0, 200, 255}},
	{80, color.NRGBA{255, 0, 255, 255}},
}

// lightningTable: flash density. Transparent below zero only; a zero cell is
// a valid "no flashes yet" reading and paints the faintest band.
var lightningTable = Colormap{
	{0, color.NRGBA{120, 120, 120, 70}},
	{1, color.NRGBA{70, 130, 255, 140}},
	{2, color.NRGBA{0, 200, 255, 170}},
	{4, color.NRGBA{0, 255, 120, 200}},
	{8, color.NRGBA{255, 255, 0, 220}},
	{12, color.NRGBA{255, 180, 0, 235}},
	{16, color.NRGBA{255, 100, 0, 245}},
	{24, color.NRGBA{255, 30, 0, 255}},
	{32, color.NRGBA{255, 0, 255, 255}},
}

// vilTable: vertically integrated liquid, kg/m² after de-scaling. Shared by
// VIL density through the alias in Colormap().
var vilTable = Colormap{
	{0.1, color.NRGBA{120, 120, 120, 90}},
	{1, color.NRGBA{60, 120, 255, 140}},
	{2, color.NRGBA{0, 200, 255, 170}},
	{5, color.NRGBA{0, 255, 120, 200}},
	{10, color.NRGBA{255, 255, 0, 220}},
	{15, color.NRGBA{255, 200, 0, 230}},
	{20, color.NRGBA{255, 140, 0, 240}},
	{25, color.NRGBA{255, 70, 0, 250}},
	{30, color.NRGBA{230, 0, 0, 255}},
	{40, color.NRGBA{200, 0, 150, 255}},
	{50, color.NRGBA{255, 0, 255, 255}},
}

// echoTopTable: echo top heights, kilometres. One ramp serves the 18/30/50/60
// dBZ variants.
var echoTopTable = Colormap{
	{0.01, color.NRGBA{130, 130, 130, 90}},
	{1, color.NRGBA{100, 160, 255, 140}},
	{2, color.NRGBA{60, 120, 255, 160}},
	{3, color.NRGBA{0, 200, 255, 180}},
	{5, color.NRGBA{0, 255, 120, 200}},
	{8, color.NRGBA{255, 255, 0, 220}},
	{10, color.NRGBA{255, 200, 0, 230}},
	{12, color.NRGBA{255, 140, 0, 240}},
	{15, color.NRGBA{255, 60, 0, 250}},
	{18, color.NRGBA{230, 0, 0, 255}},
	{21, color.NRGBA{255, 0, 255, 255}},
}

// heightTable: seamless hybrid-scan height, bright band and freezing-level
// heights, kilometres.
var heightTable = Colormap{
	{0.01, color.NRGBA{60, 80, 200, 160}},
	{0.5, color.NRGBA{0, 140, 255, 180}},
	{1, color.NRGBA{0, 200, 255, 200}},
	{1.5, color.NRGBA{0, 255, 180, 210}},
	{2, color.NRGBA{0, 255, 80, 220}},
	{2.5, color.NRGBA{160, 255, 0, 230}},
	{3, color.NRGBA{255, 255, 0, 240}},
	{4, color.NRGBA{255, 170, 0, 250}},
	{5, color.NRGBA{255, 80, 0, 255}},
	{6, color.NRGBA{230, 0, 0, 255}},
	{8, color.NRGBA{255, 0, 255, 255}},
}

// precipRateTable: instantaneous rate, inches per hour after conversion.
var precipRateTable = Colormap{
	{0.01, color.NRGBA{60, 200, 200, 150}},
	{0.05, color.NRGBA{0, 160, 230, 170}},
	{0.1, color.NRGBA{0, 100, 255, 190}},
	{0.25, color.NRGBA{0, 255, 120, 210}},
	{0.5, color.NRGBA{255, 255, 0, 225}},
	{1, color.NRGBA{255, 170, 0, 240}},
	{2, color.NRGBA{255, 80, 0, 250}},
	{3, color.NRGBA{230, 0, 0, 255}},
	{5, color.NRGBA{255, 0, 255, 255}},
}

// qpe15MinTable: short accumulations, inches. Also serves the 1h and 3h
// products through the alias in Colormap(). The first band starts at the
// 0.01 in measurable-precip floor.
var qpe15MinTable = Colormap{
	{0.01, color.NRGBA{0, 236, 236, 160}},
	{0.05, color.NRGBA{0, 180, 240, 180}},
	{0.1, color.NRGBA{0, 120, 255, 200}},
	{0.25, color.NRGBA{0, 255, 120, 215}},
	{0.5, color.NRGBA{255, 255, 0, 230}},
	{0.75, color.NRGBA{255, 190, 0, 240}},
	{1, color.NRGBA{255, 120, 0, 248}},
	{1.5, color.NRGBA{255, 50, 0, 252}},
	{2, color.NRGBA{230, 0, 0, 255}},
	{3, color.NRGBA{255, 0, 255, 255}},
}

// qpe6HourTable: 6-hour accumulations, inches.
var qpe6HourTable = Colormap{
	{0.01, color.NRGBA{0, 236, 236, 160}},
	{0.1, color.NRGBA{0, 180, 240, 180}},
	{0.25, color.NRGBA{0, 120, 255, 200}},
	{0.5, color.NRGBA{0, 255, 120, 215}},
	{1, color.NRGBA{255, 255, 0, 230}},
	{1.5, color.NRGBA{255, 190, 0, 240}},
	{2, color.NRGBA{255, 120, 0, 248}},
	{3, color.NRGBA{255, 50, 0, 252}},
	{4, color.NRGBA{230, 0, 0, 255}},
	{6, color.NRGBA{255, 0, 255, 255}},
}

// qpe12HourTable: 12-hour accumulations, inches.
var qpe12HourTable = Colormap{
	{0.01, color.NRGBA{0, 236, 236, 160}},
	{0.25, color.NRGBA{0, 180, 240, 180}},
	{0.5, color.NRGBA{0, 120, 255, 200}},
	{1, color.NRGBA{0, 255, 120, 215}},
	{1.5, color.NRGBA{255, 255, 0, 230}},
	{2, color.NRGBA{255, 190, 0, 240}},
	{3, color.NRGBA{255, 120, 0, 248}},
	{4, color.NRGBA{255, 50, 0, 252}},
	{6, color.NRGBA{230, 0, 0, 255}},
	{8, color.NRGBA{255, 0, 255, 255}},
}

// qpe24HourTable: 24-hour accumulations, inches.
var qpe24HourTable = Colormap{
	{0.01, color.NRGBA{0, 236, 236, 160}},
	{0.25, color.NRGBA{0, 180, 240, 180}},
	{0.5, color.NRGBA{0, 120, 255, 200}},
	{1, color.NRGBA{0, 255, 120, 215}},
	{2, color.NRGBA{255, 255, 0, 230}},
	{3, color.NRGBA{255, 190, 0, 240}},
	{4, color.NRGBA{255, 120, 0, 248}},
	{6, color.NRGBA{255, 50, 0, 252}},
	{8, color.NRGBA{230, 0, 0, 255}},
	{10, color.NRGBA{255, 0, 255, 255}},
}

// qpe48HourTable: 48-hour accumulations, inches.
var qpe48HourTable = Colormap{
	{0.01, color.NRGBA{0, 236, 236, 160}},
	{0.5, color.NRGBA{0, 180, 240, 180}},
	{1, color.NRGBA{0, 120, 255, 200}},
	{2, color.NRGBA{0, 255, 120, 215}},
	{3, color.NRGBA{255, 255, 0, 230}},
	{4, color.NRGBA{255, 190, 0, 240}},
	{6, color.NRGBA{255, 120, 0, 248}},
	{8, color.NRGBA{255, 50, 0, 252}},
	{10, color.NRGBA{230, 0, 0, 255}},
	{15, color.NRGBA{255, 0, 255, 255}},
}

// qpe72HourTable: 72-hour accumulations, inches.
var qpe72HourTable = Colormap{
	{0.01, color.NRGBA{0, 236, 236, 160}},
	{0.5, color.NRGBA{0, 180, 240, 180}},
	{1, color.NRGBA{0, 120, 255, 200}},
	{2, color.NRGBA{0, 255, 120, 215}},
	{4, color.NRGBA{255, 255, 0, 230}},
	{6, color.NRGBA{255, 190, 0, 240}},
	{8, color.NRGBA{255, 120, 0, 248}},
	{10, color.NRGBA{255, 50, 0, 252}},
	{15, color.NRGBA{230, 0, 0, 255}},
	{20, color.NRGBA{255, 0, 255, 255}},
}

// rqiTable: radar quality index, percent. Red marks poor coverage, blue-green
// high confidence; constant alpha since the overlay is diagnostic.
var rqiTable = Colormap{
	{0.003, color.NRGBA{200, 30, 30, 200}},
	{10, color.NRGBA{230, 90, 0, 200}},
	{20, color.NRGBA{255, 140, 0, 200}},
	{30, color.NRGBA{255, 190, 0, 200}},
	{40, color.NRGBA{255, 255, 0, 200}},
	{50, color.NRGBA{190, 255, 0, 200}},
	{60, color.NRGBA{120, 230, 0, 200}},
	{70, color.NRGBA{60, 200, 0, 200}},
	{80, color.NRGBA{0, 170, 0, 200}},
	{90, color.NRGBA{0, 130, 60, 200}},
	{100, color.NRGBA{0, 100, 130, 200}},
}

// gaugeInfluenceTable: gauge influence index, percent, blue ramp.
var gaugeInfluenceTable = Colormap{
	{0.01, color.NRGBA{220, 240, 255, 120}},
	{10, color.NRGBA{180, 220, 255, 140}},
	{20, color.NRGBA{140, 200, 255, 160}},
	{30, color.NRGBA{100, 180, 255, 180}},
	{40, color.NRGBA{60, 150, 255, 200}},
	{50, color.NRGBA{30, 120, 255, 215}},
	{60, color.NRGBA{0, 90, 240, 230}},
	{70, color.NRGBA{0, 60, 200, 240}},
	{80, color.NRGBA{0, 40, 160, 250}},
	{90, color.NRGBA{20, 20, 120, 255}},
}

// zdrTable: differential reflectivity, dB. Negative values are physically
// meaningful (vertically oriented ice), so the floor sits at -4.
var zdrTable = Colormap{
	{-4, color.NRGBA{120, 120, 120, 150}},
	{-2, color.NRGBA{80, 80, 200, 170}},
	{-1, color.NRGBA{0, 120, 255, 190}},
	{-0.5, color.NRGBA{0, 200, 255, 200}},
	{0, color.NRGBA{0, 255, 200, 210}},
	{0.5, color.NRGBA{0, 255, 80, 220}},
	{1, color.NRGBA{180, 255, 0, 230}},
	{2, color.NRGBA{255, 255, 0, 240}},
	{3, color.NRGBA{255, 160, 0, 250}},
	{4, color.NRGBA{255, 60, 0, 255}},
	{6, color.NRGBA{255, 0, 255, 255}},
}

// rhoHVTable: correlation coefficient, dimensionless. The 0.95-1.0 range
// gets most of the bands since that is where hydrometeor discrimination
// happens.
var rhoHVTable = Colormap{
	{0.2, color.NRGBA{40, 40, 40, 160}},
	{0.45, color.NRGBA{90, 90, 90, 170}},
	{0.65, color.NRGBA{140, 0, 200, 180}},
	{0.75, color.NRGBA{60, 60, 255, 190}},
	{0.8, color.NRGBA{0, 160, 255, 200}},
	{0.85, color.NRGBA{0, 255, 255, 210}},
	{0.9, color.NRGBA{0, 255, 120, 220}},
	{0.95, color.NRGBA{255, 255, 0, 235}},
	{0.97, color.NRGBA{255, 150, 0, 245}},
	{0.99, color.NRGBA{255, 40, 0, 255}},
	{1.0, color.NRGBA{230, 0, 230, 255}},
}

// temperatureTable: degrees Celsius. The floor is far below any plausible
// surface reading, so every valid cell paints.
var temperatureTable = Colormap{
	{-90, color.NRGBA{255, 255, 255, 255}},
	{-40, color.NRGBA{145, 0, 200, 255}},
	{-30, color.NRGBA{170, 60, 220, 255}},
	{-20, color.NRGBA{120, 60, 255, 255}},
	{-10, color.NRGBA{0, 120, 255, 255}},
	{-5, color.NRGBA{0, 200, 255, 255}},
	{0, color.NRGBA{0, 255, 255, 255}},
	{5, color.NRGBA{0, 220, 120, 255}},
	{10, color.NRGBA{0, 180, 0, 255}},
	{15, color.NRGBA{120, 210, 0, 255}},
	{20, color.NRGBA{255, 255, 0, 255}},
	{25, color.NRGBA{255, 190, 0, 255}},
	{30, color.NRGBA{255, 110, 0, 255}},
	{35, color.NRGBA{255, 40, 0, 255}},
	{40, color.NRGBA{200, 0, 0, 255}},
}

// warmRainTable: warm rain probability, percent, green-to-blue ramp.
var warmRainTable = Colormap{
	{0.01, color.NRGBA{220, 255, 220, 120}},
	{10, color.NRGBA{180, 240, 180, 140}},
	{20, color.NRGBA{140, 230, 140, 160}},
	{30, color.NRGBA{90, 220, 90, 180}},
	{40, color.NRGBA{40, 200, 40, 200}},
	{50, color.NRGBA{0, 180, 0, 215}},
	{60, color.NRGBA{0, 150, 40, 230}},
	{70, color.NRGBA{0, 130, 90, 240}},
	{80, color.NRGBA{0, 110, 140, 250}},
	{90, color.NRGBA{0, 80, 180, 255}},
}

// rotationTrackTable: azimuthal shear, 1/s after the render-time 1e6
// de-scale.
var rotationTrackTable = Colormap{
	{0.002, color.NRGBA{150, 150, 150, 120}},
	{0.004, color.NRGBA{90, 140, 255, 160}},
	{0.006, color.NRGBA{0, 200, 255, 190}},
	{0.008, color.NRGBA{0, 255, 120, 210}},
	{0.01, color.NRGBA{255, 255, 0, 225}},
	{0.0125, color.NRGBA{255, 170, 0, 240}},
	{0.015, color.NRGBA{255, 80, 0, 250}},
	{0.02, color.NRGBA{255, 0, 0, 255}},
	{0.03, color.NRGBA{255, 0, 255, 255}},
}
