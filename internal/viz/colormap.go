package viz

import (
	"image/color"
	"math"
)

// Colormap maps a normalized value in [0, 1] to a color by linear
// interpolation between evenly spaced stops.
type Colormap []color.RGBA

// Viridis is a coarse sampling of matplotlib's default colormap.
var Viridis = Colormap{
	{68, 1, 84, 255},
	{59, 82, 139, 255},
	{33, 145, 140, 255},
	{94, 201, 98, 255},
	{253, 231, 37, 255},
}

func (m Colormap) At(t float64) color.RGBA {
	if len(m) == 0 {
		return color.RGBA{A: 255}
	}
	if math.IsNaN(t) || t <= 0 {
		return m[0]
	}
	if t >= 1 {
		return m[len(m)-1]
	}
	pos := t * float64(len(m)-1)
	i := int(pos)
	f := pos - float64(i)
	a, b := m[i], m[i+1]
	lerp := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + f*(float64(y)-float64(x)))) }
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}

// Normalize maps v from [lo, hi] onto [0, 1]. A degenerate range maps to 0.5.
func Normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}

// Range returns the finite min and max of values.
func Range(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}
