package render

import (
	"image/color"
	"math"
)

const (
	// IndexBackground is used for empty cells and gridlines.
	IndexBackground = 0
	// IndexForeground is used for cells at the maximum state.
	IndexForeground = 1
	// IndexAccent marks clip centres.
	IndexAccent = 2

	firstHueIndex = 3
	paletteSize   = 256
	hueSlots      = paletteSize - firstHueIndex
)

var (
	backgroundColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	foregroundColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	accentColor     = color.RGBA{R: 255, G: 64, B: 160, A: 255}
)

var atlasPalette = buildPalette()

// Palette returns the 256-entry atlas palette. Entries from index 3 walk the
// hue wheel with a step that halves every time it wraps, so early entries are
// far apart and later ones fill the gaps.
func Palette() color.Palette {
	out := make(color.Palette, len(atlasPalette))
	copy(out, atlasPalette)
	return out
}

func buildPalette() color.Palette {
	palette := make(color.Palette, paletteSize)
	palette[IndexBackground] = backgroundColor
	palette[IndexForeground] = foregroundColor
	palette[IndexAccent] = accentColor
	for i, hue := range Hues(hueSlots) {
		palette[firstHueIndex+i] = HueColor(hue)
	}
	return palette
}

// Hues returns n hues in [0, 1): 0, 1/2, 1/4, 3/4, 1/8, 3/8, ...
func Hues(n int) []float64 {
	hues := make([]float64, 0, n)
	hue, step := 0.0, 1.0
	for len(hues) < n {
		hues = append(hues, hue)
		hue += 2 * step
		if hue >= 1 {
			step /= 2
			hue = step
		}
	}
	return hues
}

// HueColor converts a hue to a fully saturated colour. Each channel is a
// triangle wave over the wheel, green and blue trailing red by 1/3 and 2/3.
func HueColor(hue float64) color.RGBA {
	return color.RGBA{
		R: channel(hue),
		G: channel(hue - 1.0/3),
		B: channel(hue - 2.0/3),
		A: 255,
	}
}

func channel(hue float64) uint8 {
	h := hue - math.Floor(hue)
	v := math.Abs(h*6-3) - 1
	v = math.Max(0, math.Min(1, v))
	return uint8(v*255 + 0.5)
}

// CellIndex maps a cell state to a palette index: empty cells to the
// background, the maximum state to the foreground, and every other state onto
// the hue entries.
func CellIndex(c uint8) uint8 {
	switch c {
	case 0:
		return IndexBackground
	case math.MaxUint8:
		return IndexForeground
	default:
		return uint8(firstHueIndex + int(c-1)%hueSlots)
	}
}
