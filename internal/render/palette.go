package render

import (
	"fmt"
	"image/color"

	"github.com/banshee-data/omv.report/internal/voter"
)

var categoryColors = map[voter.PartyCategory]color.RGBA{
	voter.Democrat:      {R: 0x1f, G: 0x5f, B: 0xbf, A: 255},
	voter.Republican:    {R: 0xc8, G: 0x2a, B: 0x2a, A: 255},
	voter.NonAffiliated: {R: 0x9a, G: 0x9a, B: 0x9a, A: 255},
	voter.Other:         {R: 0x3f, G: 0x9f, B: 0x5f, A: 255},
}

// categoryPalette assigns a colour to each category. Mapped categories keep
// fixed colours; pass-through codes get evenly spaced hues.
func categoryPalette(categories []voter.PartyCategory) []color.RGBA {
	var extra int
	for _, c := range categories {
		if _, ok := categoryColors[c]; !ok {
			extra++
		}
	}

	out := make([]color.RGBA, len(categories))
	var k int
	for i, c := range categories {
		if col, ok := categoryColors[c]; ok {
			out[i] = col
			continue
		}
		// offset so the first hue is not the Republican red
		hue := 0.1 + float64(k)/float64(extra)
		if hue > 1 {
			hue--
		}
		r, g, b := hslToRGB(hue, 0.6, 0.55)
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
		k++
	}
	return out
}

// hexColor formats c as #rrggbb for the HTML charts.
func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}

	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q
	return uint8(hueToRGB(p, q, h+1.0/3.0) * 255),
		uint8(hueToRGB(p, q, h) * 255),
		uint8(hueToRGB(p, q, h-1.0/3.0) * 255)
}

func hueToRGB(p, q, t float64) float64 {
	switch {
	case t < 0:
		t++
	case t > 1:
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
