package pattern

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette is an ordered color ramp sampled by normalized position.
type Palette []colorful.Color

var paletteHex = map[string][]string{
	"cosmic":  {"#0d0221", "#3d1e6d", "#8854d0", "#f368e0", "#feca57"},
	"sunset":  {"#2d1b4e", "#b83b5e", "#f08a5d", "#f9ed69", "#fcfcd4"},
	"ocean":   {"#021b2e", "#0f4c75", "#3282b8", "#41d0c8", "#bbf1ef"},
	"neon":    {"#05040a", "#ff2a6d", "#d1f7ff", "#05d9e8", "#01012b"},
	"mono":    {"#000000", "#3a3a3a", "#7d7d7d", "#bfbfbf", "#ffffff"},
	"ember":   {"#1a0500", "#7c1d05", "#d94f04", "#f9a620", "#ffe8a3"},
	"aurora":  {"#001219", "#005f73", "#0a9396", "#94d2bd", "#e9d8a6"},
}

const defaultPaletteName = "cosmic"

// ByName returns the named palette, falling back to the default for unknown
// names.
func ByName(name string) Palette {
	hexes, ok := paletteHex[name]
	if !ok {
		hexes = paletteHex[defaultPaletteName]
	}
	p := make(Palette, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			c = colorful.Color{}
		}
		p[i] = c
	}
	return p
}

// Names returns the available palette identifiers, sorted.
func Names() []string {
	names := make([]string, 0, len(paletteHex))
	for name := range paletteHex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sample blends between ramp stops at normalized position t in [0,1].
func (p Palette) Sample(t float64) colorful.Color {
	if len(p) == 0 {
		return colorful.Color{}
	}
	if len(p) == 1 {
		return p[0]
	}
	if t <= 0 {
		return p[0]
	}
	if t >= 1 {
		return p[len(p)-1]
	}
	pos := t * float64(len(p)-1)
	i := int(pos)
	frac := pos - float64(i)
	return p[i].BlendHcl(p[i+1], frac).Clamped()
}

// SampleBytes is Sample converted to RGBA bytes.
func (p Palette) SampleBytes(t float64) (r, g, b byte) {
	c := p.Sample(t)
	return byte(c.R*255 + 0.5), byte(c.G*255 + 0.5), byte(c.B*255 + 0.5)
}
