package pattern

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soundvista/soundvista/internal/features"
	"github.com/soundvista/soundvista/internal/pixel"
)

// Style identifies a generative pattern variant.
type Style string

const (
	StyleMandala  Style = "mandala"
	StyleInkflow  Style = "inkflow"
	StyleNeonGrid Style = "neongrid"
)

// Config is the externally supplied per-frame render configuration.
type Config struct {
	Style             Style   `json:"style"`
	Sensitivity       float64 `json:"sensitivity"`
	Smoothing         float64 `json:"smoothing"`
	Scale             float64 `json:"scale"`
	ColorPalette      string  `json:"colorPalette"`
	Speed             float64 `json:"speed"`
	BackgroundOpacity float64 `json:"backgroundOpacity"`
}

// DefaultConfig returns moderate defaults for all knobs.
func DefaultConfig() Config {
	return Config{
		Style:             StyleMandala,
		Sensitivity:       1.0,
		Smoothing:         0.3,
		Scale:             1.0,
		ColorPalette:      defaultPaletteName,
		Speed:             1.0,
		BackgroundOpacity: 0.12,
	}
}

func (c *Config) normalize() {
	if c.Sensitivity <= 0 {
		c.Sensitivity = 1.0
	}
	if c.Scale <= 0 {
		c.Scale = 1.0
	}
	if c.Speed <= 0 {
		c.Speed = 1.0
	}
	if c.BackgroundOpacity < 0 {
		c.BackgroundOpacity = 0
	}
	if c.BackgroundOpacity > 1 {
		c.BackgroundOpacity = 1
	}
}

// Renderer is the contract shared by all pattern variants. Changing style or
// canvas size is handled by constructing a fresh renderer through New, which
// reinitializes pattern state from the seeded generator.
type Renderer interface {
	// Render draws one frame into the renderer-owned buffer and returns it.
	// The returned buffer is valid until the next Render call.
	Render(feat features.Vector, spectrum []float64, cfg Config, dt float64) *pixel.Buffer
	Style() Style
}

type rendererCtor func(w, h int, seed uint32) Renderer

var styleRegistry = map[Style]rendererCtor{
	StyleMandala:  newMandala,
	StyleInkflow:  newInkflow,
	StyleNeonGrid: newNeonGrid,
}

// StyleNames returns the supported style identifiers, sorted.
func StyleNames() []string {
	names := make([]string, 0, len(styleRegistry))
	for s := range styleRegistry {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}

// ParseStyle maps a user-supplied name to a Style, defaulting to mandala.
func ParseStyle(name string) Style {
	switch strings.ToLower(name) {
	case "inkflow", "ink":
		return StyleInkflow
	case "neongrid", "grid", "neon":
		return StyleNeonGrid
	default:
		return StyleMandala
	}
}

// New constructs a renderer for the given style and canvas size. Unknown
// styles are an error rather than a silent fallback; callers route user
// input through ParseStyle first.
func New(style Style, width, height int, seed uint32) (Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas dimensions: %dx%d", width, height)
	}
	ctor, ok := styleRegistry[style]
	if !ok {
		return nil, fmt.Errorf("unknown pattern style %q", style)
	}
	return ctor(width, height, seed), nil
}

// binForIndex linearly maps index i of count slots onto a spectrum bin.
func binForIndex(i, count, spectrumLen int) int {
	if count <= 0 || spectrumLen <= 0 {
		return 0
	}
	bin := i * spectrumLen / count
	if bin >= spectrumLen {
		bin = spectrumLen - 1
	}
	return bin
}

// spectrumAt reads a bin defensively; missing spectrum reads as silence.
func spectrumAt(spectrum []float64, bin int) float64 {
	if bin < 0 || bin >= len(spectrum) {
		return 0
	}
	return spectrum[bin]
}
