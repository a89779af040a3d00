package pattern

import (
	"math"

	"github.com/soundvista/soundvista/internal/features"
	"github.com/soundvista/soundvista/internal/pixel"
)

const (
	mandalaSymmetry  = 8
	mandalaLayers    = 3
	mandalaPetals    = 12 // petals per symmetry segment, across all layers
	mandalaBaseSpeed = 0.4
)

// mandala draws symmetric petal rings whose radii track the spectrum. The
// only persistent state is the advancing rotation clock.
type mandala struct {
	buf  *pixel.Buffer
	time float64
}

func newMandala(w, h int, seed uint32) Renderer {
	return &mandala{buf: pixel.NewBuffer(w, h)}
}

func (m *mandala) Style() Style { return StyleMandala }

func (m *mandala) Render(feat features.Vector, spectrum []float64, cfg Config, dt float64) *pixel.Buffer {
	cfg.normalize()
	m.time += dt * cfg.Speed * mandalaBaseSpeed

	pal := ByName(cfg.ColorPalette)
	m.buf.FadeToward(0, 0, 0, math.Max(cfg.BackgroundOpacity, 0.02))

	cx := float64(m.buf.W) / 2
	cy := float64(m.buf.H) / 2
	maxR := math.Min(cx, cy) * 0.95

	rotation := m.time + feat.TotalEnergy*math.Pi

	for layer := 0; layer < mandalaLayers; layer++ {
		inner := layerInnerRadius(maxR, layer)
		outer := layerOuterRadius(maxR, layer)
		layerRot := rotation * (1 + float64(layer)*0.35)

		for petal := 0; petal < mandalaPetals; petal++ {
			bin := binForIndex(layer*mandalaPetals+petal, mandalaLayers*mandalaPetals, len(spectrum))
			value := spectrumAt(spectrum, bin)
			tip := petalTipRadius(inner, outer, value, cfg.Sensitivity, cfg.Scale)
			if tip <= inner {
				continue
			}
			r, g, b := pal.SampleBytes(float64(bin) / math.Max(1, float64(len(spectrum))))
			alpha := 0.25 + value*0.6

			petalAngle := 2 * math.Pi * float64(petal) / (mandalaPetals * mandalaSymmetry)
			halfWidth := math.Pi / (mandalaPetals * mandalaSymmetry)

			for fold := 0; fold < mandalaSymmetry; fold++ {
				angle := layerRot + petalAngle + 2*math.Pi*float64(fold)/mandalaSymmetry
				m.drawPetal(cx, cy, angle, halfWidth, inner, tip, r, g, b, alpha)
			}
		}
	}

	// Center disk pulses with total energy.
	r, g, b := pal.SampleBytes(0.9)
	m.buf.GlowCircle(cx, cy, 4+feat.TotalEnergy*maxR*0.18, r, g, b, 0.5+feat.TotalEnergy*0.5)

	return m.buf
}

// layerInnerRadius and layerOuterRadius carve maxRadius into 3 concentric
// rings with a small overlap so petals read as one figure.
func layerInnerRadius(maxRadius float64, layer int) float64 {
	return maxRadius * (0.12 + 0.28*float64(layer))
}

func layerOuterRadius(maxRadius float64, layer int) float64 {
	return maxRadius * (0.38 + 0.31*float64(layer))
}

// petalTipRadius maps a normalized spectrum value onto the ring span. A
// maximal bin with sensitivity and scale at 1 lands exactly on the outer
// radius; overdriven settings clamp there.
func petalTipRadius(inner, outer, value, sensitivity, scale float64) float64 {
	tip := inner + value*sensitivity*scale*(outer-inner)
	if tip > outer {
		tip = outer
	}
	if tip < inner {
		tip = inner
	}
	return tip
}

// drawPetal fills a diamond: base point on the inner radius, tip on the
// computed radius, side points halfway between at the angular half width.
func (m *mandala) drawPetal(cx, cy, angle, halfWidth, inner, tip float64, r, g, b byte, alpha float64) {
	mid := (inner + tip) / 2
	pts := []pixel.Point{
		{X: cx + inner*math.Cos(angle), Y: cy + inner*math.Sin(angle)},
		{X: cx + mid*math.Cos(angle-halfWidth), Y: cy + mid*math.Sin(angle-halfWidth)},
		{X: cx + tip*math.Cos(angle), Y: cy + tip*math.Sin(angle)},
		{X: cx + mid*math.Cos(angle+halfWidth), Y: cy + mid*math.Sin(angle+halfWidth)},
	}
	m.buf.FillPolygon(pts, r, g, b, alpha)
}
