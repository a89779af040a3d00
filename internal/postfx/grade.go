package postfx

import (
	"math"

	"github.com/soundvista/soundvista/internal/pixel"
)

// colorGrade applies exposure, contrast, a highlight/shadow split at mid
// luminance, and simplified temperature/tint channel shifts.
func colorGrade(buf *pixel.Buffer, cfg GradingConfig) *pixel.Buffer {
	neutral := cfg.Exposure == 0 && (cfg.Contrast == 1 || cfg.Contrast == 0) &&
		cfg.Highlights == 0 && cfg.Shadows == 0 && cfg.Temperature == 0 && cfg.Tint == 0
	if neutral {
		return buf
	}
	contrast := cfg.Contrast
	if contrast <= 0 {
		contrast = 1
	}
	gain := math.Pow(2, cfg.Exposure)

	out := pixel.NewBuffer(buf.W, buf.H)
	for i := 0; i < len(buf.Pix); i += 4 {
		r := float64(buf.Pix[i]) / 255
		g := float64(buf.Pix[i+1]) / 255
		b := float64(buf.Pix[i+2]) / 255

		r *= gain
		g *= gain
		b *= gain

		r = (r-0.5)*contrast + 0.5
		g = (g-0.5)*contrast + 0.5
		b = (b-0.5)*contrast + 0.5

		lum := 0.299*r + 0.587*g + 0.114*b
		if lum > 0.5 {
			lift := (lum - 0.5) * 2 * cfg.Highlights
			r += lift
			g += lift
			b += lift
		} else {
			lift := (0.5 - lum) * 2 * cfg.Shadows
			r += lift
			g += lift
			b += lift
		}

		r += cfg.Temperature * 0.1
		b -= cfg.Temperature * 0.1
		g -= cfg.Tint * 0.1

		out.Pix[i] = clampByte(clamp01(r) * 255)
		out.Pix[i+1] = clampByte(clamp01(g) * 255)
		out.Pix[i+2] = clampByte(clamp01(b) * 255)
		out.Pix[i+3] = buf.Pix[i+3]
	}
	return out
}

// vignette darkens pixels beyond the given fraction of the max corner
// distance, ramped by the softness exponent. intensity 0 is an identity.
func vignette(buf *pixel.Buffer, cfg VignetteConfig) *pixel.Buffer {
	if cfg.Intensity <= 0 {
		return buf
	}
	radius := cfg.Radius
	if radius <= 0 {
		radius = 0.7
	}
	softness := cfg.Softness
	if softness <= 0 {
		softness = 0.5
	}
	cx := float64(buf.W) / 2
	cy := float64(buf.H) / 2
	maxDist := math.Hypot(cx, cy)
	if maxDist == 0 {
		return buf
	}

	out := pixel.NewBuffer(buf.W, buf.H)
	for y := 0; y < buf.H; y++ {
		dy := float64(y) - cy
		for x := 0; x < buf.W; x++ {
			dx := float64(x) - cx
			dist := math.Hypot(dx, dy) / maxDist
			r, g, b, a := buf.At(x, y)
			if dist > radius {
				ramp := (dist - radius) / (1 - radius + 1e-9)
				dark := 1 - cfg.Intensity*math.Pow(clamp01(ramp), softness*2)
				if dark < 0 {
					dark = 0
				}
				r = clampByte(float64(r) * dark)
				g = clampByte(float64(g) * dark)
				b = clampByte(float64(b) * dark)
			}
			out.Set(x, y, r, g, b, a)
		}
	}
	return out
}
