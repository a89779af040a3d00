package postfx

import (
	"math"

	"github.com/soundvista/soundvista/internal/pixel"
)

// chromaticAberration pushes red outward and blue inward radially from the
// image center; green stays put. Offset grows with normalized distance from
// center, so the effect is invisible in the middle and strongest in corners.
func chromaticAberration(buf *pixel.Buffer, cfg AberrationConfig) *pixel.Buffer {
	if cfg.Intensity <= 0 {
		return buf
	}
	cx := float64(buf.W) / 2
	cy := float64(buf.H) / 2
	maxDist := math.Hypot(cx, cy)
	if maxDist == 0 {
		return buf
	}

	out := pixel.NewBuffer(buf.W, buf.H)
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist := math.Hypot(dx, dy)
			_, g, _, a := buf.At(x, y)
			if dist == 0 {
				r, _, b, _ := buf.At(x, y)
				out.Set(x, y, r, g, b, a)
				continue
			}
			offset := cfg.Intensity * dist / maxDist
			ux := dx / dist
			uy := dy / dist

			r, _, _, _ := sampleClamped(buf, x+int(math.Round(ux*offset)), y+int(math.Round(uy*offset)))
			_, _, b, _ := sampleClamped(buf, x-int(math.Round(ux*offset)), y-int(math.Round(uy*offset)))
			out.Set(x, y, r, g, b, a)
		}
	}
	return out
}

// lensDistortion remaps each pixel through the cubic term r' = r + k*r^3 in
// normalized radius, sampling the nearest source pixel at the inverse-mapped
// location. Destinations whose source falls outside the canvas stay unset.
func lensDistortion(buf *pixel.Buffer, cfg DistortionConfig) *pixel.Buffer {
	if cfg.Coeff == 0 {
		return buf
	}
	cx := float64(buf.W) / 2
	cy := float64(buf.H) / 2
	norm := math.Hypot(cx, cy)
	if norm == 0 {
		return buf
	}

	out := pixel.NewBuffer(buf.W, buf.H)
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			dx := (float64(x) - cx) / norm
			dy := (float64(y) - cy) / norm
			r := math.Hypot(dx, dy)
			if r == 0 {
				rr, g, b, a := buf.At(x, y)
				out.Set(x, y, rr, g, b, a)
				continue
			}
			srcR := r + cfg.Coeff*r*r*r
			scale := srcR / r
			sx := int(math.Round(cx + dx*scale*norm))
			sy := int(math.Round(cy + dy*scale*norm))
			if sx < 0 || sy < 0 || sx >= buf.W || sy >= buf.H {
				continue // left transparent
			}
			rr, g, b, a := buf.At(sx, sy)
			out.Set(x, y, rr, g, b, a)
		}
	}
	return out
}

func sampleClamped(buf *pixel.Buffer, x, y int) (r, g, b, a byte) {
	if x < 0 {
		x = 0
	} else if x >= buf.W {
		x = buf.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= buf.H {
		y = buf.H - 1
	}
	return buf.At(x, y)
}
