package postfx

import (
	"github.com/soundvista/soundvista/internal/pixel"
	"github.com/soundvista/soundvista/internal/seeded"
)

// grain adds block-wise value noise. amount 0 is a strict identity. With
// Animated set, the noise field drifts with the pipeline clock so the grain
// shimmers; otherwise it is a fixed texture.
func grain(buf *pixel.Buffer, cfg GrainConfig, gen *seeded.Generator, t float64) *pixel.Buffer {
	if cfg.Amount <= 0 {
		return buf
	}
	size := cfg.Size
	if size < 1 {
		size = 1
	}
	timeOffset := 0.0
	if cfg.Animated {
		timeOffset = t * 37.0 // decorrelate consecutive frames
	}

	out := buf.Clone()
	for by := 0; by < buf.H; by += size {
		for bx := 0; bx < buf.W; bx += size {
			n := gen.Noise2D(float64(bx)/float64(size)*0.7+timeOffset, float64(by)/float64(size)*0.7+timeOffset*0.61)
			offset := n * cfg.Amount * 255
			for y := by; y < by+size && y < buf.H; y++ {
				for x := bx; x < bx+size && x < buf.W; x++ {
					i := (y*buf.W + x) * 4
					out.Pix[i] = clampByte(float64(out.Pix[i]) + offset)
					out.Pix[i+1] = clampByte(float64(out.Pix[i+1]) + offset)
					out.Pix[i+2] = clampByte(float64(out.Pix[i+2]) + offset)
				}
			}
		}
	}
	return out
}
