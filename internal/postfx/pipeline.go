package postfx

import (
	"github.com/soundvista/soundvista/internal/pixel"
	"github.com/soundvista/soundvista/internal/seeded"
)

// Pipeline applies the configured effect stages to a pixel buffer. It owns
// the clock that drives time-varying effects (motion blur direction,
// animated grain) and the seeded noise source for grain.
type Pipeline struct {
	gen  *seeded.Generator
	time float64
}

// New creates a Pipeline. The seed only influences grain texture.
func New(seed uint32) *Pipeline {
	return &Pipeline{gen: seeded.New(seed)}
}

// Process runs the enabled stages in their fixed order and returns the
// transformed buffer. The input buffer is never mutated; stages that are
// disabled or neutral pass their input through untouched.
func (p *Pipeline) Process(buf *pixel.Buffer, cfg Config, dt float64) *pixel.Buffer {
	p.time += dt

	out := buf
	if cfg.Bloom.Enabled {
		out = bloom(out, cfg.Bloom)
	}
	if cfg.MotionBlur.Enabled {
		out = motionBlur(out, cfg.MotionBlur, p.time)
	}
	if cfg.Aberration.Enabled {
		out = chromaticAberration(out, cfg.Aberration)
	}
	if cfg.Distortion.Enabled {
		out = lensDistortion(out, cfg.Distortion)
	}
	if cfg.Grading.Enabled {
		out = colorGrade(out, cfg.Grading)
	}
	if cfg.Vignette.Enabled {
		out = vignette(out, cfg.Vignette)
	}
	if cfg.Grain.Enabled {
		out = grain(out, cfg.Grain, p.gen, p.time)
	}
	return out
}

// luminance returns normalized Rec.601 luma for RGB bytes.
func luminance(r, g, b byte) float64 {
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
}

func clampByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
