package pattern

import (
	"math"

	"github.com/soundvista/soundvista/internal/features"
	"github.com/soundvista/soundvista/internal/pixel"
	"github.com/soundvista/soundvista/internal/seeded"
)

const (
	inkParticleCount = 192
	inkViscosity     = 0.955
	inkFadeRate      = 0.22 // life lost per second
	inkTrailMaxAge   = 2.0  // seconds
	inkTrailMinLife  = 0.1
	inkImpulse       = 55.0 // px/s^2 at full band energy
)

type particle struct {
	x, y   float64
	vx, vy float64
	size   float64
	life   float64
	bin    int
}

type trailPoint struct {
	x, y float64
	life float64
	bin  int
	t    float64 // pattern clock at append time
}

// inkflow advects a fixed particle pool with band-weighted random impulses
// and draws their screen-blended trails.
type inkflow struct {
	buf       *pixel.Buffer
	gen       *seeded.Generator
	particles []particle
	trails    []trailPoint
	time      float64
}

func newInkflow(w, h int, seed uint32) Renderer {
	f := &inkflow{
		buf: pixel.NewBuffer(w, h),
		gen: seeded.New(seed),
	}
	f.particles = make([]particle, inkParticleCount)
	for i := range f.particles {
		f.particles[i] = particle{
			x:    f.gen.Float64() * float64(w),
			y:    f.gen.Float64() * float64(h),
			size: 1.5 + f.gen.Float64()*2.5,
			life: 0.3 + f.gen.Float64()*0.7,
			bin:  i,
		}
	}
	return f
}

func (f *inkflow) Style() Style { return StyleInkflow }

func (f *inkflow) Render(feat features.Vector, spectrum []float64, cfg Config, dt float64) *pixel.Buffer {
	cfg.normalize()
	f.time += dt * cfg.Speed

	pal := ByName(cfg.ColorPalette)
	f.buf.FadeToward(0, 0, 0, math.Max(cfg.BackgroundOpacity, 0.03))

	w := float64(f.buf.W)
	h := float64(f.buf.H)

	for i := range f.particles {
		p := &f.particles[i]
		bin := binForIndex(p.bin, inkParticleCount, len(spectrum))
		value := spectrumAt(spectrum, bin) * cfg.Sensitivity

		// Bass shoves sideways, mids shove vertically.
		p.vx += (f.gen.Float64()*2 - 1) * feat.BassEnergy * inkImpulse * dt
		p.vy += (f.gen.Float64()*2 - 1) * feat.MidEnergy * inkImpulse * dt

		p.vx *= inkViscosity
		p.vy *= inkViscosity

		p.x += p.vx * dt * cfg.Speed * 60
		p.y += p.vy * dt * cfg.Speed * 60
		p.x = wrap(p.x, w)
		p.y = wrap(p.y, h)

		p.life -= inkFadeRate * dt
		p.life += value * 0.5 * dt
		if p.life > 1 {
			p.life = 1
		}
		if p.life < 0 {
			p.life = 0
		}

		if p.life > inkTrailMinLife {
			f.trails = append(f.trails, trailPoint{
				x: p.x, y: p.y, life: p.life, bin: bin, t: f.time,
			})
		}
	}

	f.pruneTrails()

	specLen := math.Max(1, float64(len(spectrum)))
	for _, tp := range f.trails {
		r, g, b := pal.SampleBytes(float64(tp.bin) / specLen)
		age := (f.time - tp.t) / inkTrailMaxAge
		f.buf.BlendScreen(int(tp.x), int(tp.y), r, g, b, tp.life*(1-age)*0.5)
	}

	for i := range f.particles {
		p := &f.particles[i]
		if p.life <= 0 {
			continue
		}
		bin := binForIndex(p.bin, inkParticleCount, len(spectrum))
		r, g, b := pal.SampleBytes(float64(bin) / specLen)
		f.buf.GlowCircle(p.x, p.y, p.size*(0.6+p.life), r, g, b, p.life)
	}

	return f.buf
}

// pruneTrails drops points older than the trail window. Trails are appended
// in time order, so the live region is a suffix.
func (f *inkflow) pruneTrails() {
	cutoff := f.time - inkTrailMaxAge
	first := 0
	for first < len(f.trails) && f.trails[first].t < cutoff {
		first++
	}
	if first > 0 {
		f.trails = append(f.trails[:0], f.trails[first:]...)
	}
}

// wrap keeps a coordinate inside [0,limit) with toroidal wraparound.
func wrap(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	for v < 0 {
		v += limit
	}
	for v >= limit {
		v -= limit
	}
	return v
}
