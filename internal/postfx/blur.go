package postfx

import (
	"math"

	"github.com/soundvista/soundvista/internal/pixel"
)

// motionBlur averages multiple taps along a synthetic, time-varying motion
// vector. Out-of-bounds taps fall back to the center pixel so edges do not
// darken.
func motionBlur(buf *pixel.Buffer, cfg MotionBlurConfig, t float64) *pixel.Buffer {
	if cfg.Strength <= 0 {
		return buf
	}
	samples := cfg.Samples
	if samples < 2 {
		samples = 2
	}

	dirX := math.Cos(t*0.8) * cfg.Strength
	dirY := math.Sin(t*1.1) * cfg.Strength

	out := pixel.NewBuffer(buf.W, buf.H)
	inv := 1.0 / float64(samples)
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			var sr, sg, sb, sa float64
			for s := 0; s < samples; s++ {
				frac := float64(s)/float64(samples-1) - 0.5
				sx := x + int(math.Round(dirX*frac))
				sy := y + int(math.Round(dirY*frac))
				if sx < 0 || sy < 0 || sx >= buf.W || sy >= buf.H {
					sx, sy = x, y
				}
				r, g, b, a := buf.At(sx, sy)
				sr += float64(r)
				sg += float64(g)
				sb += float64(b)
				sa += float64(a)
			}
			out.Set(x, y,
				clampByte(sr*inv),
				clampByte(sg*inv),
				clampByte(sb*inv),
				clampByte(sa*inv))
		}
	}
	return out
}
