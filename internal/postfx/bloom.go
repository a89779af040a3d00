package postfx

import "github.com/soundvista/soundvista/internal/pixel"

// bloom extracts pixels whose luminance exceeds the threshold, blurs them,
// and screens the result back additively with an RGB tint. threshold >= 1
// is a strict identity: no pixel can qualify.
func bloom(buf *pixel.Buffer, cfg BloomConfig) *pixel.Buffer {
	if cfg.Threshold >= 1 || cfg.Intensity <= 0 {
		return buf
	}
	radius := cfg.Radius
	if radius < 1 {
		radius = 1
	}

	// Bright pass, scaled by how far each pixel exceeds the threshold.
	bright := pixel.NewBuffer(buf.W, buf.H)
	denom := 1 - cfg.Threshold
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			r, g, b, a := buf.At(x, y)
			lum := luminance(r, g, b)
			if lum <= cfg.Threshold {
				continue
			}
			scale := (lum - cfg.Threshold) / denom
			bright.Set(x, y,
				clampByte(float64(r)*scale),
				clampByte(float64(g)*scale),
				clampByte(float64(b)*scale),
				a)
		}
	}

	blurred := boxBlur(bright, radius)
	blurred = boxBlur(blurred, radius) // two passes approximate a Gaussian

	out := buf.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = clampByte(float64(out.Pix[i]) + float64(blurred.Pix[i])*cfg.Intensity*cfg.Tint[0])
		out.Pix[i+1] = clampByte(float64(out.Pix[i+1]) + float64(blurred.Pix[i+1])*cfg.Intensity*cfg.Tint[1])
		out.Pix[i+2] = clampByte(float64(out.Pix[i+2]) + float64(blurred.Pix[i+2])*cfg.Intensity*cfg.Tint[2])
	}
	return out
}

// boxBlur is a separable box blur; run twice it approximates Gaussian blur.
func boxBlur(buf *pixel.Buffer, radius int) *pixel.Buffer {
	horizontal := pixel.NewBuffer(buf.W, buf.H)
	blurAxis(buf, horizontal, radius, true)
	out := pixel.NewBuffer(buf.W, buf.H)
	blurAxis(horizontal, out, radius, false)
	return out
}

func blurAxis(src, dst *pixel.Buffer, radius int, horizontal bool) {
	window := float64(2*radius + 1)
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			var sr, sg, sb, sa float64
			for d := -radius; d <= radius; d++ {
				sx, sy := x, y
				if horizontal {
					sx += d
				} else {
					sy += d
				}
				if sx < 0 {
					sx = 0
				} else if sx >= src.W {
					sx = src.W - 1
				}
				if sy < 0 {
					sy = 0
				} else if sy >= src.H {
					sy = src.H - 1
				}
				r, g, b, a := src.At(sx, sy)
				sr += float64(r)
				sg += float64(g)
				sb += float64(b)
				sa += float64(a)
			}
			dst.Set(x, y,
				clampByte(sr/window),
				clampByte(sg/window),
				clampByte(sb/window),
				clampByte(sa/window))
		}
	}
}
