package pixel

import (
	"math"
	"sort"
)

// Point is a 2D coordinate in buffer space.
type Point struct {
	X float64
	Y float64
}

// FillCircle draws a solid disk with alpha blending.
func (b *Buffer) FillCircle(cx, cy, radius float64, r, g, bl byte, alpha float64) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	minX := int(math.Floor(cx - radius))
	maxX := int(math.Ceil(cx + radius))
	minY := int(math.Floor(cy - radius))
	maxY := int(math.Ceil(cy + radius))
	r2 := radius * radius
	for y := minY; y <= maxY; y++ {
		dy := float64(y) + 0.5 - cy
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				b.BlendOver(x, y, r, g, bl, alpha)
			}
		}
	}
}

// GlowCircle draws a disk whose alpha falls off toward the rim, screen
// blended so overlapping glows accumulate brightness.
func (b *Buffer) GlowCircle(cx, cy, radius float64, r, g, bl byte, alpha float64) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	minX := int(math.Floor(cx - radius))
	maxX := int(math.Ceil(cx + radius))
	minY := int(math.Floor(cy - radius))
	maxY := int(math.Ceil(cy + radius))
	for y := minY; y <= maxY; y++ {
		dy := float64(y) + 0.5 - cy
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist > radius {
				continue
			}
			falloff := 1 - dist/radius
			b.BlendScreen(x, y, r, g, bl, alpha*falloff*falloff)
		}
	}
}

// Line draws a 1px alpha-blended line between two points.
func (b *Buffer) Line(x0, y0, x1, y1 float64, r, g, bl byte, alpha float64) {
	b.line(x0, y0, x1, y1, r, g, bl, alpha, (*Buffer).BlendOver)
}

// ScreenLine draws a 1px screen-blended line, used for glow trails.
func (b *Buffer) ScreenLine(x0, y0, x1, y1 float64, r, g, bl byte, alpha float64) {
	b.line(x0, y0, x1, y1, r, g, bl, alpha, (*Buffer).BlendScreen)
}

func (b *Buffer) line(x0, y0, x1, y1 float64, r, g, bl byte, alpha float64, blend func(*Buffer, int, int, byte, byte, byte, float64)) {
	if alpha <= 0 {
		return
	}
	dx := x1 - x0
	dy := y1 - y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	sx := dx / float64(steps)
	sy := dy / float64(steps)
	x := x0
	y := y0
	for i := 0; i <= steps; i++ {
		blend(b, int(x), int(y), r, g, bl, alpha)
		x += sx
		y += sy
	}
}

// FillPolygon scanline-fills a polygon with even-odd parity.
func (b *Buffer) FillPolygon(pts []Point, r, g, bl byte, alpha float64) {
	if len(pts) < 3 || alpha <= 0 {
		return
	}
	minY := math.Inf(1)
	maxY := math.Inf(-1)
	for _, p := range pts {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))
	if yStart < 0 {
		yStart = 0
	}
	if yEnd >= b.H {
		yEnd = b.H - 1
	}

	xs := make([]float64, 0, len(pts))
	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5
		xs = xs[:0]
		j := len(pts) - 1
		for i := range pts {
			a := pts[i]
			c := pts[j]
			if (a.Y <= scanY && c.Y > scanY) || (c.Y <= scanY && a.Y > scanY) {
				t := (scanY - a.Y) / (c.Y - a.Y)
				xs = append(xs, a.X+t*(c.X-a.X))
			}
			j = i
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Floor(xs[i+1] - 0.5))
			for x := x0; x <= x1; x++ {
				b.BlendOver(x, y, r, g, bl, alpha)
			}
		}
	}
}
