package seeded

import "math"

// Gradient-lattice value noise over a seed-derived permutation table.
// Lookups never advance the LCG state, so noise sampling can interleave with
// draws without perturbing either sequence.

var gradients = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{0.7071067811865476, 0.7071067811865476},
	{-0.7071067811865476, 0.7071067811865476},
	{0.7071067811865476, -0.7071067811865476},
	{-0.7071067811865476, -0.7071067811865476},
}

// Noise2D returns gradient noise in [-1,1] for the given coordinates.
func (g *Generator) Noise2D(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0

	ix := int(x0) & 255
	iy := int(y0) & 255

	n00 := g.gradDot(ix, iy, fx, fy)
	n10 := g.gradDot(ix+1, iy, fx-1, fy)
	n01 := g.gradDot(ix, iy+1, fx, fy-1)
	n11 := g.gradDot(ix+1, iy+1, fx-1, fy-1)

	sx := fade(fx)
	sy := fade(fy)

	top := n00 + sx*(n10-n00)
	bottom := n01 + sx*(n11-n01)
	// Gradient dots reach at most sqrt(2)/2 in magnitude; rescale to [-1,1].
	return (top + sy*(bottom-top)) * 1.4142135623730951
}

// FractalNoise2D sums octaves of Noise2D with the given lacunarity of 2 and
// persistence of 0.5, returning a value in [-1,1].
func (g *Generator) FractalNoise2D(x, y float64, octaves int) float64 {
	if octaves < 1 {
		octaves = 1
	}
	amp := 0.5
	freq := 1.0
	total := 0.0
	sumAmp := 0.0
	for i := 0; i < octaves; i++ {
		total += g.Noise2D(x*freq, y*freq) * amp
		sumAmp += amp
		amp *= 0.5
		freq *= 2.0
	}
	return total / sumAmp
}

func (g *Generator) gradDot(ix, iy int, dx, dy float64) float64 {
	h := g.perm[int(g.perm[ix&255])+(iy&255)] & 7
	grad := gradients[h]
	return grad[0]*dx + grad[1]*dy
}

func fade(t float64) float64 {
	return t * t * (3 - 2*t)
}
