package pattern

import (
	"math"

	"github.com/soundvista/soundvista/internal/features"
	"github.com/soundvista/soundvista/internal/pixel"
	"github.com/soundvista/soundvista/internal/seeded"
)

const (
	gridCellSpacing     = 40.0
	gridVisibleEnergy   = 0.1
	gridNodeBaseRadius  = 3.0
	gridLineBaseAlpha   = 0.08
)

type gridNode struct {
	x, y   float64
	phase  float64
	energy float64
}

// neonGrid lights a fixed lattice of nodes whose energy follows their mapped
// spectrum bin, with sinusoidal pulsation per node.
type neonGrid struct {
	buf   *pixel.Buffer
	gen   *seeded.Generator
	nodes []gridNode
	cols  int
	rows  int
	time  float64
}

func newNeonGrid(w, h int, seed uint32) Renderer {
	g := &neonGrid{
		buf: pixel.NewBuffer(w, h),
		gen: seeded.New(seed),
	}
	g.cols = int(float64(w)/gridCellSpacing) + 1
	g.rows = int(float64(h)/gridCellSpacing) + 1
	if g.cols < 2 {
		g.cols = 2
	}
	if g.rows < 2 {
		g.rows = 2
	}
	g.nodes = make([]gridNode, g.cols*g.rows)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			g.nodes[row*g.cols+col] = gridNode{
				x:     float64(col) * gridCellSpacing,
				y:     float64(row) * gridCellSpacing,
				phase: g.gen.Float64() * 2 * math.Pi,
			}
		}
	}
	return g
}

func (g *neonGrid) Style() Style { return StyleNeonGrid }

func (g *neonGrid) Render(feat features.Vector, spectrum []float64, cfg Config, dt float64) *pixel.Buffer {
	cfg.normalize()
	g.time += dt * cfg.Speed

	pal := ByName(cfg.ColorPalette)
	g.buf.FadeToward(0, 0, 0, math.Max(cfg.BackgroundOpacity, 0.25))

	for i := range g.nodes {
		n := &g.nodes[i]
		bin := binForIndex(i, len(g.nodes), len(spectrum))
		pulsation := 0.5 + 0.5*math.Sin(g.time*2+n.phase)
		n.energy = spectrumAt(spectrum, bin) * cfg.Sensitivity * pulsation
	}

	lineR, lineG, lineB := pal.SampleBytes(0.35)

	// Grid lines glow with the mean energy of the nodes they connect.
	for row := 0; row < g.rows; row++ {
		avg := g.rowEnergy(row)
		alpha := gridLineBaseAlpha + avg*0.7
		y := float64(row) * gridCellSpacing
		g.buf.ScreenLine(0, y, float64(g.buf.W-1), y, lineR, lineG, lineB, alpha)
	}
	for col := 0; col < g.cols; col++ {
		avg := g.colEnergy(col)
		alpha := gridLineBaseAlpha + avg*0.7
		x := float64(col) * gridCellSpacing
		g.buf.ScreenLine(x, 0, x, float64(g.buf.H-1), lineR, lineG, lineB, alpha)
	}

	for i := range g.nodes {
		n := &g.nodes[i]
		if n.energy <= gridVisibleEnergy {
			continue
		}
		bin := binForIndex(i, len(g.nodes), len(spectrum))
		r, gg, b := pal.SampleBytes(float64(bin) / math.Max(1, float64(len(spectrum))))
		radius := gridNodeBaseRadius + n.energy*10
		g.buf.GlowCircle(n.x, n.y, radius, r, gg, b, math.Min(1, n.energy))
	}

	return g.buf
}

func (g *neonGrid) rowEnergy(row int) float64 {
	sum := 0.0
	for col := 0; col < g.cols; col++ {
		sum += g.nodes[row*g.cols+col].energy
	}
	return sum / float64(g.cols)
}

func (g *neonGrid) colEnergy(col int) float64 {
	sum := 0.0
	for row := 0; row < g.rows; row++ {
		sum += g.nodes[row*g.cols+col].energy
	}
	return sum / float64(g.rows)
}

// visibleNodes reports how many nodes pass the draw threshold this frame.
func (g *neonGrid) visibleNodes() int {
	count := 0
	for i := range g.nodes {
		if g.nodes[i].energy > gridVisibleEnergy {
			count++
		}
	}
	return count
}
