package pattern

import (
	"math"
	"testing"

	"github.com/soundvista/soundvista/internal/features"
)

func TestFactoryKnownStyles(t *testing.T) {
	for _, style := range []Style{StyleMandala, StyleInkflow, StyleNeonGrid} {
		r, err := New(style, 64, 48, 1)
		if err != nil {
			t.Fatalf("New(%s): %v", style, err)
		}
		if r.Style() != style {
			t.Fatalf("renderer reports style %s, want %s", r.Style(), style)
		}
	}
}

func TestFactoryRejectsUnknownStyleAndBadDims(t *testing.T) {
	if _, err := New(Style("plasma"), 64, 48, 1); err == nil {
		t.Fatalf("expected error for unknown style")
	}
	if _, err := New(StyleMandala, 0, 48, 1); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestParseStyleFallsBackToMandala(t *testing.T) {
	if ParseStyle("whatever") != StyleMandala {
		t.Fatalf("unknown names should parse as mandala")
	}
	if ParseStyle("grid") != StyleNeonGrid {
		t.Fatalf("grid alias should parse as neongrid")
	}
}

func TestRenderProducesCorrectlySizedBuffer(t *testing.T) {
	spectrum := make([]float64, 256)
	for i := range spectrum {
		spectrum[i] = 0.5
	}
	feat := features.Neutral()
	feat.TotalEnergy = 0.5
	for _, style := range []Style{StyleMandala, StyleInkflow, StyleNeonGrid} {
		r, err := New(style, 80, 60, 7)
		if err != nil {
			t.Fatalf("New(%s): %v", style, err)
		}
		buf := r.Render(feat, spectrum, DefaultConfig(), 1.0/60)
		if buf.W != 80 || buf.H != 60 {
			t.Fatalf("%s: buffer %dx%d, want 80x60", style, buf.W, buf.H)
		}
		if len(buf.Pix) != 80*60*4 {
			t.Fatalf("%s: pixel slice length %d", style, len(buf.Pix))
		}
	}
}

func TestPetalTipReachesFullRadiusOnMaxSpectrum(t *testing.T) {
	inner := 10.0
	outer := 50.0
	tip := petalTipRadius(inner, outer, 1.0, 1.0, 1.0)
	if math.Abs(tip-outer) > 1e-9 {
		t.Fatalf("maximal bin should land on the outer radius, got %v", tip)
	}
	// Every petal of a maximal spectrum reaches full radius.
	spectrum := make([]float64, 128)
	for i := range spectrum {
		spectrum[i] = 1.0
	}
	for petal := 0; petal < mandalaPetals; petal++ {
		bin := binForIndex(petal, mandalaPetals, len(spectrum))
		v := spectrumAt(spectrum, bin)
		if got := petalTipRadius(inner, outer, v, 1.0, 1.0); math.Abs(got-outer) > 1e-9 {
			t.Fatalf("petal %d tip %v, want %v", petal, got, outer)
		}
	}
}

func TestPetalTipClampsOverdrive(t *testing.T) {
	if tip := petalTipRadius(10, 50, 1.0, 3.0, 2.0); tip != 50 {
		t.Fatalf("overdriven tip should clamp to outer radius, got %v", tip)
	}
	if tip := petalTipRadius(10, 50, 0, 1, 1); tip != 10 {
		t.Fatalf("silent bin should sit on inner radius, got %v", tip)
	}
}

func TestInkflowWrapsAtCanvasEdge(t *testing.T) {
	r, err := New(StyleInkflow, 100, 100, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f := r.(*inkflow)
	f.particles[0].x = 99
	f.particles[0].y = 50
	f.particles[0].vx = 5
	f.particles[0].vy = 0

	spectrum := make([]float64, 64)
	f.Render(features.Neutral(), spectrum, DefaultConfig(), 1.0/60)

	x := f.particles[0].x
	if x >= 99 || x > 10 {
		t.Fatalf("particle should wrap to the left edge, x=%v", x)
	}
}

func TestWrapHelper(t *testing.T) {
	if got := wrap(101, 100); got != 1 {
		t.Fatalf("wrap(101,100)=%v", got)
	}
	if got := wrap(-3, 100); got != 97 {
		t.Fatalf("wrap(-3,100)=%v", got)
	}
	if got := wrap(50, 100); got != 50 {
		t.Fatalf("wrap(50,100)=%v", got)
	}
}

func TestInkflowTrailPruning(t *testing.T) {
	r, _ := New(StyleInkflow, 60, 60, 5)
	f := r.(*inkflow)
	spectrum := make([]float64, 64)
	for i := range spectrum {
		spectrum[i] = 1.0
	}
	cfg := DefaultConfig()
	// Advance well past the trail window; nothing older than 2s may remain.
	for i := 0; i < 300; i++ {
		f.Render(features.Neutral(), spectrum, cfg, 1.0/60)
	}
	cutoff := f.time - inkTrailMaxAge
	for _, tp := range f.trails {
		if tp.t < cutoff {
			t.Fatalf("stale trail point at t=%v, cutoff=%v", tp.t, cutoff)
		}
	}
}

func TestNeonGridHidesQuietNodes(t *testing.T) {
	r, _ := New(StyleNeonGrid, 120, 120, 9)
	g := r.(*neonGrid)
	// Spectrum low enough that energy never clears the 0.1 threshold even
	// at peak pulsation.
	spectrum := make([]float64, 64)
	for i := range spectrum {
		spectrum[i] = 0.05
	}
	g.Render(features.Neutral(), spectrum, DefaultConfig(), 1.0/60)
	if n := g.visibleNodes(); n != 0 {
		t.Fatalf("%d nodes visible below threshold", n)
	}
}

func TestNeonGridShowsLoudNodes(t *testing.T) {
	r, _ := New(StyleNeonGrid, 120, 120, 9)
	g := r.(*neonGrid)
	spectrum := make([]float64, 64)
	for i := range spectrum {
		spectrum[i] = 1.0
	}
	// Render a few frames; pulsation keeps some nodes above threshold.
	visible := 0
	for i := 0; i < 10; i++ {
		g.Render(features.Neutral(), spectrum, DefaultConfig(), 1.0/60)
		visible += g.visibleNodes()
	}
	if visible == 0 {
		t.Fatalf("maxed spectrum should light nodes")
	}
}

func TestSameSeedSameFirstFrame(t *testing.T) {
	spectrum := make([]float64, 64)
	for i := range spectrum {
		spectrum[i] = 0.7
	}
	a, _ := New(StyleInkflow, 64, 64, 42)
	b, _ := New(StyleInkflow, 64, 64, 42)
	feat := features.Neutral()
	feat.BassEnergy = 0.8
	feat.MidEnergy = 0.5
	bufA := a.Render(feat, spectrum, DefaultConfig(), 1.0/60)
	bufB := b.Render(feat, spectrum, DefaultConfig(), 1.0/60)
	for i := range bufA.Pix {
		if bufA.Pix[i] != bufB.Pix[i] {
			t.Fatalf("frames differ at byte %d despite identical seeds", i)
		}
	}
}

func TestMandalaIgnoresSeed(t *testing.T) {
	spectrum := make([]float64, 128)
	for i := range spectrum {
		spectrum[i] = float64(i) / 128
	}
	feat := features.Neutral()
	feat.TotalEnergy = 0.4

	a, err := New(StyleMandala, 64, 48, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(StyleMandala, 64, 48, 999)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	bufA := a.Render(feat, spectrum, DefaultConfig(), 1.0/60)
	bufB := b.Render(feat, spectrum, DefaultConfig(), 1.0/60)
	for i := range bufA.Pix {
		if bufA.Pix[i] != bufB.Pix[i] {
			t.Fatalf("mandala has no entropy state; frames diverged at byte %d", i)
		}
	}
}

func TestBinForIndexCoversSpectrum(t *testing.T) {
	if binForIndex(0, 10, 100) != 0 {
		t.Fatalf("first index should map to bin 0")
	}
	if binForIndex(9, 10, 100) != 90 {
		t.Fatalf("mapping should be linear")
	}
	if binForIndex(5, 10, 0) != 0 {
		t.Fatalf("empty spectrum maps to 0")
	}
}
