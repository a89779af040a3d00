package session

import (
	"math"
	"strings"
	"testing"

	"github.com/soundvista/soundvista/internal/audio"
	"github.com/soundvista/soundvista/internal/export"
	"github.com/soundvista/soundvista/internal/pattern"
	"github.com/soundvista/soundvista/internal/pixel"
)

func sineTrack(seconds float64) *audio.Track {
	rate := 44_100.0
	n := int(rate * seconds)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/rate)
	}
	return &audio.Track{Samples: samples, SampleRate: rate, Title: "test tone"}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(Config{
		Width:    64,
		Height:   48,
		Track:    sineTrack(0.5),
		Headless: true,
		Seed:     7,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSessionStepProducesFeatures(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < 5; i++ {
		done, err := s.step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if done {
			t.Fatalf("track ended after %d steps", i)
		}
	}
	feat := s.Features()
	if feat.TotalEnergy <= 0 {
		t.Fatalf("expected energy from a sine track, got %v", feat.TotalEnergy)
	}
	if feat.Pitch < 430 || feat.Pitch > 450 {
		t.Fatalf("expected pitch near 440 Hz, got %v", feat.Pitch)
	}
}

func TestSessionTrackRunsOut(t *testing.T) {
	s, err := New(Config{
		Width:     32,
		Height:    32,
		TargetFPS: 10,
		Track:     sineTrack(0.2),
		Headless:  true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	done := false
	for i := 0; i < 100 && !done; i++ {
		done, err = s.step()
		if err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if !done {
		t.Fatal("track never reported completion")
	}
}

func TestSessionStyleSwitchTakesEffect(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.step(); err != nil {
		t.Fatalf("step: %v", err)
	}

	cfg := s.RenderConfig()
	cfg.Style = pattern.StyleNeonGrid
	s.SetRenderConfig(cfg)
	if _, err := s.step(); err != nil {
		t.Fatalf("step after switch: %v", err)
	}
	s.mu.RLock()
	style := s.renderer.Style()
	s.mu.RUnlock()
	if style != pattern.StyleNeonGrid {
		t.Fatalf("renderer style = %s, want %s", style, pattern.StyleNeonGrid)
	}
}

func TestSessionExportSnapshot(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.step(); err != nil {
		t.Fatalf("step: %v", err)
	}

	res, err := s.ExportSnapshot(export.Request{
		Format:      export.FormatPNG,
		Width:       128,
		Height:      96,
		SuperSample: 2,
	})
	if err != nil {
		t.Fatalf("ExportSnapshot: %v", err)
	}
	if len(res.Data) == 0 {
		t.Fatal("empty export payload")
	}
	if !strings.HasPrefix(res.Filename, "test tone_") {
		t.Fatalf("filename %q should carry the track title prefix", res.Filename)
	}
	if !strings.Contains(res.Filename, "_128x96.png") {
		t.Fatalf("filename %q missing dimensions suffix", res.Filename)
	}
}

func TestFrameCacheEvictsOldest(t *testing.T) {
	c := newFrameCache()
	for i := 0; i < frameCacheSize+10; i++ {
		c.put(uint64(i), pixel.NewBuffer(2, 2))
	}
	if c.len() != frameCacheSize {
		t.Fatalf("cache len = %d, want %d", c.len(), frameCacheSize)
	}
	for i := 0; i < 10; i++ {
		if c.get(uint64(i)) != nil {
			t.Fatalf("entry %d should have been evicted", i)
		}
	}
	if c.get(uint64(frameCacheSize+9)) == nil {
		t.Fatal("newest entry missing")
	}
}

func TestCacheKeyStableAndSensitive(t *testing.T) {
	spec := make([]float64, 64)
	spec[3] = 0.5
	cfg := pattern.DefaultConfig()

	a := cacheKey(spec, cfg)
	b := cacheKey(spec, cfg)
	if a != b {
		t.Fatal("identical inputs hashed differently")
	}

	spec[3] = 0.9
	if cacheKey(spec, cfg) == a {
		t.Fatal("spectrum change did not change the key")
	}
	spec[3] = 0.5

	cfg.ColorPalette = "neon"
	if cacheKey(spec, cfg) == a {
		t.Fatal("palette change did not change the key")
	}
}

func TestCacheKeyIgnoresSubQuantumJitter(t *testing.T) {
	spec := make([]float64, 32)
	cfg := pattern.DefaultConfig()
	a := cacheKey(spec, cfg)

	spec[0] = 1.0 / 1024.0 // below the 8-bit quantization step
	if cacheKey(spec, cfg) != a {
		t.Fatal("sub-quantum jitter should map to the same key")
	}
}

func TestPerfMonitorSnapshot(t *testing.T) {
	p := newPerfMonitor()
	p.beginFrame()
	p.mark("render")
	p.recordFrame(1.0 / 60.0)
	p.beginFrame()
	p.mark("render")
	p.recordFrame(1.0 / 60.0)

	m := p.snapshot()
	if _, ok := m.StageMs["render"]; !ok {
		t.Fatal("missing render stage timing")
	}
	if m.AverageFPS < 55 || m.AverageFPS > 65 {
		t.Fatalf("average FPS = %v, want about 60", m.AverageFPS)
	}
}

func TestNextChoiceWraps(t *testing.T) {
	opts := []string{"a", "b", "c"}
	if got := nextChoice(opts, "a"); got != "b" {
		t.Fatalf("got %q", got)
	}
	if got := nextChoice(opts, "c"); got != "a" {
		t.Fatalf("wrap got %q", got)
	}
	if got := nextChoice(opts, "zzz"); got != "a" {
		t.Fatalf("unknown got %q", got)
	}
}
