package postfx

import (
	"bytes"
	"testing"

	"github.com/soundvista/soundvista/internal/pixel"
	"github.com/soundvista/soundvista/internal/seeded"
)

func gradientBuffer(w, h int) *pixel.Buffer {
	buf := pixel.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := byte((x*255/w + y*255/h) / 2)
			buf.Set(x, y, v, 255-v, v/2, 255)
		}
	}
	return buf
}

func TestBloomThresholdOneIsIdentity(t *testing.T) {
	buf := gradientBuffer(32, 32)
	cfg := DefaultConfig().Bloom
	cfg.Threshold = 1.0
	out := bloom(buf, cfg)
	if !bytes.Equal(out.Pix, buf.Pix) {
		t.Fatalf("bloom with threshold=1 must be bit-identical")
	}
}

func TestBloomBrightensHotPixels(t *testing.T) {
	buf := pixel.NewBuffer(16, 16)
	buf.Set(8, 8, 255, 255, 255, 255)
	cfg := BloomConfig{Enabled: true, Threshold: 0.5, Intensity: 1, Radius: 2, Tint: [3]float64{1, 1, 1}}
	out := bloom(buf, cfg)
	// A neighbor of the hot pixel should have picked up spill.
	r, _, _, _ := out.At(9, 8)
	if r == 0 {
		t.Fatalf("bloom should spill onto neighbors")
	}
	// Input must not be mutated.
	if r0, _, _, _ := buf.At(9, 8); r0 != 0 {
		t.Fatalf("bloom mutated its input")
	}
}

func TestGrainAmountZeroIsIdentity(t *testing.T) {
	buf := gradientBuffer(24, 24)
	gen := seeded.New(1)
	out := grain(buf, GrainConfig{Enabled: true, Amount: 0, Size: 2}, gen, 1.0)
	if !bytes.Equal(out.Pix, buf.Pix) {
		t.Fatalf("grain with amount=0 must be bit-identical")
	}
}

func TestGrainChangesPixels(t *testing.T) {
	buf := gradientBuffer(24, 24)
	gen := seeded.New(1)
	out := grain(buf, GrainConfig{Enabled: true, Amount: 0.3, Size: 2}, gen, 1.0)
	if bytes.Equal(out.Pix, buf.Pix) {
		t.Fatalf("grain with amount>0 should perturb pixels")
	}
}

func TestVignetteIntensityZeroIsIdentity(t *testing.T) {
	buf := gradientBuffer(24, 24)
	out := vignette(buf, VignetteConfig{Enabled: true, Intensity: 0, Radius: 0.5, Softness: 0.5})
	if !bytes.Equal(out.Pix, buf.Pix) {
		t.Fatalf("vignette with intensity=0 must be bit-identical")
	}
}

func TestVignetteDarkensCorners(t *testing.T) {
	buf := pixel.NewBuffer(32, 32)
	buf.Fill(200, 200, 200, 255)
	out := vignette(buf, VignetteConfig{Enabled: true, Intensity: 0.8, Radius: 0.3, Softness: 0.5})
	corner, _, _, _ := out.At(0, 0)
	center, _, _, _ := out.At(16, 16)
	if corner >= center {
		t.Fatalf("corner (%d) should be darker than center (%d)", corner, center)
	}
}

func TestAberrationIntensityZeroIsIdentity(t *testing.T) {
	buf := gradientBuffer(24, 24)
	out := chromaticAberration(buf, AberrationConfig{Enabled: true, Intensity: 0})
	if !bytes.Equal(out.Pix, buf.Pix) {
		t.Fatalf("aberration with intensity=0 must be bit-identical")
	}
}

func TestAberrationPreservesGreenChannel(t *testing.T) {
	buf := gradientBuffer(32, 32)
	out := chromaticAberration(buf, AberrationConfig{Enabled: true, Intensity: 3})
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			_, g0, _, _ := buf.At(x, y)
			_, g1, _, _ := out.At(x, y)
			if g0 != g1 {
				t.Fatalf("green channel moved at (%d,%d)", x, y)
			}
		}
	}
}

func TestLensDistortionZeroCoeffIsIdentity(t *testing.T) {
	buf := gradientBuffer(24, 24)
	out := lensDistortion(buf, DistortionConfig{Enabled: true, Coeff: 0})
	if !bytes.Equal(out.Pix, buf.Pix) {
		t.Fatalf("distortion with coeff=0 must be bit-identical")
	}
}

func TestLensDistortionPreservesCenter(t *testing.T) {
	buf := gradientBuffer(33, 33)
	out := lensDistortion(buf, DistortionConfig{Enabled: true, Coeff: 0.3})
	// Exact center maps to itself.
	r0, g0, b0, _ := buf.At(16, 16)
	r1, g1, b1, _ := out.At(16, 16)
	if r0 != r1 || g0 != g1 || b0 != b1 {
		t.Fatalf("center pixel should survive distortion unchanged")
	}
}

func TestColorGradeNeutralIsIdentity(t *testing.T) {
	buf := gradientBuffer(24, 24)
	out := colorGrade(buf, GradingConfig{Enabled: true, Exposure: 0, Contrast: 1})
	if !bytes.Equal(out.Pix, buf.Pix) {
		t.Fatalf("neutral grading must be bit-identical")
	}
}

func TestColorGradeExposureBrightens(t *testing.T) {
	buf := pixel.NewBuffer(4, 4)
	buf.Fill(60, 60, 60, 255)
	out := colorGrade(buf, GradingConfig{Enabled: true, Exposure: 1, Contrast: 1})
	r, _, _, _ := out.At(0, 0)
	if r <= 60 {
		t.Fatalf("+1 stop should brighten: got %d", r)
	}
}

func TestMotionBlurAveragesTaps(t *testing.T) {
	buf := gradientBuffer(24, 24)
	out := motionBlur(buf, MotionBlurConfig{Enabled: true, Strength: 4, Samples: 5}, 0.7)
	if out.W != buf.W || out.H != buf.H {
		t.Fatalf("dimension change in motion blur")
	}
	// Strength zero passes through.
	same := motionBlur(buf, MotionBlurConfig{Enabled: true, Strength: 0, Samples: 5}, 0.7)
	if !bytes.Equal(same.Pix, buf.Pix) {
		t.Fatalf("zero-strength motion blur must be bit-identical")
	}
}

func TestPipelineAllDisabledIsPassThrough(t *testing.T) {
	buf := gradientBuffer(16, 16)
	p := New(1)
	out := p.Process(buf, Config{}, 1.0/60)
	if out != buf {
		t.Fatalf("fully disabled pipeline should return the input buffer")
	}
}

func TestPipelineRunsAllStages(t *testing.T) {
	buf := gradientBuffer(32, 32)
	p := New(7)
	cfg := DefaultConfig()
	cfg.MotionBlur.Enabled = true
	cfg.Distortion.Enabled = true
	out := p.Process(buf, cfg, 1.0/60)
	if out == buf {
		t.Fatalf("enabled pipeline should produce a new buffer")
	}
	if out.W != buf.W || out.H != buf.H {
		t.Fatalf("pipeline changed buffer dimensions")
	}
}
