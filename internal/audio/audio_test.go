package audio

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDecodeRejectsUnknownExtension(t *testing.T) {
	_, err := DecodeFile("track.aac", DefaultLimits())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.wav")
	if err := os.WriteFile(path, make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	_, err := DecodeFile(path, DecodeLimits{MaxFileSize: 1024})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestDecodeSurfacesCorruptContainer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.wav")
	if err := os.WriteFile(path, []byte("definitely not riff"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	_, err := DecodeFile(path, DefaultLimits())
	if !errors.Is(err, ErrDecodeFailure) {
		t.Fatalf("expected ErrDecodeFailure, got %v", err)
	}
}

func TestTrackWindowAtZeroPadsPastEnd(t *testing.T) {
	track := &Track{Samples: []float64{0.1, 0.2, 0.3}, SampleRate: 44100}
	w := track.WindowAt(2, 4)
	if len(w) != 4 {
		t.Fatalf("window length %d, want 4", len(w))
	}
	if w[0] != 0.3 || w[1] != 0 || w[3] != 0 {
		t.Fatalf("unexpected window contents %v", w)
	}
}

func TestTrackWindowAtIsACopy(t *testing.T) {
	track := &Track{Samples: []float64{0.5, 0.5}, SampleRate: 44100}
	w := track.WindowAt(0, 2)
	w[0] = 99
	if track.Samples[0] != 0.5 {
		t.Fatalf("WindowAt must not alias track samples")
	}
}

func TestTrackDuration(t *testing.T) {
	track := &Track{Samples: make([]float64, 44100), SampleRate: 44100}
	if d := track.Duration(); d != time.Second {
		t.Fatalf("duration %v, want 1s", d)
	}
}

func TestFrontEndSilenceYieldsZeroSpectrum(t *testing.T) {
	fe := NewFrontEnd(1024, 44100)
	frame := fe.Analyze(make([]float64, 1024))
	if len(frame.Spectrum) != 512 {
		t.Fatalf("spectrum length %d, want 512", len(frame.Spectrum))
	}
	for i, m := range frame.Spectrum {
		if m != 0 {
			t.Fatalf("silent input produced bin %d = %v", i, m)
		}
	}
}

func TestFrontEndSinePeaksAtItsBin(t *testing.T) {
	const (
		fftSize = 1024
		rate    = 44100.0
	)
	fe := NewFrontEnd(fftSize, rate)
	// Put the tone exactly on a bin center to avoid leakage ambiguity.
	bin := 64
	freq := float64(bin) * rate / fftSize
	samples := make([]float64, fftSize)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}
	frame := fe.Analyze(samples)

	peak := 0
	for i, m := range frame.Spectrum {
		if m > frame.Spectrum[peak] {
			peak = i
		}
		if m < 0 || m > 1 {
			t.Fatalf("bin %d out of [0,1]: %v", i, m)
		}
	}
	if peak != bin {
		t.Fatalf("spectrum peak at bin %d, want %d", peak, bin)
	}
	if frame.Spectrum[bin] < 0.8 {
		t.Fatalf("full-scale sine should read near 1.0, got %v", frame.Spectrum[bin])
	}
}

func TestFrontEndFrameIsSnapshot(t *testing.T) {
	fe := NewFrontEnd(256, 44100)
	samples := make([]float64, 256)
	samples[0] = 0.7
	frame := fe.Analyze(samples)
	samples[0] = -0.7
	if frame.Samples[0] != 0.7 {
		t.Fatalf("frame must snapshot its input")
	}
}

func TestTrackSourceAdvancesAndEnds(t *testing.T) {
	track := &Track{Samples: make([]float64, 1000), SampleRate: 1000}
	src := NewTrackSource(track, 10) // hop = 100
	ticks := 0
	for src.Advance() {
		ticks++
		if ticks > 100 {
			t.Fatalf("source never terminated")
		}
	}
	if ticks != 9 {
		t.Fatalf("expected 9 advancing ticks, got %d", ticks)
	}
	if src.Progress() != 1 {
		t.Fatalf("progress should cap at 1, got %v", src.Progress())
	}
}

func TestPCM16ReaderEncodesAndEOFs(t *testing.T) {
	r := &pcm16Reader{samples: []float64{1.0, -1.0, 0}}
	buf := make([]byte, 16)
	n, err := r.Read(buf)
	if err != nil || n != 6 {
		t.Fatalf("read n=%d err=%v, want 6,nil", n, err)
	}
	v0 := int16(uint16(buf[0]) | uint16(buf[1])<<8)
	if v0 != 32767 {
		t.Fatalf("full-scale sample encoded as %d", v0)
	}
	if _, err := r.Read(buf); err != io.EOF {
		t.Fatalf("expected EOF after draining, got %v", err)
	}
}
