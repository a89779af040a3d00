package audio

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Frame is one analysis tick's worth of audio: the raw time-domain window
// and its normalized magnitude spectrum. Both slices are freshly allocated
// per tick and never mutated afterward.
type Frame struct {
	Samples    []float64 // length FFTSize, [-1,1]
	Spectrum   []float64 // length FFTSize/2, [0,1]
	SampleRate float64
}

// FrontEnd turns sample windows into Frames with a Hann-windowed FFT.
type FrontEnd struct {
	fftSize    int
	sampleRate float64
	hann       []float64
	scratch    []float64
}

// NewFrontEnd creates a front end for the given FFT size (power of two).
func NewFrontEnd(fftSize int, sampleRate float64) *FrontEnd {
	if fftSize <= 0 {
		fftSize = defaultWindowSize
	}
	if sampleRate <= 0 {
		sampleRate = 44_100
	}
	fe := &FrontEnd{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		hann:       make([]float64, fftSize),
		scratch:    make([]float64, fftSize),
	}
	for i := range fe.hann {
		fe.hann[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize)))
	}
	return fe
}

// FFTSize returns the analysis window length.
func (fe *FrontEnd) FFTSize() int {
	return fe.fftSize
}

// Analyze produces a Frame from the given mono window. Short input is
// zero-padded; excess input is trimmed to the most recent fftSize samples.
func (fe *FrontEnd) Analyze(samples []float64) Frame {
	frame := Frame{
		Samples:    make([]float64, fe.fftSize),
		Spectrum:   make([]float64, fe.fftSize/2),
		SampleRate: fe.sampleRate,
	}
	if len(samples) > fe.fftSize {
		samples = samples[len(samples)-fe.fftSize:]
	}
	copy(frame.Samples, samples)

	for i := range fe.scratch {
		fe.scratch[i] = frame.Samples[i] * fe.hann[i]
	}
	bins := fft.FFTReal(fe.scratch)

	// A full-scale sine under a Hann window peaks at N/4; normalizing by
	// that puts the spectrum in [0,1] independent of input loudness.
	norm := 4.0 / float64(fe.fftSize)
	for i := 0; i < fe.fftSize/2; i++ {
		mag := realMag(bins[i]) * norm
		if mag > 1 {
			mag = 1
		}
		frame.Spectrum[i] = mag
	}
	return frame
}

func realMag(c complex128) float64 {
	return math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
}

// TrackSource steps through a decoded Track at the analysis tick rate.
type TrackSource struct {
	track *Track
	pos   int
	hop   int
}

// NewTrackSource creates a stepper advancing hop samples per tick.
func NewTrackSource(t *Track, tickRate float64) *TrackSource {
	if tickRate <= 0 {
		tickRate = 60
	}
	hop := int(t.SampleRate / tickRate)
	if hop < 1 {
		hop = 1
	}
	return &TrackSource{track: t, hop: hop}
}

// Window returns the current analysis window.
func (s *TrackSource) Window(size int) []float64 {
	return s.track.WindowAt(s.pos, size)
}

// Advance moves to the next tick. It returns false once the track is
// exhausted.
func (s *TrackSource) Advance() bool {
	s.pos += s.hop
	return s.pos < len(s.track.Samples)
}

// Progress reports playback position in [0,1].
func (s *TrackSource) Progress() float64 {
	if len(s.track.Samples) == 0 {
		return 1
	}
	p := float64(s.pos) / float64(len(s.track.Samples))
	if p > 1 {
		p = 1
	}
	return p
}
