package features

import "math"

// Pitch search range in Hz.
const (
	pitchMinHz = 80.0
	pitchMaxHz = 800.0

	// Correlation below this is treated as unvoiced.
	pitchConfidenceFloor = 0.3
)

// pitch estimates the fundamental by normalized autocorrelation of the time
// buffer over the 80-800 Hz period range. Returns (0,0) when nothing
// correlates convincingly.
func (e *Extractor) pitch(samples []float64) (hz, confidence float64) {
	if len(samples) < 2 {
		return 0, 0
	}
	energy := 0.0
	for _, s := range samples {
		energy += s * s
	}
	if energy < 1e-9 {
		return 0, 0
	}

	minLag := int(e.sampleRate / pitchMaxHz)
	maxLag := int(e.sampleRate / pitchMinHz)
	if maxLag >= len(samples) {
		maxLag = len(samples) - 1
	}
	if minLag < 1 {
		minLag = 1
	}
	if minLag >= maxLag {
		return 0, 0
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i+lag < len(samples); i++ {
			sum += samples[i] * samples[i+lag]
		}
		corr := sum / energy
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr < pitchConfidenceFloor {
		return 0, 0
	}
	return e.sampleRate / float64(bestLag), math.Min(1, bestCorr)
}
