package features

import "math"

// tempoTracker maintains an onset-strength history and re-estimates BPM by
// autocorrelating that envelope over plausible beat periods. Updated once
// per analysis tick.
type tempoTracker struct {
	tickRate float64
	onsets   *history

	currentBPM float64
	strength   float64
	sinceEst   int
}

const (
	tempoMinBPM = 60.0
	tempoMaxBPM = 200.0

	// Re-estimating every tick is wasted work; the envelope barely moves.
	tempoEstimateInterval = 30

	// Envelope autocorrelation needs at least this many ticks of history.
	tempoMinHistory = 120
)

func newTempoTracker(tickRate float64) *tempoTracker {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &tempoTracker{
		tickRate: tickRate,
		onsets:   newHistory(onsetHistorySize),
	}
}

func (t *tempoTracker) push(onset float64) {
	t.onsets.push(onset)
	t.updateStrength(onset)
	t.sinceEst++
	if t.sinceEst >= tempoEstimateInterval && t.onsets.len() >= tempoMinHistory {
		t.estimate()
		t.sinceEst = 0
	}
}

func (t *tempoTracker) bpm() float64 {
	return t.currentBPM
}

func (t *tempoTracker) beatStrength() float64 {
	return clamp01(t.strength)
}

// updateStrength measures how far the newest onset rises above the recent
// envelope mean, with exponential decay between beats.
func (t *tempoTracker) updateStrength(onset float64) {
	mean := t.onsets.mean()
	t.strength *= 0.9
	if mean > 1e-9 {
		rise := (onset - mean) / mean
		if rise > 0.2 {
			t.strength = clamp01(rise)
		}
	}
}

func (t *tempoTracker) estimate() {
	n := t.onsets.len()
	env := make([]float64, n)
	for i := 0; i < n; i++ {
		env[i] = t.onsets.at(i)
	}
	mean := 0.0
	for _, v := range env {
		mean += v
	}
	mean /= float64(n)
	variance := 0.0
	for i := range env {
		env[i] -= mean
		variance += env[i] * env[i]
	}
	if variance < 1e-12 {
		t.currentBPM = 0
		return
	}

	minLag := int(t.tickRate * 60 / tempoMaxBPM)
	maxLag := int(t.tickRate * 60 / tempoMinBPM)
	if maxLag >= n {
		maxLag = n - 1
	}
	if minLag < 1 {
		minLag = 1
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i+lag < n; i++ {
			sum += env[i] * env[i+lag]
		}
		corr := sum / variance
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}
	if bestLag == 0 || bestCorr < 0.1 {
		return
	}
	bpm := t.tickRate * 60 / float64(bestLag)
	// Smooth toward the new estimate so the readout does not jitter.
	if t.currentBPM == 0 {
		t.currentBPM = bpm
	} else {
		t.currentBPM = t.currentBPM*0.7 + bpm*0.3
	}
	t.currentBPM = math.Min(tempoMaxBPM, math.Max(0, t.currentBPM))
}
