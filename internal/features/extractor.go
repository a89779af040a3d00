package features

import (
	"math"
)

// Hz band edges for the basic energies.
const (
	bassLow    = 20.0
	bassHigh   = 250.0
	midHigh    = 4000.0
	trebleHigh = 20000.0
)

// Bounded history capacities.
const (
	spectralHistorySize = 100
	onsetHistorySize    = 1000
	pitchHistorySize    = 100
)

// Config controls Extractor behavior.
type Config struct {
	SampleRate float64
	FFTSize    int
	TickRate   float64 // analysis ticks per second, drives tempo lag mapping
}

// Extractor computes a Vector per audio tick. It keeps bounded history for
// flux and tempo tracking; everything else is a pure function of the
// current frame.
type Extractor struct {
	sampleRate float64
	fftSize    int
	specLen    int

	freqBins []float64
	melBank  [][]melTap
	chromaWt [][12]float64

	specHist  *spectrumHistory
	pitchHist *history
	tempo     *tempoTracker
}

// New creates an Extractor with sensible defaults on zero config values.
func New(cfg Config) *Extractor {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44_100
	}
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 2048
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	specLen := cfg.FFTSize / 2
	e := &Extractor{
		sampleRate: cfg.SampleRate,
		fftSize:    cfg.FFTSize,
		specLen:    specLen,
		specHist:   newSpectrumHistory(spectralHistorySize),
		pitchHist:  newHistory(pitchHistorySize),
		tempo:      newTempoTracker(cfg.TickRate),
	}
	e.freqBins = make([]float64, specLen)
	for i := range e.freqBins {
		e.freqBins[i] = float64(i) * cfg.SampleRate / float64(cfg.FFTSize)
	}
	e.melBank = buildMelBank(melFilterCount, specLen, cfg.SampleRate)
	e.chromaWt = buildChromaWeights(e.freqBins)
	return e
}

// Extract computes the feature vector for one tick. samples is the
// time-domain buffer in [-1,1], spectrum the magnitude spectrum normalized
// to [0,1] with length FFTSize/2. Degenerate input degrades to Neutral()
// rather than failing; this is the normal path before audio arrives.
func (e *Extractor) Extract(samples, spectrum []float64) Vector {
	if len(spectrum) == 0 || allZero(spectrum) {
		// Keep tempo state coherent through silence.
		e.tempo.push(0)
		e.specHist.push(spectrum)
		return Neutral()
	}

	v := Neutral()

	specSum := 0.0
	for _, m := range spectrum {
		specSum += m
	}

	v.BassEnergy = e.bandEnergy(spectrum, bassLow, bassHigh)
	v.MidEnergy = e.bandEnergy(spectrum, bassHigh, midHigh)
	v.TrebleEnergy = e.bandEnergy(spectrum, midHigh, trebleHigh)
	v.TotalEnergy = clamp01((v.BassEnergy + v.MidEnergy + v.TrebleEnergy) / 3)

	v.RMS = rms(samples)
	v.ZCR = zeroCrossingRate(samples)

	nyquist := e.sampleRate / 2
	centroidHz := e.centroid(spectrum, specSum)
	v.SpectralCentroid = clamp01(centroidHz / nyquist)
	v.SpectralBandwidth = clamp01(e.bandwidth(spectrum, centroidHz, specSum) / nyquist)
	v.SpectralRolloff = clamp01(e.rolloff(spectrum, specSum) / nyquist)
	v.SpectralFlux = e.flux(spectrum)

	v.Chroma = e.chroma(spectrum)
	v.Tonnetz = tonnetz(v.Chroma)
	v.Harmonicity = e.harmonicity(spectrum, specSum)

	melEnergies := applyMelBank(e.melBank, spectrum)
	v.Loudness = loudness(melEnergies)
	v.MFCC = mfcc(melEnergies)

	v.Sharpness = e.sharpness(spectrum, specSum)
	v.Roughness = roughness(spectrum, specSum)
	v.Brightness = e.brightness(spectrum, specSum)
	v.SpectralContrast = e.contrast(spectrum)

	slope, skew, kurt := e.shapeMoments(spectrum, specSum)
	v.SpectralSlope = slope
	v.SpectralSkewness = skew
	v.SpectralKurtosis = kurt

	v.Pitch, v.PitchConfidence = e.pitch(samples)
	e.pitchHist.push(v.Pitch)

	onset := specSum / float64(len(spectrum))
	e.tempo.push(onset)
	v.Tempo = e.tempo.bpm()
	v.BeatStrength = e.tempo.beatStrength()

	v.Key, v.Mode = detectKey(v.Chroma)
	v.Valence = valence(v.Chroma)
	v.Arousal = clamp01(v.TotalEnergy*0.5 + v.Brightness*0.3 + clamp01(v.Tempo/200)*0.2)
	v.Danceability = danceability(v.Tempo, v.BeatStrength)
	v.Acousticness = e.acousticness(spectrum)

	e.specHist.push(spectrum)
	return v
}

func (e *Extractor) bandEnergy(spectrum []float64, lowHz, highHz float64) float64 {
	binHz := e.sampleRate / float64(e.fftSize)
	lo := int(math.Floor(lowHz / binHz))
	hi := int(math.Ceil(highHz / binHz))
	if hi > len(spectrum) {
		hi = len(spectrum)
	}
	if lo >= hi {
		return 0
	}
	sum := 0.0
	for _, m := range spectrum[lo:hi] {
		sum += m
	}
	return clamp01(sum / float64(hi-lo))
}

func (e *Extractor) centroid(spectrum []float64, specSum float64) float64 {
	if specSum == 0 {
		return 0
	}
	weighted := 0.0
	for i, m := range spectrum {
		weighted += e.freqBins[i] * m
	}
	return weighted / specSum
}

func (e *Extractor) bandwidth(spectrum []float64, centroidHz, specSum float64) float64 {
	if specSum == 0 {
		return 0
	}
	sum := 0.0
	for i, m := range spectrum {
		d := e.freqBins[i] - centroidHz
		sum += d * d * m
	}
	return math.Sqrt(sum / specSum)
}

func (e *Extractor) rolloff(spectrum []float64, specSum float64) float64 {
	if specSum == 0 {
		return 0
	}
	target := specSum * 0.85
	cum := 0.0
	for i, m := range spectrum {
		cum += m
		if cum >= target {
			return e.freqBins[i]
		}
	}
	return e.freqBins[len(spectrum)-1]
}

// flux compares against the newest history entry; Extract pushes the
// current spectrum only after all descriptors are computed.
func (e *Extractor) flux(spectrum []float64) float64 {
	prev := e.specHist.latest()
	if prev == nil || len(prev) != len(spectrum) {
		return 0
	}
	sum := 0.0
	for i, m := range spectrum {
		if d := m - prev[i]; d > 0 {
			sum += d
		}
	}
	return clamp01(sum / float64(len(spectrum)) * 10)
}

// harmonicity measures how much spectral energy sits within one bin of
// integer multiples of an assumed 80 Hz fundamental.
func (e *Extractor) harmonicity(spectrum []float64, specSum float64) float64 {
	if specSum == 0 {
		return 0
	}
	const fundamental = 80.0
	binHz := e.sampleRate / float64(e.fftSize)
	harmonic := 0.0
	for h := 1; ; h++ {
		center := int(math.Round(fundamental * float64(h) / binHz))
		if center >= len(spectrum) {
			break
		}
		for b := center - 1; b <= center+1; b++ {
			if b >= 0 && b < len(spectrum) {
				harmonic += spectrum[b]
			}
		}
	}
	return clamp01(harmonic / specSum)
}

// sharpness emphasizes high-frequency energy with a power-law bin weight.
func (e *Extractor) sharpness(spectrum []float64, specSum float64) float64 {
	if specSum == 0 {
		return 0
	}
	n := float64(len(spectrum))
	weighted := 0.0
	for i, m := range spectrum {
		weighted += math.Pow(float64(i)/n, 1.5) * m
	}
	return clamp01(weighted / specSum * 2)
}

// roughness approximates sensory dissonance from adjacent-bin fluctuation.
func roughness(spectrum []float64, specSum float64) float64 {
	if specSum == 0 || len(spectrum) < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(spectrum); i++ {
		sum += math.Abs(spectrum[i] - spectrum[i-1])
	}
	return clamp01(sum / (2 * specSum))
}

// brightness is the fraction of spectral energy above 1500 Hz.
func (e *Extractor) brightness(spectrum []float64, specSum float64) float64 {
	if specSum == 0 {
		return 0
	}
	binHz := e.sampleRate / float64(e.fftSize)
	cut := int(1500 / binHz)
	if cut >= len(spectrum) {
		return 0
	}
	high := 0.0
	for _, m := range spectrum[cut:] {
		high += m
	}
	return clamp01(high / specSum)
}

// contrast computes per-band log peak/valley ratios over 7 octave-ish bands.
func (e *Extractor) contrast(spectrum []float64) [7]float64 {
	var out [7]float64
	n := len(spectrum)
	if n < 14 {
		return out
	}
	// Log-spaced band edges from bin 1 to n.
	edges := make([]int, 8)
	for i := range edges {
		edges[i] = int(math.Pow(float64(n), float64(i)/7))
	}
	edges[7] = n
	for b := 0; b < 7; b++ {
		lo, hi := edges[b], edges[b+1]
		if hi <= lo+1 {
			hi = lo + 2
			if hi > n {
				continue
			}
		}
		band := append([]float64(nil), spectrum[lo:hi]...)
		sortFloats(band)
		q := len(band) / 5
		if q < 1 {
			q = 1
		}
		valley := mean(band[:q]) + 1e-10
		peak := mean(band[len(band)-q:]) + 1e-10
		out[b] = clamp01(math.Log10(peak/valley) / 4)
	}
	return out
}

// shapeMoments computes regression slope and standardized 3rd/4th moments of
// the spectrum against frequency, squashed into [0,1] around 0.5.
func (e *Extractor) shapeMoments(spectrum []float64, specSum float64) (slope, skew, kurt float64) {
	n := float64(len(spectrum))
	if specSum == 0 || n < 2 {
		return 0, 0, 0
	}
	meanX := (n - 1) / 2
	meanY := specSum / n
	cov := 0.0
	varX := 0.0
	for i, m := range spectrum {
		dx := float64(i) - meanX
		cov += dx * (m - meanY)
		varX += dx * dx
	}
	rawSlope := cov / varX

	m2 := 0.0
	m3 := 0.0
	m4 := 0.0
	for _, m := range spectrum {
		d := m - meanY
		m2 += d * d
		m3 += d * d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m3 /= n
	m4 /= n

	slope = clamp01(0.5 + rawSlope*n*0.5)
	if m2 > 1e-12 {
		sd := math.Sqrt(m2)
		skew = clamp01(0.5 + m3/(sd*sd*sd)/20)
		kurt = clamp01(m4 / (m2 * m2) / 50)
	}
	return slope, skew, kurt
}

// acousticness is the inverse of harmonic complexity, estimated from the
// count of local spectral peaks.
func (e *Extractor) acousticness(spectrum []float64) float64 {
	if len(spectrum) < 3 {
		return 0
	}
	peaks := 0
	for i := 1; i < len(spectrum)-1; i++ {
		if spectrum[i] > 0.1 && spectrum[i] > spectrum[i-1] && spectrum[i] > spectrum[i+1] {
			peaks++
		}
	}
	complexity := clamp01(float64(peaks) / (float64(len(spectrum)) / 8))
	return 1 - complexity
}

func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return clamp01(math.Sqrt(sum / float64(len(samples))))
}

func zeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i] >= 0) != (samples[i-1] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(samples)-1)
}

func danceability(bpm, beatStrength float64) float64 {
	if bpm <= 0 {
		return 0
	}
	// Tent peaking at 115 BPM, zero at +/-70 BPM away.
	tent := 1 - math.Abs(bpm-115)/70
	if tent < 0 {
		tent = 0
	}
	return clamp01(tent*0.6 + beatStrength*0.4)
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sortFloats(values []float64) {
	// Insertion sort; contrast bands are small.
	for i := 1; i < len(values); i++ {
		v := values[i]
		j := i - 1
		for j >= 0 && values[j] > v {
			values[j+1] = values[j]
			j--
		}
		values[j+1] = v
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
