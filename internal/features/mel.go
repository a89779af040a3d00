package features

import "math"

const (
	melFilterCount = 40
	mfccCount      = 13
)

// melTap is one (bin, weight) contribution to a Mel filter.
type melTap struct {
	bin    int
	weight float64
}

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// buildMelBank constructs triangular Mel filters spanning 0..Nyquist.
func buildMelBank(filters, specLen int, sampleRate float64) [][]melTap {
	nyquist := sampleRate / 2
	melMax := hzToMel(nyquist)
	centers := make([]float64, filters+2)
	for i := range centers {
		centers[i] = melToHz(melMax * float64(i) / float64(filters+1))
	}
	binHz := nyquist / float64(specLen)

	bank := make([][]melTap, filters)
	for f := 0; f < filters; f++ {
		lo := centers[f]
		mid := centers[f+1]
		hi := centers[f+2]
		var taps []melTap
		for b := 0; b < specLen; b++ {
			freq := float64(b) * binHz
			var w float64
			switch {
			case freq <= lo || freq >= hi:
				continue
			case freq <= mid:
				w = (freq - lo) / (mid - lo)
			default:
				w = (hi - freq) / (hi - mid)
			}
			if w > 0 {
				taps = append(taps, melTap{bin: b, weight: w})
			}
		}
		bank[f] = taps
	}
	return bank
}

func applyMelBank(bank [][]melTap, spectrum []float64) []float64 {
	out := make([]float64, len(bank))
	for f, taps := range bank {
		sum := 0.0
		for _, t := range taps {
			if t.bin < len(spectrum) {
				sum += spectrum[t.bin] * t.weight
			}
		}
		out[f] = sum
	}
	return out
}

// loudness is the Stevens-law sum of Mel band energies raised to 0.6.
func loudness(melEnergies []float64) float64 {
	sum := 0.0
	for _, e := range melEnergies {
		if e > 0 {
			sum += math.Pow(e, 0.6)
		}
	}
	return clamp01(sum / float64(len(melEnergies)))
}

// mfcc computes the first 13 DCT-II coefficients of the log Mel energies,
// squashed to a [0,1]-ish display range.
func mfcc(melEnergies []float64) [13]float64 {
	var out [13]float64
	n := len(melEnergies)
	if n == 0 {
		return out
	}
	logE := make([]float64, n)
	for i, e := range melEnergies {
		logE[i] = math.Log(e + 1e-10)
	}
	for k := 0; k < mfccCount; k++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += logE[i] * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n))
		}
		out[k] = sum / float64(n)
	}
	return out
}
