package features

import "math"

// chromaSigma is the Gaussian width, in semitones, of each pitch-class
// filter when wrapping bins onto the chroma circle.
const chromaSigma = 1.0

// buildChromaWeights precomputes, per spectrum bin, the Gaussian weight of
// that bin toward each of the 12 pitch classes. Bins below the audible
// pitch floor get zero weight.
func buildChromaWeights(freqBins []float64) [][12]float64 {
	const refC = 16.351597831287414 // C0
	weights := make([][12]float64, len(freqBins))
	for i, f := range freqBins {
		if f < 27.5 {
			continue
		}
		semitone := 12 * math.Log2(f/refC)
		pc := math.Mod(semitone, 12)
		if pc < 0 {
			pc += 12
		}
		for k := 0; k < 12; k++ {
			d := math.Abs(pc - float64(k))
			if d > 6 {
				d = 12 - d
			}
			weights[i][k] = math.Exp(-0.5 * (d / chromaSigma) * (d / chromaSigma))
		}
	}
	return weights
}

// chroma projects the spectrum onto the 12 pitch classes and normalizes by
// the maximum component, so the strongest class is always exactly 1.
func (e *Extractor) chroma(spectrum []float64) [12]float64 {
	var out [12]float64
	n := len(spectrum)
	if n > len(e.chromaWt) {
		n = len(e.chromaWt)
	}
	for i := 0; i < n; i++ {
		m := spectrum[i]
		if m == 0 {
			continue
		}
		for k := 0; k < 12; k++ {
			out[k] += m * e.chromaWt[i][k]
		}
	}
	maxC := 0.0
	for _, c := range out {
		if c > maxC {
			maxC = c
		}
	}
	if maxC > 0 {
		for k := range out {
			out[k] /= maxC
		}
	}
	return out
}

// tonnetz embeds chroma into the 6-dimensional harmonic network: circles of
// fifths, minor thirds and major thirds.
func tonnetz(chroma [12]float64) [6]float64 {
	var out [6]float64
	total := 0.0
	for _, c := range chroma {
		total += c
	}
	if total == 0 {
		return out
	}
	for p, c := range chroma {
		fp := float64(p)
		angles := [3]float64{
			fp * 7 * math.Pi / 6, // fifths
			fp * 3 * math.Pi / 2, // minor thirds
			fp * 2 * math.Pi / 3, // major thirds
		}
		for j, a := range angles {
			out[2*j] += c * math.Cos(a)
			out[2*j+1] += c * math.Sin(a)
		}
	}
	for j := range out {
		out[j] /= total
	}
	return out
}

// Krumhansl-Schmuckler key profiles.
var (
	majorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// detectKey correlates chroma against all 24 rotated key profiles and
// returns the best match. Silent chroma yields empty strings.
func detectKey(chroma [12]float64) (key, mode string) {
	if allZeroArr(chroma) {
		return "", ""
	}
	bestCorr := math.Inf(-1)
	bestRoot := 0
	bestMode := "major"
	for root := 0; root < 12; root++ {
		var maj, min [12]float64
		for i := 0; i < 12; i++ {
			maj[i] = majorProfile[(i-root+12)%12]
			min[i] = minorProfile[(i-root+12)%12]
		}
		if c := correlate(chroma, maj); c > bestCorr {
			bestCorr = c
			bestRoot = root
			bestMode = "major"
		}
		if c := correlate(chroma, min); c > bestCorr {
			bestCorr = c
			bestRoot = root
			bestMode = "minor"
		}
	}
	return pitchClassNames[bestRoot], bestMode
}

// valence scores emotional positivity as the margin of major-triad over
// minor-triad chroma products across all 12 roots, centered on 0.5.
func valence(chroma [12]float64) float64 {
	margin := 0.0
	for root := 0; root < 12; root++ {
		major := chroma[root] * chroma[(root+4)%12] * chroma[(root+7)%12]
		minor := chroma[root] * chroma[(root+3)%12] * chroma[(root+7)%12]
		margin += major - minor
	}
	return clamp01(0.5 + margin*0.5)
}

func correlate(a, b [12]float64) float64 {
	meanA := 0.0
	meanB := 0.0
	for i := 0; i < 12; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= 12
	meanB /= 12
	num := 0.0
	varA := 0.0
	varB := 0.0
	for i := 0; i < 12; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		num += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return num / math.Sqrt(varA*varB)
}

func allZeroArr(values [12]float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}
