package features

// Vector is the full per-tick feature set extracted from one audio frame.
// Scalars documented as normalized lie in [0,1]; Pitch is in Hz (0 when
// unvoiced), Tempo in BPM. A silent or empty frame yields the zero Vector
// apart from the fixed envelope defaults.
type Vector struct {
	// Band energies, averaged spectrum magnitude within fixed Hz ranges.
	BassEnergy   float64 `json:"bassEnergy"`   // 20-250 Hz
	MidEnergy    float64 `json:"midEnergy"`    // 250-4000 Hz
	TrebleEnergy float64 `json:"trebleEnergy"` // 4000-20000 Hz
	TotalEnergy  float64 `json:"totalEnergy"`

	RMS float64 `json:"rms"`
	ZCR float64 `json:"zcr"` // zero crossings per sample

	// Spectral shape. Centroid, bandwidth and rolloff are normalized by the
	// Nyquist frequency. Slope/skewness/kurtosis are squashed into [0,1]
	// around a 0.5 neutral point.
	SpectralCentroid  float64    `json:"spectralCentroid"`
	SpectralBandwidth float64    `json:"spectralBandwidth"`
	SpectralRolloff   float64    `json:"spectralRolloff"`
	SpectralFlux      float64    `json:"spectralFlux"`
	SpectralSlope     float64    `json:"spectralSlope"`
	SpectralSkewness  float64    `json:"spectralSkewness"`
	SpectralKurtosis  float64    `json:"spectralKurtosis"`
	SpectralContrast  [7]float64 `json:"spectralContrast"`

	// Harmonic content.
	Chroma      [12]float64 `json:"chroma"`
	Tonnetz     [6]float64  `json:"tonnetz"`
	Harmonicity float64     `json:"harmonicity"`
	Key         string      `json:"key"`  // pitch-class name, "" when silent
	Mode        string      `json:"mode"` // "major" or "minor", "" when silent

	// Pitch and rhythm.
	Pitch           float64 `json:"pitch"` // Hz, 0 when no confident pitch
	PitchConfidence float64 `json:"pitchConfidence"`
	Tempo           float64 `json:"tempo"` // BPM, 0 until the tracker locks
	BeatStrength    float64 `json:"beatStrength"`

	// Perceptual descriptors.
	MFCC       [13]float64 `json:"mfcc"`
	Loudness   float64     `json:"loudness"`
	Sharpness  float64     `json:"sharpness"`
	Roughness  float64     `json:"roughness"`
	Brightness float64     `json:"brightness"`

	// High-level mood estimates.
	Valence      float64 `json:"valence"`
	Arousal      float64 `json:"arousal"`
	Danceability float64 `json:"danceability"`
	Acousticness float64 `json:"acousticness"`

	// Envelope placeholders; fixed defaults pending a real envelope
	// follower (see DESIGN.md).
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

const (
	defaultAttack  = 0.01
	defaultDecay   = 0.1
	defaultSustain = 0.7
	defaultRelease = 0.2
)

// Neutral returns the vector a silent frame produces: zeros everywhere
// except the fixed envelope defaults.
func Neutral() Vector {
	return Vector{
		Attack:  defaultAttack,
		Decay:   defaultDecay,
		Sustain: defaultSustain,
		Release: defaultRelease,
	}
}

var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
