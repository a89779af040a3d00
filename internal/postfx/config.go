package postfx

// Config enables and parameterizes each pipeline stage. Stages run in the
// fixed order bloom, motion blur, chromatic aberration, lens distortion,
// color grading, vignette, grain; each is skipped when disabled and is a
// strict identity at its neutral parameter value.
type Config struct {
	Bloom      BloomConfig      `json:"bloom"`
	MotionBlur MotionBlurConfig `json:"motionBlur"`
	Aberration AberrationConfig `json:"chromaticAberration"`
	Distortion DistortionConfig `json:"lensDistortion"`
	Grading    GradingConfig    `json:"colorGrading"`
	Vignette   VignetteConfig   `json:"vignette"`
	Grain      GrainConfig      `json:"grain"`
}

type BloomConfig struct {
	Enabled   bool       `json:"enabled"`
	Threshold float64    `json:"threshold"` // luminance cutoff in [0,1]; 1 disables
	Intensity float64    `json:"intensity"`
	Radius    int        `json:"radius"`
	Tint      [3]float64 `json:"tint"` // per-channel multiplier on the bloom layer
}

type MotionBlurConfig struct {
	Enabled  bool    `json:"enabled"`
	Strength float64 `json:"strength"` // peak offset in pixels
	Samples  int     `json:"samples"`
}

type AberrationConfig struct {
	Enabled   bool    `json:"enabled"`
	Intensity float64 `json:"intensity"` // peak channel offset in pixels
}

type DistortionConfig struct {
	Enabled bool    `json:"enabled"`
	Coeff   float64 `json:"coefficient"` // >0 barrel, <0 pincushion
}

type GradingConfig struct {
	Enabled     bool    `json:"enabled"`
	Exposure    float64 `json:"exposure"` // stops; 0 is neutral
	Contrast    float64 `json:"contrast"` // 1 is neutral
	Highlights  float64 `json:"highlights"`
	Shadows     float64 `json:"shadows"`
	Temperature float64 `json:"temperature"` // + warm, - cool
	Tint        float64 `json:"tint"`        // + magenta, - green
}

type VignetteConfig struct {
	Enabled   bool    `json:"enabled"`
	Intensity float64 `json:"intensity"` // 0 disables
	Radius    float64 `json:"radius"`    // fraction of max corner distance
	Softness  float64 `json:"softness"`
}

type GrainConfig struct {
	Enabled  bool    `json:"enabled"`
	Amount   float64 `json:"amount"` // 0 disables
	Size     int     `json:"size"`   // block size in pixels
	Animated bool    `json:"animated"`
}

// DefaultConfig returns a gentle cinematic baseline with every stage on.
func DefaultConfig() Config {
	return Config{
		Bloom: BloomConfig{
			Enabled:   true,
			Threshold: 0.7,
			Intensity: 0.8,
			Radius:    6,
			Tint:      [3]float64{1, 1, 1},
		},
		MotionBlur: MotionBlurConfig{
			Enabled:  false,
			Strength: 3,
			Samples:  6,
		},
		Aberration: AberrationConfig{
			Enabled:   true,
			Intensity: 1.5,
		},
		Distortion: DistortionConfig{
			Enabled: false,
			Coeff:   0.08,
		},
		Grading: GradingConfig{
			Enabled:  true,
			Exposure: 0,
			Contrast: 1.05,
		},
		Vignette: VignetteConfig{
			Enabled:   true,
			Intensity: 0.35,
			Radius:    0.7,
			Softness:  0.5,
		},
		Grain: GrainConfig{
			Enabled:  true,
			Amount:   0.04,
			Size:     2,
			Animated: true,
		},
	}
}
