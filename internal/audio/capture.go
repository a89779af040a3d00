package audio

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Capture wraps a PortAudio input stream and keeps the most recent window
// of mono samples. The callback runs on the audio thread; Snapshot hands
// analysis an immutable copy so the two never share a mutable buffer.
type Capture struct {
	stream     *portaudio.Stream
	sampleRate float64
	channels   int
	device     *portaudio.DeviceInfo

	mu     sync.RWMutex
	window []float64
	index  int
}

// CaptureConfig controls how the input stream is opened.
type CaptureConfig struct {
	DeviceName string // substring match; empty means default input
	WindowSize int    // mono samples retained, FFT size of the front end
	Channels   int
}

const defaultWindowSize = 2048

// NewCapture opens and starts a PortAudio input stream. Failures to open or
// start the device surface as ErrMicrophoneAccess so the caller can prompt
// and retry.
func NewCapture(cfg CaptureConfig) (*Capture, error) {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = defaultWindowSize
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}

	device, err := findInputDevice(cfg.DeviceName)
	if err != nil {
		return nil, err
	}

	c := &Capture{
		sampleRate: device.DefaultSampleRate,
		channels:   cfg.Channels,
		device:     device,
		window:     make([]float64, cfg.WindowSize),
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      c.sampleRate,
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}, c.process)
	if err != nil {
		return nil, fmt.Errorf("%w: open stream: %v", ErrMicrophoneAccess, err)
	}
	c.stream = stream

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: start stream: %v", ErrMicrophoneAccess, err)
	}
	return c, nil
}

// Close stops and closes the stream.
func (c *Capture) Close() error {
	if c.stream == nil {
		return nil
	}
	if err := c.stream.Stop(); err != nil && !isAlreadyStopped(err) {
		return err
	}
	return c.stream.Close()
}

// SampleRate returns the device sample rate.
func (c *Capture) SampleRate() float64 {
	return c.sampleRate
}

// DeviceName returns the opened device's name.
func (c *Capture) DeviceName() string {
	if c.device == nil {
		return ""
	}
	return c.device.Name
}

// Snapshot returns the most recent window as a freshly allocated,
// time-ordered slice.
func (c *Capture) Snapshot() []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]float64, len(c.window))
	copy(out, c.window[c.index:])
	copy(out[len(c.window)-c.index:], c.window[:c.index])
	return out
}

func (c *Capture) process(in []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := c.channels
	frames := len(in) / ch
	for f := 0; f < frames; f++ {
		sum := 0.0
		for j := 0; j < ch; j++ {
			sum += float64(in[f*ch+j])
		}
		c.window[c.index] = sum / float64(ch)
		c.index++
		if c.index == len(c.window) {
			c.index = 0
		}
	}
}

func findInputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		dev, err := portaudio.DefaultInputDevice()
		if err == nil && dev != nil && dev.MaxInputChannels > 0 {
			return dev, nil
		}
		return nil, fmt.Errorf("%w: no default input device", ErrMicrophoneAccess)
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}
	needle := strings.ToLower(name)
	for _, dev := range devices {
		if dev.MaxInputChannels == 0 {
			continue
		}
		if strings.Contains(strings.ToLower(dev.Name), needle) {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("audio device %q not found", name)
}

// isAlreadyStopped detects the PortAudio error from stopping a stream twice.
func isAlreadyStopped(err error) bool {
	return err != nil && strings.Contains(err.Error(), "PaErrorCode -9986")
}
