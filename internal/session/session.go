package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"github.com/soundvista/soundvista/internal/audio"
	"github.com/soundvista/soundvista/internal/export"
	"github.com/soundvista/soundvista/internal/features"
	"github.com/soundvista/soundvista/internal/pattern"
	"github.com/soundvista/soundvista/internal/pixel"
	"github.com/soundvista/soundvista/internal/postfx"
)

// ErrRenderTarget means the display surface could not be acquired or used.
var ErrRenderTarget = errors.New("render target unavailable")

// Display is where finished frames go on screen.
type Display interface {
	Present(buf *pixel.Buffer) error
	Close() error
}

// Config configures one render session.
type Config struct {
	Width      int
	Height     int
	TargetFPS  float64
	FFTSize    int
	Seed       uint32
	DeviceName string // live capture device; ignored when Track is set
	Track      *audio.Track
	Play       bool // play the track through the speakers while rendering
	Headless   bool // skip the display window even in sdl builds
	Render     pattern.Config
	Effects    postfx.Config
	Log        *log.Logger
}

type inputEvent int

const (
	inputQuit inputEvent = iota
	inputCycleStyle
	inputCyclePalette
	inputExport
	inputTogglePause
)

// Session owns one full audio-to-frame loop: front end, feature extraction,
// pattern rendering, post-processing and display. All mutable state is
// session-local so concurrent sessions (preview + export) never interfere.
type Session struct {
	cfg Config
	log *log.Logger

	frontend  *audio.FrontEnd
	extractor *features.Extractor
	capture   *audio.Capture
	trackSrc  *audio.TrackSource
	playback  *audio.Playback
	display   Display
	fx        *postfx.Pipeline
	perf      *perfMonitor
	cache     *frameCache

	mu        sync.RWMutex
	renderer  pattern.Renderer
	renderCfg pattern.Config
	fxCfg     postfx.Config
	lastFeat  features.Vector
	lastSpec  []float64
	paused    bool

	inputEvents chan inputEvent
	last        time.Time
}

// New wires a session from the configuration. Exactly one of live capture
// (default) or a decoded track drives it.
func New(cfg Config) (*Session, error) {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 60
	}
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 2048
	}
	if cfg.Log == nil {
		cfg.Log = log.New(os.Stdout, "", log.LstdFlags)
	}
	if cfg.Render.Style == "" {
		cfg.Render = pattern.DefaultConfig()
	}

	s := &Session{
		cfg:       cfg,
		log:       cfg.Log,
		renderCfg: cfg.Render,
		fxCfg:     cfg.Effects,
		fx:        postfx.New(cfg.Seed),
		perf:      newPerfMonitor(),
		cache:     newFrameCache(),
	}

	sampleRate := 44_100.0
	if cfg.Track != nil {
		sampleRate = cfg.Track.SampleRate
		s.trackSrc = audio.NewTrackSource(cfg.Track, cfg.TargetFPS)
		if cfg.Play {
			playback, err := audio.NewPlayback(cfg.Track)
			if err != nil {
				s.log.Printf("playback disabled: %v", err)
			} else {
				s.playback = playback
			}
		}
	} else {
		capture, err := audio.NewCapture(audio.CaptureConfig{
			DeviceName: cfg.DeviceName,
			WindowSize: cfg.FFTSize,
		})
		if err != nil {
			return nil, fmt.Errorf("audio capture: %w", err)
		}
		s.capture = capture
		sampleRate = capture.SampleRate()
		s.log.Printf("capturing from %q @ %.0f Hz", capture.DeviceName(), sampleRate)
	}

	s.frontend = audio.NewFrontEnd(cfg.FFTSize, sampleRate)
	s.extractor = features.New(features.Config{
		SampleRate: sampleRate,
		FFTSize:    cfg.FFTSize,
		TickRate:   cfg.TargetFPS,
	})

	renderer, err := pattern.New(s.renderCfg.Style, cfg.Width, cfg.Height, cfg.Seed)
	if err != nil {
		return nil, err
	}
	s.renderer = renderer

	if !cfg.Headless {
		display, err := newDisplay(cfg.Width, cfg.Height, "soundvista")
		if err != nil {
			return nil, err
		}
		s.display = display
	}

	s.last = time.Now()
	return s, nil
}

// Run drives the per-frame loop until the context is canceled, the track
// ends, or the user quits.
func (s *Session) Run(ctx context.Context) error {
	frameDuration := time.Duration(float64(time.Second) / s.cfg.TargetFPS)
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	inputCtx, cancelInput := context.WithCancel(ctx)
	defer cancelInput()
	s.startInputListener(inputCtx)

	if s.playback != nil {
		s.playback.Start()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-s.inputEvents:
			if !ok {
				s.inputEvents = nil
				continue
			}
			if quit := s.handleInput(evt); quit {
				return nil
			}
		case <-ticker.C:
			done, err := s.step()
			if err != nil {
				return err
			}
			if done {
				s.log.Printf("track finished")
				return nil
			}
		}
	}
}

// Close releases audio and display resources.
func (s *Session) Close() error {
	var first error
	if s.playback != nil {
		if err := s.playback.Close(); err != nil && first == nil {
			first = err
		}
	}
	if s.capture != nil {
		if err := s.capture.Close(); err != nil && first == nil {
			first = err
		}
	}
	if s.display != nil {
		if err := s.display.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Step advances one frame outside the ticker loop. One-shot export mode
// uses it to wind the session forward to a chosen moment in a track.
func (s *Session) Step() (done bool, err error) {
	return s.step()
}

func (s *Session) step() (done bool, err error) {
	now := time.Now()
	delta := now.Sub(s.last).Seconds()
	if delta <= 0 {
		delta = 1.0 / s.cfg.TargetFPS
	}
	s.last = now

	s.mu.RLock()
	paused := s.paused
	s.mu.RUnlock()
	if paused {
		return false, nil
	}

	s.perf.beginFrame()

	var window []float64
	switch {
	case s.trackSrc != nil:
		window = s.trackSrc.Window(s.frontend.FFTSize())
	case s.capture != nil:
		window = s.capture.Snapshot()
	}
	frame := s.frontend.Analyze(window)
	s.perf.mark("analyze")

	feat := s.extractor.Extract(frame.Samples, frame.Spectrum)
	s.perf.mark("extract")

	s.mu.Lock()
	s.lastFeat = feat
	s.lastSpec = frame.Spectrum
	renderCfg := s.renderCfg
	fxCfg := s.fxCfg
	if s.renderer.Style() != renderCfg.Style {
		// Style change discards pattern state.
		renderer, rerr := pattern.New(renderCfg.Style, s.cfg.Width, s.cfg.Height, s.cfg.Seed)
		if rerr == nil {
			s.renderer = renderer
		}
	}
	renderer := s.renderer
	s.mu.Unlock()

	var final *pixel.Buffer
	key := cacheKey(frame.Spectrum, renderCfg)
	if cached := s.cache.get(key); cached != nil {
		final = cached
		s.perf.mark("render")
		s.perf.mark("postfx")
	} else {
		raw := renderer.Render(feat, frame.Spectrum, renderCfg, delta)
		s.perf.mark("render")

		final = s.fx.Process(raw, fxCfg, delta)
		s.perf.mark("postfx")
		s.cache.put(key, final.Clone())
	}

	if s.display != nil {
		if err := s.display.Present(final); err != nil {
			return false, err
		}
	}
	s.perf.mark("present")
	s.perf.recordFrame(delta)

	if s.trackSrc != nil && !s.trackSrc.Advance() {
		return true, nil
	}
	return false, nil
}

// Features returns the most recent feature vector.
func (s *Session) Features() features.Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFeat
}

// Perf returns current stage timings and average FPS.
func (s *Session) Perf() Metrics {
	return s.perf.snapshot()
}

// RenderConfig returns the active render configuration.
func (s *Session) RenderConfig() pattern.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderCfg
}

// SetRenderConfig swaps the render configuration; a style change resets
// pattern state on the next frame.
func (s *Session) SetRenderConfig(cfg pattern.Config) {
	s.mu.Lock()
	s.renderCfg = cfg
	s.mu.Unlock()
}

// EffectsConfig returns the active post-processing configuration.
func (s *Session) EffectsConfig() postfx.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fxCfg
}

// SetEffectsConfig swaps the post-processing configuration.
func (s *Session) SetEffectsConfig(cfg postfx.Config) {
	s.mu.Lock()
	s.fxCfg = cfg
	s.mu.Unlock()
}

// ExportSnapshot renders the current audio moment at the requested size and
// encodes it. A fresh renderer and pipeline are built per export so the
// live preview's pattern state is untouched.
func (s *Session) ExportSnapshot(req export.Request) (export.Result, error) {
	s.mu.RLock()
	feat := s.lastFeat
	spec := append([]float64(nil), s.lastSpec...)
	renderCfg := s.renderCfg
	fxCfg := s.fxCfg
	s.mu.RUnlock()

	if req.Prefix == "" {
		req.Prefix = s.exportPrefix()
	}

	render := func(w, h int) (*pixel.Buffer, error) {
		renderer, err := pattern.New(renderCfg.Style, w, h, s.cfg.Seed)
		if err != nil {
			return nil, err
		}
		buf := renderer.Render(feat, spec, renderCfg, 1.0/s.cfg.TargetFPS)
		fx := postfx.New(s.cfg.Seed)
		return fx.Process(buf, fxCfg, 1.0/s.cfg.TargetFPS), nil
	}
	return export.Export(render, req)
}

func (s *Session) exportPrefix() string {
	if s.cfg.Track != nil && s.cfg.Track.Title != "" {
		return s.cfg.Track.Title
	}
	return "soundvista"
}

func (s *Session) handleInput(evt inputEvent) (quit bool) {
	switch evt {
	case inputQuit:
		return true
	case inputCycleStyle:
		s.mu.Lock()
		s.renderCfg.Style = pattern.Style(nextChoice(pattern.StyleNames(), string(s.renderCfg.Style)))
		s.log.Printf("style -> %s", s.renderCfg.Style)
		s.mu.Unlock()
	case inputCyclePalette:
		s.mu.Lock()
		s.renderCfg.ColorPalette = nextChoice(pattern.Names(), s.renderCfg.ColorPalette)
		s.log.Printf("palette -> %s", s.renderCfg.ColorPalette)
		s.mu.Unlock()
	case inputTogglePause:
		s.mu.Lock()
		s.paused = !s.paused
		s.mu.Unlock()
	case inputExport:
		res, err := s.ExportSnapshot(export.Request{
			Format:      export.FormatPNG,
			Width:       s.cfg.Width,
			Height:      s.cfg.Height,
			SuperSample: 2,
		})
		if err != nil {
			s.log.Printf("export failed: %v", err)
			return false
		}
		if err := os.WriteFile(res.Filename, res.Data, 0o644); err != nil {
			s.log.Printf("export write failed: %v", err)
			return false
		}
		s.log.Printf("exported %s (%d bytes)", res.Filename, len(res.Data))
	}
	return false
}

func (s *Session) startInputListener(ctx context.Context) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		s.log.Printf("no tty, keyboard controls disabled")
		return
	}
	if err := keyboard.Open(); err != nil {
		s.log.Printf("keyboard input disabled: %v", err)
		return
	}

	events := make(chan inputEvent, 16)
	s.inputEvents = events

	closeOnce := &sync.Once{}
	go func() {
		<-ctx.Done()
		closeOnce.Do(func() { _ = keyboard.Close() })
	}()

	go func() {
		defer close(events)
		defer closeOnce.Do(func() { _ = keyboard.Close() })
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			switch {
			case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC || char == 'q':
				events <- inputQuit
				return
			case char == 's':
				events <- inputCycleStyle
			case char == 'c':
				events <- inputCyclePalette
			case char == 'e':
				events <- inputExport
			case key == keyboard.KeySpace:
				events <- inputTogglePause
			}
		}
	}()
}

// nextChoice returns the option after current, wrapping around.
func nextChoice(options []string, current string) string {
	for i, opt := range options {
		if opt == current {
			return options[(i+1)%len(options)]
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return current
}
