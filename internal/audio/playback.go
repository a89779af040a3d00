package audio

import (
	"fmt"
	"io"
	"time"

	oto "github.com/ebitengine/oto/v3"
)

// Playback plays a decoded Track through the system output so live preview
// stays in sync with what the listener hears.
type Playback struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewPlayback opens an audio output context and prepares a player for the
// track. Call Start to begin playing.
func NewPlayback(track *Track) (*Playback, error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(track.SampleRate),
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	<-ready

	p := &Playback{ctx: ctx}
	p.player = ctx.NewPlayer(&pcm16Reader{samples: track.Samples})
	return p, nil
}

// Start begins playback.
func (p *Playback) Start() {
	p.player.Play()
}

// Close stops playback and releases the player.
func (p *Playback) Close() error {
	if p.player == nil {
		return nil
	}
	if p.player.IsPlaying() {
		p.player.Pause()
	}
	err := p.player.Close()
	// oto contexts have no Close; suspending parks the audio thread.
	_ = p.ctx.Suspend()
	time.Sleep(10 * time.Millisecond)
	return err
}

// pcm16Reader streams float64 mono samples as signed 16-bit little endian.
type pcm16Reader struct {
	samples []float64
	pos     int
}

func (r *pcm16Reader) Read(buf []byte) (int, error) {
	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}
	n := 0
	for n+1 < len(buf) && r.pos < len(r.samples) {
		v := int16(clampSample(r.samples[r.pos]) * 32767)
		buf[n] = byte(v)
		buf[n+1] = byte(v >> 8)
		n += 2
		r.pos++
	}
	return n, nil
}
