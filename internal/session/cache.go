package session

import (
	"hash/fnv"
	"math"

	"github.com/soundvista/soundvista/internal/pattern"
	"github.com/soundvista/soundvista/internal/pixel"
)

// frameCache maps a content+config hash to the last styled buffer computed
// for it, bounded with FIFO eviction. It only pays off on repeated
// identical input (silence, paused sources), which is when skipping the
// pipeline matters least for looks and most for power.
type frameCache struct {
	entries map[uint64]*pixel.Buffer
	order   []uint64
	cap     int
}

const frameCacheSize = 50

func newFrameCache() *frameCache {
	return &frameCache{
		entries: make(map[uint64]*pixel.Buffer, frameCacheSize),
		cap:     frameCacheSize,
	}
}

func (c *frameCache) get(key uint64) *pixel.Buffer {
	return c.entries[key]
}

func (c *frameCache) put(key uint64, buf *pixel.Buffer) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = buf
		return
	}
	if len(c.order) == c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.order = append(c.order, key)
	c.entries[key] = buf
}

func (c *frameCache) len() int {
	return len(c.entries)
}

// cacheKey hashes the quantized spectrum together with the render config.
// Quantizing to 8 bits makes near-identical silence frames collide on
// purpose.
func cacheKey(spectrum []float64, cfg pattern.Config) uint64 {
	h := fnv.New64a()
	var b [1]byte
	for _, m := range spectrum {
		b[0] = byte(math.Min(255, m*255))
		h.Write(b[:])
	}
	h.Write([]byte(cfg.Style))
	h.Write([]byte(cfg.ColorPalette))
	for _, v := range []float64{cfg.Sensitivity, cfg.Smoothing, cfg.Scale, cfg.Speed, cfg.BackgroundOpacity} {
		var q [8]byte
		bits := math.Float64bits(v)
		for i := 0; i < 8; i++ {
			q[i] = byte(bits >> (8 * i))
		}
		h.Write(q[:])
	}
	return h.Sum64()
}
