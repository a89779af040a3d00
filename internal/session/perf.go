package session

import (
	"sync"
	"time"
)

// perfMonitor records elapsed time per pipeline stage and a rolling average
// FPS. It is advisory only; nothing enforces the frame budget.
type perfMonitor struct {
	mu     sync.Mutex
	last   time.Time
	stages map[string]float64

	frameTimes []float64
	frameIdx   int
	frameCount int
}

const fpsWindow = 120

func newPerfMonitor() *perfMonitor {
	return &perfMonitor{
		stages:     make(map[string]float64),
		frameTimes: make([]float64, fpsWindow),
	}
}

func (p *perfMonitor) beginFrame() {
	p.mu.Lock()
	p.last = time.Now()
	p.mu.Unlock()
}

// mark records the elapsed ms since the previous mark (or beginFrame) under
// the given stage name.
func (p *perfMonitor) mark(stage string) {
	p.mu.Lock()
	now := time.Now()
	p.stages[stage] = now.Sub(p.last).Seconds() * 1000
	p.last = now
	p.mu.Unlock()
}

func (p *perfMonitor) recordFrame(delta float64) {
	if delta <= 0 {
		return
	}
	p.mu.Lock()
	p.frameTimes[p.frameIdx] = delta
	p.frameIdx = (p.frameIdx + 1) % fpsWindow
	if p.frameCount < fpsWindow {
		p.frameCount++
	}
	p.mu.Unlock()
}

// Metrics is a snapshot of stage timings and average FPS.
type Metrics struct {
	StageMs    map[string]float64 `json:"stageMs"`
	AverageFPS float64            `json:"averageFps"`
}

func (p *perfMonitor) snapshot() Metrics {
	p.mu.Lock()
	defer p.mu.Unlock()

	stages := make(map[string]float64, len(p.stages))
	for k, v := range p.stages {
		stages[k] = v
	}
	fps := 0.0
	if p.frameCount > 0 {
		total := 0.0
		for i := 0; i < p.frameCount; i++ {
			total += p.frameTimes[i]
		}
		if total > 0 {
			fps = float64(p.frameCount) / total
		}
	}
	return Metrics{StageMs: stages, AverageFPS: fps}
}
