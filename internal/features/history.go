package features

// history is a bounded FIFO of scalar samples. Appending past capacity
// evicts the oldest entry.
type history struct {
	values []float64
	cap    int
}

func newHistory(capacity int) *history {
	return &history{
		values: make([]float64, 0, capacity),
		cap:    capacity,
	}
}

func (h *history) push(v float64) {
	if len(h.values) == h.cap {
		copy(h.values, h.values[1:])
		h.values[len(h.values)-1] = v
		return
	}
	h.values = append(h.values, v)
}

func (h *history) len() int {
	return len(h.values)
}

func (h *history) at(i int) float64 {
	return h.values[i]
}

func (h *history) mean() float64 {
	if len(h.values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range h.values {
		sum += v
	}
	return sum / float64(len(h.values))
}

// spectrumHistory is a bounded FIFO of spectrum snapshots.
type spectrumHistory struct {
	frames [][]float64
	cap    int
}

func newSpectrumHistory(capacity int) *spectrumHistory {
	return &spectrumHistory{cap: capacity}
}

func (h *spectrumHistory) push(spectrum []float64) {
	cp := make([]float64, len(spectrum))
	copy(cp, spectrum)
	if len(h.frames) == h.cap {
		copy(h.frames, h.frames[1:])
		h.frames[len(h.frames)-1] = cp
		return
	}
	h.frames = append(h.frames, cp)
}

func (h *spectrumHistory) latest() []float64 {
	if len(h.frames) == 0 {
		return nil
	}
	return h.frames[len(h.frames)-1]
}

func (h *spectrumHistory) len() int {
	return len(h.frames)
}
