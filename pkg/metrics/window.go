package metrics

// window is a bounded FIFO of float64 samples.
type window struct {
	values []float64
	limit  int
}

func newWindow(limit int) window {
	return window{values: make([]float64, 0, limit), limit: limit}
}

// push appends v, evicting the oldest sample when over the limit.
func (w *window) push(v float64) {
	w.values = append(w.values, v)
	if len(w.values) > w.limit {
		w.values = w.values[1:]
	}
}

func (w *window) len() int {
	return len(w.values)
}

func (w *window) snapshot() []float64 {
	out := make([]float64, len(w.values))
	copy(out, w.values)
	return out
}
