package scheduler

import "time"

// DefaultWindow is the number of recent task durations kept for the ETA.
const DefaultWindow = 50

// LatencyWindow keeps the most recent durations in a fixed-size ring.
// It is not safe for concurrent use.
type LatencyWindow struct {
	buf  []time.Duration
	next int
	n    int
	sum  time.Duration
}

// NewLatencyWindow creates a window holding at most size durations.
func NewLatencyWindow(size int) *LatencyWindow {
	if size < 1 {
		size = DefaultWindow
	}
	return &LatencyWindow{buf: make([]time.Duration, size)}
}

// Add records d, evicting the oldest entry when full.
func (w *LatencyWindow) Add(d time.Duration) {
	if w.n == len(w.buf) {
		w.sum -= w.buf[w.next]
	} else {
		w.n++
	}
	w.buf[w.next] = d
	w.sum += d
	w.next = (w.next + 1) % len(w.buf)
}

// Len returns the number of recorded durations.
func (w *LatencyWindow) Len() int {
	return w.n
}

// Average returns the mean of the recorded durations, or 0 when empty.
func (w *LatencyWindow) Average() time.Duration {
	if w.n == 0 {
		return 0
	}
	return w.sum / time.Duration(w.n)
}
