package dashboard

import (
	"sync"
	"time"
)

// DefaultHistorySize is the number of samples kept for the charts.
const DefaultHistorySize = 10

// Sample is one charted reading.
type Sample struct {
	Label       string
	Time        time.Time
	Temperature float64
	Humidity    float64
}

// Series is the column-oriented view of the buffer consumed by chart sinks.
type Series struct {
	Labels      []string
	Temperature []float64
	Humidity    []float64
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.Labels)
}

// RollingBuffer is a fixed-capacity FIFO of samples backed by a ring.
// Pushing into a full buffer evicts the oldest sample.
type RollingBuffer struct {
	mu    sync.RWMutex
	data  []Sample
	head  int
	count int
	size  int
}

// NewRollingBuffer creates a buffer with the given capacity.
func NewRollingBuffer(size int) *RollingBuffer {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &RollingBuffer{
		data: make([]Sample, size),
		size: size,
	}
}

// Push appends a sample, evicting the oldest one when full.
func (r *RollingBuffer) Push(s Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[r.head] = s
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// Len returns the number of stored samples.
func (r *RollingBuffer) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Cap returns the buffer capacity.
func (r *RollingBuffer) Cap() int {
	return r.size
}

// Samples returns all stored samples in arrival order (oldest first).
func (r *RollingBuffer) Samples() []Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastLocked(r.count)
}

// Latest returns the newest sample.
func (r *RollingBuffer) Latest() (Sample, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.count == 0 {
		return Sample{}, false
	}
	return r.data[(r.head-1+r.size)%r.size], true
}

// Series returns the buffer split into parallel label/value slices.
func (r *RollingBuffer) Series() Series {
	samples := r.Samples()
	s := Series{
		Labels:      make([]string, len(samples)),
		Temperature: make([]float64, len(samples)),
		Humidity:    make([]float64, len(samples)),
	}
	for i, sample := range samples {
		s.Labels[i] = sample.Label
		s.Temperature[i] = sample.Temperature
		s.Humidity[i] = sample.Humidity
	}
	return s
}

// lastLocked returns the last n values in chronological order.
// Must be called with r.mu held.
func (r *RollingBuffer) lastLocked(n int) []Sample {
	if n <= 0 || r.count == 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}

	result := make([]Sample, n)

	// head points at the next write slot, so the newest value is at head-1
	start := (r.head - n + r.size) % r.size
	for i := 0; i < n; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
