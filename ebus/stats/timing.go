package stats

import (
	"math"
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of a Timing accumulator.
type Snapshot struct {
	Last   time.Duration
	Count  uint64
	Mean   time.Duration
	StdDev time.Duration
}

// Timing is a Welford-algorithm accumulator over a stream of
// durations: it tracks the most recent sample, the sample count, and
// a running mean/variance without retaining the individual samples.
// Safe for concurrent use.
type Timing struct {
	mu     sync.Mutex
	last   time.Duration
	count  uint64
	mean   float64
	m2     float64
}

// Observe folds one duration sample into the accumulator.
func (t *Timing) Observe(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = d
	t.count++
	x := float64(d)
	delta := x - t.mean
	t.mean += delta / float64(t.count)
	delta2 := x - t.mean
	t.m2 += delta * delta2
}

// Snapshot returns a consistent copy of the accumulator's current
// state.
func (t *Timing) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	var stddev float64
	if t.count > 1 {
		stddev = math.Sqrt(t.m2 / float64(t.count))
	}
	return Snapshot{
		Last:   t.last,
		Count:  t.count,
		Mean:   time.Duration(t.mean),
		StdDev: time.Duration(stddev),
	}
}

// Reset clears the accumulator back to its zero state.
func (t *Timing) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = 0
	t.count = 0
	t.mean = 0
	t.m2 = 0
}
