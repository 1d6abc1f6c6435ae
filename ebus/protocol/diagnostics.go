package protocol

import "github.com/nerrad567/ebus-core/ebus/stats"

// GetCounter returns a consistent snapshot of the event counters.
func (h *Handler) GetCounter() Counters {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counters
}

// ResetCounter zeroes every event counter.
func (h *Handler) ResetCounter() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counters = Counters{}
}

// GetTiming returns a snapshot of the named timing accumulators.
func (h *Handler) GetTiming() TimingSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.timing.snapshot()
}

// ResetTiming clears every named timing accumulator.
func (h *Handler) ResetTiming() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.timing.reset()
}

// GetStateTiming returns, for each Protocol FSM state, a snapshot of
// the wall time a byte spent in that state before it was left.
func (h *Handler) GetStateTiming() [stateCount]stats.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out [stateCount]stats.Snapshot
	for i := range h.stateTiming {
		out[i] = h.stateTiming[i].Snapshot()
	}
	return out
}

// Reset returns the Handler to its initial idle state, discarding any
// in-progress passive, reactive or active exchange. Counters and
// timing accumulators are left untouched; use ResetCounter/ResetTiming
// for those.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clearPassiveScratch()
	h.finishActive()
	h.state = passiveReceiveMaster
	h.stateEnteredAt = h.clock()
}
