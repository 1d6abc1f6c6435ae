package arbitration

import (
	"sync"
	"time"

	"github.com/nerrad567/ebus-core/ebus"
	"github.com/nerrad567/ebus-core/ebus/stats"
)

const (
	defaultMaxLockCounter = 3
	hardMaxLockCounter    = 25
)

// Request is the arbitration state machine. One Request is owned by
// exactly one Handler and fed the same byte stream.
type Request struct {
	mu sync.Mutex

	sourceAddr byte
	maxLock    byte
	lockCounter byte

	requestPending bool
	external       bool

	state  State
	result Result

	counters   Counters
	syncTiming stats.Timing

	clock        func() time.Time
	lastSyn      time.Time
	haveLastSyn  bool
	lastStartBit time.Time
	haveStartBit bool
}

// NewRequest returns a Request in its initial Observe state with the
// default lock counter budget.
func NewRequest() *Request {
	return &Request{
		maxLock: defaultMaxLockCounter,
		state:   Observe,
		clock:   time.Now,
	}
}

// SetMaxLockCounter sets the SYN cooldown applied after winning the
// bus, clamped to [0, 25].
func (r *Request) SetMaxLockCounter(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case n < 0:
		n = 0
	case n > hardMaxLockCounter:
		n = hardMaxLockCounter
	}
	r.maxLock = byte(n)
}

// RequestBus asks to arbitrate for the bus as addr. It succeeds only
// when the last Run observed a SYN with the lock counter fully
// decayed and no request is already pending; external marks a request
// made on behalf of the protocol layer's retry logic rather than the
// host.
func (r *Request) RequestBus(addr byte, external bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Observe || r.result != ObserveSyn || r.lockCounter != 0 || r.requestPending {
		return false
	}
	r.sourceAddr = addr
	r.requestPending = true
	r.external = external
	return true
}

// BusRequestPending reports whether a request has been accepted but
// not yet completed.
func (r *Request) BusRequestPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requestPending
}

// BusRequestCompleted is signalled by the bus writer once it has
// physically transmitted the requested address byte. It advances the
// state machine from Observe to First.
func (r *Request) BusRequestCompleted() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Observe && r.requestPending {
		r.state = First
	}
}

// StartBit is an optional hook for collaborators with edge-level
// access to the UART start bit (typically an ISR on embedded
// platforms). Calling it shortly before the corresponding Run(SYN)
// gives the sync-interval timing a more precise origin than the
// byte-arrival timestamp Run would otherwise use.
func (r *Request) StartBit() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastStartBit = r.clock()
	r.haveStartBit = true
}

// Run advances the arbitration FSM by one received byte and returns
// the outcome.
func (r *Request) Run(b byte) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.step(b)
	r.result = result
	r.counters.Inc(result)
	return result
}

func (r *Request) step(b byte) Result {
	switch r.state {
	case Observe:
		return r.stepObserve(b)
	case First:
		return r.stepFirst(b)
	case Retry:
		return r.stepRetry(b)
	case Second:
		return r.stepSecond(b)
	default:
		r.state = Observe
		return ObserveData
	}
}

func (r *Request) stepObserve(b byte) Result {
	if b != ebus.SYN {
		return ObserveData
	}

	now := r.clock()
	if r.haveStartBit {
		if r.haveLastSyn {
			r.syncTiming.Observe(r.lastStartBit.Sub(r.lastSyn))
		}
		r.lastSyn = r.lastStartBit
		r.haveStartBit = false
	} else {
		if r.haveLastSyn {
			r.syncTiming.Observe(now.Sub(r.lastSyn))
		}
		r.lastSyn = now
	}
	r.haveLastSyn = true

	if r.lockCounter > 0 {
		r.lockCounter--
	}
	return ObserveSyn
}

func (r *Request) stepFirst(b byte) Result {
	if b == ebus.SYN {
		return FirstSyn
	}
	if b == r.sourceAddr {
		r.lockCounter = r.maxLock
		r.requestPending = false
		r.state = Observe
		return FirstWon
	}
	if ebus.IsMaster(b) {
		if (b&0x0F) == (r.sourceAddr&0x0F) && (b&0xF0) > (r.sourceAddr&0xF0) {
			r.state = Retry
			return FirstRetry
		}
		r.requestPending = false
		r.state = Observe
		return FirstLost
	}
	r.requestPending = false
	r.state = Observe
	return FirstError
}

func (r *Request) stepRetry(b byte) Result {
	if b != ebus.SYN {
		r.requestPending = false
		r.state = Observe
		return RetryError
	}
	r.requestPending = true
	r.state = Second
	return RetrySyn
}

func (r *Request) stepSecond(b byte) Result {
	r.requestPending = false
	r.state = Observe
	if b == r.sourceAddr {
		r.lockCounter = r.maxLock
		return SecondWon
	}
	if ebus.IsMaster(b) {
		return SecondLost
	}
	return SecondError
}

// State returns the current arbitration phase.
func (r *Request) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastResult returns the outcome of the most recent Run call.
func (r *Request) LastResult() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// LockCounter returns the current cooldown value.
func (r *Request) LockCounter() byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lockCounter
}

// GetCounter returns a consistent snapshot of the result counters.
func (r *Request) GetCounter() Counters {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters
}

// ResetCounter zeroes the result counters.
func (r *Request) ResetCounter() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters = Counters{}
}

// GetTiming returns a snapshot of the SYN-interval timing
// distribution.
func (r *Request) GetTiming() stats.Snapshot {
	return r.syncTiming.Snapshot()
}

// ResetTiming clears the SYN-interval timing accumulator.
func (r *Request) ResetTiming() {
	r.syncTiming.Reset()
}
