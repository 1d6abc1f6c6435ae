package arbitration

// State is the arbitration FSM's current phase.
type State int

const (
	// Observe is the default, idle phase: watching SYN traffic and
	// waiting for a bus request to be accepted.
	Observe State = iota
	// First is entered once the bus writer has physically transmitted
	// the requested address byte; awaits the echoed byte.
	First
	// Retry is entered when the initial compare lost to a same-class
	// master whose sub-address (high) nibble is numerically higher than
	// this node's, so a priority retry is still possible.
	Retry
	// Second awaits the echo of the retried address byte.
	Second
)

func (s State) String() string {
	switch s {
	case Observe:
		return "observe"
	case First:
		return "first"
	case Retry:
		return "retry"
	case Second:
		return "second"
	default:
		return "unknown"
	}
}

// Result is the outcome Run reports for the byte just processed.
type Result int

const (
	// None is the zero value, reported before any byte has been
	// processed.
	None Result = iota
	ObserveSyn
	ObserveData
	FirstSyn
	FirstWon
	FirstRetry
	FirstLost
	FirstError
	RetrySyn
	RetryError
	SecondWon
	SecondLost
	SecondError
)

func (r Result) String() string {
	switch r {
	case ObserveSyn:
		return "observe_syn"
	case ObserveData:
		return "observe_data"
	case FirstSyn:
		return "first_syn"
	case FirstWon:
		return "first_won"
	case FirstRetry:
		return "first_retry"
	case FirstLost:
		return "first_lost"
	case FirstError:
		return "first_error"
	case RetrySyn:
		return "retry_syn"
	case RetryError:
		return "retry_error"
	case SecondWon:
		return "second_won"
	case SecondLost:
		return "second_lost"
	case SecondError:
		return "second_error"
	default:
		return "none"
	}
}
