package arbitration

// Counters tallies one event per Result variant. It carries no lock
// of its own: Request guards every access through its own mutex, the
// same way protocol.Handler guards its counters, so snapshots taken
// by GetCounter are plain value copies.
type Counters struct {
	ObserveSyn  uint64
	ObserveData uint64
	FirstSyn    uint64
	FirstWon    uint64
	FirstRetry  uint64
	FirstLost   uint64
	FirstError  uint64
	RetrySyn    uint64
	RetryError  uint64
	SecondWon   uint64
	SecondLost  uint64
	SecondError uint64
}

// Inc increments the counter matching r. None is not counted.
func (c *Counters) Inc(r Result) {
	switch r {
	case ObserveSyn:
		c.ObserveSyn++
	case ObserveData:
		c.ObserveData++
	case FirstSyn:
		c.FirstSyn++
	case FirstWon:
		c.FirstWon++
	case FirstRetry:
		c.FirstRetry++
	case FirstLost:
		c.FirstLost++
	case FirstError:
		c.FirstError++
	case RetrySyn:
		c.RetrySyn++
	case RetryError:
		c.RetryError++
	case SecondWon:
		c.SecondWon++
	case SecondLost:
		c.SecondLost++
	case SecondError:
		c.SecondError++
	}
}

// Total sums every counted event.
func (c *Counters) Total() uint64 {
	return c.ObserveSyn + c.ObserveData + c.FirstSyn + c.FirstWon + c.FirstRetry +
		c.FirstLost + c.FirstError + c.RetrySyn + c.RetryError + c.SecondWon +
		c.SecondLost + c.SecondError
}
