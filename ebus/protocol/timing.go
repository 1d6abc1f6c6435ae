package protocol

import "github.com/nerrad567/ebus-core/ebus/stats"

// Timing holds the Welford accumulators named in the statistics
// design: transmit duration, byte-arrival intervals on the passive and
// active paths, and the wall time spent executing each registered
// callback.
type Timing struct {
	WriteDuration            stats.Timing
	PassiveFirstByteInterval stats.Timing
	PassiveDataByteInterval  stats.Timing
	ActiveFirstByteInterval  stats.Timing
	ActiveDataByteInterval   stats.Timing
	ReactiveCallbackDuration stats.Timing
	TelegramCallbackDuration stats.Timing
	ErrorCallbackDuration    stats.Timing
}

// TimingSnapshot is a point-in-time copy of every Timing accumulator.
type TimingSnapshot struct {
	WriteDuration            stats.Snapshot
	PassiveFirstByteInterval stats.Snapshot
	PassiveDataByteInterval  stats.Snapshot
	ActiveFirstByteInterval  stats.Snapshot
	ActiveDataByteInterval   stats.Snapshot
	ReactiveCallbackDuration stats.Snapshot
	TelegramCallbackDuration stats.Snapshot
	ErrorCallbackDuration    stats.Snapshot
}

func (t *Timing) snapshot() TimingSnapshot {
	return TimingSnapshot{
		WriteDuration:            t.WriteDuration.Snapshot(),
		PassiveFirstByteInterval: t.PassiveFirstByteInterval.Snapshot(),
		PassiveDataByteInterval:  t.PassiveDataByteInterval.Snapshot(),
		ActiveFirstByteInterval:  t.ActiveFirstByteInterval.Snapshot(),
		ActiveDataByteInterval:   t.ActiveDataByteInterval.Snapshot(),
		ReactiveCallbackDuration: t.ReactiveCallbackDuration.Snapshot(),
		TelegramCallbackDuration: t.TelegramCallbackDuration.Snapshot(),
		ErrorCallbackDuration:    t.ErrorCallbackDuration.Snapshot(),
	}
}

func (t *Timing) reset() {
	t.WriteDuration.Reset()
	t.PassiveFirstByteInterval.Reset()
	t.PassiveDataByteInterval.Reset()
	t.ActiveFirstByteInterval.Reset()
	t.ActiveDataByteInterval.Reset()
	t.ReactiveCallbackDuration.Reset()
	t.TelegramCallbackDuration.Reset()
	t.ErrorCallbackDuration.Reset()
}
