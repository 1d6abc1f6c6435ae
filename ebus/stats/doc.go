// Package stats provides the timing primitive shared by the
// arbitration and protocol state machines: a Welford-algorithm
// accumulator over a stream of durations.
//
// Timing is read from outside its owner's Run call, typically by a
// reporting goroutine. Snapshot copies under a mutex so a concurrent
// Observe can keep mutating without the reader seeing a torn value.
package stats
