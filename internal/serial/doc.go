// Package serial provides the hosted byte-source/sink collaborator for
// the eBUS protocol core: a thin wrapper over github.com/tarm/serial
// that satisfies protocol.BusWriter and drives protocol.Handler.Run
// from a blocking read loop.
//
// # Architecture
//
// eBUS is a half-duplex single-wire bus: there is exactly one reader
// and one writer, and every byte this node writes loops back through
// the same read loop before anything else is read. Port's Run method
// is the single feeding goroutine the core's concurrency model (the
// protocol and arbitration FSMs are single-threaded and cooperative)
// requires; WriteByte must only ever be called from inside that
// goroutine's callback (protocol.Handler already guarantees this).
//
// # Thread Safety
//
// Port is not safe for concurrent Open/Run/WriteByte/Close calls from
// multiple goroutines; it is designed for the single owning goroutine
// that also owns the protocol.Handler it feeds.
package serial
