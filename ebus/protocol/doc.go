// Package protocol implements the eBUS telegram state machine: the
// 15-state engine that drives passive observation of other nodes'
// traffic, reactive replies to telegrams addressed to this node, and
// active transmission of queued outgoing telegrams.
//
// Handler is fed one byte at a time through Run, exactly like
// arbitration.Request, by the same owning collaborator (a serial
// adapter in the common case). It holds an *arbitration.Request and
// consults the arbitration.Result it returns while in the requestBus
// state; it never calls back into arbitration beyond that.
//
// Handler is not safe for concurrent use from more than one goroutine
// calling Run; counter and timing reads are safe to call from any
// goroutine at any time.
package protocol
