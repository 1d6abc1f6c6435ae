package protocol

import (
	"github.com/nerrad567/ebus-core/ebus"
	"github.com/nerrad567/ebus-core/ebus/arbitration"
)

// runRequestBus drives the Handler while an arbitration attempt for a
// queued active message is underway. The address byte itself was
// already written when the request was accepted; this state watches
// the arbitration outcome for each subsequent byte.
func (h *Handler) runRequestBus(b byte, arbResult arbitration.Result) {
	switch arbResult {
	case arbitration.FirstWon, arbitration.SecondWon:
		full := append([]byte{h.address}, h.activeBytes...)
		tel := ebus.BuildMasterFromSequence(ebus.SequenceFrom(full, false))
		h.activeTel = tel
		wire := tel.EncodeMaster()
		h.active = ebus.SequenceFrom(wire, true)
		h.prevActiveByteAt = h.lastByteAt
		h.writeByte(h.active.At(1))
		h.activeIndex = 2
		h.state = activeSendMaster

	case arbitration.FirstLost, arbitration.FirstError:
		h.resetActive()
		h.passive.Push(b, true)
		h.state = passiveReceiveMaster

	case arbitration.ObserveSyn, arbitration.ObserveData, arbitration.RetryError, arbitration.SecondError:
		h.resetActive()
		h.state = passiveReceiveMaster

	case arbitration.RetrySyn:
		// Tied on priority class; re-assert the address for the
		// decisive second round.
		h.writeByte(h.address)

	case arbitration.FirstSyn, arbitration.FirstRetry:
		// Arbitration still in progress; remain in requestBus.
	}
}
