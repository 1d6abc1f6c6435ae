package protocol

import "github.com/nerrad567/ebus-core/ebus"

func (h *Handler) runActiveSendMaster(b byte) {
	if h.activeIndex == 2 {
		h.timing.ActiveFirstByteInterval.Observe(h.lastByteAt.Sub(h.prevActiveByteAt))
	} else {
		h.timing.ActiveDataByteInterval.Observe(h.lastByteAt.Sub(h.prevActiveByteAt))
	}
	h.prevActiveByteAt = h.lastByteAt

	expected := h.active.At(h.activeIndex - 1)
	if b != expected {
		h.counters.ErrorActiveMaster++
		h.fireActiveError(TagErrorActiveMaster)
		h.finishActive()
		h.writeByte(ebus.SYN)
		h.state = releaseBus
		return
	}

	if h.activeIndex >= h.active.Len() {
		if h.activeTel.Type() == ebus.TypeBroadcast {
			h.counters.MessagesActiveBroadcast++
			h.fireActiveTelegram()
			h.finishActive()
			h.writeByte(ebus.SYN)
			h.state = releaseBus
			return
		}
		h.state = activeReceiveMasterAcknowledge
		return
	}

	h.writeByte(h.active.At(h.activeIndex))
	h.activeIndex++
}

func (h *Handler) runActiveReceiveMasterAcknowledge(b byte) {
	if b == ebus.ACK {
		switch h.activeTel.Type() {
		case ebus.TypeMasterMaster:
			h.counters.MessagesActiveMasterMaster++
			h.fireActiveTelegram()
			h.finishActive()
			h.writeByte(ebus.SYN)
			h.state = releaseBus
		case ebus.TypeMasterSlave:
			h.state = activeReceiveSlave
		default:
			h.finishActive()
			h.writeByte(ebus.SYN)
			h.state = releaseBus
		}
		return
	}

	if b == ebus.NAK && !h.activeRepeated {
		h.activeRepeated = true
		h.writeByte(h.active.At(0))
		h.activeIndex = 1
		h.prevActiveByteAt = h.lastByteAt
		h.state = activeSendMaster
		return
	}

	h.counters.ErrorActiveMasterACK++
	h.fireActiveError(TagErrorActiveMasterACK)
	h.finishActive()
	h.writeByte(ebus.SYN)
	h.state = releaseBus
}

func (h *Handler) runActiveReceiveSlave(b byte) {
	h.timing.ActiveDataByteInterval.Observe(h.lastByteAt.Sub(h.prevActiveByteAt))
	h.prevActiveByteAt = h.lastByteAt

	h.activeSlaveRecv.Push(b, true)

	if !frameComplete(h.activeSlaveRecv.Bytes(), 1, 0) {
		return
	}

	reduced := h.activeSlaveRecv
	reduced.Reduce()
	h.activeSlaveRecv.Clear()
	h.activeTel.SetSlaveFromSequence(reduced)

	if h.activeTel.SlaveState == ebus.SeqOK {
		h.writeByte(ebus.ACK)
		h.state = activeSendSlavePositiveAcknowledge
	} else {
		h.writeByte(ebus.NAK)
		h.state = activeSendSlaveNegativeAcknowledge
	}
}

func (h *Handler) runActiveSendSlavePositiveAcknowledge(b byte) {
	if b == ebus.ACK {
		h.counters.MessagesActiveMasterSlave++
		h.fireActiveTelegram()
	} else {
		h.counters.ErrorActiveSlaveACK++
		h.fireActiveError(TagErrorActiveSlaveACK)
	}
	h.finishActive()
	h.writeByte(ebus.SYN)
	h.state = releaseBus
}

func (h *Handler) runActiveSendSlaveNegativeAcknowledge(b byte) {
	_ = b
	if !h.activeRepeated {
		h.activeRepeated = true
		h.activeTel.SlaveState = ebus.SeqEmpty
		h.state = activeReceiveSlave
		return
	}

	h.counters.ErrorActiveSlaveACK++
	h.fireActiveError(TagErrorActiveSlaveACK)
	h.finishActive()
	h.writeByte(ebus.SYN)
	h.state = releaseBus
}
