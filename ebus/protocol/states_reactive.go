package protocol

import "github.com/nerrad567/ebus-core/ebus"

// beginReactiveMasterSlave is entered when a master addresses this
// node's own slave address: the registered callback supplies the
// response payload, which is built into a slave sequence and
// acknowledged.
func (h *Handler) beginReactiveMasterSlave(master *Telegram) {
	start := h.clock()
	var (
		response []byte
		ok       bool
	)
	if h.reactiveMasterSlave != nil {
		response, ok = h.reactiveMasterSlave(master)
	}
	h.timing.ReactiveCallbackDuration.Observe(h.clock().Sub(start))

	if !ok {
		h.counters.ErrorReactiveSlave++
		h.fireError(TagErrorReactiveSlave)
		h.writeByte(ebus.SYN)
		h.clearPassiveScratch()
		h.state = releaseBus
		return
	}

	slaveTel := ebus.BuildSlave(append([]byte{byte(len(response))}, response...))
	if slaveTel.SlaveState != ebus.SeqOK {
		h.counters.ErrorReactiveSlave++
		h.fireError(TagErrorReactiveSlave)
		h.writeByte(ebus.SYN)
		h.clearPassiveScratch()
		h.state = releaseBus
		return
	}

	h.passiveMasterTel.Slave = slaveTel.Slave
	h.passiveMasterTel.SlaveCRC = slaveTel.SlaveCRC
	h.passiveMasterTel.SlaveState = slaveTel.SlaveState

	wire := append(append([]byte(nil), slaveTel.Slave.Bytes()...), slaveTel.SlaveCRC)
	h.reactiveSlaveWire = ebus.SequenceFrom(wire, false)
	h.reactiveSlaveWire.Extend()
	h.reactiveSlaveIndex = 0

	h.writeByte(ebus.ACK)
	h.state = reactiveSendMasterPositiveAcknowledge
}

func (h *Handler) runReactiveSendMasterPositiveAcknowledge(b byte) {
	if b != ebus.ACK {
		h.counters.ErrorReactiveMaster++
		h.fireError(TagErrorReactiveMaster)
		h.resetPassive()
		return
	}

	switch h.passiveMasterTel.Type() {
	case ebus.TypeMasterMaster:
		h.counters.MessagesReactiveMasterMaster++
		h.fireTelegram(Reactive)
		h.resetPassive()
	case ebus.TypeMasterSlave:
		h.state = reactiveSendSlave
		h.writeByte(h.reactiveSlaveWire.At(0))
		h.reactiveSlaveIndex = 1
	default:
		h.resetPassive()
	}
}

func (h *Handler) runReactiveSendMasterNegativeAcknowledge(b byte) {
	// The echo of our own NAK; the sender is expected to retransmit
	// the master half. Go back to idle framing regardless of the
	// echoed byte's exact value.
	_ = b
	h.resetPassive()
}

func (h *Handler) runReactiveSendSlave(b byte) {
	expected := h.reactiveSlaveWire.At(h.reactiveSlaveIndex - 1)
	if b != expected {
		h.counters.ErrorReactiveSlave++
		h.fireError(TagErrorReactiveSlave)
		h.resetPassive()
		return
	}

	if h.reactiveSlaveIndex >= h.reactiveSlaveWire.Len() {
		h.state = reactiveReceiveSlaveAcknowledge
		return
	}

	h.writeByte(h.reactiveSlaveWire.At(h.reactiveSlaveIndex))
	h.reactiveSlaveIndex++
}

func (h *Handler) runReactiveReceiveSlaveAcknowledge(b byte) {
	if b == ebus.ACK {
		h.counters.MessagesReactiveMasterSlave++
		h.fireTelegram(Reactive)
		h.resetPassive()
		return
	}

	if b == ebus.NAK && !h.passiveRepeated {
		h.passiveRepeated = true
		h.reactiveSlaveIndex = 1
		h.writeByte(h.reactiveSlaveWire.At(0))
		h.state = reactiveSendSlave
		return
	}

	h.counters.ErrorReactiveSlaveACK++
	h.fireError(TagErrorReactiveSlaveACK)
	h.writeByte(ebus.SYN)
	h.clearPassiveScratch()
	h.state = releaseBus
}
