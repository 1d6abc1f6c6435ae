package protocol

import "github.com/nerrad567/ebus-core/ebus"

func (h *Handler) runPassiveReceiveMaster(b byte) {
	if b == ebus.SYN {
		h.checkPassiveBuffers()
		h.checkActiveBuffers()
		h.lastSynAt = h.lastByteAt
		h.haveLastSynAt = true
		if h.activeMessagePending && h.arb.RequestBus(h.address, false) {
			h.writeByte(h.address)
			h.arb.BusRequestCompleted()
			h.state = requestBus
		}
		return
	}

	if h.passive.Len() == 0 {
		if h.haveLastSynAt {
			h.timing.PassiveFirstByteInterval.Observe(h.lastByteAt.Sub(h.lastSynAt))
		}
	} else {
		h.timing.PassiveDataByteInterval.Observe(h.lastByteAt.Sub(h.prevPassiveByteAt))
	}
	h.prevPassiveByteAt = h.lastByteAt
	h.passive.Push(b, true)

	if !frameComplete(h.passive.Bytes(), 5, 4) {
		return
	}

	reduced := h.passive
	reduced.Reduce()
	h.passive.Clear()
	tel := ebus.BuildMasterFromSequence(reduced)
	h.passiveMasterTel = tel

	if tel.MasterState == ebus.SeqOK {
		switch tel.Type() {
		case ebus.TypeBroadcast:
			h.counters.MessagesPassiveBroadcast++
			h.fireTelegram(Passive)
			h.resetPassive()
		case ebus.TypeMasterMaster:
			if tel.TargetAddress() == h.address {
				h.writeByte(ebus.ACK)
				h.state = reactiveSendMasterPositiveAcknowledge
			} else {
				h.state = passiveReceiveMasterAcknowledge
			}
		case ebus.TypeMasterSlave:
			if tel.TargetAddress() == h.targetAddress {
				h.beginReactiveMasterSlave(&tel)
			} else {
				h.state = passiveReceiveMasterAcknowledge
			}
		default:
			h.counters.ErrorPassiveMaster++
			h.fireError(TagErrorPassiveMaster)
			h.resetPassive()
		}
		return
	}

	// Master half failed to parse. If enough of it parsed to know who
	// it was addressed to, distinguish "addressed to us" (reply NAK,
	// the sender is expected to retransmit) from "addressed elsewhere"
	// (stay aligned through the ACK/NAK it will get from its real
	// destination) from "can't even tell" (just a framing error).
	targetKnown := tel.Master.Len() > 1
	targetSelf := targetKnown && (tel.TargetAddress() == h.address || tel.TargetAddress() == h.targetAddress)
	switch {
	case targetSelf:
		h.counters.ErrorReactiveMaster++
		h.fireError(TagErrorReactiveMaster)
		h.writeByte(ebus.NAK)
		h.state = reactiveSendMasterNegativeAcknowledge
	case targetKnown && (tel.Type() == ebus.TypeMasterMaster || tel.Type() == ebus.TypeMasterSlave):
		h.state = passiveReceiveMasterAcknowledge
	default:
		h.counters.ErrorPassiveMaster++
		h.fireError(TagErrorPassiveMaster)
		h.resetPassive()
	}
}

func (h *Handler) runPassiveReceiveMasterAcknowledge(b byte) {
	if b == ebus.ACK {
		if h.passiveMasterTel.MasterState == ebus.SeqOK && h.passiveMasterTel.Type() == ebus.TypeMasterSlave {
			h.state = passiveReceiveSlave
			return
		}
		if h.passiveMasterTel.MasterState == ebus.SeqOK && h.passiveMasterTel.Type() == ebus.TypeMasterMaster {
			h.counters.MessagesPassiveMasterMaster++
			h.fireTelegram(Passive)
		}
		h.resetPassive()
		return
	}

	if b == ebus.NAK && !h.passiveRepeated {
		h.passiveRepeated = true
		h.passive.Clear()
		h.state = passiveReceiveMaster
		return
	}

	if b == ebus.SYN && isScanTelegram(&h.passiveMasterTel) {
		h.counters.ResetPassive0704++
		h.fireError(TagResetPassive0704)
	} else {
		h.counters.ErrorPassiveMasterACK++
		h.fireError(TagErrorPassiveMasterACK)
	}

	if b == ebus.SYN {
		h.clearPassiveScratch()
		h.state = passiveReceiveMaster
	} else {
		h.resetPassive()
	}
}

func (h *Handler) runPassiveReceiveSlave(b byte) {
	if h.passive.Len() == 0 {
		if h.haveLastSynAt {
			h.timing.PassiveFirstByteInterval.Observe(h.lastByteAt.Sub(h.lastSynAt))
		}
	} else {
		h.timing.PassiveDataByteInterval.Observe(h.lastByteAt.Sub(h.prevPassiveByteAt))
	}
	h.prevPassiveByteAt = h.lastByteAt
	h.passive.Push(b, true)

	if !frameComplete(h.passive.Bytes(), 1, 0) {
		return
	}

	reduced := h.passive
	reduced.Reduce()
	h.passive.Clear()
	h.passiveMasterTel.SetSlaveFromSequence(reduced)
	h.state = passiveReceiveSlaveAcknowledge
}

func (h *Handler) runPassiveReceiveSlaveAcknowledge(b byte) {
	if b == ebus.ACK {
		if h.passiveMasterTel.SlaveState == ebus.SeqOK {
			h.counters.MessagesPassiveMasterSlave++
			h.fireTelegram(Passive)
		} else {
			h.counters.ErrorPassiveSlave++
			h.fireError(TagErrorPassiveSlave)
		}
		h.resetPassive()
		return
	}

	if b == ebus.NAK && !h.passiveRepeated {
		h.passiveRepeated = true
		h.passive.Clear()
		h.passiveMasterTel.SlaveState = ebus.SeqEmpty
		h.state = passiveReceiveSlave
		return
	}

	h.counters.ErrorPassiveSlaveACK++
	h.fireError(TagErrorPassiveSlaveACK)
	h.resetPassive()
}

// isScanTelegram reports whether tel is the six-byte NN=0 PB=07 SB=04
// scan telegram whose aborted exchange is tallied separately.
func isScanTelegram(tel *Telegram) bool {
	return tel.MasterState == ebus.SeqOK &&
		tel.PrimaryCommand() == scanPB &&
		tel.SecondaryCommand() == scanSB &&
		tel.MasterDataCount() == 0
}
