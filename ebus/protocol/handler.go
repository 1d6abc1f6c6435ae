package protocol

import (
	"sync"
	"time"

	"github.com/nerrad567/ebus-core/ebus"
	"github.com/nerrad567/ebus-core/ebus/arbitration"
	"github.com/nerrad567/ebus-core/ebus/stats"
)

// scanPB, scanSB identify the eBUS scan command (PB=07 SB=04): a
// six-byte NN=0 master-slave telegram used by the special-case
// resetPassive0704 counter when it is interrupted before its ACK.
const (
	scanPB = 0x07
	scanSB = 0x04
)

// Handler is the Protocol FSM. Construct with NewHandler and feed it
// bytes with Run, serially, from a single owning goroutine.
type Handler struct {
	mu sync.Mutex

	address       byte
	targetAddress byte

	writer BusWriter
	arb    *arbitration.Request

	state HandlerState

	passive           ebus.Sequence
	passiveMasterTel  Telegram
	passiveRepeated   bool
	reactiveSlaveWire ebus.Sequence
	reactiveSlaveIndex int
	prevPassiveByteAt time.Time
	lastSynAt         time.Time
	haveLastSynAt     bool

	activeBytes          []byte
	activeMessagePending bool
	active               ebus.Sequence
	activeTel            Telegram
	activeIndex          int
	activeRepeated       bool
	activeSlaveRecv      ebus.Sequence
	prevActiveByteAt     time.Time

	reactiveMasterSlave ReactiveMasterSlaveFunc
	telegramCallback    TelegramCallback
	errorCallback       ErrorCallback

	counters Counters
	timing   Timing

	stateTiming    [stateCount]stats.Timing
	stateEnteredAt time.Time
	lastByteAt     time.Time
	haveLastByte   bool

	clock func() time.Time
}

// NewHandler constructs a Handler for the given own master address
// (defaulting to 0xFF if addr is not a valid master address), driving
// writer and consulting arb during bus-acquisition attempts.
func NewHandler(addr byte, writer BusWriter, arb *arbitration.Request) *Handler {
	if !ebus.IsMaster(addr) {
		addr = 0xFF
	}
	h := &Handler{
		address:       addr,
		targetAddress: ebus.SlaveOf(addr),
		writer:        writer,
		arb:           arb,
		state:         passiveReceiveMaster,
		clock:         time.Now,
	}
	h.stateEnteredAt = h.clock()
	return h
}

// SetSource changes the node's own master address, recomputing the
// derived target (slave) address.
func (h *Handler) SetSource(addr byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !ebus.IsMaster(addr) {
		addr = 0xFF
	}
	h.address = addr
	h.targetAddress = ebus.SlaveOf(addr)
}

// GetSource returns the node's own master address.
func (h *Handler) GetSource() byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.address
}

// GetTarget returns slave_of(source).
func (h *Handler) GetTarget() byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.targetAddress
}

// SetReactiveMasterSlaveCallback registers the single-slot callback
// answering telegrams addressed to this node's slave address.
func (h *Handler) SetReactiveMasterSlaveCallback(fn ReactiveMasterSlaveFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reactiveMasterSlave = fn
}

// SetTelegramCallback registers the single-slot callback invoked once
// per successfully completed exchange.
func (h *Handler) SetTelegramCallback(fn TelegramCallback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.telegramCallback = fn
}

// SetErrorCallback registers the single-slot callback invoked for
// every framing/acknowledgement failure and reset condition.
func (h *Handler) SetErrorCallback(fn ErrorCallback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errorCallback = fn
}

// SendActiveMessage queues bytes (ZZ PB SB NN DB..; QQ is prepended by
// the Handler) for transmission once arbitration next wins the bus.
// It returns false if a message is already pending or bytes is empty.
func (h *Handler) SendActiveMessage(bytes []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.activeMessagePending || len(bytes) == 0 {
		return false
	}
	h.activeBytes = append([]byte(nil), bytes...)
	h.activeMessagePending = true
	h.counters.RequestsSent++
	return true
}

// Run advances the Protocol FSM by one received byte. It is the sole
// mutator of Handler state and must be called serially.
func (h *Handler) Run(b byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock()
	h.lastByteAt = now
	h.haveLastByte = true

	arbResult := h.arb.Run(b)

	before := h.state
	h.dispatch(b, arbResult)
	if h.state != before {
		h.stateTiming[before].Observe(now.Sub(h.stateEnteredAt))
		h.stateEnteredAt = now
	}
}

func (h *Handler) dispatch(b byte, arbResult arbitration.Result) {
	switch h.state {
	case passiveReceiveMaster:
		h.runPassiveReceiveMaster(b)
	case passiveReceiveMasterAcknowledge:
		h.runPassiveReceiveMasterAcknowledge(b)
	case passiveReceiveSlave:
		h.runPassiveReceiveSlave(b)
	case passiveReceiveSlaveAcknowledge:
		h.runPassiveReceiveSlaveAcknowledge(b)
	case reactiveSendMasterPositiveAcknowledge:
		h.runReactiveSendMasterPositiveAcknowledge(b)
	case reactiveSendMasterNegativeAcknowledge:
		h.runReactiveSendMasterNegativeAcknowledge(b)
	case reactiveSendSlave:
		h.runReactiveSendSlave(b)
	case reactiveReceiveSlaveAcknowledge:
		h.runReactiveReceiveSlaveAcknowledge(b)
	case requestBus:
		h.runRequestBus(b, arbResult)
	case activeSendMaster:
		h.runActiveSendMaster(b)
	case activeReceiveMasterAcknowledge:
		h.runActiveReceiveMasterAcknowledge(b)
	case activeReceiveSlave:
		h.runActiveReceiveSlave(b)
	case activeSendSlavePositiveAcknowledge:
		h.runActiveSendSlavePositiveAcknowledge(b)
	case activeSendSlaveNegativeAcknowledge:
		h.runActiveSendSlaveNegativeAcknowledge(b)
	case releaseBus:
		h.state = passiveReceiveMaster
	}
}

// writeByte times the collaborator write and records it.
func (h *Handler) writeByte(b byte) {
	start := h.clock()
	_ = h.writer.WriteByte(b)
	h.timing.WriteDuration.Observe(h.clock().Sub(start))
}

func (h *Handler) fireTelegram(source MessageType) {
	start := h.clock()
	if h.telegramCallback != nil {
		var slave *Telegram
		if h.passiveMasterTel.Type() == ebus.TypeMasterSlave {
			slave = &h.passiveMasterTel
		}
		h.telegramCallback(source, &h.passiveMasterTel, slave)
	}
	h.timing.TelegramCallbackDuration.Observe(h.clock().Sub(start))
}

func (h *Handler) fireActiveTelegram() {
	start := h.clock()
	if h.telegramCallback != nil {
		var slave *Telegram
		if h.activeTel.Type() == ebus.TypeMasterSlave {
			slave = &h.activeTel
		}
		h.telegramCallback(Active, &h.activeTel, slave)
	}
	h.timing.TelegramCallbackDuration.Observe(h.clock().Sub(start))
}

func (h *Handler) fireError(tag string) {
	start := h.clock()
	if h.errorCallback != nil {
		h.errorCallback(tag, &h.passiveMasterTel, nil)
	}
	h.timing.ErrorCallbackDuration.Observe(h.clock().Sub(start))
}

func (h *Handler) fireActiveError(tag string) {
	start := h.clock()
	if h.errorCallback != nil {
		h.errorCallback(tag, &h.activeTel, nil)
	}
	h.timing.ErrorCallbackDuration.Observe(h.clock().Sub(start))
}

// clearPassiveScratch drops all passive-side accumulation state
// without touching h.state.
func (h *Handler) clearPassiveScratch() {
	h.passive.Clear()
	h.passiveMasterTel = Telegram{}
	h.passiveRepeated = false
	h.reactiveSlaveWire = ebus.Sequence{}
	h.reactiveSlaveIndex = 0
}

// resetPassive clears the passive accumulation state and returns to
// the idle receiving state.
func (h *Handler) resetPassive() {
	h.clearPassiveScratch()
	h.state = passiveReceiveMaster
}

// resetActive clears the active transmission scratch without
// disturbing activeMessagePending, so a future arbitration win can
// retry.
func (h *Handler) resetActive() {
	h.active.Clear()
	h.activeTel = Telegram{}
	h.activeIndex = 0
	h.activeRepeated = false
	h.activeSlaveRecv.Clear()
}

// finishActive clears the active transmission scratch and the pending
// flag: the queued message has either been delivered or permanently
// failed.
func (h *Handler) finishActive() {
	h.resetActive()
	h.activeMessagePending = false
	h.activeBytes = nil
}

// checkPassiveBuffers reports and tallies whatever was left in the
// passive accumulator when a SYN interrupted it.
func (h *Handler) checkPassiveBuffers() {
	if h.passive.Len() == 0 {
		return
	}
	reduced := h.passive
	reduced.Reduce()
	if reduced.Len() == 1 && reduced.At(0) == 0x00 {
		h.counters.ResetPassive00++
		h.fireError(TagResetPassive00)
	} else {
		h.counters.ResetPassive++
		h.fireError(TagCheckPassiveBuffers)
	}
	h.passive.Clear()
}

// checkActiveBuffers reports and tallies whatever was left in the
// active transmission scratch when a SYN interrupted framing while
// back in passiveReceiveMaster. Under this Handler's own state
// transitions the active scratch is always cleared (via resetActive
// or finishActive) before control returns here, so this is a
// defensive counterpart to checkPassiveBuffers rather than a path
// exercised in normal operation.
func (h *Handler) checkActiveBuffers() {
	if h.active.Len() == 0 {
		return
	}
	h.counters.ResetActive++
	h.fireActiveError(TagCheckActiveBuffers)
	h.active.Clear()
}
