package ebus

// SequenceState classifies the structural validity of one telegram
// half (master or slave).
type SequenceState int

const (
	SeqEmpty SequenceState = iota
	SeqOK
	SeqTooShort
	SeqTooLong
	SeqBadSourceAddr
	SeqBadTargetAddr
	SeqBadDataByte
	SeqBadCRC
	SeqBadAck
	SeqMissingAck
	SeqNegativeAck
)

// String renders the state for logging and error callbacks.
func (s SequenceState) String() string {
	switch s {
	case SeqEmpty:
		return "empty"
	case SeqOK:
		return "ok"
	case SeqTooShort:
		return "too_short"
	case SeqTooLong:
		return "too_long"
	case SeqBadSourceAddr:
		return "bad_source_addr"
	case SeqBadTargetAddr:
		return "bad_target_addr"
	case SeqBadDataByte:
		return "bad_data_byte"
	case SeqBadCRC:
		return "bad_crc"
	case SeqBadAck:
		return "bad_ack"
	case SeqMissingAck:
		return "missing_ack"
	case SeqNegativeAck:
		return "negative_ack"
	default:
		return "unknown"
	}
}

// TelegramType classifies a telegram by its ZZ (destination) byte.
type TelegramType int

const (
	TypeUndefined TelegramType = iota
	TypeBroadcast
	TypeMasterMaster
	TypeMasterSlave
)

func (t TelegramType) String() string {
	switch t {
	case TypeBroadcast:
		return "broadcast"
	case TypeMasterMaster:
		return "master_master"
	case TypeMasterSlave:
		return "master_slave"
	default:
		return "undefined"
	}
}

// TypeOf classifies a destination byte.
func TypeOf(zz byte) TelegramType {
	switch {
	case zz == Broadcast:
		return TypeBroadcast
	case IsMaster(zz):
		return TypeMasterMaster
	case IsSlave(zz):
		return TypeMasterSlave
	default:
		return TypeUndefined
	}
}

// Telegram is a parsed view over one master half and, for
// master-slave exchanges, one slave half.
//
// Master field layout (reduced form): QQ ZZ PB SB NN DB1..DBn.
// Slave field layout (reduced form): NN' DB1'..DBn'.
// Neither stored Sequence includes its trailing CRC byte; that is
// held separately in MasterCRC/SlaveCRC.
type Telegram struct {
	Master      Sequence
	MasterCRC   byte
	MasterState SequenceState
	MasterACK   byte
	hasMasterACK bool

	Slave      Sequence
	SlaveCRC   byte
	SlaveState SequenceState
	SlaveACK   byte
	hasSlaveACK bool
}

// NewTelegram returns an empty Telegram (both halves SeqEmpty).
func NewTelegram() Telegram {
	return Telegram{MasterState: SeqEmpty, SlaveState: SeqEmpty}
}

// Type classifies the telegram by its destination byte. It returns
// TypeUndefined if no master half has been set.
func (t *Telegram) Type() TelegramType {
	if t.Master.Len() < 2 {
		return TypeUndefined
	}
	return TypeOf(t.Master.At(1))
}

// Valid reports whether the telegram is complete and well-formed: the
// master half parsed OK, and if the type is master-slave, the slave
// half parsed OK too.
func (t *Telegram) Valid() bool {
	if t.MasterState != SeqOK {
		return false
	}
	if t.Type() == TypeMasterSlave && t.SlaveState != SeqOK {
		return false
	}
	return true
}

// SourceAddress returns QQ.
func (t *Telegram) SourceAddress() byte { return t.Master.At(0) }

// TargetAddress returns ZZ.
func (t *Telegram) TargetAddress() byte { return t.Master.At(1) }

// PrimaryCommand returns PB.
func (t *Telegram) PrimaryCommand() byte { return t.Master.At(2) }

// SecondaryCommand returns SB.
func (t *Telegram) SecondaryCommand() byte { return t.Master.At(3) }

// MasterDataCount returns NN from the master half.
func (t *Telegram) MasterDataCount() byte { return t.Master.At(4) }

// MasterDataBytes returns DB1..DBn of the master half.
func (t *Telegram) MasterDataBytes() []byte {
	return t.Master.Bytes()[5:]
}

// SlaveDataCount returns NN of the slave half.
func (t *Telegram) SlaveDataCount() byte { return t.Slave.At(0) }

// SlaveDataBytes returns DB1'..DBn' of the slave half.
func (t *Telegram) SlaveDataBytes() []byte {
	return t.Slave.Bytes()[1:]
}

// validateHalf checks the structural rules common to master and slave
// halves against seq (in reduced mode), where nnOffset is the index of
// the NN byte (4 for a master half, 0 for a slave half) and minLen is
// the minimum total length before NN can even be read (5 for master,
// 1 for slave).
//
// If crc is present (len == minLen+nn+1) it is validated against the
// computed CRC over the preceding bytes. If it is absent (len ==
// minLen+nn) the caller is building an outgoing half and is expected
// to compute and append the CRC itself; validateHalf reports SeqOK and
// leaves crcPresent false so the caller knows to do so.
func validateHalf(seq *Sequence, nnOffset, minLen int) (state SequenceState, nn int, crc byte, crcPresent bool) {
	n := seq.Len()
	if n < minLen {
		return SeqTooShort, 0, 0, false
	}

	if nnOffset == 4 {
		if !IsMaster(seq.At(0)) {
			return SeqBadSourceAddr, 0, 0, false
		}
		if !IsTarget(seq.At(1)) {
			return SeqBadTargetAddr, 0, 0, false
		}
	}

	nn = int(seq.At(nnOffset))
	if nn > MaxDataBytes {
		return SeqBadDataByte, nn, 0, false
	}

	full := minLen + nn
	if n < full {
		return SeqTooShort, nn, 0, false
	}
	if n > full+1 {
		return SeqTooLong, nn, 0, false
	}

	if n == full {
		return SeqOK, nn, 0, false
	}

	// n == full+1: trailing CRC byte present, must match.
	body, err := seq.Range(0, full)
	if err != nil {
		return SeqTooLong, nn, 0, false
	}
	computed := body.CRC()
	got := seq.At(full)
	if got != computed {
		return SeqBadCRC, nn, got, true
	}
	return SeqOK, nn, got, true
}

// BuildMaster constructs the master half of an outgoing telegram from
// its own master address and ZZ PB SB NN DBx (no CRC). It computes and
// stores the CRC.
func BuildMaster(qq byte, rest []byte) Telegram {
	full := append([]byte{qq}, rest...)
	return BuildMasterFromSequence(SequenceFrom(full, false))
}

// BuildMasterFromSequence validates seq as a master half. seq may or
// may not include a trailing CRC byte; if absent, the CRC is computed
// and recorded.
func BuildMasterFromSequence(seq Sequence) Telegram {
	t := NewTelegram()
	state, nn, crc, crcPresent := validateHalf(&seq, 4, 5)
	t.MasterState = state
	if state != SeqOK {
		_ = nn
		t.Master = seq
		return t
	}

	body, _ := seq.Range(0, 5+nn)
	t.Master = body
	if crcPresent {
		t.MasterCRC = crc
	} else {
		t.MasterCRC = body.CRC()
	}
	return t
}

// BuildSlave constructs the slave half of an outgoing telegram from NN
// DBx (no CRC). It computes and stores the CRC.
func BuildSlave(dataBytes []byte) Telegram {
	t := NewTelegram()
	t.SetSlaveFromSequence(SequenceFrom(dataBytes, false))
	return t
}

// SetSlaveFromSequence validates seq as a slave half and attaches it
// to an existing Telegram (whose master half is presumably already
// set). seq may or may not include a trailing CRC byte.
func (t *Telegram) SetSlaveFromSequence(seq Sequence) {
	state, nn, crc, crcPresent := validateHalf(&seq, 0, 1)
	t.SlaveState = state
	if state != SeqOK {
		t.Slave = seq
		return
	}

	body, _ := seq.Range(0, 1+nn)
	t.Slave = body
	if crcPresent {
		t.SlaveCRC = crc
	} else {
		t.SlaveCRC = body.CRC()
	}
}

// SetMasterACK records the acknowledgement byte the master side
// received or sent.
func (t *Telegram) SetMasterACK(b byte) {
	t.MasterACK = b
	t.hasMasterACK = true
}

// SetSlaveACK records the acknowledgement byte the slave side received
// or sent.
func (t *Telegram) SetSlaveACK(b byte) {
	t.SlaveACK = b
	t.hasSlaveACK = true
}

// EncodeMaster renders the master half plus its CRC, extended for the
// wire.
func (t *Telegram) EncodeMaster() []byte {
	seq := SequenceFrom(t.Master.Bytes(), false)
	seq.Push(t.MasterCRC, false)
	seq.Extend()
	return seq.Bytes()
}

// EncodeSlave renders the slave half plus its CRC, extended for the
// wire.
func (t *Telegram) EncodeSlave() []byte {
	seq := SequenceFrom(t.Slave.Bytes(), false)
	seq.Push(t.SlaveCRC, false)
	seq.Extend()
	return seq.Bytes()
}

// Parse decodes a complete on-wire exchange — master half, its
// acknowledgement(s), and for master-slave telegrams the slave half
// and its acknowledgement(s) — captured in reduced form without
// surrounding SYN bytes. It allows a single NAK-and-repeat on each
// half: when a half fails its CRC check and is followed by NAK, the
// repeated copy after the NAK is parsed in its place, and if that copy
// fails too the half's state is SeqNegativeAck. A NAK that follows a
// half whose CRC checks out is not taken as a repeat request; it is
// recorded as that half's acknowledgement and yields SeqBadAck.
func Parse(full Sequence) Telegram {
	t := NewTelegram()

	masterLen, ok := peekHalfLen(&full, 4, 5)
	if !ok {
		t.MasterState = SeqTooShort
		t.Master = full
		return t
	}

	pos := masterLen
	masterSeq, err := full.Range(0, masterLen)
	if err != nil {
		t.MasterState = SeqTooShort
		return t
	}
	mt := BuildMasterFromSequence(masterSeq)
	if mt.MasterState == SeqBadCRC && pos < full.Len() && full.At(pos) == NAK {
		pos++
		if pos+masterLen <= full.Len() {
			retry, _ := full.Range(pos, masterLen)
			retryTel := BuildMasterFromSequence(retry)
			if retryTel.MasterState == SeqOK {
				mt = retryTel
				pos += masterLen
			} else {
				mt.MasterState = SeqNegativeAck
				pos += masterLen
			}
		}
	}
	t.Master, t.MasterCRC, t.MasterState = mt.Master, mt.MasterCRC, mt.MasterState
	if t.MasterState != SeqOK {
		return t
	}

	switch t.Type() {
	case TypeBroadcast:
		return t
	case TypeMasterMaster:
		if pos >= full.Len() {
			t.MasterState = SeqMissingAck
			return t
		}
		ack := full.At(pos)
		t.SetMasterACK(ack)
		if ack != ACK {
			t.MasterState = SeqBadAck
		}
		return t
	case TypeMasterSlave:
		if pos >= full.Len() {
			t.MasterState = SeqMissingAck
			return t
		}
		ack := full.At(pos)
		t.SetMasterACK(ack)
		if ack != ACK {
			t.MasterState = SeqBadAck
			return t
		}
		pos++
	default:
		t.MasterState = SeqBadTargetAddr
		return t
	}

	if pos >= full.Len() {
		t.SlaveState = SeqTooShort
		return t
	}
	rest, err := full.Range(pos, 0)
	if err != nil {
		t.SlaveState = SeqTooShort
		return t
	}
	sLen, ok := peekHalfLen(&rest, 0, 1)
	if !ok {
		t.SlaveState = SeqTooShort
		return t
	}
	slaveSeq, err := rest.Range(0, sLen)
	if err != nil {
		t.SlaveState = SeqTooShort
		return t
	}
	t.SetSlaveFromSequence(slaveSeq)
	spos := sLen
	if t.SlaveState == SeqBadCRC && spos < rest.Len() && rest.At(spos) == NAK {
		spos++
		if spos+sLen <= rest.Len() {
			retry, _ := rest.Range(spos, sLen)
			t.SetSlaveFromSequence(retry)
			if t.SlaveState != SeqOK {
				t.SlaveState = SeqNegativeAck
			}
			spos += sLen
		}
	}
	if t.SlaveState != SeqOK {
		return t
	}
	if spos >= rest.Len() {
		t.SlaveState = SeqMissingAck
		return t
	}
	ack := rest.At(spos)
	t.SetSlaveACK(ack)
	if ack != ACK {
		t.SlaveState = SeqBadAck
	}
	return t
}

// peekHalfLen reads the NN byte at nnOffset (if present) and returns
// the expected total half length (including CRC), without validating
// anything else.
func peekHalfLen(seq *Sequence, nnOffset, minLen int) (int, bool) {
	if seq.Len() <= nnOffset {
		return 0, false
	}
	nn := int(seq.At(nnOffset))
	if nn > MaxDataBytes {
		return 0, false
	}
	return minLen + nn + 1, true
}
