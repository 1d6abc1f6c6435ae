package ebus

// Reserved eBUS symbols. SYN delimits telegrams on the wire and
// doubles as the arbitration trigger; EXT escapes SYN and itself
// inside a payload (see Sequence.Extend).
const (
	SYN byte = 0xAA // synchronisation byte
	EXT byte = 0xA9 // extension (escape) byte

	synExt byte = 0x01 // extended form of SYN, follows EXT
	extExt byte = 0x00 // extended form of EXT, follows EXT

	ACK byte = 0x00 // positive acknowledgement
	NAK byte = 0xFF // negative acknowledgement

	Broadcast byte = 0xFE // broadcast destination address
)

// MaxDataBytes is the maximum number of data bytes (NN) a telegram half
// may carry.
const MaxDataBytes = 16
