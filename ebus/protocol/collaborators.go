package protocol

import "github.com/nerrad567/ebus-core/ebus"

// Telegram re-exports ebus.Telegram so collaborators depending only on
// protocol do not also need to import ebus directly.
type Telegram = ebus.Telegram

// BusWriter is the collaborator contract for placing bytes on the
// medium. WriteByte must be non-blocking and must arrange for b to
// reappear through a subsequent Handler.Run call before any further
// byte is written — the bus is a single wire, so a transmitted byte
// always loops back through the receive path.
type BusWriter interface {
	WriteByte(b byte) error
}

// ReactiveMasterSlaveFunc answers a telegram addressed to this
// node's own slave address. It returns the response data bytes
// (DB1..DBn, no NN and no CRC) and true, or ok=false to refuse the
// request.
type ReactiveMasterSlaveFunc func(master *Telegram) (response []byte, ok bool)

// TelegramCallback is invoked once per successfully completed
// exchange, passing the master half and, for master-slave exchanges,
// the slave half.
type TelegramCallback func(source MessageType, master, slave *Telegram)

// ErrorCallback is invoked for every framing/acknowledgement failure
// and reset condition, identified by one of the Tag* constants in
// errors.go, along with whatever master/slave buffers were in
// progress.
type ErrorCallback func(tag string, master, slave *Telegram)
