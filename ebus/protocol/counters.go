package protocol

// Counters tallies the events named in errors.go plus message
// deliveries, one uint64 each. Totals are derived on read rather than
// maintained separately. Counters carries no lock of its own: Handler
// guards every access through its own mutex, since Handler already
// needs to serialise counter increments against concurrent
// GetCounter/ResetCounter reads from a reporting goroutine.
type Counters struct {
	MessagesPassiveMasterMaster  uint64
	MessagesPassiveMasterSlave   uint64
	MessagesPassiveBroadcast     uint64
	MessagesReactiveMasterMaster uint64
	MessagesReactiveMasterSlave  uint64
	MessagesActiveMasterMaster   uint64
	MessagesActiveMasterSlave    uint64
	MessagesActiveBroadcast      uint64

	ErrorPassiveMaster  uint64
	ErrorPassiveSlave   uint64
	ErrorReactiveMaster uint64
	ErrorReactiveSlave  uint64
	ErrorActiveMaster   uint64
	ErrorActiveSlave    uint64

	ErrorPassiveMasterACK  uint64
	ErrorPassiveSlaveACK   uint64
	ErrorReactiveMasterACK uint64
	ErrorReactiveSlaveACK  uint64
	ErrorActiveMasterACK   uint64
	ErrorActiveSlaveACK    uint64

	ResetPassive     uint64
	ResetActive      uint64
	ResetPassive00   uint64
	ResetPassive0704 uint64

	RequestsSent uint64
}

// MessagesTotal sums every message-delivery counter.
func (c *Counters) MessagesTotal() uint64 {
	return c.MessagesPassiveMasterMaster + c.MessagesPassiveMasterSlave + c.MessagesPassiveBroadcast +
		c.MessagesReactiveMasterMaster + c.MessagesReactiveMasterSlave +
		c.MessagesActiveMasterMaster + c.MessagesActiveMasterSlave + c.MessagesActiveBroadcast
}

// ErrorsTotal sums every error/ACK-error counter.
func (c *Counters) ErrorsTotal() uint64 {
	return c.ErrorPassiveMaster + c.ErrorPassiveSlave + c.ErrorReactiveMaster + c.ErrorReactiveSlave +
		c.ErrorActiveMaster + c.ErrorActiveSlave +
		c.ErrorPassiveMasterACK + c.ErrorPassiveSlaveACK + c.ErrorReactiveMasterACK +
		c.ErrorReactiveSlaveACK + c.ErrorActiveMasterACK + c.ErrorActiveSlaveACK
}
