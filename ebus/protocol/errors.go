package protocol

// Error tags passed to the error callback and mirrored by counter
// names. These identify a condition, not a Go error value: framing
// and acknowledgement failures are recovered locally by the FSM and
// never propagate as a returned error.
const (
	TagErrorPassiveMaster    = "errorPassiveMaster"
	TagErrorPassiveSlave     = "errorPassiveSlave"
	TagErrorReactiveMaster   = "errorReactiveMaster"
	TagErrorReactiveSlave    = "errorReactiveSlave"
	TagErrorActiveMaster     = "errorActiveMaster"
	TagErrorActiveSlave      = "errorActiveSlave"

	TagErrorPassiveMasterACK  = "errorPassiveMasterACK"
	TagErrorPassiveSlaveACK   = "errorPassiveSlaveACK"
	TagErrorReactiveMasterACK = "errorReactiveMasterACK"
	TagErrorReactiveSlaveACK  = "errorReactiveSlaveACK"
	TagErrorActiveMasterACK   = "errorActiveMasterACK"
	TagErrorActiveSlaveACK    = "errorActiveSlaveACK"

	TagCheckPassiveBuffers = "checkPassiveBuffers"
	TagCheckActiveBuffers  = "checkActiveBuffers"
	TagResetPassive00      = "resetPassive00"
	TagResetPassive0704    = "resetPassive0704"
)
