package ebus

// masterNibbles holds the five nibble values eBUS reserves for master
// addresses; a byte is a master address iff both its nibbles come from
// this set, giving exactly 5*5 = 25 master addresses.
var masterNibbles = [16]bool{0x0: true, 0x1: true, 0x3: true, 0x7: true, 0xF: true}

// IsMaster reports whether b is a valid eBUS master address: both its
// low and high nibble must be one of {0, 1, 3, 7, F}.
func IsMaster(b byte) bool {
	return masterNibbles[b&0x0F] && masterNibbles[(b>>4)&0x0F]
}

// IsSlave reports whether b is a valid eBUS slave address: any byte
// that is neither a master address nor a reserved control byte
// (SYN/EXT). Broadcast is neither master nor slave.
func IsSlave(b byte) bool {
	if IsMaster(b) {
		return false
	}
	return b != SYN && b != EXT && b != Broadcast
}

// IsTarget reports whether b may appear as a telegram's ZZ
// (destination) byte: a master, a slave, or the broadcast address.
func IsTarget(b byte) bool {
	return IsMaster(b) || IsSlave(b) || b == Broadcast
}

// slaveOffset is added to a master address to obtain its slave
// address, and subtracted to invert the mapping. Verified (see
// ebus/classify_test.go) to never map one of the 25 master addresses
// onto another.
const slaveOffset = 5

// SlaveOf returns the slave address that answers on behalf of master
// address b. Outside the master address space it is the identity.
func SlaveOf(b byte) byte {
	if !IsMaster(b) {
		return b
	}
	return b + slaveOffset
}

// MasterOf returns the master address that owns slave address b.
// Outside the slave address space it is the identity.
func MasterOf(b byte) byte {
	if !IsSlave(b) {
		return b
	}
	return b - slaveOffset
}
