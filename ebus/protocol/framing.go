package protocol

import "github.com/nerrad567/ebus-core/ebus"

// countLogical walks an extended-form byte buffer and counts complete
// logical bytes, treating an EXT byte and its follower as one logical
// byte. It reports pending=true if the buffer ends on an unmatched
// EXT byte (the escape pair is not yet complete).
func countLogical(buf []byte) (count int, pending bool) {
	i := 0
	for i < len(buf) {
		if buf[i] == ebus.EXT {
			if i+1 >= len(buf) {
				return count, true
			}
			i += 2
		} else {
			i++
		}
		count++
	}
	return count, false
}

// frameTarget decodes the NN byte at nnOffset, once enough logical
// bytes have arrived to read it, and reports the total logical length
// (header + NN data bytes + 1 CRC byte) the frame will have once
// complete.
func frameTarget(buf []byte, headerLen, nnOffset int) (target int, known bool) {
	count, pending := countLogical(buf)
	if pending || count < headerLen {
		return 0, false
	}
	reduced := ebus.SequenceFrom(buf, true)
	reduced.Reduce()
	if reduced.Len() <= nnOffset {
		return 0, false
	}
	return headerLen + int(reduced.At(nnOffset)) + 1, true
}

// frameComplete reports whether buf holds a full half (header, data
// bytes and trailing CRC byte) in its current extended form.
func frameComplete(buf []byte, headerLen, nnOffset int) bool {
	count, pending := countLogical(buf)
	if pending {
		return false
	}
	target, known := frameTarget(buf, headerLen, nnOffset)
	if !known {
		return false
	}
	return count >= target
}
