package ebus

// Sequence is an ordered byte sequence carrying a mode flag that
// records whether SYN/EXT values inside it are currently represented
// in their raw ("reduced") form or as two-byte escape pairs
// ("extended"). CRC is always computed over the extended form.
type Sequence struct {
	bytes    []byte
	extended bool
}

// NewSequence returns an empty Sequence in reduced mode.
func NewSequence() Sequence {
	return Sequence{}
}

// SequenceFrom returns a Sequence containing a copy of b, tagged with
// the given mode.
func SequenceFrom(b []byte, extended bool) Sequence {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Sequence{bytes: cp, extended: extended}
}

// Len returns the number of bytes currently held.
func (s *Sequence) Len() int {
	return len(s.bytes)
}

// Extended reports the sequence's current mode flag.
func (s *Sequence) Extended() bool {
	return s.extended
}

// Bytes returns the sequence's bytes in their current mode. The
// returned slice must not be mutated by the caller.
func (s *Sequence) Bytes() []byte {
	return s.bytes
}

// At returns the byte at index i.
func (s *Sequence) At(i int) byte {
	return s.bytes[i]
}

// Push appends one byte and stamps the sequence's mode flag.
func (s *Sequence) Push(b byte, extended bool) {
	s.bytes = append(s.bytes, b)
	s.extended = extended
}

// Clear empties the sequence and resets it to reduced mode.
func (s *Sequence) Clear() {
	s.bytes = nil
	s.extended = false
}

// Range returns a new Sequence holding a slice of s, preserving the
// mode flag. len == 0 means "to the end".
func (s *Sequence) Range(index, length int) (Sequence, error) {
	if length == 0 {
		length = len(s.bytes) - index
	}
	if index < 0 || length < 0 || index+length > len(s.bytes) {
		return Sequence{}, ErrIndexOutOfRange
	}
	out := make([]byte, length)
	copy(out, s.bytes[index:index+length])
	return Sequence{bytes: out, extended: s.extended}, nil
}

// Extend rewrites SYN -> EXT,0x01 and EXT -> EXT,0x00 in place. It is
// idempotent: calling Extend on an already-extended sequence is a
// no-op.
func (s *Sequence) Extend() {
	if s.extended {
		return
	}

	out := make([]byte, 0, len(s.bytes))
	for _, b := range s.bytes {
		switch b {
		case SYN:
			out = append(out, EXT, synExt)
		case EXT:
			out = append(out, EXT, extExt)
		default:
			out = append(out, b)
		}
	}
	s.bytes = out
	s.extended = true
}

// Reduce inverts Extend in place. It is idempotent: calling Reduce on
// an already-reduced sequence is a no-op.
//
// A stray EXT (or, defensively, a stray SYN) not followed by 0x00/0x01
// is reduced to a literal EXT byte rather than rejected, matching how
// deployed eBUS nodes handle the malformed escape. Structural errors
// are left to telegram validation.
func (s *Sequence) Reduce() {
	if !s.extended {
		return
	}

	out := make([]byte, 0, len(s.bytes))
	pendingEscape := false
	for _, b := range s.bytes {
		switch {
		case b == SYN || b == EXT:
			pendingEscape = true
		case pendingEscape:
			if b == synExt {
				out = append(out, SYN)
			} else {
				out = append(out, EXT)
			}
			pendingEscape = false
		default:
			out = append(out, b)
		}
	}
	s.bytes = out
	s.extended = false
}

// CRC computes the CRC-8 of the sequence's extended form, leaving the
// sequence's mode exactly as it was found.
func (s *Sequence) CRC() byte {
	wasExtended := s.extended
	if !wasExtended {
		s.Extend()
	}

	var acc byte
	for _, b := range s.bytes {
		acc = CRCStep(b, acc)
	}

	if !wasExtended {
		s.Reduce()
	}
	return acc
}
