// Package hdlc implements the wire format shared by every frame on the
// link: the reserved octets, byte-stuffing codec, supervision/information
// frame layouts, the byte-driven receiver DFA and the frame reader loop
// built on top of it.
package hdlc

// Reserved octets.
const (
	FLAG    byte = 0x7E
	ESCAPE  byte = 0x7D
	escMask byte = 0x20
)

// Address field. One convention, applied consistently on both ends: the
// octet names whoever authored the frame, not whoever it travels toward.
const (
	AddrT byte = 0x03 // A_T: every frame the Transmitter sends (SET, I-frames, DISC, final UA)
	AddrR byte = 0x01 // A_R: every frame the Receiver sends (UA, RR, REJ, DISC reply)
)

// Control field constants.
const (
	CtrlSET  byte = 0x03
	CtrlUA   byte = 0x07
	CtrlDISC byte = 0x0B
	CtrlINF0 byte = 0x00
	CtrlINF1 byte = 0x40
	CtrlRR0  byte = 0x05
	CtrlRR1  byte = 0x85
	CtrlREJ0 byte = 0x01
	CtrlREJ1 byte = 0x81
)

// seqBit is bit 6 of an I-frame control byte.
const seqBit = 0x40

// CtrlINF returns the I-frame control byte for the given sequence bit.
func CtrlINF(seq int) byte {
	if seq != 0 {
		return CtrlINF1
	}
	return CtrlINF0
}

// CtrlRR returns the RR control byte acking next-expected seq k.
func CtrlRR(k int) byte {
	if k != 0 {
		return CtrlRR1
	}
	return CtrlRR0
}

// CtrlREJ returns the REJ control byte rejecting seq s.
func CtrlREJ(s int) byte {
	if s != 0 {
		return CtrlREJ1
	}
	return CtrlREJ0
}

// SeqOf extracts the sequence bit from an I-frame control byte.
func SeqOf(c byte) int {
	if c&seqBit != 0 {
		return 1
	}
	return 0
}

// IsINF reports whether c is an I-frame control byte.
func IsINF(c byte) bool {
	return c == CtrlINF0 || c == CtrlINF1
}

// IsRR reports whether c is an RR control byte and, if so, its seq.
func IsRR(c byte) (seq int, ok bool) {
	switch c {
	case CtrlRR0:
		return 0, true
	case CtrlRR1:
		return 1, true
	}
	return 0, false
}

// IsREJ reports whether c is a REJ control byte and, if so, its seq.
func IsREJ(c byte) (seq int, ok bool) {
	switch c {
	case CtrlREJ0:
		return 0, true
	case CtrlREJ1:
		return 1, true
	}
	return 0, false
}
