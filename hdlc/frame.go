package hdlc

// BCC2 is the XOR reduction of the unstuffed payload octets.
func BCC2(payload []byte) byte {
	var bcc byte
	for _, b := range payload {
		bcc ^= b
	}
	return bcc
}

// BuildSupervision builds a 5-octet Supervision/Unnumbered frame:
// FLAG | A | C | A^C | FLAG.
func BuildSupervision(a, c byte) []byte {
	return []byte{FLAG, a, c, a ^ c, FLAG}
}

// BuildInformation builds an I-frame carrying payload at the given
// sequence bit: FLAG | A_T | C | A_T^C | stuffed(payload||BCC2) | FLAG.
func BuildInformation(seq int, payload []byte) []byte {
	c := CtrlINF(seq)
	bcc2 := BCC2(payload)
	body := make([]byte, 0, len(payload)+1)
	body = append(body, payload...)
	body = append(body, bcc2)
	stuffed := Stuff(body)

	frame := make([]byte, 0, 5+len(stuffed))
	frame = append(frame, FLAG, AddrT, c, AddrT^c)
	frame = append(frame, stuffed...)
	frame = append(frame, FLAG)
	return frame
}

// Header is the decoded address/control pair of any accepted frame.
type Header struct {
	A byte
	C byte
}

// HeaderOK reports whether the BCC1 header check holds: A XOR C == bcc1.
func HeaderOK(a, c, bcc1 byte) bool {
	return a^c == bcc1
}

// ParseHeader extracts and validates the fixed four-octet header shared
// by every frame kind. raw must include the opening FLAG but the header
// is never stuffed, so raw[1:4] are read verbatim.
func ParseHeader(raw []byte) (Header, bool) {
	if len(raw) < 4 || raw[0] != FLAG {
		return Header{}, false
	}
	a, c, bcc1 := raw[1], raw[2], raw[3]
	if !HeaderOK(a, c, bcc1) {
		return Header{}, false
	}
	return Header{A: a, C: c}, true
}

// InfoFrame is a decoded, validated I-frame.
type InfoFrame struct {
	Seq     int
	Payload []byte
}

// RawControl returns the control octet of a candidate frame without
// validating anything, so a caller can still name the right REJ/seq to
// send back even when the header or payload check below fails. It
// returns ok=false only if raw is too short to contain a control octet.
func RawControl(raw []byte) (c byte, ok bool) {
	if len(raw) < 3 {
		return 0, false
	}
	return raw[2], true
}

// ParseInformation validates header and payload checks on a candidate
// I-frame (raw includes both framing FLAGs) and, on success, returns the
// decoded sequence bit and unstuffed payload. The three failure modes are
// distinguished so the caller can react appropriately: a structurally
// malformed frame (not a long enough buffer, wrong closing FLAG, not an
// I-frame) is reported as not-an-I-frame; a header check failure and a
// payload check failure are reported as distinct errors so the caller
// still knows which REJ to send.
func ParseInformation(raw []byte) (frame InfoFrame, isInfo bool, err error) {
	if len(raw) < 6 || raw[0] != FLAG || raw[len(raw)-1] != FLAG {
		return InfoFrame{}, false, nil
	}
	a, c, bcc1 := raw[1], raw[2], raw[3]
	if !IsINF(c) {
		return InfoFrame{}, false, nil
	}
	if !HeaderOK(a, c, bcc1) {
		return InfoFrame{}, true, ErrHeaderCheck
	}

	stuffedBody := raw[4 : len(raw)-1]
	body, derr := Destuff(stuffedBody)
	if derr != nil {
		return InfoFrame{}, true, ErrPayloadCheck
	}
	if len(body) < 1 {
		return InfoFrame{}, true, ErrPayloadCheck
	}
	payload := body[:len(body)-1]
	trailer := body[len(body)-1]
	if BCC2(payload) != trailer {
		return InfoFrame{}, true, ErrPayloadCheck
	}
	return InfoFrame{Seq: SeqOf(c), Payload: payload}, true, nil
}
