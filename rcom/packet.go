// Package rcom is the application-level file-transfer driver that sits
// on top of the link layer. It is a thin collaborator: it chunks a file
// into control and data packets, calls link.Session.Write/Read, and
// reassembles on the other side. It never inspects link-layer internals
// and its contract is exactly "hand me a byte buffer <= MaxPayloadSize;
// the peer receives exactly those bytes in order, or the session fails."
package rcom

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Control octets.
const (
	ctrlStart byte = 2
	ctrlData  byte = 1
	ctrlEnd   byte = 3
)

// Field types used inside START/END control packets.
const (
	fieldFileSize byte = 0x00
	fieldFileName byte = 0x01
)

var (
	// ErrShortPacket reports a packet too small to hold its declared
	// fields — this driver's equivalent of a malformed-frame condition,
	// one layer up from the link-layer FormatError.
	ErrShortPacket = errors.New("rcom: short packet")
	// ErrUnexpectedControl reports a control octet that did not match
	// what the caller expected to see next.
	ErrUnexpectedControl = errors.New("rcom: unexpected control octet")
)

// ControlPacket is the decoded content of a START or END packet.
type ControlPacket struct {
	Control  byte
	FileSize uint64
	FileName string
}

// EncodeControlPacket builds a START or END packet: control octet
// followed by a file-size TLV field and a file-name TLV field. Giving
// every field an explicit type and length octet avoids the fixed-layout
// ambiguity a raw struct dump would have.
func EncodeControlPacket(control byte, fileSize uint64, fileName string) ([]byte, error) {
	if len(fileName) > 255 {
		return nil, fmt.Errorf("rcom: file name too long: %d bytes", len(fileName))
	}
	buf := make([]byte, 0, 1+2+8+2+len(fileName))
	buf = append(buf, control)

	buf = append(buf, fieldFileSize, 8)
	var sizeField [8]byte
	binary.BigEndian.PutUint64(sizeField[:], fileSize)
	buf = append(buf, sizeField[:]...)

	buf = append(buf, fieldFileName, byte(len(fileName)))
	buf = append(buf, fileName...)
	return buf, nil
}

// DecodeControlPacket parses a START or END packet built by
// EncodeControlPacket and verifies its control octet matches want.
func DecodeControlPacket(want byte, buf []byte) (ControlPacket, error) {
	if len(buf) < 1 {
		return ControlPacket{}, ErrShortPacket
	}
	if buf[0] != want {
		return ControlPacket{}, ErrUnexpectedControl
	}
	out := ControlPacket{Control: buf[0]}
	offset := 1
	for offset < len(buf) {
		if offset+2 > len(buf) {
			return ControlPacket{}, ErrShortPacket
		}
		typ := buf[offset]
		length := int(buf[offset+1])
		offset += 2
		if offset+length > len(buf) {
			return ControlPacket{}, ErrShortPacket
		}
		value := buf[offset : offset+length]
		offset += length

		switch typ {
		case fieldFileSize:
			if length != 8 {
				return ControlPacket{}, fmt.Errorf("rcom: bad file size field length %d", length)
			}
			out.FileSize = binary.BigEndian.Uint64(value)
		case fieldFileName:
			out.FileName = string(value)
		}
	}
	return out, nil
}

// EncodeDataPacket builds a DATA packet: control octet, a monotonic
// sequence octet (wrapping mod 256; SendFile increments it per packet,
// and ReceiveFile does not check it), a 16-bit big-endian length, then
// the raw bytes.
func EncodeDataPacket(seq byte, data []byte) ([]byte, error) {
	if len(data) > 0xFFFF {
		return nil, fmt.Errorf("rcom: data packet too large: %d bytes", len(data))
	}
	buf := make([]byte, 0, 4+len(data))
	buf = append(buf, ctrlData, seq, byte(len(data)>>8), byte(len(data)))
	buf = append(buf, data...)
	return buf, nil
}

// DecodeDataPacket parses a DATA packet built by EncodeDataPacket.
func DecodeDataPacket(buf []byte) (seq byte, data []byte, err error) {
	if len(buf) < 4 {
		return 0, nil, ErrShortPacket
	}
	if buf[0] != ctrlData {
		return 0, nil, ErrUnexpectedControl
	}
	seq = buf[1]
	length := int(buf[2])<<8 | int(buf[3])
	if len(buf) < 4+length {
		return 0, nil, ErrShortPacket
	}
	return seq, buf[4 : 4+length], nil
}
