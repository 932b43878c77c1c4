package rcom

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rcomlink/rcomlink/link"
)

// dataPacketOverhead is the fixed header size of a DATA packet
// (control + seq + size-hi + size-lo), subtracted from MaxPayloadSize
// to size each chunk read from the source file.
const dataPacketOverhead = 4

// SendFile chunks filename into a START packet, one or more DATA
// packets, and an END packet, writing each through session. The link
// layer never sees more than session's own MaxPayloadSize per call; the
// length handed to Write is always the number of bytes actually
// populated in the buffer, not the file's total size — an earlier
// upper-layer size-field bug that confused "bytes in this chunk" with
// "bytes in the whole file" is not repeated here.
func SendFile(session *link.Session, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("rcom: open %s: %w", filename, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("rcom: stat %s: %w", filename, err)
	}
	fileSize := uint64(info.Size())

	start, err := EncodeControlPacket(ctrlStart, fileSize, filename)
	if err != nil {
		return err
	}
	if _, err := session.Write(start); err != nil {
		return fmt.Errorf("rcom: send START: %w", err)
	}

	chunk := make([]byte, link.MaxPayloadSize-dataPacketOverhead)
	var seq byte
	for {
		n, rerr := f.Read(chunk)
		if n > 0 {
			pkt, perr := EncodeDataPacket(seq, chunk[:n])
			if perr != nil {
				return perr
			}
			if _, werr := session.Write(pkt); werr != nil {
				return fmt.Errorf("rcom: send DATA seq=%d: %w", seq, werr)
			}
			seq++
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("rcom: read %s: %w", filename, rerr)
		}
	}

	end, err := EncodeControlPacket(ctrlEnd, fileSize, filename)
	if err != nil {
		return err
	}
	if _, err := session.Write(end); err != nil {
		return fmt.Errorf("rcom: send END: %w", err)
	}
	return nil
}

// ReceiveFile reads a START packet, then DATA packets until an END
// packet arrives, writing payloads to outFilename in order.
func ReceiveFile(session *link.Session, outFilename string) error {
	buf := make([]byte, link.MaxPayloadSize)

	start, err := readPacket(session, buf)
	if err != nil {
		return fmt.Errorf("rcom: receive START: %w", err)
	}
	if _, err := DecodeControlPacket(ctrlStart, start); err != nil {
		return fmt.Errorf("rcom: decode START: %w", err)
	}

	out, err := os.Create(outFilename)
	if err != nil {
		return fmt.Errorf("rcom: create %s: %w", outFilename, err)
	}
	defer out.Close()

	for {
		pkt, err := readPacket(session, buf)
		if err != nil {
			return fmt.Errorf("rcom: receive packet: %w", err)
		}
		if len(pkt) == 0 {
			continue
		}
		if pkt[0] == ctrlEnd {
			if _, err := DecodeControlPacket(ctrlEnd, pkt); err != nil {
				return fmt.Errorf("rcom: decode END: %w", err)
			}
			return nil
		}
		_, data, err := DecodeDataPacket(pkt)
		if err != nil {
			return fmt.Errorf("rcom: decode DATA: %w", err)
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("rcom: write %s: %w", outFilename, err)
		}
	}
}

// readPacket retries Session.Read until it yields a non-empty payload.
// A 0-length, nil-error result means a duplicate was absorbed; a
// FormatError means the link layer already rejected a corrupted frame
// and expects the caller to read again — both are recoverable here. Any
// other error is fatal to the transfer.
func readPacket(session *link.Session, buf []byte) ([]byte, error) {
	for {
		n, err := session.Read(buf)
		if err != nil {
			if errors.Is(err, link.ErrFormat) {
				continue
			}
			return nil, err
		}
		if n > 0 {
			out := make([]byte, n)
			copy(out, buf[:n])
			return out, nil
		}
	}
}
