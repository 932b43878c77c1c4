package hdlc

import (
	"errors"
	"time"
)

// ErrTimeout is returned by ReadFrame when timeout elapses with no
// complete frame captured.
var ErrTimeout = errors.New("hdlc: timeout waiting for frame")

// Port is the minimal serial-port surface ReadFrame needs: a byte read
// that blocks at most slice before reporting "nothing yet".
type Port interface {
	ReadByteWait(buf *byte, slice time.Duration) (n int, err error)
}

// pollSlice bounds how long a single ReadByteWait call blocks, so the
// overall deadline can be checked frequently without busy-spinning.
const pollSlice = 20 * time.Millisecond

// ReadFrame polls port one byte at a time, feeding a fresh DFA, until a
// complete candidate frame is captured (DFA reaches STOP) or timeout
// elapses. timeout == 0 means wait forever. The returned buffer includes
// both framing FLAGs, unstuffed header included, stuffed payload as-is —
// exactly the bytes that arrived on the wire.
func ReadFrame(port Port, timeout time.Duration) ([]byte, error) {
	var deadline time.Time
	hasDeadline := timeout > 0
	if hasDeadline {
		deadline = time.Now().Add(timeout)
	}

	dfa := NewDFA()
	buf := make([]byte, 0, 16)
	var b byte

	for {
		if hasDeadline && !time.Now().Before(deadline) {
			return nil, ErrTimeout
		}

		slice := pollSlice
		if hasDeadline {
			if remaining := time.Until(deadline); remaining < slice {
				slice = remaining
			}
			if slice <= 0 {
				return nil, ErrTimeout
			}
		}

		n, err := port.ReadByteWait(&b, slice)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}

		next := dfa.Step(b)

		switch next {
		case StateStart:
			// resynchronising: drop whatever we had been capturing
			buf = buf[:0]
		case StateFlagOK:
			// this FLAG opens (or re-opens) a candidate frame
			buf = buf[:0]
			buf = append(buf, b)
		default:
			buf = append(buf, b)
		}

		if next == StateStop {
			return buf, nil
		}
	}
}
