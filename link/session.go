// Package link implements the link-layer session engine: connection
// setup/teardown, stop-and-wait with alternating bit, timer-driven
// retransmission, duplicate detection, REJ-triggered fast retransmit,
// and the public Open/Write/Read/Close surface.
package link

import (
	"time"

	"github.com/rcomlink/rcomlink/hdlc"
	"github.com/rcomlink/rcomlink/internal/xlog"
	"github.com/rcomlink/rcomlink/serial"
)

// transport is the port surface the session engine needs: whole-buffer
// writes, a bounded single-byte read, and a release. *serial.Port
// satisfies it; tests substitute an in-memory loopback.
type transport interface {
	WriteAll(data []byte) error
	ReadByteWait(buf *byte, slice time.Duration) (n int, err error)
	Release() error
}

// Session is the single owner of a serial port and its protocol state
// for the session's entire lifetime. Not safe for concurrent use from
// multiple goroutines.
type Session struct {
	cfg  Config
	port transport
	log  *xlog.Logger

	txNextSeq int
	rxLastSeq *int // nil == ⊥, nothing accepted yet

	Stats Stats
}

// Open acquires the port and runs the SET/UA (transmitter) or SET-wait/UA
// (receiver) handshake.
func Open(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := xlog.New("link").With("device", cfg.Device, "role", cfg.Role.String())

	port, err := serial.Acquire(cfg.Device, cfg.LineSpeed)
	if err != nil {
		werr := wrapErr(ErrPort, "acquire port", err)
		log.Error("open failed", "err", werr)
		return nil, werr
	}

	s := &Session{
		cfg:  cfg,
		port: port,
		log:  log,
	}

	var openErr error
	if cfg.Role == RoleTransmitter {
		openErr = s.openTransmitter()
	} else {
		openErr = s.openReceiver()
	}
	if openErr != nil {
		_ = port.Release()
		s.log.Error("open failed", "err", openErr)
		return nil, openErr
	}
	s.log.Info("session opened")
	return s, nil
}

// newSession builds a Session around an already-acquired transport,
// skipping serial.Acquire and the handshake. Used by tests driving a
// loopback transport through openTransmitter/openReceiver directly.
func newSession(cfg Config, port transport) *Session {
	return &Session{
		cfg:  cfg,
		port: port,
		log:  xlog.New("link").With("device", cfg.Device, "role", cfg.Role.String()),
	}
}

func (s *Session) openTransmitter() error {
	attempts := 0
	for {
		if err := s.sendSupervision(hdlc.AddrT, hdlc.CtrlSET); err != nil {
			return wrapErr(ErrPort, "send SET", err)
		}
		raw, err := hdlc.ReadFrame(s.port, s.cfg.Timeout)
		if err == nil {
			if hdr, ok := hdlc.ParseHeader(raw); ok && hdr.C == hdlc.CtrlUA {
				return nil
			}
		}
		attempts++
		if attempts > s.cfg.MaxRetransmissions {
			return wrapErr(ErrTimeout, "no UA after SET retries", nil)
		}
		s.log.Warn("no UA yet, resending SET", "attempt", attempts)
		s.Stats.Retransmissions++
	}
}

func (s *Session) openReceiver() error {
	for {
		raw, err := hdlc.ReadFrame(s.port, 0)
		if err != nil {
			return wrapErr(ErrPort, "read SET", err)
		}
		hdr, ok := hdlc.ParseHeader(raw)
		if !ok || hdr.A != hdlc.AddrT || hdr.C != hdlc.CtrlSET {
			continue // malformed or unexpected: discard and retry
		}
		if err := s.sendSupervision(hdlc.AddrR, hdlc.CtrlUA); err != nil {
			return wrapErr(ErrPort, "send UA", err)
		}
		return nil
	}
}

// Write frames payload as an I-frame and runs stop-and-wait with
// alternating bit. It returns the number of framed bytes put on the
// wire.
func (s *Session) Write(payload []byte) (int, error) {
	if len(payload) > MaxPayloadSize {
		return 0, wrapErr(ErrConfiguration, "payload exceeds MaxPayloadSize", nil)
	}
	seq := s.txNextSeq
	frame := hdlc.BuildInformation(seq, payload)

	attempts := 0
	for {
		if err := s.port.WriteAll(frame); err != nil {
			werr := wrapErr(ErrPort, "write I-frame", err)
			s.log.Error("write failed", "err", werr)
			return 0, werr
		}
		s.Stats.FramesSent++
		s.log.Debug("sent I-frame", "seq", seq)

		raw, err := hdlc.ReadFrame(s.port, s.cfg.Timeout)
		if err == nil {
			if hdr, ok := hdlc.ParseHeader(raw); ok {
				if k, isRR := hdlc.IsRR(hdr.C); isRR {
					if k == 1-seq {
						s.txNextSeq = 1 - seq
						s.log.Debug("write acked", "seq", seq)
						return len(frame), nil
					}
					// k == seq: duplicate ACK of the previous frame,
					// treat exactly like a timeout below.
				} else if rejSeq, isREJ := hdlc.IsREJ(hdr.C); isREJ && rejSeq == seq {
					s.Stats.REJsReceived++
					s.log.Warn("write got REJ, fast retransmit", "seq", seq)
					attempts++
					if attempts > s.cfg.MaxRetransmissions {
						werr := wrapErr(ErrTimeout, "retransmission budget exhausted", nil)
						s.log.Error("write failed", "err", werr)
						return 0, werr
					}
					s.Stats.Retransmissions++
					continue
				}
			}
		}

		attempts++
		if attempts > s.cfg.MaxRetransmissions {
			werr := wrapErr(ErrTimeout, "retransmission budget exhausted", nil)
			s.log.Error("write failed", "err", werr)
			return 0, werr
		}
		s.log.Warn("write timed out, retransmitting", "seq", seq, "attempt", attempts)
		s.Stats.Retransmissions++
	}
}

// Read waits for the next I-frame and delivers its payload, applying
// duplicate detection and REJ recovery. A return of (0, nil) means
// "re-call me": a duplicate was absorbed. An error wrapping ErrFormat
// means a malformed I-frame was answered with REJ; it is recoverable and
// the caller should read again.
func (s *Session) Read(out []byte) (int, error) {
	raw, err := hdlc.ReadFrame(s.port, 0)
	if err != nil {
		werr := wrapErr(ErrPort, "read I-frame", err)
		s.log.Error("read failed", "err", werr)
		return 0, werr
	}

	info, isInfo, perr := hdlc.ParseInformation(raw)
	if perr != nil {
		seq := 0
		if c, ok := hdlc.RawControl(raw); ok {
			seq = hdlc.SeqOf(c)
		}
		_ = s.sendSupervision(hdlc.AddrR, hdlc.CtrlREJ(seq))
		werr := wrapErr(ErrFormat, "rejected malformed I-frame", perr)
		s.log.Warn("malformed I-frame, sent REJ", "seq", seq, "err", perr)
		return 0, werr
	}
	if !isInfo {
		werr := wrapErr(ErrProtocol, "unexpected control frame", nil)
		s.log.Error("read failed", "err", werr)
		return 0, werr
	}
	s.log.Debug("received I-frame", "seq", info.Seq)

	if s.rxLastSeq != nil && *s.rxLastSeq == info.Seq {
		s.Stats.DuplicatesAbsorbed++
		s.log.Warn("duplicate I-frame absorbed", "seq", info.Seq)
		// Same ack as the original acceptance of this seq: the sender is
		// still waiting to hear it, its own ack must just have been lost.
		if err := s.sendSupervision(hdlc.AddrR, hdlc.CtrlRR(1-info.Seq)); err != nil {
			werr := wrapErr(ErrPort, "re-ack duplicate", err)
			s.log.Error("read failed", "err", werr)
			return 0, werr
		}
		return 0, nil
	}

	if err := s.sendSupervision(hdlc.AddrR, hdlc.CtrlRR(1-info.Seq)); err != nil {
		werr := wrapErr(ErrPort, "ack I-frame", err)
		s.log.Error("read failed", "err", werr)
		return 0, werr
	}
	seq := info.Seq
	s.rxLastSeq = &seq
	n := copy(out, info.Payload)
	return n, nil
}

// Close runs the DISC/DISC/UA teardown and always releases the port,
// even on a Timeout.
func (s *Session) Close(showStatistics bool) error {
	var closeErr error
	if s.cfg.Role == RoleTransmitter {
		closeErr = s.closeTransmitter()
	} else {
		closeErr = s.closeReceiver()
	}

	if showStatistics {
		s.log.Info("session statistics",
			"frames_sent", s.Stats.FramesSent,
			"retransmissions", s.Stats.Retransmissions,
			"rejs_received", s.Stats.REJsReceived,
			"duplicates_absorbed", s.Stats.DuplicatesAbsorbed,
		)
	}

	if err := s.port.Release(); err != nil && closeErr == nil {
		closeErr = wrapErr(ErrPort, "release port", err)
	}
	if closeErr != nil {
		s.log.Error("close failed", "err", closeErr)
	}
	return closeErr
}

func (s *Session) closeTransmitter() error {
	attempts := 0
	for {
		if err := s.sendSupervision(hdlc.AddrT, hdlc.CtrlDISC); err != nil {
			return wrapErr(ErrPort, "send DISC", err)
		}
		raw, err := hdlc.ReadFrame(s.port, s.cfg.Timeout)
		if err == nil {
			if hdr, ok := hdlc.ParseHeader(raw); ok && hdr.A == hdlc.AddrR && hdr.C == hdlc.CtrlDISC {
				break
			}
		}
		attempts++
		if attempts > s.cfg.MaxRetransmissions {
			return wrapErr(ErrTimeout, "no DISC reply", nil)
		}
		s.log.Warn("no DISC reply yet, resending", "attempt", attempts)
		s.Stats.Retransmissions++
	}
	return s.sendSupervision(hdlc.AddrT, hdlc.CtrlUA)
}

func (s *Session) closeReceiver() error {
	for {
		raw, err := hdlc.ReadFrame(s.port, 0)
		if err != nil {
			return wrapErr(ErrPort, "read DISC", err)
		}
		if hdr, ok := hdlc.ParseHeader(raw); ok && hdr.A == hdlc.AddrT && hdr.C == hdlc.CtrlDISC {
			break
		}
	}
	if err := s.sendSupervision(hdlc.AddrR, hdlc.CtrlDISC); err != nil {
		return wrapErr(ErrPort, "send DISC", err)
	}
	for {
		raw, err := hdlc.ReadFrame(s.port, 0)
		if err != nil {
			return wrapErr(ErrPort, "read UA", err)
		}
		if hdr, ok := hdlc.ParseHeader(raw); ok && hdr.A == hdlc.AddrT && hdr.C == hdlc.CtrlUA {
			return nil
		}
	}
}

func (s *Session) sendSupervision(a, c byte) error {
	s.log.Debug("sent supervision frame", "addr", a, "ctrl", c)
	return s.port.WriteAll(hdlc.BuildSupervision(a, c))
}
