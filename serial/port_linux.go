package serial

import (
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"github.com/daedaluz/fdev/poll"
	ioctl "github.com/daedaluz/goioctl"
)

// Port is the scoped acquisition of a serial endpoint: single owner,
// blocking single-byte reads, whole-buffer writes, guaranteed release.
type Port struct {
	fd     int
	saved  Termios
	closed atomic.Bool
}

// Acquire opens device for read+write, saves the current line discipline,
// installs a raw 8-bit no-parity 1-stop-bit configuration at the given
// line speed with VMIN=0, VTIME=0 (poll-style, non-blocking with respect
// to signals), and flushes pending input and output.
func Acquire(device string, speed BaudRate) (*Port, error) {
	fd, err := syscall.Open(device, syscall.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, wrapErr(ErrIO, "open "+device, err)
	}
	p := &Port{fd: fd}

	if err := p.getAttr(&p.saved); err != nil {
		syscall.Close(fd)
		return nil, wrapErr(ErrConfig, "tcgetattr", err)
	}

	cfg := p.saved
	cfg.MakeRaw()
	cfg.SetSpeed(speed.cflag())
	cfg.Iflag |= IGNPAR

	if err := ioctl.Ioctl(uintptr(fd), tcflsh, uintptr(TCIOFLUSH)); err != nil {
		syscall.Close(fd)
		return nil, wrapErr(ErrConfig, "tcflush", err)
	}
	if err := p.setAttr(TCSANOW, &cfg); err != nil {
		syscall.Close(fd)
		return nil, wrapErr(ErrConfig, "tcsetattr", err)
	}
	return p, nil
}

// ReadByte reads at most one byte from the port without blocking beyond
// what VMIN=0, VTIME=0 already guarantees. n is 0 when nothing was
// pending, 1 when a byte was delivered into buf[0].
func (p *Port) ReadByte(buf *byte) (n int, err error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	n, err = syscall.Read(p.fd, (*[1]byte)(unsafe.Pointer(buf))[:])
	if err != nil {
		return 0, wrapErr(ErrIO, "read", err)
	}
	return n, nil
}

// ReadByteWait blocks, via the OS poll mechanism, until at least one byte
// is ready or slice elapses, then performs the same non-blocking read as
// ReadByte. A slice that expires with nothing pending is reported as
// n==0, err==nil — "nothing available this slice" — not as a PortError;
// callers poll it in a loop with a short slice so their own overall
// deadline (hdlc.ReadFrame's timeout) is checked promptly without
// busy-spinning on ReadByte alone.
func (p *Port) ReadByteWait(buf *byte, slice time.Duration) (n int, err error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	if werr := poll.WaitInput(p.fd, slice); werr != nil {
		// WaitInput's only failure mode on a live fd is its slice
		// elapsing; treat it as "try again", letting the caller's own
		// deadline tracking decide when the overall wait is exhausted.
		return 0, nil
	}
	return p.ReadByte(buf)
}

// WriteAll transmits the entire buffer or fails; partial writes are
// treated as an error.
func (p *Port) WriteAll(data []byte) error {
	if p.closed.Load() {
		return ErrClosed
	}
	n, err := syscall.Write(p.fd, data)
	if err != nil {
		return wrapErr(ErrIO, "write", err)
	}
	if n != len(data) {
		return wrapErr(ErrIO, "partial write", syscall.EIO)
	}
	return nil
}

// Release restores the saved line discipline and closes the handle. Safe
// to call more than once; only the first call does work.
func (p *Port) Release() error {
	if p.closed.Swap(true) {
		return nil
	}
	setErr := p.setAttr(TCSANOW, &p.saved)
	closeErr := syscall.Close(p.fd)
	if setErr != nil {
		return wrapErr(ErrConfig, "tcsetattr restore", setErr)
	}
	if closeErr != nil {
		return wrapErr(ErrIO, "close", closeErr)
	}
	return nil
}

func (p *Port) getAttr(t *Termios) error {
	return ioctl.Ioctl(uintptr(p.fd), tcgets, uintptr(unsafe.Pointer(t)))
}

func (p *Port) setAttr(when Action, t *Termios) error {
	return ioctl.Ioctl(uintptr(p.fd), tcsets+uintptr(when), uintptr(unsafe.Pointer(t)))
}
