package serial

import "errors"

// Error wraps an underlying cause with the kind of failure it represents,
// the same kind-plus-cause idiom link/errors.go uses one layer up for the
// session engine.
type Error struct {
	kind error
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap exposes both the kind sentinel and the underlying cause to
// errors.Is/errors.As.
func (e *Error) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

func wrapErr(kind error, msg string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{kind: kind, msg: msg, err: cause}
}

// Error kinds. ErrIO covers failures talking to the device file itself
// (open/read/write); ErrConfig covers ioctl/termios get-set failures.
var (
	ErrIO     = errors.New("serial: io error")
	ErrConfig = errors.New("serial: config error")
	ErrClosed = errors.New("serial: port already closed")
)
