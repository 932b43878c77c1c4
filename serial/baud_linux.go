package serial

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// BaudRate is the implementation-specific line-speed identifier named by
// the session configuration's line_speed field.
type BaudRate uint32

// Standard rates, sourced from golang.org/x/sys/unix's B* table rather
// than hand-enumerated so the set tracks whatever the target kernel
// headers define.
const (
	Baud1200   = BaudRate(unix.B1200)
	Baud2400   = BaudRate(unix.B2400)
	Baud4800   = BaudRate(unix.B4800)
	Baud9600   = BaudRate(unix.B9600)
	Baud19200  = BaudRate(unix.B19200)
	Baud38400  = BaudRate(unix.B38400)
	Baud57600  = BaudRate(unix.B57600)
	Baud115200 = BaudRate(unix.B115200)
	Baud230400 = BaudRate(unix.B230400)
)

func (b BaudRate) cflag() CFlag {
	return CFlag(b)
}

var baudByName = map[string]BaudRate{
	"1200":   Baud1200,
	"2400":   Baud2400,
	"4800":   Baud4800,
	"9600":   Baud9600,
	"19200":  Baud19200,
	"38400":  Baud38400,
	"57600":  Baud57600,
	"115200": Baud115200,
	"230400": Baud230400,
}

// ParseBaud maps a decimal line-rate string (e.g. "9600") to a BaudRate.
func ParseBaud(s string) (BaudRate, error) {
	b, ok := baudByName[s]
	if !ok {
		return 0, fmt.Errorf("serial: unsupported baud rate %q", s)
	}
	return b, nil
}
