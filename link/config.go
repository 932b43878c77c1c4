package link

import (
	"time"

	"github.com/rcomlink/rcomlink/serial"
)

// Role is which end of the session this instance plays.
type Role int

const (
	RoleTransmitter Role = iota
	RoleReceiver
)

func (r Role) String() string {
	if r == RoleReceiver {
		return "receiver"
	}
	return "transmitter"
}

// MaxPayloadSize bounds every Write/Read payload.
const MaxPayloadSize = 1024

// Config is the immutable session configuration.
type Config struct {
	Role               Role
	Device             string
	LineSpeed          serial.BaudRate
	Timeout            time.Duration // per-retransmission wait, whole seconds, >= 1s
	MaxRetransmissions int           // >= 0
}

// Validate reports a ConfigurationError for any field that must be
// checked before Open proceeds.
func (c Config) Validate() error {
	if c.Role != RoleTransmitter && c.Role != RoleReceiver {
		return wrapErr(ErrConfiguration, "invalid role", nil)
	}
	if c.Device == "" {
		return wrapErr(ErrConfiguration, "empty device", nil)
	}
	if c.Timeout < time.Second {
		return wrapErr(ErrConfiguration, "timeout must be >= 1s", nil)
	}
	if c.MaxRetransmissions < 0 {
		return wrapErr(ErrConfiguration, "max_retransmissions must be >= 0", nil)
	}
	return nil
}
