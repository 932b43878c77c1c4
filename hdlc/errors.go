package hdlc

import "errors"

// Format-error sentinels. Both are recovered locally by the receiver
// (reply REJ, retry) and treated as a transmit-side timeout by the
// transmitter.
var (
	ErrHeaderCheck  = errors.New("hdlc: header check failed")
	ErrPayloadCheck = errors.New("hdlc: payload check failed")
)
