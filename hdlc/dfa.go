package hdlc

// State is a value of the byte-driven receiver DFA. It recognises frame
// boundaries and header classes; it does not itself validate BCC1/BCC2.
type State int

const (
	StateStart State = iota
	StateFlagOK
	StateAddrTX // A_TX: A_R seen, expecting a receiver-authored reply
	StateAddrRX // A_RCV: A_T seen, expecting a transmitter-authored frame
	StateReceive
	StateStop
)

// rxClass and txClass are the control bytes legal after A_T and A_R
// respectively, per the receiver's transition table. UA appears in both:
// it is the reply to SET (authored by the Receiver, A_R) and also the
// final frame of an orderly close (authored by the Transmitter, A_T).
var rxClass = map[byte]bool{
	CtrlSET: true, CtrlDISC: true, CtrlUA: true, CtrlINF0: true, CtrlINF1: true,
}

var txClass = map[byte]bool{
	CtrlUA: true, CtrlRR0: true, CtrlRR1: true,
	CtrlREJ0: true, CtrlREJ1: true, CtrlDISC: true,
}

// DFA drives one byte at a time to a reader loop that wants to know when
// a complete candidate frame has arrived.
type DFA struct {
	state State
}

// NewDFA returns a DFA in its initial START state.
func NewDFA() *DFA {
	return &DFA{state: StateStart}
}

// State returns the current state.
func (d *DFA) State() State {
	return d.state
}

// Reset returns the DFA to START, for starting a fresh frame capture.
func (d *DFA) Reset() {
	d.state = StateStart
}

// Step feeds one octet to the automaton and returns the new state.
func (d *DFA) Step(b byte) State {
	switch d.state {
	case StateStart:
		if b == FLAG {
			d.state = StateFlagOK
		}
	case StateFlagOK:
		switch {
		case b == AddrR:
			d.state = StateAddrTX
		case b == AddrT:
			d.state = StateAddrRX
		case b == FLAG:
			d.state = StateFlagOK
		default:
			d.state = StateStart
		}
	case StateAddrRX: // A_T seen: expecting SET, DISC, UA, INF0, INF1
		switch {
		case rxClass[b]:
			d.state = StateReceive
		case b == FLAG:
			d.state = StateFlagOK
		default:
			d.state = StateStart
		}
	case StateAddrTX: // A_R seen: expecting UA, RR0, RR1, REJ0, REJ1, DISC
		switch {
		case txClass[b]:
			d.state = StateReceive
		case b == FLAG:
			d.state = StateFlagOK
		default:
			d.state = StateStart
		}
	case StateReceive:
		if b == FLAG {
			d.state = StateStop
		}
		// otherwise: pass, stay in RECEIVE
	case StateStop:
		// terminal; caller must Reset before reuse
	}
	return d.state
}
