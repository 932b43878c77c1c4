package hdlc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDFAHappyPathSupervision(t *testing.T) {
	d := NewDFA()
	frame := BuildSupervision(AddrT, CtrlSET)
	var last State
	for _, b := range frame {
		last = d.Step(b)
	}
	require.Equal(t, StateStop, last)
}

// TestDFAResyncOnUnexpectedByteAfterAddress checks that an unexpected
// control byte after either address octet drops the automaton back to
// START rather than latching onto a malformed frame.
func TestDFAResyncOnUnexpectedByteAfterAddress(t *testing.T) {
	cases := []struct {
		name string
		addr byte
	}{
		{"after A_T", AddrT},
		{"after A_R", AddrR},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := NewDFA()
			require.Equal(t, StateFlagOK, d.Step(FLAG))
			var wantAddrState State
			if c.addr == AddrT {
				wantAddrState = StateAddrRX
			} else {
				wantAddrState = StateAddrTX
			}
			require.Equal(t, wantAddrState, d.Step(c.addr))

			// 0xFF is not a legal control byte in either class and is
			// not FLAG: this must resync to START, not silently hang
			// in the address state.
			require.Equal(t, StateStart, d.Step(0xFF))

			// A subsequent FLAG still opens a fresh frame normally.
			require.Equal(t, StateFlagOK, d.Step(FLAG))
		})
	}
}

// TestDFABareFlagResyncsOutsideReceive checks that a bare FLAG seen while
// resynchronising (FLAG_OK or either address state) always lands back on
// FLAG_OK, so a run of FLAGs on an idle line never gets stuck.
func TestDFABareFlagResyncsOutsideReceive(t *testing.T) {
	d := NewDFA()
	require.Equal(t, StateFlagOK, d.Step(FLAG))
	require.Equal(t, StateFlagOK, d.Step(FLAG), "FLAG_OK on a repeated FLAG")

	require.Equal(t, StateAddrRX, d.Step(AddrT))
	require.Equal(t, StateFlagOK, d.Step(FLAG), "A_RCV on a stray FLAG")

	require.Equal(t, StateAddrTX, d.Step(AddrR))
	require.Equal(t, StateFlagOK, d.Step(FLAG), "A_TX on a stray FLAG")
}

// TestDFAStopIsTerminalUntilReset checks that once STOP is reached the
// automaton requires an explicit Reset before it will recognise another
// frame.
func TestDFAStopIsTerminalUntilReset(t *testing.T) {
	d := NewDFA()
	for _, b := range BuildSupervision(AddrT, CtrlDISC) {
		d.Step(b)
	}
	require.Equal(t, StateStop, d.State())
	require.Equal(t, StateStop, d.Step(FLAG), "STOP does not react to further input")

	d.Reset()
	require.Equal(t, StateStart, d.State())
	require.Equal(t, StateFlagOK, d.Step(FLAG))
}

func TestDFAIgnoresNoiseInStart(t *testing.T) {
	d := NewDFA()
	for _, b := range []byte{0x00, 0xAA, 0x7D, 0x01} {
		require.Equal(t, StateStart, d.Step(b))
	}
	require.Equal(t, StateFlagOK, d.Step(FLAG))
}
