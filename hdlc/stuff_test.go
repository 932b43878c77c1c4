package hdlc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestStuffDestuffRoundTrip checks that Stuff followed by Destuff
// returns the original bytes, for any input.
func TestStuffDestuffRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rapid.SliceOf(rapid.Byte()).Draw(rt, "src")
		stuffed := Stuff(src)
		back, err := Destuff(stuffed)
		require.NoError(rt, err)
		require.Equal(rt, src, back)
	})
}

// TestStuffNeverEmitsFlag checks that a stuffed buffer never contains a
// bare FLAG octet, whatever the input.
func TestStuffNeverEmitsFlag(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rapid.SliceOf(rapid.Byte()).Draw(rt, "src")
		stuffed := Stuff(src)
		for _, b := range stuffed {
			require.NotEqual(rt, FLAG, b)
		}
	})
}

func TestDestuffTrailingEscape(t *testing.T) {
	_, err := Destuff([]byte{0x01, ESCAPE})
	require.ErrorIs(t, err, ErrTrailingEscape)
}

// TestStuffScenarios covers the FLAG and ESCAPE byte-stuffing vectors.
func TestStuffScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"flag byte", []byte{FLAG}, []byte{ESCAPE, FLAG ^ escMask}},
		{"escape byte", []byte{ESCAPE, 0x11}, []byte{ESCAPE, ESCAPE ^ escMask, 0x11}},
		{"plain bytes", []byte{0x01, 0x02, 0x03}, []byte{0x01, 0x02, 0x03}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, Stuff(c.in))
			back, err := Destuff(c.want)
			require.NoError(t, err)
			require.Equal(t, c.in, back)
		})
	}
}
