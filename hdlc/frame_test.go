package hdlc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestHeaderCheckIdempotent checks that, for any address/control pair,
// the BCC1 computed over them always validates against itself.
func TestHeaderCheckIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.Byte().Draw(rt, "a")
		c := rapid.Byte().Draw(rt, "c")
		require.True(rt, HeaderOK(a, c, a^c))
	})
}

// TestBuildInformationWireFormat pins down the exact wire encoding of a
// small payload: 01 02 03 at seq 0 produces the bytes below.
func TestBuildInformationWireFormat(t *testing.T) {
	frame := BuildInformation(0, []byte{0x01, 0x02, 0x03})
	want := []byte{FLAG, AddrT, CtrlINF0, AddrT ^ CtrlINF0, 0x01, 0x02, 0x03, 0x00, FLAG}
	require.Equal(t, want, frame)
}

func TestParseInformationRoundTrip(t *testing.T) {
	for _, seq := range []int{0, 1} {
		frame := BuildInformation(seq, []byte{0xAA, 0x7E, 0x7D, 0x55})
		info, isInfo, err := ParseInformation(frame)
		require.NoError(t, err)
		require.True(t, isInfo)
		require.Equal(t, seq, info.Seq)
		require.Equal(t, []byte{0xAA, 0x7E, 0x7D, 0x55}, info.Payload)
	}
}

func TestParseInformationHeaderCheckFailure(t *testing.T) {
	frame := BuildInformation(0, []byte{0x01})
	frame[1] ^= 0xFF // corrupt the address octet, leaving BCC1 stale
	info, isInfo, err := ParseInformation(frame)
	require.ErrorIs(t, err, ErrHeaderCheck)
	require.True(t, isInfo)
	require.Equal(t, InfoFrame{}, info)

	c, ok := RawControl(frame)
	require.True(t, ok)
	require.Equal(t, CtrlINF0, c)
}

func TestParseInformationPayloadCheckFailure(t *testing.T) {
	frame := BuildInformation(1, []byte{0x01, 0x02})
	// flip a bit of the BCC2 trailer inside the stuffed body without touching the header
	frame[len(frame)-2] ^= 0x01
	_, isInfo, err := ParseInformation(frame)
	require.ErrorIs(t, err, ErrPayloadCheck)
	require.True(t, isInfo)
}

func TestParseInformationNotAnInformationFrame(t *testing.T) {
	frame := BuildSupervision(AddrR, CtrlUA)
	_, isInfo, err := ParseInformation(frame)
	require.NoError(t, err)
	require.False(t, isInfo)
}

func TestParseHeaderSupervisionScenarios(t *testing.T) {
	frame := BuildSupervision(AddrT, CtrlSET)
	hdr, ok := ParseHeader(frame)
	require.True(t, ok)
	require.Equal(t, Header{A: AddrT, C: CtrlSET}, hdr)
}
