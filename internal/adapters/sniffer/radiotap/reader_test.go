package radiotap

import (
	"encoding/binary"
	"testing"

	"github.com/lcalzada-xor/airbridge/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func radiotapHeader(present uint32, rest []byte) []byte {
	length := uint16(8 + len(rest))
	b := make([]byte, 8, int(length))
	b[0] = 0
	b[1] = 0
	binary.LittleEndian.PutUint16(b[2:4], length)
	binary.LittleEndian.PutUint32(b[4:8], present)
	return append(b, rest...)
}

func TestParse_UnknownVersion(t *testing.T) {
	b := radiotapHeader(0, nil)
	b[0] = 1
	_, err := Parse(b)
	require.ErrorIs(t, err, domain.ErrUnknownVersion)
}

func TestParse_Truncated(t *testing.T) {
	b := radiotapHeader(0, nil)
	binary.LittleEndian.PutUint16(b[2:4], 100) // declared length exceeds input
	_, err := Parse(b)
	require.Error(t, err)
}

func TestParse_FlagsRateChannel(t *testing.T) {
	present := uint32(1<<1 | 1<<2 | 1<<3)
	rest := []byte{
		0x10,       // Flags: FCS-at-end
		0x0C,       // Rate
		0x6C, 0x09, // Frequency LE (0x096C = 2412)
		0x40, 0x00, // Channel flags LE
	}
	b := radiotapHeader(present, rest)

	res, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, len(b), res.HeaderLength)
	require.Equal(t, uint8(0x10), res.Params.Flags)
	require.Equal(t, uint8(0x0C), res.Params.DataRate)
	require.Equal(t, uint16(2412), res.Params.FrequencyMHz)
	require.Equal(t, uint16(0x0040), res.Params.ChannelFlags)
	require.Zero(t, res.Params.KnownMCSInfo)
}

func TestParse_MCSRequiresPresentBit(t *testing.T) {
	present := uint32(1 << 2) // Rate only
	rest := []byte{0x0C}
	b := radiotapHeader(present, rest)

	res, err := Parse(b)
	require.NoError(t, err)
	require.Zero(t, res.Params.MCSIndex)
}

func TestParse_MCS(t *testing.T) {
	present := uint32(1 << 19)
	rest := []byte{0x07, 0x00, 0x03} // known, flags, index
	b := radiotapHeader(present, rest)

	res, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, uint8(0x07), res.Params.KnownMCSInfo)
	require.Equal(t, uint8(0x00), res.Params.MCSFlags)
	require.Equal(t, uint8(0x03), res.Params.MCSIndex)
}

func TestParse_TXFlagsSkippedBeforeMCS(t *testing.T) {
	// Flags, Channel, TXFlags, MCS all present: the reader must skip the
	// unrecognized TXFlags bytes to land on the correct MCS offset.
	present := uint32(1<<1 | 1<<3 | 1<<15 | 1<<19)
	rest := []byte{
		0x10,       // Flags
		0x00,       // pad: Channel is 2-byte aligned
		0x6C, 0x09, // Channel freq
		0x40, 0x00, // Channel flags
		0xAA, 0xBB, 0xCC, 0xDD, // TXFlags (unrecognized, 4 bytes)
		0x07, 0x01, 0x02, // MCS: known, flags, index
	}
	b := radiotapHeader(present, rest)

	res, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, uint8(0x07), res.Params.KnownMCSInfo)
	require.Equal(t, uint8(0x01), res.Params.MCSFlags)
	require.Equal(t, uint8(0x02), res.Params.MCSIndex)
}
