// Package radiotap decodes the RadioTap header prefix present on every
// frame captured in monitor mode, following the explicit-field-reader
// design spec.md §9 calls for in place of overlaying a packed struct on
// borrowed bytes (as heistp-wanonpcap's RadiotapHeader.Read does via
// binary.Read, generalized here to the present-bitmap field walk §4.1
// requires).
package radiotap

import (
	"encoding/binary"

	"github.com/lcalzada-xor/airbridge/internal/core/domain"
)

// present-bit positions the reader understands (§4.1).
const (
	bitTSFT    = 0
	bitFlags   = 1
	bitRate    = 2
	bitChannel = 3
	bitTXFlags = 15 // not captured into PhysicalDeviceParameters, but must be
	// skipped when present so that a subsequent MCS field (bit 19) lands at
	// the right offset — FrameBuilder always sets this bit (§4.5).
	bitMCS = 19
)

// Result is the outcome of Parse: the PHY parameter snapshot plus the
// total RadioTap header length (from the wire length-le16 field), which is
// authoritative for locating the 802.11 MAC header regardless of which
// present bits the reader recognizes (§4.1 design note).
type Result struct {
	Params       domain.PhysicalDeviceParameters
	HeaderLength int
}

// Parse reads the RadioTap prefix starting at b[0].
func Parse(b []byte) (Result, error) {
	var res Result

	if len(b) < 8 {
		return res, domain.ErrTruncatedRadioTap
	}
	version := b[0]
	if version != 0 {
		return res, domain.ErrUnknownVersion
	}
	length := binary.LittleEndian.Uint16(b[2:4])
	present := binary.LittleEndian.Uint32(b[4:8])

	if int(length) > len(b) {
		return res, domain.ErrTruncatedRadioTap
	}

	res.HeaderLength = int(length)
	res.Params.HeaderLength = length

	off := 8
	// Fields are only consumed for recognized bits 0-19, in ascending
	// bit order, each respecting its own alignment requirement within the
	// header (relative to the 8-byte fixed prefix). Higher present bits
	// (>=20) are left unconsumed: the wire length field is authoritative
	// for where the 802.11 header actually begins, so any unrecognized
	// fields between the last one we read and `length` are simply skipped.
	if present&(1<<bitTSFT) != 0 {
		off = align(off, 8)
		if off+8 > int(length) {
			return res, domain.ErrTruncatedRadioTap
		}
		off += 8
	}
	if present&(1<<bitFlags) != 0 {
		if off+1 > int(length) {
			return res, domain.ErrTruncatedRadioTap
		}
		res.Params.Flags = b[off]
		off++
	}
	if present&(1<<bitRate) != 0 {
		if off+1 > int(length) {
			return res, domain.ErrTruncatedRadioTap
		}
		res.Params.DataRate = b[off]
		off++
	}
	if present&(1<<bitChannel) != 0 {
		off = align(off, 2)
		if off+4 > int(length) {
			return res, domain.ErrTruncatedRadioTap
		}
		res.Params.FrequencyMHz = binary.LittleEndian.Uint16(b[off : off+2])
		res.Params.ChannelFlags = binary.LittleEndian.Uint16(b[off+2 : off+4])
		off += 4
	}
	if present&(1<<bitTXFlags) != 0 {
		if off+4 > int(length) {
			return res, domain.ErrTruncatedRadioTap
		}
		off += 4
	}
	if present&(1<<bitMCS) != 0 {
		if off+3 > int(length) {
			return res, domain.ErrTruncatedRadioTap
		}
		res.Params.KnownMCSInfo = b[off]
		res.Params.MCSFlags = b[off+1]
		res.Params.MCSIndex = b[off+2]
		off += 3
	}

	return res, nil
}

func align(off, boundary int) int {
	rem := off % boundary
	if rem == 0 {
		return off
	}
	return off + (boundary - rem)
}
