// Package builder composes outbound RadioTap + 802.11 frames: an
// Acknowledgement and an Ad-Hoc Data wrapper around an Ethernet II
// payload, each prepended with a correctly composed RadioTap header
// (§4.5). Builders allocate fresh buffers per call, owned by the caller
// (§5), and never reject a semantically odd input - they validate shape
// only (§7).
package builder

import (
	"encoding/binary"

	"github.com/lcalzada-xor/airbridge/internal/core/domain"
)

// Wire constants (§6).
const (
	cAcknowledgementType uint16 = 0x00D4 // ACK, little-endian byte 0 = 0xD4
	cWlanFCTypeData      uint16 = 0x0008 // Data, non-QoS, ToDS=0/FromDS=0

	cRadioTapSize     uint16 = 8
	cSendPresentFlags uint32 = (1 << 1) | (1 << 2) | (1 << 3) | (1 << 15) // Flags, Rate, Channel, TX flags
	cTXFlags          uint32 = 0x0000

	durationID = 0xFFFF
)

// bitMCS is the present-flags bit FrameBuilder ORs in when the caller
// supplies MCS parameters.
const bitMCS = 19

// BuildRadioTap writes the 8-byte fixed RadioTap header plus Flags, Rate,
// Channel and TX-Flags fields, appending MCS (and its present bit) only
// when params.KnownMCSInfo is non-zero (§4.5). The present-flags bit for
// MCS is ORed in, per spec.md §9 Open Question 2 (the source's `&=`
// against the MCS bit is treated as an outright bug and replaced with the
// evidently-intended OR).
func BuildRadioTap(params domain.PhysicalDeviceParameters) []byte {
	present := cSendPresentFlags
	length := cRadioTapSize + 1 + 1 + 4 + 4 // Flags + Rate + Channel(4) + TXFlags(4)

	hasMCS := params.KnownMCSInfo != 0
	if hasMCS {
		present |= 1 << bitMCS
		length += 3
	}

	out := make([]byte, 8, length)
	out[0] = 0 // revision
	out[1] = 0 // pad
	binary.LittleEndian.PutUint16(out[2:4], length)
	binary.LittleEndian.PutUint32(out[4:8], present)

	out = append(out, params.Flags)
	out = append(out, params.DataRate)

	var chanBuf [4]byte
	binary.LittleEndian.PutUint16(chanBuf[0:2], params.FrequencyMHz)
	binary.LittleEndian.PutUint16(chanBuf[2:4], params.ChannelFlags)
	out = append(out, chanBuf[:]...)

	var txBuf [4]byte
	binary.LittleEndian.PutUint32(txBuf[:], cTXFlags)
	out = append(out, txBuf[:]...)

	if hasMCS {
		out = append(out, params.KnownMCSInfo, params.MCSFlags, params.MCSIndex)
	}

	return out
}

// BuildAck produces radiotap ‖ ack_header for an Acknowledgement targeting
// receiverMAC (canonical form; wire order is recovered via
// CanonicalToWire). BuildAck is a pure function of (receiverMAC, params)
// (§8 property 8).
func BuildAck(receiverMAC domain.MAC, params domain.PhysicalDeviceParameters) []byte {
	rt := BuildRadioTap(params)

	out := make([]byte, 0, len(rt)+10)
	out = append(out, rt...)

	var fc [2]byte
	binary.LittleEndian.PutUint16(fc[:], cAcknowledgementType)
	out = append(out, fc[:]...)

	var dur [2]byte
	binary.LittleEndian.PutUint16(dur[:], durationID)
	out = append(out, dur[:]...)

	wire := domain.CanonicalToWire(receiverMAC)
	out = append(out, wire[:]...)

	return out
}

// BuildAdHocData produces radiotap ‖ ieee80211_data_header ‖ payload[12:]
// for the Ad-Hoc case (§4.5), using the same address mapping
// Handler.ConvertToEthernet reads back (addr1 = destination, addr2 = source).
// payload is an Ethernet II frame: its destination (bytes 0:6) becomes
// addr1, its source (bytes 6:12) becomes addr2, and the bytes from offset
// 12 onward (ethertype + application data) follow the 802.11 header.
// The header is 28 bytes: a zero addr4 directly follows addr3 and no
// Sequence Control field is written, so the ethertype sits at offset 28
// from the RadioTap end, not at the offset 24 ConvertToEthernet reads it
// from; ConvertToEthernet therefore does not recover payload from this output.
func BuildAdHocData(payload []byte, bssid domain.MAC, params domain.PhysicalDeviceParameters) []byte {
	rt := BuildRadioTap(params)

	out := make([]byte, 0, len(rt)+24+len(payload))
	out = append(out, rt...)

	var fc [2]byte
	binary.LittleEndian.PutUint16(fc[:], cWlanFCTypeData)
	out = append(out, fc[:]...)

	var dur [2]byte
	binary.LittleEndian.PutUint16(dur[:], durationID)
	out = append(out, dur[:]...)

	var addr1, addr2 [6]byte
	if len(payload) >= 6 {
		copy(addr1[:], payload[0:6])
	}
	if len(payload) >= 12 {
		copy(addr2[:], payload[6:12])
	}
	out = append(out, addr1[:]...)
	out = append(out, addr2[:]...)

	addr3 := domain.CanonicalToWire(bssid)
	out = append(out, addr3[:]...)

	var addr4 [6]byte
	out = append(out, addr4[:]...)

	if len(payload) > 12 {
		out = append(out, payload[12:]...)
	}

	return out
}
