package domain

import (
	"encoding/binary"
	"fmt"
)

// BroadcastMAC is the canonical form of FF:FF:FF:FF:FF:FF.
const BroadcastMAC MAC = 0xFFFFFFFFFFFF

// MAC is a 48-bit address held in the low 48 bits of a u64, in canonical
// (byte-swapped, right-shifted) form. Every MAC-valued field crossing the
// wire boundary goes through WireToCanonical / CanonicalToWire; in-memory
// comparisons, set membership and filter lookups all use this form.
type MAC uint64

// WireToCanonical reads 6 wire bytes (first-byte-first) and returns the
// canonical MAC: read as little-endian u64 from the padded 8-byte wire
// value, byteswap to big-endian, shift right 16.
func WireToCanonical(wire [6]byte) MAC {
	var padded [8]byte
	copy(padded[:6], wire[:])
	le := binary.LittleEndian.Uint64(padded[:])
	be := bitsSwap64(le)
	return MAC(be >> 16)
}

// CanonicalToWire is the inverse of WireToCanonical.
func CanonicalToWire(m MAC) [6]byte {
	be := uint64(m) << 16
	le := bitsSwap64(be)
	var padded [8]byte
	binary.LittleEndian.PutUint64(padded[:], le)
	var wire [6]byte
	copy(wire[:], padded[:6])
	return wire
}

func bitsSwap64(v uint64) uint64 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return binary.LittleEndian.Uint64(b[:])
}

// IsBroadcast reports whether m is FF:FF:FF:FF:FF:FF.
func (m MAC) IsBroadcast() bool {
	return m == BroadcastMAC
}

// ParseMAC parses the conventional colon-separated form (e.g.
// "11:22:33:44:55:66") into its canonical MAC, the inverse of String.
func ParseMAC(s string) (MAC, error) {
	var wire [6]byte
	n, err := fmt.Sscanf(s, "%02x:%02x:%02x:%02x:%02x:%02x",
		&wire[0], &wire[1], &wire[2], &wire[3], &wire[4], &wire[5])
	if err != nil || n != 6 {
		return 0, fmt.Errorf("domain: invalid MAC address %q", s)
	}
	return WireToCanonical(wire), nil
}

// String renders the canonical MAC in the conventional colon-separated form.
func (m MAC) String() string {
	w := CanonicalToWire(m)
	const hex = "0123456789abcdef"
	out := make([]byte, 17)
	for i, b := range w {
		out[i*3] = hex[b>>4]
		out[i*3+1] = hex[b&0xF]
		if i < 5 {
			out[i*3+2] = ':'
		}
	}
	return string(out)
}
