// Package beacon parses Management/Beacon frame bodies to extract the
// announced SSID, max supported rate and channel, walking tagged
// parameters the way the teacher's ie.IterateIEs does
// (internal/adapters/sniffer/ie/ie_parser.go) but over the specific tags
// §4.2 names rather than a generic callback, since the handler only ever
// needs SSID/rate/channel out of a beacon.
package beacon

import "github.com/lcalzada-xor/airbridge/internal/core/domain"

const (
	offAddr3           = 16 // BSSID, same layout the handler's offAddr3 uses
	macHeaderLength    = 24
	fixedParamsLength  = 12 // timestamp(8) + interval(2) + capabilities(2)
	tagSSID            = 0
	tagSupportedRates  = 1
	tagDSParameterSet  = 3
	tagExtendedRates   = 50
)

// Parse reads a Beacon body starting at the 802.11 MAC header (i.e. b is
// the frame with the RadioTap prefix already skipped).
func Parse(b []byte) (domain.BeaconInfo, error) {
	var info domain.BeaconInfo
	info.Frequency = -1

	if offAddr3+6 > len(b) {
		return info, domain.ErrTruncatedBeacon
	}
	var wire [6]byte
	copy(wire[:], b[offAddr3:offAddr3+6])
	info.BSSID = domain.WireToCanonical(wire)

	off := macHeaderLength + fixedParamsLength
	if off > len(b) {
		return info, domain.ErrTruncatedBeacon
	}

	var maxRateRaw byte
	for off < len(b) {
		if off+2 > len(b) {
			return info, domain.ErrTruncatedBeacon
		}
		tag := b[off]
		length := int(b[off+1])
		off += 2
		if off+length > len(b) {
			return info, domain.ErrTruncatedBeacon
		}
		value := b[off : off+length]
		off += length

		switch tag {
		case tagSSID:
			info.SSID = parseSSID(value)
		case tagSupportedRates, tagExtendedRates:
			if r := highestRate(value); r > maxRateRaw {
				maxRateRaw = r
			}
		case tagDSParameterSet:
			if len(value) >= 1 {
				info.Frequency = channelToFrequency(value[0])
			}
		}
		// Unknown tags are skipped via `length`, matching §4.2.
	}

	info.MaxRateMb = rateToMbps(maxRateRaw)

	return info, nil
}

// parseSSID interprets tag-0 bytes as UTF-8 when valid, else as opaque
// text; a zero-length value denotes a hidden SSID (empty string).
func parseSSID(value []byte) string {
	if len(value) == 0 {
		return ""
	}
	return string(value)
}

// highestRate keeps the highest-value rate byte seen across Supported
// Rates / Extended Rates tags, masked with 0x7F (the basic-rate bit is not
// part of the rate magnitude).
func highestRate(value []byte) byte {
	var max byte
	for _, v := range value {
		masked := v & 0x7F
		if masked > max {
			max = masked
		}
	}
	return max
}

// rateToMbps converts a masked 500kbps-unit rate byte into whole Mbps: the
// wire value counts 500kbps steps, so two steps make one Mbps (§4.2, "500
// kbps units → Mbps doubled").
func rateToMbps(masked byte) uint8 {
	return masked / 2
}

// channelToFrequency maps a 2.4GHz DS channel (1..13) to its center
// frequency in MHz; returns -1 for channels outside that range (§4.2, §6).
func channelToFrequency(channel byte) int {
	if channel < 1 || channel > 13 {
		return -1
	}
	return 2412 + (int(channel)-1)*5
}
