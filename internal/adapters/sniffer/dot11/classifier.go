// Package dot11 classifies 802.11 frames by their Frame Control field.
// spec.md §9 flags the source's overlapping "mask-equal-pattern" subtype
// tests as a bug and adopts exact-nibble match instead (Open Question 1);
// this package implements that decision with a direct switch over the
// 4-bit subtype value.
package dot11

import "github.com/lcalzada-xor/airbridge/internal/core/domain"

// FrameControl is the 2-byte Frame Control field, byte 0 holding
// version/type/subtype and byte 1 holding the flags (ToDS, FromDS, Retry,
// the QoS-retry bit the handler inspects directly, etc).
type FrameControl struct {
	Byte0 uint8
	Byte1 uint8
}

// Version returns the protocol version (bits 0-1 of byte 0).
func (fc FrameControl) Version() uint8 { return fc.Byte0 & 0x3 }

// typeField returns the 2-bit main type (bits 2-3 of byte 0).
func (fc FrameControl) typeField() uint8 { return (fc.Byte0 >> 2) & 0x3 }

// subtypeField returns the 4-bit subtype nibble (bits 4-7 of byte 0).
func (fc FrameControl) subtypeField() uint8 { return (fc.Byte0 >> 4) & 0xF }

// Parse reads the Frame Control field at the start of b (b must begin at
// the 802.11 MAC header, i.e. after the RadioTap length).
func Parse(b []byte) (FrameControl, error) {
	if len(b) < 2 {
		return FrameControl{}, domain.ErrTruncated80211Header
	}
	return FrameControl{Byte0: b[0], Byte1: b[1]}, nil
}

// Classify maps a FrameControl to a fully-populated domain.FrameKind. Every
// input maps to exactly one variant and Classify never panics (§8 property
// 2); subtype nibbles with no mapping classify as the type's "Unknown"
// member and the caller is expected to emit a single diagnostic.
func Classify(fc FrameControl) domain.FrameKind {
	typ := fc.typeField()
	sub := fc.subtypeField()

	switch typ {
	case 0b00:
		return domain.FrameKind{Main: domain.MainTypeManagement, Mgmt: classifyMgmt(sub)}
	case 0b01:
		return domain.FrameKind{Main: domain.MainTypeControl, Ctrl: classifyCtrl(sub)}
	case 0b10:
		return domain.FrameKind{Main: domain.MainTypeData, Data: classifyData(sub)}
	default: // 0b11: Extension, ignored per §4.3
		return domain.FrameKind{Main: domain.MainTypeUnknown}
	}
}

func classifyMgmt(sub uint8) domain.MgmtSub {
	switch sub {
	case 0x0:
		return domain.MgmtAssocReq
	case 0x1:
		return domain.MgmtAssocResp
	case 0x2:
		return domain.MgmtReassocReq
	case 0x3:
		return domain.MgmtReassocResp
	case 0x4:
		return domain.MgmtProbeReq
	case 0x5:
		return domain.MgmtProbeResp
	case 0x8:
		return domain.MgmtBeacon
	case 0xA:
		return domain.MgmtDisassoc
	case 0xB:
		return domain.MgmtAuth
	case 0xC:
		return domain.MgmtDeauth
	case 0xD:
		return domain.MgmtAction
	case 0xE:
		return domain.MgmtActionNoAck
	default:
		return domain.MgmtUnknown
	}
}

func classifyCtrl(sub uint8) domain.CtrlSub {
	switch sub {
	case 0x2:
		return domain.CtrlTrigger
	case 0x3:
		return domain.CtrlTACK
	case 0x8:
		return domain.CtrlBlockAckReq
	case 0x9:
		return domain.CtrlBlockAck
	case 0xA:
		return domain.CtrlPSPoll
	case 0xB:
		return domain.CtrlRTS
	case 0xC:
		return domain.CtrlCTS
	case 0xD:
		return domain.CtrlACK
	default:
		return domain.CtrlUnknown
	}
}

func classifyData(sub uint8) domain.DataSub {
	switch sub {
	case 0x0:
		return domain.DataData
	case 0x1:
		return domain.DataCFACK
	case 0x2:
		return domain.DataCFPoll
	case 0x3:
		return domain.DataCFACKCFPoll
	case 0x4:
		return domain.DataNull
	case 0x5:
		return domain.DataCFACKOnly
	case 0x6:
		return domain.DataCFPollOnly
	case 0x7:
		return domain.DataCFACKCFPollOnly
	case 0x8:
		return domain.DataQoSData
	case 0x9:
		return domain.DataQoSDataCFACK
	case 0xA:
		return domain.DataQoSDataCFPoll
	case 0xB:
		return domain.DataQoSDataCFACKCFPoll
	case 0xC:
		return domain.DataQoSNull
	case 0xE:
		return domain.DataQoSCFPoll
	case 0xF:
		return domain.DataQoSCFACKCFPoll
	default:
		return domain.DataUnknown
	}
}
