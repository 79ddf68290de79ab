package domain

// MainType is the 2-bit 802.11 Frame Control type field.
type MainType uint8

const (
	MainTypeManagement MainType = iota
	MainTypeControl
	MainTypeData
	MainTypeUnknown
)

func (t MainType) String() string {
	switch t {
	case MainTypeManagement:
		return "Management"
	case MainTypeControl:
		return "Control"
	case MainTypeData:
		return "Data"
	default:
		return "Unknown"
	}
}

// MgmtSub is a Management frame subtype.
type MgmtSub uint8

const (
	MgmtAssocReq MgmtSub = iota
	MgmtAssocResp
	MgmtReassocReq
	MgmtReassocResp
	MgmtProbeReq
	MgmtProbeResp
	MgmtBeacon
	MgmtDisassoc
	MgmtAuth
	MgmtDeauth
	MgmtAction
	MgmtActionNoAck
	MgmtUnknown
)

// CtrlSub is a Control frame subtype.
type CtrlSub uint8

const (
	CtrlTrigger CtrlSub = iota
	CtrlTACK
	CtrlBlockAckReq
	CtrlBlockAck
	CtrlPSPoll
	CtrlRTS
	CtrlCTS
	CtrlACK
	CtrlUnknown
)

// DataSub is a Data frame subtype.
type DataSub uint8

const (
	DataData DataSub = iota
	DataCFACK
	DataCFPoll
	DataCFACKCFPoll
	DataNull
	DataCFACKOnly
	DataCFPollOnly
	DataCFACKCFPollOnly
	DataQoSData
	DataQoSDataCFACK
	DataQoSDataCFPoll
	DataQoSDataCFACKCFPoll
	DataQoSNull
	DataQoSCFPoll
	DataQoSCFACKCFPoll
	DataUnknown
)

// IsQoS reports whether the subtype is one of the QoS Data family.
func (d DataSub) IsQoS() bool {
	switch d {
	case DataQoSData, DataQoSDataCFACK, DataQoSDataCFPoll, DataQoSDataCFACKCFPoll,
		DataQoSNull, DataQoSCFPoll, DataQoSCFACKCFPoll:
		return true
	default:
		return false
	}
}

// CarriesPayload reports whether the subtype carries a convertible data
// payload (§4.4 is_convertible): Null, CFACK, CFPoll, CFACKCFPoll,
// QoSCFACKCFPoll, QoSCFPoll and QoSNull do not.
func (d DataSub) CarriesPayload() bool {
	switch d {
	case DataNull, DataCFACKOnly, DataCFPollOnly, DataCFACKCFPollOnly,
		DataQoSCFACKCFPoll, DataQoSCFPoll, DataQoSNull:
		return false
	default:
		return true
	}
}

// CommitsDataParams reports whether the subtype is eligible to update
// last_data_params per §4.4: Data / DataCFACK / DataCFPoll / DataCFACKCFPoll
// (non-QoS) when the frame is not a QoS retry.
func (d DataSub) CommitsDataParams() bool {
	switch d {
	case DataData, DataCFACK, DataCFPoll, DataCFACKCFPoll:
		return true
	default:
		return false
	}
}

// FrameKind is the fully classified frame: a MainType plus the specific
// subtype for that type (only one of the subtype fields is meaningful).
type FrameKind struct {
	Main MainType
	Mgmt MgmtSub
	Ctrl CtrlSub
	Data DataSub
}

func (k FrameKind) String() string {
	return k.Main.String()
}
