// Package handler implements FilterState and the receive-side state
// machine (§3, §4.4): MAC allow/deny lists, SSID filtering, BSSID locking,
// PHY-parameter capture and Ethernet conversion. It is the central piece
// the rest of the core feeds: RadioTapReader and FrameClassifier produce
// the inputs Update dispatches on; FrameBuilder consumes its accessors.
//
// Grounded in the teacher's PacketHandler
// (internal/adapters/sniffer/parser/packet_handler.go): a single
// HandlePacket-style entry point that extracts addressing, runs the
// allow/deny checks, and updates long-lived per-session state - here
// FilterState instead of a Device registry, and MAC rule precedence in
// place of the teacher's throttle cache.
package handler

import (
	"github.com/lcalzada-xor/airbridge/internal/adapters/sniffer/beacon"
	"github.com/lcalzada-xor/airbridge/internal/adapters/sniffer/dot11"
	"github.com/lcalzada-xor/airbridge/internal/adapters/sniffer/radiotap"
	"github.com/lcalzada-xor/airbridge/internal/core/domain"
	"github.com/lcalzada-xor/airbridge/internal/core/ports"
)

// Offsets relative to the end of the RadioTap header (rtl), per §6.
const (
	offFrameControl = 0
	offAddr1        = 4  // destination in Data/Ctrl addressing, receiver in Control
	offAddr2        = 10 // source
	offAddr3        = 16 // BSSID for Beacons and Data to-DS=0/from-DS=0
	macHeaderLength = 24
	qosControlLen   = 2

	// cDataQOSRetryFlag: the second Frame Control byte value the spec
	// treats as the QoS-retry bit pattern (§6).
	cDataQOSRetryFlag = 0x08

	// cEtherTypeIndex / cDataIndex are offsets (relative to rtl) of the
	// ethertype and payload start within a non-QoS Data frame's 802.11
	// header (§4.4): 24-byte MAC header, ethertype immediately follows it.
	cEtherTypeIndex     = macHeaderLength
	cDataIndex          = macHeaderLength + 2
	cDataHeaderLength   = macHeaderLength + 2 // minimum bytes required beyond rtl
)

// FilterState is the per-session allow/deny state (§3). It is owned
// exclusively by Handler; there is no concurrent access, per §5.
type FilterState struct {
	whitelist map[domain.MAC]struct{}
	blacklist map[domain.MAC]struct{}
	ssidList  map[string]struct{}

	lockedBSSID *domain.MAC
	lockedSSID  string

	lastDataParams    domain.PhysicalDeviceParameters
	lastControlParams domain.PhysicalDeviceParameters

	lastRawFrame []byte

	srcMAC     domain.MAC
	dstMAC     domain.MAC
	isAckable  bool
	isQoSRetry bool
	current    domain.FrameKind

	// dropReason names why the most recent Update call rejected the frame
	// (§4.4 early-return paths); empty when the frame was not rejected.
	dropReason string
}

// Handler is the central receive-side state machine. It wraps FilterState
// with the diagnostic sink the teacher injects via SetLogger-style
// callbacks (§9 design note: "replace the global diagnostic singleton with
// an injected diagnostic sink").
type Handler struct {
	state FilterState
	sink  ports.DiagnosticSink
}

// New constructs a Handler with empty filter lists. A nil sink is replaced
// with ports.NullSink{}, matching the teacher's "retain a null sink default
// for tests" requirement.
func New(sink ports.DiagnosticSink) *Handler {
	if sink == nil {
		sink = ports.NullSink{}
	}
	return &Handler{
		state: FilterState{
			whitelist: make(map[domain.MAC]struct{}),
			blacklist: make(map[domain.MAC]struct{}),
			ssidList:  make(map[string]struct{}),
		},
		sink: sink,
	}
}

// --- list mutation (§4.4) ---

// SetWhitelist replaces the whitelist atomically.
func (h *Handler) SetWhitelist(list []domain.MAC) {
	h.state.whitelist = toSet(list)
}

// SetBlacklist replaces the blacklist atomically.
func (h *Handler) SetBlacklist(list []domain.MAC) {
	h.state.blacklist = toSet(list)
}

// SetSSIDFilter replaces the SSID filter atomically.
func (h *Handler) SetSSIDFilter(list []string) {
	set := make(map[string]struct{}, len(list))
	for _, s := range list {
		set[s] = struct{}{}
	}
	h.state.ssidList = set
}

// AddBlacklist appends mac if it is not already present (idempotent).
func (h *Handler) AddBlacklist(mac domain.MAC) {
	h.state.blacklist[mac] = struct{}{}
}

// AddWhitelist appends mac; membership is set-semantic so duplicate adds
// are harmless even though the source's own add-list permits duplicates
// (§9 design note: "reimplement both as sets").
func (h *Handler) AddWhitelist(mac domain.MAC) {
	h.state.whitelist[mac] = struct{}{}
}

// ClearBlacklist empties the blacklist.
func (h *Handler) ClearBlacklist() { h.state.blacklist = make(map[domain.MAC]struct{}) }

// ClearWhitelist empties the whitelist.
func (h *Handler) ClearWhitelist() { h.state.whitelist = make(map[domain.MAC]struct{}) }

func toSet(list []domain.MAC) map[domain.MAC]struct{} {
	set := make(map[domain.MAC]struct{}, len(list))
	for _, m := range list {
		set[m] = struct{}{}
	}
	return set
}

// macAllowed implements the whitelist-dominance rule (§3, §4.4): if the
// whitelist is non-empty, only MACs in it are allowed; otherwise, all MACs
// not in the blacklist are allowed.
func (h *Handler) macAllowed(mac domain.MAC) bool {
	if len(h.state.whitelist) > 0 {
		_, ok := h.state.whitelist[mac]
		return ok
	}
	_, blocked := h.state.blacklist[mac]
	return !blocked
}

// ssidAllowed implements the SSID filter rule: empty filter accepts all.
func (h *Handler) ssidAllowed(ssid string) bool {
	if len(h.state.ssidList) == 0 {
		return true
	}
	_, ok := h.state.ssidList[ssid]
	return ok
}

// --- accessors (§4.4) ---

func (h *Handler) LastFrame() []byte                  { return h.state.lastRawFrame }
func (h *Handler) LockedBSSID() (domain.MAC, bool)     { return derefMAC(h.state.lockedBSSID) }
func (h *Handler) LockedSSID() string                  { return h.state.lockedSSID }
func (h *Handler) DestinationMAC() domain.MAC          { return h.state.dstMAC }
func (h *Handler) DataParams() domain.PhysicalDeviceParameters    { return h.state.lastDataParams }
func (h *Handler) ControlParams() domain.PhysicalDeviceParameters { return h.state.lastControlParams }
func (h *Handler) IsAckable() bool                     { return h.state.isAckable }

// CurrentKind reports the most recently classified frame kind (§4.4),
// meaningful only when DropReason reports no rejection.
func (h *Handler) CurrentKind() domain.FrameKind { return h.state.current }

// DropReason reports why the most recent Update call rejected its frame,
// and whether a rejection occurred at all.
func (h *Handler) DropReason() (string, bool) {
	return h.state.dropReason, h.state.dropReason != ""
}

func derefMAC(m *domain.MAC) (domain.MAC, bool) {
	if m == nil {
		return 0, false
	}
	return *m, true
}

// IsConvertible reports whether the last frame is a Data subtype that
// passed filtering, carries payload and is not a QoS retry (§4.4).
func (h *Handler) IsConvertible() bool {
	if h.state.current.Main != domain.MainTypeData || h.state.dropReason != "" {
		return false
	}
	if h.state.isQoSRetry {
		return false
	}
	return h.state.current.Data.CarriesPayload()
}

// Update is the central receive-side state transition (§4.4). frame must
// remain valid until the next call to Update (§5); Update never returns an
// error to the caller - every failure is recorded as a diagnostic and
// FilterState is left unchanged or in a consistent partial state.
func (h *Handler) Update(frame []byte) {
	h.state.lastRawFrame = frame
	h.state.isAckable = false
	h.state.dropReason = ""

	rtRes, err := radiotap.Parse(frame)
	if err != nil {
		h.sink.Emit("warn", "radiotap parse failed", "err", err)
		return
	}
	rtl := rtRes.HeaderLength
	live := rtRes.Params

	if rtl+2 > len(frame) {
		h.sink.Emit("warn", "frame too short for frame control", "rtl", rtl)
		return
	}
	fc, err := dot11.Parse(frame[rtl:])
	if err != nil {
		h.sink.Emit("warn", "frame control parse failed", "err", err)
		return
	}
	kind := dot11.Classify(fc)
	h.state.current = kind

	switch kind.Main {
	case domain.MainTypeManagement:
		if kind.Mgmt == domain.MgmtUnknown {
			h.sink.Emit("debug", "unrecognized management subtype", "err", domain.ErrUnknownSubtype)
			return
		}
		h.updateManagement(frame, rtl, kind)
	case domain.MainTypeData:
		if kind.Data == domain.DataUnknown {
			h.sink.Emit("debug", "unrecognized data subtype", "err", domain.ErrUnknownSubtype)
			return
		}
		h.updateData(frame, rtl, kind, fc, live)
	case domain.MainTypeControl:
		if kind.Ctrl == domain.CtrlUnknown {
			h.sink.Emit("debug", "unrecognized control subtype", "err", domain.ErrUnknownSubtype)
			return
		}
		h.updateControl(frame, rtl, kind, live)
	default:
		h.sink.Emit("debug", "unknown main type frame")
	}
}

func macAt(frame []byte, rtl, off int) (domain.MAC, bool) {
	if rtl+off+6 > len(frame) {
		return 0, false
	}
	var wire [6]byte
	copy(wire[:], frame[rtl+off:rtl+off+6])
	return domain.WireToCanonical(wire), true
}

func (h *Handler) updateManagement(frame []byte, rtl int, kind domain.FrameKind) {
	src, ok := macAt(frame, rtl, offAddr2)
	if !ok {
		h.sink.Emit("warn", "management frame truncated before source MAC")
		return
	}
	h.state.srcMAC = src
	if !h.macAllowed(src) {
		h.state.dropReason = "mac_filtered"
		return
	}
	if kind.Mgmt != domain.MgmtBeacon {
		return
	}
	info, err := beacon.Parse(frame[rtl:])
	if err != nil {
		h.sink.Emit("warn", "beacon parse failed", "err", err)
		return
	}
	if !h.ssidAllowed(info.SSID) {
		h.state.dropReason = "ssid_filtered"
		return
	}
	cur, locked := derefMAC(h.state.lockedBSSID)
	if !locked || cur != info.BSSID {
		b := info.BSSID
		h.state.lockedBSSID = &b
		h.state.lockedSSID = info.SSID
		h.sink.Emit("info", "BSSID locked", "ssid", info.SSID, "bssid", info.BSSID.String())
	}
}

func (h *Handler) updateData(frame []byte, rtl int, kind domain.FrameKind, fc dot11.FrameControl, live domain.PhysicalDeviceParameters) {
	src, ok := macAt(frame, rtl, offAddr2)
	if !ok {
		h.sink.Emit("warn", "data frame truncated before source MAC")
		return
	}
	h.state.srcMAC = src

	lockedBSSID, locked := derefMAC(h.state.lockedBSSID)
	if !locked {
		h.state.dropReason = "bssid_unlocked"
		return
	}
	if !h.macAllowed(src) {
		h.state.dropReason = "mac_filtered"
		return
	}
	bssid, ok := macAt(frame, rtl, offAddr3)
	if !ok {
		h.state.dropReason = "truncated"
		return
	}
	if bssid != lockedBSSID {
		h.state.dropReason = "bssid_mismatch"
		return
	}

	dst, ok := macAt(frame, rtl, offAddr1)
	if !ok {
		h.sink.Emit("warn", "data frame truncated before destination MAC")
		return
	}
	h.state.dstMAC = dst
	h.state.isAckable = !dst.IsBroadcast()

	h.state.isQoSRetry = false
	if kind.Data.IsQoS() {
		h.state.isQoSRetry = fc.Byte1 == cDataQOSRetryFlag
	}

	if !h.state.isQoSRetry && kind.Data.CommitsDataParams() {
		h.state.lastDataParams = live
	}
}

func (h *Handler) updateControl(frame []byte, rtl int, kind domain.FrameKind, live domain.PhysicalDeviceParameters) {
	dst, ok := macAt(frame, rtl, offAddr1)
	if !ok {
		h.sink.Emit("warn", "control frame truncated before destination MAC")
		return
	}
	h.state.dstMAC = dst
	if _, blocked := h.state.blacklist[dst]; !blocked {
		return
	}
	if kind.Ctrl == domain.CtrlACK {
		h.state.lastControlParams = live
	}
}

// ConvertToEthernet produces an Ethernet II frame from the last received
// Data frame (§4.4). It returns an empty frame when the last main type was
// not Data, and an empty frame plus a diagnostic when the remaining header
// is too short or the subtype carries no convertible payload.
func (h *Handler) ConvertToEthernet() domain.EthernetII {
	if h.state.current.Main != domain.MainTypeData {
		return domain.EthernetII{}
	}
	sub := h.state.current.Data
	if !sub.CarriesPayload() {
		h.sink.Emit("debug", "non-convertible data subtype", "err", domain.ErrNonConvertibleSubtype)
		return domain.EthernetII{}
	}

	frame := h.state.lastRawFrame
	rtRes, err := radiotap.Parse(frame)
	if err != nil {
		return domain.EthernetII{}
	}
	rtl := rtRes.HeaderLength

	fcsLen := 0
	if rtRes.Params.Flags&domain.FCSAvailableFlag != 0 {
		fcsLen = 4
	}

	ethOff := rtl + cEtherTypeIndex
	dataOff := rtl + cDataIndex
	headerLen := cDataHeaderLength
	if sub.IsQoS() {
		ethOff += qosControlLen
		dataOff += qosControlLen
		headerLen += qosControlLen
	}

	if len(frame) <= rtl+headerLen {
		h.sink.Emit("warn", "frame too short to convert", "err", domain.ErrFrameTooShort, "len", len(frame))
		return domain.EthernetII{}
	}
	if ethOff+2 > len(frame) || dataOff > len(frame)-fcsLen {
		h.sink.Emit("warn", "frame too short to convert", "err", domain.ErrFrameTooShort, "len", len(frame))
		return domain.EthernetII{}
	}

	dstWire, ok1 := macAt(frame, rtl, offAddr1)
	srcWire, ok2 := macAt(frame, rtl, offAddr2)
	if !ok1 || !ok2 {
		return domain.EthernetII{}
	}

	var out domain.EthernetII
	out.Dst = domain.CanonicalToWire(dstWire)
	out.Src = domain.CanonicalToWire(srcWire)
	copy(out.EtherType[:], frame[ethOff:ethOff+2])
	out.Payload = append([]byte(nil), frame[dataOff:len(frame)-fcsLen]...)
	return out
}
