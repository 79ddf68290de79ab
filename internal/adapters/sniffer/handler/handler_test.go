package handler

import (
	"testing"

	"github.com/lcalzada-xor/airbridge/internal/core/domain"
	"github.com/stretchr/testify/require"
)

// buildRadioTap returns a 10-byte RadioTap prefix with only the Flags and
// Rate present bits set, carrying the given flags and rate values.
func buildRadioTap(flags, rate byte) []byte {
	// present bits: Flags(1), Rate(2)
	return []byte{
		0, 0, 10, 0, // version, pad, length=10
		0b0000_0110, 0, 0, 0, // present: bit1|bit2
		flags, rate,
	}
}

func mac(b0, b1, b2, b3, b4, b5 byte) domain.MAC {
	return domain.WireToCanonical([6]byte{b0, b1, b2, b3, b4, b5})
}

func putMAC(b []byte, off int, m domain.MAC) {
	w := domain.CanonicalToWire(m)
	copy(b[off:off+6], w[:])
}

func buildBeaconFrame(rt []byte, ssid string, bssid domain.MAC) []byte {
	rtl := len(rt)
	frame := append([]byte{}, rt...)
	mac24 := make([]byte, macHeaderLength) // frame control(2)+dur(2)+addr1(6)+addr2(6)+addr3(6)+seq(2)
	mac24[0] = 0x80                        // subtype 0x8 (beacon), type mgmt -> byte0 = (8<<4)|(0<<2) = 0x80
	putMAC(mac24, offAddr2, mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x01))
	putMAC(mac24, offAddr3, bssid)
	frame = append(frame, mac24...)
	frame = append(frame, make([]byte, fixedParamsLen)...) // timestamp+interval+caps
	frame = append(frame, 0, byte(len(ssid)))
	frame = append(frame, []byte(ssid)...)
	_ = rtl
	return frame
}

const fixedParamsLen = 12

func TestUpdate_S1_BeaconLock(t *testing.T) {
	h := New(nil)
	h.SetSSIDFilter([]string{"MyNet"})

	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	frame := buildBeaconFrame(buildRadioTap(0, 0), "MyNet", bssid)

	h.Update(frame)

	got, ok := h.LockedBSSID()
	require.True(t, ok)
	require.Equal(t, domain.MAC(0x112233445566), got)
}

func TestUpdate_S2_BeaconRejected(t *testing.T) {
	h := New(nil)
	h.SetSSIDFilter([]string{"MyNet"})

	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	frame := buildBeaconFrame(buildRadioTap(0, 0), "Other", bssid)

	h.Update(frame)

	_, ok := h.LockedBSSID()
	require.False(t, ok)
}

func buildDataFrame(rt []byte, addr1, addr2, addr3 domain.MAC, ethertype [2]byte, payload []byte) []byte {
	frame := append([]byte{}, rt...)
	hdr := make([]byte, macHeaderLength)
	hdr[0] = 0x08 // type=Data(0b10<<2=0x08), subtype=0 (Data)
	putMAC(hdr, offAddr1, addr1)
	putMAC(hdr, offAddr2, addr2)
	putMAC(hdr, offAddr3, addr3)
	frame = append(frame, hdr...)
	frame = append(frame, ethertype[:]...)
	frame = append(frame, payload...)
	return frame
}

func lockBSSID(t *testing.T, h *Handler, bssid domain.MAC) {
	t.Helper()
	h.SetSSIDFilter([]string{"MyNet"})
	frame := buildBeaconFrame(buildRadioTap(0, 0), "MyNet", bssid)
	h.Update(frame)
	_, ok := h.LockedBSSID()
	require.True(t, ok)
}

func TestUpdate_S3_DataConvert(t *testing.T) {
	h := New(nil)
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	lockBSSID(t, h, bssid)

	addr1 := mac(0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF)
	addr2 := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x01)
	frame := buildDataFrame(buildRadioTap(0, 0), addr1, addr2, bssid, [2]byte{0x08, 0x00}, []byte("PING"))

	h.Update(frame)

	require.True(t, h.IsConvertible())
	eth := h.ConvertToEthernet()
	require.Equal(t, domain.CanonicalToWire(addr1), eth.Dst)
	require.Equal(t, domain.CanonicalToWire(addr2), eth.Src)
	require.Equal(t, [2]byte{0x08, 0x00}, eth.EtherType)
	require.Equal(t, []byte("PING"), eth.Payload)
}

func TestUpdate_S4_DataFilteredOutOnBSSIDMismatch(t *testing.T) {
	h := New(nil)
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	lockBSSID(t, h, bssid)

	wrongBSSID := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x77)
	addr1 := mac(0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF)
	addr2 := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x01)
	frame := buildDataFrame(buildRadioTap(0, 0), addr1, addr2, wrongBSSID, [2]byte{0x08, 0x00}, []byte("PING"))

	h.Update(frame)

	require.False(t, h.IsConvertible())
	require.Zero(t, h.DataParams())
}

func buildControlACKFrame(rt []byte, receiver domain.MAC) []byte {
	frame := append([]byte{}, rt...)
	hdr := make([]byte, 4+6) // frame control(2)+dur(2)+addr1(6), no addr2/addr3 for ACK
	hdr[0] = 0xD0            // type=Control(0b01<<2=0x04), subtype=0xD (ACK) -> (0xD<<4)|0x04 = 0xD4
	hdr[0] = 0xD4
	copy(hdr[4:10], func() []byte { w := domain.CanonicalToWire(receiver); return w[:] }())
	frame = append(frame, hdr...)
	return frame
}

func TestUpdate_S5_ACKCapture(t *testing.T) {
	h := New(nil)
	receiver := mac(0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF)
	h.AddBlacklist(receiver)

	frame := buildControlACKFrame(buildRadioTap(0, 0x04), receiver)
	h.Update(frame)

	require.Equal(t, uint8(0x04), h.ControlParams().DataRate)
}

func TestUpdate_S6_BroadcastNonAckable(t *testing.T) {
	h := New(nil)
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	lockBSSID(t, h, bssid)

	addr2 := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x01)
	frame := buildDataFrame(buildRadioTap(0, 0), domain.BroadcastMAC, addr2, bssid, [2]byte{0x08, 0x00}, []byte("PING"))

	h.Update(frame)

	require.False(t, h.IsAckable())
	require.True(t, h.IsConvertible())
}

func TestWhitelistDominance(t *testing.T) {
	h := New(nil)
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	lockBSSID(t, h, bssid)

	allowed := mac(0x01, 0x01, 0x01, 0x01, 0x01, 0x01)
	other := mac(0x02, 0x02, 0x02, 0x02, 0x02, 0x02)
	h.SetWhitelist([]domain.MAC{allowed})

	frame := buildDataFrame(buildRadioTap(0, 0), domain.BroadcastMAC, other, bssid, [2]byte{0x08, 0x00}, []byte("X"))
	h.Update(frame)

	require.False(t, h.IsConvertible())
	require.Zero(t, h.DataParams())
}

func TestBSSIDLockStability(t *testing.T) {
	h := New(nil)
	h.SetSSIDFilter([]string{"MyNet"})
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	h.Update(buildBeaconFrame(buildRadioTap(0, 0), "MyNet", bssid))

	locked, ok := h.LockedBSSID()
	require.True(t, ok)

	otherBSSID := mac(0x99, 0x99, 0x99, 0x99, 0x99, 0x99)
	h.Update(buildBeaconFrame(buildRadioTap(0, 0), "Rejected", otherBSSID))

	still, ok := h.LockedBSSID()
	require.True(t, ok)
	require.Equal(t, locked, still)
}

func TestQoSRetryExclusion(t *testing.T) {
	h := New(nil)
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	lockBSSID(t, h, bssid)

	addr1 := mac(0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF)
	addr2 := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x01)

	rt := buildRadioTap(0, 0)
	frame := append([]byte{}, rt...)
	hdr := make([]byte, macHeaderLength+qosControlLen)
	hdr[0] = 0x88 // type=Data(0x08), subtype=QoSData(0x8<<4=0x80) -> 0x88
	hdr[1] = cDataQOSRetryFlag
	putMAC(hdr, offAddr1, addr1)
	putMAC(hdr, offAddr2, addr2)
	putMAC(hdr, offAddr3, bssid)
	frame = append(frame, hdr...)
	frame = append(frame, []byte{0x08, 0x00}...)
	frame = append(frame, []byte("PING")...)

	h.Update(frame)

	require.False(t, h.IsConvertible())
	require.Zero(t, h.DataParams())
}

func TestUpdate_S1_BeaconLock_TracksSSID(t *testing.T) {
	h := New(nil)
	h.SetSSIDFilter([]string{"MyNet"})
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	h.Update(buildBeaconFrame(buildRadioTap(0, 0), "MyNet", bssid))

	require.Equal(t, "MyNet", h.LockedSSID())
}

func TestDropReason_SSIDFiltered(t *testing.T) {
	h := New(nil)
	h.SetSSIDFilter([]string{"MyNet"})
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	h.Update(buildBeaconFrame(buildRadioTap(0, 0), "Other", bssid))

	reason, dropped := h.DropReason()
	require.True(t, dropped)
	require.Equal(t, "ssid_filtered", reason)
}

func TestDropReason_MACFilteredOnBeacon(t *testing.T) {
	h := New(nil)
	blocked := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x01)
	h.AddBlacklist(blocked)
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	h.Update(buildBeaconFrame(buildRadioTap(0, 0), "MyNet", bssid))

	reason, dropped := h.DropReason()
	require.True(t, dropped)
	require.Equal(t, "mac_filtered", reason)
}

func TestDropReason_BSSIDUnlocked(t *testing.T) {
	h := New(nil)
	addr1 := mac(0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF)
	addr2 := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x01)
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	frame := buildDataFrame(buildRadioTap(0, 0), addr1, addr2, bssid, [2]byte{0x08, 0x00}, []byte("PING"))
	h.Update(frame)

	reason, dropped := h.DropReason()
	require.True(t, dropped)
	require.Equal(t, "bssid_unlocked", reason)
}

func TestDropReason_BSSIDMismatch(t *testing.T) {
	h := New(nil)
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	lockBSSID(t, h, bssid)

	wrongBSSID := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x77)
	addr1 := mac(0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF)
	addr2 := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x01)
	frame := buildDataFrame(buildRadioTap(0, 0), addr1, addr2, wrongBSSID, [2]byte{0x08, 0x00}, []byte("PING"))
	h.Update(frame)

	reason, dropped := h.DropReason()
	require.True(t, dropped)
	require.Equal(t, "bssid_mismatch", reason)
}

func TestDropReason_ClearOnSuccessfulConvert(t *testing.T) {
	h := New(nil)
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	lockBSSID(t, h, bssid)

	addr1 := mac(0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF)
	addr2 := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x01)
	frame := buildDataFrame(buildRadioTap(0, 0), addr1, addr2, bssid, [2]byte{0x08, 0x00}, []byte("PING"))
	h.Update(frame)

	_, dropped := h.DropReason()
	require.False(t, dropped)
	require.Equal(t, domain.MainTypeData, h.CurrentKind().Main)
}

func TestConvertToEthernet_FCSStripped(t *testing.T) {
	h := New(nil)
	bssid := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	lockBSSID(t, h, bssid)

	addr1 := mac(0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF)
	addr2 := mac(0x11, 0x22, 0x33, 0x44, 0x55, 0x01)
	payload := []byte("PINGPONG")
	frame := buildDataFrame(buildRadioTap(domain.FCSAvailableFlag, 0), addr1, addr2, bssid, [2]byte{0x08, 0x00}, payload)
	frame = append(frame, 0, 0, 0, 0) // 4-byte FCS trailer

	h.Update(frame)
	eth := h.ConvertToEthernet()
	require.Equal(t, payload, eth.Payload)
}
