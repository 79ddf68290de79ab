package dot11

import (
	"testing"

	"github.com/lcalzada-xor/airbridge/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func fc(typ, sub uint8) FrameControl {
	return FrameControl{Byte0: (sub << 4) | (typ << 2)}
}

func TestClassify_ManagementBeacon(t *testing.T) {
	k := Classify(fc(0b00, 0x8))
	require.Equal(t, domain.MainTypeManagement, k.Main)
	require.Equal(t, domain.MgmtBeacon, k.Mgmt)
}

func TestClassify_ControlACK(t *testing.T) {
	k := Classify(fc(0b01, 0xD))
	require.Equal(t, domain.MainTypeControl, k.Main)
	require.Equal(t, domain.CtrlACK, k.Ctrl)
}

func TestClassify_QoSData(t *testing.T) {
	k := Classify(fc(0b10, 0x8))
	require.Equal(t, domain.MainTypeData, k.Main)
	require.Equal(t, domain.DataQoSData, k.Data)
	require.True(t, k.Data.IsQoS())
}

func TestClassify_ExtensionIsUnknown(t *testing.T) {
	k := Classify(fc(0b11, 0x0))
	require.Equal(t, domain.MainTypeUnknown, k.Main)
}

// Totality (§8 property 2): every 2-byte Frame Control maps to exactly one
// variant, with no panic, for the full byte0 space.
func TestClassify_Totality(t *testing.T) {
	for b0 := 0; b0 < 256; b0++ {
		require.NotPanics(t, func() {
			k := Classify(FrameControl{Byte0: uint8(b0)})
			switch k.Main {
			case domain.MainTypeManagement, domain.MainTypeControl, domain.MainTypeData, domain.MainTypeUnknown:
			default:
				t.Fatalf("unexpected main type %v for byte0=0x%02x", k.Main, b0)
			}
		})
	}
}

// Exact-nibble match (spec.md §9 Open Question 1): overlapping bitmask
// tricks like `sub & 0b0001 == 0b0001` must not misclassify neighboring
// subtypes. 0x9 (BlockAck) and 0x3 (TACK) share their low bit with the
// unmapped 0x1; verify each nibble maps to its own exact arm.
func TestClassify_ExactNibbleNotOverlap(t *testing.T) {
	require.Equal(t, domain.CtrlBlockAck, Classify(fc(0b01, 0x9)).Ctrl)
	require.Equal(t, domain.CtrlTACK, Classify(fc(0b01, 0x3)).Ctrl)
	require.NotEqual(t, Classify(fc(0b01, 0x9)).Ctrl, Classify(fc(0b01, 0x1)).Ctrl)
}

func TestParse_TooShort(t *testing.T) {
	_, err := Parse([]byte{0x01})
	require.Error(t, err)
}
