package xbee

import "github.com/xbee-go/xbeeapi/packet"

// AT command names used by the device core, kept as typed constants
// rather than inline string literals so a typo is a compile error.
var (
	// Destination Address High/Low. Set/read the 64-bit destination
	// address in two 32-bit halves. Special values 0x000000000000FFFF
	// (broadcast) and 0x0000000000000000 (coordinator) apply.
	atDH = packet.NewATCommand("DH")
	atDL = packet.NewATCommand("DL")

	// 16-bit Network Address. 0xFFFE means the module has not joined.
	atMY = packet.NewATCommand("MY")

	// Serial Number High/Low, the two halves of the module's unique
	// 64-bit address.
	atSH = packet.NewATCommand("SH")
	atSL = packet.NewATCommand("SL")

	// Node Identifier, a printable-ASCII string up to 20 bytes.
	atNI = packet.NewATCommand("NI")

	// Hardware Version and Firmware Version, used together to derive
	// the device's Protocol.
	atHV = packet.NewATCommand("HV")
	atVR = packet.NewATCommand("VR")

	// Association Indication: 0x00 means successfully joined.
	atAI = packet.NewATCommand("AI")

	// AP: API enable mode. 0=transparent, 1=API, 2=API with escapes.
	atAP = packet.NewATCommand("AP")

	// AC: Apply Changes. Makes queued (ATCommandQueue) parameter
	// changes take effect without a hard reset.
	atAC = packet.NewATCommand("AC")

	// WR: Write. Persists the current configuration to non-volatile
	// memory so it survives a reset.
	atWR = packet.NewATCommand("WR")

	// FR: Software Reset.
	atFR = packet.NewATCommand("FR")

	// ND: Node Discover. Optionally carries a node-identifier filter
	// as its value.
	atND = packet.NewATCommand("ND")

	// AS: Active Scan. Performs an energy-detect scan and streams one
	// response per detected channel/PAN.
	atAS = packet.NewATCommand("AS")

	// NT: Node Discover Timeout, in units of 100 ms.
	atNT = packet.NewATCommand("NT")

	// N?: Node discovery back-off time as actually observed by the
	// firmware; preferred over NT when the firmware supports it.
	atNQuery = packet.NewATCommand("N?")

	// SM: Sleep Mode. SM == 7 is DigiMesh "sleep support" / cyclic
	// sleep, which doubles the discovery timeout.
	atSM = packet.NewATCommand("SM")

	// C8: compatibility options bitfield. Bit 1 set means the end
	// marker short-circuit for 802.15.4/S1B applies regardless of the
	// computed discovery timeout.
	atC8 = packet.NewATCommand("C8")
)
