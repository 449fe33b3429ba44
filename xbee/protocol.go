package xbee

// OperatingMode is the radio's framing mode.
type OperatingMode int

const (
	ModeUnknown OperatingMode = iota
	ModeAT
	ModeAPI
	ModeAPIEscaped
)

func (m OperatingMode) String() string {
	switch m {
	case ModeAT:
		return "AT"
	case ModeAPI:
		return "API"
	case ModeAPIEscaped:
		return "API_ESCAPE"
	}
	return "UNKNOWN"
}

// Protocol is the radio's network/MAC layer, derived from the (HV, VR)
// AT command pair during ReadDeviceInfo.
type Protocol int

const (
	ProtocolUnknown Protocol = iota
	ProtocolZigBee
	ProtocolZNet
	ProtocolDigiMesh
	Protocol802154
	ProtocolXTend
	ProtocolSmartEnergy
	ProtocolPointToMultipoint
	ProtocolCellular
)

func (p Protocol) String() string {
	switch p {
	case ProtocolZigBee:
		return "ZigBee"
	case ProtocolZNet:
		return "ZNet"
	case ProtocolDigiMesh:
		return "DigiMesh"
	case Protocol802154:
		return "802.15.4"
	case ProtocolXTend:
		return "XTend"
	case ProtocolSmartEnergy:
		return "SmartEnergy"
	case ProtocolPointToMultipoint:
		return "PointToMultipoint"
	case ProtocolCellular:
		return "Cellular"
	}
	return "Unknown"
}

// Has16BitAddress reports whether the protocol exposes a 16-bit
// network address (MY), per the ReadDeviceInfo rule.
func (p Protocol) Has16BitAddress() bool {
	switch p {
	case ProtocolZigBee, Protocol802154, ProtocolXTend, ProtocolSmartEnergy, ProtocolZNet:
		return true
	}
	return false
}

// hvRange maps a hardware-version nibble range to a protocol family,
// covering the ZB/ZNet module/PRO lines plus the other Digi product
// lines a remote node can report.
type hvRange struct {
	lo, hi uint16
	proto  Protocol
}

var hvRanges = []hvRange{
	{0x1900, 0x19FF, ProtocolZigBee},    // XBee module, ZB/ZNet firmware
	{0x1A00, 0x1AFF, ProtocolZigBee},    // XBee-PRO module, ZB/ZNet firmware
	{0x1E00, 0x1EFF, Protocol802154},    // XBee/XBee-PRO 802.15.4
	{0x2300, 0x23FF, ProtocolDigiMesh},  // XBee-PRO DigiMesh 900
	{0x2400, 0x24FF, ProtocolDigiMesh},  // XBee-PRO DigiMesh 2.4
	{0x2800, 0x28FF, ProtocolXTend},     // XBee-PRO XSC / XTend
	{0x3e00, 0x3eff, ProtocolCellular},  // XBee Cellular
}

// DeriveProtocol implements the (HV, VR) -> Protocol lookup. VR
// disambiguates ZigBee (0x2xxx firmware) from legacy ZNet (0x1xxx
// firmware) on hardware that is otherwise identical.
func DeriveProtocol(hv, vr uint16) Protocol {
	for _, r := range hvRanges {
		if hv >= r.lo && hv <= r.hi {
			if r.proto == ProtocolZigBee && vr < 0x2000 {
				return ProtocolZNet
			}
			return r.proto
		}
	}
	return ProtocolUnknown
}

func (m OperatingMode) requiresAPI() bool {
	return m == ModeAPI || m == ModeAPIEscaped
}

func (m OperatingMode) escaped() bool { return m == ModeAPIEscaped }
