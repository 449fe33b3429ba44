package packet

// ReceiveIndicator is the modern (64+16-bit addressed) receive frame.
type ReceiveIndicator struct {
	Source64 A64
	Source16 A16
	Options  ReceiveOption
	Data     []byte
}

func (p *ReceiveIndicator) FrameType() FrameType { return TypeReceive }
func (p *ReceiveIndicator) NeedsFrameID() bool    { return false }
func (p *ReceiveIndicator) FrameID() byte         { return 0 }
func (p *ReceiveIndicator) IsBroadcast() bool     { return p.Options.Broadcast() }

func (p *ReceiveIndicator) SerializePayload() []byte {
	out := make([]byte, 0, 12+len(p.Data))
	out = append(out, byte(TypeReceive))
	out = append(out, p.Source64.Bytes()...)
	out = append(out, p.Source16.Bytes()...)
	out = append(out, byte(p.Options))
	return append(out, p.Data...)
}

func parseReceiveIndicator(raw []byte) (Packet, error) {
	if len(raw) < 12 {
		return nil, malformed(TypeReceive, "short frame (%d bytes)", len(raw))
	}
	return &ReceiveIndicator{
		Source64: NewA64(raw[1:9]),
		Source16: NewA16(raw[9:11]),
		Options:  ReceiveOption(raw[11]),
		Data:     append([]byte(nil), raw[12:]...),
	}, nil
}

// RX64Legacy is the legacy 64-bit-addressed receive frame (802.15.4,
// or ZigBee/DigiMesh devices still configured for legacy framing).
type RX64Legacy struct {
	Source64 A64
	RSSI     byte
	Options  ReceiveOption
	Data     []byte
}

func (p *RX64Legacy) FrameType() FrameType { return TypeRX64 }
func (p *RX64Legacy) NeedsFrameID() bool    { return false }
func (p *RX64Legacy) FrameID() byte         { return 0 }
func (p *RX64Legacy) IsBroadcast() bool     { return p.Options.Broadcast() }

func (p *RX64Legacy) SerializePayload() []byte {
	out := make([]byte, 0, 11+len(p.Data))
	out = append(out, byte(TypeRX64))
	out = append(out, p.Source64.Bytes()...)
	out = append(out, p.RSSI, byte(p.Options))
	return append(out, p.Data...)
}

func parseRX64Legacy(raw []byte) (Packet, error) {
	if len(raw) < 11 {
		return nil, malformed(TypeRX64, "short frame (%d bytes)", len(raw))
	}
	return &RX64Legacy{
		Source64: NewA64(raw[1:9]),
		RSSI:     raw[9],
		Options:  ReceiveOption(raw[10]),
		Data:     append([]byte(nil), raw[11:]...),
	}, nil
}

// RX16Legacy is the legacy 16-bit-addressed receive frame.
type RX16Legacy struct {
	Source16 A16
	RSSI     byte
	Options  ReceiveOption
	Data     []byte
}

func (p *RX16Legacy) FrameType() FrameType { return TypeRX16 }
func (p *RX16Legacy) NeedsFrameID() bool    { return false }
func (p *RX16Legacy) FrameID() byte         { return 0 }
func (p *RX16Legacy) IsBroadcast() bool     { return p.Options.Broadcast() }

func (p *RX16Legacy) SerializePayload() []byte {
	out := make([]byte, 0, 5+len(p.Data))
	out = append(out, byte(TypeRX16))
	out = append(out, p.Source16.Bytes()...)
	out = append(out, p.RSSI, byte(p.Options))
	return append(out, p.Data...)
}

func parseRX16Legacy(raw []byte) (Packet, error) {
	if len(raw) < 5 {
		return nil, malformed(TypeRX16, "short frame (%d bytes)", len(raw))
	}
	return &RX16Legacy{
		Source16: NewA16(raw[1:3]),
		RSSI:     raw[3],
		Options:  ReceiveOption(raw[4]),
		Data:     append([]byte(nil), raw[5:]...),
	}, nil
}
