package packet

// TransmitRequest is the modern (64+16-bit addressed) transmit frame,
// used by every protocol except plain 802.15.4.
type TransmitRequest struct {
	ID              byte
	Dest64          A64
	Dest16          A16
	BroadcastRadius byte
	Options         TransmitOption
	Data            []byte
}

func (p *TransmitRequest) FrameType() FrameType { return TypeTransmit }
func (p *TransmitRequest) NeedsFrameID() bool    { return p.ID != 0 }
func (p *TransmitRequest) FrameID() byte         { return p.ID }
func (p *TransmitRequest) IsBroadcast() bool {
	return p.Dest64.IsBroadcast() || p.Dest16.IsBroadcast()
}

func (p *TransmitRequest) SerializePayload() []byte {
	out := make([]byte, 0, 14+len(p.Data))
	out = append(out, byte(TypeTransmit), p.ID)
	out = append(out, p.Dest64.Bytes()...)
	out = append(out, p.Dest16.Bytes()...)
	out = append(out, p.BroadcastRadius, byte(p.Options))
	return append(out, p.Data...)
}

func parseTransmitRequest(raw []byte) (Packet, error) {
	if len(raw) < 14 {
		return nil, malformed(TypeTransmit, "short frame (%d bytes)", len(raw))
	}
	return &TransmitRequest{
		ID:              raw[1],
		Dest64:          NewA64(raw[2:10]),
		Dest16:          NewA16(raw[10:12]),
		BroadcastRadius: raw[12],
		Options:         TransmitOption(raw[13]),
		Data:            append([]byte(nil), raw[14:]...),
	}, nil
}

// TX64Request is the legacy 64-bit-addressed transmit frame, the only
// variant plain 802.15.4 firmware accepts.
type TX64Request struct {
	ID      byte
	Dest64  A64
	Options TransmitOption
	Data    []byte
}

func (p *TX64Request) FrameType() FrameType { return TypeTX64 }
func (p *TX64Request) NeedsFrameID() bool    { return p.ID != 0 }
func (p *TX64Request) FrameID() byte         { return p.ID }
func (p *TX64Request) IsBroadcast() bool     { return p.Dest64.IsBroadcast() }

func (p *TX64Request) SerializePayload() []byte {
	out := make([]byte, 0, 11+len(p.Data))
	out = append(out, byte(TypeTX64), p.ID)
	out = append(out, p.Dest64.Bytes()...)
	out = append(out, byte(p.Options))
	return append(out, p.Data...)
}

func parseTX64Request(raw []byte) (Packet, error) {
	if len(raw) < 11 {
		return nil, malformed(TypeTX64, "short frame (%d bytes)", len(raw))
	}
	return &TX64Request{
		ID:      raw[1],
		Dest64:  NewA64(raw[2:10]),
		Options: TransmitOption(raw[10]),
		Data:    append([]byte(nil), raw[11:]...),
	}, nil
}

// TX16Request is the legacy 16-bit-addressed transmit frame.
type TX16Request struct {
	ID      byte
	Dest16  A16
	Options TransmitOption
	Data    []byte
}

func (p *TX16Request) FrameType() FrameType { return TypeTX16 }
func (p *TX16Request) NeedsFrameID() bool    { return p.ID != 0 }
func (p *TX16Request) FrameID() byte         { return p.ID }
func (p *TX16Request) IsBroadcast() bool     { return p.Dest16.IsBroadcast() }

func (p *TX16Request) SerializePayload() []byte {
	out := make([]byte, 0, 5+len(p.Data))
	out = append(out, byte(TypeTX16), p.ID)
	out = append(out, p.Dest16.Bytes()...)
	out = append(out, byte(p.Options))
	return append(out, p.Data...)
}

func parseTX16Request(raw []byte) (Packet, error) {
	if len(raw) < 5 {
		return nil, malformed(TypeTX16, "short frame (%d bytes)", len(raw))
	}
	return &TX16Request{
		ID:      raw[1],
		Dest16:  NewA16(raw[2:4]),
		Options: TransmitOption(raw[4]),
		Data:    append([]byte(nil), raw[5:]...),
	}, nil
}
