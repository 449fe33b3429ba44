package packet

// Endpoint, ClusterID and ProfileID give the explicit-addressing
// fields their own types instead of raw integers, matching how the
// real XBee host libraries model Zigbee application addressing.
type Endpoint byte
type ClusterID uint16
type ProfileID uint16

// ExplicitAddressingRequest attaches application-layer addressing
// (source/destination endpoint, cluster, profile) to a transmit.
// Refused on 802.15.4 firmware, which has no concept of endpoints.
type ExplicitAddressingRequest struct {
	ID              byte
	Dest64          A64
	Dest16          A16
	SourceEndpoint  Endpoint
	DestEndpoint    Endpoint
	Cluster         ClusterID
	Profile         ProfileID
	BroadcastRadius byte
	Options         TransmitOption
	Data            []byte
}

func (p *ExplicitAddressingRequest) FrameType() FrameType { return TypeExplicitAddressing }
func (p *ExplicitAddressingRequest) NeedsFrameID() bool    { return p.ID != 0 }
func (p *ExplicitAddressingRequest) FrameID() byte         { return p.ID }
func (p *ExplicitAddressingRequest) IsBroadcast() bool {
	return p.Dest64.IsBroadcast() || p.Dest16.IsBroadcast()
}

func (p *ExplicitAddressingRequest) SerializePayload() []byte {
	out := make([]byte, 0, 20+len(p.Data))
	out = append(out, byte(TypeExplicitAddressing), p.ID)
	out = append(out, p.Dest64.Bytes()...)
	out = append(out, p.Dest16.Bytes()...)
	out = append(out, byte(p.SourceEndpoint), byte(p.DestEndpoint))
	out = append(out, byte(p.Cluster>>8), byte(p.Cluster))
	out = append(out, byte(p.Profile>>8), byte(p.Profile))
	out = append(out, p.BroadcastRadius, byte(p.Options))
	return append(out, p.Data...)
}

func parseExplicitAddressingRequest(raw []byte) (Packet, error) {
	if len(raw) < 20 {
		return nil, malformed(TypeExplicitAddressing, "short frame (%d bytes)", len(raw))
	}
	return &ExplicitAddressingRequest{
		ID:              raw[1],
		Dest64:          NewA64(raw[2:10]),
		Dest16:          NewA16(raw[10:12]),
		SourceEndpoint:  Endpoint(raw[12]),
		DestEndpoint:    Endpoint(raw[13]),
		Cluster:         ClusterID(uint16(raw[14])<<8 | uint16(raw[15])),
		Profile:         ProfileID(uint16(raw[16])<<8 | uint16(raw[17])),
		BroadcastRadius: raw[18],
		Options:         TransmitOption(raw[19]),
		Data:            append([]byte(nil), raw[20:]...),
	}, nil
}

// ExplicitRXIndicator is the explicit-addressing counterpart to
// ReceiveIndicator.
type ExplicitRXIndicator struct {
	Source64       A64
	Source16       A16
	SourceEndpoint Endpoint
	DestEndpoint   Endpoint
	Cluster        ClusterID
	Profile        ProfileID
	Options        ReceiveOption
	Data           []byte
}

func (p *ExplicitRXIndicator) FrameType() FrameType { return TypeExplicitRX }
func (p *ExplicitRXIndicator) NeedsFrameID() bool    { return false }
func (p *ExplicitRXIndicator) FrameID() byte         { return 0 }
func (p *ExplicitRXIndicator) IsBroadcast() bool     { return p.Options.Broadcast() }

func (p *ExplicitRXIndicator) SerializePayload() []byte {
	out := make([]byte, 0, 18+len(p.Data))
	out = append(out, byte(TypeExplicitRX))
	out = append(out, p.Source64.Bytes()...)
	out = append(out, p.Source16.Bytes()...)
	out = append(out, byte(p.SourceEndpoint), byte(p.DestEndpoint))
	out = append(out, byte(p.Cluster>>8), byte(p.Cluster))
	out = append(out, byte(p.Profile>>8), byte(p.Profile))
	out = append(out, byte(p.Options))
	return append(out, p.Data...)
}

func parseExplicitRXIndicator(raw []byte) (Packet, error) {
	if len(raw) < 18 {
		return nil, malformed(TypeExplicitRX, "short frame (%d bytes)", len(raw))
	}
	return &ExplicitRXIndicator{
		Source64:       NewA64(raw[1:9]),
		Source16:       NewA16(raw[9:11]),
		SourceEndpoint: Endpoint(raw[11]),
		DestEndpoint:   Endpoint(raw[12]),
		Cluster:        ClusterID(uint16(raw[13])<<8 | uint16(raw[14])),
		Profile:        ProfileID(uint16(raw[15])<<8 | uint16(raw[16])),
		Options:        ReceiveOption(raw[17]),
		Data:           append([]byte(nil), raw[18:]...),
	}, nil
}
