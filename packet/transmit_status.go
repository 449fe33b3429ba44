package packet

// TransmitStatus is the modern transmit-status response, correlated
// by ID to a TransmitRequest or ExplicitAddressingRequest.
type TransmitStatus struct {
	ID              byte
	Dest16          A16
	RetryCount      byte
	DeliveryStatus  DeliveryStatus
	DiscoveryStatus DiscoveryStatus
}

func (p *TransmitStatus) FrameType() FrameType { return TypeTransmitStatus }
func (p *TransmitStatus) NeedsFrameID() bool    { return p.ID != 0 }
func (p *TransmitStatus) FrameID() byte         { return p.ID }
func (p *TransmitStatus) IsBroadcast() bool     { return false }

func (p *TransmitStatus) SerializePayload() []byte {
	out := make([]byte, 0, 7)
	out = append(out, byte(TypeTransmitStatus), p.ID)
	out = append(out, p.Dest16.Bytes()...)
	return append(out, p.RetryCount, byte(p.DeliveryStatus), byte(p.DiscoveryStatus))
}

func parseTransmitStatus(raw []byte) (Packet, error) {
	if len(raw) < 7 {
		return nil, malformed(TypeTransmitStatus, "short frame (%d bytes)", len(raw))
	}
	return &TransmitStatus{
		ID:              raw[1],
		Dest16:          NewA16(raw[2:4]),
		RetryCount:      raw[4],
		DeliveryStatus:  DeliveryStatus(raw[5]),
		DiscoveryStatus: DiscoveryStatus(raw[6]),
	}, nil
}

// TXStatusLegacy is the legacy transmit-status response (TX64/TX16
// only carry a frame ID and delivery status, no retry/discovery info).
type TXStatusLegacy struct {
	ID             byte
	DeliveryStatus DeliveryStatus
}

func (p *TXStatusLegacy) FrameType() FrameType { return TypeTXStatus }
func (p *TXStatusLegacy) NeedsFrameID() bool    { return p.ID != 0 }
func (p *TXStatusLegacy) FrameID() byte         { return p.ID }
func (p *TXStatusLegacy) IsBroadcast() bool     { return false }

func (p *TXStatusLegacy) SerializePayload() []byte {
	return []byte{byte(TypeTXStatus), p.ID, byte(p.DeliveryStatus)}
}

func parseTXStatusLegacy(raw []byte) (Packet, error) {
	if len(raw) < 3 {
		return nil, malformed(TypeTXStatus, "short frame (%d bytes)", len(raw))
	}
	return &TXStatusLegacy{ID: raw[1], DeliveryStatus: DeliveryStatus(raw[2])}, nil
}
