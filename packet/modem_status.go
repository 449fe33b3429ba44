package packet

// ModemStatusIndicator reports a local state-change event (join,
// reset, key update, ...).
type ModemStatusIndicator struct {
	Status ModemStatus
}

func (p *ModemStatusIndicator) FrameType() FrameType { return TypeModemStatus }
func (p *ModemStatusIndicator) NeedsFrameID() bool    { return false }
func (p *ModemStatusIndicator) FrameID() byte         { return 0 }
func (p *ModemStatusIndicator) IsBroadcast() bool     { return false }

func (p *ModemStatusIndicator) SerializePayload() []byte {
	return []byte{byte(TypeModemStatus), byte(p.Status)}
}

func parseModemStatusIndicator(raw []byte) (Packet, error) {
	if len(raw) < 2 {
		return nil, malformed(TypeModemStatus, "short frame (%d bytes)", len(raw))
	}
	return &ModemStatusIndicator{Status: ModemStatus(raw[1])}, nil
}
