package packet

// UserDataRelayRequest moves bytes to another on-module interface
// without any RF transmission; the radio does not generate a
// transmit-status for it.
type UserDataRelayRequest struct {
	ID        byte
	Dest      RelayInterface
	Data      []byte
}

func (p *UserDataRelayRequest) FrameType() FrameType { return TypeUserDataRelay }
func (p *UserDataRelayRequest) NeedsFrameID() bool    { return p.ID != 0 }
func (p *UserDataRelayRequest) FrameID() byte         { return p.ID }
func (p *UserDataRelayRequest) IsBroadcast() bool     { return false }

func (p *UserDataRelayRequest) SerializePayload() []byte {
	out := make([]byte, 0, 3+len(p.Data))
	out = append(out, byte(TypeUserDataRelay), p.ID, byte(p.Dest))
	return append(out, p.Data...)
}

func parseUserDataRelayRequest(raw []byte) (Packet, error) {
	if len(raw) < 3 {
		return nil, malformed(TypeUserDataRelay, "short frame (%d bytes)", len(raw))
	}
	return &UserDataRelayRequest{
		ID:   raw[1],
		Dest: RelayInterface(raw[2]),
		Data: append([]byte(nil), raw[3:]...),
	}, nil
}

// UserDataRelayOutput is the inbound counterpart: bytes relayed from
// another interface to the host.
type UserDataRelayOutput struct {
	Source RelayInterface
	Data   []byte
}

func (p *UserDataRelayOutput) FrameType() FrameType { return TypeUserDataRelayOutput }
func (p *UserDataRelayOutput) NeedsFrameID() bool    { return false }
func (p *UserDataRelayOutput) FrameID() byte         { return 0 }
func (p *UserDataRelayOutput) IsBroadcast() bool     { return false }

func (p *UserDataRelayOutput) SerializePayload() []byte {
	out := make([]byte, 0, 2+len(p.Data))
	out = append(out, byte(TypeUserDataRelayOutput), byte(p.Source))
	return append(out, p.Data...)
}

func parseUserDataRelayOutput(raw []byte) (Packet, error) {
	if len(raw) < 2 {
		return nil, malformed(TypeUserDataRelayOutput, "short frame (%d bytes)", len(raw))
	}
	return &UserDataRelayOutput{
		Source: RelayInterface(raw[1]),
		Data:   append([]byte(nil), raw[2:]...),
	}, nil
}
