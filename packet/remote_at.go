package packet

// RemoteATOption is the options bitfield on a remote AT command request.
type RemoteATOption byte

const (
	RemoteATApplyChanges RemoteATOption = 0x02
)

// RemoteATCommandRequest wraps an AT command for the local radio to
// relay to a remote node addressed by Dest64/Dest16.
type RemoteATCommandRequest struct {
	ID      byte
	Dest64  A64
	Dest16  A16
	Options RemoteATOption
	Command ATCommand
	Value   []byte
}

func (p *RemoteATCommandRequest) FrameType() FrameType { return TypeRemoteATCommand }
func (p *RemoteATCommandRequest) NeedsFrameID() bool    { return p.ID != 0 }
func (p *RemoteATCommandRequest) FrameID() byte         { return p.ID }
func (p *RemoteATCommandRequest) IsBroadcast() bool     { return p.Dest64.IsBroadcast() || p.Dest16.IsBroadcast() }

func (p *RemoteATCommandRequest) SerializePayload() []byte {
	out := make([]byte, 0, 15+len(p.Value))
	out = append(out, byte(TypeRemoteATCommand), p.ID)
	out = append(out, p.Dest64.Bytes()...)
	out = append(out, p.Dest16.Bytes()...)
	out = append(out, byte(p.Options), p.Command[0], p.Command[1])
	return append(out, p.Value...)
}

func parseRemoteATCommandRequest(raw []byte) (Packet, error) {
	if len(raw) < 15 {
		return nil, malformed(TypeRemoteATCommand, "short frame (%d bytes)", len(raw))
	}
	return &RemoteATCommandRequest{
		ID:      raw[1],
		Dest64:  NewA64(raw[2:10]),
		Dest16:  NewA16(raw[10:12]),
		Options: RemoteATOption(raw[12]),
		Command: ATCommand{raw[13], raw[14]},
		Value:   append([]byte(nil), raw[15:]...),
	}, nil
}

// RemoteATCommandResponse is a remote node's reply, relayed back
// through the local radio.
type RemoteATCommandResponse struct {
	ID      byte
	Source64 A64
	Source16 A16
	Command ATCommand
	Status  CommandStatus
	Value   []byte
}

func (p *RemoteATCommandResponse) FrameType() FrameType { return TypeRemoteATResponse }
func (p *RemoteATCommandResponse) NeedsFrameID() bool    { return p.ID != 0 }
func (p *RemoteATCommandResponse) FrameID() byte         { return p.ID }
func (p *RemoteATCommandResponse) IsBroadcast() bool     { return false }

func (p *RemoteATCommandResponse) SerializePayload() []byte {
	out := make([]byte, 0, 15+len(p.Value))
	out = append(out, byte(TypeRemoteATResponse), p.ID)
	out = append(out, p.Source64.Bytes()...)
	out = append(out, p.Source16.Bytes()...)
	out = append(out, p.Command[0], p.Command[1], byte(p.Status))
	return append(out, p.Value...)
}

func parseRemoteATCommandResponse(raw []byte) (Packet, error) {
	if len(raw) < 15 {
		return nil, malformed(TypeRemoteATResponse, "short frame (%d bytes)", len(raw))
	}
	return &RemoteATCommandResponse{
		ID:       raw[1],
		Source64: NewA64(raw[2:10]),
		Source16: NewA16(raw[10:12]),
		Command:  ATCommand{raw[12], raw[13]},
		Status:   CommandStatus(raw[14]),
		Value:    append([]byte(nil), raw[15:]...),
	}, nil
}
