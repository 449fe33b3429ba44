package packet

// ATCommandRequest queries or sets a local parameter. An empty Value
// is a get; a non-empty Value is a set. FrameID 0x00 suppresses the
// response.
type ATCommandRequest struct {
	ID      byte
	Command ATCommand
	Value   []byte
}

func (p *ATCommandRequest) FrameType() FrameType { return TypeATCommand }
func (p *ATCommandRequest) NeedsFrameID() bool    { return p.ID != 0 }
func (p *ATCommandRequest) FrameID() byte         { return p.ID }
func (p *ATCommandRequest) IsBroadcast() bool     { return false }

func (p *ATCommandRequest) SerializePayload() []byte {
	out := make([]byte, 0, 4+len(p.Value))
	out = append(out, byte(TypeATCommand), p.ID, p.Command[0], p.Command[1])
	return append(out, p.Value...)
}

func parseATCommandRequest(raw []byte) (Packet, error) {
	if len(raw) < 4 {
		return nil, malformed(TypeATCommand, "short frame (%d bytes)", len(raw))
	}
	return &ATCommandRequest{
		ID:      raw[1],
		Command: ATCommand{raw[2], raw[3]},
		Value:   append([]byte(nil), raw[4:]...),
	}, nil
}

// ATCommandQueueRequest is identical to ATCommandRequest but is only
// applied to the device's running configuration after an explicit
// "apply changes" (AC) execute, used when Session.ApplyChanges is
// false so a batch of sets take effect atomically.
type ATCommandQueueRequest struct {
	ID      byte
	Command ATCommand
	Value   []byte
}

func (p *ATCommandQueueRequest) FrameType() FrameType { return TypeATCommandQueue }
func (p *ATCommandQueueRequest) NeedsFrameID() bool    { return p.ID != 0 }
func (p *ATCommandQueueRequest) FrameID() byte         { return p.ID }
func (p *ATCommandQueueRequest) IsBroadcast() bool     { return false }

func (p *ATCommandQueueRequest) SerializePayload() []byte {
	out := make([]byte, 0, 4+len(p.Value))
	out = append(out, byte(TypeATCommandQueue), p.ID, p.Command[0], p.Command[1])
	return append(out, p.Value...)
}

func parseATCommandQueueRequest(raw []byte) (Packet, error) {
	if len(raw) < 4 {
		return nil, malformed(TypeATCommandQueue, "short frame (%d bytes)", len(raw))
	}
	return &ATCommandQueueRequest{
		ID:      raw[1],
		Command: ATCommand{raw[2], raw[3]},
		Value:   append([]byte(nil), raw[4:]...),
	}, nil
}

// ATCommandResponse is the local radio's reply to an ATCommandRequest
// or ATCommandQueueRequest.
type ATCommandResponse struct {
	ID      byte
	Command ATCommand
	Status  CommandStatus
	Value   []byte
}

func (p *ATCommandResponse) FrameType() FrameType { return TypeATCommandResponse }
func (p *ATCommandResponse) NeedsFrameID() bool    { return p.ID != 0 }
func (p *ATCommandResponse) FrameID() byte         { return p.ID }
func (p *ATCommandResponse) IsBroadcast() bool     { return false }

func (p *ATCommandResponse) SerializePayload() []byte {
	out := make([]byte, 0, 5+len(p.Value))
	out = append(out, byte(TypeATCommandResponse), p.ID, p.Command[0], p.Command[1], byte(p.Status))
	return append(out, p.Value...)
}

func parseATCommandResponse(raw []byte) (Packet, error) {
	if len(raw) < 5 {
		return nil, malformed(TypeATCommandResponse, "short frame (%d bytes)", len(raw))
	}
	return &ATCommandResponse{
		ID:      raw[1],
		Command: ATCommand{raw[2], raw[3]},
		Status:  CommandStatus(raw[4]),
		Value:   append([]byte(nil), raw[5:]...),
	}, nil
}
