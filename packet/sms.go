package packet

// phoneNumberLen is the fixed width of the ASCII, NUL-padded phone
// number field in SMS frames (Cellular protocol only).
const phoneNumberLen = 20

func encodePhoneNumber(number string) []byte {
	out := make([]byte, phoneNumberLen)
	copy(out, number)
	return out
}

func decodePhoneNumber(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}

// TXSMSRequest sends a text message over the cellular network.
type TXSMSRequest struct {
	ID          byte
	Options     byte
	PhoneNumber string
	Data        []byte
}

func (p *TXSMSRequest) FrameType() FrameType { return TypeTXSMS }
func (p *TXSMSRequest) NeedsFrameID() bool    { return p.ID != 0 }
func (p *TXSMSRequest) FrameID() byte         { return p.ID }
func (p *TXSMSRequest) IsBroadcast() bool     { return false }

func (p *TXSMSRequest) SerializePayload() []byte {
	out := make([]byte, 0, 3+phoneNumberLen+len(p.Data))
	out = append(out, byte(TypeTXSMS), p.ID, p.Options)
	out = append(out, encodePhoneNumber(p.PhoneNumber)...)
	return append(out, p.Data...)
}

func parseTXSMSRequest(raw []byte) (Packet, error) {
	if len(raw) < 3+phoneNumberLen {
		return nil, malformed(TypeTXSMS, "short frame (%d bytes)", len(raw))
	}
	return &TXSMSRequest{
		ID:          raw[1],
		Options:     raw[2],
		PhoneNumber: decodePhoneNumber(raw[3 : 3+phoneNumberLen]),
		Data:        append([]byte(nil), raw[3+phoneNumberLen:]...),
	}, nil
}

// RXSMSIndicator is the inbound counterpart to TXSMSRequest.
type RXSMSIndicator struct {
	PhoneNumber string
	Data        []byte
}

func (p *RXSMSIndicator) FrameType() FrameType { return TypeRXSMS }
func (p *RXSMSIndicator) NeedsFrameID() bool    { return false }
func (p *RXSMSIndicator) FrameID() byte         { return 0 }
func (p *RXSMSIndicator) IsBroadcast() bool     { return false }

func (p *RXSMSIndicator) SerializePayload() []byte {
	out := make([]byte, 0, 1+phoneNumberLen+len(p.Data))
	out = append(out, byte(TypeRXSMS))
	out = append(out, encodePhoneNumber(p.PhoneNumber)...)
	return append(out, p.Data...)
}

func parseRXSMSIndicator(raw []byte) (Packet, error) {
	if len(raw) < 1+phoneNumberLen {
		return nil, malformed(TypeRXSMS, "short frame (%d bytes)", len(raw))
	}
	return &RXSMSIndicator{
		PhoneNumber: decodePhoneNumber(raw[1 : 1+phoneNumberLen]),
		Data:        append([]byte(nil), raw[1+phoneNumberLen:]...),
	}, nil
}
