package packet

import "net"

// IPProtocol identifies the transport protocol carried by an IPv4 frame.
type IPProtocol byte

const (
	IPProtocolUDP IPProtocol = 0x00
	IPProtocolTCP IPProtocol = 0x01
)

// TXIPv4Request sends a UDP/TCP payload to an IPv4 host (Cellular
// protocol only).
type TXIPv4Request struct {
	ID         byte
	DestIP     net.IP
	DestPort   uint16
	SourcePort uint16
	Protocol   IPProtocol
	Options    byte
	Data       []byte
}

func (p *TXIPv4Request) FrameType() FrameType { return TypeTXIPv4 }
func (p *TXIPv4Request) NeedsFrameID() bool    { return p.ID != 0 }
func (p *TXIPv4Request) FrameID() byte         { return p.ID }
func (p *TXIPv4Request) IsBroadcast() bool     { return false }

func (p *TXIPv4Request) SerializePayload() []byte {
	out := make([]byte, 0, 11+len(p.Data))
	out = append(out, byte(TypeTXIPv4), p.ID)
	out = append(out, p.DestIP.To4()...)
	out = append(out, byte(p.DestPort>>8), byte(p.DestPort))
	out = append(out, byte(p.SourcePort>>8), byte(p.SourcePort))
	out = append(out, byte(p.Protocol), p.Options)
	return append(out, p.Data...)
}

func parseTXIPv4Request(raw []byte) (Packet, error) {
	if len(raw) < 12 {
		return nil, malformed(TypeTXIPv4, "short frame (%d bytes)", len(raw))
	}
	return &TXIPv4Request{
		ID:         raw[1],
		DestIP:     net.IPv4(raw[2], raw[3], raw[4], raw[5]),
		DestPort:   uint16(raw[6])<<8 | uint16(raw[7]),
		SourcePort: uint16(raw[8])<<8 | uint16(raw[9]),
		Protocol:   IPProtocol(raw[10]),
		Options:    raw[11],
		Data:       append([]byte(nil), raw[12:]...),
	}, nil
}

// RXIPv4Indicator is the inbound counterpart to TXIPv4Request.
type RXIPv4Indicator struct {
	SourceIP   net.IP
	DestPort   uint16
	SourcePort uint16
	Protocol   IPProtocol
	Status     byte
	Data       []byte
}

func (p *RXIPv4Indicator) FrameType() FrameType { return TypeRXIPv4 }
func (p *RXIPv4Indicator) NeedsFrameID() bool    { return false }
func (p *RXIPv4Indicator) FrameID() byte         { return 0 }
func (p *RXIPv4Indicator) IsBroadcast() bool     { return false }

func (p *RXIPv4Indicator) SerializePayload() []byte {
	out := make([]byte, 0, 10+len(p.Data))
	out = append(out, byte(TypeRXIPv4))
	out = append(out, p.SourceIP.To4()...)
	out = append(out, byte(p.DestPort>>8), byte(p.DestPort))
	out = append(out, byte(p.SourcePort>>8), byte(p.SourcePort))
	out = append(out, byte(p.Protocol), p.Status)
	return append(out, p.Data...)
}

func parseRXIPv4Indicator(raw []byte) (Packet, error) {
	if len(raw) < 11 {
		return nil, malformed(TypeRXIPv4, "short frame (%d bytes)", len(raw))
	}
	return &RXIPv4Indicator{
		SourceIP:   net.IPv4(raw[1], raw[2], raw[3], raw[4]),
		DestPort:   uint16(raw[5])<<8 | uint16(raw[6]),
		SourcePort: uint16(raw[7])<<8 | uint16(raw[8]),
		Protocol:   IPProtocol(raw[9]),
		Status:     raw[10],
		Data:       append([]byte(nil), raw[11:]...),
	}, nil
}
