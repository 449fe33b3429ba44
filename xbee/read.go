package xbee

import (
	"net"
	"time"

	"github.com/xbee-go/xbeeapi/packet"
)

// ReceivedData is the uniform shape ReadData/ReadDataFrom hand back,
// covering the modern Receive indicator and both legacy RX64/RX16
// frames.
type ReceivedData struct {
	Source64    packet.A64
	Source16    packet.A16
	Data        []byte
	IsBroadcast bool
}

func receivedDataFrom(p packet.Packet) ReceivedData {
	switch v := p.(type) {
	case *packet.ReceiveIndicator:
		return ReceivedData{Source64: v.Source64, Source16: v.Source16, Data: v.Data, IsBroadcast: v.IsBroadcast()}
	case *packet.RX64Legacy:
		return ReceivedData{Source64: v.Source64, Data: v.Data, IsBroadcast: v.IsBroadcast()}
	case *packet.RX16Legacy:
		return ReceivedData{Source16: v.Source16, Data: v.Data, IsBroadcast: v.IsBroadcast()}
	}
	return ReceivedData{}
}

// ReadData blocks up to timeout for the next data frame of any source,
// draining it from the packet queue. It is the synchronous counterpart
// to subscribing for DataReceived events.
func (s *Session) ReadData(timeout time.Duration) (ReceivedData, error) {
	if !s.opened.Load() {
		return ReceivedData{}, ErrInterfaceClosed
	}
	p, ok := s.queue.firstDataPacket(timeout)
	if !ok {
		return ReceivedData{}, &TimeoutError{Op: "read_data"}
	}
	return receivedDataFrom(p), nil
}

// ReadDataFrom blocks up to timeout for the next data frame from addr,
// leaving data from other sources queued for later reads.
func (s *Session) ReadDataFrom(addr packet.A64, timeout time.Duration) (ReceivedData, error) {
	if !s.opened.Load() {
		return ReceivedData{}, ErrInterfaceClosed
	}
	p, ok := s.queue.firstDataPacketFrom(addr, timeout)
	if !ok {
		return ReceivedData{}, &TimeoutError{Op: "read_data_from"}
	}
	return receivedDataFrom(p), nil
}

// ReadExplicitData blocks up to timeout for the next explicitly
// addressed frame.
func (s *Session) ReadExplicitData(timeout time.Duration) (*packet.ExplicitRXIndicator, error) {
	if !s.opened.Load() {
		return nil, ErrInterfaceClosed
	}
	p, ok := s.queue.firstExplicitDataPacket(timeout)
	if !ok {
		return nil, &TimeoutError{Op: "read_explicit_data"}
	}
	return p, nil
}

// ReadExplicitDataFrom blocks up to timeout for the next explicitly
// addressed frame from addr.
func (s *Session) ReadExplicitDataFrom(addr packet.A64, timeout time.Duration) (*packet.ExplicitRXIndicator, error) {
	if !s.opened.Load() {
		return nil, ErrInterfaceClosed
	}
	p, ok := s.queue.firstExplicitDataPacketFrom(addr, timeout)
	if !ok {
		return nil, &TimeoutError{Op: "read_explicit_data_from"}
	}
	return p, nil
}

// ReadIPData blocks up to timeout for the next RX-IPv4 frame.
func (s *Session) ReadIPData(timeout time.Duration) (*packet.RXIPv4Indicator, error) {
	if !s.opened.Load() {
		return nil, ErrInterfaceClosed
	}
	p, ok := s.queue.firstIPDataPacket(timeout)
	if !ok {
		return nil, &TimeoutError{Op: "read_ip_data"}
	}
	return p, nil
}

// ReadIPDataFrom blocks up to timeout for the next RX-IPv4 frame from
// ip.
func (s *Session) ReadIPDataFrom(ip net.IP, timeout time.Duration) (*packet.RXIPv4Indicator, error) {
	if !s.opened.Load() {
		return nil, ErrInterfaceClosed
	}
	p, ok := s.queue.firstIPDataPacketFrom(ip, timeout)
	if !ok {
		return nil, &TimeoutError{Op: "read_ip_data_from"}
	}
	return p, nil
}

// ReadUserDataRelay blocks up to timeout for the next relay frame
// arriving from any on-module interface (serial, Bluetooth, MicroPython).
func (s *Session) ReadUserDataRelay(timeout time.Duration) (*packet.UserDataRelayOutput, error) {
	if !s.opened.Load() {
		return nil, ErrInterfaceClosed
	}
	p, ok := s.queue.firstUserDataRelayPacket(timeout)
	if !ok {
		return nil, &TimeoutError{Op: "read_user_data_relay"}
	}
	return p, nil
}
