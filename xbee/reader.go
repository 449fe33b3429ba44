package xbee

import (
	"errors"
	"io"

	"github.com/xbee-go/xbeeapi/frame"
	"github.com/xbee-go/xbeeapi/packet"
)

// readLoop is the background task of C3: it owns the read end of the
// transport, decodes frames via package frame, parses them via package
// packet, and fans them out to the packet queue, the dispatcher and
// the event bus. It exits when the transport closes, or at the next
// frame boundary once the session's context is cancelled.
func (s *Session) readLoop() error {
	dec := frame.NewDecoder(s.transport, s.escaped())
	dec.OnBadChecksum = func() {
		s.log.Warnw("xbee: discarding frame with bad checksum, resynchronizing")
	}
	dec.OnSkipByte = s.recordProbeByte

	for {
		select {
		case <-s.ctx.Done():
			return nil
		default:
		}

		// The mode handshake can flip plain -> escaped partway through
		// Open, while this loop is already running; re-read the flag
		// each frame rather than capturing it once at decoder creation.
		dec.Escaped = s.escaped()

		payload, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || !s.transport.IsOpen() || s.ctx.Err() != nil {
				return nil
			}
			s.log.Warnw("xbee: frame decode error, stopping reader", "error", err)
			return err
		}

		p, err := packet.Parse(payload)
		if err != nil {
			s.log.Warnw("xbee: malformed packet, dropping", "error", err)
			continue
		}

		s.handlePacket(p)
	}
}

func (s *Session) handlePacket(p packet.Packet) {
	s.queue.put(p)

	s.bus.publish(PacketReceived{Packet: p}, s.onEventDrop)

	consumed := s.resolvePending(p)

	switch v := p.(type) {
	case *packet.ReceiveIndicator:
		s.bus.publish(DataReceived{Source64: v.Source64, Source16: v.Source16, Data: v.Data, IsBroadcast: v.IsBroadcast()}, s.onEventDrop)
		s.registerIfNew(v.Source64, packet.A16{})
	case *packet.RX64Legacy:
		s.bus.publish(DataReceived{Source64: v.Source64, Data: v.Data, IsBroadcast: v.IsBroadcast()}, s.onEventDrop)
		s.registerIfNew(v.Source64, packet.A16{})
	case *packet.RX16Legacy:
		s.bus.publish(DataReceived{Source16: v.Source16, Data: v.Data, IsBroadcast: v.IsBroadcast()}, s.onEventDrop)

	case *packet.IOSampleIndicator:
		s.bus.publish(IOSampleReceived{Source64: v.Source64, Source16: v.Source16, Sample: v.Sample}, s.onEventDrop)
		s.registerIfNew(v.Source64, v.Source16)
	case *packet.RX64IOLegacy:
		s.bus.publish(IOSampleReceived{Source64: v.Source64, Sample: v.Sample}, s.onEventDrop)
		s.registerIfNew(v.Source64, packet.A16{})
	case *packet.RX16IOLegacy:
		s.bus.publish(IOSampleReceived{Source16: v.Source16, Sample: v.Sample}, s.onEventDrop)

	case *packet.ModemStatusIndicator:
		s.bus.publish(ModemStatusReceived{Status: v.Status}, s.onEventDrop)

	case *packet.ExplicitRXIndicator:
		s.bus.publish(ExplicitDataReceived{
			Source64: v.Source64, Source16: v.Source16,
			SourceEndpoint: v.SourceEndpoint, DestEndpoint: v.DestEndpoint,
			Cluster: v.Cluster, Profile: v.Profile,
			Data: v.Data, IsBroadcast: v.IsBroadcast(),
		}, s.onEventDrop)
		s.registerIfNew(v.Source64, v.Source16)

	case *packet.UserDataRelayOutput:
		s.bus.publish(UserDataRelayReceived{Source: v.Source, Data: v.Data}, s.onEventDrop)
		switch v.Source {
		case packet.RelayBluetooth:
			s.bus.publish(BluetoothDataReceived{Data: v.Data}, s.onEventDrop)
		case packet.RelayMicroPython:
			s.bus.publish(MicroPythonDataReceived{Data: v.Data}, s.onEventDrop)
		case packet.RelaySerial:
			s.bus.publish(SerialDataReceived{Data: v.Data}, s.onEventDrop)
		}

	case *packet.RXIPv4Indicator:
		s.bus.publish(IPDataReceived{Indicator: v}, s.onEventDrop)

	case *packet.RXSMSIndicator:
		s.bus.publish(SMSReceived{Indicator: v}, s.onEventDrop)
	}

	_ = consumed
}

// registerIfNew folds addr64/addr16 into the network registry.
// network.Add already merges with any existing record for the same
// identity, so a source seen before is a no-op beyond filling in
// whichever field was previously unknown.
func (s *Session) registerIfNew(a64 packet.A64, a16 packet.A16) {
	if (a64 == packet.A64{} || a64.IsUnknown()) && (a16 == packet.A16{} || a16.IsUnknown()) {
		return
	}
	s.network.Add(&RemoteNode{Addr64: a64, Addr16: a16})
}

func (s *Session) onEventDrop() {
	s.log.Warnw("xbee: event subscriber channel full, dropping event")
}
