package xbee

import (
	"context"
	"time"

	"github.com/xbee-go/xbeeapi/packet"
)

const (
	digiMeshDiscoveryMargin = 3000 * time.Millisecond
	ptmpDiscoveryMargin     = 8000 * time.Millisecond
	sleepSupportMultiplier  = 2.1 // double plus 10%
)

// discoveryValue extracts the ND response value and status from
// whichever of the two frame types carries it, returning ok=false for
// anything else delivered on the discovery waiter.
func discoveryValue(p packet.Packet) (value []byte, status packet.CommandStatus, ok bool) {
	switch v := p.(type) {
	case *packet.ATCommandResponse:
		if !v.Command.EqualFold(atND) {
			return nil, 0, false
		}
		return v.Value, v.Status, true
	case *packet.RemoteATCommandResponse:
		if !v.Command.EqualFold(atND) {
			return nil, 0, false
		}
		return v.Value, v.Status, true
	}
	return nil, 0, false
}

// cstring splits b at its first NUL byte, returning the string before
// it and the remaining bytes; ok is false if b has no NUL.
func cstring(b []byte) (s string, rest []byte, ok bool) {
	for i, c := range b {
		if c == 0 {
			return string(b[:i]), b[i+1:], true
		}
	}
	return "", nil, false
}

// parseDiscoveryPayload decodes one ND response value:
// A16, A64, then either the mesh/point-to-point tail or the 802.15.4
// tail, depending on proto.
func parseDiscoveryPayload(value []byte, proto Protocol) (*RemoteNode, error) {
	if len(value) < 10 {
		return nil, &InvalidArgumentError{Argument: "ND payload", Reason: "shorter than address prefix"}
	}
	node := &RemoteNode{
		Addr16:   packet.NewA16(value[0:2]),
		Addr64:   packet.NewA64(value[2:10]),
		Protocol: proto,
	}
	tail := value[10:]

	if proto == Protocol802154 {
		if len(tail) < 1 {
			return nil, &InvalidArgumentError{Argument: "ND payload", Reason: "missing RSSI byte"}
		}
		node.RSSI = int8(tail[0])
		if ni, _, ok := cstring(tail[1:]); ok {
			node.NodeID = ni
		}
		return node, nil
	}

	ni, rest, ok := cstring(tail)
	if !ok {
		return nil, &InvalidArgumentError{Argument: "ND payload", Reason: "node identifier not NUL-terminated"}
	}
	node.NodeID = ni
	if len(rest) < 6 {
		// Some firmware omits the trailing fields; the address/NI
		// prefix is still usable.
		return node, nil
	}
	node.ParentAddr16 = packet.NewA16(rest[0:2])
	node.DeviceType = rest[2]
	node.Status = rest[3]
	node.Profile = packet.ProfileID(uint16(rest[4])<<8 | uint16(rest[5]))
	if len(rest) >= 8 {
		node.ManufacturerID = uint16(rest[6])<<8 | uint16(rest[7])
	}
	return node, nil
}

// usesEndMarkerOnly reports whether discovery should ignore any
// computed timeout and wait for the OK-empty end marker alone
// (802.15.4, or any radio with bit 1 of C8 set).
func (s *Session) usesEndMarkerOnly(ctx context.Context) bool {
	if s.protocol == Protocol802154 {
		return true
	}
	v, err := s.getLocal(ctx, atC8)
	return err == nil && len(v) > 0 && v[len(v)-1]&0x02 != 0
}

// computeDiscoveryTimeout implements the timeout calculation
// when no end marker is expected: prefer N?, else NT plus a
// protocol-specific safety margin, doubled (+10%) under DigiMesh
// sleep support. Falls back to a 20s default and a non-fatal
// DiscoveryError event if NT can't be read either.
func (s *Session) computeDiscoveryTimeout(ctx context.Context) time.Duration {
	if v, err := s.getLocal(ctx, atNQuery); err == nil && len(v) >= 2 {
		return time.Duration(beUint16(v)) * time.Millisecond
	}

	ntRaw, err := s.getLocal(ctx, atNT)
	if err != nil {
		s.bus.publish(DiscoveryError{Err: err}, s.onEventDrop)
		return discoveryDefaultMillis * time.Millisecond
	}
	t := time.Duration(beUint16(ntRaw)) * 100 * time.Millisecond

	switch s.protocol {
	case ProtocolDigiMesh:
		t += digiMeshDiscoveryMargin
	case ProtocolPointToMultipoint:
		t += ptmpDiscoveryMargin
	}

	if sm, err := s.getLocal(ctx, atSM); err == nil && len(sm) > 0 && sm[len(sm)-1] == 7 {
		t = time.Duration(float64(t) * sleepSupportMultiplier)
	}
	return t
}

// Discover issues ND (optionally filtered by nodeID) and collects
// responses until the end marker or the computed timeout elapses
// Every discovered node is folded into the network
// registry and published as DeviceDiscovered; the call also returns
// the collected nodes as a convenience. Cancelling ctx stops discovery
// cooperatively and is reported through DiscoveryFinished.
func (s *Session) Discover(ctx context.Context, nodeID string) ([]*RemoteNode, error) {
	if !s.opened.Load() {
		return nil, ErrInterfaceClosed
	}

	endMarkerOnly := s.usesEndMarkerOnly(ctx)
	var timer *time.Timer
	var deadline <-chan time.Time
	if !endMarkerOnly {
		timer = time.NewTimer(s.computeDiscoveryTimeout(ctx))
		defer timer.Stop()
		deadline = timer.C
	}

	id := s.nextFrameID()
	ch, unregister := s.registerWaiter(id, true)
	defer unregister()

	var value []byte
	if nodeID != "" {
		value = []byte(nodeID)
	}
	if err := s.sendAsync(&packet.ATCommandRequest{ID: id, Command: atND, Value: value}); err != nil {
		return nil, err
	}

	var nodes []*RemoteNode
	for {
		select {
		case resp, ok := <-ch:
			if !ok {
				s.bus.publish(DiscoveryFinished{Err: ErrInterfaceClosed}, s.onEventDrop)
				return nodes, ErrInterfaceClosed
			}
			respValue, status, matched := discoveryValue(resp)
			if !matched {
				continue
			}
			if status != packet.StatusOK {
				s.bus.publish(DiscoveryError{Err: &ATCommandError{Command: atND, Status: status}}, s.onEventDrop)
				continue
			}
			if len(respValue) == 0 {
				s.bus.publish(DiscoveryFinished{Err: nil}, s.onEventDrop)
				return nodes, nil
			}
			node, err := parseDiscoveryPayload(respValue, s.protocol)
			if err != nil {
				s.bus.publish(DiscoveryError{Err: err}, s.onEventDrop)
				continue
			}
			canonical := s.network.Add(node)
			nodes = append(nodes, canonical)
			s.bus.publish(DeviceDiscovered{Node: canonical}, s.onEventDrop)
		case <-deadline:
			s.bus.publish(DiscoveryFinished{Err: nil}, s.onEventDrop)
			return nodes, nil
		case <-ctx.Done():
			s.bus.publish(DiscoveryFinished{Err: ctx.Err()}, s.onEventDrop)
			return nodes, ctx.Err()
		case <-s.ctx.Done():
			return nodes, ErrInterfaceClosed
		}
	}
}
