// Package zigbee is a thin convenience wrapper over xbee.Session for
// callers that only ever talk to ZigBee/ZNet devices. It adds no
// framing or correlation logic of its own.
package zigbee

import (
	"context"

	"github.com/xbee-go/xbeeapi/packet"
	"github.com/xbee-go/xbeeapi/transport"
	"github.com/xbee-go/xbeeapi/xbee"
)

// Device wraps an opened xbee.Session known (or expected) to be
// running ZigBee or ZNet firmware.
type Device struct {
	session *xbee.Session
}

// Open opens a session against t and wraps it as a ZigBee/ZNet Device,
// closing the session if the radio turns out to report a different
// protocol.
func Open(ctx context.Context, t transport.Transport, opts ...xbee.Option) (*Device, error) {
	s, err := xbee.Open(ctx, t, opts...)
	if err != nil {
		return nil, err
	}
	d, err := Wrap(s)
	if err != nil {
		s.Close()
		return nil, err
	}
	return d, nil
}

// Wrap adapts an already-open session into a Device, failing if its
// derived protocol isn't ZigBee or ZNet.
func Wrap(s *xbee.Session) (*Device, error) {
	switch s.Protocol() {
	case xbee.ProtocolZigBee, xbee.ProtocolZNet:
		return &Device{session: s}, nil
	default:
		return nil, &xbee.OperationNotSupportedError{
			Operation: "zigbee.Wrap",
			Reason:    "session protocol is " + s.Protocol().String() + ", not ZigBee/ZNet",
		}
	}
}

// Discover runs node discovery and returns every responding node.
func (d *Device) Discover(ctx context.Context) ([]*xbee.RemoteNode, error) {
	return d.session.Discover(ctx, "")
}

// SendTo transmits data to a known remote node using the modern
// 64+16-bit addressed transmit frame, waiting for delivery
// confirmation.
func (d *Device) SendTo(ctx context.Context, node *xbee.RemoteNode, data []byte) error {
	return d.session.SendDataAndCheck(ctx, node, data)
}

// Broadcast transmits data to every node on the PAN.
func (d *Device) Broadcast(ctx context.Context, data []byte) error {
	return d.session.SendDataAndCheck(ctx, &xbee.RemoteNode{
		Addr64: packet.A64Broadcast,
		Addr16: packet.A16Broadcast,
	}, data)
}

// NodeIdentifier returns the locally cached node identifier.
func (d *Device) NodeIdentifier() string { return d.session.NodeID() }

// SetNodeIdentifier sets NI on the local radio.
func (d *Device) SetNodeIdentifier(ctx context.Context, id string) error {
	return d.session.SetParameter(ctx, packet.NewATCommand("NI"), []byte(id))
}
