package xbee

import (
	"bytes"
	"context"
	"time"

	"github.com/xbee-go/xbeeapi/packet"
)

// pendingKey correlates a waiting request with its response by frame
// ID. The expected response
// frame type is checked by the waiter itself rather than folded into
// the key, so a discovery listener and a single send_sync waiter never
// need different key shapes.
type pendingKey byte

// waiter is a registered recipient for frames carrying a given frame
// ID. multi listeners (the discovery engine) stay registered across
// several deliveries; single listeners (send_sync) are removed after
// their first accepted match.
type waiter struct {
	ch    chan packet.Packet
	multi bool
}

// registerWaiter installs a listener for frameID and returns its
// channel and a function to unregister it.
func (s *Session) registerWaiter(frameID byte, multi bool) (<-chan packet.Packet, func()) {
	bufSize := 1
	if multi {
		bufSize = 32
	}
	ch := make(chan packet.Packet, bufSize)
	key := pendingKey(frameID)
	s.pendingMu.Lock()
	s.waiters[key] = &waiter{ch: ch, multi: multi}
	s.pendingMu.Unlock()
	return ch, func() {
		s.pendingMu.Lock()
		delete(s.waiters, key)
		s.pendingMu.Unlock()
	}
}

// SendAsync serializes p and writes it to the transport without
// waiting for a response.
func (s *Session) SendAsync(p packet.Packet) error {
	if !s.opened.Load() {
		return ErrInterfaceClosed
	}
	return s.write(p)
}

// sendAsync is SendAsync's body without the opened check, for the
// same reason sendSync exists.
func (s *Session) sendAsync(p packet.Packet) error {
	return s.write(p)
}

// responseTypeFor returns the frame type a synchronous sender should
// wait for, given the request's type.
func responseTypeFor(t packet.FrameType) (packet.FrameType, bool) {
	switch t {
	case packet.TypeATCommand, packet.TypeATCommandQueue:
		return packet.TypeATCommandResponse, true
	case packet.TypeRemoteATCommand:
		return packet.TypeRemoteATResponse, true
	case packet.TypeTransmit, packet.TypeExplicitAddressing:
		return packet.TypeTransmitStatus, true
	case packet.TypeTX64, packet.TypeTX16:
		return packet.TypeTXStatus, true
	}
	return 0, false
}

func atCommandOf(p packet.Packet) (packet.ATCommand, bool) {
	switch v := p.(type) {
	case *packet.ATCommandRequest:
		return v.Command, true
	case *packet.ATCommandQueueRequest:
		return v.Command, true
	case *packet.ATCommandResponse:
		return v.Command, true
	case *packet.RemoteATCommandRequest:
		return v.Command, true
	case *packet.RemoteATCommandResponse:
		return v.Command, true
	}
	return packet.ATCommand{}, false
}

// SendSync writes p and blocks up to the session's receive timeout for
// the correlated response. If p doesn't need a
// frame ID, it degrades to SendAsync and returns (nil, nil).
func (s *Session) SendSync(ctx context.Context, p packet.Packet) (packet.Packet, error) {
	if !s.opened.Load() {
		return nil, ErrInterfaceClosed
	}
	return s.sendSync(ctx, p)
}

// sendSync is SendSync's body without the opened check, so the device
// core's open-sequence handshake (mode determination, device info)
// can use it before the session is marked opened.
func (s *Session) sendSync(ctx context.Context, p packet.Packet) (packet.Packet, error) {
	if !p.NeedsFrameID() {
		return nil, s.sendAsync(p)
	}
	respType, ok := responseTypeFor(p.FrameType())
	if !ok {
		return nil, s.sendAsync(p)
	}

	ch, unregister := s.registerWaiter(p.FrameID(), false)
	defer unregister()

	sentBytes := p.SerializePayload()
	reqCmd, reqIsAT := atCommandOf(p)

	if err := s.write(p); err != nil {
		return nil, err
	}

	timer := time.NewTimer(s.receiveTimeout)
	defer timer.Stop()

	for {
		select {
		case resp, ok := <-ch:
			if !ok {
				return nil, ErrInterfaceClosed
			}
			if resp.FrameType() != respType {
				continue
			}
			// Echo rejection: the response
			// must not be byte-identical to what we sent.
			if bytes.Equal(resp.SerializePayload(), sentBytes) {
				continue
			}
			if reqIsAT {
				if respCmd, ok := atCommandOf(resp); !ok || !reqCmd.EqualFold(respCmd) {
					continue
				}
			}
			return resp, nil
		case <-timer.C:
			return nil, &TimeoutError{Op: "send_sync"}
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.ctx.Done():
			return nil, ErrInterfaceClosed
		}
	}
}

// SendAndCheck performs SendSync for a transmit request and fails
// unless the resulting transmit-status reports success or
// self-addressed delivery.
func (s *Session) SendAndCheck(ctx context.Context, p packet.Packet) error {
	resp, err := s.SendSync(ctx, p)
	if err != nil {
		return err
	}
	var status packet.DeliveryStatus
	switch v := resp.(type) {
	case *packet.TransmitStatus:
		status = v.DeliveryStatus
	case *packet.TXStatusLegacy:
		status = v.DeliveryStatus
	default:
		return &TimeoutError{Op: "send_and_check: unexpected response type"}
	}
	if !status.Success() {
		return &TransmitFailedError{Status: status}
	}
	return nil
}

// resolvePending delivers resp to the waiter registered for its frame
// ID, if any. Returns true if a waiter accepted it; the reader
// publishes every frame as an event either way. Multi listeners stay
// registered; single listeners are left in
// place for the caller (SendSync) to unregister on its own return path.
func (s *Session) resolvePending(resp packet.Packet) bool {
	if resp.FrameID() == 0 {
		return false
	}
	key := pendingKey(resp.FrameID())
	s.pendingMu.Lock()
	w, ok := s.waiters[key]
	s.pendingMu.Unlock()
	if !ok {
		return false
	}
	select {
	case w.ch <- resp:
		return true
	default:
		return false
	}
}
