package xbee

import (
	"net"
	"sync"
	"time"

	"github.com/xbee-go/xbeeapi/packet"
)

// defaultQueueSize is the bounded FIFO's capacity under the
// drop-oldest overflow policy.
const defaultQueueSize = 50

// packetQueue is the bounded lookaside queue of C4: a drop-oldest FIFO
// supporting filtered blocking gets that skip non-matching packets
// while leaving them in place for a later call with a different
// filter.
type packetQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []packet.Packet
	maxSize int
	closed  bool
}

func newPacketQueue(size int) *packetQueue {
	if size <= 0 {
		size = defaultQueueSize
	}
	q := &packetQueue{maxSize: size}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// put enqueues p, dropping the oldest entry if the queue is full.
func (q *packetQueue) put(p packet.Packet) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	if len(q.items) >= q.maxSize {
		q.items = q.items[1:]
	}
	q.items = append(q.items, p)
	q.cond.Broadcast()
}

func (q *packetQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// waitMatch blocks up to timeout for an item satisfying match, removing
// it from the queue and returning it. Non-matching items stay queued in
// their original relative order so other filters still see them.
func (q *packetQueue) waitMatch(timeout time.Duration, match func(packet.Packet) bool) (packet.Packet, bool) {
	deadline := time.Now().Add(timeout)

	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		for i, it := range q.items {
			if match(it) {
				q.items = append(q.items[:i:i], q.items[i+1:]...)
				return it, true
			}
		}
		if q.closed {
			return nil, false
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, false
		}
		waitOnCond(q.cond, remaining)
	}
}

// waitOnCond blocks on cond for at most d, independent of sync.Cond's
// lack of a native timed wait: a helper goroutine wakes the cond after
// d elapses so the caller's loop re-checks its deadline.
func waitOnCond(cond *sync.Cond, d time.Duration) {
	timer := time.AfterFunc(d, cond.Broadcast)
	defer timer.Stop()
	cond.Wait()
}

func isDataPacket(p packet.Packet) bool {
	switch p.(type) {
	case *packet.ReceiveIndicator, *packet.RX64Legacy, *packet.RX16Legacy:
		return true
	}
	return false
}

func dataPacketSource(p packet.Packet) (packet.A64, bool) {
	switch v := p.(type) {
	case *packet.ReceiveIndicator:
		return v.Source64, true
	case *packet.RX64Legacy:
		return v.Source64, true
	}
	return packet.A64{}, false
}

func isExplicitDataPacket(p packet.Packet) bool {
	_, ok := p.(*packet.ExplicitRXIndicator)
	return ok
}

func isIPDataPacket(p packet.Packet) bool {
	_, ok := p.(*packet.RXIPv4Indicator)
	return ok
}

func isUserDataRelayPacket(p packet.Packet) bool {
	_, ok := p.(*packet.UserDataRelayOutput)
	return ok
}

// firstDataPacket returns the next Receive/RX64/RX16 packet, blocking
// up to timeout.
func (q *packetQueue) firstDataPacket(timeout time.Duration) (packet.Packet, bool) {
	return q.waitMatch(timeout, isDataPacket)
}

// firstDataPacketFrom returns the next data packet from addr, blocking
// up to timeout.
func (q *packetQueue) firstDataPacketFrom(addr packet.A64, timeout time.Duration) (packet.Packet, bool) {
	return q.waitMatch(timeout, func(p packet.Packet) bool {
		src, ok := dataPacketSource(p)
		return ok && src == addr && isDataPacket(p)
	})
}

func (q *packetQueue) firstExplicitDataPacket(timeout time.Duration) (*packet.ExplicitRXIndicator, bool) {
	p, ok := q.waitMatch(timeout, isExplicitDataPacket)
	if !ok {
		return nil, false
	}
	return p.(*packet.ExplicitRXIndicator), true
}

func (q *packetQueue) firstExplicitDataPacketFrom(addr packet.A64, timeout time.Duration) (*packet.ExplicitRXIndicator, bool) {
	p, ok := q.waitMatch(timeout, func(p packet.Packet) bool {
		ind, ok := p.(*packet.ExplicitRXIndicator)
		return ok && ind.Source64 == addr
	})
	if !ok {
		return nil, false
	}
	return p.(*packet.ExplicitRXIndicator), true
}

func (q *packetQueue) firstIPDataPacket(timeout time.Duration) (*packet.RXIPv4Indicator, bool) {
	p, ok := q.waitMatch(timeout, isIPDataPacket)
	if !ok {
		return nil, false
	}
	return p.(*packet.RXIPv4Indicator), true
}

func (q *packetQueue) firstIPDataPacketFrom(ip net.IP, timeout time.Duration) (*packet.RXIPv4Indicator, bool) {
	p, ok := q.waitMatch(timeout, func(p packet.Packet) bool {
		ind, ok := p.(*packet.RXIPv4Indicator)
		return ok && ind.SourceIP.Equal(ip)
	})
	if !ok {
		return nil, false
	}
	return p.(*packet.RXIPv4Indicator), true
}

func (q *packetQueue) firstUserDataRelayPacket(timeout time.Duration) (*packet.UserDataRelayOutput, bool) {
	p, ok := q.waitMatch(timeout, isUserDataRelayPacket)
	if !ok {
		return nil, false
	}
	return p.(*packet.UserDataRelayOutput), true
}
