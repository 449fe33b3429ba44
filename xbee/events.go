package xbee

import (
	"sync"

	"github.com/xbee-go/xbeeapi/packet"
)

// Event is the common type of every value delivered on a Session's
// event channels. One broadcast bus serves every subscriber and event
// kind, preserving arrival order across subscribers.
type Event interface{ isEvent() }

type baseEvent struct{}

func (baseEvent) isEvent() {}

// PacketReceived fires for every successfully parsed frame.
type PacketReceived struct {
	baseEvent
	Packet packet.Packet
}

// DataReceived fires for Receive / RX64 / RX16 variants.
type DataReceived struct {
	baseEvent
	Source64    packet.A64
	Source16    packet.A16
	Data        []byte
	IsBroadcast bool
}

// IOSampleReceived fires for the modern and legacy I/O sample variants.
type IOSampleReceived struct {
	baseEvent
	Source64 packet.A64
	Source16 packet.A16
	Sample   packet.IOSample
}

// ModemStatusReceived fires for modem-status indicators.
type ModemStatusReceived struct {
	baseEvent
	Status packet.ModemStatus
}

// ExplicitDataReceived fires for explicit-RX indicators.
type ExplicitDataReceived struct {
	baseEvent
	Source64       packet.A64
	Source16       packet.A16
	SourceEndpoint packet.Endpoint
	DestEndpoint   packet.Endpoint
	Cluster        packet.ClusterID
	Profile        packet.ProfileID
	Data           []byte
	IsBroadcast    bool
}

// UserDataRelayReceived fires for every relay output frame, regardless
// of source interface.
type UserDataRelayReceived struct {
	baseEvent
	Source packet.RelayInterface
	Data   []byte
}

// BluetoothDataReceived, MicroPythonDataReceived and SerialDataReceived
// additionally fire alongside UserDataRelayReceived, keyed by the
// relay frame's source interface.
type BluetoothDataReceived struct {
	baseEvent
	Data []byte
}

type MicroPythonDataReceived struct {
	baseEvent
	Data []byte
}

type SerialDataReceived struct {
	baseEvent
	Data []byte
}

// IPDataReceived fires for RX-IPv4 indicators.
type IPDataReceived struct {
	baseEvent
	Indicator *packet.RXIPv4Indicator
}

// SMSReceived fires for RX-SMS indicators.
type SMSReceived struct {
	baseEvent
	Indicator *packet.RXSMSIndicator
}

// DeviceDiscovered, DiscoveryError and DiscoveryFinished are emitted by
// the discovery engine.
type DeviceDiscovered struct {
	baseEvent
	Node *RemoteNode
}

type DiscoveryError struct {
	baseEvent
	Err error
}

type DiscoveryFinished struct {
	baseEvent
	Err error
}

// eventBus fans a single Event out to however many subscribers are
// registered, preserving arrival order: the reader goroutine is the
// sole producer and delivers to every subscriber channel in
// registration order before moving to the next frame. A full
// subscriber channel is dropped-and-logged rather than blocking the
// reader indefinitely. subs is guarded by mu since Subscribe is a
// public method application code can call concurrently with the
// reader's publish/closeAll.
type eventBus struct {
	mu   sync.Mutex
	subs []chan Event
}

func newEventBus() *eventBus {
	return &eventBus{}
}

// Subscribe returns a channel that receives every Event published
// after this call. The channel has modest buffering; a slow consumer
// experiences drops, not reordering.
func (b *eventBus) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *eventBus) publish(ev Event, onDrop func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			if onDrop != nil {
				onDrop()
			}
		}
	}
}

func (b *eventBus) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		close(ch)
	}
}
