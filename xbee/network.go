package xbee

import (
	"sync"

	"github.com/xbee-go/xbeeapi/packet"
)

// RemoteNode is the registry's record of a discovered or addressed
// remote device.
type RemoteNode struct {
	Addr64   packet.A64
	Addr16   packet.A16
	NodeID   string
	Protocol Protocol
	RSSI     int8

	// ParentAddr16, DeviceType, Status, Profile and ManufacturerID are
	// only populated by discovery (C8); zero values mean "not yet
	// observed" rather than "observed as zero".
	ParentAddr16   packet.A16
	DeviceType     byte
	Status         byte
	Profile        packet.ProfileID
	ManufacturerID uint16
}

// hasAddr64 reports whether n carries a known (non-UNKNOWN) A64.
func (n *RemoteNode) hasAddr64() bool {
	return !n.Addr64.IsUnknown() && n.Addr64 != (packet.A64{})
}

// merge folds non-zero fields of other into n in place, per the
// merge rule: non-null fields overwrite missing ones; a known A64 is
// never replaced by a different one.
func (n *RemoteNode) merge(other *RemoteNode) {
	if !n.hasAddr64() && other.hasAddr64() {
		n.Addr64 = other.Addr64
	}
	if n.Addr16 == (packet.A16{}) || n.Addr16.IsUnknown() {
		if other.Addr16 != (packet.A16{}) {
			n.Addr16 = other.Addr16
		}
	}
	if n.NodeID == "" && other.NodeID != "" {
		n.NodeID = other.NodeID
	}
	if n.Protocol == ProtocolUnknown && other.Protocol != ProtocolUnknown {
		n.Protocol = other.Protocol
	}
	if other.RSSI != 0 {
		n.RSSI = other.RSSI
	}
	if n.ParentAddr16 == (packet.A16{}) {
		n.ParentAddr16 = other.ParentAddr16
	}
	if n.DeviceType == 0 {
		n.DeviceType = other.DeviceType
	}
	if n.Status == 0 {
		n.Status = other.Status
	}
	if n.Profile == 0 {
		n.Profile = other.Profile
	}
	if n.ManufacturerID == 0 {
		n.ManufacturerID = other.ManufacturerID
	}
}

// network is the registry of C7: nodes keyed by A64 when known, else
// by A16, with insert-or-merge as a single atomic operation guarded by
// one mutex.
type network struct {
	mu     sync.Mutex
	byA64  map[packet.A64]*RemoteNode
	byA16  map[packet.A16]*RemoteNode
}

func newNetwork() *network {
	return &network{
		byA64: make(map[packet.A64]*RemoteNode),
		byA16: make(map[packet.A16]*RemoteNode),
	}
}

// Add inserts n, merging with any existing record for the same
// identity, and returns the canonical (possibly merged) instance.
func (nw *network) Add(n *RemoteNode) *RemoteNode {
	nw.mu.Lock()
	defer nw.mu.Unlock()

	if n.hasAddr64() {
		if existing, ok := nw.byA64[n.Addr64]; ok {
			existing.merge(n)
			if existing.Addr16 != (packet.A16{}) {
				nw.byA16[existing.Addr16] = existing
			}
			return existing
		}
		nw.byA64[n.Addr64] = n
		if n.Addr16 != (packet.A16{}) {
			nw.byA16[n.Addr16] = n
		}
		return n
	}

	if existing, ok := nw.byA16[n.Addr16]; ok {
		existing.merge(n)
		return existing
	}
	nw.byA16[n.Addr16] = n
	return n
}

// Remove deletes the entry for n's identity, if present.
func (nw *network) Remove(n *RemoteNode) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	if n.hasAddr64() {
		delete(nw.byA64, n.Addr64)
	}
	if n.Addr16 != (packet.A16{}) {
		delete(nw.byA16, n.Addr16)
	}
}

// Clear empties the registry.
func (nw *network) Clear() {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	nw.byA64 = make(map[packet.A64]*RemoteNode)
	nw.byA16 = make(map[packet.A16]*RemoteNode)
}

// GetByAddr64 looks up a node by its 64-bit address.
func (nw *network) GetByAddr64(a packet.A64) (*RemoteNode, bool) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	n, ok := nw.byA64[a]
	return n, ok
}

// GetByAddr16 looks up a node by its 16-bit address, scanning by-A64
// entries first since they carry the authoritative Addr16 field.
func (nw *network) GetByAddr16(a packet.A16) (*RemoteNode, bool) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	for _, n := range nw.byA64 {
		if n.Addr16 == a {
			return n, true
		}
	}
	n, ok := nw.byA16[a]
	return n, ok
}

// GetByNodeID returns the first node whose NodeID matches id.
func (nw *network) GetByNodeID(id string) (*RemoteNode, bool) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	for _, n := range nw.byA64 {
		if n.NodeID == id {
			return n, true
		}
	}
	for _, n := range nw.byA16 {
		if n.NodeID == id {
			return n, true
		}
	}
	return nil, false
}

// Size returns the number of distinct nodes in the registry.
func (nw *network) Size() int {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	seen := make(map[*RemoteNode]bool, len(nw.byA64)+len(nw.byA16))
	for _, n := range nw.byA64 {
		seen[n] = true
	}
	for _, n := range nw.byA16 {
		seen[n] = true
	}
	return len(seen)
}
