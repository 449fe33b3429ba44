package packet

import (
	"encoding/binary"
	"fmt"
)

// A64 is a module's unique 64-bit address.
type A64 [8]byte

// Well-known A64 values.
var (
	A64Broadcast   = A64{0, 0, 0, 0, 0, 0, 0xFF, 0xFF}
	A64Coordinator = A64{}
	A64Unknown     = A64{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
)

// NewA64 builds an A64 from its big-endian byte representation. It
// panics if b is not exactly 8 bytes, trusting callers to have already
// validated frame length.
func NewA64(b []byte) A64 {
	var a A64
	if len(b) != 8 {
		panic(fmt.Sprintf("packet: A64 requires 8 bytes, got %d", len(b)))
	}
	copy(a[:], b)
	return a
}

// A64FromUint64 builds an A64 from its integer value.
func A64FromUint64(v uint64) A64 {
	var a A64
	binary.BigEndian.PutUint64(a[:], v)
	return a
}

// Uint64 returns the address as a 64-bit integer.
func (a A64) Uint64() uint64 {
	return binary.BigEndian.Uint64(a[:])
}

// IsUnknown reports whether a equals A64Unknown.
func (a A64) IsUnknown() bool {
	return a == A64Unknown
}

// IsBroadcast reports whether a equals A64Broadcast.
func (a A64) IsBroadcast() bool {
	return a == A64Broadcast
}

func (a A64) String() string {
	return fmt.Sprintf("%016X", a[:])
}

// Bytes returns the 8-byte big-endian wire representation.
func (a A64) Bytes() []byte {
	out := make([]byte, 8)
	copy(out, a[:])
	return out
}

// A16 is a module's 16-bit network address, meaningful only for
// protocols that have one (ZigBee, 802.15.4, XTend, SmartEnergy, ZNet).
type A16 [2]byte

// Well-known A16 values.
var (
	A16Broadcast = A16{0xFF, 0xFF}
	A16Unknown   = A16{0xFF, 0xFE}
)

// NewA16 builds an A16 from its big-endian byte representation.
func NewA16(b []byte) A16 {
	var a A16
	if len(b) != 2 {
		panic(fmt.Sprintf("packet: A16 requires 2 bytes, got %d", len(b)))
	}
	copy(a[:], b)
	return a
}

// A16FromUint16 builds an A16 from its integer value.
func A16FromUint16(v uint16) A16 {
	var a A16
	binary.BigEndian.PutUint16(a[:], v)
	return a
}

// Uint16 returns the address as a 16-bit integer.
func (a A16) Uint16() uint16 {
	return binary.BigEndian.Uint16(a[:])
}

// IsUnknown reports whether a equals A16Unknown.
func (a A16) IsUnknown() bool {
	return a == A16Unknown
}

// IsBroadcast reports whether a equals A16Broadcast.
func (a A16) IsBroadcast() bool {
	return a == A16Broadcast
}

func (a A16) String() string {
	return fmt.Sprintf("%04X", a[:])
}

// Bytes returns the 2-byte big-endian wire representation.
func (a A16) Bytes() []byte {
	out := make([]byte, 2)
	copy(out, a[:])
	return out
}
