package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestA64WellKnownValues(t *testing.T) {
	assert.True(t, A64Broadcast.IsBroadcast())
	assert.True(t, A64Unknown.IsUnknown())
	assert.False(t, A64Coordinator.IsBroadcast())
	assert.Equal(t, "FFFFFFFFFFFFFFFF", A64Unknown.String())
}

func TestA64RoundtripUint64(t *testing.T) {
	a := A64FromUint64(0x0013A20012345678)
	assert.Equal(t, uint64(0x0013A20012345678), a.Uint64())
	assert.Equal(t, a, NewA64(a.Bytes()))
}

func TestA16WellKnownValues(t *testing.T) {
	assert.True(t, A16Broadcast.IsBroadcast())
	assert.True(t, A16Unknown.IsUnknown())
	assert.Equal(t, "FFFE", A16Unknown.String())
}

func TestA16RoundtripUint16(t *testing.T) {
	a := A16FromUint16(0x1234)
	assert.Equal(t, uint16(0x1234), a.Uint16())
	assert.Equal(t, a, NewA16(a.Bytes()))
}

func TestNewA64PanicsOnBadLength(t *testing.T) {
	assert.Panics(t, func() { NewA64([]byte{1, 2, 3}) })
}

func TestNewA16PanicsOnBadLength(t *testing.T) {
	assert.Panics(t, func() { NewA16([]byte{1, 2, 3}) })
}
