package xbee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveProtocolZigBeeVsZNet(t *testing.T) {
	assert.Equal(t, ProtocolZigBee, DeriveProtocol(0x1941, 0x2100))
	assert.Equal(t, ProtocolZNet, DeriveProtocol(0x1941, 0x1A00))
}

func TestDeriveProtocol802154(t *testing.T) {
	assert.Equal(t, Protocol802154, DeriveProtocol(0x1E42, 0x1234))
}

func TestDeriveProtocolDigiMesh(t *testing.T) {
	assert.Equal(t, ProtocolDigiMesh, DeriveProtocol(0x2357, 0x9001))
}

func TestDeriveProtocolUnknownOutsideTable(t *testing.T) {
	assert.Equal(t, ProtocolUnknown, DeriveProtocol(0x0001, 0x0001))
}

func TestHas16BitAddress(t *testing.T) {
	assert.True(t, ProtocolZigBee.Has16BitAddress())
	assert.True(t, Protocol802154.Has16BitAddress())
	assert.False(t, ProtocolDigiMesh.Has16BitAddress())
}
