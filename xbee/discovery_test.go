package xbee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xbee-go/xbeeapi/packet"
)

func TestParseDiscoveryPayloadMeshFull(t *testing.T) {
	value := []byte{
		0x12, 0x34, // A16
		1, 2, 3, 4, 5, 6, 7, 8, // A64
		'N', 'o', 'd', 'e', 0, // NUL-terminated NI
		0xFF, 0xFE, // parent A16 (none)
		0x01,       // device type
		0x00,       // status
		0xC1, 0x05, // profile
		0x10, 0x1E, // manufacturer id
	}
	node, err := parseDiscoveryPayload(value, ProtocolZigBee)
	require.NoError(t, err)
	assert.Equal(t, packet.NewA16([]byte{0x12, 0x34}), node.Addr16)
	assert.Equal(t, packet.NewA64([]byte{1, 2, 3, 4, 5, 6, 7, 8}), node.Addr64)
	assert.Equal(t, "Node", node.NodeID)
	assert.Equal(t, packet.NewA16([]byte{0xFF, 0xFE}), node.ParentAddr16)
	assert.EqualValues(t, 0x01, node.DeviceType)
	assert.Equal(t, packet.ProfileID(0xC105), node.Profile)
	assert.EqualValues(t, 0x101E, node.ManufacturerID)
}

func TestParseDiscoveryPayloadMeshShortTailStillUsable(t *testing.T) {
	value := []byte{
		0x00, 0x00,
		8, 8, 8, 8, 8, 8, 8, 8,
		'X', 0,
	}
	node, err := parseDiscoveryPayload(value, ProtocolDigiMesh)
	require.NoError(t, err)
	assert.Equal(t, "X", node.NodeID)
	assert.Equal(t, packet.A16{}, node.ParentAddr16)
}

func TestParseDiscoveryPayload802154(t *testing.T) {
	value := []byte{
		0xAB, 0xCD,
		1, 1, 1, 1, 1, 1, 1, 1,
		0xE2, // RSSI byte (signed)
		'R', 'a', 'd', 'i', 'o', 0,
	}
	node, err := parseDiscoveryPayload(value, Protocol802154)
	require.NoError(t, err)
	assert.Equal(t, int8(-30), node.RSSI)
	assert.Equal(t, "Radio", node.NodeID)
}

func TestParseDiscoveryPayloadTooShortErrors(t *testing.T) {
	_, err := parseDiscoveryPayload([]byte{1, 2, 3}, ProtocolZigBee)
	assert.Error(t, err)
}

func TestParseDiscoveryPayloadMeshMissingNULErrors(t *testing.T) {
	value := []byte{0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 'n', 'o', 'n', 'u', 'l'}
	_, err := parseDiscoveryPayload(value, ProtocolZigBee)
	assert.Error(t, err)
}

func TestDiscoveryValueMatchesNDOnly(t *testing.T) {
	ndResp := &packet.ATCommandResponse{Command: atND, Status: packet.StatusOK, Value: []byte{1}}
	value, status, ok := discoveryValue(ndResp)
	require.True(t, ok)
	assert.Equal(t, packet.StatusOK, status)
	assert.Equal(t, []byte{1}, value)

	otherResp := &packet.ATCommandResponse{Command: atNI, Status: packet.StatusOK}
	_, _, ok = discoveryValue(otherResp)
	assert.False(t, ok)
}

func TestCstring(t *testing.T) {
	s, rest, ok := cstring([]byte("abc\x00def"))
	require.True(t, ok)
	assert.Equal(t, "abc", s)
	assert.Equal(t, []byte("def"), rest)

	_, _, ok = cstring([]byte("no-nul"))
	assert.False(t, ok)
}
