package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundtripAllVariants(t *testing.T) {
	variants := []Packet{
		&ATCommandRequest{ID: 1, Command: NewATCommand("NI")},
		&ATCommandQueueRequest{ID: 1, Command: NewATCommand("D0"), Value: []byte{0x05}},
		&ATCommandResponse{ID: 1, Command: NewATCommand("NI"), Status: StatusOK, Value: []byte("Router")},
		&RemoteATCommandRequest{ID: 1, Dest64: A64Broadcast, Dest16: A16Unknown, Options: RemoteATApplyChanges, Command: NewATCommand("D0")},
		&RemoteATCommandResponse{ID: 1, Source64: A64Coordinator, Source16: A16FromUint16(0), Command: NewATCommand("D0"), Status: StatusOK},
		&TransmitRequest{ID: 1, Dest64: A64Broadcast, Dest16: A16Broadcast, Data: []byte("hi")},
		&TX64Request{ID: 1, Dest64: A64Broadcast, Data: []byte("hi")},
		&TX16Request{ID: 1, Dest16: A16Broadcast, Data: []byte("hi")},
		&TransmitStatus{ID: 1, Dest16: A16Unknown, DeliveryStatus: DeliverySuccess, DiscoveryStatus: DiscoveryNone},
		&TXStatusLegacy{ID: 1, DeliveryStatus: DeliverySuccess},
		&ReceiveIndicator{Source64: A64Coordinator, Source16: A16Unknown, Options: ReceiveBroadcastPAN, Data: []byte("hi")},
		&RX64Legacy{Source64: A64Coordinator, RSSI: 0x20, Data: []byte("hi")},
		&RX16Legacy{Source16: A16Unknown, RSSI: 0x20, Data: []byte("hi")},
		&ModemStatusIndicator{Status: ModemJoinedNetwork},
		&ExplicitAddressingRequest{ID: 1, Dest64: A64Broadcast, Dest16: A16Broadcast, Cluster: 0x0011, Profile: 0xC105, Data: []byte("hi")},
		&ExplicitRXIndicator{Source64: A64Coordinator, Source16: A16Unknown, Cluster: 0x0011, Profile: 0xC105, Data: []byte("hi")},
		&UserDataRelayRequest{ID: 1, Dest: RelayBluetooth, Data: []byte("hi")},
		&UserDataRelayOutput{Source: RelayBluetooth, Data: []byte("hi")},
		&TXSMSRequest{ID: 1, PhoneNumber: "15551234567", Data: []byte("hello")},
		&RXSMSIndicator{PhoneNumber: "15551234567", Data: []byte("hello")},
	}

	for _, want := range variants {
		raw := want.SerializePayload()
		got, err := Parse(raw)
		require.NoError(t, err, "%T", want)
		assert.Equal(t, want, got, "%T", want)
	}
}

func TestParseIOSampleVariants(t *testing.T) {
	sample := IOSample{
		DigitalMask:    0x0003,
		AnalogMask:     0x01,
		DigitalSamples: 0x0001,
		AnalogSamples:  []uint16{512},
	}

	modern := &IOSampleIndicator{Source64: A64Coordinator, Source16: A16Unknown, Sample: sample}
	got, err := Parse(modern.SerializePayload())
	require.NoError(t, err)
	assert.Equal(t, modern, got)

	legacy64 := &RX64IOLegacy{Source64: A64Coordinator, RSSI: 0x1A, Sample: sample}
	got, err = Parse(legacy64.SerializePayload())
	require.NoError(t, err)
	assert.Equal(t, legacy64, got)

	legacy16 := &RX16IOLegacy{Source16: A16Unknown, RSSI: 0x1A, Sample: sample}
	got, err = Parse(legacy16.SerializePayload())
	require.NoError(t, err)
	assert.Equal(t, legacy16, got)
}

func TestIOSampleAccessors(t *testing.T) {
	s := IOSample{
		DigitalMask:    0b0101,
		DigitalSamples: 0b0001,
		AnalogMask:     0b0010,
		AnalogSamples:  []uint16{777},
	}
	assert.True(t, s.DigitalSet(0))
	assert.False(t, s.DigitalSet(1))
	assert.True(t, s.DigitalSet(2))
	assert.True(t, s.DigitalHigh(0))
	assert.False(t, s.DigitalHigh(2))

	v, ok := s.AnalogValue(1)
	assert.True(t, ok)
	assert.EqualValues(t, 777, v)

	_, ok = s.AnalogValue(0)
	assert.False(t, ok)
}

func TestParseUnknownFrameType(t *testing.T) {
	got, err := Parse([]byte{0xFE, 0x01, 0x02})
	require.NoError(t, err)
	unk, ok := got.(UnknownFrame)
	require.True(t, ok)
	assert.Equal(t, FrameType(0xFE), unk.FrameType())
}

func TestParseEmptyFrame(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)
}

func TestParseShortFrameIsMalformed(t *testing.T) {
	_, err := Parse([]byte{byte(TypeTransmit), 0x01})
	require.Error(t, err)
	var mp *MalformedPacketError
	require.ErrorAs(t, err, &mp)
	assert.Equal(t, TypeTransmit, mp.Type)
}

func TestIsBroadcastAcrossVariants(t *testing.T) {
	cases := []struct {
		name string
		pkt  Packet
		want bool
	}{
		{"transmit unicast", &TransmitRequest{Dest64: A64Coordinator, Dest16: A16FromUint16(0x1234)}, false},
		{"transmit broadcast64", &TransmitRequest{Dest64: A64Broadcast, Dest16: A16FromUint16(0x1234)}, true},
		{"receive broadcast pan", &ReceiveIndicator{Options: ReceiveBroadcastPAN}, true},
		{"receive unicast", &ReceiveIndicator{Options: ReceiveAcknowledged}, false},
		{"remote at broadcast16", &RemoteATCommandRequest{Dest64: A64Coordinator, Dest16: A16Broadcast}, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.pkt.IsBroadcast(), c.name)
	}
}

func TestFrameIDSuppression(t *testing.T) {
	p := &ATCommandRequest{ID: 0, Command: NewATCommand("NI")}
	assert.False(t, p.NeedsFrameID())
	p.ID = 1
	assert.True(t, p.NeedsFrameID())
}

func TestATCommandEqualFoldIgnoresCase(t *testing.T) {
	a := NewATCommand("ni")
	b := NewATCommand("NI")
	assert.True(t, a.EqualFold(b))
	assert.False(t, a.EqualFold(NewATCommand("HV")))
}

func TestDeliveryStatusSuccess(t *testing.T) {
	assert.True(t, DeliverySuccess.Success())
	assert.True(t, DeliverySelfAddressed.Success())
	assert.False(t, DeliveryAddressNotFound.Success())
}
