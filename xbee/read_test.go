package xbee

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xbee-go/xbeeapi/packet"
)

func TestReadDataReturnsQueuedFrame(t *testing.T) {
	s, tr, stop := newLiveTestSession(t)
	defer stop()
	s.opened.Store(true)

	src := packet.NewA64([]byte{0, 0, 0, 0, 0, 0, 0, 1})
	require.NoError(t, tr.reply((&packet.ReceiveIndicator{
		Source64: src, Data: []byte("hello"),
	}).SerializePayload(), false))

	require.Eventually(t, func() bool { return s.queue != nil }, time.Second, time.Millisecond)

	got, err := s.ReadData(time.Second)
	require.NoError(t, err)
	assert.Equal(t, src, got.Source64)
	assert.Equal(t, []byte("hello"), got.Data)
}

func TestReadDataFromIgnoresOtherSources(t *testing.T) {
	s, tr, stop := newLiveTestSession(t)
	defer stop()
	s.opened.Store(true)

	other := packet.NewA64([]byte{0, 0, 0, 0, 0, 0, 0, 2})
	want := packet.NewA64([]byte{0, 0, 0, 0, 0, 0, 0, 3})
	require.NoError(t, tr.reply((&packet.ReceiveIndicator{Source64: other, Data: []byte("nope")}).SerializePayload(), false))
	require.NoError(t, tr.reply((&packet.ReceiveIndicator{Source64: want, Data: []byte("yes")}).SerializePayload(), false))

	got, err := s.ReadDataFrom(want, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("yes"), got.Data)

	// The earlier, non-matching frame is still queued for a generic read.
	any, err := s.ReadData(time.Second)
	require.NoError(t, err)
	assert.Equal(t, other, any.Source64)
}

func TestReadDataTimesOutWithNoFrame(t *testing.T) {
	s, _, stop := newLiveTestSession(t)
	defer stop()
	s.opened.Store(true)

	_, err := s.ReadData(20 * time.Millisecond)
	require.Error(t, err)
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestReadDataFailsWhenNotOpened(t *testing.T) {
	s, _, stop := newLiveTestSession(t)
	defer stop()

	_, err := s.ReadData(time.Second)
	assert.ErrorIs(t, err, ErrInterfaceClosed)
}

func TestReadExplicitDataReturnsIndicator(t *testing.T) {
	s, tr, stop := newLiveTestSession(t)
	defer stop()
	s.opened.Store(true)

	src := packet.NewA64([]byte{0, 0, 0, 0, 0, 0, 0, 4})
	require.NoError(t, tr.reply((&packet.ExplicitRXIndicator{
		Source64: src, Data: []byte("ex"),
	}).SerializePayload(), false))

	got, err := s.ReadExplicitData(time.Second)
	require.NoError(t, err)
	assert.Equal(t, src, got.Source64)
	assert.Equal(t, []byte("ex"), got.Data)
}

func TestReadIPDataFromMatchesByIP(t *testing.T) {
	s, tr, stop := newLiveTestSession(t)
	defer stop()
	s.opened.Store(true)

	wantIP := net.IPv4(192, 168, 1, 5).To4()
	require.NoError(t, tr.reply((&packet.RXIPv4Indicator{
		SourceIP: wantIP, Data: []byte("ip-data"),
	}).SerializePayload(), false))

	got, err := s.ReadIPDataFrom(wantIP, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("ip-data"), got.Data)
}

func TestReadUserDataRelayReturnsFrame(t *testing.T) {
	s, tr, stop := newLiveTestSession(t)
	defer stop()
	s.opened.Store(true)

	require.NoError(t, tr.reply((&packet.UserDataRelayOutput{
		Source: packet.RelayBluetooth, Data: []byte("relay"),
	}).SerializePayload(), false))

	got, err := s.ReadUserDataRelay(time.Second)
	require.NoError(t, err)
	assert.Equal(t, packet.RelayBluetooth, got.Source)
	assert.Equal(t, []byte("relay"), got.Data)
}
