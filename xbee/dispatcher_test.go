package xbee

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xbee-go/xbeeapi/packet"
)

// newDispatcherTestSession builds a Session with just enough state for
// sendSync/registerWaiter/resolvePending, without running the full
// Open handshake.
func newDispatcherTestSession(t *testing.T) (*Session, *pipeTransport) {
	t.Helper()
	tr := newPipeTransport()
	require.NoError(t, tr.Open())
	s := &Session{
		transport:      tr,
		receiveTimeout: 200 * time.Millisecond,
		waiters:        make(map[pendingKey]*waiter),
	}
	s.ctx = context.Background()
	return s, tr
}

// drainAndRespond reads one frame the session wrote and resolves its
// pending waiter with resp, simulating what the reader goroutine does.
func drainAndRespond(t *testing.T, s *Session, tr *pipeTransport, resp packet.Packet) {
	t.Helper()
	raw, err := tr.sent()
	require.NoError(t, err)
	sent, err := packet.Parse(raw)
	require.NoError(t, err)
	require.True(t, sent.NeedsFrameID())
	require.True(t, s.resolvePending(resp))
}

func TestSendSyncCorrelatesByFrameID(t *testing.T) {
	s, tr := newDispatcherTestSession(t)
	req := &packet.ATCommandRequest{ID: 0x05, Command: atNI}

	go drainAndRespond(t, s, tr, &packet.ATCommandResponse{
		ID: 0x05, Command: atNI, Status: packet.StatusOK, Value: []byte("node"),
	})

	resp, err := s.sendSync(context.Background(), req)
	require.NoError(t, err)
	atResp := resp.(*packet.ATCommandResponse)
	assert.Equal(t, []byte("node"), atResp.Value)
}

func TestSendSyncIgnoresResponseForDifferentFrameID(t *testing.T) {
	s, tr := newDispatcherTestSession(t)
	req := &packet.ATCommandRequest{ID: 0x07, Command: atNI}

	go func() {
		raw, err := tr.sent()
		require.NoError(t, err)
		_, err = packet.Parse(raw)
		require.NoError(t, err)
		// Wrong frame ID: resolvePending finds no waiter, so it's silently dropped.
		delivered := s.resolvePending(&packet.ATCommandResponse{ID: 0x09, Command: atNI, Status: packet.StatusOK})
		assert.False(t, delivered)
	}()

	_, err := s.sendSync(context.Background(), req)
	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestSendSyncRejectsEcho(t *testing.T) {
	s, tr := newDispatcherTestSession(t)
	req := &packet.ATCommandRequest{ID: 0x11, Command: atNI}

	go func() {
		raw, err := tr.sent()
		require.NoError(t, err)
		sentPkt, err := packet.Parse(raw)
		require.NoError(t, err)

		// Radio echoes the exact request bytes back first (should be
		// rejected), then sends the real answer.
		echoed, err := packet.Parse(sentPkt.SerializePayload())
		require.NoError(t, err)
		s.resolvePending(echoed)

		time.Sleep(20 * time.Millisecond)
		s.resolvePending(&packet.ATCommandResponse{ID: 0x11, Command: atNI, Status: packet.StatusOK, Value: []byte("real")})
	}()

	resp, err := s.sendSync(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []byte("real"), resp.(*packet.ATCommandResponse).Value)
}

func TestSendSyncTimesOutWithNoResponse(t *testing.T) {
	s, tr := newDispatcherTestSession(t)
	s.receiveTimeout = 30 * time.Millisecond
	req := &packet.ATCommandRequest{ID: 0x02, Command: atNI}

	go func() {
		_, _ = tr.sent()
	}()

	_, err := s.sendSync(context.Background(), req)
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestSendSyncDegradesToAsyncWhenFrameIDDisabled(t *testing.T) {
	s, tr := newDispatcherTestSession(t)
	req := &packet.ATCommandRequest{ID: 0, Command: atNI}

	done := make(chan struct{})
	go func() {
		_, _ = tr.sent()
		close(done)
	}()

	resp, err := s.sendSync(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, resp)
	<-done
}

func TestNextFrameIDWrapsAndSkipsZero(t *testing.T) {
	s := &Session{}
	s.frameID.Store(0xFE)
	assert.EqualValues(t, 0xFF, s.nextFrameID())
	assert.EqualValues(t, 0x01, s.nextFrameID())
	assert.EqualValues(t, 0x02, s.nextFrameID())
}

func TestMultiWaiterReceivesSeveralDeliveries(t *testing.T) {
	s, _ := newDispatcherTestSession(t)
	ch, unregister := s.registerWaiter(0x42, true)
	defer unregister()

	for i := 0; i < 3; i++ {
		require.True(t, s.resolvePending(&packet.ATCommandResponse{ID: 0x42, Command: atND, Status: packet.StatusOK}))
	}
	for i := 0; i < 3; i++ {
		select {
		case <-ch:
		default:
			t.Fatalf("expected delivery %d to be buffered", i)
		}
	}
}
