package xbee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xbee-go/xbeeapi/packet"
)

func TestPacketQueueDropsOldestWhenFull(t *testing.T) {
	q := newPacketQueue(2)
	first := &packet.ReceiveIndicator{Source64: packet.NewA64([]byte{1, 1, 1, 1, 1, 1, 1, 1}), Data: []byte("first")}
	second := &packet.ReceiveIndicator{Source64: packet.NewA64([]byte{2, 2, 2, 2, 2, 2, 2, 2}), Data: []byte("second")}
	third := &packet.ReceiveIndicator{Source64: packet.NewA64([]byte{3, 3, 3, 3, 3, 3, 3, 3}), Data: []byte("third")}

	q.put(first)
	q.put(second)
	q.put(third)

	assert.Len(t, q.items, 2)
	assert.Same(t, second, q.items[0])
	assert.Same(t, third, q.items[1])
}

func TestPacketQueueFirstDataPacketFrom(t *testing.T) {
	q := newPacketQueue(10)
	wantAddr := packet.NewA64([]byte{9, 9, 9, 9, 9, 9, 9, 9})
	q.put(&packet.ReceiveIndicator{Source64: packet.NewA64([]byte{1, 1, 1, 1, 1, 1, 1, 1}), Data: []byte("not this one")})
	q.put(&packet.ReceiveIndicator{Source64: wantAddr, Data: []byte("this one")})

	got, ok := q.firstDataPacketFrom(wantAddr, 100*time.Millisecond)
	require.True(t, ok)
	ind, ok := got.(*packet.ReceiveIndicator)
	require.True(t, ok)
	assert.Equal(t, []byte("this one"), ind.Data)

	// The non-matching packet stays queued for a later, different filter.
	got2, ok := q.firstDataPacket(100 * time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, []byte("not this one"), got2.(*packet.ReceiveIndicator).Data)
}

func TestPacketQueueWaitMatchTimesOut(t *testing.T) {
	q := newPacketQueue(10)
	start := time.Now()
	_, ok := q.firstDataPacket(30 * time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPacketQueueCloseUnblocksWaiters(t *testing.T) {
	q := newPacketQueue(10)
	done := make(chan bool, 1)
	go func() {
		_, ok := q.firstDataPacket(5 * time.Second)
		done <- ok
	}()
	time.Sleep(20 * time.Millisecond)
	q.close()
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("close did not unblock waitMatch")
	}
}
