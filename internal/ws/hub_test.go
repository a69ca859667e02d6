package ws

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	messages []CountMessage
	writeErr error
	closed   bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	msg, ok := v.(CountMessage)
	if !ok {
		return errors.New("unexpected message type")
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	first := &fakeConn{}
	second := &fakeConn{}
	hub.Register(first)
	hub.Register(second)

	hub.Broadcast(5)

	require.Len(t, first.messages, 1)
	require.Len(t, second.messages, 1)
	assert.Equal(t, int64(5), first.messages[0].Count)
	assert.Equal(t, int64(5), second.messages[0].Count)
}

func TestHub_BroadcastDropsFailingClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	healthy := &fakeConn{}
	broken := &fakeConn{writeErr: errors.New("connection reset")}
	hub.Register(healthy)
	hub.Register(broken)

	hub.Broadcast(3)

	assert.Equal(t, 1, hub.ClientCount())
	assert.True(t, broken.closed)
	require.Len(t, healthy.messages, 1)
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &fakeConn{}
	hub.Register(conn)
	hub.Unregister(conn)

	hub.Broadcast(1)

	assert.Zero(t, hub.ClientCount())
	assert.Empty(t, conn.messages)
}

func TestHub_SendInitialCount(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &fakeConn{}
	hub.Register(conn)

	require.NoError(t, hub.Send(conn, 7))

	require.Len(t, conn.messages, 1)
	assert.Equal(t, int64(7), conn.messages[0].Count)
}

// overlapConn fails the test if two writes ever run concurrently; the
// real websocket connection panics on a concurrent write.
type overlapConn struct {
	inFlight   int32
	overlapped int32
	writes     int32
}

func (c *overlapConn) WriteJSON(interface{}) error {
	if !atomic.CompareAndSwapInt32(&c.inFlight, 0, 1) {
		atomic.StoreInt32(&c.overlapped, 1)
		return nil
	}
	time.Sleep(time.Millisecond)
	atomic.StoreInt32(&c.inFlight, 0)
	atomic.AddInt32(&c.writes, 1)
	return nil
}

func (c *overlapConn) Close() error { return nil }

func TestHub_ConcurrentBroadcastsSerializePerConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &overlapConn{}
	hub.Register(conn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(count int64) {
			defer wg.Done()
			hub.Broadcast(count)
		}(int64(i))
	}
	// The on-connect push must take the same lock as broadcasts.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = hub.Send(conn, 99)
	}()
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&conn.overlapped), "writes on one connection overlapped")
	assert.Equal(t, int32(9), atomic.LoadInt32(&conn.writes))
}
