package realtime

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingConn counts in-flight WriteJSON calls so a test can detect two
// writers hitting the same connection at once.
type recordingConn struct {
	inFlight  int32
	maxSeen   int32
	delivered chan services.ProgressionEvent
	closed    int32
}

func newRecordingConn() *recordingConn {
	return &recordingConn{delivered: make(chan services.ProgressionEvent, 128)}
}

func (c *recordingConn) WriteJSON(v interface{}) error {
	n := atomic.AddInt32(&c.inFlight, 1)
	for {
		seen := atomic.LoadInt32(&c.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&c.maxSeen, seen, n) {
			break
		}
	}
	// Widen the window so overlapping writers would be caught.
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.inFlight, -1)

	c.delivered <- v.(services.ProgressionEvent)
	return nil
}

func (c *recordingConn) Close() error {
	atomic.StoreInt32(&c.closed, 1)
	return nil
}

func (c *recordingConn) next(t *testing.T) services.ProgressionEvent {
	t.Helper()
	select {
	case event := <-c.delivered:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event delivery")
		return services.ProgressionEvent{}
	}
}

func TestPublishSerializesWrites(t *testing.T) {
	hub := NewHub()
	conn := newRecordingConn()
	hub.add(conn, 7)

	// A daily check-in can publish a level-up and a tier-up back to back;
	// both must land on the connection without a second concurrent writer.
	hub.Publish(services.ProgressionEvent{Type: services.EventLevelUp, UserID: 7, Level: 2})
	hub.Publish(services.ProgressionEvent{Type: services.EventTierUp, UserID: 7, Tier: "Adept"})

	first := conn.next(t)
	second := conn.next(t)
	assert.Equal(t, services.EventLevelUp, first.Type)
	assert.Equal(t, services.EventTierUp, second.Type)
	assert.Equal(t, int32(1), atomic.LoadInt32(&conn.maxSeen))
}

func TestPublishSerializesWritesUnderLoad(t *testing.T) {
	hub := NewHub()
	conn := newRecordingConn()
	hub.add(conn, 7)

	const events = 20
	for i := 0; i < events; i++ {
		go hub.Publish(services.ProgressionEvent{Type: services.EventLevelUp, UserID: 7, Level: i})
	}

	for i := 0; i < events; i++ {
		conn.next(t)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&conn.maxSeen))
}

func TestPublishTargetsEventOwner(t *testing.T) {
	hub := NewHub()
	owner := newRecordingConn()
	other := newRecordingConn()
	hub.add(owner, 7)
	hub.add(other, 8)

	hub.Publish(services.ProgressionEvent{Type: services.EventTierUp, UserID: 7, Tier: "Adept"})

	event := owner.next(t)
	require.Equal(t, uint(7), event.UserID)

	select {
	case <-other.delivered:
		t.Fatal("event delivered to a connection owned by another user")
	case <-time.After(50 * time.Millisecond):
	}
}

// failingConn rejects every write, as a closed websocket would.
type failingConn struct {
	closed int32
}

func (c *failingConn) WriteJSON(v interface{}) error { return assert.AnError }
func (c *failingConn) Close() error {
	atomic.StoreInt32(&c.closed, 1)
	return nil
}

func TestPublishDropsDeadClients(t *testing.T) {
	hub := NewHub()
	dead := &failingConn{}
	hub.add(dead, 7)

	hub.Publish(services.ProgressionEvent{Type: services.EventLevelUp, UserID: 7, Level: 2})

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&dead.closed) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.mu.RLock()
	_, registered := hub.clients[dead]
	hub.mu.RUnlock()
	assert.False(t, registered)
}
