package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plancheck/internal/service"
)

var _ service.Broadcaster = (*Hub)(nil)

func TestHubFansOutToRunObservers(t *testing.T) {
	hub := NewHub()

	a := &Connection{RunID: "run-1", ReviewerID: "r1", Send: make(chan []byte, 8), Hub: hub}
	b := &Connection{RunID: "run-1", ReviewerID: "r2", Send: make(chan []byte, 8), Hub: hub}
	other := &Connection{RunID: "run-2", ReviewerID: "r3", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)

	hub.BroadcastToRun("run-1", string(MsgSegmentProgress), map[string]string{"state": "done"})

	for _, conn := range []*Connection{a, b} {
		select {
		case data := <-conn.Send:
			var msg Message
			require.NoError(t, json.Unmarshal(data, &msg))
			assert.Equal(t, MsgSegmentProgress, msg.Type)
		case <-time.After(time.Second):
			t.Fatalf("observer %s received nothing", conn.ReviewerID)
		}
	}

	select {
	case <-other.Send:
		t.Fatal("observer of another run received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDisconnectRunClosesObservers(t *testing.T) {
	hub := NewHub()

	conn := &Connection{RunID: "run-1", ReviewerID: "r1", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(conn)

	hub.DisconnectRun("run-1")

	select {
	case _, ok := <-conn.Send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
