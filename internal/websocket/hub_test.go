package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
)

func newTestHub() *Hub {
	return NewHub(slog.Default())
}

func newTestClient(h *Hub) *Client {
	return &Client{hub: h, send: make(chan []byte, sendBufferSize)}
}

func TestRegisterUnregister(t *testing.T) {
	hub := newTestHub()
	c := newTestClient(hub)

	hub.Register(c)
	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("after register: %d clients, want 1", got)
	}

	hub.Unregister(c)
	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("after unregister: %d clients, want 0", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := newTestHub()
	c := newTestClient(hub)

	hub.Register(c)
	hub.Unregister(c)
	// A second unregister must not close the channel twice.
	hub.Unregister(c)
}

func TestBroadcast(t *testing.T) {
	hub := newTestHub()
	a := newTestClient(hub)
	b := newTestClient(hub)
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast(NewMessage("event", "created", "1724660000000", map[string]any{"day": 2}))

	for name, c := range map[string]*Client{"a": a, "b": b} {
		select {
		case data := <-c.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("client %s: bad payload: %v", name, err)
			}
			if msg.Type != "event_created" || msg.ID != "1724660000000" {
				t.Errorf("client %s: got %+v", name, msg)
			}
		default:
			t.Errorf("client %s received nothing", name)
		}
	}
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := newTestHub()
	hub.Broadcast(NewMessage("template", "deleted", "1", nil))
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := newTestHub()
	c := newTestClient(hub)
	hub.Register(c)

	// Fill the buffer, then broadcast once more. The extra message is
	// dropped rather than blocking the hub.
	for i := 0; i < sendBufferSize+5; i++ {
		hub.Broadcast(NewMessage("event", "updated", "9", nil))
	}

	if got := len(c.send); got != sendBufferSize {
		t.Errorf("buffered %d messages, want %d", got, sendBufferSize)
	}
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("calendar", "selected", "abc", nil)
	if msg.Type != "calendar_selected" {
		t.Errorf("Type = %q", msg.Type)
	}
	if msg.Entity != "calendar" || msg.Action != "selected" || msg.ID != "abc" {
		t.Errorf("fields = %+v", msg)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := newTestHub()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestClient(hub)
			hub.Register(c)
			hub.Broadcast(NewMessage("event", "created", "x", nil))
			for len(c.send) > 0 {
				<-c.send
			}
			hub.Unregister(c)
		}()
	}
	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("%d clients left after churn", got)
	}
}
