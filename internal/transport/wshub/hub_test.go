package wshub

import (
	"encoding/json"
	"testing"

	"list-app-go/pkg/logger"
)

func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{hub: hub, send: make(chan []byte, buffer)}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(logger.Discard())

	a := newTestClient(hub, 4)
	b := newTestClient(hub, 4)
	hub.Register(a)
	hub.Register(b)

	hub.Changed("grocery", "add", "l-1", "i-1")

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.send:
			var msg Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if msg.Entity != "grocery" || msg.Action != "add" || msg.ListID != "l-1" || msg.ItemID != "i-1" {
				t.Fatalf("unexpected message: %+v", msg)
			}
		default:
			t.Fatalf("client missed the broadcast")
		}
	}
}

func TestHubSlowClientMissesInsteadOfBlocking(t *testing.T) {
	hub := NewHub(logger.Discard())

	slow := newTestClient(hub, 1)
	hub.Register(slow)

	hub.Changed("list", "add", "l-1", "")
	hub.Changed("list", "update", "l-1", "")

	if len(slow.send) != 1 {
		t.Fatalf("expected full buffer to drop the second message, got %d", len(slow.send))
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(logger.Discard())

	c := newTestClient(hub, 1)
	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.ClientCount())
	}

	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Fatalf("expected 0 clients, got %d", hub.ClientCount())
	}
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel closed")
	}

	// Double unregister must not panic on the closed channel.
	hub.Unregister(c)
}
