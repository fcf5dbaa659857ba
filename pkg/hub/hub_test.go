package hub

import (
	"testing"
	"time"
)

func TestHub_BroadcastReachesRegisteredClient(t *testing.T) {
	h := New("test")
	go h.Run()

	client := &Client{hub: h, send: make(chan Message, sendBufferSize)}
	h.register <- client

	deadline := time.After(time.Second)
	for h.ClientCount() != 1 {
		select {
		case <-deadline:
			t.Fatal("client never registered")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := h.BroadcastJSON(map[string]string{"label": "banana"}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}

	select {
	case msg := <-client.send:
		if len(msg.Data) == 0 {
			t.Error("empty broadcast payload")
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast never delivered")
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := New("test")
	go h.Run()

	// A client with a full buffer and nobody draining it
	client := &Client{hub: h, send: make(chan Message, 1)}
	client.send <- Message{}
	h.register <- client

	deadline := time.After(time.Second)
	for h.ClientCount() != 1 {
		select {
		case <-deadline:
			t.Fatal("client never registered")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	h.Broadcast(Message{Data: []byte("x")})

	deadline = time.After(time.Second)
	for h.ClientCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("slow client was not dropped")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestHub_BroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	h := New("test")
	go h.Run()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Broadcast(Message{Data: []byte("x")})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked with no clients")
	}
}
