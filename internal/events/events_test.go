package events

import (
	"encoding/json"
	"testing"
)

func TestMakeEnvelope(t *testing.T) {
	raw := Make("req-1", "commit_done", map[string]int{"added": 2})

	var e Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatal(err)
	}
	if e.Type != "commit_done" || e.RequestID != "req-1" {
		t.Fatalf("envelope: %+v", e)
	}
	if e.At.IsZero() {
		t.Fatal("timestamp not set")
	}
	var data map[string]int
	if err := json.Unmarshal(e.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data["added"] != 2 {
		t.Fatalf("data: %v", data)
	}
}

func TestMakeNilData(t *testing.T) {
	raw := Make("", "ping", nil)
	var e Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatal(err)
	}
	if e.Type != "ping" || len(e.Data) != 0 {
		t.Fatalf("envelope: %+v", e)
	}
}

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	defer h.Unsubscribe(b)

	h.Publish("one")
	if got := <-a; got != "one" {
		t.Fatalf("a got %q", got)
	}
	if got := <-b; got != "one" {
		t.Fatalf("b got %q", got)
	}

	h.Unsubscribe(a)
	// Publishing after unsubscribe must not panic or block.
	h.Publish("two")
	if got := <-b; got != "two" {
		t.Fatalf("b got %q", got)
	}
}

func TestHubDropsWhenSubscriberIsSlow(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// Nobody drains ch; publishes beyond the buffer are dropped, never
	// blocking the publisher.
	for i := 0; i < 100; i++ {
		h.Publish("evt")
	}
	if n := len(ch); n != cap(ch) {
		t.Fatalf("buffered %d, cap %d", n, cap(ch))
	}
}
