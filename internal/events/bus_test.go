package events

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func eventually(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestBusPublishDelivers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Publish(Event{Kind: KindFileOpen, Path: "Notes/Ada.md"})

	select {
	case ev := <-ch:
		if ev.Kind != KindFileOpen {
			t.Errorf("Kind = %q, want %q", ev.Kind, KindFileOpen)
		}
		if ev.Path != "Notes/Ada.md" {
			t.Errorf("Path = %q, want %q", ev.Path, "Notes/Ada.md")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	if !eventually(t, time.Second, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}) {
		t.Error("subscriber channel not closed after Unsubscribe")
	}
}

func TestBusCloseIdempotent(t *testing.T) {
	bus := NewBus()
	bus.Close()
	bus.Close()

	// Publishing after close must not panic or block.
	bus.Publish(Event{Kind: KindMutation})
	bus.PublishDecoration("Notes/Ada.md", 2)

	if got := bus.ClientCount(); got != 0 {
		t.Errorf("ClientCount() after close = %d, want 0", got)
	}
}

func TestBusServeHTTPStreamsDecoration(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		bus.ServeHTTP(rec, req)
	}()

	if !eventually(t, time.Second, func() bool { return bus.ClientCount() == 1 }) {
		t.Fatalf("ClientCount() = %d, want 1", bus.ClientCount())
	}

	bus.PublishDecoration("Sets/People/Ada Lovelace.md", 3)

	if !eventually(t, time.Second, func() bool {
		return strings.Contains(rec.Body.String(), "view.decorated")
	}) {
		t.Fatalf("SSE body missing decorated event: %q", rec.Body.String())
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"decorated":3`) {
		t.Errorf("SSE body missing count: %q", body)
	}
	if !strings.Contains(body, "Sets/People/Ada Lovelace.md") {
		t.Errorf("SSE body missing path: %q", body)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after context cancel")
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want %q", ct, "text/event-stream")
	}
}

func TestBusHostEventMirroredToSSE(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest("GET", "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	go bus.ServeHTTP(rec, req)

	if !eventually(t, time.Second, func() bool { return bus.ClientCount() == 1 }) {
		t.Fatal("SSE client never registered")
	}

	bus.Publish(Event{Kind: KindVaultChange, Path: "Notes/Foo.md"})

	if !eventually(t, time.Second, func() bool {
		return strings.Contains(rec.Body.String(), "event.vault-change")
	}) {
		t.Errorf("SSE body missing vault-change event: %q", rec.Body.String())
	}
}
