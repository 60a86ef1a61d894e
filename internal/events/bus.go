// Package events implements the host event bus: it carries view and
// vault events to the reactive driver and streams decoration events to
// SSE clients.
package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
)

// Kind identifies a host event.
type Kind string

// Host event kinds consumed by the reactive driver.
const (
	KindFileOpen         Kind = "file-open"
	KindActiveLeafChange Kind = "active-leaf-change"
	KindEditorChange     Kind = "editor-change"
	KindLayoutChange     Kind = "layout-change"
	KindMutation         Kind = "mutation"
	KindVaultChange      Kind = "vault-change"
)

// Event is one host event. Path carries the affected note path where
// the kind has one (vault-change, file-open).
type Event struct {
	Kind Kind
	Path string
}

type decorationReq struct {
	path  string
	count int
}

// Bus fans host events out to driver subscribers and decoration events
// out to SSE clients.
//
// Concurrency model: a single internal event loop (goroutine) owns all
// mutable state (both subscriber sets). Public methods communicate with
// this loop through channels, so no mutexes are required.
type Bus struct {
	subscribeCh   chan chan Event
	unsubscribeCh chan chan Event
	publishCh     chan Event

	sseSubscribeCh   chan chan []byte
	sseUnsubscribeCh chan chan []byte
	decorationCh     chan decorationReq
	countReqCh       chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBus creates and starts a new event bus.
func NewBus() *Bus {
	b := &Bus{
		subscribeCh:      make(chan chan Event),
		unsubscribeCh:    make(chan chan Event),
		publishCh:        make(chan Event, 256),
		sseSubscribeCh:   make(chan chan []byte),
		sseUnsubscribeCh: make(chan chan []byte),
		decorationCh:     make(chan decorationReq, 256),
		countReqCh:       make(chan chan int),
		stopCh:           make(chan struct{}),
		stopped:          make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Bus) run() {
	defer close(b.stopped)

	subscribers := make(map[chan Event]struct{})
	sseClients := make(map[chan []byte]struct{})

	deliver := func(ev Event) {
		for ch := range subscribers {
			select {
			case ch <- ev:
			default:
				// Subscriber buffer full; skip to avoid blocking the loop.
			}
		}
	}

	broadcast := func(eventType string, data any) {
		payload, err := json.Marshal(data)
		if err != nil {
			return
		}
		raw := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, payload))
		for ch := range sseClients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking the loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range subscribers {
				close(ch)
			}
			for ch := range sseClients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			subscribers[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := subscribers[ch]; ok {
				delete(subscribers, ch)
				close(ch)
			}

		case ch := <-b.sseSubscribeCh:
			sseClients[ch] = struct{}{}

		case ch := <-b.sseUnsubscribeCh:
			if _, ok := sseClients[ch]; ok {
				delete(sseClients, ch)
				close(ch)
			}

		case ev := <-b.publishCh:
			deliver(ev)
			broadcast("event."+string(ev.Kind), map[string]string{"path": ev.Path})

		case req := <-b.decorationCh:
			broadcast("view.decorated", map[string]any{"path": req.path, "decorated": req.count})

		case resp := <-b.countReqCh:
			resp <- len(sseClients)
		}
	}
}

// Close gracefully stops the bus loop and closes all channels.
func (b *Bus) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a driver subscriber and returns its channel.
func (b *Bus) Subscribe() chan Event {
	ch := make(chan Event, 256)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a driver subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch chan Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// Publish sends a host event to all driver subscribers and mirrors it
// to SSE clients.
func (b *Bus) Publish(ev Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- ev:
	case <-b.stopped:
	}
}

// PublishDecoration streams a decoration result to SSE clients.
func (b *Bus) PublishDecoration(path string, count int) {
	if b.closed.Load() {
		return
	}
	select {
	case b.decorationCh <- decorationReq{path: path, count: count}:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected SSE clients.
func (b *Bus) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// subscribeSSE adds a new SSE client and returns its channel.
func (b *Bus) subscribeSSE() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.sseSubscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// unsubscribeSSE removes an SSE client and closes its channel.
func (b *Bus) unsubscribeSSE(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.sseUnsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Bus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.subscribeSSE()
	defer b.unsubscribeSSE(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
