// Package sse streams save directory changes to HTTP clients as
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Change kinds accepted by Notify.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

const (
	listEvent        = "list.updated"
	clientBuffer     = 64
	retryMillis      = 3000
	defaultListEvery = 2 * time.Second
	defaultHeartbeat = 15 * time.Second
)

// SaveEvent is the payload of save.* events.
type SaveEvent struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum,omitempty"`
}

type change struct {
	kind  string
	event SaveEvent
}

// Broker fans save changes out to connected clients.
//
// One goroutine owns the client set, the event sequence and the pending
// list.updated notification. Every frame carries an increasing id. A save
// creation or deletion schedules one list.updated at most every listEvery;
// changes inside the window are coalesced into a single trailing event.
type Broker struct {
	listEvery time.Duration
	heartbeat time.Duration

	changes chan change
	join    chan chan []byte
	leave   chan chan []byte
	count   chan chan int

	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// Option configures a Broker.
type Option func(*Broker)

// WithHeartbeat sets how often idle streams receive a keep-alive comment.
// Zero disables heartbeats.
func WithHeartbeat(d time.Duration) Option {
	return func(b *Broker) {
		b.heartbeat = d
	}
}

// NewBroker starts a broker. listEvery bounds how often list.updated is
// sent; non-positive values use two seconds.
func NewBroker(listEvery time.Duration, opts ...Option) *Broker {
	if listEvery <= 0 {
		listEvery = defaultListEvery
	}
	b := &Broker{
		listEvery: listEvery,
		heartbeat: defaultHeartbeat,
		changes:   make(chan change, 256),
		join:      make(chan chan []byte),
		leave:     make(chan chan []byte),
		count:     make(chan chan int),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var (
		seq      uint64
		lastList time.Time
		listDue  <-chan time.Time
	)

	send := func(event string, data any) {
		payload, err := json.Marshal(data)
		if err != nil {
			return
		}
		seq++
		frame := fmt.Appendf(nil, "id: %d\nevent: %s\ndata: %s\n\n", seq, event, payload)
		for ch := range clients {
			select {
			case ch <- frame:
			default:
				// slow client
			}
		}
	}
	sendList := func(now time.Time) {
		lastList = now
		listDue = nil
		send(listEvent, struct{}{})
	}

	for {
		select {
		case <-b.stop:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.join:
			clients[ch] = struct{}{}

		case ch := <-b.leave:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case resp := <-b.count:
			resp <- len(clients)

		case c := <-b.changes:
			send("save."+c.kind, c.event)
			// Content edits leave the listing unchanged.
			if c.kind == KindUpdated || listDue != nil {
				continue
			}
			if wait := b.listEvery - time.Since(lastList); wait > 0 {
				listDue = time.After(wait)
				continue
			}
			sendList(time.Now())

		case now := <-listDue:
			sendList(now)
		}
	}
}

// Notify publishes a save.<kind> event for path. Unknown kinds are ignored.
func (b *Broker) Notify(kind, path, checksum string) {
	switch kind {
	case KindCreated, KindUpdated, KindDeleted:
	default:
		return
	}
	select {
	case b.changes <- change{kind: kind, event: SaveEvent{Path: path, Checksum: checksum}}:
	case <-b.stopped:
	}
}

// Subscribe registers a client. The returned channel is closed by
// Unsubscribe or Close.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	select {
	case b.join <- ch:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	select {
	case b.leave <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	resp := make(chan int, 1)
	select {
	case b.count <- resp:
		return <-resp
	case <-b.stopped:
		return 0
	}
}

// Close stops the broker and closes every client channel. It is safe to
// call more than once.
func (b *Broker) Close() {
	b.stopOnce.Do(func() { close(b.stop) })
	<-b.stopped
}

// ServeHTTP streams events to one client (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry: %d\n\n", retryMillis)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	var beat <-chan time.Time
	if b.heartbeat > 0 {
		ticker := time.NewTicker(b.heartbeat)
		defer ticker.Stop()
		beat = ticker.C
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(frame)
			flusher.Flush()
		case <-beat:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
