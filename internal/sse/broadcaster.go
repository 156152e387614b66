package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	channelBuffer = 16
	heartbeat     = 30 * time.Second
)

// Message is one server-sent event.
type Message struct {
	Event string
	Data  []byte
}

// Client is a single SSE connection subscribed to one session.
type Client struct {
	ch      chan Message
	session string
}

// Broadcaster fans messages out to SSE clients grouped by session.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*Client]struct{})}
}

// Register adds a client for a session and returns it.
func (b *Broadcaster) Register(session string) *Client {
	c := &Client{ch: make(chan Message, channelBuffer), session: session}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	return c
}

// Unregister removes a client and closes its channel.
func (b *Broadcaster) Unregister(c *Client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// NewMessage JSON-encodes payload into a message for event.
func NewMessage(event string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s event: %w", event, err)
	}
	return Message{Event: event, Data: data}, nil
}

// Publish JSON-encodes payload and sends it to every client of session.
// Slow clients whose buffer is full miss the message.
func (b *Broadcaster) Publish(session, event string, payload any) error {
	msg, err := NewMessage(event, payload)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		if c.session != session {
			continue
		}
		select {
		case c.ch <- msg:
		default:
		}
	}
	return nil
}

// CloseSession disconnects every client of session.
func (b *Broadcaster) CloseSession(session string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		if c.session == session {
			delete(b.clients, c)
			close(c.ch)
		}
	}
}

// ClientCount returns the number of connected clients for a session.
func (b *Broadcaster) ClientCount(session string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for c := range b.clients {
		if c.session == session {
			n++
		}
	}
	return n
}

// Stream configures one Serve call.
type Stream struct {
	Session string

	// Initial runs after registration; its messages go to this client only,
	// ahead of anything published later.
	Initial func() []Message

	// OnHeartbeat runs on every heartbeat tick while the stream is open.
	OnHeartbeat func()
}

// Serve streams events for st.Session until the request ends or the session is closed.
func (b *Broadcaster) Serve(w http.ResponseWriter, r *http.Request, st Stream) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, `{"error":"streaming_unsupported"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	c := b.Register(st.Session)
	defer b.Unregister(c)

	if st.Initial != nil {
		for _, msg := range st.Initial() {
			writeMessage(w, msg)
		}
		flusher.Flush()
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			writeMessage(w, msg)
			flusher.Flush()
		case <-ticker.C:
			if st.OnHeartbeat != nil {
				st.OnHeartbeat()
			}
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}

func writeMessage(w http.ResponseWriter, msg Message) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
}
