package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	sseChannelBuffer = 16
	sseHeartbeat     = 30 * time.Second
)

// client is a single SSE connection watching one puzzle.
type client struct {
	ch       chan string
	puzzleID string
}

// Broadcaster fans puzzle events out to the SSE clients watching them.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[string]map[*client]struct{}),
	}
}

// Register adds a client for a puzzle and returns it.
func (b *Broadcaster) Register(puzzleID string) *client {
	c := &client{
		ch:       make(chan string, sseChannelBuffer),
		puzzleID: puzzleID,
	}
	b.mu.Lock()
	set, ok := b.clients[puzzleID]
	if !ok {
		set = make(map[*client]struct{})
		b.clients[puzzleID] = set
	}
	set[c] = struct{}{}
	b.mu.Unlock()
	return c
}

// Unregister removes a client and closes its channel.
func (b *Broadcaster) Unregister(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set := b.clients[c.puzzleID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.ch)
	if len(set) == 0 {
		delete(b.clients, c.puzzleID)
	}
}

// Broadcast sends a message to every client of a puzzle. Clients whose
// buffer is full miss the message.
func (b *Broadcaster) Broadcast(puzzleID, data string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for c := range b.clients[puzzleID] {
		select {
		case c.ch <- data:
		default:
		}
	}
}

// Publish encodes an event as JSON and broadcasts it.
func (b *Broadcaster) Publish(puzzleID string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("sse: encode event for %s: %v", puzzleID, err)
		return
	}
	b.Broadcast(puzzleID, string(data))
}

// ClientCount returns the number of connected clients for a puzzle.
func (b *Broadcaster) ClientCount(puzzleID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[puzzleID])
}

// ServeSSE streams a puzzle's events until the request ends.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, puzzleID string, onConnect func(c *client)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming non supporté", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := b.Register(puzzleID)
	defer b.Unregister(c)

	if onConnect != nil {
		onConnect(c)
	}

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
