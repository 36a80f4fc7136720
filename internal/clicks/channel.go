package clicks

import (
	"context"
	"log"
)

// ChannelBus is a bounded in-process transport used when no Kafka broker
// is configured. It keeps the same lossy contract as the Kafka path: a
// full buffer drops the event instead of blocking the redirect.
// It implements both Producer and Source.
type ChannelBus struct {
	ch chan []byte
}

// NewChannelBus creates a bus with the given buffer size
func NewChannelBus(size int) *ChannelBus {
	return &ChannelBus{ch: make(chan []byte, size)}
}

// Emit enqueues one click event, dropping it when the buffer is full
func (b *ChannelBus) Emit(shortCode, ipAddress, userAgent, referer string) {
	data, err := encodeEvent(shortCode, ipAddress, userAgent, referer)
	if err != nil {
		log.Printf("click bus: failed to encode event for %s: %v", shortCode, err)
		return
	}

	select {
	case b.ch <- data:
	default:
		log.Printf("click bus: buffer full, dropped event for %s", shortCode)
	}
}

// Fetch blocks until an event is available or the context ends
func (b *ChannelBus) Fetch(ctx context.Context) ([]byte, error) {
	select {
	case data := <-b.ch:
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
