package clicks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelBusDropsWhenFull(t *testing.T) {
	bus := NewChannelBus(1)

	// Emitting past the buffer must neither block nor panic
	bus.Emit("abc1234567", "203.0.113.7", "agent", "")
	bus.Emit("abc1234567", "203.0.113.7", "agent", "")
	bus.Emit("abc1234567", "203.0.113.7", "agent", "")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := bus.Fetch(ctx)
	require.NoError(t, err)

	// Only one event survived the full buffer
	_, err = bus.Fetch(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChannelBusFetchHonorsContext(t *testing.T) {
	bus := NewChannelBus(8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bus.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsumerDrainsConcurrentEmissions(t *testing.T) {
	const total = 1000

	urls := newFakeURLStore()
	analytics := &fakeAnalyticsStore{}
	processor := NewProcessor(urls, analytics, &fakeGeo{}, &fakeUA{})

	bus := NewChannelBus(2 * total)
	consumer := NewConsumer(processor, bus, 4, 50, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		consumer.Run(ctx)
		close(done)
	}()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < total/10; j++ {
				bus.Emit("abc1234567", "203.0.113.7", "agent", "")
			}
		}()
	}
	wg.Wait()

	// No deadline for any single batch, just eventual drain
	require.Eventually(t, func() bool {
		return urls.count("abc1234567") == total
	}, 10*time.Second, 10*time.Millisecond)

	assert.Len(t, analytics.all(), total)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}
}

type recordingProcessor struct {
	mu      sync.Mutex
	batches [][][]byte
}

func (r *recordingProcessor) ProcessBatch(ctx context.Context, batch [][]byte) []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batch)
	return make([]Result, len(batch))
}

func (r *recordingProcessor) snapshot() [][][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][][]byte(nil), r.batches...)
}

func TestConsumerRespectsBatchSize(t *testing.T) {
	bus := NewChannelBus(64)
	rec := &recordingProcessor{}
	consumer := NewConsumer(rec, bus, 1, 5, 50*time.Millisecond)

	for i := 0; i < 12; i++ {
		bus.Emit("abc1234567", "", "", "")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go consumer.Run(ctx)

	require.Eventually(t, func() bool {
		n := 0
		for _, b := range rec.snapshot() {
			n += len(b)
		}
		return n == 12
	}, 5*time.Second, 10*time.Millisecond)

	for _, batch := range rec.snapshot() {
		assert.LessOrEqual(t, len(batch), 5)
	}
}
