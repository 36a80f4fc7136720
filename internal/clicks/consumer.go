package clicks

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Source yields raw click event payloads from the transport
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// KafkaSource reads click events from a consumer group
type KafkaSource struct {
	reader *kafka.Reader
}

// NewKafkaSource creates a source over a Kafka consumer group
func NewKafkaSource(brokers []string, topic, groupID string) *KafkaSource {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	return &KafkaSource{reader: reader}
}

// Fetch returns the next event payload
func (s *KafkaSource) Fetch(ctx context.Context) ([]byte, error) {
	msg, err := s.reader.ReadMessage(ctx)
	if err != nil {
		return nil, err
	}
	return msg.Value, nil
}

// Close shuts down the underlying reader
func (s *KafkaSource) Close() error {
	return s.reader.Close()
}

// Consumer drains a Source with a pool of workers. Each worker collects
// up to batchSize events (flushing after batchWait) and hands the batch
// to the processor. Batches are independent; so are events in a batch.
type Consumer struct {
	processor BatchProcessor
	src       Source
	workers   int
	batchSize int
	batchWait time.Duration
}

// BatchProcessor consumes one batch of raw events
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, batch [][]byte) []Result
}

// NewConsumer creates a batch consumer over the given source
func NewConsumer(processor BatchProcessor, src Source, workers, batchSize int, batchWait time.Duration) *Consumer {
	if workers < 1 {
		workers = 1
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &Consumer{
		processor: processor,
		src:       src,
		workers:   workers,
		batchSize: batchSize,
		batchWait: batchWait,
	}
}

// Run blocks until the context is cancelled, processing batches with the
// configured number of concurrent workers
func (c *Consumer) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.runWorker(ctx)
		}()
	}
	wg.Wait()
}

func (c *Consumer) runWorker(ctx context.Context) {
	for {
		batch, err := c.nextBatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("click consumer: fetch failed: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if len(batch) > 0 {
			c.processor.ProcessBatch(ctx, batch)
		}
	}
}

// nextBatch blocks for the first event, then fills the batch until it is
// full or batchWait elapses
func (c *Consumer) nextBatch(ctx context.Context) ([][]byte, error) {
	first, err := c.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	batch := [][]byte{first}

	fillCtx, cancel := context.WithTimeout(ctx, c.batchWait)
	defer cancel()

	for len(batch) < c.batchSize {
		event, err := c.src.Fetch(fillCtx)
		if err != nil {
			break // timeout flushes a partial batch
		}
		batch = append(batch, event)
	}
	return batch, nil
}
