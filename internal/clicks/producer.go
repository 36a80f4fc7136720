package clicks

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"linkpulse-be/internal/models"

	"github.com/segmentio/kafka-go"
)

// Producer emits click events from the redirect path. Emit returns
// quickly and never surfaces an error: under transport failure or
// backpressure events are silently lost, which is acceptable for
// analytics.
type Producer interface {
	Emit(shortCode, ipAddress, userAgent, referer string)
}

// KafkaProducer writes click events to a Kafka topic with an async
// writer, so Emit hands the message off without waiting for delivery.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer creates a fire-and-forget Kafka producer
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Printf("click producer: dropped %d event(s): %v", len(messages), err)
			}
		},
	}
	return &KafkaProducer{writer: writer}
}

// Emit publishes one click event without waiting for confirmation
func (p *KafkaProducer) Emit(shortCode, ipAddress, userAgent, referer string) {
	data, err := encodeEvent(shortCode, ipAddress, userAgent, referer)
	if err != nil {
		log.Printf("click producer: failed to encode event for %s: %v", shortCode, err)
		return
	}

	// Async writer: WriteMessages queues and returns immediately
	if err := p.writer.WriteMessages(context.Background(), kafka.Message{Value: data}); err != nil {
		log.Printf("click producer: failed to queue event for %s: %v", shortCode, err)
	}
}

// Close flushes and shuts down the underlying writer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

func encodeEvent(shortCode, ipAddress, userAgent, referer string) ([]byte, error) {
	event := models.ClickEvent{
		ShortCode: shortCode,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Referer:   referer,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	return json.Marshal(event)
}
