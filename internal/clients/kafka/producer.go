package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"callbridge/internal/observability"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Call event types published to the fan-out topic.
const (
	EventCallAccepted     = "call.accepted"
	EventCallEnded        = "call.ended"
	EventTranscript       = "call.transcript"
	EventTransferChanged  = "call.transfer.changed"
	EventToolCallFinished = "call.tool.finished"
)

// MessageWriter is the part of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles publishing call events to Kafka
type Producer struct {
	writer MessageWriter
	logger *observability.Logger
}

// ProducerConfig contains configuration for Kafka producer
type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// ParseBrokers splits a comma separated broker list.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewProducer creates a new Kafka producer. It returns nil when no brokers are configured.
func NewProducer(config ProducerConfig, logger *observability.Logger) *Producer {
	if len(config.Brokers) == 0 || config.Topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr: kafka.TCP(config.Brokers...),
		Topic: config.Topic,
		// Hash keeps every event of one call on one partition
		Balancer:     &kafka.Hash{},
		Compression:  kafka.Snappy,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
	}
	return NewFromWriter(writer, logger)
}

func NewFromWriter(writer MessageWriter, logger *observability.Logger) *Producer {
	return &Producer{writer: writer, logger: logger}
}

// EventMessage represents an event message structure
type EventMessage struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	CallID    string                 `json:"call_id"`
	Data      map[string]interface{} `json:"data"`
	Timestamp string                 `json:"timestamp"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(eventType, callID string, data map[string]interface{}) EventMessage {
	return EventMessage{
		ID:        uuid.NewString(),
		Type:      eventType,
		CallID:    callID,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// PublishEvent publishes an event to Kafka
func (p *Producer) PublishEvent(ctx context.Context, event EventMessage) error {
	if p == nil {
		return nil
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "event_type", Value: event.Type},
		observability.Field{Key: "event_id", Value: event.ID},
	)

	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "failed to marshal event", err)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.CallID),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "call_id", Value: []byte(event.CallID)},
		},
	}

	err = p.writer.WriteMessages(ctx, msg)
	if err != nil {
		p.logger.Error(ctx, "failed to write message to kafka", err)
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	p.logger.Debug(ctx, fmt.Sprintf("published event %s to kafka", event.Type))
	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
