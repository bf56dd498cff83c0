// Package events publishes catalogue change events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"dscatalog/internal/config"
	"dscatalog/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Publisher publishes product change events.
type Publisher interface {
	Publish(ctx context.Context, event model.ProductEvent) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaPublisher writes events to a Kafka topic, keyed by product ID so
// events for one product stay ordered within a partition.
type kafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher for the configured topic.
func NewKafkaPublisher(cfg config.KafkaConfig, logger zerolog.Logger) Publisher {
	log := logger.With().Str("component", "event_publisher").Logger()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 100 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}

	return newKafkaPublisher(writer, log)
}

func newKafkaPublisher(writer messageWriter, logger zerolog.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		writer: writer,
		logger: logger,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event model.ProductEvent) error {
	msg, err := NewMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	p.logger.Debug().
		Str("type", event.Type).
		Int64("product_id", event.ProductID).
		Msg("event published")

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewMessage encodes an event as a Kafka message.
func NewMessage(event model.ProductEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ProductID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}, nil
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that discards events.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, model.ProductEvent) error { return nil }
func (nopPublisher) Close() error                                     { return nil }
