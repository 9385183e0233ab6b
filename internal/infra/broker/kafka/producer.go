package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/shared/events"
)

// Producer publishes domain events as JSON records, one topic per event name.
type Producer struct {
	sync   sarama.SyncProducer
	prefix string
}

func NewProducer(brokers []string, topicPrefix string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: connect producer: %w", err)
	}
	return NewProducerFrom(sync, topicPrefix), nil
}

// NewProducerFrom wraps an existing sarama producer.
func NewProducerFrom(sync sarama.SyncProducer, topicPrefix string) *Producer {
	return &Producer{sync: sync, prefix: topicPrefix}
}

// Topic is the topic events named name are written to.
func (p *Producer) Topic(name string) string {
	return p.prefix + name
}

func (p *Producer) Publish(ctx context.Context, event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: encode %s: %w", event.EventName(), err)
	}
	headers := map[string]string{
		"event_id":    uuid.NewString(),
		"event_name":  event.EventName(),
		"occurred_at": event.OccurredAt().UTC().Format(time.RFC3339Nano),
	}
	msg := newMessage(p.Topic(event.EventName()), event.AggregateID(), payload, headers)
	msg.Timestamp = event.OccurredAt()
	return p.send(ctx, msg)
}

// Send writes a pre-encoded record. The outbox relay uses it.
func (p *Producer) Send(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	return p.send(ctx, newMessage(topic, key, payload, headers))
}

func (p *Producer) send(ctx context.Context, msg *sarama.ProducerMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := p.sync.SendMessage(msg); err != nil {
		return fmt.Errorf("kafka: publish to %s: %w", msg.Topic, err)
	}
	return nil
}

func newMessage(topic, key string, payload []byte, headers map[string]string) *sarama.ProducerMessage {
	hs := make([]sarama.RecordHeader, 0, len(headers))
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Value:   sarama.ByteEncoder(payload),
		Headers: hs,
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}
	return msg
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

var _ events.Publisher = (*Producer)(nil)
