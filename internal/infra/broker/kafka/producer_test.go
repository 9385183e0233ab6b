package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/proximity"
)

func TestPublishWritesJSONToPrefixedTopic(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, cfg)
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "ftm.search.nearby_performed" {
			t.Errorf("topic = %q", msg.Topic)
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var decoded proximity.NearbySearchPerformed
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return err
		}
		if decoded.Origin.Latitude != 51.51 || decoded.ResultCount != 3 {
			t.Errorf("payload = %+v", decoded)
		}
		key, err := msg.Key.Encode()
		if err != nil || string(key) != "user-1" {
			t.Errorf("key = %q, %v", key, err)
		}
		return nil
	})

	p := NewProducerFrom(mock, "ftm.")
	event := proximity.NewNearbySearchPerformed("user-1", geo.Coordinate{Latitude: 51.5074, Longitude: -0.1278}, 5, 3, false, time.Now())
	if err := p.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPublishSurfacesBrokerErrors(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewProducerFrom(mock, "")
	event := proximity.NewNearbySearchPerformed("", geo.Coordinate{}, 1, 0, false, time.Now())
	if err := p.Publish(context.Background(), event); !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("err = %v", err)
	}
	_ = p.Close()
}

func TestPublishHonoursCancelledContext(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	p := NewProducerFrom(mock, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	event := proximity.NewNearbySearchPerformed("", geo.Coordinate{}, 1, 0, false, time.Now())
	if err := p.Publish(ctx, event); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	_ = p.Close()
}

func TestSendForwardsRawRecord(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "relay.topic" || msg.Key != nil || len(msg.Headers) != 1 {
			t.Errorf("message = %+v", msg)
		}
		raw, _ := msg.Value.Encode()
		if string(raw) != `{"a":1}` {
			t.Errorf("payload = %s", raw)
		}
		return nil
	})
	p := NewProducerFrom(mock, "ignored.")
	if err := p.Send(context.Background(), "relay.topic", "", []byte(`{"a":1}`), map[string]string{"event_id": "e1"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	_ = p.Close()
}
