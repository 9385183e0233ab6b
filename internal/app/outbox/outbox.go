package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/shared/events"
)

type EventRecord struct {
	ID         string
	Name       string
	Payload    []byte
	OccurredAt time.Time
	Aggregate  string
	Headers    map[string]string
}

type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
}

type EventEncoder interface {
	Encode(ev events.DomainEvent) (EventRecord, error)
}

type JSONEventEncoder struct {
	IDGenerator func() string
}

func (e JSONEventEncoder) Encode(ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, fmt.Errorf("outbox: encode %s: %w", ev.EventName(), err)
	}
	idGen := e.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	return EventRecord{
		ID:         idGen(),
		Name:       ev.EventName(),
		Payload:    payload,
		OccurredAt: ev.OccurredAt().UTC(),
		Aggregate:  ev.AggregateID(),
		Headers:    map[string]string{"content-type": "application/json"},
	}, nil
}

// Publisher records events in the outbox instead of sending them directly;
// a relay forwards them to the broker later.
type Publisher struct {
	Box     Outbox
	Encoder EventEncoder
}

func (p Publisher) Publish(ctx context.Context, ev events.DomainEvent) error {
	if p.Box == nil {
		return nil
	}
	encoder := p.Encoder
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	rec, err := encoder.Encode(ev)
	if err != nil {
		return err
	}
	return p.Box.Add(ctx, rec)
}

var _ events.Publisher = Publisher{}
