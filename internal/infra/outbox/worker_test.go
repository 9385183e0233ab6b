package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	appoutbox "github.com/Sani5012/Find-That-Home-sub000/internal/app/outbox"
)

type fakeQueue struct {
	pending []*EventDocument
	sent    []string
	failed  map[string]time.Time
}

func (q *fakeQueue) Claim(context.Context, string) (*EventDocument, error) {
	if len(q.pending) == 0 {
		return nil, nil
	}
	doc := q.pending[0]
	q.pending = q.pending[1:]
	return doc, nil
}

func (q *fakeQueue) MarkSent(_ context.Context, id string) error {
	q.sent = append(q.sent, id)
	return nil
}

func (q *fakeQueue) MarkFailed(_ context.Context, id string, next time.Time, _ string) error {
	if q.failed == nil {
		q.failed = map[string]time.Time{}
	}
	q.failed[id] = next
	return nil
}

type sentMessage struct {
	topic, key string
	headers    map[string]string
}

type fakeSender struct {
	messages []sentMessage
	err      error
}

func (s *fakeSender) Send(_ context.Context, topic, key string, _ []byte, headers map[string]string) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, sentMessage{topic: topic, key: key, headers: headers})
	return nil
}

func newDoc(id string, attempts int) *EventDocument {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	d := newEventDocument(appoutbox.EventRecord{
		ID: id, Name: "search.nearby_performed", Payload: []byte(`{}`), OccurredAt: at, Aggregate: "user-1",
		Headers: map[string]string{"content-type": "application/json"},
	}, at)
	d.Attempts = attempts
	return &d
}

func TestDrainRelaysPendingRecords(t *testing.T) {
	q := &fakeQueue{pending: []*EventDocument{newDoc("a", 0), newDoc("b", 0), newDoc("c", 0)}}
	s := &fakeSender{}
	w := &Worker{Queue: q, Sender: s, TopicPrefix: "ftm.", ID: "w1", BatchSize: 2}

	n, err := w.Drain(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("Drain = %d, %v", n, err)
	}
	if len(q.sent) != 2 || len(q.pending) != 1 {
		t.Fatalf("sent %v pending %d", q.sent, len(q.pending))
	}
	m := s.messages[0]
	if m.topic != "ftm.search.nearby_performed" || m.key != "user-1" || m.headers["event_id"] != "a" || m.headers["content-type"] != "application/json" {
		t.Fatalf("message = %+v", m)
	}
	if n, _ := w.Drain(context.Background()); n != 1 {
		t.Fatalf("second drain = %d", n)
	}
}

func TestFailedDeliveryIsRescheduledWithBackoff(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	q := &fakeQueue{pending: []*EventDocument{newDoc("a", 1), newDoc("b", 0)}}
	w := &Worker{
		Queue:   q,
		Sender:  &fakeSender{err: errors.New("broker down")},
		Backoff: []time.Duration{time.Second, time.Minute},
		now:     func() time.Time { return now },
	}
	n, err := w.Drain(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("Drain = %d, %v", n, err)
	}
	if got := q.failed["a"]; !got.Equal(now.Add(time.Minute)) {
		t.Fatalf("next attempt = %v", got)
	}
	if len(q.pending) != 1 {
		t.Fatalf("drain should stop after a failure, pending %d", len(q.pending))
	}
	if got := w.nextRetry(7); !got.Equal(now.Add(time.Minute)) {
		t.Fatalf("capped backoff = %v", got)
	}
}

func TestRunRequiresDependencies(t *testing.T) {
	if err := (&Worker{}).Run(context.Background()); !errors.Is(err, ErrWorkerNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	q := &fakeQueue{pending: []*EventDocument{newDoc("a", 0)}}
	s := &fakeSender{}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	w := &Worker{Queue: q, Sender: s, Interval: 10 * time.Millisecond}
	if err := w.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run = %v", err)
	}
	if len(q.sent) != 1 {
		t.Fatalf("sent = %v", q.sent)
	}
}
