package outbox

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Queue is the claim side of the outbox.
type Queue interface {
	Claim(ctx context.Context, workerID string) (*EventDocument, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}

// Sender delivers one record to the broker.
type Sender interface {
	Send(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker relays claimed outbox records to the broker, one topic per event name.
type Worker struct {
	Queue       Queue
	Sender      Sender
	Interval    time.Duration
	TopicPrefix string
	ID          string
	Backoff     []time.Duration
	// BatchSize bounds how many records one tick drains.
	BatchSize int
	Logger    *slog.Logger
	now       func() time.Time
}

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

func (w *Worker) Run(ctx context.Context) error {
	if w.Queue == nil || w.Sender == nil {
		return ErrWorkerNotConfigured
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger().WarnContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

// Drain relays due records until none is left or the batch is full and
// reports how many were sent.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	sent := 0
	for i := 0; i < w.batchSize(); i++ {
		ok, err := w.processOnce(ctx)
		if err != nil || !ok {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// processOnce reports false when nothing was delivered; a failed delivery
// is rescheduled and ends the drain.
func (w *Worker) processOnce(ctx context.Context) (bool, error) {
	doc, err := w.Queue.Claim(ctx, w.ID)
	if err != nil || doc == nil {
		return false, err
	}
	headers := map[string]string{
		"event_id":    doc.ID,
		"event_name":  doc.Name,
		"occurred_at": doc.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	for k, v := range doc.Headers {
		headers[k] = v
	}
	if err := w.Sender.Send(ctx, w.TopicPrefix+doc.Name, doc.Aggregate, doc.Payload, headers); err != nil {
		w.logger().WarnContext(ctx, "outbox delivery failed", "event_id", doc.ID, "attempts", doc.Attempts+1, "error", err)
		return false, w.Queue.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error())
	}
	return true, w.Queue.MarkSent(ctx, doc.ID)
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) batchSize() int {
	if w.BatchSize <= 0 {
		return 100
	}
	return w.BatchSize
}

func (w *Worker) nextRetry(attempts int) time.Time {
	now := time.Now()
	if w.now != nil {
		now = w.now()
	}
	if attempts < len(w.Backoff) {
		return now.Add(w.Backoff[attempts])
	}
	if len(w.Backoff) > 0 {
		return now.Add(w.Backoff[len(w.Backoff)-1])
	}
	return now.Add(5 * time.Second)
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}
