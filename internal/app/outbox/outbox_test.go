package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/proximity"
)

type recordingBox struct {
	records []EventRecord
}

func (b *recordingBox) Add(_ context.Context, rec EventRecord) error {
	b.records = append(b.records, rec)
	return nil
}

func TestPublisherRecordsEncodedEvent(t *testing.T) {
	box := &recordingBox{}
	p := Publisher{Box: box, Encoder: JSONEventEncoder{IDGenerator: func() string { return "evt-1" }}}
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	ev := proximity.NewNearbySearchPerformed("user-9", geo.Coordinate{Latitude: 48.8566, Longitude: 2.3522}, 2, 4, true, at)

	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(box.records) != 1 {
		t.Fatalf("records = %d", len(box.records))
	}
	rec := box.records[0]
	if rec.ID != "evt-1" || rec.Name != proximity.NearbySearchPerformedName || rec.Aggregate != "user-9" || !rec.OccurredAt.Equal(at) {
		t.Fatalf("record = %+v", rec)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	origin := payload["origin"].(map[string]any)
	if origin["lat"] != 48.86 || origin["lon"] != 2.35 {
		t.Fatalf("origin not rounded: %v", origin)
	}
}

func TestPublisherWithoutBoxIsNoop(t *testing.T) {
	ev := proximity.NewNearbySearchPerformed("", geo.Coordinate{}, 1, 0, false, time.Now())
	if err := (Publisher{}).Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestDefaultEncoderGeneratesIDs(t *testing.T) {
	ev := proximity.NewNearbySearchPerformed("", geo.Coordinate{}, 1, 0, false, time.Now())
	a, _ := JSONEventEncoder{}.Encode(ev)
	b, _ := JSONEventEncoder{}.Encode(ev)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids %q %q", a.ID, b.ID)
	}
}
