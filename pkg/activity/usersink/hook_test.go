package usersink

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-kpitiles/pkg/activity"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []types.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record types.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	userID := uuid.New()
	tenantID := uuid.New()
	objectID := "marketing.coupons"

	event := activity.Event{
		Verb:       "kpi.preferences.toggle",
		ActorID:    actorID.String(),
		UserID:     userID.String(),
		TenantID:   tenantID.String(),
		ObjectType: "kpi_report",
		ObjectID:   objectID,
		Channel:    "kpi",
		TileID:     "redemption_rate",
		Origin:     "tab-1",
		Metadata: map[string]any{
			"shown": false,
		},
		OccurredAt: now,
	}

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID {
		t.Fatalf("expected actor %s got %s", actorID, record.ActorID)
	}
	if record.UserID != userID {
		t.Fatalf("expected user %s got %s", userID, record.UserID)
	}
	if record.TenantID != tenantID {
		t.Fatalf("expected tenant %s got %s", tenantID, record.TenantID)
	}
	if record.Verb != "kpi.preferences.toggle" || record.ObjectType != "kpi_report" || record.ObjectID != objectID {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "kpi" {
		t.Fatalf("expected channel kpi got %q", record.Channel)
	}
	if record.OccurredAt != now {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["tile_id"] != "redemption_rate" || record.Data["origin"] != "tab-1" {
		t.Fatalf("expected tile_id and origin data got %v", record.Data)
	}
	if record.Data["shown"] != false {
		t.Fatalf("expected shown metadata got %v", record.Data["shown"])
	}
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyIgnoresMalformedIDs(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	if err := hook.Notify(context.Background(), activity.Event{Verb: "kpi.preferences.select_all", UserID: "u1"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 || sink.records[0].UserID != uuid.Nil {
		t.Fatalf("expected nil user id for non-uuid input, got %+v", sink.records)
	}
}

func TestHookNotifyRequiresSink(t *testing.T) {
	if err := (Hook{}).Notify(context.Background(), activity.Event{Verb: "v"}); err == nil {
		t.Fatalf("expected error without sink")
	}
}
