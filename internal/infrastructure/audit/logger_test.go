package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
)

func TestLogger_RecordWritesOneEntry(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(zerolog.New(&buf))

	l.Record(context.Background(), domain.StatusAudit{
		UserID:         12,
		UserEmail:      "kim@example.com",
		PreviousStatus: domain.UserActive,
		NewStatus:      domain.UserBlocked,
		Reason:         "chargeback",
		ActorID:        1,
		Timestamp:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected exactly one log line, got %d", len(lines))
	}

	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	checks := map[string]any{
		"component":       "audit",
		"action":          "USER_BLOCKED",
		"user_email":      "kim@example.com",
		"previous_status": "ACTIVE",
		"new_status":      "BLOCKED",
		"reason":          "chargeback",
	}
	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("%s: expected %v, got %v", k, want, entry[k])
		}
	}
	if entry["user_id"] != float64(12) || entry["actor_id"] != float64(1) {
		t.Errorf("unexpected ids: %v / %v", entry["user_id"], entry["actor_id"])
	}
}

func TestLogger_UnblockAction(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(zerolog.New(&buf))

	l.Record(context.Background(), domain.StatusAudit{UserID: 3, PreviousStatus: domain.UserBlocked, NewStatus: domain.UserActive})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["action"] != "USER_UNBLOCKED" {
		t.Errorf("expected USER_UNBLOCKED, got %v", entry["action"])
	}
	if entry["changed_at"] == nil {
		t.Error("expected a timestamp even when none was given")
	}
}
