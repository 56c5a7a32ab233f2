package domain

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventMemberRoleChanged, "ws-1", "alice", "bob", map[string]string{"from": "member", "to": "admin"})
	if e.ID == "" {
		t.Error("ID should be set")
	}
	if e.Source != DefaultSource {
		t.Errorf("Source = %q", e.Source)
	}
	if e.CreatedAt.IsZero() || e.CreatedAt.Location().String() != "UTC" {
		t.Errorf("CreatedAt = %v, want UTC now", e.CreatedAt)
	}
}

func TestEvent_JSONFieldNames(t *testing.T) {
	e := NewEvent(EventWorkspaceCreated, "ws-1", "alice", "", nil)
	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, k := range []string{"id", "eventType", "workspaceId", "actorId", "source", "createdAt"} {
		if _, ok := fields[k]; !ok {
			t.Errorf("missing field %q in %s", k, raw)
		}
	}
	if _, ok := fields["subjectId"]; ok {
		t.Error("empty subjectId should be omitted")
	}
}
