package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types published after a workspace mutation commits.
const (
	EventWorkspaceCreated  = "workspace.created"
	EventWorkspaceUpdated  = "workspace.updated"
	EventMemberAdded       = "workspace.member_added"
	EventMemberRoleChanged = "workspace.member_role_changed"
)

// DefaultSource tags events produced by this service.
const DefaultSource = "workspace-control-plane"

// Event is a workspace domain event. The JSON form is the Kafka message value and the Loki log line.
type Event struct {
	ID          string            `json:"id"`
	Type        string            `json:"eventType"`
	WorkspaceID string            `json:"workspaceId"`
	ActorID     string            `json:"actorId,omitempty"`
	SubjectID   string            `json:"subjectId,omitempty"`
	Source      string            `json:"source"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// NewEvent returns an event with a fresh ID, the default source, and the current UTC time.
func NewEvent(eventType, workspaceID, actorID, subjectID string, attrs map[string]string) *Event {
	return &Event{
		ID:          uuid.New().String(),
		Type:        eventType,
		WorkspaceID: workspaceID,
		ActorID:     actorID,
		SubjectID:   subjectID,
		Source:      DefaultSource,
		Attributes:  attrs,
		CreatedAt:   time.Now().UTC(),
	}
}
