package domain

import "time"

// AuditLog records one mutation made through the API.
type AuditLog struct {
	ID          string
	WorkspaceID string
	UserID      string
	Action      string
	Resource    string
	IP          string
	Metadata    string // JSON; empty when there is nothing beyond action and resource
	CreatedAt   time.Time
}
