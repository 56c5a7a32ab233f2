package repository

import (
	"context"

	"workspace-control-plane/internal/group/domain"
)

// Repository defines persistence for groups.
type Repository interface {
	// CreateDefault creates the default group of workspaceID with seedUserID as its creator.
	// Membership of the seed user is recorded separately through MembershipRepository.
	CreateDefault(ctx context.Context, workspaceID, seedUserID string) (*domain.Group, error)
}

// MembershipRepository defines persistence for group membership links.
type MembershipRepository interface {
	Insert(ctx context.Context, m *domain.Membership) error
}
