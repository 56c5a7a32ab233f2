package repository

import (
	"context"

	"workspace-control-plane/internal/space/domain"
)

// Repository defines persistence for spaces.
type Repository interface {
	// Create persists s, assigning ID and timestamps when unset.
	Create(ctx context.Context, s *domain.Space) error
	FindByID(ctx context.Context, id string) (*domain.Space, error)
}

// MembershipRepository defines persistence for space role bindings.
type MembershipRepository interface {
	AddUser(ctx context.Context, spaceID, userID string, role domain.Role, addedBy string) (*domain.Member, error)
	AddGroup(ctx context.Context, spaceID, groupID string, role domain.Role, addedBy string) (*domain.Member, error)
}
