package repository

import (
	"context"

	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// UpdateByID writes name, workspace, role, and status for u.ID.
	UpdateByID(ctx context.Context, u *domain.User) error
	CountByRoleInWorkspace(ctx context.Context, workspaceID string, role membershipdomain.Role) (int64, error)
	// LockOwners row-locks every owner of workspaceID until the surrounding transaction ends.
	LockOwners(ctx context.Context, workspaceID string) error
}
