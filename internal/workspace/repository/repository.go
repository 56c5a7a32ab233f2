package repository

import (
	"context"

	"workspace-control-plane/internal/workspace/domain"
)

// Repository defines persistence for workspaces.
type Repository interface {
	// Insert persists w. A hostname already held by another workspace yields errs.ErrConflict.
	Insert(ctx context.Context, w *domain.Workspace) error
	// UpdateByID writes the mutable fields of w. Returns errs.ErrNotFound when no row matched.
	UpdateByID(ctx context.Context, w *domain.Workspace) error
	FindByID(ctx context.Context, id string) (*domain.Workspace, error)
	FindByHostname(ctx context.Context, hostname string) (*domain.Workspace, error)
	ExistsByHostname(ctx context.Context, hostname string) (bool, error)
}
