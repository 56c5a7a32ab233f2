package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"workspace-control-plane/internal/db"
	"workspace-control-plane/internal/group/domain"
	"workspace-control-plane/internal/platform/errs"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a group repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// CreateDefault inserts the workspace's default group and returns it.
func (r *PostgresRepository) CreateDefault(ctx context.Context, workspaceID, seedUserID string) (*domain.Group, error) {
	now := time.Now().UTC()
	g := &domain.Group{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		Name:        domain.DefaultGroupName,
		IsDefault:   true,
		CreatorID:   seedUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO groups (id, workspace_id, name, is_default, creator_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		g.ID, g.WorkspaceID, g.Name, g.IsDefault, g.CreatorID, g.CreatedAt, g.UpdatedAt,
	)
	if db.IsUniqueViolation(err, "groups_workspace_name_key") {
		return nil, errs.Conflict("workspace %q already has a group named %q", workspaceID, g.Name)
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

type PostgresMembershipRepository struct {
	db *sql.DB
}

// NewPostgresMembershipRepository returns a group membership repository backed by db.
func NewPostgresMembershipRepository(conn *sql.DB) *PostgresMembershipRepository {
	return &PostgresMembershipRepository{db: conn}
}

// Insert links m.UserID into m.GroupID. Linking an existing member again is a no-op.
func (r *PostgresMembershipRepository) Insert(ctx context.Context, m *domain.Membership) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO group_users (group_id, user_id, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		m.GroupID, m.UserID, m.CreatedAt,
	)
	return err
}
