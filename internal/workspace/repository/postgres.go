package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"workspace-control-plane/internal/db"
	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/platform/errs"
	"workspace-control-plane/internal/workspace/domain"
)

const (
	workspaceColumns = `id, name, description, hostname, logo, default_role, default_space_id, created_at, updated_at`

	hostnameConstraint = "workspaces_hostname_key"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a workspace repository that uses the given db for persistence.
// Calls made with a context from db.TxRunner.RunInTx run inside that transaction.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// Insert persists the workspace. The workspace must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Insert(ctx context.Context, w *domain.Workspace) error {
	_, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO workspaces (`+workspaceColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		w.ID, w.Name, db.NullString(w.Description), db.NullString(w.Hostname), db.NullString(w.Logo),
		string(w.EffectiveDefaultRole()), db.NullString(w.DefaultSpaceID), w.CreatedAt, w.UpdatedAt,
	)
	if db.IsUniqueViolation(err, hostnameConstraint) {
		return errs.Conflict("hostname %q is already taken", w.HostnameValue())
	}
	return err
}

// UpdateByID updates name, description, logo, default role, and default space of the workspace.
// The hostname is immutable after creation.
func (r *PostgresRepository) UpdateByID(ctx context.Context, w *domain.Workspace) error {
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = time.Now().UTC()
	}
	res, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE workspaces SET name = $2, description = $3, logo = $4, default_role = $5, default_space_id = $6, updated_at = $7
		 WHERE id = $1`,
		w.ID, w.Name, db.NullString(w.Description), db.NullString(w.Logo),
		string(w.EffectiveDefaultRole()), db.NullString(w.DefaultSpaceID), w.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("workspace %q", w.ID)
	}
	return nil
}

// FindByID returns the workspace for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domain.Workspace, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id)
	return scanWorkspace(row)
}

// FindByHostname returns the workspace holding hostname, or nil if none does.
func (r *PostgresRepository) FindByHostname(ctx context.Context, hostname string) (*domain.Workspace, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+workspaceColumns+` FROM workspaces WHERE hostname = $1`, hostname)
	return scanWorkspace(row)
}

// ExistsByHostname reports whether any workspace holds hostname.
func (r *PostgresRepository) ExistsByHostname(ctx context.Context, hostname string) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM workspaces WHERE hostname = $1)`, hostname,
	).Scan(&exists)
	return exists, err
}

func scanWorkspace(row *sql.Row) (*domain.Workspace, error) {
	var (
		w                                         domain.Workspace
		description, hostname, logo, defaultSpace sql.NullString
		defaultRole                               string
	)
	err := row.Scan(&w.ID, &w.Name, &description, &hostname, &logo, &defaultRole, &defaultSpace, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	w.Description = db.StringPtr(description)
	w.Hostname = db.StringPtr(hostname)
	w.Logo = db.StringPtr(logo)
	w.DefaultRole = membershipdomain.Role(defaultRole)
	w.DefaultSpaceID = db.StringPtr(defaultSpace)
	return &w, nil
}
