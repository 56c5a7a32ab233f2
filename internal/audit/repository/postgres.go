package repository

import (
	"context"
	"database/sql"

	"workspace-control-plane/internal/audit/domain"
	"workspace-control-plane/internal/db"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// Create persists the audit log. The audit log must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	uid := sql.NullString{String: a.UserID, Valid: a.UserID != ""}
	meta := sql.NullString{String: a.Metadata, Valid: a.Metadata != ""}
	_, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO audit_logs (id, workspace_id, user_id, action, resource, ip, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.WorkspaceID, uid, a.Action, a.Resource, a.IP, meta, a.CreatedAt,
	)
	return err
}

// ListByWorkspace returns audit logs for workspaceID, newest first, paginated by limit and offset.
func (r *PostgresRepository) ListByWorkspace(ctx context.Context, workspaceID string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, workspace_id, user_id, action, resource, ip, metadata, created_at
		 FROM audit_logs WHERE workspace_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		workspaceID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AuditLog
	for rows.Next() {
		var (
			a         domain.AuditLog
			uid, meta sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.WorkspaceID, &uid, &a.Action, &a.Resource, &a.IP, &meta, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.UserID, a.Metadata = uid.String, meta.String
		out = append(out, &a)
	}
	return out, rows.Err()
}
