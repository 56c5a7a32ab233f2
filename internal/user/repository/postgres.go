package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"workspace-control-plane/internal/db"
	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/platform/errs"
	"workspace-control-plane/internal/user/domain"
)

const userColumns = `id, email, name, workspace_id, role, status, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
// Calls made with a context from db.TxRunner.RunInTx run inside that transaction.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// FindByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Create persists the user to the database. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, nullable(u.Name), nullable(u.WorkspaceID), nullable(string(u.Role)),
		string(u.Status), u.CreatedAt, u.UpdatedAt,
	)
	if db.IsUniqueViolation(err, "users_email_key") {
		return errs.Conflict("email %q already registered", u.Email)
	}
	return err
}

// UpdateByID updates the existing user record. Returns errs.ErrNotFound if no row matched.
func (r *PostgresRepository) UpdateByID(ctx context.Context, u *domain.User) error {
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = time.Now().UTC()
	}
	res, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET name = $2, workspace_id = $3, role = $4, status = $5, updated_at = $6 WHERE id = $1`,
		u.ID, nullable(u.Name), nullable(u.WorkspaceID), nullable(string(u.Role)), string(u.Status), u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("user %q", u.ID)
	}
	return nil
}

// CountByRoleInWorkspace returns how many users of workspaceID hold role.
func (r *PostgresRepository) CountByRoleInWorkspace(ctx context.Context, workspaceID string, role membershipdomain.Role) (int64, error) {
	var n int64
	err := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE workspace_id = $1 AND role = $2`, workspaceID, string(role),
	).Scan(&n)
	return n, err
}

// LockOwners takes row locks on the owners of workspaceID. Only meaningful inside a transaction;
// concurrent owner demotions in the same workspace serialize on these rows.
func (r *PostgresRepository) LockOwners(ctx context.Context, workspaceID string) error {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT id FROM users WHERE workspace_id = $1 AND role = $2 ORDER BY id FOR UPDATE`,
		workspaceID, string(membershipdomain.RoleOwner),
	)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
	}
	return rows.Err()
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u                       domain.User
		name, workspaceID, role sql.NullString
		status                  string
	)
	err := row.Scan(&u.ID, &u.Email, &name, &workspaceID, &role, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Name = name.String
	u.WorkspaceID = workspaceID.String
	u.Role = membershipdomain.Role(role.String)
	u.Status = domain.UserStatus(status)
	return &u, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
