package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"workspace-control-plane/internal/db"
	"workspace-control-plane/internal/platform/errs"
	"workspace-control-plane/internal/space/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a space repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// Create inserts s. The slug is derived from the name when empty.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Space) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Slug == "" {
		s.Slug = domain.Slugify(s.Name)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}
	_, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO spaces (id, workspace_id, name, slug, creator_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.WorkspaceID, s.Name, s.Slug, nullable(s.CreatorID), s.CreatedAt, s.UpdatedAt,
	)
	if db.IsUniqueViolation(err, "spaces_workspace_slug_key") {
		return errs.Conflict("space %q already exists in workspace", s.Slug)
	}
	return err
}

// FindByID returns the space for id, or nil if not found.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domain.Space, error) {
	var (
		s       domain.Space
		creator sql.NullString
	)
	err := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, workspace_id, name, slug, creator_id, created_at, updated_at FROM spaces WHERE id = $1`, id,
	).Scan(&s.ID, &s.WorkspaceID, &s.Name, &s.Slug, &creator, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.CreatorID = creator.String
	return &s, nil
}

type PostgresMembershipRepository struct {
	db *sql.DB
}

// NewPostgresMembershipRepository returns a space membership repository backed by db.
func NewPostgresMembershipRepository(conn *sql.DB) *PostgresMembershipRepository {
	return &PostgresMembershipRepository{db: conn}
}

// AddUser grants userID role on spaceID.
func (r *PostgresMembershipRepository) AddUser(ctx context.Context, spaceID, userID string, role domain.Role, addedBy string) (*domain.Member, error) {
	return r.insert(ctx, &domain.Member{SpaceID: spaceID, UserID: userID, Role: role, AddedBy: addedBy})
}

// AddGroup grants groupID role on spaceID.
func (r *PostgresMembershipRepository) AddGroup(ctx context.Context, spaceID, groupID string, role domain.Role, addedBy string) (*domain.Member, error) {
	return r.insert(ctx, &domain.Member{SpaceID: spaceID, GroupID: groupID, Role: role, AddedBy: addedBy})
}

func (r *PostgresMembershipRepository) insert(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	if !m.Role.Valid() {
		return nil, errs.Validation("invalid space role %q", m.Role)
	}
	m.ID = uuid.New().String()
	m.CreatedAt = time.Now().UTC()
	_, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO space_members (id, space_id, user_id, group_id, role, added_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.SpaceID, nullable(m.UserID), nullable(m.GroupID), string(m.Role), nullable(m.AddedBy), m.CreatedAt,
	)
	if db.IsUniqueViolation(err, "") {
		return nil, errs.Conflict("subject already bound to space %q", m.SpaceID)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
