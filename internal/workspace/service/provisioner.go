package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	groupdomain "workspace-control-plane/internal/group/domain"
	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/platform/errs"
	spacedomain "workspace-control-plane/internal/space/domain"
	"workspace-control-plane/internal/telemetry"
	telemetrydomain "workspace-control-plane/internal/telemetry/domain"
	userdomain "workspace-control-plane/internal/user/domain"
	"workspace-control-plane/internal/workspace/domain"
)

const instrumentationName = "workspace-control-plane/internal/workspace/service"

// DefaultMaxAttempts bounds how often Create restarts after a hostname conflict at insert time.
const DefaultMaxAttempts = 5

// WorkspaceRepo is the minimal workspace repository needed by the provisioner.
type WorkspaceRepo interface {
	Insert(ctx context.Context, w *domain.Workspace) error
	UpdateByID(ctx context.Context, w *domain.Workspace) error
	FindByID(ctx context.Context, id string) (*domain.Workspace, error)
}

// GroupRepo creates the default group of a workspace.
type GroupRepo interface {
	CreateDefault(ctx context.Context, workspaceID, seedUserID string) (*groupdomain.Group, error)
}

// GroupMembershipRepo links users into groups.
type GroupMembershipRepo interface {
	Insert(ctx context.Context, m *groupdomain.Membership) error
}

// SpaceRepo is the minimal space repository needed by the provisioner.
type SpaceRepo interface {
	Create(ctx context.Context, s *spacedomain.Space) error
	FindByID(ctx context.Context, id string) (*spacedomain.Space, error)
}

// SpaceMembershipRepo binds users and groups to spaces.
type SpaceMembershipRepo interface {
	AddUser(ctx context.Context, spaceID, userID string, role spacedomain.Role, addedBy string) (*spacedomain.Member, error)
	AddGroup(ctx context.Context, spaceID, groupID string, role spacedomain.Role, addedBy string) (*spacedomain.Member, error)
}

// UserRepo is the minimal user repository needed by the provisioner.
type UserRepo interface {
	FindByID(ctx context.Context, id string) (*userdomain.User, error)
	UpdateByID(ctx context.Context, u *userdomain.User) error
	CountByRoleInWorkspace(ctx context.Context, workspaceID string, role membershipdomain.Role) (int64, error)
}

// TxRunner runs fn atomically; nested calls join the outer transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// HostnameAllocator picks an unused hostname from a candidate name.
type HostnameAllocator interface {
	Allocate(ctx context.Context, candidate string) (string, error)
}

// Repositories groups the stores the provisioner composes inside one transaction.
type Repositories struct {
	Workspaces   WorkspaceRepo
	Groups       GroupRepo
	GroupMembers GroupMembershipRepo
	Spaces       SpaceRepo
	SpaceMembers SpaceMembershipRepo
	Users        UserRepo
}

// Options configures deployment-dependent behavior.
type Options struct {
	// Hosted enables hostname allocation. Single-tenant deployments leave Hostname nil.
	Hosted bool
	// MaxAttempts bounds conflict retries in Create; < 1 uses DefaultMaxAttempts.
	MaxAttempts int
}

// CreateInput is the request to provision a workspace.
type CreateInput struct {
	Name        string
	Description string
	// Hostname overrides the name as the allocation candidate. Ignored unless hosted.
	Hostname string
}

// UpdateInput carries the administrative changes to a workspace. Nil fields are left unchanged.
type UpdateInput struct {
	Name           *string
	Description    *string
	Logo           *string
	DefaultSpaceID *string
	DefaultRole    *membershipdomain.Role
}

// Provisioner creates workspaces with their default group, space, and ownership wiring, and
// attaches users to existing workspaces.
type Provisioner struct {
	repos       Repositories
	tx          TxRunner
	allocator   HostnameAllocator
	emitter     telemetry.EventEmitter
	logger      *zap.Logger
	hosted      bool
	maxAttempts int

	tracer    trace.Tracer
	created   metric.Int64Counter
	conflicts metric.Int64Counter
}

// NewProvisioner returns a Provisioner. allocator is required when opts.Hosted is set.
// emitter may be nil. Spans and counters use the global OTel providers.
func NewProvisioner(repos Repositories, tx TxRunner, allocator HostnameAllocator, emitter telemetry.EventEmitter, logger *zap.Logger, opts Options) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	meter := otel.Meter(instrumentationName)
	created, err := meter.Int64Counter("wcp.workspaces.created", metric.WithDescription("Workspaces provisioned."))
	if err != nil {
		created, _ = noop.Meter{}.Int64Counter("wcp.workspaces.created")
	}
	conflicts, err := meter.Int64Counter("wcp.workspaces.hostname_conflicts", metric.WithDescription("Hostname conflicts detected at insert time."))
	if err != nil {
		conflicts, _ = noop.Meter{}.Int64Counter("wcp.workspaces.hostname_conflicts")
	}
	return &Provisioner{
		repos:       repos,
		tx:          tx,
		allocator:   allocator,
		emitter:     emitter,
		logger:      logger,
		hosted:      opts.Hosted,
		maxAttempts: opts.MaxAttempts,
		tracer:      otel.Tracer(instrumentationName),
		created:     created,
		conflicts:   conflicts,
	}
}

// Create provisions a workspace owned by requesterID. Every write happens in one transaction; on any
// failure nothing is persisted. A hostname conflict at insert restarts the whole transaction with a fresh
// allocation, up to maxAttempts, after which the errs.ErrConflict is returned.
func (p *Provisioner) Create(ctx context.Context, requesterID string, in CreateInput) (*domain.Workspace, error) {
	ctx, span := p.tracer.Start(ctx, "workspace.Create", trace.WithAttributes(attribute.Bool("wcp.hosted", p.hosted)))
	defer span.End()

	name, err := domain.ValidateName(in.Name)
	if err != nil {
		return nil, spanError(span, err)
	}
	if strings.TrimSpace(requesterID) == "" {
		return nil, spanError(span, errs.Validation("requesting user is required"))
	}
	candidate := strings.TrimSpace(in.Hostname)
	if candidate == "" {
		candidate = name
	}

	var ws *domain.Workspace
	for attempt := 1; ; attempt++ {
		ws, err = p.createOnce(ctx, requesterID, name, strings.TrimSpace(in.Description), candidate)
		if err == nil || !p.hosted || !errors.Is(err, errs.ErrConflict) || attempt >= p.maxAttempts {
			break
		}
		p.conflicts.Add(ctx, 1)
		p.logger.Info("hostname conflict at insert, retrying",
			zap.String("candidate", candidate),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	if err != nil {
		return nil, spanError(span, err)
	}

	p.created.Add(ctx, 1, metric.WithAttributes(attribute.Bool("wcp.hosted", p.hosted)))
	span.SetAttributes(attribute.String("wcp.workspace_id", ws.ID))
	p.logger.Info("workspace provisioned",
		zap.String("workspace_id", ws.ID),
		zap.String("hostname", ws.HostnameValue()),
		zap.String("owner_id", requesterID),
	)
	telemetry.EmitAsync(p.emitter, telemetrydomain.NewEvent(
		telemetrydomain.EventWorkspaceCreated, ws.ID, requesterID, requesterID,
		map[string]string{"name": ws.Name, "hostname": ws.HostnameValue()},
	), p.logger)
	return ws, nil
}

func (p *Provisioner) createOnce(ctx context.Context, requesterID, name, description, candidate string) (*domain.Workspace, error) {
	var ws *domain.Workspace
	err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
		requester, err := p.repos.Users.FindByID(ctx, requesterID)
		if err != nil {
			return fmt.Errorf("find requester: %w", err)
		}
		if requester == nil {
			return errs.NotFound("user %q not found", requesterID)
		}
		if err := p.ensureNotSoleOwner(ctx, requester); err != nil {
			return err
		}

		now := time.Now().UTC()
		ws = &domain.Workspace{
			ID:          uuid.New().String(),
			Name:        name,
			DefaultRole: membershipdomain.RoleMember,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if description != "" {
			ws.Description = &description
		}

		// 1. hostname (hosted only)
		if p.hosted {
			hostname, err := p.allocator.Allocate(ctx, candidate)
			if err != nil {
				return err
			}
			ws.Hostname = &hostname
		}

		// 2. workspace row
		if err := p.repos.Workspaces.Insert(ctx, ws); err != nil {
			return wrap("insert workspace", err)
		}

		// 3. default group
		group, err := p.repos.Groups.CreateDefault(ctx, ws.ID, requester.ID)
		if err != nil {
			return wrap("create default group", err)
		}

		// 4. requester becomes owner
		requester.WorkspaceID = ws.ID
		requester.Role = membershipdomain.RoleOwner
		requester.UpdatedAt = now
		if err := p.repos.Users.UpdateByID(ctx, requester); err != nil {
			return wrap("assign owner", err)
		}

		// 5. requester joins the default group
		if err := p.repos.GroupMembers.Insert(ctx, &groupdomain.Membership{GroupID: group.ID, UserID: requester.ID, CreatedAt: now}); err != nil {
			return wrap("join default group", err)
		}

		// 6. default space
		space := &spacedomain.Space{
			WorkspaceID: ws.ID,
			Name:        spacedomain.DefaultSpaceName,
			Slug:        spacedomain.DefaultSpaceSlug,
			CreatorID:   requester.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := p.repos.Spaces.Create(ctx, space); err != nil {
			return wrap("create default space", err)
		}

		// 7-8. space roles
		if _, err := p.repos.SpaceMembers.AddUser(ctx, space.ID, requester.ID, spacedomain.RoleAdmin, requester.ID); err != nil {
			return wrap("grant space admin", err)
		}
		if _, err := p.repos.SpaceMembers.AddGroup(ctx, space.ID, group.ID, spacedomain.RoleWriter, requester.ID); err != nil {
			return wrap("grant group writer", err)
		}

		// 9. default space reference
		ws.DefaultSpaceID = &space.ID
		if err := p.repos.Workspaces.UpdateByID(ctx, ws); err != nil {
			return wrap("set default space", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// AddUserToWorkspace assigns userID to workspaceID with role, or the workspace's default role when role
// is empty. Fails with errs.ErrNotFound when the workspace or user does not exist and with errs.ErrConflict
// when the user already belongs to a workspace; members are never pulled out of another workspace.
func (p *Provisioner) AddUserToWorkspace(ctx context.Context, userID, workspaceID string, role membershipdomain.Role) (*userdomain.User, error) {
	if role != "" && !role.Valid() {
		return nil, errs.Validation("invalid role %q", role)
	}
	var user *userdomain.User
	err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
		ws, err := p.repos.Workspaces.FindByID(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("find workspace: %w", err)
		}
		if ws == nil {
			return errs.NotFound("workspace %q not found", workspaceID)
		}
		user, err = p.repos.Users.FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil {
			return errs.NotFound("user %q not found", userID)
		}
		if user.InWorkspace(workspaceID) {
			return errs.Conflict("user %q is already a member of workspace %q", userID, workspaceID)
		}
		if user.WorkspaceID != "" {
			return errs.Conflict("user %q belongs to another workspace", userID)
		}
		if role == "" {
			role = ws.EffectiveDefaultRole()
		}
		user.WorkspaceID = ws.ID
		user.Role = role
		user.UpdatedAt = time.Now().UTC()
		return wrap("assign member", p.repos.Users.UpdateByID(ctx, user))
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("member added",
		zap.String("workspace_id", workspaceID),
		zap.String("user_id", userID),
		zap.String("role", string(role)),
	)
	telemetry.EmitAsync(p.emitter, telemetrydomain.NewEvent(
		telemetrydomain.EventMemberAdded, workspaceID, "", userID, map[string]string{"role": string(role)},
	), p.logger)
	return user, nil
}

// UpdateWorkspace applies administrative changes. The default space must belong to the workspace and the
// default role may not be owner.
func (p *Provisioner) UpdateWorkspace(ctx context.Context, actorID, workspaceID string, in UpdateInput) (*domain.Workspace, error) {
	var ws *domain.Workspace
	err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		ws, err = p.repos.Workspaces.FindByID(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("find workspace: %w", err)
		}
		if ws == nil {
			return errs.NotFound("workspace %q not found", workspaceID)
		}
		if in.Name != nil {
			name, err := domain.ValidateName(*in.Name)
			if err != nil {
				return err
			}
			ws.Name = name
		}
		if in.Description != nil {
			ws.Description = optional(*in.Description)
		}
		if in.Logo != nil {
			ws.Logo = optional(*in.Logo)
		}
		if in.DefaultRole != nil {
			r := *in.DefaultRole
			if !r.Valid() || r == membershipdomain.RoleOwner {
				return errs.Validation("default role must be admin or member")
			}
			ws.DefaultRole = r
		}
		if in.DefaultSpaceID != nil {
			space, err := p.repos.Spaces.FindByID(ctx, *in.DefaultSpaceID)
			if err != nil {
				return fmt.Errorf("find space: %w", err)
			}
			if space == nil || space.WorkspaceID != ws.ID {
				return errs.Validation("space %q does not belong to workspace %q", *in.DefaultSpaceID, ws.ID)
			}
			ws.DefaultSpaceID = &space.ID
		}
		ws.UpdatedAt = time.Now().UTC()
		return wrap("update workspace", p.repos.Workspaces.UpdateByID(ctx, ws))
	})
	if err != nil {
		return nil, err
	}
	telemetry.EmitAsync(p.emitter, telemetrydomain.NewEvent(
		telemetrydomain.EventWorkspaceUpdated, ws.ID, actorID, "", nil,
	), p.logger)
	return ws, nil
}

// ensureNotSoleOwner rejects moving a user out of a workspace they are the last owner of.
func (p *Provisioner) ensureNotSoleOwner(ctx context.Context, u *userdomain.User) error {
	if u.WorkspaceID == "" || u.Role != membershipdomain.RoleOwner {
		return nil
	}
	n, err := p.repos.Users.CountByRoleInWorkspace(ctx, u.WorkspaceID, membershipdomain.RoleOwner)
	if err != nil {
		return fmt.Errorf("count owners: %w", err)
	}
	if n <= 1 {
		return errs.Validation("a workspace must always retain at least one owner")
	}
	return nil
}

// wrap annotates repository failures with the step name. Taxonomy errors stay matchable with errors.Is.
func wrap(step string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", step, err)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, errs.Message(err))
	return err
}
