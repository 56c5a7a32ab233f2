package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/platform/errs"
	"workspace-control-plane/internal/telemetry"
	telemetrydomain "workspace-control-plane/internal/telemetry/domain"
	userdomain "workspace-control-plane/internal/user/domain"
)

// lastOwnerMessage is the error text for demotions that would leave a workspace without an owner.
const lastOwnerMessage = "a workspace must always retain at least one owner"

// UserRepo is the minimal user repository needed by the role governor.
type UserRepo interface {
	FindByID(ctx context.Context, id string) (*userdomain.User, error)
	UpdateByID(ctx context.Context, u *userdomain.User) error
	CountByRoleInWorkspace(ctx context.Context, workspaceID string, role membershipdomain.Role) (int64, error)
	LockOwners(ctx context.Context, workspaceID string) error
}

// TxRunner runs fn atomically; nested calls join the outer transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RoleGovernor changes workspace roles while keeping at least one owner per workspace.
type RoleGovernor struct {
	users   UserRepo
	tx      TxRunner
	emitter telemetry.EventEmitter
	logger  *zap.Logger
	locking bool
}

// NewRoleGovernor returns a RoleGovernor. With locking set, each update runs in one transaction that
// first row-locks the workspace owners, so two concurrent demotions cannot both pass the owner count.
// Without it the count and the update are separate statements. tx may be nil when locking is off.
func NewRoleGovernor(users UserRepo, tx TxRunner, emitter telemetry.EventEmitter, logger *zap.Logger, locking bool) *RoleGovernor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleGovernor{users: users, tx: tx, emitter: emitter, logger: logger, locking: locking && tx != nil}
}

// UpdateMemberRole sets targetUserID's role in workspaceID to newRole on behalf of actorID.
// Checks run in order: the target must be a member (errs.ErrNotFound); the actor's role must allow the
// change (errs.ErrPermissionDenied); an unchanged role returns the current state without writing; the
// sole owner cannot be demoted (errs.ErrValidation).
func (g *RoleGovernor) UpdateMemberRole(ctx context.Context, actorID, workspaceID, targetUserID string, newRole membershipdomain.Role) (*userdomain.User, error) {
	if !newRole.Valid() {
		return nil, errs.Validation("invalid role %q", newRole)
	}
	var (
		result   *userdomain.User
		previous membershipdomain.Role
		changed  bool
	)
	apply := func(ctx context.Context) error {
		if g.locking {
			if err := g.users.LockOwners(ctx, workspaceID); err != nil {
				return fmt.Errorf("lock owners: %w", err)
			}
		}
		target, err := g.users.FindByID(ctx, targetUserID)
		if err != nil {
			return fmt.Errorf("find target: %w", err)
		}
		if !target.InWorkspace(workspaceID) {
			return errs.NotFound("member %q not found in workspace %q", targetUserID, workspaceID)
		}
		actor := target
		if actorID != targetUserID {
			if actor, err = g.users.FindByID(ctx, actorID); err != nil {
				return fmt.Errorf("find actor: %w", err)
			}
		}
		if !actor.InWorkspace(workspaceID) {
			return errs.PermissionDenied("actor %q is not a member of workspace %q", actorID, workspaceID)
		}
		if !membershipdomain.CanAssign(actor.Role, target.Role, newRole) {
			return errs.PermissionDenied("%s may not change a %s to %s", actor.Role, target.Role, newRole)
		}
		if target.Role == newRole {
			result = target
			return nil
		}
		if target.Role == membershipdomain.RoleOwner {
			owners, err := g.users.CountByRoleInWorkspace(ctx, workspaceID, membershipdomain.RoleOwner)
			if err != nil {
				return fmt.Errorf("count owners: %w", err)
			}
			if owners <= 1 {
				return errs.Validation(lastOwnerMessage)
			}
		}
		previous = target.Role
		target.Role = newRole
		target.UpdatedAt = time.Now().UTC()
		if err := g.users.UpdateByID(ctx, target); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		result, changed = target, true
		return nil
	}

	var err error
	if g.locking {
		err = g.tx.RunInTx(ctx, apply)
	} else {
		err = apply(ctx)
	}
	if err != nil {
		return nil, err
	}
	if changed {
		g.logger.Info("member role changed",
			zap.String("workspace_id", workspaceID),
			zap.String("actor_id", actorID),
			zap.String("user_id", targetUserID),
			zap.String("from", string(previous)),
			zap.String("to", string(newRole)),
		)
		telemetry.EmitAsync(g.emitter, telemetrydomain.NewEvent(
			telemetrydomain.EventMemberRoleChanged, workspaceID, actorID, targetUserID,
			map[string]string{"from": string(previous), "to": string(newRole)},
		), g.logger)
	}
	return result, nil
}
