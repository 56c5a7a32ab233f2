// seed inserts development sample data for local testing: an owner, a member, and the owner's workspace
// provisioned through the same path as CreateWorkspace. Idempotent: skips when the owner email exists.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"workspace-control-plane/internal/config"
	"workspace-control-plane/internal/db"
	grouprepo "workspace-control-plane/internal/group/repository"
	"workspace-control-plane/internal/hostname"
	"workspace-control-plane/internal/logging"
	membershipdomain "workspace-control-plane/internal/membership/domain"
	"workspace-control-plane/internal/security"
	spacerepo "workspace-control-plane/internal/space/repository"
	userdomain "workspace-control-plane/internal/user/domain"
	userrepo "workspace-control-plane/internal/user/repository"
	workspacerepo "workspace-control-plane/internal/workspace/repository"
	workspaceservice "workspace-control-plane/internal/workspace/service"
)

type options struct {
	ownerEmail    string
	memberEmail   string
	workspaceName string
	hostname      string
}

func main() {
	var opts options
	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVar(&opts.ownerEmail, "owner-email", "dev@example.com", "email of the workspace owner")
	flagSet.StringVar(&opts.memberEmail, "member-email", "member@example.com", "email of a second user added as member (empty to skip)")
	flagSet.StringVar(&opts.workspaceName, "workspace", "Acme Dev", "name of the seeded workspace")
	flagSet.StringVar(&opts.hostname, "hostname", "", "hostname candidate in hosted mode (default: derived from --workspace)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := seed(context.Background(), cfg, logger, opts); err != nil {
		logger.Fatal("seed", zap.Error(err))
	}
}

func seed(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts options) error {
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	existing, err := users.GetByEmail(ctx, opts.ownerEmail)
	if err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if existing != nil {
		logger.Info("seed already applied; skipping", zap.String("email", opts.ownerEmail))
		return nil
	}

	workspaces := workspacerepo.NewPostgresRepository(conn)
	var allocator workspaceservice.HostnameAllocator
	if cfg.IsHosted() {
		allocator = hostname.NewAllocator(workspaces, nil, cfg.HostnameMaxAttempts)
	}
	provisioner := workspaceservice.NewProvisioner(workspaceservice.Repositories{
		Workspaces:   workspaces,
		Groups:       grouprepo.NewPostgresRepository(conn),
		GroupMembers: grouprepo.NewPostgresMembershipRepository(conn),
		Spaces:       spacerepo.NewPostgresRepository(conn),
		SpaceMembers: spacerepo.NewPostgresMembershipRepository(conn),
		Users:        users,
	}, db.NewTxRunner(conn), allocator, nil, logger, workspaceservice.Options{
		Hosted:      cfg.IsHosted(),
		MaxAttempts: cfg.ProvisionMaxAttempts,
	})

	owner, err := createUser(ctx, users, opts.ownerEmail, "Dev User")
	if err != nil {
		return err
	}
	ws, err := provisioner.Create(ctx, owner.ID, workspaceservice.CreateInput{
		Name:        opts.workspaceName,
		Description: "Seeded for local development",
		Hostname:    opts.hostname,
	})
	if err != nil {
		return fmt.Errorf("provision workspace: %w", err)
	}
	logger.Info("workspace provisioned",
		zap.String("workspace_id", ws.ID),
		zap.String("hostname", ws.HostnameValue()),
		zap.String("owner", owner.Email),
	)

	if opts.memberEmail != "" {
		member, err := createUser(ctx, users, opts.memberEmail, "Member User")
		if err != nil {
			return err
		}
		if _, err := provisioner.AddUserToWorkspace(ctx, member.ID, ws.ID, membershipdomain.RoleMember); err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		logger.Info("member added", zap.String("user_id", member.ID), zap.String("email", member.Email))
	}

	tokens, err := security.LoadTokenProvider(cfg.JWTPrivateKey, cfg.JWTPublicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())
	if err != nil {
		return err
	}
	if tokens == nil || !tokens.CanIssue() {
		logger.Info("JWT_PRIVATE_KEY not set; no dev token issued")
		return nil
	}
	token, _, expiresAt, err := tokens.IssueAccess(uuid.New().String(), owner.ID, ws.ID)
	if err != nil {
		return fmt.Errorf("issue dev token: %w", err)
	}
	fmt.Printf("Workspace: %s (%s)\n", ws.Name, ws.ID)
	fmt.Printf("Owner token (expires %s):\n%s\n", expiresAt.Format(time.RFC3339), token)
	return nil
}

func createUser(ctx context.Context, users *userrepo.PostgresRepository, email, name string) (*userdomain.User, error) {
	now := time.Now().UTC()
	u := &userdomain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Status:    userdomain.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("user %s: %w", email, err)
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user %s: %w", email, err)
	}
	return u, nil
}
