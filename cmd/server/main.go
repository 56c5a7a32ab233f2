// server runs the workspace control plane: the gRPC API and the HTTP hostname resolver.
// Apply migrations first with go run ./cmd/migrate.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"workspace-control-plane/internal/audit"
	auditrepo "workspace-control-plane/internal/audit/repository"
	"workspace-control-plane/internal/config"
	"workspace-control-plane/internal/db"
	grouprepo "workspace-control-plane/internal/group/repository"
	healthhandler "workspace-control-plane/internal/health/handler"
	"workspace-control-plane/internal/hostname"
	"workspace-control-plane/internal/httpapi"
	"workspace-control-plane/internal/logging"
	membershiphandler "workspace-control-plane/internal/membership/handler"
	membershipservice "workspace-control-plane/internal/membership/service"
	"workspace-control-plane/internal/policy/engine"
	"workspace-control-plane/internal/security"
	"workspace-control-plane/internal/server"
	"workspace-control-plane/internal/server/interceptors"
	spacerepo "workspace-control-plane/internal/space/repository"
	"workspace-control-plane/internal/telemetry"
	telemetryotel "workspace-control-plane/internal/telemetry/otel"
	"workspace-control-plane/internal/telemetry/producer"
	userdomain "workspace-control-plane/internal/user/domain"
	userrepo "workspace-control-plane/internal/user/repository"
	workspacehandler "workspace-control-plane/internal/workspace/handler"
	workspacerepo "workspace-control-plane/internal/workspace/repository"
	workspaceservice "workspace-control-plane/internal/workspace/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTelEndpoint, cfg.OTelServiceName, cfg.OTelInsecure)
	if err != nil {
		return err
	}
	providers.SetGlobal()

	kafkaProducer, err := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.EventsKafkaTopic)
	if err != nil {
		return err
	}
	emitters := []telemetry.EventEmitter{telemetryotel.NewEventEmitter(providers.LoggerProvider)}
	if kafkaProducer != nil {
		emitters = append(emitters, kafkaProducer)
		logger.Info("publishing workspace events to kafka", zap.String("topic", cfg.EventsKafkaTopic))
	}
	emitter := telemetry.Multi(emitters...)

	workspaces := workspacerepo.NewPostgresRepository(conn)
	users := userrepo.NewPostgresRepository(conn)
	txRunner := db.NewTxRunner(conn)

	var allocator workspaceservice.HostnameAllocator
	var hostnames workspacehandler.HostnameChecker
	var resolver httpapi.HostnameResolver
	if cfg.IsHosted() {
		var cache hostname.Cache
		if cfg.RedisAddr != "" {
			client, err := hostname.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
			if err != nil {
				return err
			}
			defer client.Close()
			cache = hostname.NewRedisCache(client)
		}
		r := hostname.NewResolver(workspaces, cfg.HostnameScheme, cfg.HostnameBaseDomain, cache, cfg.CacheTTL(), logger)
		allocator = hostname.NewAllocator(workspaces, nil, cfg.HostnameMaxAttempts)
		hostnames = r
		resolver = r
	}

	provisioner := workspaceservice.NewProvisioner(workspaceservice.Repositories{
		Workspaces:   workspaces,
		Groups:       grouprepo.NewPostgresRepository(conn),
		GroupMembers: grouprepo.NewPostgresMembershipRepository(conn),
		Spaces:       spacerepo.NewPostgresRepository(conn),
		SpaceMembers: spacerepo.NewPostgresMembershipRepository(conn),
		Users:        users,
	}, txRunner, allocator, emitter, logger, workspaceservice.Options{
		Hosted:      cfg.IsHosted(),
		MaxAttempts: cfg.ProvisionMaxAttempts,
	})
	governor := membershipservice.NewRoleGovernor(users, txRunner, emitter, logger, cfg.OwnerGuardLocking)

	policy, err := engine.NewOPAEvaluator(ctx, engine.DefaultRegoPolicy)
	if err != nil {
		return err
	}

	tokens, err := security.LoadTokenProvider(cfg.JWTPrivateKey, cfg.JWTPublicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())
	if err != nil {
		return err
	}
	if tokens == nil {
		logger.Warn("JWT keys not configured; all authenticated RPCs will be rejected")
	}

	health := healthhandler.NewServer(conn, policy, logger)
	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(conn), interceptors.ClientIP, logger)

	grpcServer := server.NewServer(server.Deps{
		Workspaces: workspacehandler.NewServer(provisioner, hostnames, users),
		Membership: membershiphandler.NewServer(provisioner, governor, users, workspaces, policy, logger),
		Health:     health,
	}, server.Options{
		Logger:       logger,
		Tokens:       tokens,
		ValidateUser: activeUser(users),
		Audit:        auditLogger,
	})

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}
	defer lis.Close()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(resolver, health, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr), zap.String("mode", cfg.DeploymentMode))
		serveErr <- grpcServer.Serve(lis)
	}()
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		logger.Error("server stopped unexpectedly", zap.Error(err))
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	// Let in-flight async event emits finish before closing their sinks.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := kafkaProducer.Close(); err != nil {
		logger.Warn("kafka producer close", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		logger.Warn("otel shutdown", zap.Error(err))
	}
	logger.Info("stopped")
	return nil
}

// activeUser rejects tokens whose subject no longer exists or is disabled.
func activeUser(users *userrepo.PostgresRepository) interceptors.UserValidator {
	return func(ctx context.Context, userID string) (bool, error) {
		u, err := users.FindByID(ctx, userID)
		if err != nil {
			return false, err
		}
		return u != nil && u.Status == userdomain.UserStatusActive, nil
	}
}
