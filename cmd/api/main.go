package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/assistant-backend/internal/api/http"
	"github.com/spec-kit/assistant-backend/internal/api/http/handlers"
	"github.com/spec-kit/assistant-backend/internal/audit"
	"github.com/spec-kit/assistant-backend/internal/auth"
	"github.com/spec-kit/assistant-backend/internal/config"
	"github.com/spec-kit/assistant-backend/internal/observability"
	"github.com/spec-kit/assistant-backend/internal/persistence"
	"github.com/spec-kit/assistant-backend/internal/repository"
	"github.com/spec-kit/assistant-backend/internal/service"
	"github.com/spec-kit/assistant-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	sessionRepo := repository.NewSessionRepository(pool)
	revokedRepo := repository.NewRevokedTokenRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	fileRepo := repository.NewProjectFileRepository(pool)
	snapshotRepo := repository.NewSnapshotRepository(pool)
	commandRepo := repository.NewCommandRepository(pool)
	pairingRepo := repository.NewPairingRepository(pool)
	revocationCache := repository.NewRedisRevocationCache(redis.Client)

	metrics := observability.NewMetrics()
	auditLog := audit.NewLog(audit.NewFileStore(cfg.Admin.AuditLogPath), logger, metrics)

	codec := auth.NewTokenCodec(cfg.Admin.SessionSecret)
	master := auth.NewMasterSecretChecker(cfg.Admin)

	sessionService := service.NewSessionService(cfg.Admin, service.SessionDependencies{
		SessionRepo:      sessionRepo,
		RevokedTokenRepo: revokedRepo,
		RevocationCache:  revocationCache,
		Codec:            codec,
		AuditLog:         auditLog,
		Logger:           logger,
	})
	adminService := service.NewAdminService(roleRepo, auditLog)
	projectService := service.NewProjectService(projectRepo, fileRepo, snapshotRepo, cfg.Storage.DataDir)
	commandService := service.NewCommandService(commandRepo, pairingRepo)
	settingsService := service.NewSettingsService(cfg.Storage.SettingsPath, auditLog)
	weatherService := service.NewWeatherService(cfg.Weather)
	voiceService := service.NewVoiceService(cfg.Voice)

	gate := auth.NewGate(sessionService, roleRepo, master, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Sessions: handlers.NewAdminSessionsHandler(sessionService, master, cfg.Admin),
		Roles:    handlers.NewAdminRolesHandler(adminService),
		Logs:     handlers.NewAdminLogsHandler(auditLog, sessionService, metrics),
		Projects: handlers.NewProjectsHandler(projectService),
		Commands: handlers.NewCommandsHandler(commandService),
		Settings: handlers.NewSettingsHandler(settingsService),
		Weather:  handlers.NewWeatherHandler(weatherService),
		Voice:    handlers.NewVoiceHandler(voiceService),
		Gate:     gate,
	})

	sweeper := worker.NewSweeper(cfg.Admin.CleanupInterval(), logger)
	sweeper.Register("session_expiry", sessionService.ExpireSessions)
	sweeper.Register("revocation_retention", sessionService.PruneRevocations)
	sweeper.Start(ctx)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
