package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/publicvoice/internal/api/http"
	"github.com/spec-kit/publicvoice/internal/api/http/handlers"
	"github.com/spec-kit/publicvoice/internal/auth"
	"github.com/spec-kit/publicvoice/internal/config"
	"github.com/spec-kit/publicvoice/internal/events"
	"github.com/spec-kit/publicvoice/internal/observability"
	"github.com/spec-kit/publicvoice/internal/persistence"
	"github.com/spec-kit/publicvoice/internal/repository"
	"github.com/spec-kit/publicvoice/internal/repository/memory"
	"github.com/spec-kit/publicvoice/internal/service"
	"github.com/spec-kit/publicvoice/internal/storage"
	"github.com/spec-kit/publicvoice/internal/worker"
)

const multipartOverhead = 1 << 20

type repositories struct {
	actors      repository.ActorRepository
	departments repository.DepartmentRepository
	complaints  repository.ComplaintRepository
}

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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg, logger)
	limiter := auth.NewRedisLoginLimiter(redis.Client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow(), logger)
	dispatcher := events.NewInMemoryDispatcher(logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		ActorRepo: repos.actors,
		Limiter:   limiter,
		Logger:    logger,
	})
	directoryService := service.NewDirectoryService(*cfg, service.DirectoryDependencies{
		DepartmentRepo: repos.departments,
		ActorRepo:      repos.actors,
		Logger:         logger,
	})
	complaintService := service.NewComplaintService(cfg.Complaint, service.ComplaintDependencies{
		ComplaintRepo: repos.complaints,
		ActorRepo:     repos.actors,
		Directory:     directoryService,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	reportService := service.NewReportService(repos.complaints, repos.actors, repos.departments)

	if err := service.NewBootstrapper(*cfg, repos.departments, repos.actors, logger).Bootstrap(ctx); err != nil {
		logger.Error("bootstrap failed", zap.Error(err))
	}

	digest, err := worker.Start(
		service.NewNotificationService(dispatcher, logger, cfg.Notification),
		worker.NewDigestWorker(reportService, dispatcher, logger),
		cfg.Notification.DigestSchedule,
	)
	if err != nil {
		logger.Fatal("invalid digest schedule", zap.Error(err))
	}
	if digest != nil {
		defer digest.Stop()
	}

	store, err := storage.NewLocalStore(cfg.Upload)
	if err != nil {
		logger.Fatal("failed to prepare upload storage", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Upload.MaxFiles*int(cfg.Upload.MaxFileBytes) + multipartOverhead,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Complaints:     handlers.NewComplaintsHandler(complaintService, store),
		Admin:          handlers.NewAdminHandler(complaintService, reportService),
		SuperAdmin:     handlers.NewSuperAdminHandler(directoryService, reportService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), repos.actors),
		UploadDir:      store.Dir(),
		UploadPath:     store.PublicPath(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	if !pg.Enabled() {
		logger.Warn("POSTGRES_DSN not set; using in-memory storage")
		return repositories{
			actors:      memory.NewActorStore(),
			departments: memory.NewDepartmentStore(),
			complaints:  memory.NewComplaintStore(),
		}
	}
	return repositories{
		actors:      repository.NewActorRepository(pg.Pool),
		departments: repository.NewDepartmentRepository(pg.Pool),
		complaints:  repository.NewComplaintRepository(pg.Pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
