package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hrms-service/internal/api/http"
	"github.com/spec-kit/hrms-service/internal/api/http/handlers"
	"github.com/spec-kit/hrms-service/internal/auth"
	"github.com/spec-kit/hrms-service/internal/config"
	"github.com/spec-kit/hrms-service/internal/events"
	"github.com/spec-kit/hrms-service/internal/observability"
	"github.com/spec-kit/hrms-service/internal/persistence"
	"github.com/spec-kit/hrms-service/internal/repository"
	"github.com/spec-kit/hrms-service/internal/service"
	"github.com/spec-kit/hrms-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && cfg.Postgres.DSN != "" {
		if err := persistence.RunMigrations(ctx, pg, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(pg)
	resetRepo := repository.NewPasswordResetRepository(pg)
	departmentRepo := repository.NewDepartmentRepository(pg)
	employeeRepo := repository.NewEmployeeRepository(pg)
	documentRepo := repository.NewDocumentRepository(pg)

	tokenMgr := auth.NewTokenManager(auth.NewHS256Signer(cfg.Auth.JWTSecret), userRepo, cfg.Auth)

	var lockout auth.LockoutPolicy = auth.NoopLockout{}
	if redis.Enabled() && cfg.Auth.LockoutThreshold > 0 {
		lockout = auth.NewRedisLockout(redis.Client, cfg.Auth.LockoutThreshold, cfg.Auth.LockoutWindow(), cfg.Auth.LockoutDuration())
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		TokenManager:      tokenMgr,
		Lockout:           lockout,
		Dispatcher:        dispatcher,
		Logger:            logger,
		Metrics:           metrics,
	})
	if cfg.Postgres.DSN != "" {
		if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdmin); err != nil {
			logger.Fatal("failed to bootstrap admin account", zap.Error(err))
		}
	}

	departmentService := service.NewDepartmentService(departmentRepo, dispatcher, logger)
	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo:   employeeRepo,
		DepartmentRepo: departmentRepo,
		DocumentRepo:   documentRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	table := httptransport.BuildRouteTable(httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:        handlers.NewAuthHandler(authService),
		Users:       handlers.NewUsersHandler(authService),
		Departments: handlers.NewDepartmentsHandler(departmentService),
		Employees:   handlers.NewEmployeesHandler(employeeService),
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:       logger,
		Metrics:      metrics,
		Timeout:      cfg.App.RequestTimeout(),
		CORS:         cfg.CORS,
		ExposeErrors: cfg.App.IsDevelopment(),
	})
	httptransport.RegisterRoutes(app, httptransport.NewDispatcher(table, authService.TokenManager(), httptransport.DispatcherConfig{
		BasePaths:    cfg.App.BasePaths,
		ExposeErrors: cfg.App.IsDevelopment(),
		Logger:       logger,
		Metrics:      metrics,
	}), metrics)

	for _, r := range table.Routes() {
		logger.Debug("route registered",
			zap.String("method", r.Method),
			zap.String("template", r.Template),
			zap.Bool("auth", r.RequiresAuth),
			zap.String("min_role", string(r.MinRole)),
		)
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Strings("base_paths", cfg.App.BasePaths))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
