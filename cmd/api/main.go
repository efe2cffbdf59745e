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

	httptransport "github.com/spec-kit/dental-solution/internal/api/http"
	"github.com/spec-kit/dental-solution/internal/api/http/handlers"
	"github.com/spec-kit/dental-solution/internal/config"
	"github.com/spec-kit/dental-solution/internal/events"
	"github.com/spec-kit/dental-solution/internal/observability"
	"github.com/spec-kit/dental-solution/internal/persistence"
	"github.com/spec-kit/dental-solution/internal/repository"
	"github.com/spec-kit/dental-solution/internal/service"
	"github.com/spec-kit/dental-solution/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dependencies := map[string]handlers.Pinger{}

	var (
		userRepo repository.UserRepository
		postRepo repository.PostRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		store := repository.NewMemoryStore()
		userRepo, postRepo = store.Users(), store.Posts()
	default:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to configure postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.EnsureSchema {
			if err := persistence.EnsureSchema(ctx, pg.Pool, logger); err != nil {
				logger.Error("failed to ensure schema", zap.Error(err))
			}
		}

		userRepo = repository.NewUserRepository(pg.Pool)
		postRepo = repository.NewPostRepository(pg.Pool)
		dependencies["postgres"] = pg
	}

	redisConn := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redisConn.Close()

	var publisher service.Publisher
	if redisConn.Client != nil {
		publisher = redisConn.Client
		dependencies["redis"] = redisConn
	}

	metrics := observability.NewMetrics("dental")
	dispatcher := events.NewInMemoryDispatcher()

	notificationService := service.NewNotificationService(dispatcher, publisher, metrics, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	userService := service.NewUserService(cfg.Auth, service.UserDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	postService := service.NewPostService(service.PostDependencies{
		PostRepo:   postRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	var authLimiter fiber.Handler
	if cfg.RateLimit.Enabled {
		authLimiter = httptransport.RateLimit(redisConn.Client, "auth", cfg.RateLimit.AuthMax, cfg.RateLimit.Window(), logger)
	}

	app := httptransport.NewApp(cfg.App)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Users:       handlers.NewUsersHandler(userService),
		Posts:       handlers.NewPostsHandler(postService),
		Metrics:     metrics,
		AuthLimiter: authLimiter,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("storage", cfg.Storage.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
