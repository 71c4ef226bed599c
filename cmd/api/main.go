package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/api/http"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/api/http/handlers"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/auth"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/config"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/events"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/observability"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/persistence"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/service"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/storage"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/worker"
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

	var store storage.EntityStore
	if pool := pg.PoolHandle(); pool != nil {
		store = storage.NewPostgresStore(pool)
	} else {
		store = storage.NewMemoryStore()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notifications := service.NewNotificationService(dispatcher, logger, metrics, cfg.Notification)
	notifications.RegisterHandlers()

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		SLAWindows: cfg.SLA.PriorityWindows(),
	})
	warrantyService := service.NewWarrantyService(service.WarrantyDependencies{
		Store:      store,
		Dispatcher: dispatcher,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		Store:      store,
		Dispatcher: dispatcher,
	})
	reviewService := service.NewReviewService(service.ReviewDependencies{
		Store: store,
		Cache: persistence.NewStatsCache(redis),
	})

	sweeper := worker.NewSLASweeper(store, dispatcher, redis, logger, cfg.Worker)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("failed to start sla sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)
	authMiddleware := auth.NewMiddleware(tokens)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Warranties:     handlers.NewWarrantiesHandler(warrantyService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Reviews:        handlers.NewReviewsHandler(reviewService),
		AuthMiddleware: authMiddleware,
	})

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
