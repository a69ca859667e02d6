package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Zia-11/web-project/internal/api/http"
	"github.com/Zia-11/web-project/internal/api/http/handlers"
	"github.com/Zia-11/web-project/internal/auth"
	"github.com/Zia-11/web-project/internal/clean"
	"github.com/Zia-11/web-project/internal/config"
	"github.com/Zia-11/web-project/internal/events"
	"github.com/Zia-11/web-project/internal/observability"
	"github.com/Zia-11/web-project/internal/persistence"
	"github.com/Zia-11/web-project/internal/repository"
	"github.com/Zia-11/web-project/internal/service"
	"github.com/Zia-11/web-project/internal/ws"
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
	userRepo := repository.NewUserRepository(pool)
	itemRepo := repository.NewItemRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	sessionRepo := repository.NewSessionRepository(redis.Client, cfg.Session.DefaultTTL())

	dispatcher := events.NewInMemoryDispatcher()
	hub := ws.NewHub(logger)

	accountService := service.NewAccountService(cfg.Auth, userRepo)
	sessionService := service.NewSessionService(cfg.Session, sessionRepo)
	itemService := service.NewItemService(itemRepo)
	productService := service.NewProductService(productRepo, dispatcher)

	countNotifier := service.NewCountNotifier(dispatcher, productRepo, hub, logger)
	countNotifier.RegisterHandlers()

	authMiddleware := auth.NewMiddleware(accountService.TokenManager(), sessionRepo, cfg.Session.CookieName)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	pages := handlers.Pagination{
		DefaultSize: cfg.App.PageSizeDefault,
		MaxSize:     cfg.App.PageSizeMax,
	}
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:              handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Accounts:            handlers.NewAccountsHandler(accountService, sessionService, pages),
		Sessions:            handlers.NewSessionHandler(sessionService),
		Items:               handlers.NewItemsHandler(itemService, pages),
		Products:            handlers.NewProductsHandler(productService, pages),
		Clean:               handlers.NewCleanHandler(clean.NewUploader(cfg.Uploads)),
		ProductsWS:          handlers.NewProductsWSHandler(hub, productService, logger),
		AuthMiddleware:      authMiddleware,
		ProductsRequireAuth: cfg.Products.RequireAuth,
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
