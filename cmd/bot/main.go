package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/org-directory-bot/internal/api/http"
	"github.com/spec-kit/org-directory-bot/internal/api/http/handlers"
	"github.com/spec-kit/org-directory-bot/internal/bot"
	"github.com/spec-kit/org-directory-bot/internal/config"
	"github.com/spec-kit/org-directory-bot/internal/dialog"
	"github.com/spec-kit/org-directory-bot/internal/events"
	"github.com/spec-kit/org-directory-bot/internal/observability"
	"github.com/spec-kit/org-directory-bot/internal/persistence"
	"github.com/spec-kit/org-directory-bot/internal/repository"
	"github.com/spec-kit/org-directory-bot/internal/repository/memory"
	"github.com/spec-kit/org-directory-bot/internal/service"
	"github.com/spec-kit/org-directory-bot/internal/transport"
	"github.com/spec-kit/org-directory-bot/internal/worker"
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

	if cfg.Dialog.StoreDriver == config.StorePostgres && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		departmentRepo repository.DepartmentRepository
		employeeRepo   repository.EmployeeRepository
	)
	switch cfg.Dialog.StoreDriver {
	case config.StoreMemory:
		store := memory.NewStore()
		departmentRepo = store.Departments()
		employeeRepo = store.Employees()
		logger.Info("using in-memory store")
	default:
		pool := pg.PoolHandle()
		if pool == nil {
			logger.Fatal("POSTGRES_DSN is required with the postgres store driver")
		}
		departmentRepo = repository.NewDepartmentRepository(pool)
		employeeRepo = repository.NewEmployeeRepository(pool)
	}

	dispatcher := events.NewInMemoryDispatcher()
	auditWorker := worker.NewAuditWorker(dispatcher, logger)
	auditWorker.RegisterHandlers()

	directory := service.NewDirectoryService(service.DirectoryDependencies{
		DepartmentRepo: departmentRepo,
		EmployeeRepo:   employeeRepo,
		Dispatcher:     dispatcher,
		IsAdmin:        cfg.Dialog.IsAdmin,
	})

	metrics := observability.NewMetrics()
	engine := dialog.NewEngine(cfg.Dialog.IsAdmin, logger, metrics)
	bot.Register(engine, bot.Dependencies{
		Directory: directory,
		Gate:      dialog.NewGate(cfg.Dialog.ConfirmCodeLen),
		PageSize:  cfg.Dialog.PageSize,
		IsAdmin:   cfg.Dialog.IsAdmin,
		Logger:    logger,
	})

	var offsets transport.OffsetStore
	if err := redis.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, keeping update offset in memory", zap.Error(err))
		offsets = transport.NewMemoryOffsetStore()
	} else {
		offsets = transport.NewRedisOffsetStore(redis.Client, cfg.Telegram.OffsetRedisKey)
	}

	tgBot, err := transport.NewBot(cfg.Telegram, engine, offsets, logger)
	if err != nil {
		logger.Fatal("failed to connect telegram", zap.Error(err))
	}
	defer tgBot.Close()

	routeCfg := httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Metrics: handlers.NewMetricsHandler(metrics),
	}

	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		routeCfg.Webhook = handlers.NewTelegramWebhookHandler(tgBot, cfg.Telegram.WebhookSecret, logger)
		routeCfg.WebhookPath = cfg.Telegram.WebhookPath
		logger.Info("webhook mode", zap.String("path", cfg.Telegram.WebhookPath))
	default:
		go func() {
			if err := tgBot.Poll(ctx); err != nil && ctx.Err() == nil {
				logger.Error("poll loop stopped", zap.Error(err))
			}
		}()
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, routeCfg)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
