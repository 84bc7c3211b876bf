package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticketdesk/internal/api/http"
	"github.com/spec-kit/ticketdesk/internal/api/http/handlers"
	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/observability"
	"github.com/spec-kit/ticketdesk/internal/persistence"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/repository/sqlite"
	"github.com/spec-kit/ticketdesk/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envFiles := pflag.StringSlice("env-file", nil, "dotenv file(s) to load before reading the environment")
	migrateOnly := pflag.Bool("migrate-only", false, "apply migrations and exit")
	pflag.Parse()

	cfg, err := config.Load(*envFiles...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, storePinger, closeStore, err := openStore(ctx, cfg, logger, *migrateOnly)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()

	if *migrateOnly {
		logger.Info("migrations applied")
		return
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()

	deps := service.Dependencies{Dispatcher: dispatcher, Logger: logger}
	authService := service.NewAuthService(cfg.Auth, store.Users, deps)
	userService := service.NewUserService(cfg.Auth, store.Users, deps)
	clientService := service.NewClientService(store.Clients, deps)
	ticketService := service.NewTicketService(store.Tickets, store.Clients, deps)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(httptransport.AppConfig{
		Name:           cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
	}, httptransport.RouteConfig{
		Health:           handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, storePinger, redis, metrics),
		Users:            handlers.NewUsersHandler(authService, userService),
		Auth:             handlers.NewAuthHandler(authService),
		Clients:          handlers.NewClientsHandler(clientService),
		Tickets:          handlers.NewTicketsHandler(ticketService),
		AuthMiddleware:   auth.NewAuthMiddleware(authService),
		ProtectResources: cfg.Auth.ProtectResources,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// openStore connects the configured backend and runs its migrations.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, forceMigrate bool) (repository.Store, handlers.Pinger, func(), error) {
	migrate := cfg.Store.RunMigrations || forceMigrate

	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		db, err := persistence.NewSQLite(ctx, cfg.Store.SQLitePath, logger)
		if err != nil {
			return repository.Store{}, nil, nil, err
		}
		if migrate {
			if err := persistence.RunSQLiteMigrations(ctx, db.DB, logger); err != nil {
				db.Close()
				return repository.Store{}, nil, nil, fmt.Errorf("migrate sqlite: %w", err)
			}
		}
		return sqlite.NewStore(db.DB), db, db.Close, nil

	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return repository.Store{}, nil, nil, err
		}
		pool := pg.PoolHandle()
		if migrate {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				pg.Close()
				return repository.Store{}, nil, nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		store := repository.Store{
			Users:   repository.NewUserRepository(pool),
			Clients: repository.NewClientRepository(pool),
			Tickets: repository.NewTicketRepository(pool),
		}
		return store, pg, pg.Close, nil

	default:
		return repository.Store{}, nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
