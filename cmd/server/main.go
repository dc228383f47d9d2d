package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ictuniversity/erp-dashboard/internal/api"
	"github.com/ictuniversity/erp-dashboard/internal/api/handler"
	"github.com/ictuniversity/erp-dashboard/internal/app"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
	"github.com/ictuniversity/erp-dashboard/internal/core/service"
	"github.com/ictuniversity/erp-dashboard/internal/infrastructure/db/mongo"
	"github.com/ictuniversity/erp-dashboard/internal/infrastructure/db/redis"
	"github.com/ictuniversity/erp-dashboard/internal/infrastructure/scheduler"
	"github.com/ictuniversity/erp-dashboard/internal/pkg/config"
	"github.com/ictuniversity/erp-dashboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "erp-dashboard",
	})

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; every token will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var (
		feed     ports.AnnouncementFeed
		revoker  ports.SessionRevoker
		mongoDep = handler.Dependency{Name: "mongodb"}
		redisDep = handler.Dependency{Name: "redis"}
	)

	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()

		announcements := mongo.NewAnnouncementFeed(db)
		if err := announcements.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("announcement indexes not created")
		}
		feed = announcements
		mongoDep.Pinger = announcements
		log.Info().Str("database", cfg.Mongo.Database).Msg("announcement feed enabled")
	}

	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
		}()

		list := redis.NewRevocationList(client)
		revoker = list
		redisDep.Pinger = list
		log.Info().Str("addr", cfg.Redis.Addr).Msg("session revocation enabled")
	}

	fetcher := app.NewRetryingFetcher(cfg.Dashboard, feed, log)
	sessions := service.NewSessionManager(
		app.NewControllerFactory(cfg.Dashboard, fetcher, log),
		cfg.Dashboard.SessionIdleTimeout,
		time.Now,
		log,
	)
	defer sessions.Close()

	janitor := scheduler.NewRefreshScheduler(log)
	sessions.StartJanitor(janitor, cfg.Dashboard.JanitorInterval())
	defer janitor.Stop()

	router := api.NewRouter(api.Deps{
		Service:      sessions,
		Revoker:      revoker,
		RevokeTTL:    redis.DefaultRevocationTTL,
		Dependencies: []handler.Dependency{mongoDep, redisDep},
		JWTSecret:    cfg.JWTSecret,
		Log:          logger.Component("http"),
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("dashboard http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
