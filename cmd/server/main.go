// Command notekeeper-server serves the notes and to-do JSON API.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/notekeeper/internal/config"
	"github.com/and161185/notekeeper/internal/limiter"
	"github.com/and161185/notekeeper/internal/migrate"
	"github.com/and161185/notekeeper/internal/repository/postgres"
	grpcserver "github.com/and161185/notekeeper/internal/server/grpc"
	"github.com/and161185/notekeeper/internal/server/httpapi"
	"github.com/and161185/notekeeper/internal/service"
	"github.com/and161185/notekeeper/internal/session"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("http", cfg.HTTPAddr),
		zap.String("grpc", cfg.GRPCAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer db.Close()

	checks := map[string]httpapi.Pinger{"postgres": db}

	// token revocation is optional; without Redis logout only drops the client token
	var revoker service.TokenRevoker
	if cfg.RedisURL != "" {
		store, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer func() { _ = store.Close() }()
		revoker = store
		checks["redis"] = store
	}

	users := postgres.NewUserRepo(db)
	categories := postgres.NewCategoryRepo(db)
	notes := postgres.NewNoteRepo(db)
	todos := postgres.NewTodoRepo(db)
	items := postgres.NewTodoItemRepo(db)

	lim := limiter.NewPG(db.Pool, cfg.LimiterWindow, cfg.LimiterMaxFails, cfg.LimiterBlockFor)
	authSvc := service.NewAuthService(users, []byte(cfg.JWTKey), cfg.AccessTTL, lim, revoker)

	if cfg.AdminConfigured() {
		admin, err := authSvc.EnsureAdmin(ctx, service.Registration{
			FirstName: "Admin",
			Email:     cfg.AdminEmail,
			Password:  cfg.AdminPassword,
		})
		if err != nil {
			logger.Fatal("bootstrap admin", zap.Error(err))
		}
		logger.Info("admin ready", zap.Int64("user_id", admin.ID))
	}

	api := httpapi.New(httpapi.Services{
		Auth:       authSvc,
		Categories: service.NewCategoryService(categories, notes),
		Notes:      service.NewNoteService(notes, categories),
		Todos:      service.NewTodoService(todos, items),
		TodoItems:  service.NewTodoItemService(items, todos),
	}, checks, logger)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("listening (http)", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var health *grpcserver.Health
	if cfg.GRPCAddr != "" {
		grpcChecks := make(map[string]grpcserver.Pinger, len(checks))
		for name, p := range checks {
			grpcChecks[name] = p
		}
		health = grpcserver.New(grpcChecks, logger)
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			logger.Fatal("listen", zap.Error(err))
		}
		go health.Watch(ctx, 10*time.Second)
		go func() {
			logger.Info("listening (grpc health)", zap.String("addr", cfg.GRPCAddr))
			errCh <- health.Serve(lis)
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if health != nil {
		health.Shutdown(cfg.ShutdownTimeout)
	}
	logger.Info("shutdown complete")
}
