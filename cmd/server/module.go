package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/auth"
	"github.com/diewo77/go-backoffice/internal/config"
	"github.com/diewo77/go-backoffice/internal/db"
	"github.com/diewo77/go-backoffice/internal/handlers"
	"github.com/diewo77/go-backoffice/internal/logger"
	"github.com/diewo77/go-backoffice/internal/metrics"
	"github.com/diewo77/go-backoffice/internal/pdf"
	"github.com/diewo77/go-backoffice/internal/policy"
	"github.com/diewo77/go-backoffice/internal/services"
	"github.com/diewo77/go-backoffice/internal/storage"
)

// profileCacheTTL bounds how long a role change takes to apply to open sessions.
const profileCacheTTL = time.Minute

// AppModule wires the whole application for fx.
var AppModule = fx.Options(
	// Infrastructure
	fx.Provide(
		newLogger,
		newDatabase,
		newSessionStore,
		newStorage,
		newPDFRenderer,
		newMetrics,
	),

	// Domain services and access control
	fx.Provide(
		services.NewNumbering,
		newAlertService,
		newAuthGate,
	),

	// Handlers
	fx.Provide(
		newUploads,
		handlers.NewAuthHandler,
		handlers.NewHealthHandler,
		handlers.NewDashboardHandler,
		handlers.NewClientHandler,
		handlers.NewEquipmentHandler,
		newQuoteHandler,
		handlers.NewEmployeeHandler,
		handlers.NewLeaveHandler,
		handlers.NewCandidateHandler,
		handlers.NewChantierHandler,
		handlers.NewFactureHandler,
		handlers.NewSavHandler,
		handlers.NewHebergementHandler,
		handlers.NewPlanningHandler,
		newUserHandler,
		newFileHandler,
	),

	// HTTP
	fx.Provide(NewApp, newHTTPServer),
	fx.Invoke(func(*http.Server) {}),

	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
)

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.App.Env,
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		_ = log.Sync()
		return nil
	}})
	return log, nil
}

// newDatabase connects, migrates and seeds before anything serves traffic.
func newDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	gdb, err := db.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gdb, cfg.Database, log); err != nil {
		_ = db.Close(gdb)
		return nil, err
	}
	if err := db.Seed(gdb, cfg.Admin, log); err != nil {
		_ = db.Close(gdb)
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return db.Close(gdb) }})
	return gdb, nil
}

func newSessionStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (auth.SessionStore, error) {
	if cfg.Session.Store != config.SessionRedis {
		return auth.NewCookieStore(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Secure), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb, err := auth.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
	if err != nil {
		return nil, err
	}
	log.Info("session store: redis", zap.String("addr", cfg.Redis.Addr))
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return rdb.Close() }})
	return auth.NewRedisStore(rdb, cfg.Session.TTL, cfg.Session.Secure), nil
}

func newStorage(cfg *config.Config, log *zap.Logger) (storage.Store, error) {
	if cfg.Storage.Backend == config.StorageMinIO {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("storage: minio", zap.String("endpoint", cfg.Storage.MinIO.Endpoint), zap.String("bucket", cfg.Storage.MinIO.Bucket))
		return storage.NewMinIO(ctx, cfg.Storage.MinIO)
	}
	log.Info("storage: local", zap.String("dir", cfg.Storage.LocalDir))
	return storage.NewLocal(cfg.Storage.LocalDir)
}

func newPDFRenderer(cfg *config.Config) pdf.Renderer {
	if !cfg.PDF.Enabled {
		return pdf.Disabled{}
	}
	return pdf.NewMaroto()
}

func newMetrics(cfg *config.Config) *metrics.HTTPMetrics { return metrics.New(cfg.App.Name) }

func newAlertService(gdb *gorm.DB, m *metrics.HTTPMetrics) *services.AlertService {
	return services.NewAlertService(gdb, m.ObserveSweep)
}

func newAuthGate(gdb *gorm.DB, sessions auth.SessionStore) *policy.AuthGate {
	return policy.NewAuthGate(gdb, sessions, profileCacheTTL)
}

func newUploads(store storage.Store, cfg *config.Config) *handlers.Uploads {
	return handlers.NewUploads(store, cfg.Storage.MaxBytes)
}

func newQuoteHandler(gdb *gorm.DB, numbers *services.Numbering, renderer pdf.Renderer, cfg *config.Config) *handlers.QuoteHandler {
	return handlers.NewQuoteHandler(gdb, numbers, renderer, cfg.App.Name)
}

func newUserHandler(gdb *gorm.DB, ag *policy.AuthGate) *handlers.UserHandler {
	return handlers.NewUserHandler(gdb, ag)
}

func newFileHandler(store storage.Store) *handlers.FileHandler {
	return handlers.NewFileHandler(store, policy.FileAccess)
}

func newHTTPServer(lc fx.Lifecycle, cfg *config.Config, app *App, log *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutdown signal received")
			ctx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
	return srv
}
