package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskmaster/backend/api/handler"
	"github.com/taskmaster/backend/internal/config"
	"github.com/taskmaster/backend/internal/infrastructure/identity"
	"github.com/taskmaster/backend/internal/infrastructure/kv"
	"github.com/taskmaster/backend/internal/infrastructure/monitor"
	"github.com/taskmaster/backend/internal/middleware"
	"github.com/taskmaster/backend/internal/router"
	"github.com/taskmaster/backend/internal/services/lifecycle"
	"github.com/taskmaster/backend/pkg/httpcontext"
	"github.com/taskmaster/backend/pkg/logger"
	"github.com/taskmaster/backend/repository/kvrepo"
	authUC "github.com/taskmaster/backend/usecase/auth"
	todoUC "github.com/taskmaster/backend/usecase/todo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store, err := openStore(cfg)
	if err != nil {
		zapLogger.Fatal("kv store connection failed", zap.String("driver", cfg.KV.Driver), zap.Error(err))
	}
	manager.Register("kv_store", func(ctx context.Context) error {
		return store.Close()
	})

	mon := monitor.New(store, cfg.Monitor.Interval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	idClient := identity.NewClient(identity.Config{
		URL:        cfg.Identity.URL,
		AnonKey:    cfg.Identity.AnonKey,
		ServiceKey: cfg.Identity.ServiceKey,
	})

	todoRepo := kvrepo.NewTodoRepository(store)
	todoUseCase := todoUC.New(todoRepo, zapLogger)
	authUseCase := authUC.New(idClient, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Todo:   apiHandler.NewTodoHandler(todoUseCase, ctxAdapter, zapLogger),
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.BearerAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware, cfg.HTTP.BasePath)

	handler := middleware.CORS(middleware.AccessLog(zapLogger)(r.Handler))

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("base_path", cfg.HTTP.BasePath),
			zap.String("kv_driver", cfg.KV.Driver),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func openStore(cfg *config.Config) (kv.Store, error) {
	switch cfg.KV.Driver {
	case "redis":
		return kv.OpenRedis(kv.RedisConfig{
			URL:      cfg.KV.RedisURL,
			Password: cfg.KV.RedisPassword,
			DB:       cfg.KV.RedisDB,
		})
	case "memory":
		return kv.NewMemory(), nil
	default:
		return kv.OpenBolt(cfg.KV.BoltPath, cfg.KV.BoltBucket)
	}
}
