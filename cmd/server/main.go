package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	httpadapter "clienthub/internal/adapters/http"
	"clienthub/internal/adapters/postgres"
	redisadapter "clienthub/internal/adapters/redis"
	"clienthub/internal/adapters/storage"
	"clienthub/internal/config"
	"clienthub/internal/core/auth"
	"clienthub/internal/core/onboarding"
	"clienthub/internal/domain"
	"clienthub/internal/event"
	"clienthub/internal/image"
	"clienthub/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	if cfg.JWTSecret == "" {
		panic("FATAL: JWT_SECRET is mandatory for Server!")
	}

	dbPool, err := postgres.InitDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to init DB", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	assetStore, err := storage.NewLocalStore(cfg.AvatarDir)
	if err != nil {
		log.Error("failed to init asset store", "error", err)
		os.Exit(1)
	}

	stamper, err := image.NewStamper(cfg.WatermarkPath)
	if err != nil {
		log.Error("failed to load watermark", "path", cfg.WatermarkPath, "error", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(dbPool)

	bus := event.New()
	wireAuditTrail(ctx, cfg, bus, log)

	onboardingService := onboarding.NewService(userRepo, assetStore, stamper, bus, log, cfg.AvatarURLPrefix)
	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.JWTExpiry, log)

	clientHandler := httpadapter.NewClientHandler(onboardingService, log)
	authHandler := httpadapter.NewAuthHandler(authService, log)

	router := httpadapter.NewRouter(cfg, log, &httpadapter.RouterDeps{
		Client: clientHandler,
		Auth:   authHandler,
	})

	srv := httpadapter.NewServer(router, cfg.Address)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http: starting server", "address", cfg.Address)
		errCh <- srv.ListenAndServe()
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http: server shutdown error", "error", err)
		}

	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("http: server error", "error", err)
		}
	}

	log.Info("server stopped")
}

// wireAuditTrail subscribes a Redis stream recorder to the onboarding
// events when REDIS_ADDR is configured. Recording failures are logged and
// never affect request handling.
func wireAuditTrail(ctx context.Context, cfg *config.Config, bus *event.Bus, log logger.Logger) {
	if cfg.RedisAddr == "" {
		return
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	trail := redisadapter.NewAuditTrail(rdb, "onboarding:audit", 10000)

	record := func(kind string) event.Handler {
		return func(e any) {
			if err := trail.Record(ctx, kind, e); err != nil {
				log.Warn("audit record failed", "kind", kind, "error", err)
			}
		}
	}

	bus.Subscribe(domain.EventUserRegistered, record(domain.EventUserRegistered))
	bus.Subscribe(domain.EventCompensated, record(domain.EventCompensated))

	log.Info("audit trail enabled", "addr", cfg.RedisAddr)
}
