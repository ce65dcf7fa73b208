package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/config"
	_ "github.com/d60-Lab/foodgram/docs"
	"github.com/d60-Lab/foodgram/internal/api"
	"github.com/d60-Lab/foodgram/internal/api/handler"
	"github.com/d60-Lab/foodgram/internal/api/middleware"
	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/internal/media"
	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/database"
	"github.com/d60-Lab/foodgram/pkg/logger"
	"github.com/d60-Lab/foodgram/pkg/token"
	"github.com/d60-Lab/foodgram/pkg/tracing"
)

// @title Foodgram API
// @version 1.0
// @description Recipes, subscriptions, favorites and shopping lists.
// @BasePath /
// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.Server.Mode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				logger.Warn("tracer shutdown", zap.Error(err))
			}
		}()
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	catalog, denylist, rdb := caches(ctx, cfg)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	store := media.NewStore(cfg.Media.Root, mediaBaseURL(cfg), cfg.Media.MaxWidth, cfg.Media.MaxHeight)
	svcs := service.NewServices(service.NewRepositories(db), service.Deps{
		Media:    store,
		Tokens:   token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL),
		Denylist: denylist,
		Catalog:  catalog,
		BaseURL:  cfg.Server.BaseURL,
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	go limiter.Run(time.Minute, time.Hour, stopCleanup)

	engine := api.NewRouter(api.RouterOptions{
		Handler: handler.NewHandler(svcs, handler.Options{
			BaseURL:     cfg.Server.BaseURL,
			PageSize:    cfg.Pagination.PageSize,
			MaxPageSize: cfg.Pagination.MaxPageSize,
		}),
		Authenticator: svcs.Auth,
		Unauthorized:  service.ErrUnauthorized,
		Limiter:       limiter,
		MediaRoot:     cfg.Media.Root,
		MediaURL:      cfg.Media.URL,
		Sentry:        cfg.Sentry.DSN != "",
		Tracing:       cfg.Tracing.Enabled,
		ServiceName:   cfg.Tracing.ServiceName,
		Swagger:       cfg.Server.Mode != gin.ReleaseMode,
		Ping:          pinger(db),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           cors.New(corsOptions(cfg)).Handler(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// caches redis 不可用时退化为直连数据库与进程内黑名单
func caches(ctx context.Context, cfg *config.Config) (cache.Catalog, cache.TokenDenylist, *redis.Client) {
	if !cfg.Redis.Enabled {
		return cache.Passthrough{}, cache.NewMemoryDenylist(), nil
	}
	rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		return cache.Passthrough{}, cache.NewMemoryDenylist(), nil
	}
	return cache.NewRedisCatalog(rdb, cfg.Redis.CatalogTTL), cache.NewRedisDenylist(rdb), rdb
}

// mediaBaseURL 相对的 media.url 拼上 server.base_url
// corsOptions 令牌走 Authorization 头，不需要携带 cookie
func corsOptions(cfg *config.Config) cors.Options {
	return cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}
}

func mediaBaseURL(cfg *config.Config) string {
	u := cfg.Media.URL
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return strings.TrimRight(cfg.Server.BaseURL, "/") + "/" + strings.TrimLeft(u, "/")
}

func pinger(db *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
