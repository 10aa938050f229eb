package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kdduha/slidegen/internal/cache"
	"github.com/kdduha/slidegen/internal/config"
	"github.com/kdduha/slidegen/internal/handler"
	"github.com/kdduha/slidegen/internal/metrics"
	"github.com/kdduha/slidegen/internal/service"
	"github.com/kdduha/slidegen/internal/templates"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/kdduha/slidegen/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title slidegen API
// @version 1.0
// @description Generate Markdown slide decks with an OpenAI-compatible LLM.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	registry, err := loadTemplates(cfg.TemplatesFile)
	if err != nil {
		logger.Error("template catalog error", "error", err)
		os.Exit(1)
	}

	var redisCache *cache.RedisCache
	if cfg.CacheEnable {
		redisCache = cache.NewRedisCache(
			cfg.RedisConfig.Addr,
			cfg.RedisConfig.Password,
			cfg.RedisConfig.DB,
			cfg.RedisConfig.TTL,
		)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis is not reachable yet", "addr", cfg.RedisConfig.Addr, "error", err)
		}
	}

	clientCfg := cfg.OpenAI.ClientConfig()
	generators := service.NewHolder(func() (*service.Generator, error) {
		gen, err := service.NewGenerator(logger, service.NewOpenAIClient(clientCfg), registry, clientCfg)
		if err != nil {
			return nil, err
		}
		if redisCache != nil {
			gen.SetCacheClient(redisCache)
			logger.Info("set redis as cache")
		}
		return gen, nil
	})
	if _, err := generators.Get(); err != nil {
		logger.Error("generator error", "error", err)
		os.Exit(1)
	}

	h := handler.NewSlidesHandler(logger, generators, registry)

	r := chi.NewRouter()
	r.Use([]func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
			NoColor: true,
		}),
		middleware.Recoverer,
		middleware.Throttle(cfg.Server.ThrottleLimit),
		middleware.Timeout(cfg.Server.Timeout),
		metrics.Middleware,
	}...)

	r.Post("/slides", h.Generate)
	r.Get("/templates", h.ListTemplates)
	r.Get("/templates/{id}", h.GetTemplate)
	r.Post("/templates/{id}/validate", h.ValidateVariables)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}
	logger.Info("server stopped")
}

func loadTemplates(path string) (*templates.Registry, error) {
	if path == "" {
		return templates.NewBuiltin()
	}
	return templates.LoadFile(path)
}
