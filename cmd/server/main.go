package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"dormhop/backend/config"
	"dormhop/backend/internal/api/handler"
	"dormhop/backend/internal/api/middleware"
	"dormhop/backend/internal/api/router"
	"dormhop/backend/internal/notify"
	"dormhop/backend/internal/repository"
	"dormhop/backend/internal/service"
	"dormhop/backend/pkg/database"
	"dormhop/backend/pkg/features"
	"dormhop/backend/pkg/identity"
	"dormhop/backend/pkg/jwt"
	applogger "dormhop/backend/pkg/logger"
	"dormhop/backend/pkg/redis"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config.yaml")
	pflag.Parse()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting dormhop",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. redis is optional: without it the token blacklist is off, rate
	// limiting is per process and the feature cache is not shared
	var (
		blacklist    service.TokenBlacklist
		checker      middleware.TokenChecker
		counter      middleware.RateCounter
		featureStore features.Store
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running degraded", zap.Error(err))
		rdb = nil
	} else {
		blacklist, checker, counter, featureStore = rdb, rdb, rdb, rdb
	}

	// 5. identity
	jwtMgr := jwt.NewManager(&cfg.Auth)

	var verifier identity.Verifier
	gv, err := identity.NewGoogleVerifier(context.Background(), cfg.Auth.GoogleClientID)
	if err != nil {
		logger.Warn("google sign-in disabled", zap.Error(err))
	} else {
		verifier = gv
	}

	// 6. dorm features
	catalog, err := features.LoadCatalog()
	if err != nil {
		logger.Fatal("failed to load dorm catalog", zap.Error(err))
	}
	scraper := features.NewScraper(cfg.Scraper.Timeout, cfg.Scraper.UserAgent)
	featureCache := features.NewCache(catalog, scraper, featureStore, logger)

	// 7. notifications
	var (
		hub      *notify.Hub
		notifier service.Notifier
	)
	if cfg.Feature.NotificationsEnabled {
		hub = notify.NewHub(logger)
		notifier = hub
	}

	// 8. wiring: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(service.Deps{
		Config:    cfg,
		Repo:      repo,
		JWT:       jwtMgr,
		Verifier:  verifier,
		Blacklist: blacklist,
		Notifier:  notifier,
		Catalog:   catalog,
		Features:  featureCache,
		Logger:    logger,
	})
	h := handler.NewHandler(svc, hub, cfg.Server.CORS.AllowOrigins)

	engine := router.Setup(cfg, h, jwtMgr, checker, counter, logger)

	// 9. HTTP server with graceful shutdown
	writeTimeout := 15 * time.Second
	if cfg.Feature.NotificationsEnabled {
		// websocket connections are long lived; hub writes set their own deadlines
		writeTimeout = 0
	}
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
