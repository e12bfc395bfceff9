package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"od-portal/backend/config"
	"od-portal/backend/internal/api/handler"
	"od-portal/backend/internal/api/router"
	"od-portal/backend/internal/repository"
	"od-portal/backend/internal/service"
	"od-portal/backend/pkg/database"
	"od-portal/backend/pkg/jwt"
	applogger "od-portal/backend/pkg/logger"
	"od-portal/backend/pkg/redis"
)

func main() {
	// 1. config
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting od-portal backend",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("report_timezone", cfg.Report.Timezone),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	// 3.1 migrations
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. redis is optional: without it revoked tokens are not checked and
	// report exports are not rate limited
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, token blacklist and rate limiting disabled", zap.Error(err))
		rdb = nil
	}

	// 5. token verification
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. wiring: Repository → Service → Handler
	if err := handler.RegisterBindings(); err != nil {
		logger.Fatal("register validators failed", zap.Error(err))
	}
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, logger)
	h := handler.NewHandler(svc)

	// 7. routes
	engine := router.Setup(cfg, h, jwtMgr, rdb, db, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Report.FetchTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 9. wait for a signal
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
