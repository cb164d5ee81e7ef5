package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/creators-of-happiness/selfhost-backend/internal/config"
	"github.com/creators-of-happiness/selfhost-backend/internal/db"
	"github.com/creators-of-happiness/selfhost-backend/internal/handlers/health"
	"github.com/creators-of-happiness/selfhost-backend/internal/handlers/meta"
	"github.com/creators-of-happiness/selfhost-backend/internal/httpserver"
	"github.com/creators-of-happiness/selfhost-backend/internal/logging"
	"github.com/creators-of-happiness/selfhost-backend/internal/middleware"
)

const shutdownGrace = 5 * time.Second

func main() {
	logger, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)

	// One cancellation signal for the whole process; SIGINT and SIGTERM both
	// trigger graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("postgres connect failed", zap.Error(err))
	}
	defer pool.Close()

	r := gin.New()
	r.Use(middleware.RequestLog(logger), gin.Recovery())

	meta.Register(r)
	health.Register(r, pool)

	srv := httpserver.New(":"+cfg.Port, r)
	if err := httpserver.Run(ctx, srv, logger, shutdownGrace); err != nil {
		pool.Close()
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("server exiting")
}
