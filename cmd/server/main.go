// Package main runs the coupon system HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ys6448761-hue/yeosu-coupon-system/config"
	"github.com/ys6448761-hue/yeosu-coupon-system/internal/coupons"
	"github.com/ys6448761-hue/yeosu-coupon-system/internal/middleware"
	"github.com/ys6448761-hue/yeosu-coupon-system/internal/reservations"
	"github.com/ys6448761-hue/yeosu-coupon-system/internal/settlements"
	"github.com/ys6448761-hue/yeosu-coupon-system/pkg/database"
	"github.com/ys6448761-hue/yeosu-coupon-system/pkg/qr"
	"github.com/ys6448761-hue/yeosu-coupon-system/pkg/queue"
	"github.com/ys6448761-hue/yeosu-coupon-system/pkg/redis"
	"github.com/ys6448761-hue/yeosu-coupon-system/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// The settlement queue is optional: without Redis the API still serves,
	// redemptions just skip the accrual job.
	var notifier coupons.Notifier
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Warn("redis unavailable, settlement queue disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		notifier = queue.NewQueue(rdb.Client, logger)
	}

	renderer := qr.NewRenderer(cfg.QR.EncryptionKey)

	couponRepo := coupons.NewRepository(pool)
	reservationRepo := reservations.NewRepository(pool)
	storeTimeout := time.Duration(cfg.Database.TimeoutSec) * time.Second
	couponService := coupons.NewService(couponRepo, reservationRepo, renderer, notifier, storeTimeout, logger)
	couponHandler := coupons.NewHandler(couponService, logger)

	settlementRepo := settlements.NewRepository(pool)
	settlementHandler := settlements.NewHandler(settlementRepo)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			response.OK(c, gin.H{
				"message":   "Yeosu Coupon System API is running",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
				"database":  "connected",
			})
		})

		api.POST("/coupons/issue", couponHandler.Issue)
		api.GET("/coupons/:code", couponHandler.Scan)
		api.POST("/coupons/:code/use", couponHandler.Use)
		api.POST("/coupons/:code/cancel", couponHandler.CancelCoupon)
		api.GET("/reservations/:id/coupons", couponHandler.ListByReservation)
		api.GET("/partners/:id/settlements", settlementHandler.CountByPartner)
	}

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route_not_found", "no such API route")
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
