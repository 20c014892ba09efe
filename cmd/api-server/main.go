package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vendorhub/database"
	"vendorhub/internal/api/handler"
	"vendorhub/internal/api/middleware"
	"vendorhub/internal/api/repository"
	"vendorhub/internal/api/service"
	"vendorhub/internal/cache"
	"vendorhub/internal/config"
	"vendorhub/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		logger.Error("failed to configure redis", "error", err)
		os.Exit(1)
	}

	defaultRate, err := decimal.NewFromString(cfg.CommissionRate)
	if err != nil {
		logger.Error("invalid COMMISSION_RATE", "value", cfg.CommissionRate, "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Realtime plumbing: dispatcher publishes to Redis, the bridge relays
	// the feed into the hub, the hub fans out to open websocket sessions.
	publisher := realtime.NewPublisher(redisClient)
	hub := realtime.NewHub(logger)
	bridge := realtime.NewBridge(redisClient, hub, logger)

	salesCache := cache.NewSalesCache(redisClient, time.Duration(cfg.CacheTTL)*time.Second, logger)

	// Services
	notificationService := service.NewNotificationService(notificationRepo, userRepo, publisher, logger)
	authService := service.NewAuthService(userRepo, refreshTokenRepo, notificationService, cfg, logger)
	userService := service.NewUserService(userRepo, vendorRepo, notificationService, logger)
	productService := service.NewProductService(productRepo, notificationService, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, notificationService, salesCache, logger)
	payoutService := service.NewPayoutService(payoutRepo, orderRepo, vendorRepo, notificationService, defaultRate, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)
	go bridge.Run(ctx)

	router := setupRouter(cfg, logger, authService, userService, productService, orderService, payoutService, notificationService, hub)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		logger.Info("API server listening", "port", cfg.HTTPPort, "env", cfg.GoEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	if err := redisClient.Close(); err != nil {
		logger.Warn("failed to close redis client", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func setupRouter(
	cfg *config.Config,
	logger *slog.Logger,
	authService service.AuthService,
	userService service.UserService,
	productService service.ProductService,
	orderService service.OrderService,
	payoutService service.PayoutService,
	notificationService service.NotificationService,
	hub *realtime.Hub,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.RateLimit(20, 40))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	authHandler := handler.NewAuthHandler(authService)
	authHandler.RegisterRoutes(api.Group("/auth"))

	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(authService))

	handler.NewUserHandler(userService, authService).RegisterRoutes(authed.Group("/users"))
	handler.NewProductHandler(productService, cfg.LowStockThreshold).RegisterRoutes(authed.Group("/products"))
	handler.NewOrderHandler(orderService).RegisterRoutes(authed.Group("/orders"))
	handler.NewPayoutHandler(payoutService).RegisterRoutes(authed.Group("/payouts"))
	handler.NewNotificationHandler(notificationService, cfg.NotifyRecentLimit).RegisterRoutes(authed.Group("/notifications"))

	ws := router.Group("/ws")
	ws.Use(middleware.AuthMiddleware(authService))
	ws.GET("/notifications", realtime.WSHandler(hub, notificationService, cfg.NotifyRecentLimit))

	return router
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	return redis.NewClient(opts), nil
}
