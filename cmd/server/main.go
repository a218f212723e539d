package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/acehadwer/storefront-backend/config"
	"github.com/acehadwer/storefront-backend/internal/app/controller"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/internal/app/service"
	"github.com/acehadwer/storefront-backend/internal/db"
	"github.com/acehadwer/storefront-backend/internal/middleware"
	"github.com/acehadwer/storefront-backend/internal/router"
	"github.com/acehadwer/storefront-backend/internal/storage"
	"github.com/acehadwer/storefront-backend/pkg/logger"
	"github.com/acehadwer/storefront-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logCfg := logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	}
	if cfg.Log.File != "" {
		logCfg.File = &logger.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}
	}
	logger.Initialize(logCfg)
	defer logger.Close()

	logger.Info("Starting Storefront Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"db_driver":   cfg.Database.Driver,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed the bootstrap admin (optional)
	if err := db.Seed(&cfg.Admin); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Checkout lock: redis when configured, in-process otherwise
	locker := service.NewLocalCheckoutLocker()
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, falling back to in-process checkout lock", map[string]interface{}{
				"addr":  cfg.Redis.Addr(),
				"error": err.Error(),
			})
		} else {
			locker = service.NewRedisCheckoutLocker(cfg.Checkout.LockTTL)
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close redis connection", err)
				}
			}()
		}
	}

	// Image uploads are optional
	var imageStorage storage.ImageStorage
	if cfg.S3.Enabled() {
		s3Storage, err := storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			logger.Warn("S3 storage unavailable, image uploads disabled", map[string]interface{}{
				"bucket": cfg.S3.Bucket,
				"error":  err.Error(),
			})
		} else {
			imageStorage = s3Storage
		}
	}

	gormDB := db.GetDB()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	cartRepo := repository.NewCartRepository(gormDB)
	wishlistRepo := repository.NewWishlistRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	addressRepo := repository.NewAddressRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	productAdminService := service.NewProductAdminService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, cartService)
	checkoutService := service.NewCheckoutService(gormDB, cartRepo, orderRepo, userRepo, addressRepo, locker, cfg.Checkout.CurrencyLabel)
	orderService := service.NewOrderService(orderRepo)
	addressService := service.NewAddressService(gormDB, addressRepo)

	// Initialize controllers
	controllers := router.Controllers{
		Auth:         controller.NewAuthController(authService),
		Product:      controller.NewProductController(productService),
		AdminProduct: controller.NewAdminProductController(productAdminService),
		Cart:         controller.NewCartController(cartService),
		Wishlist:     controller.NewWishlistController(wishlistService),
		Checkout:     controller.NewCheckoutController(checkoutService),
		Order:        controller.NewOrderController(orderService),
		Address:      controller.NewAddressController(addressService),
		Upload:       controller.NewUploadController(imageStorage),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	healthCheck := func() error {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}

	// Setup router
	r := router.NewRouter(controllers, authMiddleware, healthCheck, cfg)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
