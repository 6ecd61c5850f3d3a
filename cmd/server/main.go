package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/pharmstock/backend/internal/application/billing"
	catalogapp "github.com/pharmstock/backend/internal/application/catalog"
	inventoryapp "github.com/pharmstock/backend/internal/application/inventory"
	partnerapp "github.com/pharmstock/backend/internal/application/partner"
	reportapp "github.com/pharmstock/backend/internal/application/report"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/infrastructure/cache"
	"github.com/pharmstock/backend/internal/infrastructure/config"
	"github.com/pharmstock/backend/internal/infrastructure/logger"
	"github.com/pharmstock/backend/internal/infrastructure/persistence"
	"github.com/pharmstock/backend/internal/interfaces/http/handler"
	"github.com/pharmstock/backend/internal/interfaces/http/middleware"
	"github.com/pharmstock/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting pharmacy stock backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	sellerRepo := persistence.NewGormSellerRepository(db.DB)
	batchRepo := persistence.NewGormBatchLotRepository(db.DB)
	adjustmentRepo := persistence.NewGormStockAdjustmentRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	billingScope := persistence.NewGormBillingTransactionScope(db.DB)
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)

	// Application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	sellerService := partnerapp.NewSellerService(sellerRepo)
	stockService := inventoryapp.NewStockService(inventoryScope, productRepo, cfg.Stock.StoreTimeout)
	adjustmentService := inventoryapp.NewAdjustmentService(inventoryScope, cfg.Stock.StoreTimeout)
	settlementService := billingapp.NewSettlementService(
		billingScope,
		productRepo,
		customerRepo,
		sellerRepo,
		cfg.Stock.LowStockThreshold,
		cfg.Stock.StoreTimeout,
	)
	reportService := reportapp.NewService(invoiceRepo, adjustmentRepo, batchRepo, productRepo, categoryRepo, log)

	// Advisory stock events: settlement and adjustments publish, the
	// alert handler logs
	eventBus := shared.NewInProcessEventBus()
	alertHandler := inventoryapp.NewStockAlertHandler(log)
	eventBus.Subscribe(alertHandler, alertHandler.EventTypes()...)
	settlementService.SetEventPublisher(eventBus)
	adjustmentService.SetEventPublisher(eventBus)

	// Report memoization: redis when reachable, in-process map otherwise
	if cfg.Report.CacheEnabled {
		reportCache, err := cache.NewRedisReportCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, using in-memory report cache", zap.Error(err))
			reportService.WithCache(cache.NewInMemoryReportCache(), cfg.Report.CacheTTL)
		} else {
			reportService.WithCache(reportCache, cfg.Report.CacheTTL)
		}
	}

	// HTTP handlers
	handlers := router.Handlers{
		Product:    handler.NewProductHandler(productService),
		Category:   handler.NewCategoryHandler(categoryService),
		Customer:   handler.NewCustomerHandler(customerService),
		Seller:     handler.NewSellerHandler(sellerService),
		Stock:      handler.NewStockHandler(stockService, cfg.Stock.ExpiryWindow),
		Adjustment: handler.NewAdjustmentHandler(adjustmentService),
		Invoice:    handler.NewInvoiceHandler(settlementService),
		Report:     handler.NewReportHandler(reportService),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handlers)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
