package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	inventoryapp "github.com/pharmapos/backend/internal/application/inventory"
	tradeapp "github.com/pharmapos/backend/internal/application/trade"
	"github.com/pharmapos/backend/internal/infrastructure/config"
	"github.com/pharmapos/backend/internal/infrastructure/event"
	"github.com/pharmapos/backend/internal/infrastructure/logger"
	"github.com/pharmapos/backend/internal/infrastructure/persistence"
	"github.com/pharmapos/backend/internal/interfaces/http/handler"
	"github.com/pharmapos/backend/internal/interfaces/http/middleware"
	"github.com/pharmapos/backend/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	zapLogger, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: time.RFC3339,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync(zapLogger)

	zapLogger.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database, &cfg.Log, zapLogger)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.App.Env != "production" {
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("auto-migrating schema: %w", err)
		}
	}

	// Repositories
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)

	// Transaction scopes
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	tradeScope := persistence.NewGormTradeTransactionScope(db.DB)

	// Application services
	batchService := inventoryapp.NewBatchService(inventoryScope, batchRepo, zapLogger)
	orderService := tradeapp.NewPurchaseOrderService(orderRepo, zapLogger)
	receptionService := tradeapp.NewReceptionService(tradeScope, zapLogger)
	saleService := tradeapp.NewSaleService(tradeScope, zapLogger)

	// Domain events feed the structured audit trail
	eventBus := event.NewInMemoryEventBus(zapLogger)
	eventBus.Subscribe(event.NewAuditLogHandler(zapLogger))
	batchService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	receptionService.SetEventPublisher(eventBus)
	saleService.SetEventPublisher(eventBus)

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		logger.GinMiddleware(zapLogger),
		logger.Recovery(zapLogger),
		middleware.RequestID(),
		middleware.CORS(),
	)
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return fmt.Errorf("setting trusted proxies: %w", err)
	}

	router.NewRouter(engine).
		Register(handler.NewInventoryHandler(batchService)).
		Register(handler.NewPurchaseOrderHandler(orderService, receptionService)).
		Register(handler.NewSaleHandler(saleService)).
		Register(handler.NewSystemHandler(db.Ping)).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		zapLogger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	zapLogger.Info("server stopped")
	return nil
}
