package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	coreport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
	notificationport "github.com/coinbridge/withdrawal-processor/internal/domain/port/notification"
	persistenceport "github.com/coinbridge/withdrawal-processor/internal/domain/port/persistence"
	walletport "github.com/coinbridge/withdrawal-processor/internal/domain/port/wallet"
	withdrawalUseCase "github.com/coinbridge/withdrawal-processor/internal/domain/usecase/withdrawal"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/api/handler"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/api/routes"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/database"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/logger"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/notifier"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/repository"
	timeProvider "github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/time"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/wallet"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer appLogger.Flush()

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Build the withdrawal store
	store, dbManager, err := buildStore(cfg, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to initialize storage", map[string]any{
			"storage": cfg.Storage,
			"error":   err.Error(),
		})
		os.Exit(1)
	}
	if dbManager != nil {
		defer dbManager.Close()
	}

	// Build the payment backend
	backend, err := buildBackend(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize wallet backend", map[string]any{
			"provider": cfg.Wallet.Provider,
			"error":    err.Error(),
		})
		os.Exit(1)
	}

	// Build the notification sink
	sink, err := buildSink(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize notification sink", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize the dispatch engine
	engine := withdrawalUseCase.NewEngine(store, backend, sink, tp, appLogger)

	// Initialize API handlers
	withdrawalHandler := handler.NewWithdrawalHandler(engine, appLogger)
	healthHandler := handler.NewHealthHandler(cfg.Storage, backend.Name())

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, withdrawalHandler, healthHandler)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":    server.Addr,
			"env":     cfg.Environment,
			"storage": cfg.Storage,
			"backend": backend.Name(),
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// buildStore selects and initializes the withdrawal store. The returned manager
// is non-nil only for the postgres store and must be closed by the caller.
func buildStore(
	cfg *config.Config,
	appLogger coreport.Logger,
	tp coreport.TimeProvider,
) (persistenceport.WithdrawalRepository, *database.Manager, error) {
	if cfg.Storage == config.StorageMemory {
		appLogger.Info("Using in-memory withdrawal store", nil)
		return repository.NewMemoryWithdrawalRepository(tp), nil, nil
	}

	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}

	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		return nil, nil, err
	}
	if err := dbManager.Migrate(); err != nil {
		dbManager.Close()
		return nil, nil, err
	}

	return repository.NewWithdrawalRepository(dbManager.DB(), tp, appLogger), dbManager, nil
}

// buildBackend selects and initializes the payment backend. With provider auto,
// piteas wins when fully configured, then the generic endpoint, then the
// simulated backend.
func buildBackend(cfg *config.Config, appLogger coreport.Logger) (walletport.Backend, error) {
	provider := cfg.Wallet.Provider
	if provider == config.ProviderAuto {
		switch {
		case cfg.Wallet.PiteasConfigured():
			provider = config.ProviderPiteas
		case cfg.Wallet.Endpoint != "":
			provider = config.ProviderHTTP
		default:
			provider = config.ProviderSimulated
		}
		appLogger.Info("Wallet provider auto-selected", map[string]any{
			"provider": provider,
		})
	}

	switch provider {
	case config.ProviderPiteas:
		return wallet.NewPiteasBackend(wallet.PiteasConfig{
			BaseURL:     cfg.Wallet.Piteas.BaseURL,
			APIKey:      cfg.Wallet.Piteas.APIKey,
			ProjectID:   cfg.Wallet.Piteas.ProjectID,
			WalletID:    cfg.Wallet.Piteas.WalletID,
			AssetSymbol: cfg.Wallet.Piteas.AssetSymbol,
			Network:     cfg.Wallet.Piteas.Network,
			Priority:    cfg.Wallet.Piteas.Priority,
			Timeout:     cfg.Wallet.Timeout,
		}, appLogger)
	case config.ProviderHTTP:
		return wallet.NewHTTPBackend(cfg.Wallet.Endpoint, cfg.Wallet.APIKey, cfg.Wallet.Timeout, appLogger)
	default:
		return wallet.NewSimulatedBackend(appLogger), nil
	}
}

// buildSink selects the lifecycle-event sink. An empty webhook URL falls back
// to the log sink.
func buildSink(cfg *config.Config, appLogger coreport.Logger) (notificationport.Sink, error) {
	if cfg.Notifier.WebhookURL == "" {
		return notifier.NewLogSink(appLogger), nil
	}
	return notifier.NewWebhookSink(cfg.Notifier.WebhookURL, cfg.Notifier.Timeout, appLogger)
}
