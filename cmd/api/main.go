package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/api/middleware"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/api/server"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/block"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/config"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/history"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/identity"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/ledger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/metrics"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/orchestrator"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/progression"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/quantity"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/store"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/supplychain"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Ledger.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid ledger config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "supply-chain-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting supply chain API")

	// Connect to database
	db, err := store.Open(cfg.Database.DSN(), cfg.Database.ReadDSN(), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Connect to the ledger
	rpcURL := cfg.Ledger.RPCURL
	if rpcURL == "" {
		rpcURL = cfg.Ledger.WebSocketURL
	}
	ethClient, err := adapter.NewEthClientDialer(cfg.Ledger.RPCRateLimit).Dial(ctx, rpcURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial ledger RPC", zap.Error(err), zap.String("rpc_url", rpcURL))
	}
	defer ethClient.Close()

	contract, err := ledger.LoadABI(cfg.Ledger.ABIPath)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load contract ABI", zap.Error(err), zap.String("path", cfg.Ledger.ABIPath))
	}

	blocks := block.NewProvider(block.NewEthFetcher(ethClient), block.Config{
		HeadTTL:       cfg.Ledger.BlockHeadTTL,
		StaleWindow:   cfg.Ledger.BlockHeadStaleWindow,
		MaxTimestamps: cfg.Ledger.BlockTimestampCache,
	}, clockAdapter)

	gateway := ledger.NewGateway(ethClient, blocks, contract, ledger.Config{
		ContractAddress:     common.HexToAddress(cfg.Ledger.ContractAddress),
		ChainID:             big.NewInt(cfg.Ledger.ChainID),
		ChainName:           cfg.Ledger.ChainName,
		DefaultGasLimit:     cfg.Ledger.DefaultGasLimit,
		ReceiptPollInterval: cfg.Ledger.ReceiptPollInterval,
		ReceiptTimeout:      cfg.Ledger.ReceiptTimeout,
		LogStepSize:         cfg.Ledger.LogStepSize,
		QueryTimeout:        cfg.Ledger.QueryTimeout,
	}, metrics.NewLedger(cfg.Ledger.ChainName))
	logger.InfoCtx(ctx, "Connected to ledger",
		zap.String("rpc_url", rpcURL),
		zap.String("contract", cfg.Ledger.ContractAddress),
		zap.Int64("chain_id", cfg.Ledger.ChainID))

	// Load role identities
	keyring, err := identity.NewKeyring(cfg.Identities.Credentials())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load role identities", zap.Error(err))
	}
	for _, role := range keyring.Roles() {
		id, _ := keyring.Identity(role)
		logger.InfoCtx(ctx, "Loaded role identity",
			zap.String("role", string(role)),
			zap.String("address", id.Address().Hex()),
			zap.Bool("can_sign", id.CanSign()))
	}

	quantities := quantity.NewLedger(dataStore, jsonAdapter)
	gate := progression.NewGate(progression.NewPGStore(dataStore), clockAdapter)

	orch := orchestrator.New(gateway, keyring, quantities, clockAdapter, orchestrator.Config{
		GasMultiplier:     cfg.Ledger.GasMultiplier,
		AutoAdvance:       cfg.Hop.AutoAdvance,
		AutoAdvanceTarget: cfg.Hop.AutoAdvanceTarget,
	}, metrics.NewOrchestrator())

	reconstructor := history.New(gateway, quantities, jsonAdapter, history.Config{
		WorkerPoolSize: cfg.History.WorkerPoolSize,
		FromBlock:      cfg.History.FromBlock,
	})
	defer reconstructor.Close()

	service := supplychain.New(gateway, keyring, orch, reconstructor, quantities, gate, supplychain.Config{
		EnforceGate: cfg.Gate.Enforce,
	})

	srv := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, service, dataStore)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
