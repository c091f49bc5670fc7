package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/block"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/config"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/emitter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/ledger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/providers/jetstream"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadEmitterConfig(*configFile, *envPath)
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
			"service": "supply-chain-event-emitter",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting supply chain event emitter")

	// Connect to database
	db, err := store.Open(cfg.Database.DSN(), "", &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	logger.InfoCtx(ctx, "Connected to database")
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()

	// Log subscriptions need a streaming endpoint
	wsURL := cfg.Ledger.WebSocketURL
	if wsURL == "" {
		wsURL = cfg.Ledger.RPCURL
	}
	ethClient, err := adapter.NewEthClientDialer(cfg.Ledger.RPCRateLimit).Dial(ctx, wsURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial ledger", zap.Error(err), zap.String("websocket_url", wsURL))
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

	contractAddress := common.HexToAddress(cfg.Ledger.ContractAddress)
	subscriber := ledger.NewSubscriber(ethClient, blocks, contract, ledger.SubscriberConfig{
		ContractAddress: contractAddress,
		ChainID:         big.NewInt(cfg.Ledger.ChainID),
		LogStepSize:     cfg.Ledger.LogStepSize,
	}, clockAdapter)
	logger.InfoCtx(ctx, "Connected to ledger", zap.String("websocket_url", wsURL))

	// Initialize NATS publisher
	publisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
		URL:             cfg.NATS.URL,
		StreamName:      cfg.NATS.StreamName,
		MaxReconnects:   cfg.NATS.MaxReconnects,
		ReconnectWait:   cfg.NATS.ReconnectWait,
		ConnectionName:  cfg.NATS.ConnectionName,
		DuplicateWindow: cfg.NATS.DuplicateWindow,
	}, natsJS, jsonAdapter, clockAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer publisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS JetStream", zap.String("stream", cfg.NATS.StreamName))

	eventEmitter := emitter.NewEmitter(subscriber, publisher, dataStore, emitter.Config{
		CursorKey:       fmt.Sprintf("supplychain:%d:%s", cfg.Ledger.ChainID, strings.ToLower(contractAddress.Hex())),
		StartBlock:      cfg.Ledger.StartBlock,
		CursorSaveFreq:  cfg.Cursor.SaveEvery,
		CursorSaveDelay: cfg.Cursor.SaveDelay,
	}, clockAdapter)
	defer eventEmitter.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := eventEmitter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "emitter"))
		cancel()
	}

	// Give some time for graceful shutdown
	time.Sleep(time.Second)

	logger.Info("Supply chain event emitter stopped")
}
