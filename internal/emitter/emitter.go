package emitter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/messaging"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/store"
)

// Config holds the configuration for the event emitter
type Config struct {
	// CursorKey names the block cursor in the store, usually derived from chain id and contract
	CursorKey       string
	StartBlock      uint64
	CursorSaveFreq  uint64        // Save cursor every N blocks
	CursorSaveDelay time.Duration // Or save cursor every N seconds
}

// Emitter defines the interface for the event emitter
//
//go:generate mockgen -source=emitter.go -destination=../mocks/emitter.go -package=mocks -mock_names=Emitter=MockEmitter
type Emitter interface {
	// Run follows the contract's events and publishes them until ctx ends
	Run(ctx context.Context) error
	// Close closes the emitter and cleans up resources
	Close()
}

// emitter follows SupplyChain contract events and publishes them to the broker
type emitter struct {
	subscriber messaging.Subscriber
	publisher  messaging.Publisher
	store      store.Store
	config     Config
	clock      adapter.Clock
}

// NewEmitter creates a new event emitter
func NewEmitter(
	sub messaging.Subscriber,
	pub messaging.Publisher,
	st store.Store,
	cfg Config,
	clock adapter.Clock,
) Emitter {
	return &emitter{
		subscriber: sub,
		publisher:  pub,
		store:      st,
		config:     cfg,
		clock:      clock,
	}
}

// startBlock resolves where to resume. A stored cursor replays its own block;
// the publisher de-duplicates events already delivered from it.
func (e *emitter) startBlock(ctx context.Context) (uint64, error) {
	if e.config.StartBlock > 0 {
		logger.InfoCtx(ctx, "Starting from configured block",
			zap.String("cursor", e.config.CursorKey),
			zap.Uint64("block", e.config.StartBlock))
		return e.config.StartBlock, nil
	}

	lastBlock, err := e.store.GetBlockCursor(ctx, e.config.CursorKey)
	if err != nil {
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}
	if lastBlock > 0 {
		logger.InfoCtx(ctx, "Resuming from last processed block",
			zap.String("cursor", e.config.CursorKey),
			zap.Uint64("block", lastBlock))
		return lastBlock, nil
	}

	latestBlock, err := e.subscriber.GetLatestBlock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block number: %w", err)
	}
	logger.InfoCtx(ctx, "Starting from latest block",
		zap.String("cursor", e.config.CursorKey),
		zap.Uint64("block", latestBlock))
	return latestBlock, nil
}

// Run starts the event emitter
func (e *emitter) Run(ctx context.Context) error {
	startBlock, err := e.startBlock(ctx)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		logger.InfoCtx(ctx, "Starting event subscription", zap.String("cursor", e.config.CursorKey))

		lastSavedBlock := uint64(0)
		lastSaveTime := e.clock.Now()

		handler := func(event *domain.ChainEvent) error {
			if err := e.publisher.PublishEvent(ctx, event); err != nil {
				return fmt.Errorf("failed to publish %s event %s: %w", event.Event.Kind, event.Event.Key(), err)
			}

			block := event.Event.BlockNumber
			shouldSave := block-lastSavedBlock >= e.config.CursorSaveFreq ||
				e.clock.Since(lastSaveTime) >= e.config.CursorSaveDelay
			if !shouldSave {
				return nil
			}

			if err := e.store.SetBlockCursor(ctx, e.config.CursorKey, block); err != nil {
				logger.WarnCtx(ctx, "Failed to save block cursor",
					zap.String("cursor", e.config.CursorKey),
					zap.Uint64("block", block),
					zap.Error(err))
				return nil
			}
			lastSavedBlock = block
			lastSaveTime = e.clock.Now()
			return nil
		}

		if err := e.subscriber.SubscribeEvents(ctx, startBlock, handler); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-e.publisher.CloseChan():
		return fmt.Errorf("publisher connection closed")
	}
}

// Close closes the emitter and cleans up resources
func (e *emitter) Close() {
	e.subscriber.Close()
}
