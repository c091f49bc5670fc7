package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
)

// Provider gives cached access to the chain head and to block timestamps.
// Timestamps of mined blocks never change, so they are kept until evicted by size.
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=Provider=MockBlockProvider
type Provider interface {
	// LatestBlock returns the latest block number, potentially from cache
	LatestBlock(ctx context.Context) (uint64, error)

	// BlockTime returns the timestamp of a block, potentially from cache
	BlockTime(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Fetcher reads block information from the chain
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=Fetcher=MockBlockFetcher
type Fetcher interface {
	FetchLatestBlock(ctx context.Context) (uint64, error)
	FetchBlockTime(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Config holds configuration for the Provider
type Config struct {
	// HeadTTL is how long the latest block number is served from cache
	HeadTTL time.Duration

	// StaleWindow is how long a cached head may still be served when a refresh fails
	StaleWindow time.Duration

	// MaxTimestamps bounds the timestamp cache; 0 means unbounded
	MaxTimestamps int
}

type head struct {
	number    uint64
	fetchedAt time.Time
}

type provider struct {
	fetcher Fetcher
	config  Config
	clock   adapter.Clock

	mu         sync.RWMutex
	head       *head
	timestamps map[uint64]time.Time
	order      []uint64
}

// NewProvider creates a caching Provider on top of fetcher
func NewProvider(fetcher Fetcher, config Config, clock adapter.Clock) Provider {
	return &provider{
		fetcher:    fetcher,
		config:     config,
		clock:      clock,
		timestamps: make(map[uint64]time.Time),
	}
}

func (p *provider) LatestBlock(ctx context.Context) (uint64, error) {
	p.mu.RLock()
	cached := p.head
	p.mu.RUnlock()

	now := p.clock.Now()
	if cached != nil && now.Sub(cached.fetchedAt) < p.config.HeadTTL {
		return cached.number, nil
	}

	number, err := p.fetcher.FetchLatestBlock(ctx)
	if err != nil {
		if cached != nil && now.Sub(cached.fetchedAt) < p.config.StaleWindow {
			logger.WarnCtx(ctx, "Serving stale block head", zap.Uint64("block_number", cached.number), zap.Error(err))
			return cached.number, nil
		}
		return 0, fmt.Errorf("failed to fetch latest block: %w", err)
	}

	p.mu.Lock()
	p.head = &head{number: number, fetchedAt: now}
	p.mu.Unlock()

	return number, nil
}

func (p *provider) BlockTime(ctx context.Context, blockNumber uint64) (time.Time, error) {
	p.mu.RLock()
	ts, ok := p.timestamps[blockNumber]
	p.mu.RUnlock()
	if ok {
		return ts, nil
	}

	ts, err := p.fetcher.FetchBlockTime(ctx, blockNumber)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch timestamp of block %d: %w", blockNumber, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.timestamps[blockNumber]; !exists {
		p.timestamps[blockNumber] = ts
		p.order = append(p.order, blockNumber)
		if p.config.MaxTimestamps > 0 && len(p.order) > p.config.MaxTimestamps {
			evict := p.order[0]
			p.order = p.order[1:]
			delete(p.timestamps, evict)
		}
	}

	return ts, nil
}
