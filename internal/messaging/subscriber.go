package messaging

import (
	"context"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
)

// EventHandler is called for every ledger event received, in block order
type EventHandler func(event *domain.ChainEvent) error

// Subscriber defines the interface for following SupplyChain contract events
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// SubscribeEvents replays events from fromBlock, then follows new ones until ctx ends
	SubscribeEvents(ctx context.Context, fromBlock uint64, handler EventHandler) error

	// GetLatestBlock returns the latest block number
	GetLatestBlock(ctx context.Context) (uint64, error)

	// Close closes the connection and cleans up resources
	Close()
}
