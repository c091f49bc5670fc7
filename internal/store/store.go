package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/store/schema"
)

// CreateQuantityRecordInput is the input for appending a quantity record
type CreateQuantityRecordInput struct {
	BatchID        string
	Role           string
	Quantity       uint64
	TransactionRef string
	RecordedAt     time.Time
	Metadata       datatypes.JSON
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// CreateQuantityRecord appends a quantity record; existing records are never updated
	CreateQuantityRecord(ctx context.Context, input CreateQuantityRecordInput) (*schema.QuantityRecord, error)
	// GetQuantityRecords lists the quantity records of a batch ordered by recorded_at ascending
	GetQuantityRecords(ctx context.Context, batchID string) ([]schema.QuantityRecord, error)

	// MarkRoleCompleted stores a role completion; marking an already completed role is a no-op
	MarkRoleCompleted(ctx context.Context, batchID, role string, at time.Time) error
	// GetRoleCompletions lists the completed roles of a batch
	GetRoleCompletions(ctx context.Context, batchID string) ([]schema.RoleCompletion, error)

	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error

	// Ping checks the database connection
	Ping(ctx context.Context) error
}
