// Package quantity keeps the declared per-role quantities of a batch beside the ledger.
// The contract stores a single creation quantity; every later declaration lives here.
package quantity

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/store"
)

// Ledger records and reads declared quantities
//
//go:generate mockgen -source=quantity.go -destination=../mocks/quantity.go -package=mocks -mock_names=Ledger=MockQuantityLedger
type Ledger interface {
	// Record appends a declaration; earlier declarations are kept
	Record(ctx context.Context, record domain.QuantityRecord) error
	// Query lists every declaration of a batch ordered by RecordedAt ascending
	Query(ctx context.Context, batchID string) ([]domain.QuantityRecord, error)
}

type ledger struct {
	store store.Store
	json  adapter.JSON
}

// NewLedger creates a quantity ledger on top of the database store
func NewLedger(st store.Store, jsonAdapter adapter.JSON) Ledger {
	return &ledger{store: st, json: jsonAdapter}
}

func (l *ledger) Record(ctx context.Context, record domain.QuantityRecord) error {
	if record.BatchID == "" {
		return errors.New("batch id is required")
	}
	if !record.Role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownRole, record.Role)
	}
	metadata, err := l.json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal quantity metadata: %w", err)
	}

	_, err = l.store.CreateQuantityRecord(ctx, store.CreateQuantityRecordInput{
		BatchID:        record.BatchID,
		Role:           string(record.Role),
		Quantity:       record.Quantity,
		TransactionRef: record.TransactionRef,
		RecordedAt:     record.RecordedAt,
		Metadata:       metadata,
	})
	if err != nil {
		return err
	}

	logger.InfoCtx(ctx, "Recorded quantity",
		zap.String("batch_id", record.BatchID),
		zap.String("role", string(record.Role)),
		zap.Uint64("quantity", record.Quantity),
		zap.String("tx_hash", record.TransactionRef))

	return nil
}

func (l *ledger) Query(ctx context.Context, batchID string) ([]domain.QuantityRecord, error) {
	rows, err := l.store.GetQuantityRecords(ctx, batchID)
	if err != nil {
		return nil, err
	}

	records := make([]domain.QuantityRecord, 0, len(rows))
	for _, row := range rows {
		record := domain.QuantityRecord{
			BatchID:        row.BatchID,
			Role:           domain.Role(row.Role),
			Quantity:       row.Quantity,
			TransactionRef: row.TransactionRef,
			RecordedAt:     row.RecordedAt.UTC(),
		}
		if len(row.Metadata) > 0 {
			if err := l.json.Unmarshal(row.Metadata, &record.Metadata); err != nil {
				logger.WarnCtx(ctx, "Ignoring unreadable quantity metadata",
					zap.String("batch_id", row.BatchID),
					zap.Uint64("id", row.ID),
					zap.Error(err))
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// Latest returns the most recent declaration of role. Of two records with the same
// RecordedAt the one later in records wins.
func Latest(records []domain.QuantityRecord, role domain.Role) (domain.QuantityRecord, bool) {
	var (
		latest domain.QuantityRecord
		found  bool
	)
	for _, r := range records {
		if r.Role != role {
			continue
		}
		if !found || !r.RecordedAt.Before(latest.RecordedAt) {
			latest = r
			found = true
		}
	}
	return latest, found
}

// LatestByRole returns the most recent declaration of every role present in records
func LatestByRole(records []domain.QuantityRecord) map[domain.Role]domain.QuantityRecord {
	out := make(map[domain.Role]domain.QuantityRecord)
	for _, role := range domain.Roles {
		if r, ok := Latest(records, role); ok {
			out[role] = r
		}
	}
	return out
}
