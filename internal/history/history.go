// Package history rebuilds the provenance trail of a batch from ledger events.
// Nothing is cached between calls: every GetHistory re-reads the ledger from block 0.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/ledger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/quantity"
)

const DEFAULT_WORKER_POOL_SIZE = 8

// Config holds the configuration of the history reconstructor
type Config struct {
	// WorkerPoolSize bounds the concurrent ledger reads of all history calls together
	WorkerPoolSize int
	// FromBlock is the first block searched for events
	FromBlock uint64
}

// History is the reconstructed trail of a batch
type History struct {
	BatchID string                `json:"batchId"`
	Events  []domain.HistoryEvent `json:"events"`
	// Digest is the hex SHA-256 of the canonical JSON encoding of Events
	Digest string `json:"digest"`
}

// Reconstructor rebuilds batch histories
//
//go:generate mockgen -source=history.go -destination=../mocks/history.go -package=mocks -mock_names=Reconstructor=MockReconstructor
type Reconstructor interface {
	// GetHistory returns every event of batchID ordered by block number and log index
	GetHistory(ctx context.Context, batchID string) (*History, error)
	// Close stops the worker pool once running reads finish
	Close()
}

type reconstructor struct {
	gateway  ledger.Gateway
	quantity quantity.Ledger
	json     adapter.JSON
	pool     pond.Pool
	config   Config
}

// New creates a history reconstructor reading through gateway
func New(gateway ledger.Gateway, quantities quantity.Ledger, jsonAdapter adapter.JSON, cfg Config) Reconstructor {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = DEFAULT_WORKER_POOL_SIZE
	}
	return &reconstructor{
		gateway:  gateway,
		quantity: quantities,
		json:     jsonAdapter,
		pool:     pond.NewPool(cfg.WorkerPoolSize),
		config:   cfg,
	}
}

func (r *reconstructor) Close() {
	r.pool.StopAndWait()
}

func (r *reconstructor) GetHistory(ctx context.Context, batchID string) (*History, error) {
	ctx = logger.WithHop(ctx, logger.HopInfo{BatchID: batchID, Action: "history"})

	events, err := r.queryAll(ctx, batchID)
	if err != nil {
		return nil, err
	}

	timestamps := r.resolveTimestamps(ctx, events)

	var snapshot *domain.BatchSnapshot
	if hasKind(events, domain.EventKindUpdated) {
		snapshot, err = r.gateway.GetBatchInfo(ctx, batchID)
		if err != nil {
			logger.WarnCtx(ctx, "Failed to read batch snapshot, update roles are left empty", zap.Error(err))
			snapshot = nil
		}
	}

	records, err := r.quantity.Query(ctx, batchID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read quantity records, quantities are not overlaid", zap.Error(err))
		records = nil
	}

	out := make([]domain.HistoryEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, enrich(ev, timestamps, snapshot, records))
	}

	digest, err := Digest(r.json, out)
	if err != nil {
		return nil, err
	}

	logger.DebugCtx(ctx, "History reconstructed", zap.Int("events", len(out)), zap.String("digest", digest))

	return &History{
		BatchID: batchID,
		Events:  out,
		Digest:  digest,
	}, nil
}

// queryAll reads every event kind concurrently, then de-duplicates and sorts the union
func (r *reconstructor) queryAll(ctx context.Context, batchID string) ([]domain.LedgerEvent, error) {
	results := make([][]domain.LedgerEvent, len(domain.EventKinds))

	group := r.pool.NewGroupContext(ctx)
	for i, kind := range domain.EventKinds {
		i, kind := i, kind
		group.SubmitErr(func() error {
			events, err := r.gateway.QueryEvents(ctx, kind, batchID, r.config.FromBlock)
			if errors.Is(err, domain.ErrEventKindUnsupported) {
				logger.DebugCtx(ctx, "Event kind not emitted by contract", zap.String("kind", string(kind)))
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to query %s events: %w", kind, err)
			}
			results[i] = events
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var merged []domain.LedgerEvent
	for _, events := range results {
		for _, ev := range events {
			if seen[ev.Key()] {
				continue
			}
			seen[ev.Key()] = true
			merged = append(merged, ev)
		}
	}

	ledger.SortEvents(merged)
	return merged, nil
}

// resolveTimestamps looks every distinct block up once. Blocks whose lookup fails are absent from the result.
func (r *reconstructor) resolveTimestamps(ctx context.Context, events []domain.LedgerEvent) map[uint64]time.Time {
	var (
		mu         sync.Mutex
		timestamps = make(map[uint64]time.Time)
		requested  = make(map[uint64]bool)
	)

	group := r.pool.NewGroupContext(ctx)
	for _, ev := range events {
		block := ev.BlockNumber
		if requested[block] {
			continue
		}
		requested[block] = true

		group.Submit(func() {
			ts, err := r.gateway.GetBlockTimestamp(ctx, block)
			if err != nil {
				logger.WarnCtx(ctx, "Failed to resolve block timestamp",
					zap.Uint64("block_number", block),
					zap.Error(err))
				return
			}
			mu.Lock()
			timestamps[block] = ts.UTC()
			mu.Unlock()
		})
	}
	_ = group.Wait()

	return timestamps
}

// enrich derives the role, actor, quantity and action text of ev
func enrich(ev domain.LedgerEvent, timestamps map[uint64]time.Time, snapshot *domain.BatchSnapshot, records []domain.QuantityRecord) domain.HistoryEvent {
	out := domain.HistoryEvent{
		Kind:        ev.Kind,
		BlockNumber: ev.BlockNumber,
		LogIndex:    ev.LogIndex,
		TxHash:      ev.TxHash,
		Args:        ev.Args,
	}
	if ts, ok := timestamps[ev.BlockNumber]; ok {
		out.Timestamp = &ts
	}

	switch ev.Kind {
	case domain.EventKindCreated:
		out.Role = domain.RoleFarmer
		out.Actor = ev.Args.Farmer
	case domain.EventKindTransferred:
		if role, err := domain.ParseRole(ev.Args.Role); err == nil {
			out.Role = role
		}
		out.Actor = ev.Args.To
	case domain.EventKindUpdated:
		if snapshot != nil {
			if role, ok := snapshot.RoleOf(ev.Args.UpdatedBy); ok {
				out.Role = role
			}
		}
		out.Actor = ev.Args.UpdatedBy
	case domain.EventKindCompleted:
		out.Role = domain.RoleConsumer
		out.Actor = ev.Args.Consumer
	}

	if out.Role != "" {
		if record, ok := quantity.Latest(records, out.Role); ok {
			qty := record.Quantity
			out.Quantity = &qty
		}
	}
	if out.Quantity == nil && ev.Kind == domain.EventKindCreated && ev.Args.Quantity != nil {
		qty := *ev.Args.Quantity
		out.Quantity = &qty
	}

	out.Action = actionText(out)
	return out
}

func actionText(ev domain.HistoryEvent) string {
	qty := ""
	if ev.Quantity != nil {
		qty = fmt.Sprintf("qty: %d", *ev.Quantity)
	}

	switch ev.Kind {
	case domain.EventKindCreated:
		if qty != "" {
			return fmt.Sprintf("Created (%s, %s)", ev.Args.Product, qty)
		}
		return fmt.Sprintf("Created (%s)", ev.Args.Product)
	case domain.EventKindTransferred:
		if qty != "" {
			return fmt.Sprintf("Transferred to %s, %s", ev.Args.Role, qty)
		}
		return "Transferred to " + ev.Args.Role
	case domain.EventKindUpdated:
		if qty != "" {
			return fmt.Sprintf("%s (%s)", ev.Args.Status, qty)
		}
		return ev.Args.Status
	case domain.EventKindCompleted:
		if qty != "" {
			return "Completed, " + qty
		}
		return "Completed"
	default:
		return string(ev.Kind)
	}
}

// CustodySteps keeps the events that move a batch along the chain, dropping status updates
func CustodySteps(events []domain.HistoryEvent) []domain.HistoryEvent {
	out := make([]domain.HistoryEvent, 0, len(events))
	for _, ev := range events {
		if ev.Kind.IsCustodyStep() {
			out = append(out, ev)
		}
	}
	return out
}

// Digest returns the hex SHA-256 of the RFC 8785 canonical JSON encoding of events
func Digest(jsonAdapter adapter.JSON, events []domain.HistoryEvent) (string, error) {
	if events == nil {
		events = []domain.HistoryEvent{}
	}
	canonical, err := jsonAdapter.MarshalCanonical(events)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize history: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func hasKind(events []domain.LedgerEvent, kind domain.EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}
