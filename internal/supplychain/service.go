// Package supplychain composes the orchestrator, history reconstructor, quantity ledger and
// role progression gate into the operations the API serves.
package supplychain

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/history"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/identity"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/ledger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/orchestrator"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/progression"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/quantity"
)

// Config holds the configuration of the service
type Config struct {
	// EnforceGate rejects hops by roles that are not next in the canonical order
	EnforceGate bool
}

// BatchView is a ledger snapshot with its derived journey
type BatchView struct {
	Batch   *domain.BatchSnapshot `json:"batch"`
	Journey []domain.JourneyStage `json:"journey"`
}

// BatchList enumerates the batches recorded on the ledger
type BatchList struct {
	BatchIDs []string `json:"batchIds"`
	Count    uint64   `json:"count"`
}

// Progress reports the role progression of a batch
type Progress struct {
	BatchID   string        `json:"batchId"`
	Completed []domain.Role `json:"completed"`
	NextRole  *domain.Role  `json:"nextRole,omitempty"`
}

// SignerInfo is one configured identity and its balance
type SignerInfo struct {
	Role    domain.Role `json:"role"`
	Address string      `json:"address"`
	// Balance is the wei balance as a decimal string; empty when the lookup failed
	Balance string `json:"balance,omitempty"`
}

// NetworkInfo describes the connected ledger
type NetworkInfo struct {
	ChainID     string       `json:"chainId"`
	LatestBlock uint64       `json:"latestBlock"`
	Signers     []SignerInfo `json:"signers"`
}

// Service is the application layer of the custody tracker
//
//go:generate mockgen -source=service.go -destination=../mocks/service.go -package=mocks -mock_names=Service=MockService
type Service interface {
	// CreateBatch registers a new batch as the Farmer
	CreateBatch(ctx context.Context, product string, qty uint64, batchID string) *domain.HopResult
	// PerformHop lets role take custody of batchID
	PerformHop(ctx context.Context, batchID string, role domain.Role, payload domain.HopPayload) *domain.HopResult
	// GetBatch reads the ledger record of a batch
	GetBatch(ctx context.Context, batchID string) (*BatchView, error)
	// ListBatches enumerates every batch id on the ledger
	ListBatches(ctx context.Context) (*BatchList, error)
	// GetHistory rebuilds the event trail of a batch; custodyOnly drops status updates
	GetHistory(ctx context.Context, batchID string, custodyOnly bool) (*history.History, error)
	// GetProgress reports which roles have completed their step
	GetProgress(ctx context.Context, batchID string) (*Progress, error)
	// GetQuantities lists every quantity declaration of a batch
	GetQuantities(ctx context.Context, batchID string) ([]domain.QuantityRecord, error)
	// GetNetwork reports chain id, head block and signer balances
	GetNetwork(ctx context.Context) (*NetworkInfo, error)
}

type service struct {
	gateway      ledger.Gateway
	keyring      identity.Keyring
	orchestrator orchestrator.Orchestrator
	history      history.Reconstructor
	quantity     quantity.Ledger
	gate         progression.Gate
	config       Config
}

// New creates the service
func New(
	gateway ledger.Gateway,
	keyring identity.Keyring,
	orch orchestrator.Orchestrator,
	reconstructor history.Reconstructor,
	quantities quantity.Ledger,
	gate progression.Gate,
	cfg Config,
) Service {
	return &service{
		gateway:      gateway,
		keyring:      keyring,
		orchestrator: orch,
		history:      reconstructor,
		quantity:     quantities,
		gate:         gate,
		config:       cfg,
	}
}

func (s *service) CreateBatch(ctx context.Context, product string, qty uint64, batchID string) *domain.HopResult {
	result := s.orchestrator.CreateBatch(ctx, product, qty, batchID)
	if !result.Success {
		return result
	}

	if err := s.gate.MarkCompleted(ctx, result.BatchID, domain.RoleFarmer); err != nil {
		s.gateWarning(ctx, result, err)
	}
	return result
}

func (s *service) PerformHop(ctx context.Context, batchID string, role domain.Role, payload domain.HopPayload) *domain.HopResult {
	if s.config.EnforceGate && role.Valid() {
		if rejected := s.checkGate(ctx, batchID, role); rejected != nil {
			return rejected
		}
	}

	result := s.orchestrator.PerformHop(ctx, batchID, role, payload)
	if !result.Success {
		return result
	}

	// the hop may have filled earlier slots, so completions are re-learned from the ledger first
	if err := s.seed(ctx, batchID); err != nil {
		s.gateWarning(ctx, result, err)
		return result
	}
	if err := s.gate.MarkCompleted(ctx, batchID, role); err != nil {
		s.gateWarning(ctx, result, err)
	}
	return result
}

// checkGate returns a failed result when role may not act on batchID yet.
// Gate storage failures are logged and let the hop through; the ledger still enforces custody.
func (s *service) checkGate(ctx context.Context, batchID string, role domain.Role) *domain.HopResult {
	if err := s.seed(ctx, batchID); err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			return nil
		}
		logger.WarnCtx(ctx, "Failed to seed role progression", zap.String("batch_id", batchID), zap.Error(err))
		return nil
	}

	next, ok, err := s.gate.NextEligibleRole(ctx, batchID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read role progression", zap.String("batch_id", batchID), zap.Error(err))
		return nil
	}
	if ok && next == role {
		return nil
	}

	// a role that already completed may repeat its step
	completed, err := s.gate.Completed(ctx, batchID)
	if err == nil && containsRole(completed, role) {
		return nil
	}

	reason := fmt.Errorf("%w: every role has completed", domain.ErrRoleNotEligible)
	if ok {
		reason = fmt.Errorf("%w: %s must act before %s", domain.ErrRoleNotEligible, next, role)
	}
	return &domain.HopResult{
		BatchID: batchID,
		Role:    role,
		Error:   orchestrator.Classify(reason, role, "progression check"),
	}
}

func (s *service) seed(ctx context.Context, batchID string) error {
	snapshot, err := s.gateway.GetBatchInfo(ctx, batchID)
	if err != nil {
		return err
	}
	return s.gate.Seed(ctx, snapshot)
}

func (s *service) gateWarning(ctx context.Context, result *domain.HopResult, err error) {
	logger.WarnCtx(ctx, "Failed to update role progression",
		zap.String("batch_id", result.BatchID),
		zap.String("role", string(result.Role)),
		zap.Error(err))
	result.Warnings = append(result.Warnings, domain.HopError{
		Kind:    domain.ErrorKindStorageUnavailable,
		Message: "Role progression could not be updated",
		Detail:  err.Error(),
		Role:    result.Role,
		Action:  "mark completed",
	})
}

func (s *service) GetBatch(ctx context.Context, batchID string) (*BatchView, error) {
	snapshot, err := s.gateway.GetBatchInfo(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return &BatchView{
		Batch:   snapshot,
		Journey: snapshot.Journey(),
	}, nil
}

func (s *service) ListBatches(ctx context.Context) (*BatchList, error) {
	ids, err := s.gateway.BatchIDs(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.gateway.BatchCount(ctx)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return &BatchList{BatchIDs: ids, Count: count}, nil
}

func (s *service) GetHistory(ctx context.Context, batchID string, custodyOnly bool) (*history.History, error) {
	exists, err := s.gateway.BatchExists(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, batchID)
	}

	h, err := s.history.GetHistory(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if !custodyOnly {
		return h, nil
	}

	return &history.History{
		BatchID: h.BatchID,
		Events:  history.CustodySteps(h.Events),
		Digest:  h.Digest,
	}, nil
}

func (s *service) GetProgress(ctx context.Context, batchID string) (*Progress, error) {
	if err := s.seed(ctx, batchID); err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			return nil, err
		}
		logger.WarnCtx(ctx, "Failed to seed role progression", zap.String("batch_id", batchID), zap.Error(err))
	}

	completed, err := s.gate.Completed(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if completed == nil {
		completed = []domain.Role{}
	}

	progress := &Progress{BatchID: batchID, Completed: completed}
	next, ok, err := s.gate.NextEligibleRole(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if ok {
		progress.NextRole = &next
	}
	return progress, nil
}

func (s *service) GetQuantities(ctx context.Context, batchID string) ([]domain.QuantityRecord, error) {
	records, err := s.quantity.Query(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.QuantityRecord{}
	}
	return records, nil
}

func (s *service) GetNetwork(ctx context.Context) (*NetworkInfo, error) {
	head, err := s.gateway.LatestBlock(ctx)
	if err != nil {
		return nil, err
	}

	info := &NetworkInfo{
		ChainID:     s.gateway.ChainID().String(),
		LatestBlock: head,
		Signers:     []SignerInfo{},
	}

	for _, role := range s.keyring.Roles() {
		id, err := s.keyring.Identity(role)
		if err != nil {
			continue
		}
		signer := SignerInfo{Role: role, Address: id.Address().Hex()}

		balance, err := s.gateway.Balance(ctx, id.Address())
		if err != nil {
			logger.WarnCtx(ctx, "Failed to read signer balance",
				zap.String("role", string(role)),
				zap.Error(err))
		} else {
			signer.Balance = balance.String()
		}
		info.Signers = append(info.Signers, signer)
	}

	return info, nil
}

func containsRole(roles []domain.Role, role domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
