package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/identity"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/ledger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/metrics"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/quantity"
)

const (
	actionCreate       = "create batch"
	actionUpdateStatus = "update status"
	actionAutoAdvance  = "auto-advance"
)

// Config holds the configuration of the transaction orchestrator
type Config struct {
	// GasMultiplier scales every gas estimate into the limit that is sent; defaults to 1.2
	GasMultiplier float64
	// AutoAdvance makes a successful Retailer hop transfer custody on to the consumer
	AutoAdvance bool
	// AutoAdvanceTarget is the consumer address used by auto-advance.
	// Empty means the address of the keyring's Consumer identity.
	AutoAdvanceTarget string
}

// Orchestrator sequences the dependent ledger writes of a custody hop
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/orchestrator.go -package=mocks -mock_names=Orchestrator=MockOrchestrator
type Orchestrator interface {
	// CreateBatch is the Farmer's origin hop. An empty batchID is replaced by a new UUID.
	CreateBatch(ctx context.Context, product string, qty uint64, batchID string) *domain.HopResult
	// PerformHop lets role take custody of batchID and declare its quantity
	PerformHop(ctx context.Context, batchID string, role domain.Role, payload domain.HopPayload) *domain.HopResult
}

type orchestrator struct {
	gateway  ledger.Gateway
	keyring  identity.Keyring
	quantity quantity.Ledger
	clock    adapter.Clock
	config   Config
	metrics  *metrics.Orchestrator
}

// New creates a transaction orchestrator driving the identities of keyring
func New(gateway ledger.Gateway, keyring identity.Keyring, quantities quantity.Ledger, clock adapter.Clock, cfg Config, m *metrics.Orchestrator) Orchestrator {
	if cfg.GasMultiplier <= 0 {
		cfg.GasMultiplier = domain.DEFAULT_GAS_MULTIPLIER
	}
	return &orchestrator{
		gateway:  gateway,
		keyring:  keyring,
		quantity: quantities,
		clock:    clock,
		config:   cfg,
		metrics:  m,
	}
}

// hop accumulates the state of one CreateBatch or PerformHop call
type hop struct {
	result  *domain.HopResult
	nonces  *nonceSequencer
	started time.Time
}

func (o *orchestrator) newHop(batchID string, role domain.Role) *hop {
	return &hop{
		result: &domain.HopResult{
			BatchID: batchID,
			Role:    role,
		},
		nonces:  newNonceSequencer(o.gateway),
		started: time.Now(),
	}
}

// fail finishes h with hopErr and records the outcome
func (o *orchestrator) fail(ctx context.Context, h *hop, hopErr *domain.HopError) *domain.HopResult {
	h.result.Success = false
	h.result.Error = hopErr
	o.metrics.ObserveHop(string(h.result.Role), string(hopErr.Kind), h.started)

	logger.WarnCtx(ctx, "Hop failed",
		zap.String("kind", string(hopErr.Kind)),
		zap.String("failed_action", hopErr.Action),
		zap.String("detail", hopErr.Detail))
	return h.result
}

func (o *orchestrator) succeed(ctx context.Context, h *hop) *domain.HopResult {
	h.result.Success = true
	o.metrics.ObserveHop(string(h.result.Role), "success", h.started)

	logger.InfoCtx(ctx, "Hop completed",
		zap.String("tx_hash", h.result.TransactionRef),
		zap.Strings("prerequisite_refs", h.result.PrerequisiteRefs),
		zap.Int("warnings", len(h.result.Warnings)))
	return h.result
}

func (o *orchestrator) warn(ctx context.Context, h *hop, kind domain.ErrorKind, err error, role domain.Role, action string) {
	warning := newHopError(kind, err, role, action)
	h.result.Warnings = append(h.result.Warnings, *warning)
	o.metrics.ObserveWarning(string(kind))

	logger.WarnCtx(ctx, warning.Message,
		zap.String("kind", string(kind)),
		zap.String("warned_action", action),
		zap.Error(err))
}

// txOptions prepares the explicit gas limit and nonce of one write of h
func (o *orchestrator) txOptions(ctx context.Context, h *hop, call ledger.Call, role domain.Role, action string) (ledger.TxOptions, error) {
	var opts ledger.TxOptions

	estimate, err := o.gateway.EstimateGas(ctx, call)
	if err != nil {
		o.warn(ctx, h, domain.ErrorKindEstimationFailed, err, role, action)
	} else {
		opts.GasLimit = uint64(math.Ceil(float64(estimate) * o.config.GasMultiplier))
	}

	nonce, err := h.nonces.Next(ctx, call.From)
	if err != nil {
		return opts, err
	}
	opts.Nonce = &nonce

	return opts, nil
}

// write estimates, submits and confirms call signed by signer, returning the confirmed transaction ref
func (o *orchestrator) write(ctx context.Context, h *hop, signer *identity.Identity, call ledger.Call, action string) (string, error) {
	opts, err := o.txOptions(ctx, h, call, signer.Role(), action)
	if err != nil {
		return "", err
	}

	txHash, err := o.gateway.Submit(ctx, signer, call, opts)
	if err != nil {
		return "", err
	}

	logger.InfoCtx(ctx, "Waiting for confirmation",
		zap.String("write", action),
		zap.String("tx_hash", txHash),
		zap.Uint64("nonce", *opts.Nonce),
		zap.Uint64("gas_limit", opts.GasLimit))

	if _, err := o.gateway.Wait(ctx, txHash); err != nil {
		return txHash, err
	}
	return txHash, nil
}

func (o *orchestrator) CreateBatch(ctx context.Context, product string, qty uint64, batchID string) *domain.HopResult {
	if batchID == "" {
		batchID = uuid.NewString()
	}
	ctx = logger.WithHop(ctx, logger.HopInfo{BatchID: batchID, Role: string(domain.RoleFarmer), Action: actionCreate})
	h := o.newHop(batchID, domain.RoleFarmer)

	if strings.TrimSpace(product) == "" {
		return o.fail(ctx, h, newHopError(domain.ErrorKindInvalidRequest, errors.New("product is required"), domain.RoleFarmer, actionCreate))
	}
	if qty == 0 {
		return o.fail(ctx, h, newHopError(domain.ErrorKindInvalidRequest, domain.ErrInvalidQuantity, domain.RoleFarmer, actionCreate))
	}

	signer, err := o.keyring.Signer(domain.RoleFarmer)
	if err != nil {
		return o.fail(ctx, h, Classify(err, domain.RoleFarmer, actionCreate))
	}

	exists, err := o.gateway.BatchExists(ctx, batchID)
	if err != nil {
		return o.fail(ctx, h, Classify(err, domain.RoleFarmer, actionCreate))
	}
	if exists {
		return o.fail(ctx, h, Classify(fmt.Errorf("%w: %s", domain.ErrBatchAlreadyExists, batchID), domain.RoleFarmer, actionCreate))
	}

	txHash, err := o.write(ctx, h, signer, ledger.NewCreateBatchCall(signer.Address(), batchID, product, qty), actionCreate)
	if err != nil {
		h.result.TransactionRef = txHash
		return o.fail(ctx, h, Classify(err, domain.RoleFarmer, actionCreate))
	}
	h.result.TransactionRef = txHash

	o.recordQuantity(ctx, h, qty, "")
	return o.succeed(ctx, h)
}

func (o *orchestrator) PerformHop(ctx context.Context, batchID string, role domain.Role, payload domain.HopPayload) *domain.HopResult {
	ctx = logger.WithHop(ctx, logger.HopInfo{BatchID: batchID, Role: string(role), Action: "hop"})
	h := o.newHop(batchID, role)

	if !role.Valid() {
		return o.fail(ctx, h, Classify(fmt.Errorf("%w: %q", domain.ErrUnknownRole, role), role, actionUpdateStatus))
	}
	if payload.Quantity == 0 {
		return o.fail(ctx, h, Classify(domain.ErrInvalidQuantity, role, actionUpdateStatus))
	}

	signer, err := o.keyring.Signer(role)
	if err != nil {
		return o.fail(ctx, h, Classify(err, role, actionUpdateStatus))
	}

	// 1. existence
	exists, err := o.gateway.BatchExists(ctx, batchID)
	if err != nil {
		return o.fail(ctx, h, Classify(err, role, actionUpdateStatus))
	}
	if !exists {
		return o.fail(ctx, h, Classify(fmt.Errorf("%w: %s", domain.ErrBatchNotFound, batchID), role, actionUpdateStatus))
	}

	// 2. custody prerequisites
	snapshot, err := o.gateway.GetBatchInfo(ctx, batchID)
	if err != nil {
		return o.fail(ctx, h, Classify(err, role, actionUpdateStatus))
	}
	if hopErr := o.assignPrerequisites(ctx, h, snapshot, role); hopErr != nil {
		return o.fail(ctx, h, hopErr)
	}

	// 3. primary status write
	status := payload.Status
	if status == "" {
		status = role.ReceivedStatus()
	}
	txHash, err := o.write(ctx, h, signer, ledger.NewUpdateStatusCall(signer.Address(), batchID, status), actionUpdateStatus)
	if err != nil {
		h.result.TransactionRef = txHash
		return o.fail(ctx, h, Classify(err, role, actionUpdateStatus))
	}
	h.result.TransactionRef = txHash

	// 4. quantity declaration
	o.recordQuantity(ctx, h, payload.Quantity, status)

	// 5. optional hand-off to the consumer
	if role == domain.RoleRetailer && o.config.AutoAdvance && !snapshot.IsAssigned(domain.RoleConsumer) {
		o.autoAdvance(ctx, h, signer)
	}

	return o.succeed(ctx, h)
}

// assignPrerequisites fills every custody slot role needs before it may write.
// Each assignment is signed by the upstream custodian and targets the downstream role's identity.
func (o *orchestrator) assignPrerequisites(ctx context.Context, h *hop, snapshot *domain.BatchSnapshot, role domain.Role) *domain.HopError {
	local := *snapshot

	for _, slot := range role.PrerequisiteRoles() {
		if local.IsAssigned(slot) {
			continue
		}

		upstream, _ := slot.Previous()
		action := fmt.Sprintf("assign %s custody", slot.Lower())

		upstreamSigner, err := o.keyring.Signer(upstream)
		if err != nil {
			return Classify(err, upstream, action)
		}
		if !domain.SameAddress(local.Custodian(upstream), upstreamSigner.Address().Hex()) {
			return newHopError(domain.ErrorKindAuthorizationRejected,
				fmt.Errorf("configured %s %s is not the batch custodian %s", upstream, upstreamSigner.Address().Hex(), local.Custodian(upstream)),
				upstream, action)
		}

		target, err := o.keyring.Identity(slot)
		if err != nil {
			return Classify(err, slot, action)
		}

		call, err := ledger.NewAssignCustodyCall(upstreamSigner.Address(), h.result.BatchID, slot, target.Address())
		if err != nil {
			return Classify(err, upstream, action)
		}

		logger.InfoCtx(ctx, "Issuing custody prerequisite",
			zap.String("slot", string(slot)),
			zap.String("signer", upstreamSigner.Address().Hex()),
			zap.String("target", target.Address().Hex()))

		txHash, err := o.write(ctx, h, upstreamSigner, call, action)
		o.metrics.ObservePrerequisite(string(slot), err)
		if err != nil {
			return Classify(err, upstream, action)
		}

		h.result.PrerequisiteRefs = append(h.result.PrerequisiteRefs, txHash)
		setCustodian(&local, slot, target.Address().Hex())
	}

	return nil
}

func (o *orchestrator) autoAdvance(ctx context.Context, h *hop, retailer *identity.Identity) {
	target, err := o.autoAdvanceTarget()
	if err != nil {
		h.result.AutoAdvanceError = Classify(err, domain.RoleRetailer, actionAutoAdvance)
		return
	}

	call, err := ledger.NewAssignCustodyCall(retailer.Address(), h.result.BatchID, domain.RoleConsumer, target)
	if err != nil {
		h.result.AutoAdvanceError = Classify(err, domain.RoleRetailer, actionAutoAdvance)
		return
	}

	txHash, err := o.write(ctx, h, retailer, call, actionAutoAdvance)
	if err != nil {
		h.result.AutoAdvanceRef = txHash
		h.result.AutoAdvanceError = Classify(err, domain.RoleRetailer, actionAutoAdvance)
		logger.WarnCtx(ctx, "Auto-advance failed", zap.Error(err))
		return
	}
	h.result.AutoAdvanceRef = txHash
}

func (o *orchestrator) autoAdvanceTarget() (common.Address, error) {
	if o.config.AutoAdvanceTarget != "" {
		if !common.IsHexAddress(o.config.AutoAdvanceTarget) || domain.IsZeroAddress(o.config.AutoAdvanceTarget) {
			return common.Address{}, fmt.Errorf("invalid auto-advance target address %q", o.config.AutoAdvanceTarget)
		}
		return common.HexToAddress(o.config.AutoAdvanceTarget), nil
	}

	consumer, err := o.keyring.Identity(domain.RoleConsumer)
	if err != nil {
		return common.Address{}, err
	}
	return consumer.Address(), nil
}

// recordQuantity appends the hop's quantity declaration. A failure here does not undo the
// confirmed write and is reported as a warning.
func (o *orchestrator) recordQuantity(ctx context.Context, h *hop, qty uint64, status string) {
	err := o.quantity.Record(ctx, domain.QuantityRecord{
		BatchID:        h.result.BatchID,
		Role:           h.result.Role,
		Quantity:       qty,
		TransactionRef: h.result.TransactionRef,
		RecordedAt:     o.clock.Now(),
		Metadata: domain.QuantityRecordMetadata{
			Status:           status,
			PrerequisiteRefs: h.result.PrerequisiteRefs,
		},
	})
	if err != nil {
		o.warn(ctx, h, domain.ErrorKindStorageUnavailable, err, h.result.Role, "record quantity")
	}
}

func setCustodian(snapshot *domain.BatchSnapshot, role domain.Role, address string) {
	switch role {
	case domain.RoleDistributor:
		snapshot.Distributor = address
	case domain.RoleRetailer:
		snapshot.Retailer = address
	case domain.RoleConsumer:
		snapshot.Consumer = address
	}
}
