package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/identity"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
)

var errReceiptPending = errors.New("receipt not yet available")

// NewCreateBatchCall describes createBatch(batchID, product, quantity)
func NewCreateBatchCall(from common.Address, batchID, product string, quantity uint64) Call {
	return Call{
		From:   from,
		Method: methodCreateBatch,
		Args:   []interface{}{batchID, product, new(big.Int).SetUint64(quantity)},
	}
}

// NewAssignCustodyCall describes the transfer that fills role's custody slot with to
func NewAssignCustodyCall(from common.Address, batchID string, role domain.Role, to common.Address) (Call, error) {
	method, err := custodyMethod(role)
	if err != nil {
		return Call{}, err
	}
	return Call{
		From:   from,
		Method: method,
		Args:   []interface{}{batchID, to},
	}, nil
}

// NewUpdateStatusCall describes updateBatchStatus(batchID, status)
func NewUpdateStatusCall(from common.Address, batchID, status string) Call {
	return Call{
		From:   from,
		Method: methodUpdateBatchStatus,
		Args:   []interface{}{batchID, status},
	}
}

func (g *ethGateway) CreateBatch(ctx context.Context, signer *identity.Identity, batchID, product string, quantity uint64, opts TxOptions) (string, error) {
	return g.Submit(ctx, signer, NewCreateBatchCall(signer.Address(), batchID, product, quantity), opts)
}

func (g *ethGateway) AssignCustody(ctx context.Context, signer *identity.Identity, batchID string, role domain.Role, to common.Address, opts TxOptions) (string, error) {
	call, err := NewAssignCustodyCall(signer.Address(), batchID, role, to)
	if err != nil {
		return "", err
	}
	return g.Submit(ctx, signer, call, opts)
}

func (g *ethGateway) UpdateStatus(ctx context.Context, signer *identity.Identity, batchID, status string, opts TxOptions) (string, error) {
	return g.Submit(ctx, signer, NewUpdateStatusCall(signer.Address(), batchID, status), opts)
}

func (g *ethGateway) EstimateGas(ctx context.Context, call Call) (gas uint64, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("estimate_gas", err, started) }()

	data, err := g.contract.Pack(call.Method, call.Args...)
	if err != nil {
		return 0, fmt.Errorf("failed to pack %s: %w", call.Method, err)
	}

	contractAddr := g.config.ContractAddress
	return g.client.EstimateGas(ctx, ethereum.CallMsg{
		From: call.From,
		To:   &contractAddr,
		Data: data,
	})
}

func (g *ethGateway) CurrentNonce(ctx context.Context, address common.Address) (nonce uint64, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("current_nonce", err, started) }()

	return g.client.PendingNonceAt(ctx, address)
}

func (g *ethGateway) Submit(ctx context.Context, signer *identity.Identity, call Call, opts TxOptions) (txHash string, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("submit", err, started) }()

	if signer == nil {
		return "", fmt.Errorf("%w: no signer for %s", domain.ErrIdentityNotConfigured, call.Method)
	}
	call.From = signer.Address()

	data, err := g.contract.Pack(call.Method, call.Args...)
	if err != nil {
		return "", fmt.Errorf("failed to pack %s: %w", call.Method, err)
	}

	gasLimit := opts.GasLimit
	if gasLimit == 0 {
		gasLimit, err = g.EstimateGas(ctx, call)
		if err != nil {
			logger.WarnCtx(ctx, "Gas estimation failed, using default gas limit",
				zap.String("method", call.Method),
				zap.Uint64("gas_limit", g.config.DefaultGasLimit),
				zap.Error(err))
			gasLimit = g.config.DefaultGasLimit
		}
	}

	var nonce uint64
	if opts.Nonce != nil {
		nonce = *opts.Nonce
	} else {
		nonce, err = g.client.PendingNonceAt(ctx, call.From)
		if err != nil {
			return "", fmt.Errorf("failed to get nonce: %w", err)
		}
	}

	gasPrice, err := g.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	contractAddr := g.config.ContractAddress
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &contractAddr,
		Value:    big.NewInt(0),
		Data:     data,
	})

	signed, err := signer.Sign(tx, g.config.ChainID)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", call.Method, err)
	}

	if err := g.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("failed to send %s: %w", call.Method, err)
	}

	txHash = signed.Hash().Hex()
	logger.InfoCtx(ctx, "Submitted ledger write",
		zap.String("method", call.Method),
		zap.String("from", call.From.Hex()),
		zap.String("tx_hash", txHash),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas_limit", gasLimit))

	return txHash, nil
}

func (g *ethGateway) Wait(ctx context.Context, txHash string) (receipt *Receipt, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("wait", err, started) }()

	hash := common.HexToHash(txHash)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.config.ReceiptPollInterval
	b.MaxInterval = 4 * g.config.ReceiptPollInterval
	b.MaxElapsedTime = g.config.ReceiptTimeout
	b.Multiplier = 1.5

	operation := func() error {
		r, err := g.client.TransactionReceipt(ctx, hash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return errReceiptPending
			}
			return err
		}

		receipt = &Receipt{
			TxHash:      txHash,
			BlockNumber: r.BlockNumber.Uint64(),
			GasUsed:     r.GasUsed,
			Success:     r.Status == types.ReceiptStatusSuccessful,
		}
		if !receipt.Success {
			return backoff.Permanent(fmt.Errorf("%w: %s", domain.ErrTransactionReverted, txHash))
		}
		return nil
	}

	notify := func(err error, next time.Duration) {
		if !errors.Is(err, errReceiptPending) {
			logger.WarnCtx(ctx, "Receipt poll failed, retrying",
				zap.String("tx_hash", txHash),
				zap.Duration("next_retry_in", next),
				zap.Error(err))
		}
	}

	err = backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
	if err != nil {
		if errors.Is(err, errReceiptPending) {
			return nil, fmt.Errorf("timeout waiting for receipt of %s", txHash)
		}
		return receipt, err
	}

	return receipt, nil
}
