package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
)

// call packs a view call, executes it against the latest state and unpacks the outputs
func (g *ethGateway) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := g.contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	contractAddr := g.config.ContractAddress
	result, err := g.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contractAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}

	out, err := g.contract.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return out, nil
}

func (g *ethGateway) BatchExists(ctx context.Context, batchID string) (exists bool, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("batch_exists", err, started) }()

	out, err := g.call(ctx, methodBatchExists, batchID)
	if err != nil {
		return false, err
	}
	if len(out) != 1 {
		return false, fmt.Errorf("unexpected %s output length %d", methodBatchExists, len(out))
	}

	exists, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected %s output type %T", methodBatchExists, out[0])
	}
	return exists, nil
}

func (g *ethGateway) GetBatchInfo(ctx context.Context, batchID string) (snapshot *domain.BatchSnapshot, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("get_batch_info", err, started) }()

	out, err := g.call(ctx, methodGetBatchInfo, batchID)
	if err != nil {
		if isBatchMissing(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, batchID)
		}
		return nil, err
	}
	if len(out) != 9 {
		return nil, fmt.Errorf("unexpected %s output length %d", methodGetBatchInfo, len(out))
	}

	product, _ := out[0].(string)
	quantity, err := toUint64(out[1])
	if err != nil {
		return nil, fmt.Errorf("invalid batch quantity: %w", err)
	}
	farmer, _ := out[2].(common.Address)
	distributor, _ := out[3].(common.Address)
	retailer, _ := out[4].(common.Address)
	consumer, _ := out[5].(common.Address)
	createdAt, _ := toUint64(out[6])
	updatedAt, _ := toUint64(out[7])
	status, _ := out[8].(string)

	// A contract returning an empty struct instead of reverting still means "absent"
	if farmer == (common.Address{}) {
		return nil, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, batchID)
	}

	return &domain.BatchSnapshot{
		BatchID:     batchID,
		Product:     product,
		Quantity:    quantity,
		Farmer:      farmer.Hex(),
		Distributor: distributor.Hex(),
		Retailer:    retailer.Hex(),
		Consumer:    consumer.Hex(),
		CreatedAt:   time.Unix(int64(createdAt), 0).UTC(), //nolint:gosec,G115
		UpdatedAt:   time.Unix(int64(updatedAt), 0).UTC(), //nolint:gosec,G115
		Status:      status,
		Exists:      true,
	}, nil
}

func (g *ethGateway) BatchIDs(ctx context.Context) (ids []string, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("batch_ids", err, started) }()

	out, err := g.call(ctx, methodGetAllBatchIds)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected %s output length %d", methodGetAllBatchIds, len(out))
	}

	ids, ok := out[0].([]string)
	if !ok {
		return nil, fmt.Errorf("unexpected %s output type %T", methodGetAllBatchIds, out[0])
	}
	return ids, nil
}

func (g *ethGateway) BatchCount(ctx context.Context) (count uint64, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("batch_count", err, started) }()

	out, err := g.call(ctx, methodGetBatchCount)
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("unexpected %s output length %d", methodGetBatchCount, len(out))
	}
	return toUint64(out[0])
}

func (g *ethGateway) GetBlockTimestamp(ctx context.Context, blockNumber uint64) (ts time.Time, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("block_timestamp", err, started) }()

	return g.blocks.BlockTime(ctx, blockNumber)
}

func (g *ethGateway) LatestBlock(ctx context.Context) (n uint64, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("latest_block", err, started) }()

	return g.blocks.LatestBlock(ctx)
}

func (g *ethGateway) Balance(ctx context.Context, address common.Address) (balance *big.Int, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("balance", err, started) }()

	return g.client.BalanceAt(ctx, address, nil)
}

// isBatchMissing detects the contract's existence guard in a revert message
func isBatchMissing(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Batch does not exist")
}

func toUint64(v interface{}) (uint64, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return 0, fmt.Errorf("expected *big.Int, got %T", v)
	}
	if n.Sign() < 0 || !n.IsUint64() {
		return 0, errors.New("value does not fit in uint64")
	}
	return n.Uint64(), nil
}
