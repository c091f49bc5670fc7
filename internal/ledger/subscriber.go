package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/block"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/messaging"
)

// SubscriberConfig holds the configuration for following contract events
type SubscriberConfig struct {
	ContractAddress common.Address
	ChainID         *big.Int
	LogStepSize     uint64
}

type ethSubscriber struct {
	client   adapter.EthClient
	blocks   block.Provider
	contract abi.ABI
	config   SubscriberConfig
	clock    adapter.Clock
}

// NewSubscriber creates a subscriber for the SupplyChain contract's events
func NewSubscriber(client adapter.EthClient, blocks block.Provider, contract abi.ABI, cfg SubscriberConfig, clock adapter.Clock) messaging.Subscriber {
	if cfg.ChainID == nil {
		cfg.ChainID = new(big.Int)
	}
	if cfg.LogStepSize == 0 {
		cfg.LogStepSize = 1_000_000
	}
	return &ethSubscriber{
		client:   client,
		blocks:   blocks,
		contract: contract,
		config:   cfg,
		clock:    clock,
	}
}

// SubscribeEvents replays logs from fromBlock up to the head, then streams new logs
func (s *ethSubscriber) SubscribeEvents(ctx context.Context, fromBlock uint64, handler messaging.EventHandler) error {
	topics := EventTopics(s.contract)
	if len(topics) == 0 {
		return fmt.Errorf("contract ABI declares no supply chain events")
	}

	query := ethereum.FilterQuery{
		Addresses: []common.Address{s.config.ContractAddress},
		Topics:    [][]common.Hash{topics},
	}

	// Subscribe before replaying so nothing mined during the replay is missed
	logs := make(chan types.Log)
	sub, err := s.client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to filter logs: %w", err)
	}
	defer func() {
		logger.InfoCtx(ctx, "Unsubscribing from supply chain event logs")
		sub.Unsubscribe()
	}()

	head, err := s.blocks.LatestBlock(ctx)
	if err != nil {
		return fmt.Errorf("failed to get latest block: %w", err)
	}

	seen := make(map[string]struct{})
	if fromBlock <= head {
		replay := query
		replay.FromBlock = new(big.Int).SetUint64(fromBlock)
		replay.ToBlock = new(big.Int).SetUint64(head)

		past, err := FilterLogs(ctx, s.client, replay, s.config.LogStepSize)
		if err != nil {
			return fmt.Errorf("failed to replay logs from %d: %w", fromBlock, err)
		}
		logger.InfoCtx(ctx, "Replaying supply chain events",
			zap.Uint64("from_block", fromBlock),
			zap.Uint64("to_block", head),
			zap.Int("count", len(past)))

		for _, vLog := range past {
			if err := s.dispatch(ctx, vLog, seen, handler); err != nil {
				return err
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("subscription error: %w", err)
		case vLog := <-logs:
			if vLog.BlockNumber < fromBlock {
				continue
			}
			// Only logs overlapping the replayed range can be duplicates
			dedup := seen
			if vLog.BlockNumber > head {
				dedup = nil
			}
			if err := s.dispatch(ctx, vLog, dedup, handler); err != nil {
				return err
			}
		}
	}
}

// dispatch decodes vLog and hands it to handler at most once.
// Decode and handler failures are logged; only a cancelled context is returned.
func (s *ethSubscriber) dispatch(ctx context.Context, vLog types.Log, seen map[string]struct{}, handler messaging.EventHandler) error {
	if vLog.Removed {
		return nil
	}

	event, err := DecodeLog(s.contract, vLog)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Error parsing log"))
		return nil
	}
	if event == nil {
		return nil
	}

	if seen != nil {
		key := event.Key()
		if _, ok := seen[key]; ok {
			return nil
		}
		seen[key] = struct{}{}
	}

	ts, err := s.blocks.BlockTime(ctx, event.BlockNumber)
	if err != nil {
		logger.WarnCtx(ctx, "Block timestamp unavailable, using receive time",
			zap.Uint64("block", event.BlockNumber),
			zap.Error(err))
		ts = s.clock.Now()
	}

	chainEvent := &domain.ChainEvent{
		ChainID:         s.config.ChainID.String(),
		ContractAddress: s.config.ContractAddress.Hex(),
		Event:           *event,
		Timestamp:       ts,
	}

	if err := handler(chainEvent); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.ErrorCtx(ctx, err, zap.String("message", "Error handling event"))
	}
	return nil
}

// GetLatestBlock returns the latest block number
func (s *ethSubscriber) GetLatestBlock(ctx context.Context) (uint64, error) {
	return s.blocks.LatestBlock(ctx)
}

// Close closes the connection
func (s *ethSubscriber) Close() {
	if s.client == nil {
		return
	}

	s.client.Close()
	logger.Info("Ethereum connection closed")
}
