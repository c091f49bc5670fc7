package ledger

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
)

// BatchTopic is the topic of an indexed string batch id, which the ledger stores as its keccak256 hash
func BatchTopic(batchID string) common.Hash {
	return crypto.Keccak256Hash([]byte(batchID))
}

func (g *ethGateway) QueryEvents(ctx context.Context, kind domain.EventKind, batchID string, fromBlock uint64) (events []domain.LedgerEvent, err error) {
	started := time.Now()
	defer func() { g.metrics.Observe("query_events", err, started) }()

	event, err := lookupEvent(g.contract, kind)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.config.QueryTimeout)
	defer cancel()

	toBlock, err := g.blocks.LatestBlock(timeoutCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest block: %w", err)
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{g.config.ContractAddress},
		Topics: [][]common.Hash{
			{event.ID},
			{BatchTopic(batchID)},
		},
	}

	logs, err := FilterLogs(timeoutCtx, g.client, query, g.config.LogStepSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s events: %w", kind, err)
	}

	events = make([]domain.LedgerEvent, 0, len(logs))
	for _, vLog := range logs {
		if vLog.Removed {
			continue
		}
		ev, err := DecodeLog(g.contract, vLog)
		if err != nil {
			logger.WarnCtx(ctx, "Skipping undecodable log",
				zap.String("tx_hash", vLog.TxHash.Hex()),
				zap.Uint("log_index", vLog.Index),
				zap.Error(err))
			continue
		}
		if ev == nil {
			continue
		}
		events = append(events, *ev)
	}

	SortEvents(events)
	return events, nil
}

// SortEvents orders events by block number, then log index
func SortEvents(events []domain.LedgerEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockNumber != events[j].BlockNumber {
			return events[i].BlockNumber < events[j].BlockNumber
		}
		return events[i].LogIndex < events[j].LogIndex
	})
}

// EventTopics returns the signature topics of every event kind the contract emits
func EventTopics(contract abi.ABI) []common.Hash {
	var topics []common.Hash
	for _, kind := range domain.EventKinds {
		if ev, err := lookupEvent(contract, kind); err == nil {
			topics = append(topics, ev.ID)
		}
	}
	return topics
}

// DecodeLog decodes a SupplyChain log. It returns nil without error for logs of other events.
func DecodeLog(contract abi.ABI, vLog types.Log) (*domain.LedgerEvent, error) {
	if len(vLog.Topics) == 0 {
		return nil, nil
	}

	for _, kind := range domain.EventKinds {
		ev, err := lookupEvent(contract, kind)
		if err != nil || ev.ID != vLog.Topics[0] {
			continue
		}

		values := make(map[string]interface{})
		if len(vLog.Data) > 0 {
			if err := ev.Inputs.NonIndexed().UnpackIntoMap(values, vLog.Data); err != nil {
				return nil, fmt.Errorf("failed to unpack %s: %w", ev.Name, err)
			}
		}

		var batchHash string
		if len(vLog.Topics) > 1 {
			batchHash = vLog.Topics[1].Hex()
		}

		return &domain.LedgerEvent{
			Kind:        kind,
			BatchIDHash: batchHash,
			BlockNumber: vLog.BlockNumber,
			BlockHash:   vLog.BlockHash.Hex(),
			LogIndex:    vLog.Index,
			TxHash:      vLog.TxHash.Hex(),
			Args:        argsFromValues(values),
		}, nil
	}

	return nil, nil
}

func argsFromValues(values map[string]interface{}) domain.EventArgs {
	var args domain.EventArgs

	args.Product = stringValue(values["product"])
	args.Status = stringValue(values["status"])
	args.Role = stringValue(values["role"])
	args.Farmer = addressValue(values["farmer"])
	args.From = addressValue(values["from"])
	args.To = addressValue(values["to"])
	args.UpdatedBy = addressValue(values["updatedBy"])
	args.Consumer = addressValue(values["consumer"])

	if q, ok := values["quantity"]; ok {
		if n, err := toUint64(q); err == nil {
			args.Quantity = &n
		}
	}

	return args
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func addressValue(v interface{}) string {
	addr, ok := v.(common.Address)
	if !ok {
		return ""
	}
	return addr.Hex()
}

// FilterLogs runs query in block windows of stepSize, halving the window whenever the node
// rejects a window for returning too many results
func FilterLogs(ctx context.Context, client adapter.EthClient, query ethereum.FilterQuery, stepSize uint64) ([]types.Log, error) {
	if query.BlockHash != nil {
		return client.FilterLogs(ctx, query)
	}

	var fromBlock, toBlock uint64
	if query.FromBlock != nil {
		fromBlock = query.FromBlock.Uint64()
	}
	if query.ToBlock != nil {
		toBlock = query.ToBlock.Uint64()
	} else {
		header, err := client.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get latest block: %w", err)
		}
		toBlock = header.Number.Uint64()
	}

	if stepSize == 0 {
		stepSize = 1
	}

	var allLogs []types.Log
	currentFrom := fromBlock
	for currentFrom <= toBlock {
		currentTo := currentFrom + stepSize - 1
		if currentTo > toBlock || currentTo < currentFrom {
			currentTo = toBlock
		}

		rangeQuery := query
		rangeQuery.FromBlock = new(big.Int).SetUint64(currentFrom)
		rangeQuery.ToBlock = new(big.Int).SetUint64(currentTo)

		logs, err := client.FilterLogs(ctx, rangeQuery)
		if err == nil {
			allLogs = append(allLogs, logs...)
			if currentTo == toBlock {
				break
			}
			currentFrom = currentTo + 1
			continue
		}

		if !isTooManyResultsError(err) || stepSize == 1 {
			return nil, fmt.Errorf("failed to get logs for range %d-%d: %w", currentFrom, currentTo, err)
		}

		stepSize /= 2
		logger.WarnCtx(ctx, "Too many results, reducing step size",
			zap.Uint64("newStepSize", stepSize),
			zap.Uint64("fromBlock", currentFrom),
			zap.Uint64("toBlock", currentTo))
	}

	return allLogs, nil
}

func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "query returned more than 10000 results") ||
		strings.Contains(errStr, "query timeout exceeded") ||
		strings.Contains(errStr, "too many results") ||
		strings.Contains(errStr, "exceeded maximum") ||
		strings.Contains(errStr, "block range")
}
