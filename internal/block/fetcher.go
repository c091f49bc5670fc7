package block

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
)

type ethFetcher struct {
	client adapter.EthClient
}

// NewEthFetcher returns a Fetcher that reads headers through an Ethereum client
func NewEthFetcher(client adapter.EthClient) Fetcher {
	return &ethFetcher{client: client}
}

func (f *ethFetcher) FetchLatestBlock(ctx context.Context) (uint64, error) {
	header, err := f.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}

func (f *ethFetcher) FetchBlockTime(ctx context.Context, blockNumber uint64) (time.Time, error) {
	header, err := f.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, err
	}
	if header == nil {
		return time.Time{}, fmt.Errorf("block %d not found", blockNumber)
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil //nolint:gosec,G115
}
