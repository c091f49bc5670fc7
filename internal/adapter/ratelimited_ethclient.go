package adapter

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/ratelimit"
)

// rateLimitedEthClient paces outgoing RPCs to a fixed rate
type rateLimitedEthClient struct {
	next EthClient
	rl   ratelimit.Limiter
}

// NewRateLimitedEthClient wraps client so that every call takes a token from rl first
func NewRateLimitedEthClient(client EthClient, rl ratelimit.Limiter) EthClient {
	return &rateLimitedEthClient{next: client, rl: rl}
}

func (c *rateLimitedEthClient) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	c.rl.Take()
	return c.next.SubscribeFilterLogs(ctx, query, ch)
}

func (c *rateLimitedEthClient) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	c.rl.Take()
	return c.next.FilterLogs(ctx, query)
}

func (c *rateLimitedEthClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	c.rl.Take()
	return c.next.HeaderByNumber(ctx, number)
}

func (c *rateLimitedEthClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	c.rl.Take()
	return c.next.CallContract(ctx, msg, blockNumber)
}

func (c *rateLimitedEthClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	c.rl.Take()
	return c.next.EstimateGas(ctx, msg)
}

func (c *rateLimitedEthClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	c.rl.Take()
	return c.next.PendingNonceAt(ctx, account)
}

func (c *rateLimitedEthClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	c.rl.Take()
	return c.next.SuggestGasPrice(ctx)
}

func (c *rateLimitedEthClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	c.rl.Take()
	return c.next.SendTransaction(ctx, tx)
}

func (c *rateLimitedEthClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	c.rl.Take()
	return c.next.TransactionReceipt(ctx, txHash)
}

func (c *rateLimitedEthClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	c.rl.Take()
	return c.next.BalanceAt(ctx, account, blockNumber)
}

func (c *rateLimitedEthClient) ChainID(ctx context.Context) (*big.Int, error) {
	c.rl.Take()
	return c.next.ChainID(ctx)
}

func (c *rateLimitedEthClient) Close() {
	c.next.Close()
}
