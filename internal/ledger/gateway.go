package ledger

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/block"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/identity"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/metrics"
)

// Call is a contract write described independently of how it is sent,
// so the same value can be estimated and then submitted.
type Call struct {
	From   common.Address
	Method string
	Args   []interface{}
}

// TxOptions carries explicit transaction parameters.
// A zero GasLimit lets the gateway estimate; a nil Nonce uses the signer's pending nonce.
type TxOptions struct {
	GasLimit uint64
	Nonce    *uint64
}

// Receipt is the confirmation of a mined write
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	GasUsed     uint64
	Success     bool
}

// Gateway is the only path to the SupplyChain contract
//
//go:generate mockgen -source=gateway.go -destination=../mocks/gateway.go -package=mocks -mock_names=Gateway=MockGateway
type Gateway interface {
	// BatchExists reports whether the ledger knows batchID
	BatchExists(ctx context.Context, batchID string) (bool, error)
	// GetBatchInfo reads the batch record, failing with domain.ErrBatchNotFound when absent
	GetBatchInfo(ctx context.Context, batchID string) (*domain.BatchSnapshot, error)
	// BatchIDs enumerates every batch id recorded by the contract
	BatchIDs(ctx context.Context) ([]string, error)
	// BatchCount returns the number of batches recorded by the contract
	BatchCount(ctx context.Context) (uint64, error)

	// CreateBatch submits createBatch signed by signer
	CreateBatch(ctx context.Context, signer *identity.Identity, batchID, product string, quantity uint64, opts TxOptions) (string, error)
	// AssignCustody submits the transfer that fills role's custody slot with to
	AssignCustody(ctx context.Context, signer *identity.Identity, batchID string, role domain.Role, to common.Address, opts TxOptions) (string, error)
	// UpdateStatus submits updateBatchStatus signed by signer
	UpdateStatus(ctx context.Context, signer *identity.Identity, batchID, status string, opts TxOptions) (string, error)
	// Submit signs and sends call, returning the transaction hash before confirmation
	Submit(ctx context.Context, signer *identity.Identity, call Call, opts TxOptions) (string, error)
	// Wait blocks until txHash is mined; a reverted receipt is returned with domain.ErrTransactionReverted
	Wait(ctx context.Context, txHash string) (*Receipt, error)

	// EstimateGas estimates the gas units call would consume
	EstimateGas(ctx context.Context, call Call) (uint64, error)
	// CurrentNonce returns the next usable nonce of address, counting pending transactions
	CurrentNonce(ctx context.Context, address common.Address) (uint64, error)

	// QueryEvents returns the events of kind for batchID from fromBlock on, ordered by block and log index
	QueryEvents(ctx context.Context, kind domain.EventKind, batchID string, fromBlock uint64) ([]domain.LedgerEvent, error)
	// GetBlockTimestamp returns the timestamp of a block
	GetBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
	// LatestBlock returns the chain head
	LatestBlock(ctx context.Context) (uint64, error)
	// Balance returns the wei balance of address
	Balance(ctx context.Context, address common.Address) (*big.Int, error)
	// ChainID returns the chain id transactions are signed for
	ChainID() *big.Int
}

// Config holds the configuration of the Ethereum gateway
type Config struct {
	ContractAddress common.Address
	ChainID         *big.Int
	// ChainName labels metrics, e.g. "ganache" or "sepolia"
	ChainName string
	// DefaultGasLimit is used when the gateway's own estimate fails; 0 means domain.DEFAULT_GAS_LIMIT
	DefaultGasLimit     uint64
	ReceiptPollInterval time.Duration
	ReceiptTimeout      time.Duration
	// LogStepSize is the block span of one eth_getLogs request
	LogStepSize uint64
	// QueryTimeout bounds a full paginated log query
	QueryTimeout time.Duration
}

type ethGateway struct {
	client   adapter.EthClient
	blocks   block.Provider
	contract abi.ABI
	config   Config
	metrics  *metrics.Ledger
}

// NewGateway creates a Gateway talking to the SupplyChain contract through client
func NewGateway(client adapter.EthClient, blocks block.Provider, contract abi.ABI, cfg Config, m *metrics.Ledger) Gateway {
	if cfg.ChainID == nil {
		cfg.ChainID = new(big.Int)
	}
	if cfg.ReceiptPollInterval == 0 {
		cfg.ReceiptPollInterval = time.Second
	}
	if cfg.ReceiptTimeout == 0 {
		cfg.ReceiptTimeout = 2 * time.Minute
	}
	if cfg.LogStepSize == 0 {
		cfg.LogStepSize = 1_000_000
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = time.Minute
	}
	if cfg.DefaultGasLimit == 0 {
		cfg.DefaultGasLimit = domain.DEFAULT_GAS_LIMIT
	}

	return &ethGateway{
		client:   client,
		blocks:   blocks,
		contract: contract,
		config:   cfg,
		metrics:  m,
	}
}

func (g *ethGateway) ChainID() *big.Int {
	return new(big.Int).Set(g.config.ChainID)
}
