package ledger_test

import (
	"context"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/identity"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/ledger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/mocks"
)

const farmerKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

var (
	contractAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	farmerAddress   = common.HexToAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23")
	distributorAddr = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testGatewayMocks struct {
	ctrl     *gomock.Controller
	client   *mocks.MockEthClient
	blocks   *mocks.MockBlockProvider
	contract abi.ABI
	gateway  ledger.Gateway
}

func setupTest(t *testing.T) *testGatewayMocks {
	ctrl := gomock.NewController(t)

	contract, err := ledger.LoadABI("")
	require.NoError(t, err)

	tm := &testGatewayMocks{
		ctrl:     ctrl,
		client:   mocks.NewMockEthClient(ctrl),
		blocks:   mocks.NewMockBlockProvider(ctrl),
		contract: contract,
	}
	tm.gateway = ledger.NewGateway(tm.client, tm.blocks, contract, ledger.Config{
		ContractAddress:     contractAddress,
		ChainID:             big.NewInt(1337),
		ChainName:           "test",
		DefaultGasLimit:     500000,
		ReceiptPollInterval: 5 * time.Millisecond,
		ReceiptTimeout:      200 * time.Millisecond,
		LogStepSize:         100,
	}, nil)
	return tm
}

func tearDownTest(tm *testGatewayMocks) {
	tm.ctrl.Finish()
}

func packOutputs(t *testing.T, contract abi.ABI, method string, values ...interface{}) []byte {
	t.Helper()
	out, err := contract.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	return out
}

func TestGateway_BatchExists(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	tm.client.EXPECT().
		CallContract(ctx, gomock.Any(), nil).
		DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			assert.Equal(t, contractAddress, *msg.To)
			args, err := tm.contract.Methods["batchExists"].Inputs.Unpack(msg.Data[4:])
			require.NoError(t, err)
			assert.Equal(t, "B1", args[0])
			return packOutputs(t, tm.contract, "batchExists", true), nil
		})

	exists, err := tm.gateway.BatchExists(ctx, "B1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGateway_GetBatchInfo(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	zero := common.Address{}

	tm.client.EXPECT().CallContract(ctx, gomock.Any(), nil).Return(
		packOutputs(t, tm.contract, "getBatchInfo",
			"Tomatoes", big.NewInt(100), farmerAddress, distributorAddr, zero, zero,
			big.NewInt(1700000000), big.NewInt(1700000100), "Received by Distributor"),
		nil)

	snapshot, err := tm.gateway.GetBatchInfo(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Tomatoes", snapshot.Product)
	assert.Equal(t, uint64(100), snapshot.Quantity)
	assert.Equal(t, farmerAddress.Hex(), snapshot.Farmer)
	assert.True(t, snapshot.IsAssigned(domain.RoleDistributor))
	assert.False(t, snapshot.IsAssigned(domain.RoleRetailer))
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), snapshot.CreatedAt)
	assert.True(t, snapshot.Exists)
}

func TestGateway_GetBatchInfo_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		result func(tm *testGatewayMocks) ([]byte, error)
	}{
		{
			name: "revert reason",
			result: func(tm *testGatewayMocks) ([]byte, error) {
				return nil, errors.New("execution reverted: Batch does not exist")
			},
		},
		{
			name: "empty record",
			result: func(tm *testGatewayMocks) ([]byte, error) {
				zero := common.Address{}
				return packOutputs(t, tm.contract, "getBatchInfo",
					"", big.NewInt(0), zero, zero, zero, zero, big.NewInt(0), big.NewInt(0), ""), nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTest(t)
			defer tearDownTest(tm)

			ctx := context.Background()
			tm.client.EXPECT().CallContract(ctx, gomock.Any(), nil).Return(tt.result(tm))

			_, err := tm.gateway.GetBatchInfo(ctx, "missing")
			assert.True(t, errors.Is(err, domain.ErrBatchNotFound))
		})
	}
}

func TestGateway_BatchIDsAndCount(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	gomock.InOrder(
		tm.client.EXPECT().CallContract(ctx, gomock.Any(), nil).
			Return(packOutputs(t, tm.contract, "getAllBatchIds", []string{"B1", "B2"}), nil),
		tm.client.EXPECT().CallContract(ctx, gomock.Any(), nil).
			Return(packOutputs(t, tm.contract, "getBatchCount", big.NewInt(2)), nil),
	)

	ids, err := tm.gateway.BatchIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "B2"}, ids)

	count, err := tm.gateway.BatchCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestGateway_Submit(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	signer, err := identity.FromPrivateKey(domain.RoleFarmer, farmerKey)
	require.NoError(t, err)

	nonce := uint64(4)
	tm.client.EXPECT().SuggestGasPrice(ctx).Return(big.NewInt(1_000_000_000), nil)
	tm.client.EXPECT().
		SendTransaction(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *types.Transaction) error {
			assert.Equal(t, uint64(4), tx.Nonce())
			assert.Equal(t, uint64(60000), tx.Gas())
			assert.Equal(t, contractAddress, *tx.To())

			sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1337)), tx)
			require.NoError(t, err)
			assert.Equal(t, farmerAddress, sender)
			return nil
		})

	txHash, err := tm.gateway.UpdateStatus(ctx, signer, "B1", "Harvested", ledger.TxOptions{GasLimit: 60000, Nonce: &nonce})
	require.NoError(t, err)
	assert.Len(t, txHash, 66)
}

func TestGateway_Submit_EstimatesAndFallsBack(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	signer, err := identity.FromPrivateKey(domain.RoleFarmer, farmerKey)
	require.NoError(t, err)

	tm.client.EXPECT().EstimateGas(ctx, gomock.Any()).Return(uint64(0), errors.New("execution reverted"))
	tm.client.EXPECT().PendingNonceAt(ctx, farmerAddress).Return(uint64(9), nil)
	tm.client.EXPECT().SuggestGasPrice(ctx).Return(big.NewInt(1), nil)
	tm.client.EXPECT().
		SendTransaction(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *types.Transaction) error {
			assert.Equal(t, uint64(500000), tx.Gas())
			assert.Equal(t, uint64(9), tx.Nonce())
			return nil
		})

	_, err = tm.gateway.CreateBatch(ctx, signer, "B1", "Tomatoes", 100, ledger.TxOptions{})
	require.NoError(t, err)
}

func TestGateway_Submit_EstimationFailureWithoutConfiguredLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockEthClient(ctrl)
	contract, err := ledger.LoadABI("")
	require.NoError(t, err)
	gateway := ledger.NewGateway(client, mocks.NewMockBlockProvider(ctrl), contract, ledger.Config{
		ContractAddress: contractAddress,
		ChainID:         big.NewInt(1337),
	}, nil)

	ctx := context.Background()
	signer, err := identity.FromPrivateKey(domain.RoleFarmer, farmerKey)
	require.NoError(t, err)

	client.EXPECT().EstimateGas(ctx, gomock.Any()).Return(uint64(0), errors.New("estimation rpc unavailable"))
	client.EXPECT().PendingNonceAt(ctx, farmerAddress).Return(uint64(3), nil)
	client.EXPECT().SuggestGasPrice(ctx).Return(big.NewInt(1), nil)
	client.EXPECT().
		SendTransaction(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *types.Transaction) error {
			assert.Equal(t, uint64(domain.DEFAULT_GAS_LIMIT), tx.Gas())
			return nil
		})

	txHash, err := gateway.UpdateStatus(ctx, signer, "B1", "Received by Distributor", ledger.TxOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, txHash)
}

func TestGateway_Submit_RequiresSigner(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	_, err := tm.gateway.Submit(context.Background(), nil, ledger.NewUpdateStatusCall(farmerAddress, "B1", "x"), ledger.TxOptions{})
	assert.True(t, errors.Is(err, domain.ErrIdentityNotConfigured))
}

func TestGateway_AssignCustody_RejectsFarmerSlot(t *testing.T) {
	_, err := ledger.NewAssignCustodyCall(farmerAddress, "B1", domain.RoleFarmer, distributorAddr)
	assert.True(t, errors.Is(err, domain.ErrUnknownRole))

	call, err := ledger.NewAssignCustodyCall(farmerAddress, "B1", domain.RoleRetailer, distributorAddr)
	require.NoError(t, err)
	assert.Equal(t, "transferToRetailer", call.Method)
}

func TestGateway_Wait(t *testing.T) {
	hash := common.HexToHash("0xabc")

	t.Run("polls until mined", func(t *testing.T) {
		tm := setupTest(t)
		defer tearDownTest(tm)

		ctx := context.Background()
		gomock.InOrder(
			tm.client.EXPECT().TransactionReceipt(ctx, hash).Return(nil, ethereum.NotFound),
			tm.client.EXPECT().TransactionReceipt(ctx, hash).Return(&types.Receipt{
				Status:      types.ReceiptStatusSuccessful,
				BlockNumber: big.NewInt(12),
				GasUsed:     42000,
			}, nil),
		)

		receipt, err := tm.gateway.Wait(ctx, hash.Hex())
		require.NoError(t, err)
		assert.True(t, receipt.Success)
		assert.Equal(t, uint64(12), receipt.BlockNumber)
	})

	t.Run("reverted receipt", func(t *testing.T) {
		tm := setupTest(t)
		defer tearDownTest(tm)

		ctx := context.Background()
		tm.client.EXPECT().TransactionReceipt(ctx, hash).Return(&types.Receipt{
			Status:      types.ReceiptStatusFailed,
			BlockNumber: big.NewInt(12),
		}, nil)

		receipt, err := tm.gateway.Wait(ctx, hash.Hex())
		assert.True(t, errors.Is(err, domain.ErrTransactionReverted))
		require.NotNil(t, receipt)
		assert.False(t, receipt.Success)
	})

	t.Run("times out", func(t *testing.T) {
		tm := setupTest(t)
		defer tearDownTest(tm)

		ctx := context.Background()
		tm.client.EXPECT().TransactionReceipt(ctx, hash).Return(nil, ethereum.NotFound).AnyTimes()

		_, err := tm.gateway.Wait(ctx, hash.Hex())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})
}

func eventLog(t *testing.T, contract abi.ABI, name, batchID string, block uint64, index uint, values ...interface{}) types.Log {
	t.Helper()
	ev := contract.Events[name]
	data, err := ev.Inputs.NonIndexed().Pack(values...)
	require.NoError(t, err)
	return types.Log{
		Address:     contractAddress,
		Topics:      []common.Hash{ev.ID, ledger.BatchTopic(batchID)},
		Data:        data,
		BlockNumber: block,
		TxHash:      common.BigToHash(big.NewInt(int64(block))),
		Index:       index,
	}
}

func TestGateway_QueryEvents(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	tm.blocks.EXPECT().LatestBlock(gomock.Any()).Return(uint64(150), nil)

	later := eventLog(t, tm.contract, "BatchTransferred", "B1", 120, 0, farmerAddress, distributorAddr, "Distributor")
	earlier := eventLog(t, tm.contract, "BatchTransferred", "B1", 20, 3, farmerAddress, distributorAddr, "Distributor")

	gomock.InOrder(
		tm.client.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
				assert.Equal(t, uint64(0), q.FromBlock.Uint64())
				assert.Equal(t, uint64(99), q.ToBlock.Uint64())
				assert.Equal(t, ledger.BatchTopic("B1"), q.Topics[1][0])
				return []types.Log{earlier}, nil
			}),
		tm.client.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
				assert.Equal(t, uint64(100), q.FromBlock.Uint64())
				assert.Equal(t, uint64(150), q.ToBlock.Uint64())
				return []types.Log{later}, nil
			}),
	)

	events, err := tm.gateway.QueryEvents(ctx, domain.EventKindTransferred, "B1", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(20), events[0].BlockNumber)
	assert.Equal(t, "Distributor", events[0].Args.Role)
	assert.Equal(t, distributorAddr.Hex(), events[0].Args.To)
	assert.Equal(t, domain.EventKindTransferred, events[1].Kind)
}

func TestGateway_QueryEvents_UnsupportedKind(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	_, err := tm.gateway.QueryEvents(context.Background(), domain.EventKindCompleted, "B1", 0)
	assert.True(t, errors.Is(err, domain.ErrEventKindUnsupported))
}

func TestDecodeLog(t *testing.T) {
	contract, err := ledger.LoadABI("")
	require.NoError(t, err)

	created := eventLog(t, contract, "BatchCreated", "B1", 5, 1, "Tomatoes", big.NewInt(100), farmerAddress)
	ev, err := ledger.DecodeLog(contract, created)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, domain.EventKindCreated, ev.Kind)
	assert.Equal(t, "Tomatoes", ev.Args.Product)
	require.NotNil(t, ev.Args.Quantity)
	assert.Equal(t, uint64(100), *ev.Args.Quantity)
	assert.Equal(t, farmerAddress.Hex(), ev.Args.Farmer)
	assert.Equal(t, ledger.BatchTopic("B1").Hex(), ev.BatchIDHash)

	updated := eventLog(t, contract, "BatchUpdated", "B1", 6, 0, "Received by Distributor", distributorAddr)
	ev, err = ledger.DecodeLog(contract, updated)
	require.NoError(t, err)
	assert.Equal(t, domain.EventKindUpdated, ev.Kind)
	assert.Equal(t, distributorAddr.Hex(), ev.Args.UpdatedBy)

	foreign := types.Log{Topics: []common.Hash{common.HexToHash("0x01")}}
	ev, err = ledger.DecodeLog(contract, foreign)
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestFilterLogs_ReducesStepOnTooManyResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockEthClient(ctrl)
	ctx := context.Background()
	query := ethereum.FilterQuery{FromBlock: big.NewInt(0), ToBlock: big.NewInt(9)}

	gomock.InOrder(
		client.EXPECT().FilterLogs(ctx, gomock.Any()).Return(nil, errors.New("query returned more than 10000 results")),
		client.EXPECT().FilterLogs(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
				assert.Equal(t, uint64(4), q.ToBlock.Uint64())
				return []types.Log{{BlockNumber: 1}}, nil
			}),
		client.EXPECT().FilterLogs(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
				assert.Equal(t, uint64(5), q.FromBlock.Uint64())
				assert.Equal(t, uint64(9), q.ToBlock.Uint64())
				return []types.Log{{BlockNumber: 7}}, nil
			}),
	)

	logs, err := ledger.FilterLogs(ctx, client, query, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestFilterLogs_PropagatesOtherErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockEthClient(ctrl)
	ctx := context.Background()
	client.EXPECT().FilterLogs(ctx, gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := ledger.FilterLogs(ctx, client, ethereum.FilterQuery{FromBlock: big.NewInt(0), ToBlock: big.NewInt(9)}, 10)
	assert.Error(t, err)
}
