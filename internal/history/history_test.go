package history_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/history"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/mocks"
)

const (
	farmerAddr      = "0x1111111111111111111111111111111111111111"
	distributorAddr = "0x2222222222222222222222222222222222222222"
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

type testHistoryMocks struct {
	ctrl          *gomock.Controller
	gateway       *mocks.MockGateway
	quantity      *mocks.MockQuantityLedger
	reconstructor history.Reconstructor
}

func setupTest(t *testing.T) *testHistoryMocks {
	ctrl := gomock.NewController(t)
	tm := &testHistoryMocks{
		ctrl:     ctrl,
		gateway:  mocks.NewMockGateway(ctrl),
		quantity: mocks.NewMockQuantityLedger(ctrl),
	}
	tm.reconstructor = history.New(tm.gateway, tm.quantity, adapter.NewJSON(), history.Config{WorkerPoolSize: 4})
	return tm
}

func tearDownTest(tm *testHistoryMocks) {
	tm.reconstructor.Close()
	tm.ctrl.Finish()
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func created(block uint64, index uint, qty uint64) domain.LedgerEvent {
	return domain.LedgerEvent{
		Kind: domain.EventKindCreated, BlockNumber: block, LogIndex: index,
		TxHash: fmt.Sprintf("0xc%d", block),
		Args:   domain.EventArgs{Product: "Tomatoes", Quantity: uint64Ptr(qty), Farmer: farmerAddr},
	}
}

func transferred(block uint64, index uint, role domain.Role, to string) domain.LedgerEvent {
	return domain.LedgerEvent{
		Kind: domain.EventKindTransferred, BlockNumber: block, LogIndex: index,
		TxHash: fmt.Sprintf("0xt%d", block),
		Args:   domain.EventArgs{From: farmerAddr, To: to, Role: string(role)},
	}
}

func updated(block uint64, index uint, status, by string) domain.LedgerEvent {
	return domain.LedgerEvent{
		Kind: domain.EventKindUpdated, BlockNumber: block, LogIndex: index,
		TxHash: fmt.Sprintf("0xu%d", block),
		Args:   domain.EventArgs{Status: status, UpdatedBy: by},
	}
}

// expectEvents serves events per kind; kinds absent from byKind are reported unsupported
func (tm *testHistoryMocks) expectEvents(byKind map[domain.EventKind][]domain.LedgerEvent) {
	tm.gateway.EXPECT().
		QueryEvents(gomock.Any(), gomock.Any(), "B1", uint64(0)).
		DoAndReturn(func(_ context.Context, kind domain.EventKind, _ string, _ uint64) ([]domain.LedgerEvent, error) {
			events, ok := byKind[kind]
			if !ok {
				return nil, fmt.Errorf("%w: %s", domain.ErrEventKindUnsupported, kind)
			}
			return events, nil
		}).
		Times(len(domain.EventKinds))
}

func blockTime(block uint64) time.Time {
	return time.Unix(1700000000+int64(block)*12, 0).UTC()
}

func TestGetHistory_CreatedThenDistributorHop(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.expectEvents(map[domain.EventKind][]domain.LedgerEvent{
		domain.EventKindCreated:     {created(10, 0, 100)},
		domain.EventKindTransferred: {transferred(12, 0, domain.RoleDistributor, distributorAddr)},
		domain.EventKindUpdated:     {updated(12, 1, "Received by Distributor", distributorAddr)},
	})
	tm.gateway.EXPECT().GetBlockTimestamp(gomock.Any(), uint64(10)).Return(blockTime(10), nil)
	// block 12 holds two events and is looked up once
	tm.gateway.EXPECT().GetBlockTimestamp(gomock.Any(), uint64(12)).Return(blockTime(12), nil)
	tm.gateway.EXPECT().GetBatchInfo(gomock.Any(), "B1").Return(&domain.BatchSnapshot{
		BatchID: "B1", Exists: true,
		Farmer: farmerAddr, Distributor: distributorAddr,
		Retailer: domain.ETHEREUM_ZERO_ADDRESS, Consumer: domain.ETHEREUM_ZERO_ADDRESS,
	}, nil)
	tm.quantity.EXPECT().Query(gomock.Any(), "B1").Return([]domain.QuantityRecord{
		{BatchID: "B1", Role: domain.RoleFarmer, Quantity: 100},
		{BatchID: "B1", Role: domain.RoleDistributor, Quantity: 95},
	}, nil)

	h, err := tm.reconstructor.GetHistory(context.Background(), "B1")
	require.NoError(t, err)
	require.Len(t, h.Events, 3)

	first, second, third := h.Events[0], h.Events[1], h.Events[2]

	assert.Equal(t, domain.RoleFarmer, first.Role)
	assert.Equal(t, "Created (Tomatoes, qty: 100)", first.Action)
	assert.Equal(t, farmerAddr, first.Actor)
	require.NotNil(t, first.Timestamp)
	assert.Equal(t, blockTime(10), *first.Timestamp)

	assert.Equal(t, domain.RoleDistributor, second.Role)
	assert.Equal(t, uint64(95), *second.Quantity)
	assert.Equal(t, "Transferred to Distributor, qty: 95", second.Action)

	assert.Equal(t, domain.EventKindUpdated, third.Kind)
	assert.Equal(t, domain.RoleDistributor, third.Role)
	assert.Equal(t, "Received by Distributor (qty: 95)", third.Action)

	steps := history.CustodySteps(h.Events)
	require.Len(t, steps, 2)
	assert.Equal(t, domain.EventKindCreated, steps[0].Kind)
	assert.Equal(t, domain.EventKindTransferred, steps[1].Kind)
	assert.Len(t, h.Digest, 64)
}

func TestGetHistory_OrdersAndDeduplicates(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	dup := transferred(30, 2, domain.RoleRetailer, "0x3333333333333333333333333333333333333333")
	tm.expectEvents(map[domain.EventKind][]domain.LedgerEvent{
		domain.EventKindCreated:     {created(10, 5, 100)},
		domain.EventKindTransferred: {dup, transferred(20, 0, domain.RoleDistributor, distributorAddr), dup},
		domain.EventKindCompleted: {{
			Kind: domain.EventKindCompleted, BlockNumber: 30, LogIndex: 1, TxHash: "0xdone",
			Args: domain.EventArgs{Consumer: "0x4444444444444444444444444444444444444444"},
		}},
	})
	tm.gateway.EXPECT().GetBlockTimestamp(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, block uint64) (time.Time, error) {
			return blockTime(block), nil
		}).
		Times(3)
	tm.quantity.EXPECT().Query(gomock.Any(), "B1").Return(nil, nil)

	h, err := tm.reconstructor.GetHistory(context.Background(), "B1")
	require.NoError(t, err)
	require.Len(t, h.Events, 4)

	var order []string
	for _, ev := range h.Events {
		order = append(order, fmt.Sprintf("%d/%d", ev.BlockNumber, ev.LogIndex))
	}
	assert.Equal(t, []string{"10/5", "20/0", "30/1", "30/2"}, order)

	// with no quantity records the created event falls back to the ledger quantity
	assert.Equal(t, "Created (Tomatoes, qty: 100)", h.Events[0].Action)
	assert.Equal(t, "Transferred to Distributor", h.Events[1].Action)
	assert.Equal(t, domain.RoleConsumer, h.Events[2].Role)
	assert.Equal(t, "Completed", h.Events[2].Action)
}

func TestGetHistory_Idempotent(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	events := map[domain.EventKind][]domain.LedgerEvent{
		domain.EventKindCreated:     {created(10, 0, 100)},
		domain.EventKindTransferred: {transferred(11, 0, domain.RoleDistributor, distributorAddr)},
	}

	var digests []string
	for i := 0; i < 2; i++ {
		tm.expectEvents(events)
		tm.gateway.EXPECT().GetBlockTimestamp(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, block uint64) (time.Time, error) {
				return blockTime(block), nil
			}).
			Times(2)
		tm.quantity.EXPECT().Query(gomock.Any(), "B1").Return([]domain.QuantityRecord{
			{Role: domain.RoleDistributor, Quantity: 90},
		}, nil)

		h, err := tm.reconstructor.GetHistory(context.Background(), "B1")
		require.NoError(t, err)
		digests = append(digests, h.Digest)
	}
	assert.Equal(t, digests[0], digests[1])
}

func TestGetHistory_PerEventFailures(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.expectEvents(map[domain.EventKind][]domain.LedgerEvent{
		domain.EventKindCreated: {created(10, 0, 100)},
		domain.EventKindUpdated: {updated(11, 0, "Inspected", distributorAddr)},
	})
	tm.gateway.EXPECT().GetBlockTimestamp(gomock.Any(), uint64(10)).Return(time.Time{}, errors.New("header not found"))
	tm.gateway.EXPECT().GetBlockTimestamp(gomock.Any(), uint64(11)).Return(blockTime(11), nil)
	tm.gateway.EXPECT().GetBatchInfo(gomock.Any(), "B1").Return(nil, errors.New("connection refused"))
	tm.quantity.EXPECT().Query(gomock.Any(), "B1").Return(nil, errors.New("database unavailable"))

	h, err := tm.reconstructor.GetHistory(context.Background(), "B1")
	require.NoError(t, err)
	require.Len(t, h.Events, 2)

	assert.Nil(t, h.Events[0].Timestamp)
	assert.NotNil(t, h.Events[1].Timestamp)
	assert.Empty(t, h.Events[1].Role)
	assert.Nil(t, h.Events[1].Quantity)
	assert.Equal(t, "Inspected", h.Events[1].Action)
}

func TestGetHistory_QueryFailure(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.gateway.EXPECT().
		QueryEvents(gomock.Any(), gomock.Any(), "B1", uint64(0)).
		DoAndReturn(func(_ context.Context, kind domain.EventKind, _ string, _ uint64) ([]domain.LedgerEvent, error) {
			if kind == domain.EventKindTransferred {
				return nil, errors.New("dial tcp: connection refused")
			}
			return nil, nil
		}).
		MinTimes(1).
		MaxTimes(len(domain.EventKinds))

	_, err := tm.reconstructor.GetHistory(context.Background(), "B1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transferred")
}

func TestDigest(t *testing.T) {
	json := adapter.NewJSON()

	empty, err := history.Digest(json, nil)
	require.NoError(t, err)
	emptySlice, err := history.Digest(json, []domain.HistoryEvent{})
	require.NoError(t, err)
	assert.Equal(t, empty, emptySlice)

	a, err := history.Digest(json, []domain.HistoryEvent{{Kind: domain.EventKindCreated, Action: "Created (Tomatoes)"}})
	require.NoError(t, err)
	assert.NotEqual(t, empty, a)
}
