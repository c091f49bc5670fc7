package ledger_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/ledger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/mocks"
)

type fakeSubscription struct {
	errCh chan error
}

func (s *fakeSubscription) Unsubscribe() {}

func (s *fakeSubscription) Err() <-chan error { return s.errCh }

func TestSubscriber_ReplaysThenStreams(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockEthClient(ctrl)
	blocks := mocks.NewMockBlockProvider(ctrl)
	clock := mocks.NewMockClock(ctrl)

	contract, err := ledger.LoadABI("")
	require.NoError(t, err)

	sub := ledger.NewSubscriber(client, blocks, contract, ledger.SubscriberConfig{
		ContractAddress: contractAddress,
		ChainID:         big.NewInt(1337),
		LogStepSize:     1000,
	}, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	created := eventLog(t, contract, "BatchCreated", "B1", 10, 0, "Tomatoes", big.NewInt(100), farmerAddress)
	transferred := eventLog(t, contract, "BatchTransferred", "B1", 60, 0, farmerAddress, distributorAddr, "Distributor")

	var logsCh chan<- types.Log
	client.EXPECT().
		SubscribeFilterLogs(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
			assert.Equal(t, contractAddress, q.Addresses[0])
			assert.Len(t, q.Topics[0], 3)
			logsCh = ch
			return &fakeSubscription{errCh: make(chan error)}, nil
		})
	blocks.EXPECT().LatestBlock(ctx).Return(uint64(50), nil)
	client.EXPECT().FilterLogs(ctx, gomock.Any()).Return([]types.Log{created}, nil)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	blocks.EXPECT().BlockTime(ctx, uint64(10)).Return(ts, nil)
	blocks.EXPECT().BlockTime(ctx, uint64(60)).Return(ts.Add(time.Minute), nil)

	var received []*domain.ChainEvent
	handler := func(event *domain.ChainEvent) error {
		received = append(received, event)
		if len(received) == 1 {
			go func() {
				logsCh <- created // duplicate of the replayed log
				logsCh <- transferred
			}()
		}
		if len(received) == 2 {
			cancel()
		}
		return nil
	}

	err = sub.SubscribeEvents(ctx, 5, handler)
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, received, 2)
	assert.Equal(t, domain.EventKindCreated, received[0].Event.Kind)
	assert.Equal(t, "1337", received[0].ChainID)
	assert.Equal(t, ts, received[0].Timestamp)
	assert.Equal(t, domain.EventKindTransferred, received[1].Event.Kind)
}
