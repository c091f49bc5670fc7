package jetstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/messaging"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/mocks"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/providers/jetstream"
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

type testPublisherMocks struct {
	ctrl   *gomock.Controller
	natsJS *mocks.MockNatsJetStream
	conn   *mocks.MockNatsConn
	js     *mocks.MockJetStream
	clock  *mocks.MockClock
}

func setupTest(t *testing.T) *testPublisherMocks {
	ctrl := gomock.NewController(t)
	return &testPublisherMocks{
		ctrl:   ctrl,
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		conn:   mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
		clock:  mocks.NewMockClock(ctrl),
	}
}

func tearDownTest(mocks *testPublisherMocks) {
	mocks.ctrl.Finish()
}

var testConfig = jetstream.Config{
	URL:            "nats://localhost:4222",
	StreamName:     "SUPPLY_CHAIN_EVENTS",
	MaxReconnects:  3,
	ReconnectWait:  time.Second,
	ConnectionName: "test",
}

func (m *testPublisherMocks) connect(t *testing.T) messaging.Publisher {
	m.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(m.conn, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, cfg natsjs.StreamConfig) error {
			assert.Equal(t, testConfig.StreamName, cfg.Name)
			assert.Equal(t, []string{"supplychain.events.>"}, cfg.Subjects)
			assert.Equal(t, 2*time.Minute, cfg.Duplicates)
			return nil
		})

	pub, err := jetstream.NewPublisher(context.Background(), testConfig, m.natsJS, adapter.NewJSON(), m.clock)
	require.NoError(t, err)
	return pub
}

func TestNewPublisher_Errors(t *testing.T) {
	t.Run("connect fails", func(t *testing.T) {
		mocks := setupTest(t)
		defer tearDownTest(mocks)

		mocks.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(nil, nil, errors.New("no servers"))

		pub, err := jetstream.NewPublisher(context.Background(), testConfig, mocks.natsJS, adapter.NewJSON(), mocks.clock)
		assert.Nil(t, pub)
		assert.ErrorContains(t, err, "failed to connect to NATS")
	})

	t.Run("stream setup fails", func(t *testing.T) {
		mocks := setupTest(t)
		defer tearDownTest(mocks)

		mocks.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(mocks.conn, mocks.js, nil)
		mocks.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(errors.New("not authorized"))
		mocks.conn.EXPECT().Close()

		pub, err := jetstream.NewPublisher(context.Background(), testConfig, mocks.natsJS, adapter.NewJSON(), mocks.clock)
		assert.Nil(t, pub)
		assert.ErrorContains(t, err, "failed to ensure stream SUPPLY_CHAIN_EVENTS")
	})
}

func TestPublishEvent(t *testing.T) {
	mocks := setupTest(t)
	defer tearDownTest(mocks)

	pub := mocks.connect(t)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mocks.clock.EXPECT().Now().Return(now)

	event := &domain.ChainEvent{
		ChainID:         "1337",
		ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		Event: domain.LedgerEvent{
			Kind:        domain.EventKindTransferred,
			BatchIDHash: "0xabc",
			BlockNumber: 7,
			LogIndex:    2,
			TxHash:      "0xfeed",
			Args:        domain.EventArgs{From: "0x1", To: "0x2", Role: "Distributor"},
		},
		Timestamp: now,
	}

	mocks.js.EXPECT().Publish(gomock.Any(), "supplychain.events.transferred", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, subject string, data []byte, opts ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
			assert.Len(t, opts, 1)

			var envelope jetstream.Envelope
			require.NoError(t, json.Unmarshal(data, &envelope))
			id, err := ulid.Parse(envelope.ID)
			require.NoError(t, err)
			assert.Equal(t, uint64(now.UnixMilli()), id.Time())
			assert.Equal(t, "0xfeed", envelope.Event.Event.TxHash)
			assert.Equal(t, "Distributor", envelope.Event.Event.Args.Role)
			return &natsjs.PubAck{Stream: testConfig.StreamName, Sequence: 1}, nil
		})

	require.NoError(t, pub.PublishEvent(context.Background(), event))
}

func TestPublishEvent_Error(t *testing.T) {
	mocks := setupTest(t)
	defer tearDownTest(mocks)

	pub := mocks.connect(t)
	mocks.clock.EXPECT().Now().Return(time.Now())
	mocks.js.EXPECT().Publish(gomock.Any(), "supplychain.events.completed", gomock.Any(), gomock.Any()).
		Return(nil, errors.New("timeout"))

	err := pub.PublishEvent(context.Background(), &domain.ChainEvent{
		Event: domain.LedgerEvent{Kind: domain.EventKindCompleted, TxHash: "0x1"},
	})
	assert.ErrorContains(t, err, "failed to publish event")
}

func TestClose(t *testing.T) {
	mocks := setupTest(t)
	defer tearDownTest(mocks)

	pub := mocks.connect(t)
	mocks.conn.EXPECT().Close()

	select {
	case <-pub.CloseChan():
		t.Fatal("publisher closed before Close")
	default:
	}

	pub.Close()
	_, open := <-pub.CloseChan()
	assert.False(t, open)
}

func TestBuildSubject(t *testing.T) {
	assert.Equal(t, "supplychain.events.created", jetstream.BuildSubject(domain.EventKindCreated))
	assert.Equal(t, "supplychain.events.updated", jetstream.BuildSubject(domain.EventKindUpdated))
}
