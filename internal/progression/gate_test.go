package progression_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/mocks"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/progression"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/store/schema"
)

const zero = domain.ETHEREUM_ZERO_ADDRESS

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

type testGateMocks struct {
	ctrl  *gomock.Controller
	clock *mocks.MockClock
	gate  progression.Gate
}

func setupTest(t *testing.T) *testGateMocks {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)).AnyTimes()

	return &testGateMocks{
		ctrl:  ctrl,
		clock: clock,
		gate:  progression.NewGate(progression.NewMemoryStore(), clock),
	}
}

func tearDownTest(tm *testGateMocks) {
	tm.ctrl.Finish()
}

func TestGate_Progression(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()

	next, ok, err := tm.gate.NextEligibleRole(ctx, "B1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleFarmer, next)

	for i, role := range domain.Roles {
		can, err := tm.gate.CanAct(ctx, "B1", role)
		require.NoError(t, err)
		assert.True(t, can, role)

		for _, later := range domain.Roles[i+1:] {
			can, err := tm.gate.CanAct(ctx, "B1", later)
			require.NoError(t, err)
			assert.False(t, can, later)
		}

		require.NoError(t, tm.gate.MarkCompleted(ctx, "B1", role))
	}

	_, ok, err = tm.gate.NextEligibleRole(ctx, "B1")
	require.NoError(t, err)
	assert.False(t, ok)

	completed, err := tm.gate.Completed(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, domain.Roles, completed)

	// batches are independent
	next, _, err = tm.gate.NextEligibleRole(ctx, "B2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFarmer, next)
}

func TestGate_MarkCompleted(t *testing.T) {
	tests := []struct {
		name    string
		before  []domain.Role
		mark    domain.Role
		wantErr error
	}{
		{"first role", nil, domain.RoleFarmer, nil},
		{"idempotent", []domain.Role{domain.RoleFarmer}, domain.RoleFarmer, nil},
		{"skipping a role", []domain.Role{domain.RoleFarmer}, domain.RoleRetailer, domain.ErrRoleOutOfOrder},
		{"nothing completed", nil, domain.RoleConsumer, domain.ErrRoleOutOfOrder},
		{"unknown role", nil, domain.Role("Broker"), domain.ErrUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTest(t)
			defer tearDownTest(tm)

			ctx := context.Background()
			for _, r := range tt.before {
				require.NoError(t, tm.gate.MarkCompleted(ctx, "B1", r))
			}

			err := tm.gate.MarkCompleted(ctx, "B1", tt.mark)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				completed, err := tm.gate.Completed(ctx, "B1")
				require.NoError(t, err)
				assert.Equal(t, len(tt.before), len(completed))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGate_Seed(t *testing.T) {
	farmer := "0x1111111111111111111111111111111111111111"
	distributor := "0x2222222222222222222222222222222222222222"
	retailer := "0x3333333333333333333333333333333333333333"
	consumer := "0x4444444444444444444444444444444444444444"

	tests := []struct {
		name     string
		snapshot *domain.BatchSnapshot
		want     []domain.Role
	}{
		{
			name:     "nil snapshot",
			snapshot: nil,
			want:     nil,
		},
		{
			name:     "missing batch",
			snapshot: &domain.BatchSnapshot{BatchID: "B1"},
			want:     nil,
		},
		{
			name: "created only",
			snapshot: &domain.BatchSnapshot{BatchID: "B1", Exists: true,
				Farmer: farmer, Distributor: zero, Retailer: zero, Consumer: zero},
			want: []domain.Role{domain.RoleFarmer},
		},
		{
			name: "assigned through retailer",
			snapshot: &domain.BatchSnapshot{BatchID: "B1", Exists: true,
				Farmer: farmer, Distributor: distributor, Retailer: retailer, Consumer: zero},
			want: []domain.Role{domain.RoleFarmer, domain.RoleDistributor, domain.RoleRetailer},
		},
		{
			name: "consumer slot alone does not complete consumer",
			snapshot: &domain.BatchSnapshot{BatchID: "B1", Exists: true,
				Farmer: farmer, Distributor: distributor, Retailer: retailer, Consumer: consumer},
			want: []domain.Role{domain.RoleFarmer, domain.RoleDistributor, domain.RoleRetailer},
		},
		{
			name: "stops at the first gap",
			snapshot: &domain.BatchSnapshot{BatchID: "B1", Exists: true,
				Farmer: farmer, Distributor: zero, Retailer: retailer, Consumer: zero},
			want: []domain.Role{domain.RoleFarmer},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTest(t)
			defer tearDownTest(tm)

			ctx := context.Background()
			require.NoError(t, tm.gate.Seed(ctx, tt.snapshot))
			// seeding twice changes nothing
			require.NoError(t, tm.gate.Seed(ctx, tt.snapshot))

			completed, err := tm.gate.Completed(ctx, "B1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, completed)
		})
	}
}

func TestGate_StoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockCompletionStore(ctrl)
	clock := mocks.NewMockClock(ctrl)
	gate := progression.NewGate(st, clock)
	ctx := context.Background()

	storeErr := errors.New("connection refused")

	st.EXPECT().Completed(ctx, "B1").Return(nil, storeErr)
	_, _, err := gate.NextEligibleRole(ctx, "B1")
	assert.ErrorIs(t, err, storeErr)

	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	st.EXPECT().Completed(ctx, "B1").Return(nil, nil)
	clock.EXPECT().Now().Return(at)
	st.EXPECT().MarkCompleted(ctx, "B1", domain.RoleFarmer, at).Return(storeErr)
	err = gate.MarkCompleted(ctx, "B1", domain.RoleFarmer)
	assert.ErrorIs(t, err, storeErr)
}

func TestPGStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	completions := progression.NewPGStore(st)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	st.EXPECT().MarkRoleCompleted(ctx, "B1", "Distributor", at).Return(nil)
	require.NoError(t, completions.MarkCompleted(ctx, "B1", domain.RoleDistributor, at))

	st.EXPECT().GetRoleCompletions(ctx, "B1").Return([]schema.RoleCompletion{
		{BatchID: "B1", Role: "Farmer", CompletedAt: at},
		{BatchID: "B1", Role: "Distributor", CompletedAt: at},
	}, nil)
	roles, err := completions.Completed(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{domain.RoleFarmer, domain.RoleDistributor}, roles)
}
