package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Role
		wantErr  bool
	}{
		{name: "exact case", input: "Farmer", expected: RoleFarmer},
		{name: "lower case", input: "distributor", expected: RoleDistributor},
		{name: "padded", input: "  RETAILER ", expected: RoleRetailer},
		{name: "consumer", input: "Consumer", expected: RoleConsumer},
		{name: "unknown", input: "wholesaler", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := ParseRole(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownRole))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, role)
		})
	}
}

func TestRoleOrder(t *testing.T) {
	next, ok := RoleFarmer.Next()
	assert.True(t, ok)
	assert.Equal(t, RoleDistributor, next)

	_, ok = RoleConsumer.Next()
	assert.False(t, ok)

	prev, ok := RoleRetailer.Previous()
	assert.True(t, ok)
	assert.Equal(t, RoleDistributor, prev)

	_, ok = RoleFarmer.Previous()
	assert.False(t, ok)

	assert.Equal(t, -1, Role("Broker").Index())
	assert.False(t, Role("Broker").Valid())
}

func TestRolePrerequisiteRoles(t *testing.T) {
	assert.Empty(t, RoleFarmer.PrerequisiteRoles())
	assert.Equal(t, []Role{RoleDistributor}, RoleDistributor.PrerequisiteRoles())
	assert.Equal(t, []Role{RoleDistributor, RoleRetailer}, RoleRetailer.PrerequisiteRoles())
	assert.Equal(t, []Role{RoleDistributor, RoleRetailer, RoleConsumer}, RoleConsumer.PrerequisiteRoles())
	assert.Equal(t, "Received by Distributor", RoleDistributor.ReceivedStatus())
}

func TestBatchSnapshot(t *testing.T) {
	farmer := "0x1111111111111111111111111111111111111111"
	distributor := "0x2222222222222222222222222222222222222222"

	snapshot := BatchSnapshot{
		BatchID:     "B1",
		Farmer:      farmer,
		Distributor: distributor,
		Retailer:    ETHEREUM_ZERO_ADDRESS,
		Consumer:    "",
		Exists:      true,
	}

	assert.True(t, snapshot.IsAssigned(RoleFarmer))
	assert.True(t, snapshot.IsAssigned(RoleDistributor))
	assert.False(t, snapshot.IsAssigned(RoleRetailer))
	assert.False(t, snapshot.IsAssigned(RoleConsumer))

	role, ok := snapshot.RoleOf("0x2222222222222222222222222222222222222222")
	assert.True(t, ok)
	assert.Equal(t, RoleDistributor, role)

	_, ok = snapshot.RoleOf(ETHEREUM_ZERO_ADDRESS)
	assert.False(t, ok)

	journey := snapshot.Journey()
	require.Len(t, journey, 4)
	assert.True(t, journey[0].Completed)
	assert.Equal(t, distributor, journey[1].Address)
	assert.Equal(t, STATUS_TRANSFERRED_TO_DISTRIBUTOR, journey[1].Status)
	assert.False(t, journey[2].Completed)
	assert.Empty(t, journey[2].Status)
	assert.Empty(t, journey[3].Address)
}

func TestRoleCustodyStatus(t *testing.T) {
	assert.Equal(t, STATUS_CREATED_BY_FARMER, RoleFarmer.CustodyStatus())
	assert.Equal(t, STATUS_TRANSFERRED_TO_DISTRIBUTOR, RoleDistributor.CustodyStatus())
	assert.Equal(t, STATUS_TRANSFERRED_TO_RETAILER, RoleRetailer.CustodyStatus())
	assert.Equal(t, STATUS_SOLD_TO_CONSUMER, RoleConsumer.CustodyStatus())
	assert.Empty(t, Role("Auditor").CustodyStatus())
}

func TestAddressHelpers(t *testing.T) {
	assert.True(t, IsZeroAddress(""))
	assert.True(t, IsZeroAddress(ETHEREUM_ZERO_ADDRESS))
	assert.False(t, IsZeroAddress("0xabc"))
	assert.True(t, SameAddress("0xABCDEF", "0xabcdef"))
	assert.Equal(t,
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		NormalizeAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
}

func TestHopErrorMessage(t *testing.T) {
	err := &HopError{Kind: ErrorKindTransactionFailed, Message: "write failed", Detail: "execution reverted"}
	assert.Equal(t, "TransactionFailed: write failed (execution reverted)", err.Error())

	err = &HopError{Kind: ErrorKindBatchNotFound, Message: "missing"}
	assert.Equal(t, "BatchNotFound: missing", err.Error())
}

func TestEventKindCustodyStep(t *testing.T) {
	assert.True(t, EventKindCreated.IsCustodyStep())
	assert.True(t, EventKindTransferred.IsCustodyStep())
	assert.True(t, EventKindCompleted.IsCustodyStep())
	assert.False(t, EventKindUpdated.IsCustodyStep())

	e := LedgerEvent{TxHash: "0xabc", LogIndex: 3}
	assert.Equal(t, "0xabc:3", e.Key())
}
