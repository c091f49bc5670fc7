package domain

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// BatchSnapshot is the ledger's current record of a batch
type BatchSnapshot struct {
	BatchID     string    `json:"batchId"`
	Product     string    `json:"product"`
	Quantity    uint64    `json:"quantity"`
	Farmer      string    `json:"farmer"`
	Distributor string    `json:"distributor"`
	Retailer    string    `json:"retailer"`
	Consumer    string    `json:"consumer"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Status      string    `json:"status"`
	Exists      bool      `json:"exists"`
}

// Custodian returns the address recorded in the custody slot of role
func (b *BatchSnapshot) Custodian(role Role) string {
	switch role {
	case RoleFarmer:
		return b.Farmer
	case RoleDistributor:
		return b.Distributor
	case RoleRetailer:
		return b.Retailer
	case RoleConsumer:
		return b.Consumer
	default:
		return ""
	}
}

// IsAssigned reports whether the custody slot of role holds a non-zero address
func (b *BatchSnapshot) IsAssigned(role Role) bool {
	return !IsZeroAddress(b.Custodian(role))
}

// RoleOf returns the custody role whose slot holds address
func (b *BatchSnapshot) RoleOf(address string) (Role, bool) {
	if IsZeroAddress(address) {
		return "", false
	}
	for _, r := range Roles {
		if SameAddress(b.Custodian(r), address) {
			return r, true
		}
	}
	return "", false
}

// JourneyStage is one step of the custody chain as seen from a snapshot
type JourneyStage struct {
	Role      Role   `json:"role"`
	Address   string `json:"address,omitempty"`
	Completed bool   `json:"completed"`
	// Status is the contract's status text for the stage once its slot is filled
	Status string `json:"status,omitempty"`
}

// Journey derives the per-role stage list of a batch
func (b *BatchSnapshot) Journey() []JourneyStage {
	stages := make([]JourneyStage, 0, len(Roles))
	for _, r := range Roles {
		stage := JourneyStage{Role: r}
		if b.IsAssigned(r) {
			stage.Address = b.Custodian(r)
			stage.Completed = true
			stage.Status = r.CustodyStatus()
		}
		stages = append(stages, stage)
	}
	return stages
}

// IsZeroAddress reports whether address is empty or the zero address
func IsZeroAddress(address string) bool {
	if address == "" {
		return true
	}
	if !common.IsHexAddress(address) {
		return false
	}
	return common.HexToAddress(address) == (common.Address{})
}

// SameAddress compares two hex addresses case-insensitively
func SameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// NormalizeAddress returns the checksummed form of a hex address
func NormalizeAddress(address string) string {
	if !common.IsHexAddress(address) {
		return address
	}
	return common.HexToAddress(address).Hex()
}
