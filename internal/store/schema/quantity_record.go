package schema

import (
	"time"

	"gorm.io/datatypes"
)

// QuantityRecord represents the quantity_records table - append-only declared quantities per batch and role
type QuantityRecord struct {
	// ID is an auto-incrementing sequence number, used as a tie-breaker for equal recorded_at values
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// BatchID is the ledger batch identifier
	BatchID string `gorm:"column:batch_id;not null;type:varchar(255);index:idx_quantity_records_batch"`
	// Role is the custody role that declared the quantity (Farmer, Distributor, Retailer, Consumer)
	Role string `gorm:"column:role;not null;type:varchar(32)"`
	// Quantity is the declared quantity
	Quantity uint64 `gorm:"column:quantity;not null;type:bigint"`
	// TransactionRef is the confirmed ledger transaction the quantity belongs to
	TransactionRef string `gorm:"column:transaction_ref;not null;type:varchar(66)"`
	// RecordedAt is the wall clock time of the declaration
	RecordedAt time.Time `gorm:"column:recorded_at;not null;type:timestamptz"`
	// Metadata holds hop context (status text, prerequisite refs)
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the QuantityRecord model
func (QuantityRecord) TableName() string {
	return "quantity_records"
}
