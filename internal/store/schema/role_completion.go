package schema

import "time"

// RoleCompletion represents the role_completions table - one row per completed role of a batch
type RoleCompletion struct {
	BatchID     string    `gorm:"column:batch_id;primaryKey;type:varchar(255)"`
	Role        string    `gorm:"column:role;primaryKey;type:varchar(32)"`
	CompletedAt time.Time `gorm:"column:completed_at;not null;type:timestamptz"`
}

// TableName specifies the table name for the RoleCompletion model
func (RoleCompletion) TableName() string {
	return "role_completions"
}
