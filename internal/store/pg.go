package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Open connects to the primary database and, when readDSN is set, routes reads to that replica
func Open(dsn, readDSN string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}

	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if readDSN == "" {
		return db, nil
	}

	err = db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{postgres.Open(readDSN)},
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to register read replica: %w", err)
	}
	logger.Info("Registered read replica")

	return db, nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero values fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// CreateQuantityRecord appends a quantity record
func (s *pgStore) CreateQuantityRecord(ctx context.Context, input CreateQuantityRecordInput) (*schema.QuantityRecord, error) {
	record := schema.QuantityRecord{
		BatchID:        input.BatchID,
		Role:           input.Role,
		Quantity:       input.Quantity,
		TransactionRef: input.TransactionRef,
		RecordedAt:     input.RecordedAt,
		Metadata:       input.Metadata,
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create quantity record: %w", err)
	}

	logger.DebugCtx(ctx, "Created quantity record",
		zap.String("batch_id", record.BatchID),
		zap.String("role", record.Role),
		zap.Uint64("quantity", record.Quantity),
		zap.Uint64("id", record.ID))

	return &record, nil
}

// GetQuantityRecords lists the quantity records of a batch ordered by recorded_at ascending
func (s *pgStore) GetQuantityRecords(ctx context.Context, batchID string) ([]schema.QuantityRecord, error) {
	query := func(db *gorm.DB) ([]schema.QuantityRecord, error) {
		var records []schema.QuantityRecord
		err := db.WithContext(ctx).
			Where("batch_id = ?", batchID).
			Order("recorded_at ASC, id ASC").
			Find(&records).Error
		return records, err
	}

	records, err := query(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get quantity records for batch %s: %w", batchID, err)
	}
	if len(records) > 0 || !hasDBResolver(s.db) {
		return records, nil
	}

	// Replica can lag behind primary; a hop reads its own record right after writing it.
	records, err = query(s.db.Clauses(dbresolver.Write))
	if err != nil {
		return nil, fmt.Errorf("failed to get quantity records for batch %s: %w", batchID, err)
	}
	return records, nil
}

// MarkRoleCompleted stores a role completion
func (s *pgStore) MarkRoleCompleted(ctx context.Context, batchID, role string, at time.Time) error {
	completion := schema.RoleCompletion{
		BatchID:     batchID,
		Role:        role,
		CompletedAt: at,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&completion).Error
	if err != nil {
		return fmt.Errorf("failed to mark role %s completed for batch %s: %w", role, batchID, err)
	}
	return nil
}

// GetRoleCompletions lists the completed roles of a batch
func (s *pgStore) GetRoleCompletions(ctx context.Context, batchID string) ([]schema.RoleCompletion, error) {
	var completions []schema.RoleCompletion

	query := func(db *gorm.DB) error {
		return db.WithContext(ctx).
			Where("batch_id = ?", batchID).
			Order("completed_at ASC").
			Find(&completions).Error
	}

	if err := query(s.db); err != nil {
		return nil, fmt.Errorf("failed to get role completions for batch %s: %w", batchID, err)
	}
	if len(completions) > 0 || !hasDBResolver(s.db) {
		return completions, nil
	}

	if err := query(s.db.Clauses(dbresolver.Write)); err != nil {
		return nil, fmt.Errorf("failed to get role completions for batch %s: %w", batchID, err)
	}
	return completions, nil
}

// Ping checks the database connection
func (s *pgStore) Ping(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
