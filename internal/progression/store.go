package progression

import (
	"context"
	"sync"
	"time"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/store"
)

// Store persists the completed roles of each batch
//
//go:generate mockgen -source=store.go -destination=../mocks/completion_store.go -package=mocks -mock_names=Store=MockCompletionStore
type Store interface {
	// MarkCompleted stores a completion; storing it twice is a no-op
	MarkCompleted(ctx context.Context, batchID string, role domain.Role, at time.Time) error
	// Completed lists the completed roles of a batch in any order
	Completed(ctx context.Context, batchID string) ([]domain.Role, error)
}

type memoryStore struct {
	mu        sync.RWMutex
	completed map[string]map[domain.Role]time.Time
}

// NewMemoryStore creates a process-local completion store
func NewMemoryStore() Store {
	return &memoryStore{completed: make(map[string]map[domain.Role]time.Time)}
}

func (s *memoryStore) MarkCompleted(_ context.Context, batchID string, role domain.Role, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, ok := s.completed[batchID]
	if !ok {
		roles = make(map[domain.Role]time.Time)
		s.completed[batchID] = roles
	}
	if _, done := roles[role]; !done {
		roles[role] = at
	}
	return nil
}

func (s *memoryStore) Completed(_ context.Context, batchID string) ([]domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Role
	for role := range s.completed[batchID] {
		out = append(out, role)
	}
	return out, nil
}

type pgStore struct {
	store store.Store
}

// NewPGStore creates a completion store backed by the database
func NewPGStore(st store.Store) Store {
	return &pgStore{store: st}
}

func (s *pgStore) MarkCompleted(ctx context.Context, batchID string, role domain.Role, at time.Time) error {
	return s.store.MarkRoleCompleted(ctx, batchID, string(role), at)
}

func (s *pgStore) Completed(ctx context.Context, batchID string) ([]domain.Role, error) {
	rows, err := s.store.GetRoleCompletions(ctx, batchID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Role, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Role(row.Role))
	}
	return out, nil
}
