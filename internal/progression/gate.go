// Package progression tracks which custody roles have completed their step for a batch
// and which role may act next.
package progression

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/adapter"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
)

// Gate enforces the canonical role order Farmer, Distributor, Retailer, Consumer
//
//go:generate mockgen -source=gate.go -destination=../mocks/gate.go -package=mocks -mock_names=Gate=MockGate
type Gate interface {
	// MarkCompleted records that role finished its step. Marking twice is a no-op;
	// marking before every earlier role is complete fails with domain.ErrRoleOutOfOrder.
	MarkCompleted(ctx context.Context, batchID string, role domain.Role) error
	// NextEligibleRole returns the first role not yet completed; false once all are
	NextEligibleRole(ctx context.Context, batchID string) (domain.Role, bool, error)
	// CanAct reports whether role is the next eligible role
	CanAct(ctx context.Context, batchID string, role domain.Role) (bool, error)
	// Completed lists the completed roles in canonical order
	Completed(ctx context.Context, batchID string) ([]domain.Role, error)
	// Seed marks the roles a ledger snapshot shows as done: the farmer, then every assigned slot up to the retailer
	Seed(ctx context.Context, snapshot *domain.BatchSnapshot) error
}

type gate struct {
	store Store
	clock adapter.Clock
	// mu serializes check-then-mark per process
	mu sync.Mutex
}

// NewGate creates a role progression gate
func NewGate(st Store, clock adapter.Clock) Gate {
	return &gate{store: st, clock: clock}
}

func (g *gate) completedSet(ctx context.Context, batchID string) (map[domain.Role]bool, error) {
	roles, err := g.store.Completed(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed roles: %w", err)
	}

	set := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return set, nil
}

func (g *gate) MarkCompleted(ctx context.Context, batchID string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownRole, role)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	done, err := g.completedSet(ctx, batchID)
	if err != nil {
		return err
	}
	return g.mark(ctx, batchID, role, done)
}

func (g *gate) mark(ctx context.Context, batchID string, role domain.Role, done map[domain.Role]bool) error {
	if done[role] {
		return nil
	}

	for _, earlier := range domain.Roles[:role.Index()] {
		if !done[earlier] {
			return fmt.Errorf("%w: %s before %s", domain.ErrRoleOutOfOrder, role, earlier)
		}
	}

	if err := g.store.MarkCompleted(ctx, batchID, role, g.clock.Now()); err != nil {
		return fmt.Errorf("failed to mark %s completed: %w", role, err)
	}
	done[role] = true

	logger.InfoCtx(ctx, "Role completed",
		zap.String("batch_id", batchID),
		zap.String("role", string(role)))
	return nil
}

func (g *gate) NextEligibleRole(ctx context.Context, batchID string) (domain.Role, bool, error) {
	done, err := g.completedSet(ctx, batchID)
	if err != nil {
		return "", false, err
	}

	for _, r := range domain.Roles {
		if !done[r] {
			return r, true, nil
		}
	}
	return "", false, nil
}

func (g *gate) CanAct(ctx context.Context, batchID string, role domain.Role) (bool, error) {
	next, ok, err := g.NextEligibleRole(ctx, batchID)
	if err != nil {
		return false, err
	}
	return ok && next == role, nil
}

func (g *gate) Completed(ctx context.Context, batchID string) ([]domain.Role, error) {
	done, err := g.completedSet(ctx, batchID)
	if err != nil {
		return nil, err
	}

	var out []domain.Role
	for _, r := range domain.Roles {
		if done[r] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (g *gate) Seed(ctx context.Context, snapshot *domain.BatchSnapshot) error {
	if snapshot == nil || !snapshot.Exists {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	done, err := g.completedSet(ctx, snapshot.BatchID)
	if err != nil {
		return err
	}

	for _, r := range domain.Roles {
		// the consumer slot is filled by the retailer's auto-advance, so only a Consumer hop completes it
		if r == domain.RoleConsumer {
			break
		}
		if r != domain.RoleFarmer && !snapshot.IsAssigned(r) {
			break
		}
		if err := g.mark(ctx, snapshot.BatchID, r, done); err != nil {
			return err
		}
	}
	return nil
}
