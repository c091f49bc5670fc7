package orchestrator

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/ledger"
)

// nonceSequencer hands out nonces for the writes of one hop. The first write of a signer
// reads the pending nonce from the ledger; later writes of that signer count up from it.
type nonceSequencer struct {
	gateway ledger.Gateway
	next    map[common.Address]uint64
}

func newNonceSequencer(gateway ledger.Gateway) *nonceSequencer {
	return &nonceSequencer{
		gateway: gateway,
		next:    make(map[common.Address]uint64),
	}
}

func (s *nonceSequencer) Next(ctx context.Context, signer common.Address) (uint64, error) {
	if n, ok := s.next[signer]; ok {
		s.next[signer] = n + 1
		return n, nil
	}

	n, err := s.gateway.CurrentNonce(ctx, signer)
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce for %s: %w", signer.Hex(), err)
	}
	s.next[signer] = n + 1
	return n, nil
}
