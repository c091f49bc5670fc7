package identity

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
)

// Identity is the ledger account a custody role acts as.
// An identity without a key can be targeted by custody assignments but cannot sign.
type Identity struct {
	role    domain.Role
	address common.Address
	key     *ecdsa.PrivateKey
}

// FromPrivateKey builds a signing identity from a hex encoded secp256k1 key
func FromPrivateKey(role domain.Role, hexKey string) (*Identity, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key for %s: %w", role, err)
	}

	return &Identity{
		role:    role,
		address: crypto.PubkeyToAddress(key.PublicKey),
		key:     key,
	}, nil
}

// FromAddress builds a watch-only identity
func FromAddress(role domain.Role, address string) (*Identity, error) {
	if !common.IsHexAddress(address) || domain.IsZeroAddress(address) {
		return nil, fmt.Errorf("invalid address for %s: %q", role, address)
	}

	return &Identity{
		role:    role,
		address: common.HexToAddress(address),
	}, nil
}

// Role returns the custody role this identity acts as
func (i *Identity) Role() domain.Role {
	return i.role
}

// Address returns the ledger account address
func (i *Identity) Address() common.Address {
	return i.address
}

// CanSign reports whether the identity holds a private key
func (i *Identity) CanSign() bool {
	return i.key != nil
}

// Sign signs tx for the given chain id
func (i *Identity) Sign(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if i.key == nil {
		return nil, fmt.Errorf("%w: %s has no signing key", domain.ErrIdentityNotConfigured, i.role)
	}
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), i.key)
}
