package identity

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
)

// Credential is the configured key material for one role.
// PrivateKey wins when both fields are set.
type Credential struct {
	PrivateKey string
	Address    string
}

// Keyring maps custody roles to the identities this process may drive
//
//go:generate mockgen -source=keyring.go -destination=../mocks/keyring.go -package=mocks -mock_names=Keyring=MockKeyring
type Keyring interface {
	// Identity returns the identity configured for role
	Identity(role domain.Role) (*Identity, error)
	// Signer returns the identity for role, failing unless it can sign
	Signer(role domain.Role) (*Identity, error)
	// Roles returns the configured roles in canonical order
	Roles() []domain.Role
}

type keyring struct {
	identities map[domain.Role]*Identity
}

// NewKeyring builds a keyring from per-role credentials
func NewKeyring(credentials map[domain.Role]Credential) (Keyring, error) {
	identities := make(map[domain.Role]*Identity, len(credentials))
	for role, cred := range credentials {
		if !role.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRole, role)
		}

		var (
			id  *Identity
			err error
		)
		switch {
		case cred.PrivateKey != "":
			id, err = FromPrivateKey(role, cred.PrivateKey)
		case cred.Address != "":
			id, err = FromAddress(role, cred.Address)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		identities[role] = id
	}

	return &keyring{identities: identities}, nil
}

// NewKeyringFromIdentities builds a keyring from already constructed identities
func NewKeyringFromIdentities(ids ...*Identity) Keyring {
	identities := make(map[domain.Role]*Identity, len(ids))
	for _, id := range ids {
		identities[id.Role()] = id
	}
	return &keyring{identities: identities}
}

func (k *keyring) Identity(role domain.Role) (*Identity, error) {
	id, ok := k.identities[role]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrIdentityNotConfigured, role)
	}
	return id, nil
}

func (k *keyring) Signer(role domain.Role) (*Identity, error) {
	id, err := k.Identity(role)
	if err != nil {
		return nil, err
	}
	if !id.CanSign() {
		return nil, fmt.Errorf("%w: %s has no signing key", domain.ErrIdentityNotConfigured, role)
	}
	return id, nil
}

func (k *keyring) Roles() []domain.Role {
	var roles []domain.Role
	for _, r := range domain.Roles {
		if _, ok := k.identities[r]; ok {
			roles = append(roles, r)
		}
	}
	return roles
}

// Addresses returns the configured address of every role in the keyring
func Addresses(k Keyring) map[domain.Role]common.Address {
	out := make(map[domain.Role]common.Address)
	for _, r := range k.Roles() {
		if id, err := k.Identity(r); err == nil {
			out[r] = id.Address()
		}
	}
	return out
}
