package domain

import (
	"fmt"
	"strings"
)

// Role is a custody role in the supply chain
type Role string

const (
	RoleFarmer      Role = "Farmer"
	RoleDistributor Role = "Distributor"
	RoleRetailer    Role = "Retailer"
	RoleConsumer    Role = "Consumer"
)

// Roles lists every custody role in canonical order
var Roles = []Role{RoleFarmer, RoleDistributor, RoleRetailer, RoleConsumer}

// ParseRole converts a case-insensitive role name into a Role
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Valid reports whether r is one of the four custody roles
func (r Role) Valid() bool {
	return r.Index() >= 0
}

// Index returns the position of r in the canonical order, or -1
func (r Role) Index() int {
	for i, role := range Roles {
		if role == r {
			return i
		}
	}
	return -1
}

// Previous returns the role that hands custody to r
func (r Role) Previous() (Role, bool) {
	i := r.Index()
	if i <= 0 {
		return "", false
	}
	return Roles[i-1], true
}

// Next returns the role that receives custody from r
func (r Role) Next() (Role, bool) {
	i := r.Index()
	if i < 0 || i >= len(Roles)-1 {
		return "", false
	}
	return Roles[i+1], true
}

// Lower returns the lowercase role name used in config keys and metric labels
func (r Role) Lower() string {
	return strings.ToLower(string(r))
}

// ReceivedStatus is the status text a role writes when it takes custody
func (r Role) ReceivedStatus() string {
	return "Received by " + string(r)
}

// CustodyStatus returns the status text the contract records when r's custody slot is filled
func (r Role) CustodyStatus() string {
	switch r {
	case RoleFarmer:
		return STATUS_CREATED_BY_FARMER
	case RoleDistributor:
		return STATUS_TRANSFERRED_TO_DISTRIBUTOR
	case RoleRetailer:
		return STATUS_TRANSFERRED_TO_RETAILER
	case RoleConsumer:
		return STATUS_SOLD_TO_CONSUMER
	default:
		return ""
	}
}

// PrerequisiteRoles returns the downstream custody slots that must be
// assigned before r can write to a batch.
// Farmer needs none; every later role needs all slots up to and including its own.
func (r Role) PrerequisiteRoles() []Role {
	i := r.Index()
	if i <= 0 {
		return nil
	}
	return append([]Role(nil), Roles[1:i+1]...)
}
