package domain

import "errors"

var (
	// ErrBatchNotFound is returned when the ledger has no record of a batch id
	ErrBatchNotFound = errors.New("batch does not exist")

	// ErrBatchAlreadyExists is returned when a batch id is already taken on the ledger
	ErrBatchAlreadyExists = errors.New("batch already exists")

	// ErrInvalidQuantity is returned when a declared quantity is zero
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")

	// ErrUnknownRole is returned when a role name does not match any custody role
	ErrUnknownRole = errors.New("unknown role")

	// ErrRoleOutOfOrder is returned when a role is marked completed before its predecessors
	ErrRoleOutOfOrder = errors.New("role completed out of order")

	// ErrRoleNotEligible is returned when a role tries to act while another role is next
	ErrRoleNotEligible = errors.New("role is not eligible to act")

	// ErrIdentityNotConfigured is returned when no signing identity exists for a role
	ErrIdentityNotConfigured = errors.New("identity not configured")

	// ErrEventKindUnsupported is returned when the deployed contract does not emit an event kind
	ErrEventKindUnsupported = errors.New("event kind not supported by contract")

	// ErrTransactionReverted is returned when a mined transaction has a failed receipt
	ErrTransactionReverted = errors.New("transaction reverted")
)
