package domain

import (
	"fmt"
	"time"
)

// ErrorKind classifies a failed ledger interaction
type ErrorKind string

const (
	ErrorKindBatchNotFound         ErrorKind = "BatchNotFound"
	ErrorKindAuthorizationRejected ErrorKind = "AuthorizationRejected"
	ErrorKindInsufficientFunds     ErrorKind = "InsufficientFunds"
	ErrorKindNetworkUnavailable    ErrorKind = "NetworkUnavailable"
	ErrorKindTransactionCancelled  ErrorKind = "TransactionCancelled"
	ErrorKindTransactionFailed     ErrorKind = "TransactionFailed"
	ErrorKindEstimationFailed      ErrorKind = "EstimationFailed"
	ErrorKindInvalidRequest        ErrorKind = "InvalidRequest"
	ErrorKindStorageUnavailable    ErrorKind = "StorageUnavailable"
)

// HopError describes why a hop, or one write inside it, did not succeed
type HopError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Role    Role      `json:"role,omitempty"`
	Action  string    `json:"action,omitempty"`
}

func (e *HopError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// HopPayload carries the caller's declaration for a hop
type HopPayload struct {
	Quantity uint64 `json:"quantity"`
	Status   string `json:"status,omitempty"`
}

// HopResult is the outcome of a hop, including any secondary writes
type HopResult struct {
	Success          bool       `json:"success"`
	BatchID          string     `json:"batchId"`
	Role             Role       `json:"role"`
	TransactionRef   string     `json:"transactionRef,omitempty"`
	PrerequisiteRefs []string   `json:"prerequisiteRefs,omitempty"`
	AutoAdvanceRef   string     `json:"autoAdvanceRef,omitempty"`
	Error            *HopError  `json:"error,omitempty"`
	AutoAdvanceError *HopError  `json:"autoAdvanceError,omitempty"`
	Warnings         []HopError `json:"warnings,omitempty"`
}

// QuantityRecord is a role's declared quantity for a batch, tied to the write that confirmed it
type QuantityRecord struct {
	BatchID        string                 `json:"batchId"`
	Role           Role                   `json:"role"`
	Quantity       uint64                 `json:"quantity"`
	TransactionRef string                 `json:"transactionRef"`
	RecordedAt     time.Time              `json:"recordedAt"`
	Metadata       QuantityRecordMetadata `json:"metadata"`
}

// QuantityRecordMetadata holds hop context stored alongside a quantity record
type QuantityRecordMetadata struct {
	Status           string   `json:"status,omitempty"`
	PrerequisiteRefs []string `json:"prerequisiteRefs,omitempty"`
}
