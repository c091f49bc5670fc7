package orchestrator

import (
	"context"
	"errors"
	"strings"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
)

var kindMessages = map[domain.ErrorKind]string{
	domain.ErrorKindBatchNotFound:         "Batch does not exist on the ledger",
	domain.ErrorKindAuthorizationRejected: "The ledger rejected the caller for this action",
	domain.ErrorKindInsufficientFunds:     "The signing account cannot pay for gas",
	domain.ErrorKindNetworkUnavailable:    "The ledger node could not be reached",
	domain.ErrorKindTransactionCancelled:  "The transaction was cancelled before submission",
	domain.ErrorKindTransactionFailed:     "The transaction failed",
	domain.ErrorKindEstimationFailed:      "Gas estimation failed, the gateway default limit was used",
	domain.ErrorKindInvalidRequest:        "The request is invalid",
	domain.ErrorKindStorageUnavailable:    "The quantity record could not be stored",
}

// Classify converts an error from a ledger interaction into a HopError.
// Matching is done on error identity first, then on the error text reported by the node.
func Classify(err error, role domain.Role, action string) *domain.HopError {
	if err == nil {
		return nil
	}
	return newHopError(classifyKind(err), err, role, action)
}

func newHopError(kind domain.ErrorKind, err error, role domain.Role, action string) *domain.HopError {
	hopErr := &domain.HopError{
		Kind:    kind,
		Message: kindMessages[kind],
		Role:    role,
		Action:  action,
	}
	if err != nil {
		hopErr.Detail = err.Error()
	}
	return hopErr
}

func classifyKind(err error) domain.ErrorKind {
	switch {
	case errors.Is(err, domain.ErrBatchNotFound):
		return domain.ErrorKindBatchNotFound
	case errors.Is(err, domain.ErrIdentityNotConfigured):
		return domain.ErrorKindAuthorizationRejected
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrUnknownRole),
		errors.Is(err, domain.ErrBatchAlreadyExists),
		errors.Is(err, domain.ErrRoleNotEligible):
		return domain.ErrorKindInvalidRequest
	case errors.Is(err, context.Canceled):
		return domain.ErrorKindTransactionCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ErrorKindNetworkUnavailable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "batch does not exist"):
		return domain.ErrorKindBatchNotFound
	case strings.Contains(msg, "insufficient funds"):
		return domain.ErrorKindInsufficientFunds
	case strings.Contains(msg, "user rejected"),
		strings.Contains(msg, "user denied"),
		strings.Contains(msg, "cancel"):
		return domain.ErrorKindTransactionCancelled
	case strings.Contains(msg, "not authorized"),
		strings.Contains(msg, "only farmer"),
		strings.Contains(msg, "only distributor"),
		strings.Contains(msg, "only retailer"):
		return domain.ErrorKindAuthorizationRejected
	case strings.Contains(msg, "batch already exists"),
		strings.Contains(msg, "quantity must be greater than 0"),
		strings.Contains(msg, "invalid") && strings.Contains(msg, "address"):
		return domain.ErrorKindInvalidRequest
	case strings.Contains(msg, "network"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection"),
		strings.Contains(msg, "dial tcp"),
		strings.Contains(msg, "eof"):
		return domain.ErrorKindNetworkUnavailable
	default:
		return domain.ErrorKindTransactionFailed
	}
}
