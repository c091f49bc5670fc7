package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeForbidden        ErrorCode = "forbidden"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "internal_error"
	ErrCodeLedgerError   ErrorCode = "ledger_error"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewNotFoundError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewValidationError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: strings.Join(details, ", "),
	}
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewForbiddenError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInternalError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewLedgerError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeLedgerError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

// FromError maps a service error onto an HTTP status and APIError
func FromError(err error) (int, *APIError) {
	switch {
	case stderrors.Is(err, domain.ErrBatchNotFound):
		return http.StatusNotFound, NewNotFoundError("Batch not found", err.Error())
	case stderrors.Is(err, domain.ErrUnknownRole), stderrors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, NewBadRequestError("Invalid request", err.Error())
	default:
		return http.StatusBadGateway, NewLedgerError("Ledger request failed", err.Error())
	}
}

// StatusForHop returns the HTTP status of a hop result: 200 on success, otherwise by error kind
func StatusForHop(result *domain.HopResult) int {
	if result.Success || result.Error == nil {
		return http.StatusOK
	}

	switch result.Error.Kind {
	case domain.ErrorKindInvalidRequest:
		return http.StatusBadRequest
	case domain.ErrorKindBatchNotFound:
		return http.StatusNotFound
	case domain.ErrorKindAuthorizationRejected:
		return http.StatusForbidden
	case domain.ErrorKindInsufficientFunds, domain.ErrorKindTransactionFailed:
		return http.StatusUnprocessableEntity
	case domain.ErrorKindNetworkUnavailable:
		return http.StatusBadGateway
	case domain.ErrorKindTransactionCancelled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
