package dto

import "net/http"

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when body parsing fails
	ErrCodeInvalidJSON = "INVALID_JSON"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "TOKEN_INVALID"
)

// Domain error codes, matching the domain layer one to one
const (
	// ErrCodeNotFound is used when a resource is not found. Cross-owner
	// references come back as this, never as a forbidden.
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	// ErrCodeUnprocessableAmount is used for amounts that parse but cannot
	// be recorded (zero, negative, above the ceiling)
	ErrCodeUnprocessableAmount = "UNPROCESSABLE_AMOUNT"
	// ErrCodeAmbiguousCustomer is used when several customers match a
	// spoken name too closely; the error details carry the candidates
	ErrCodeAmbiguousCustomer = "AMBIGUOUS_CUSTOMER"
	// ErrCodeUnknownCustomerRef is used when a customer reference did not
	// exist at write time
	ErrCodeUnknownCustomerRef = "UNKNOWN_CUSTOMER_REFERENCE"
	// ErrCodePersistenceFailure is used when the storage unit rolled back
	ErrCodePersistenceFailure = "PERSISTENCE_FAILURE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:     http.StatusInternalServerError,
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Field-specific validation codes emitted by the domain layer
	"INVALID_NAME":       http.StatusBadRequest,
	"INVALID_PHONE":      http.StatusBadRequest,
	"INVALID_LANGUAGE":   http.StatusBadRequest,
	"INVALID_KIND":       http.StatusBadRequest,
	"INVALID_CONFIDENCE": http.StatusBadRequest,
	"INVALID_OWNER":      http.StatusBadRequest,
	"INVALID_CUSTOMER":   http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeInvalidInput:        http.StatusBadRequest,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeUnprocessableAmount: http.StatusUnprocessableEntity,
	ErrCodeAmbiguousCustomer:   http.StatusConflict,
	ErrCodeUnknownCustomerRef:  http.StatusNotFound,
	ErrCodePersistenceFailure:  http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
