package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// WithDetail returns a copy of the error carrying an extra detail field.
// The receiver is not mutated so the sentinel errors stay shared.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Ledger-specific domain errors
var (
	// ErrUnprocessableAmount covers amounts that parse but cannot be
	// recorded: zero, negative, non-finite, or above the configured ceiling.
	ErrUnprocessableAmount = NewDomainError("UNPROCESSABLE_AMOUNT", "Amount cannot be recorded")

	// ErrAmbiguousCustomer means several existing customers matched the
	// spoken name too closely to pick one. Nothing was written.
	ErrAmbiguousCustomer = NewDomainError("AMBIGUOUS_CUSTOMER", "Multiple customers match the given name")

	// ErrUnknownCustomerRef means a customer reference passed validation
	// but did not exist at write time. Internal consistency fault.
	ErrUnknownCustomerRef = NewDomainError("UNKNOWN_CUSTOMER_REFERENCE", "Referenced customer does not exist")

	// ErrPersistenceFailure wraps storage-layer failures after rollback.
	// The caller may retry; no partial state was committed.
	ErrPersistenceFailure = NewDomainError("PERSISTENCE_FAILURE", "Storage operation failed, nothing was recorded")

	// ErrNotificationFailure is recorded internally for dispatch failures.
	// It is never surfaced on the record path.
	ErrNotificationFailure = NewDomainError("NOTIFICATION_FAILURE", "Notification delivery failed")
)
