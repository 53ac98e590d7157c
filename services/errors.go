// services/errors.go
package services

import "fmt"

// ValidationError reports bad or missing input for a flow step or an
// operation. Recoverable: the caller corrects the field and retries.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError means a proposed slot is not (or no longer) bookable.
// Reason carries the same block reasons availability computation uses.
type ConflictError struct {
	Reason BlockReason
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot not available: %s", e.Reason)
}

// ExternalServiceError wraps a failure of an outbound gateway (SMS or
// phone verification). Distinct from a negative-but-normal outcome like
// a wrong verification code.
type ExternalServiceError struct {
	Gateway string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s gateway error: %v", e.Gateway, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// PersistenceError means a storage write failed. Fatal to the operation
// that attempted it; no partial state is kept.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
