// Package common holds helpers shared by the application services.
package common

import "fmt"

// ServiceError reports which step of a canonicalization run failed, such as
// reading the input stream or writing a result, around the underlying cause.
type ServiceError struct {
	Operation string
	Cause     error
}

func (e ServiceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Cause)
}

// Unwrap exposes the cause to errors.Is and errors.As, so callers can still
// match io or context errors.
func (e ServiceError) Unwrap() error {
	return e.Cause
}

// WrapServiceError tags err with the failed operation. A nil err stays nil.
func WrapServiceError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return ServiceError{Operation: operation, Cause: err}
}

// Operations of a batch run, used as ServiceError.Operation.
const (
	OpReadInput         = "read input"
	OpWriteResult       = "write result"
	OpFlushOutput       = "flush output"
	OpCanonicalizeBatch = "canonicalize batch"
)
