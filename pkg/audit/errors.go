package audit

import "fmt"

// StorageError wraps a backend failure with the backend name and the
// operation that failed.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// NewStorageError creates a storage error.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %s failed: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap supports errors.Is/errors.As chains.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// RecorderError reports that a record could not be enqueued or written.
type RecorderError struct {
	RecordID string
	Cause    error
}

// NewRecorderError creates a recorder error.
func NewRecorderError(recordID string, cause error) *RecorderError {
	return &RecorderError{RecordID: recordID, Cause: cause}
}

// Error implements the error interface.
func (e *RecorderError) Error() string {
	return fmt.Sprintf("audit recorder: record %s: %v", e.RecordID, e.Cause)
}

// Unwrap supports errors.Is/errors.As chains.
func (e *RecorderError) Unwrap() error {
	return e.Cause
}
