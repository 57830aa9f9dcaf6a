package manager

import "fmt"

// LoadError represents a file system level failure while loading a RAS
// source: missing file, permission problem, size or encoding violation.
type LoadError struct {
	// FilePath is the path that failed to load.
	FilePath string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load RAS file %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load RAS file %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// RegistryError represents an invalid registry operation, such as
// constructing a registry with the "all" scope.
type RegistryError struct {
	// Operation is the registry operation that failed.
	Operation string

	// Message describes the error.
	Message string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry %s: %s", e.Operation, e.Message)
}
