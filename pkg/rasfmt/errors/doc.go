// Package errors defines the structured error types reported while
// parsing or rewriting RAS sources. Errors carry a stable Type for
// programmatic handling, the source location, and an optional
// suggestion for the author of the file.
package errors
