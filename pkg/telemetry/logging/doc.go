// Package logging constructs the slog loggers used across the RAS
// engine. Components receive a *slog.Logger and scope it with
// With("component", ...); this package only parses level/format
// configuration and builds the handler.
package logging
