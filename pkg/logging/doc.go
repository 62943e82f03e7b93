// Package logging provides structured logging utilities for crucible
// components.
//
// The package wraps the standard library slog package with crucible-specific
// defaults: JSON output to stderr, module/version context on every record,
// LOG_LEVEL environment configuration, and source location tracking for
// debug logs.
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("crucible", version)
//
//	    slog.Info("resolving recipe", "name", "cppcheck")
//	    slog.Error("fetch failed", "error", err)
//	}
//
// The LOG_LEVEL environment variable controls verbosity (debug, info, warn,
// error; default info):
//
//	LOG_LEVEL=debug crucible build --recipe cppcheck
package logging
