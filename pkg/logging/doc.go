// Package logging provides structured logging utilities for profilemaker.
//
// It wraps the standard library slog package with the project's defaults:
// JSON output on stderr, module and version attributes on every record, and
// source locations when running at debug level.
//
// # Log Levels
//
// Supported levels (case-insensitive): debug, info (default), warn/warning, error.
// The LOG_LEVEL environment variable selects the level when none is given
// explicitly:
//
//	LOG_LEVEL=debug profilemaker compile --submission prefs.yaml
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("profilemaker", version, "info")
//	    slog.Info("catalog loaded", "groups", 7)
//	}
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"catalog loaded","module":"profilemaker","version":"v1.0.0","groups":7}
package logging
