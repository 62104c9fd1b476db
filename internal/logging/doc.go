// Package logging provides a small leveled logging interface for the
// reaper-cleaner command and its internal packages.
//
// It supports the following log levels:
//   - DEBUG: Per-file resolution and classification decisions
//   - INFO: Phase progress and summaries
//   - WARN: Unreadable directories and project files
//   - ERROR: Failed moves and hard failures
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL or DEBUG environment
// variables and can be overridden at runtime with SetLevel.
package logging
