// Package services defines shared utilities consumed by the pipeline stages
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp the run identifier and stage name for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures,
//     and ExitCode which turns them into process exit statuses.
//
// Use these helpers when wiring new stage logic so error reporting stays
// uniform between the library code and the command line.
package services
