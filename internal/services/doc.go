// Package services defines shared utilities consumed by the job loader, the
// command assembler, and the encoding runner.
//
// Key responsibilities:
//   - Context helpers that stamp job identifiers, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failure classes
//     (schema, configuration, external tool) distinguishable all the way to the
//     CLI exit code.
//
// Use these helpers when wiring new stages so error handling and observability
// stay uniform across commands.
package services
