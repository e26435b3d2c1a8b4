// Package services defines shared utilities consumed by the chunking engine
// and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session identifiers and correlation IDs for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that translate external
//     tool failures into consistent failure classes on session records.
//
// Use these helpers when wiring new engine logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
