// Package reembed repairs chunks whose embedding generation failed during
// ingestion, and re-embeds existing chunks after an embedding model change.
//
// The pass walks every document, embeds the affected chunks in batches with
// retry, and atomically rewrites each document's chunk set. Progress is
// reported to a configurable writer.
package reembed
