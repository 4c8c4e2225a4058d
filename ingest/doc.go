// Package ingest provides document preprocessing for the ingestion pipeline.
//
// The package covers the stateless text transformations that happen before
// any storage or AI call: parsing raw file bytes into text, sanitizing the
// text to printable ASCII, and splitting it into overlapping boundary-aware
// chunks for embedding.
//
// Orchestration of these steps lives in the jobs package; this package holds
// only the pure functions so they can be tested in isolation.
package ingest
