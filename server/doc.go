// Package server exposes the HTTP API: document upload and retrieval
// queries, plus dispatch endpoints for the background generation jobs.
package server
