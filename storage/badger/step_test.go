package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/studyrag/core"
	"github.com/poiesic/studyrag/storage"
)

func TestStepSaveAndGet(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	jobID := core.IDFromContent("ingest:1")

	_, err = repos.Steps.GetStep(ctx, jobID, "parse")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound before save, got %v", err)
	}

	record := &core.StepRecord{
		JobId:  jobID,
		Step:   "parse",
		Result: `"parsed text"`,
	}
	if err := repos.Steps.SaveStep(ctx, record); err != nil {
		t.Fatalf("Failed to save step: %v", err)
	}

	retrieved, err := repos.Steps.GetStep(ctx, jobID, "parse")
	if err != nil {
		t.Fatalf("Failed to get step: %v", err)
	}
	if retrieved.Result != `"parsed text"` {
		t.Fatalf("Expected result to persist, got '%s'", retrieved.Result)
	}
	if retrieved.UpdatedAt.IsZero() {
		t.Fatal("Expected UpdatedAt to be set")
	}

	// Same job, different step name is distinct
	_, err = repos.Steps.GetStep(ctx, jobID, "summarize")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for other step, got %v", err)
	}
}

func TestBlobRoundTrip(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	data := []byte("raw uploaded bytes")
	if err := repos.Blobs.PutBlob(ctx, "uploads/abc", data); err != nil {
		t.Fatalf("Failed to put blob: %v", err)
	}

	retrieved, err := repos.Blobs.GetBlob(ctx, "uploads/abc")
	if err != nil {
		t.Fatalf("Failed to get blob: %v", err)
	}
	if string(retrieved) != string(data) {
		t.Fatalf("Expected blob to round-trip, got '%s'", retrieved)
	}

	_, err = repos.Blobs.GetBlob(ctx, "uploads/missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
