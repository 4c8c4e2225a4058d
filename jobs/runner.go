// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/studyrag/ai"
	"github.com/poiesic/studyrag/core"
	"github.com/poiesic/studyrag/ingest"
	"github.com/poiesic/studyrag/storage"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// Runner executes the durable workflows: document ingestion, chapter notes
// fan-out, and study content generation. Each workflow is a sequence of named
// steps whose results are persisted, so a resumed job never redoes a step
// that already committed its side effect.
type Runner struct {
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	courses   storage.CourseRepository
	steps     storage.StepRepository
	blobs     storage.BlobRepository
	embedder  ai.Embedder
	generator ai.Generator
	parser    ingest.Parser

	jobPool    *ants.Pool
	fanoutPool *ants.Pool

	chunkSize    int
	chunkOverlap int
	maxAttempts  int
	baseDelay    time.Duration
	logger       *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithPoolSize sets the worker pool size for background job execution.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}

		// Release old pools
		if r.jobPool != nil {
			r.jobPool.Release()
		}
		if r.fanoutPool != nil {
			r.fanoutPool.Release()
		}

		jobPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		fanoutPool, err := ants.NewPool(size)
		if err != nil {
			jobPool.Release()
			return err
		}

		r.jobPool = jobPool
		r.fanoutPool = fanoutPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithChunking overrides the default chunk size and overlap.
func WithChunking(size, overlap int) Option {
	return func(r *Runner) error {
		if size < 1 || overlap < 0 || overlap >= size {
			return ingest.ErrInvalidChunkConfig
		}
		r.chunkSize = size
		r.chunkOverlap = overlap
		return nil
	}
}

// WithParser sets a custom document parser.
// Default is ingest.NewTextParser().
func WithParser(parser ingest.Parser) Option {
	return func(r *Runner) error {
		if parser != nil {
			r.parser = parser
		}
		return nil
	}
}

// WithRetry overrides the per-step retry policy.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(r *Runner) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		r.maxAttempts = maxAttempts
		r.baseDelay = baseDelay
		return nil
	}
}

// NewRunner creates a new job runner.
func NewRunner(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	courses storage.CourseRepository,
	steps storage.StepRepository,
	blobs storage.BlobRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Runner, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if courses == nil {
		return nil, ErrCourseRepositoryRequired
	}
	if steps == nil {
		return nil, ErrStepRepositoryRequired
	}
	if blobs == nil {
		return nil, ErrBlobRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	jobPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	fanoutPool, err := ants.NewPool(poolSize)
	if err != nil {
		jobPool.Release()
		return nil, err
	}

	r := &Runner{
		documents:    documents,
		chunks:       chunks,
		courses:      courses,
		steps:        steps,
		blobs:        blobs,
		embedder:     provider.Embedder(),
		generator:    provider.Generator(),
		parser:       ingest.NewTextParser(),
		jobPool:      jobPool,
		fanoutPool:   fanoutPool,
		chunkSize:    ingest.DefaultChunkSize,
		chunkOverlap: ingest.DefaultChunkOverlap,
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		logger:       slog.Default().With("component", "job-runner"),
	}

	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}

	return r, nil
}

// SubmitIngest runs the ingestion workflow on the background pool.
// Errors are logged, not returned; the document's status records the outcome.
func (r *Runner) SubmitIngest(trigger *IngestDocumentTrigger) error {
	if err := trigger.Validate(); err != nil {
		return err
	}
	return r.jobPool.Submit(func() {
		if err := r.RunIngest(context.Background(), trigger); err != nil {
			r.logger.Error("ingestion job failed", "document_id", trigger.DocumentID, "err", err)
		}
	})
}

// SubmitGenerateNotes runs the chapter notes workflow on the background pool.
// Errors are logged, not returned; the course's status records the outcome.
func (r *Runner) SubmitGenerateNotes(trigger *GenerateChapterNotesTrigger) error {
	if err := trigger.Validate(); err != nil {
		return err
	}
	return r.jobPool.Submit(func() {
		if err := r.RunGenerateNotes(context.Background(), trigger); err != nil {
			r.logger.Error("notes job failed", "course_id", trigger.Course.Id, "err", err)
		}
	})
}

// SubmitGenerateStudyContent runs the study content workflow on the
// background pool. Errors are logged, not returned; the study record's
// status records the outcome.
func (r *Runner) SubmitGenerateStudyContent(trigger *GenerateStudyContentTrigger) error {
	if err := trigger.Validate(); err != nil {
		return err
	}
	return r.jobPool.Submit(func() {
		if err := r.RunGenerateStudyContent(context.Background(), trigger); err != nil {
			r.logger.Error("study content job failed", "record_id", trigger.RecordID, "err", err)
		}
	})
}

// Release releases resources including worker pools.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	if r.jobPool != nil {
		r.jobPool.Release()
	}
	if r.fanoutPool != nil {
		r.fanoutPool.Release()
	}
}

// runStep executes a named step of a job exactly once. A previously
// committed result is decoded and returned without re-executing fn, which
// is how a resumed job skips completed work. Fresh executions are retried
// per the runner's backoff policy, and the result is persisted before it
// is returned.
func runStep[T any](ctx context.Context, r *Runner, jobID core.ID, name string, fn func() (T, error)) (T, error) {
	var zero T

	record, err := r.steps.GetStep(ctx, jobID, name)
	if err == nil {
		var value T
		if err := json.Unmarshal([]byte(record.Result), &value); err == nil {
			r.logger.Debug("reusing committed step result", "job_id", jobID, "step", name)
			return value, nil
		}
		// Undecodable result record: recompute below
		r.logger.Warn("discarding undecodable step result", "job_id", jobID, "step", name)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return zero, err
	}

	var value T
	err = RetryWithBackoff(ctx, func() error {
		var stepErr error
		value, stepErr = fn()
		return stepErr
	}, r.maxAttempts, r.baseDelay)
	if err != nil {
		return zero, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return zero, err
	}
	if err := r.steps.SaveStep(ctx, &core.StepRecord{
		JobId:  jobID,
		Step:   name,
		Result: string(data),
	}); err != nil {
		return zero, err
	}

	r.logger.Debug("step committed", "job_id", jobID, "step", name)
	return value, nil
}
