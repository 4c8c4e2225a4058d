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
	"log/slog"

	"github.com/poiesic/studyrag/core"
	"github.com/poiesic/studyrag/ingest"
)

// Ingestion step names. Renaming one orphans the committed results of
// in-flight jobs, so treat these as part of the stored format.
const (
	stepParse           = "parse"
	stepSummarize       = "summarize"
	stepChunk           = "chunk"
	stepEmbed           = "embed"
	stepPersistDocument = "persist-document"
	stepPersistChunks   = "persist-chunks"
)

// RunIngest executes the ingestion workflow for one document: parse the raw
// bytes, summarize, chunk, embed, then persist the document and its chunk
// set. Each step's result is durable, so re-running the job after a crash
// resumes at the first uncommitted step instead of re-calling providers or
// re-inserting chunks.
//
// On failure the document's status is set to Error and the step error is
// returned; a later re-trigger resumes from the failed step.
func (r *Runner) RunIngest(ctx context.Context, trigger *IngestDocumentTrigger) error {
	if err := trigger.Validate(); err != nil {
		return err
	}

	jobID := trigger.JobID()
	logger := r.logger.With("job_id", jobID, "document_id", trigger.DocumentID)
	logger.Info("starting ingestion", "file_name", trigger.FileName)

	if err := r.runIngestSteps(ctx, jobID, trigger, logger); err != nil {
		if statusErr := r.documents.SetDocumentStatus(ctx, trigger.DocumentID, core.DocumentStatusError); statusErr != nil {
			logger.Error("failed to mark document errored", "err", statusErr)
		}
		return err
	}

	logger.Info("ingestion complete")
	return nil
}

func (r *Runner) runIngestSteps(ctx context.Context, jobID core.ID, trigger *IngestDocumentTrigger, logger *slog.Logger) error {
	text, err := runStep(ctx, r, jobID, stepParse, func() (string, error) {
		data := trigger.Inline
		if len(data) == 0 {
			var blobErr error
			data, blobErr = r.blobs.GetBlob(ctx, trigger.StorageRef)
			if blobErr != nil {
				return "", blobErr
			}
		}

		parsed, parseErr := r.parser.Parse(trigger.FileName, data)
		if parseErr != nil {
			// Malformed input won't improve on retry
			return "", Permanent(parseErr)
		}
		return ingest.Sanitize(parsed), nil
	})
	if err != nil {
		return err
	}

	summary, err := runStep(ctx, r, jobID, stepSummarize, func() (string, error) {
		return r.generator.Summarize(ctx, text)
	})
	if err != nil {
		return err
	}

	segments, err := runStep(ctx, r, jobID, stepChunk, func() ([]string, error) {
		split, splitErr := ingest.SplitText(text, r.chunkSize, r.chunkOverlap)
		if splitErr != nil {
			return nil, Permanent(splitErr)
		}
		return split, nil
	})
	if err != nil {
		return err
	}

	vectors, err := runStep(ctx, r, jobID, stepEmbed, func() ([][]float32, error) {
		return r.embedSegments(ctx, segments, logger)
	})
	if err != nil {
		return err
	}

	_, err = runStep(ctx, r, jobID, stepPersistDocument, func() (string, error) {
		doc, getErr := r.documents.GetDocument(ctx, trigger.DocumentID)
		if getErr != nil {
			return "", getErr
		}
		doc.Content = text
		doc.Summary = summary
		if updateErr := r.documents.UpdateDocument(ctx, doc); updateErr != nil {
			return "", updateErr
		}
		return "ok", nil
	})
	if err != nil {
		return err
	}

	_, err = runStep(ctx, r, jobID, stepPersistChunks, func() (string, error) {
		chunks := make([]*core.Chunk, len(segments))
		for i, segment := range segments {
			chunks[i] = &core.Chunk{
				DocumentId: trigger.DocumentID,
				ChunkIndex: i,
				Content:    segment,
				Vector:     vectors[i],
			}
		}
		if putErr := r.chunks.PutChunks(ctx, trigger.DocumentID, chunks); putErr != nil {
			return "", putErr
		}
		if statusErr := r.documents.SetDocumentStatus(ctx, trigger.DocumentID, core.DocumentStatusReady); statusErr != nil {
			return "", statusErr
		}
		return "ok", nil
	})
	return err
}

// embedSegments embeds each segment in order. An individual failure records
// a missing vector rather than failing the batch; only a batch where every
// segment fails is treated as provider unavailability and aborts the job.
func (r *Runner) embedSegments(ctx context.Context, segments []string, logger *slog.Logger) ([][]float32, error) {
	vectors := make([][]float32, len(segments))
	failed := 0

	for i, segment := range segments {
		vector, err := r.embedder.EmbedText(ctx, segment)
		if err != nil {
			logger.Warn("embedding failed for chunk", "chunk_index", i, "err", err)
			failed++
			continue
		}
		vectors[i] = vector
	}

	if failed > 0 && failed == len(segments) {
		return nil, ErrEmbeddingUnavailable
	}
	if failed > 0 {
		logger.Warn("some chunks have no embedding", "failed", failed, "total", len(segments))
	}
	return vectors, nil
}
