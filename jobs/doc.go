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


// Package jobs provides durable workflow execution for studyrag.
//
// The Runner type executes three workflows:
//
//   - Document ingestion: parse, summarize, chunk, embed, persist. Steps
//     run in sequence and each committed step result is persisted, so a
//     job interrupted by a crash resumes without re-calling AI providers
//     or re-inserting chunks.
//   - Chapter notes: concurrent per-chapter generation with a fail-fast
//     join; the course status records the outcome.
//   - Study content: single generation of flashcards, quiz, or Q&A JSON
//     into an existing study record.
//
// Jobs are identified by stable content-derived IDs, so re-triggering a
// workflow for the same entity resumes the same job. Transient failures
// are retried per step with exponential backoff; failures that cannot
// improve on retry (unsupported input, malformed documents) abort
// immediately.
package jobs
