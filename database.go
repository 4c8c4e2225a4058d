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

package studyrag

import (
	"io"
	"log/slog"

	"github.com/poiesic/studyrag/ai"
	"github.com/poiesic/studyrag/ai/openai"
	"github.com/poiesic/studyrag/jobs"
	"github.com/poiesic/studyrag/reembed"
	"github.com/poiesic/studyrag/retrieval"
	"github.com/poiesic/studyrag/server"
	"github.com/poiesic/studyrag/storage"
	"github.com/poiesic/studyrag/storage/badger"
)

// Database bundles the storage repositories and the AI provider, and acts
// as the factory for the retrieval, job, and server components built on
// top of them.
type Database struct {
	repos    *badger.Repositories
	provider ai.AIProvider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider injects a pre-built AI provider instead of constructing the
// OpenAI-compatible one. Used by tests and embedders with custom transports.
func WithProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// NewDatabase opens the storage at filePath and constructs the AI provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	repos, err := badger.NewRepositories(filePath)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repos.Close()
			return nil, err
		}
	}

	return &Database{
		repos:    repos,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close shuts down the AI provider, repositories, and backend in order.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.repos.Close(); err != nil {
		db.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.repos.Documents
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.repos.Chunks
}

func (db *Database) CourseRepository() storage.CourseRepository {
	return db.repos.Courses
}

func (db *Database) BlobRepository() storage.BlobRepository {
	return db.repos.Blobs
}

// NewJobRunner creates a job runner over this database's repositories.
func (db *Database) NewJobRunner(opts ...jobs.Option) (*jobs.Runner, error) {
	return jobs.NewRunner(db.repos.Documents, db.repos.Chunks, db.repos.Courses, db.repos.Steps, db.repos.Blobs, db.provider, opts...)
}

// NewAnswerer creates a retrieval answerer over this database's repositories.
func (db *Database) NewAnswerer(opts ...retrieval.Option) (*retrieval.Answerer, error) {
	return retrieval.NewAnswerer(db.repos.Documents, db.repos.Chunks, db.provider, opts...)
}

// NewReembedder creates a chunk re-embedding pass writing progress to the
// given writer.
func (db *Database) NewReembedder(cfg *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.repos.Documents, db.repos.Chunks, db.provider.Embedder(), cfg, progress)
}

// NewServer creates the HTTP API server wired to this database.
func (db *Database) NewServer(cfg server.Config, answerer *retrieval.Answerer, runner *jobs.Runner, opts ...server.Option) (*server.Server, error) {
	return server.NewServer(cfg, db.repos.Documents, db.repos.Courses, db.repos.Blobs, answerer, runner, opts...)
}
