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

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/studyrag/jobs"
	"github.com/poiesic/studyrag/retrieval"
	"github.com/poiesic/studyrag/storage"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// DefaultConfig returns the default listen address.
func DefaultConfig() Config {
	return Config{
		Host: "0.0.0.0",
		Port: 8080,
	}
}

// Server is the HTTP API surface. It owns routing and request/response
// encoding only; document ingestion, retrieval, and derived-content
// generation live behind the answerer and the job runner.
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux

	documents storage.DocumentRepository
	courses   storage.CourseRepository
	blobs     storage.BlobRepository
	answerer  *retrieval.Answerer
	runner    *jobs.Runner

	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "http-server")
		return nil
	}
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(
	cfg Config,
	documents storage.DocumentRepository,
	courses storage.CourseRepository,
	blobs storage.BlobRepository,
	answerer *retrieval.Answerer,
	runner *jobs.Runner,
	opts ...Option,
) (*Server, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if courses == nil {
		return nil, ErrCourseRepositoryRequired
	}
	if blobs == nil {
		return nil, ErrBlobRepositoryRequired
	}
	if answerer == nil {
		return nil, ErrAnswererRequired
	}
	if runner == nil {
		return nil, ErrRunnerRequired
	}

	s := &Server{
		router:    http.NewServeMux(),
		documents: documents,
		courses:   courses,
		blobs:     blobs,
		answerer:  answerer,
		runner:    runner,
		logger:    slog.Default().With("component", "http-server"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /health", s.handleHealth)

	s.router.HandleFunc("POST /api/rag/query", s.handleQuery)
	s.router.HandleFunc("GET /api/rag/documents/{id}", s.handleGetDocument)

	s.router.HandleFunc("POST /api/upload", s.handleUpload)

	s.router.HandleFunc("POST /api/courses/{id}/notes", s.handleGenerateNotes)
	s.router.HandleFunc("POST /api/study-content", s.handleStudyContent)
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Stop shuts the server down immediately with the caller's context.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
