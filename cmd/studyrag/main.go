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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	studyrag "github.com/poiesic/studyrag"
	"github.com/poiesic/studyrag/ai"
	"github.com/poiesic/studyrag/config"
	"github.com/poiesic/studyrag/core"
	"github.com/poiesic/studyrag/jobs"
	"github.com/poiesic/studyrag/reembed"
	"github.com/poiesic/studyrag/server"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "studyrag",
		Usage: "Document ingestion and retrieval-augmented study service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
			},
			{
				Name:      "ingest",
				Usage:     "Ingest a document from a local file",
				ArgsUsage: "<file>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "user",
						Usage: "User ID to attribute the document to",
						Value: "local",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Ask a question about an ingested document",
				ArgsUsage: "<document-id> <question>",
				Action:    queryCommand,
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate chunk embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Re-embed every chunk, not just those missing a vector",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed per provider call",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

func openDatabase(cfg *config.AppConfig) (*studyrag.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithGenerationHost(cfg.AI.GenerationHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithGenerationModel(cfg.AI.GenerationModel),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return studyrag.NewDatabase(cfg.Storage.Path, studyrag.WithAIConfig(aiConfig))
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runner, err := db.NewJobRunner(jobs.WithChunking(cfg.Chunking.Size, cfg.Chunking.Overlap))
	if err != nil {
		return fmt.Errorf("failed to create job runner: %w", err)
	}
	defer runner.Release()

	answerer, err := db.NewAnswerer()
	if err != nil {
		return fmt.Errorf("failed to create answerer: %w", err)
	}

	srv, err := db.NewServer(server.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, answerer, runner)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: studyrag ingest <file>")
	}
	filePath := c.Args().First()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runner, err := db.NewJobRunner(jobs.WithChunking(cfg.Chunking.Size, cfg.Chunking.Overlap))
	if err != nil {
		return fmt.Errorf("failed to create job runner: %w", err)
	}
	defer runner.Release()

	fileName := filepath.Base(filePath)
	doc, err := db.DocumentRepository().AddDocument(c.Context, &core.Document{
		UserId:   c.String("user"),
		FileName: fileName,
	})
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	trigger := &jobs.IngestDocumentTrigger{
		FileName:   fileName,
		UserID:     c.String("user"),
		DocumentID: doc.Id,
		Inline:     data,
	}
	if err := runner.RunIngest(c.Context, trigger); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %s as document %d\n", fileName, doc.Id)
	return nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: studyrag query <document-id> <question>")
	}

	docID, err := strconv.ParseUint(c.Args().Get(0), 10, 64)
	if err != nil || docID == 0 {
		return fmt.Errorf("invalid document id %q", c.Args().Get(0))
	}
	question := c.Args().Get(1)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	answerer, err := db.NewAnswerer()
	if err != nil {
		return fmt.Errorf("failed to create answerer: %w", err)
	}

	result, err := answerer.Answer(c.Context, core.ID(docID), question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Printf("%s\n\n(from %s)\n", result.Answer, result.DocumentTitle)
	return nil
}

func reembedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		RepairOnly:     !c.Bool("all"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := db.NewReembedder(reembedConfig, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(c.Context); err != nil {
		return fmt.Errorf("re-embedding failed: %w", err)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
