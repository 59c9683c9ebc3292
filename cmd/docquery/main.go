// Command docquery is the entry point. It wires the adapters to the core
// services and hands control to the CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/docquery/internal/adapters/driven/ai"
	"github.com/custodia-labs/docquery/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docquery/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docquery/internal/adapters/driven/uploads"
	"github.com/custodia-labs/docquery/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/docquery/internal/adapters/driving/cli"
	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/core/services"
	"github.com/custodia-labs/docquery/internal/extractors/pdf"
	"github.com/custodia-labs/docquery/internal/logger"
	"github.com/custodia-labs/docquery/internal/postprocessors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return fmt.Errorf("initialising embedding service: %w", err)
	}
	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		return fmt.Errorf("initialising LLM service: %w", err)
	}

	store, err := qdrant.NewStore(qdrant.Config{
		URL:        settings.QdrantURL,
		APIKey:     settings.QdrantAPIKey,
		Collection: settings.QdrantCollection,
		Dimensions: settings.Embedding.Dimensions,
	})
	if err != nil {
		return fmt.Errorf("initialising vector store: %w", err)
	}
	defer store.Close() //nolint:errcheck // Best-effort cleanup on exit
	if err := store.EnsureCollection(context.Background()); err != nil {
		logger.Warn("vector store unreachable: %v", err)
	}

	catalog, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising ingestion catalog: %w", err)
	}
	defer catalog.Close() //nolint:errcheck // Best-effort cleanup on exit

	uploadStore, err := uploads.NewStore(settings.UploadsDir)
	if err != nil {
		return fmt.Errorf("initialising upload store: %w", err)
	}

	pipeline, err := buildPipeline(settings)
	if err != nil {
		return fmt.Errorf("initialising pipeline: %w", err)
	}

	extractor := pdf.New(pdf.WithMinWords(settings.Ingest.MinWords))
	if err := pdf.CheckAvailable(); err != nil {
		logger.Warn("%v", err)
	}

	// Services whose providers are unconfigured stay nil; the CLI reports
	// that instead of failing mid-pipeline.
	var (
		ingestService driving.IngestService
		answerService driving.AnswerService
		watchRunner   cli.WatchRunner
	)
	if embedder != nil {
		svc := services.NewIngestService(
			extractor, pipeline, embedder, store, catalog, uploadStore,
			services.WithEmbedErrorPolicy(settings.Ingest.OnEmbedError),
		)
		ingestService = svc

		watcher, err := uploads.NewWatcher(uploadStore, svc)
		if err != nil {
			return fmt.Errorf("initialising upload watcher: %w", err)
		}
		watchRunner = watcher

		if llm != nil {
			answerService = services.NewAnswerService(embedder, store, llm)
		}
	}

	cli.SetServices(ingestService, answerService, settingsService, watchRunner)
	return cli.Execute()
}

// buildPipeline assembles the cleaner and chunker from settings via the
// processor registry.
func buildPipeline(settings *domain.AppSettings) (*postprocessors.Pipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	cleaner, err := registry.Build("cleaner", nil)
	if err != nil {
		return nil, err
	}
	chunker, err := registry.Build("chunker", map[string]any{
		"chunk_size": settings.Ingest.ChunkSize,
		"overlap":    settings.Ingest.ChunkOverlap,
	})
	if err != nil {
		return nil, err
	}

	return postprocessors.NewPipeline(cleaner, chunker), nil
}
