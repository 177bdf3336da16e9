package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"immobiliare-core/internal/adapter/client"
	"immobiliare-core/internal/adapter/store"
	"immobiliare-core/internal/config"
	"immobiliare-core/internal/logging"
	"immobiliare-core/internal/usecase"
)

func main() {
	var describe bool

	rootCmd := &cobra.Command{
		Use:   "indexer",
		Short: "Builds the semantic search index from the property database",
		Long: `Embeds the description of every property in the SQLite database and
upserts it into the Qdrant collection used by the chat agent's
search_similar_properties tool. Re-running it overwrites existing points.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), describe)
		},
	}
	rootCmd.Flags().BoolVar(&describe, "describe", false, "Generate description_ai with Gemini for properties that have none")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, describe bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if !cfg.VectorSearchEnabled() {
		return fmt.Errorf("QDRANT_HOST is not set")
	}

	propertyDB, err := store.NewPropertyDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.DatabasePath, err)
	}
	defer func() { _ = propertyDB.Close() }()

	genaiClient, err := client.NewGenAIClient(ctx, client.GenAIConfig{
		APIKey:   cfg.GoogleAPIKey,
		Project:  cfg.GoogleCloudProject,
		Location: cfg.GoogleCloudLocation,
	})
	if err != nil {
		return fmt.Errorf("init genai client: %w", err)
	}

	qClient, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.QdrantHost,
		Port: cfg.QdrantPort,
	})
	if err != nil {
		return fmt.Errorf("connect to qdrant: %w", err)
	}
	defer func() { _ = qClient.Close() }()

	index := store.NewQdrantIndex(qClient, cfg.QdrantCollection)
	if err := index.InitCollection(ctx, cfg.EmbeddingDim); err != nil {
		return fmt.Errorf("init qdrant collection: %w", err)
	}

	indexer := usecase.NewPropertyIndexer(propertyDB, client.NewEmbedderFromClient(genaiClient, cfg.EmbeddingModel), index)
	if describe {
		indexer.WithDescriber(client.NewGeminiDescriber(genaiClient, cfg.DescriptionModel), propertyDB)
	}

	stats, err := indexer.Run(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("component", "INDEXER").Int("indexed", stats.Indexed).Int("described", stats.Described).Int("failed", stats.Failed).Str("collection", cfg.QdrantCollection).Msg("indexing complete")
	if stats.Failed > 0 {
		return fmt.Errorf("%d properties failed to index", stats.Failed)
	}
	return nil
}
