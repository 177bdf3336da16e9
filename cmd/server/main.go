package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"immobiliare-core/internal/adapter/agent"
	"immobiliare-core/internal/adapter/api"
	"immobiliare-core/internal/adapter/client"
	"immobiliare-core/internal/adapter/store"
	"immobiliare-core/internal/config"
	"immobiliare-core/internal/domain/repository"
	"immobiliare-core/internal/logging"
	"immobiliare-core/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	genaiClient, err := client.NewGenAIClient(ctx, client.GenAIConfig{
		APIKey:   cfg.GoogleAPIKey,
		Project:  cfg.GoogleCloudProject,
		Location: cfg.GoogleCloudLocation,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init genai client")
	}

	// Renovation flow
	primaryModel := client.NewGeminiImageClientFromClient(genaiClient, cfg.PrimaryImageModel)
	fallbackModel := client.NewGeminiMultimodalClientFromClient(genaiClient, cfg.FallbackImageModel)
	generator := usecase.NewResilientGenerator(primaryModel, fallbackModel, cfg.GenerationTimeout)

	imageStore, err := store.NewLocalImageStore(cfg.GeneratedDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare generated images dir")
	}
	dispatcher := usecase.NewDispatcher(client.NewImageFetcher(cfg.ImageFetchTimeout), generator, imageStore, cfg.RenovateMaxParallel)
	renovation := usecase.NewRenovationService(dispatcher, usecase.DefaultStyleCosts, cfg.GalleryPolicy)

	// Chat flow
	propertyDB, err := store.NewPropertyDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open property database")
	}
	defer func() { _ = propertyDB.Close() }()

	toolbox := newToolbox(ctx, cfg, propertyDB, genaiClient)
	chatAgent := agent.NewOpenAIAgent(
		agent.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL),
		cfg.OpenAIModel, toolbox, cfg.AgentMaxSteps)
	chat := usecase.NewConversationRouter(chatAgent, newHistoryStore(ctx, cfg), cfg.HistoryWindow)

	app := fiber.New(fiber.Config{
		AppName: "Immobiliare.ai API",
	})
	api.SetupRouter(app, api.NewHandler(chat, renovation), imageStore.Dir())

	go func() {
		log.Info().Str("port", cfg.Port).Str("gallery_policy", string(cfg.GalleryPolicy)).Msg("Immobiliare.ai API running")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// newHistoryStore shares conversations through Redis when configured and
// reachable, otherwise keeps them in process.
func newHistoryStore(ctx context.Context, cfg *config.Config) repository.ConversationStore {
	if cfg.RedisAddr == "" {
		return store.NewMemoryHistory(cfg.HistoryWindow, cfg.HistoryMaxSessions, cfg.HistoryTTL)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("component", "HISTORY").Str("addr", cfg.RedisAddr).Msg("redis unreachable, using in-memory history")
		_ = rdb.Close()
		return store.NewMemoryHistory(cfg.HistoryWindow, cfg.HistoryMaxSessions, cfg.HistoryTTL)
	}
	log.Info().Str("component", "HISTORY").Str("addr", cfg.RedisAddr).Msg("using redis history")
	return store.NewRedisHistory(rdb, cfg.HistoryWindow, cfg.HistoryTTL)
}

// newToolbox adds semantic search to the agent tools when Qdrant is configured.
func newToolbox(ctx context.Context, cfg *config.Config, db *store.PropertyDB, genaiClient *genai.Client) *agent.Toolbox {
	if !cfg.VectorSearchEnabled() {
		return agent.NewToolbox(db, nil, nil)
	}
	qClient, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.QdrantHost,
		Port: cfg.QdrantPort,
	})
	if err != nil {
		log.Warn().Err(err).Str("component", "QDRANT").Msg("semantic search disabled")
		return agent.NewToolbox(db, nil, nil)
	}
	index := store.NewQdrantIndex(qClient, cfg.QdrantCollection)
	if err := index.InitCollection(ctx, cfg.EmbeddingDim); err != nil {
		log.Warn().Err(err).Str("component", "QDRANT").Msg("semantic search disabled")
		return agent.NewToolbox(db, nil, nil)
	}
	return agent.NewToolbox(db, client.NewEmbedderFromClient(genaiClient, cfg.EmbeddingModel), index)
}
