package repository

import (
	"context"
	"immobiliare-core/internal/domain/entity"
)

type ConversationStore interface {
	Recent(ctx context.Context, sessionID string, n int) ([]entity.ConversationTurn, error)
	Append(ctx context.Context, sessionID string, turns ...entity.ConversationTurn) error
}

// Agent answers a natural-language prompt, possibly by calling tools.
type Agent interface {
	Run(ctx context.Context, prompt string) (string, error)
}

type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*entity.SourceImage, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GeneratedImage, error)
}

// ImageStore persists a generated image and returns the public URL it is served from.
type ImageStore interface {
	Save(ctx context.Context, img *entity.GeneratedImage) (string, error)
}

type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type PropertyIndex interface {
	Search(ctx context.Context, vector []float32, limit int) ([]entity.PropertyHit, error)
	Save(ctx context.Context, p entity.Property, vector []float32) error
}

// PropertyCatalog is the SQL surface the chat agent works against.
type PropertyCatalog interface {
	ListTables(ctx context.Context) ([]string, error)
	TableSchema(ctx context.Context, table string) (string, error)
	RunQuery(ctx context.Context, query string) ([]map[string]any, error)
	PropertyDetails(ctx context.Context, id string) (*entity.Property, error)
	ListProperties(ctx context.Context) ([]entity.Property, error)
}

// ListingDescriber writes the AI description of a property.
type ListingDescriber interface {
	Describe(ctx context.Context, p entity.Property) (string, error)
}

type DescriptionWriter interface {
	SetDescriptionAI(ctx context.Context, id, description string) error
}
