package client

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"immobiliare-core/internal/domain/entity"
)

// Embedder turns property descriptions and search queries into vectors.
type Embedder struct {
	client *genai.Client
	model  string // e.g., "text-embedding-004"
}

func NewEmbedderFromClient(c *genai.Client, model string) *Embedder {
	return &Embedder{
		client: c,
		model:  model,
	}
}

func (e *Embedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	res, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embed with %s: %w", e.model, err)
	}
	if len(res.Embeddings) == 0 || len(res.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("embed with %s: %w", e.model, entity.ErrResourceNotFound)
	}
	return res.Embeddings[0].Values, nil
}
