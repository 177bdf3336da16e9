package client

import (
	"context"

	"google.golang.org/genai"
)

// GenAIConfig selects the Gemini API (API key) or Vertex AI (project + location).
type GenAIConfig struct {
	APIKey   string
	Project  string
	Location string
}

func NewGenAIClient(ctx context.Context, cfg GenAIConfig) (*genai.Client, error) {
	if cfg.APIKey != "" {
		return genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
}
