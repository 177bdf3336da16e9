package client

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"immobiliare-core/internal/domain/entity"
)

// Output settings used for the image-only primary model.
const (
	ImageAspectRatio = "4:3"
	ImageSize        = "2K"
)

type GeminiImageClient struct {
	client    *genai.Client
	model     string
	imageOnly bool
}

// NewGeminiImageClientFromClient builds a client for an image model that
// answers with IMAGE modality only.
func NewGeminiImageClientFromClient(c *genai.Client, model string) *GeminiImageClient {
	return &GeminiImageClient{client: c, model: model, imageOnly: true}
}

// NewGeminiMultimodalClientFromClient builds a client for a general model
// called with its default configuration, used as fallback.
func NewGeminiMultimodalClientFromClient(c *genai.Client, model string) *GeminiImageClient {
	return &GeminiImageClient{client: c, model: model}
}

func (g *GeminiImageClient) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GeneratedImage, error) {
	if req.Source == nil || len(req.Source.Data) == 0 {
		return nil, fmt.Errorf("%w: missing source image", entity.ErrInvalidRequest)
	}
	mimeType := req.Source.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(req.Prompt),
			genai.NewPartFromBytes(req.Source.Data, mimeType),
		}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, g.config())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.model, err)
	}

	payload, err := ExtractImagePayload(result)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.model, err)
	}
	return &entity.GeneratedImage{Payload: payload, Model: g.model}, nil
}

func (g *GeminiImageClient) config() *genai.GenerateContentConfig {
	if !g.imageOnly {
		return nil
	}
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: ImageAspectRatio,
			ImageSize:   ImageSize,
		},
	}
}

// ExtractImagePayload finds the first image in a model answer. Inline blobs
// become direct payloads; text parts carrying a base64 data URI become
// encoded payloads.
func ExtractImagePayload(resp *genai.GenerateContentResponse) (entity.ImagePayload, error) {
	if resp == nil {
		return entity.ImagePayload{}, entity.ErrNoImageInResponse
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return entity.DirectPayload(part.InlineData.Data, part.InlineData.MIMEType), nil
			}
			if uri, ok := findDataURI(part.Text); ok {
				return entity.EncodedPayload(uri, ""), nil
			}
		}
	}
	return entity.ImagePayload{}, entity.ErrNoImageInResponse
}

func findDataURI(text string) (string, bool) {
	start := strings.Index(text, "data:image/")
	if start < 0 {
		return "", false
	}
	uri := text[start:]
	if end := strings.IndexAny(uri, " \n\t)\"'"); end >= 0 {
		uri = uri[:end]
	}
	if !strings.Contains(uri, ";base64,") {
		return "", false
	}
	return uri, true
}
