package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"immobiliare-core/internal/domain/entity"
	"immobiliare-core/internal/domain/repository"
)

// ResilientGenerator tries the primary image model once and, on failure, the
// fallback model once. There is no retry and no backoff between the two.
type ResilientGenerator struct {
	primary  repository.ImageGenerator
	fallback repository.ImageGenerator
	timeout  time.Duration // per model call
}

func NewResilientGenerator(primary, fallback repository.ImageGenerator, timeout time.Duration) *ResilientGenerator {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ResilientGenerator{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
	}
}

func (r *ResilientGenerator) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GeneratedImage, error) {
	img, err := r.attempt(ctx, r.primary, req)
	if err == nil {
		return img, nil
	}

	log.Warn().Err(err).Str("component", "RELIABILITY").Msg("primary image model failed, switching to fallback")
	if r.fallback == nil {
		return nil, &entity.TaskFailure{Stage: entity.StageGeneratingPrimary, Err: err}
	}

	img, fbErr := r.attempt(ctx, r.fallback, req)
	if fbErr != nil {
		return nil, &entity.TaskFailure{
			Stage: entity.StageGeneratingFallback,
			Err:   fmt.Errorf("%w: primary: %v; fallback: %w", entity.ErrAllModelsFailed, err, fbErr),
		}
	}
	img.FallbackUsed = true
	return img, nil
}

func (r *ResilientGenerator) attempt(ctx context.Context, g repository.ImageGenerator, req entity.GenerationRequest) (*entity.GeneratedImage, error) {
	// each model call gets its own deadline
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	img, err := g.Generate(callCtx, req)
	if err != nil {
		return nil, err
	}
	if img == nil || img.Payload.IsZero() {
		return nil, entity.ErrNoImageInResponse
	}
	return img, nil
}
