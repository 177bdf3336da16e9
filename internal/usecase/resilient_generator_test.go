package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"immobiliare-core/internal/domain/entity"
)

func genRequest(url string) entity.GenerationRequest {
	return entity.GenerationRequest{Prompt: "renovate", Source: &entity.SourceImage{URL: url}}
}

func TestResilientGenerator_PrimarySucceeds(t *testing.T) {
	primary := &fakeGenerator{model: "primary"}
	fallback := &fakeGenerator{model: "fallback"}
	r := NewResilientGenerator(primary, fallback, time.Second)

	img, err := r.Generate(context.Background(), genRequest("a.jpg"))
	require.NoError(t, err)
	require.Equal(t, "primary", img.Model)
	require.False(t, img.FallbackUsed)
	require.Equal(t, 0, fallback.callCount())
}

func TestResilientGenerator_FallsBackOnce(t *testing.T) {
	primary := &fakeGenerator{model: "primary", err: errBoom}
	fallback := &fakeGenerator{model: "fallback"}
	r := NewResilientGenerator(primary, fallback, time.Second)

	img, err := r.Generate(context.Background(), genRequest("a.jpg"))
	require.NoError(t, err)
	require.Equal(t, "fallback", img.Model)
	require.True(t, img.FallbackUsed)
	require.Equal(t, 1, primary.callCount())
	require.Equal(t, 1, fallback.callCount())
}

func TestResilientGenerator_BothFail(t *testing.T) {
	primary := &fakeGenerator{model: "primary", err: errBoom}
	fallback := &fakeGenerator{model: "fallback", err: errBoom}
	r := NewResilientGenerator(primary, fallback, time.Second)

	_, err := r.Generate(context.Background(), genRequest("a.jpg"))
	require.ErrorIs(t, err, entity.ErrAllModelsFailed)
	require.ErrorIs(t, err, errBoom)

	var failure *entity.TaskFailure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, entity.StageGeneratingFallback, failure.Stage)
	require.Equal(t, 1, primary.callCount())
	require.Equal(t, 1, fallback.callCount())
}

func TestResilientGenerator_EmptyPayloadCountsAsFailure(t *testing.T) {
	r := NewResilientGenerator(emptyGenerator{}, nil, time.Second)
	_, err := r.Generate(context.Background(), genRequest("a.jpg"))
	require.ErrorIs(t, err, entity.ErrNoImageInResponse)
}

type emptyGenerator struct{}

func (emptyGenerator) Generate(context.Context, entity.GenerationRequest) (*entity.GeneratedImage, error) {
	return &entity.GeneratedImage{Model: "empty"}, nil
}
