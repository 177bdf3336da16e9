package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"immobiliare-core/internal/domain/entity"
)

func newTestRenovation(gen *fakeGenerator, fetcher *fakeFetcher, policy entity.GalleryPolicy) *RenovationService {
	return NewRenovationService(NewDispatcher(fetcher, gen, &fakeImageStore{}, MaxParallelImages), DefaultStyleCosts, policy)
}

func TestRenovate_SingleRoom(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := newTestRenovation(&fakeGenerator{model: "primary"}, fetcher, entity.GalleryCompact)

	res := svc.Renovate(context.Background(), entity.RenovationRequest{
		ImageURL:      "http://img/room",
		GalleryImages: []string{"http://img/x", "http://img/y"},
		Mode:          entity.ModeRoom,
		Style:         "Industrial",
		Sqm:           90,
	})
	require.Equal(t, "http://cdn/http://img/room.png", res.PrimaryResultURL)
	require.Equal(t, []string{res.PrimaryResultURL}, res.GalleryResultURLs)
	require.Equal(t, 13500, res.CostEstimateLow)
	require.Equal(t, 16500, res.CostEstimateHigh)
	require.Equal(t, []string{"http://img/room"}, fetcher.fetchedURLs())
	require.Len(t, res.ContractorQuotes, 3)
	require.Equal(t, 13500, res.ContractorQuotes[0].Price)
}

func TestRenovate_HouseUsesGallery(t *testing.T) {
	fetcher := &fakeFetcher{}
	gen := &fakeGenerator{model: "primary"}
	svc := newTestRenovation(gen, fetcher, entity.GalleryCompact)

	res := svc.Renovate(context.Background(), entity.RenovationRequest{
		ImageURL:      "http://img/main",
		GalleryImages: urls(6),
		Mode:          entity.ModeHouse,
		Style:         "Modern",
		Sqm:           100,
	})
	require.Len(t, res.GalleryResultURLs, 4)
	require.Equal(t, res.GalleryResultURLs[0], res.PrimaryResultURL)
	require.Equal(t, 72000, res.CostEstimateLow)
	require.Equal(t, 88000, res.CostEstimateHigh)
	require.Equal(t, 96000, res.ContractorQuotes[2].Price)
	require.NotContains(t, fetcher.fetchedURLs(), "http://img/main")
	require.Equal(t, 4, gen.callCount())
}

func TestRenovate_HouseWithoutGalleryFallsBackToSingleImage(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := newTestRenovation(&fakeGenerator{model: "primary"}, fetcher, entity.GalleryCompact)

	res := svc.Renovate(context.Background(), entity.RenovationRequest{ImageURL: "http://img/main", Mode: entity.ModeHouse})
	require.Equal(t, "http://cdn/http://img/main.png", res.PrimaryResultURL)
	require.Equal(t, []string{"http://img/main"}, fetcher.fetchedURLs())
	// defaults: Modern, 80 sqm
	require.Equal(t, 57600, res.CostEstimateLow)
	require.Equal(t, 70400, res.CostEstimateHigh)
}

func TestRenovate_AllFailedStillAnswers(t *testing.T) {
	svc := newTestRenovation(&fakeGenerator{model: "primary", err: errBoom}, &fakeFetcher{}, entity.GalleryPlaceholder)

	res := svc.Renovate(context.Background(), entity.RenovationRequest{
		GalleryImages: urls(3),
		Mode:          entity.ModeHouse,
		Style:         "Boho",
		Sqm:           50,
	})
	require.Equal(t, entity.PlaceholderImageURL, res.PrimaryResultURL)
	require.Empty(t, res.GalleryResultURLs)
	require.NotNil(t, res.GalleryResultURLs)
	require.Equal(t, 45000, res.CostEstimateLow)
	require.Equal(t, 55000, res.CostEstimateHigh)
}

func TestRenovate_SingleRoomFailure(t *testing.T) {
	svc := newTestRenovation(&fakeGenerator{model: "primary", err: errBoom}, &fakeFetcher{}, entity.GalleryCompact)

	res := svc.Renovate(context.Background(), entity.RenovationRequest{ImageURL: "http://img/room"})
	require.Equal(t, entity.PlaceholderImageURL, res.PrimaryResultURL)
	require.Empty(t, res.GalleryResultURLs)
}
