package usecase

import (
	"context"

	"github.com/rs/zerolog/log"

	"immobiliare-core/internal/domain/entity"
)

// RenovationService prices a renovation and renders it. It always answers:
// image failures degrade to the placeholder, never to an error.
type RenovationService struct {
	dispatcher *Dispatcher
	costs      StyleCostTable
	policy     entity.GalleryPolicy
}

func NewRenovationService(dispatcher *Dispatcher, costs StyleCostTable, policy entity.GalleryPolicy) *RenovationService {
	if policy != entity.GalleryPlaceholder {
		policy = entity.GalleryCompact
	}
	return &RenovationService{dispatcher: dispatcher, costs: costs, policy: policy}
}

func (s *RenovationService) Renovate(ctx context.Context, req entity.RenovationRequest) entity.RenovationResult {
	req.Normalize()
	log.Info().Str("component", "RENOVATE").Str("style", req.Style).Str("mode", string(req.Mode)).Msg("renovation request")

	// 1. Cost
	total := s.costs.Total(req.Style, req.Mode, req.Sqm)
	low, high := s.costs.Estimate(req.Style, req.Mode, req.Sqm)
	result := entity.RenovationResult{
		CostEstimateLow:  low,
		CostEstimateHigh: high,
		ContractorQuotes: ContractorQuotes(total),
	}

	// 2. Images
	if req.Mode == entity.ModeHouse && len(req.GalleryImages) > 0 {
		log.Info().Str("component", "RENOVATE").Int("images", len(req.GalleryImages)).Msg("starting parallel generation")
		outcomes := s.dispatcher.Dispatch(ctx, req.GalleryImages, req.Style, req.Prompt)
		result.PrimaryResultURL, result.GalleryResultURLs = Collect(outcomes, s.policy)
		return result
	}

	log.Info().Str("component", "RENOVATE").Msg("starting single generation")
	outcomes := s.dispatcher.Dispatch(ctx, []string{req.ImageURL}, req.Style, req.Prompt)
	result.PrimaryResultURL, result.GalleryResultURLs = Collect(outcomes, entity.GalleryCompact)
	return result
}
