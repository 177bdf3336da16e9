package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"immobiliare-core/internal/domain/repository"
)

// IndexStats summarises one indexing run.
type IndexStats struct {
	Indexed   int
	Described int
	Failed    int
}

// PropertyIndexer derives the vector index from the property database. When a
// describer is set, properties without an AI description get one first.
type PropertyIndexer struct {
	catalog   repository.PropertyCatalog
	embedder  repository.Embedder
	index     repository.PropertyIndex
	describer repository.ListingDescriber
	writer    repository.DescriptionWriter
}

func NewPropertyIndexer(catalog repository.PropertyCatalog, embedder repository.Embedder, index repository.PropertyIndex) *PropertyIndexer {
	return &PropertyIndexer{catalog: catalog, embedder: embedder, index: index}
}

// WithDescriber enables description backfill before embedding.
func (ix *PropertyIndexer) WithDescriber(d repository.ListingDescriber, w repository.DescriptionWriter) *PropertyIndexer {
	ix.describer = d
	ix.writer = w
	return ix
}

// Run indexes every property. A property that fails is logged and skipped;
// only a failure to list properties aborts the run.
func (ix *PropertyIndexer) Run(ctx context.Context) (IndexStats, error) {
	var stats IndexStats
	props, err := ix.catalog.ListProperties(ctx)
	if err != nil {
		return stats, fmt.Errorf("list properties: %w", err)
	}

	for _, p := range props {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if ix.describer != nil && strings.TrimSpace(p.DescriptionAI) == "" {
			desc, err := ix.describer.Describe(ctx, p)
			if err != nil {
				log.Warn().Err(err).Str("component", "INDEXER").Str("property_id", p.ID).Msg("description failed, indexing without it")
			} else if err := ix.writer.SetDescriptionAI(ctx, p.ID, desc); err != nil {
				log.Warn().Err(err).Str("component", "INDEXER").Str("property_id", p.ID).Msg("could not store description")
			} else {
				p.DescriptionAI = desc
				stats.Described++
			}
		}

		vector, err := ix.embedder.CreateEmbedding(ctx, p.SearchText())
		if err != nil {
			stats.Failed++
			log.Error().Err(err).Str("component", "INDEXER").Str("property_id", p.ID).Msg("embedding failed")
			continue
		}
		if err := ix.index.Save(ctx, p, vector); err != nil {
			stats.Failed++
			log.Error().Err(err).Str("component", "INDEXER").Str("property_id", p.ID).Msg("upsert failed")
			continue
		}
		stats.Indexed++
	}
	return stats, nil
}
