package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"immobiliare-core/internal/domain/entity"
)

// propertyNamespace derives stable point ids so re-indexing a property overwrites its point.
var propertyNamespace = uuid.MustParse("6f1c2a8e-3b7d-4e59-9a40-2d8f5c1b7e63")

// QdrantIndex is the vector index behind semantic property search.
type QdrantIndex struct {
	client         *qdrant.Client
	collectionName string
}

func NewQdrantIndex(client *qdrant.Client, collectionName string) *QdrantIndex {
	return &QdrantIndex{
		client:         client,
		collectionName: collectionName,
	}
}

// InitCollection creates the collection on first use and indexes the zone
// payload field.
func (s *QdrantIndex) InitCollection(ctx context.Context, dim uint64) error {
	_, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err != nil {
		st, ok := status.FromError(err)
		if !ok || st.Code() != codes.NotFound {
			return fmt.Errorf("get collection %s: %w", s.collectionName, err)
		}
		err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     dim,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("create collection %s: %w", s.collectionName, err)
		}
		log.Info().Str("component", "QDRANT").Str("collection", s.collectionName).Uint64("dim", dim).Msg("collection created")
	}

	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collectionName,
		FieldName:      "zone",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		log.Warn().Err(err).Str("component", "QDRANT").Msg("could not create zone index (might already exist)")
	}
	return nil
}

func (s *QdrantIndex) Search(ctx context.Context, vector []float32, limit int) ([]entity.PropertyHit, error) {
	if limit <= 0 {
		limit = 5
	}
	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.collectionName, err)
	}

	hits := make([]entity.PropertyHit, 0, len(res))
	for _, point := range res {
		payload := point.GetPayload()
		hits = append(hits, entity.PropertyHit{
			PropertyID: payload["property_id"].GetStringValue(),
			Title:      payload["title"].GetStringValue(),
			Zone:       payload["zone"].GetStringValue(),
			Price:      int(payload["price"].GetIntegerValue()),
			Score:      point.GetScore(),
		})
	}
	return hits, nil
}

func (s *QdrantIndex) Save(ctx context.Context, p entity.Property, vector []float32) error {
	payload, err := qdrant.TryValueMap(map[string]any{
		"property_id": p.ID,
		"title":       p.Title,
		"zone":        p.Zone,
		"price":       p.Price,
	})
	if err != nil {
		return fmt.Errorf("build payload for %s: %w", p.ID, err)
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(PointID(p.ID)),
				Vectors: qdrant.NewVectors(vector...),
				Payload: payload,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upsert %s: %w", p.ID, err)
	}
	return nil
}

// PointID maps a property id onto the UUID qdrant stores it under.
func PointID(propertyID string) string {
	return uuid.NewSHA1(propertyNamespace, []byte(propertyID)).String()
}
