package retriever

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantIndex implements VectorIndex against a Qdrant instance over gRPC.
type QdrantIndex struct {
	client *qdrant.Client
}

func NewQdrantIndex(host string, port int) (*QdrantIndex, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return &QdrantIndex{client: client}, nil
}

func (q *QdrantIndex) Search(ctx context.Context, collection string, vector []float32, limit uint64) ([]Result, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}

	results := make([]Result, 0, len(points))
	for _, point := range points {
		var text string
		if value, ok := point.Payload["text"]; ok {
			text = value.GetStringValue()
		}
		results = append(results, Result{
			Score: point.Score,
			Text:  text,
		})
	}
	return results, nil
}

// EnsureCollection creates a cosine-distance collection if it does not exist.
func (q *QdrantIndex) EnsureCollection(ctx context.Context, collection string, vectorDim uint64) error {
	exists, err := q.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorDim,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", collection, err)
	}
	return nil
}

// Chunk is one embedded passage of a policy document.
type Chunk struct {
	ID     string
	Vector []float32
	Text   string
}

// UpsertChunks uploads embedded document chunks into a collection.
func (q *QdrantIndex) UpsertChunks(ctx context.Context, collection string, chunks []Chunk) error {
	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ID),
			Vectors: qdrant.NewVectors(chunk.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{"text": chunk.Text}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert into collection %s: %w", collection, err)
	}
	return nil
}

func (q *QdrantIndex) Close() error {
	return q.client.Close()
}
