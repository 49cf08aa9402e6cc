package retriever

import (
	"context"
	"strings"

	"github.com/xaenox/parcel-bot/internal/llm"
	"github.com/xaenox/parcel-bot/internal/models"
	"go.uber.org/zap"
)

// DefaultLimit is the number of nearest neighbours requested per search.
const DefaultLimit uint64 = 3

// Fixed payloads returned instead of errors; retrieval failure must never
// crash the pipeline.
const (
	NoPoliciesAnswer     = "No relevant company policies found."
	RetrievalErrorAnswer = "An error occurred while retrieving company policies."
	missingTextFallback  = "No text available"
)

// Result is one scored passage returned by the vector index.
type Result struct {
	Score float32
	Text  string
}

// VectorIndex is the nearest-neighbour search port.
type VectorIndex interface {
	Search(ctx context.Context, collection string, vector []float32, limit uint64) ([]Result, error)
}

// SearchResponse is the payload fed back to the model as a tool result.
type SearchResponse struct {
	Answer string `json:"answer"`
}

// Retriever performs semantic search over the pre-chunked policy documents.
type Retriever struct {
	index    VectorIndex
	embedder llm.Embedder
	logger   *zap.Logger
}

func New(index VectorIndex, embedder llm.Embedder, logger *zap.Logger) *Retriever {
	return &Retriever{
		index:    index,
		embedder: embedder,
		logger:   logger,
	}
}

// Search encodes the query, fetches up to limit neighbours and assembles the
// answer from the top 2 passages regardless of the requested limit.
func (r *Retriever) Search(ctx context.Context, query string, collection models.Collection, limit uint64) SearchResponse {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.Error("Failed to embed query",
			zap.Error(err),
			zap.String("collection", string(collection)))
		return SearchResponse{Answer: RetrievalErrorAnswer}
	}

	results, err := r.index.Search(ctx, string(collection), vector, limit)
	if err != nil {
		r.logger.Error("Failed to search vector index",
			zap.Error(err),
			zap.String("collection", string(collection)))
		return SearchResponse{Answer: RetrievalErrorAnswer}
	}

	if len(results) == 0 {
		r.logger.Warn("No relevant company policies found",
			zap.String("collection", string(collection)))
		return SearchResponse{Answer: NoPoliciesAnswer}
	}

	if len(results) > 2 {
		results = results[:2]
	}

	texts := make([]string, 0, len(results))
	for _, result := range results {
		text := result.Text
		if text == "" {
			text = missingTextFallback
		}
		texts = append(texts, text)
	}

	r.logger.Info("Retrieved policy passages",
		zap.String("collection", string(collection)),
		zap.Int("passages", len(texts)))

	return SearchResponse{Answer: strings.Join(texts, "\n\n")}
}
