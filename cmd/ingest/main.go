package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/parcel-bot/internal/llm"
	"github.com/xaenox/parcel-bot/internal/models"
	"github.com/xaenox/parcel-bot/internal/retriever"
	"github.com/xaenox/parcel-bot/internal/splitter"
	"github.com/xaenox/parcel-bot/pkg/config"
	"go.uber.org/zap"
)

// Policy documents and the collections they are ingested into.
var documents = map[models.Collection]string{
	models.CollectionLostPackagePolicy:   "lost_package_policy.md",
	models.CollectionShippingInformation: "shipping_information.md",
}

// Chunks the policy documents, embeds each chunk and uploads the vectors
// into the Qdrant collections used by the policy handler.
func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	dataDir := flag.String("data", "data/policies", "directory holding the policy markdown files")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", *configPath))
	}

	openaiClient := openai.NewClient(cfg.OpenAI.APIKey)
	embedder := llm.NewOpenAIEmbedder(openaiClient, cfg.OpenAI.EmbeddingModel)

	index, err := retriever.NewQdrantIndex(cfg.Qdrant.Host, cfg.Qdrant.Port)
	if err != nil {
		logger.Fatal("Failed to initialize vector index", zap.Error(err))
	}
	defer index.Close()

	ctx := context.Background()
	split := splitter.New()

	for collection, filename := range documents {
		path := filepath.Join(*dataDir, filename)
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal("Failed to read policy document", zap.Error(err), zap.String("path", path))
		}

		if err := index.EnsureCollection(ctx, string(collection), cfg.Qdrant.VectorDim); err != nil {
			logger.Fatal("Failed to create collection", zap.Error(err), zap.String("collection", string(collection)))
		}

		chunks := split.Split(string(content))
		points := make([]retriever.Chunk, 0, len(chunks))
		for _, chunk := range chunks {
			vector, err := embedder.Embed(ctx, chunk)
			if err != nil {
				logger.Fatal("Failed to embed chunk", zap.Error(err), zap.String("collection", string(collection)))
			}
			points = append(points, retriever.Chunk{
				ID:     uuid.New().String(),
				Vector: vector,
				Text:   chunk,
			})
		}

		if err := index.UpsertChunks(ctx, string(collection), points); err != nil {
			logger.Fatal("Failed to upload chunks", zap.Error(err), zap.String("collection", string(collection)))
		}

		logger.Info("Ingested policy document",
			zap.String("collection", string(collection)),
			zap.String("file", filename),
			zap.Int("chunks", len(points)))
	}
}
