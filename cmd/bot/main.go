package main

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/parcel-bot/internal/classifier"
	"github.com/xaenox/parcel-bot/internal/extractor"
	"github.com/xaenox/parcel-bot/internal/handler"
	"github.com/xaenox/parcel-bot/internal/llm"
	"github.com/xaenox/parcel-bot/internal/retriever"
	"github.com/xaenox/parcel-bot/internal/router"
	"github.com/xaenox/parcel-bot/internal/storage"
	"github.com/xaenox/parcel-bot/internal/webhook"
	"github.com/xaenox/parcel-bot/internal/whatsapp"
	"github.com/xaenox/parcel-bot/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	defaultUserID, err := uuid.Parse(cfg.Server.DefaultUserID)
	if err != nil {
		logger.Fatal("Invalid default user id", zap.Error(err), zap.String("default_user_id", cfg.Server.DefaultUserID))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize OpenAI client and vector index
	openaiClient := openai.NewClient(cfg.OpenAI.APIKey)
	embedder := llm.NewOpenAIEmbedder(openaiClient, cfg.OpenAI.EmbeddingModel)

	index, err := retriever.NewQdrantIndex(cfg.Qdrant.Host, cfg.Qdrant.Port)
	if err != nil {
		logger.Fatal("Failed to initialize vector index", zap.Error(err))
	}
	defer index.Close()

	knowledge := retriever.New(index, embedder, logger)

	// Initialize the message pipeline
	clf := classifier.NewGPTClassifier(
		openaiClient,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.Temperature,
		logger,
	)

	trackingHandler := handler.NewTrackingHandler(
		store,
		extractor.NewGPTTrackingExtractor(openaiClient, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens, cfg.OpenAI.Temperature, logger),
		logger,
	)
	profileHandler := handler.NewProfileHandler(
		store,
		extractor.NewGPTProfileExtractor(openaiClient, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens, cfg.OpenAI.Temperature, logger),
		logger,
	)
	policyHandler := handler.NewPolicyHandler(openaiClient, knowledge, store, cfg.OpenAI.Model, logger)

	rtr := router.New(clf, trackingHandler, profileHandler, policyHandler, store, logger)

	// Initialize outbound transport and webhook
	sender := whatsapp.NewClient(
		cfg.WhatsApp.AccessToken,
		cfg.WhatsApp.PhoneNumberID,
		cfg.WhatsApp.APIVersion,
		logger,
	)

	h := webhook.NewHandler(webhook.Deps{
		Router:        rtr,
		Sender:        sender,
		VerifyToken:   cfg.WhatsApp.VerifyToken,
		DefaultUserID: defaultUserID,
		Logger:        logger,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting webhook server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, h); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
