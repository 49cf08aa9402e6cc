package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/parcel-bot/internal/models"
	"github.com/xaenox/parcel-bot/internal/storage"
	"go.uber.org/zap"
)

// historyLimit is the size of the conversation memory window.
const historyLimit = 5

// recentHistory loads the memory window best-effort: a read failure degrades
// to an empty history instead of failing the request.
func recentHistory(ctx context.Context, store storage.Storage, logger *zap.Logger) []models.Interaction {
	interactions, err := store.GetRecentInteractions(ctx, historyLimit)
	if err != nil {
		logger.Warn("Failed to load conversation history", zap.Error(err))
		return nil
	}
	return interactions
}

// saveInteraction appends to the memory log best-effort and reports success.
func saveInteraction(ctx context.Context, store storage.Storage, logger *zap.Logger, question, response string) bool {
	interaction := &models.Interaction{
		ID:              uuid.New(),
		Question:        question,
		Response:        response,
		InteractionTime: time.Now(),
	}
	if err := store.SaveInteraction(ctx, interaction); err != nil {
		logger.Error("Failed to save interaction", zap.Error(err))
		return false
	}
	return true
}
