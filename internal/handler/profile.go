package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/xaenox/parcel-bot/internal/extractor"
	"github.com/xaenox/parcel-bot/internal/models"
	"github.com/xaenox/parcel-bot/internal/storage"
	"go.uber.org/zap"
)

// ProfileHandler applies allow-listed user profile field updates.
type ProfileHandler struct {
	storage   storage.Storage
	extractor extractor.ProfileExtractor
	logger    *zap.Logger
}

func NewProfileHandler(store storage.Storage, ext extractor.ProfileExtractor, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		storage:   store,
		extractor: ext,
		logger:    logger,
	}
}

// Handle extracts the field update and applies it for the given user. A nil
// result means the request could not be processed; nothing is written and no
// interaction is recorded in that case.
func (h *ProfileHandler) Handle(ctx context.Context, userInput string, userID uuid.UUID) *models.ProfileUpdateExtraction {
	history := recentHistory(ctx, h.storage, h.logger)

	result, err := h.extractor.Extract(ctx, userInput, history)
	if err != nil {
		h.logger.Error("Failed to extract profile update",
			zap.Error(err),
			zap.String("user_id", userID.String()))
		return nil
	}

	// The allow-list is checked again here so that no out-of-range field
	// ever reaches the storage layer.
	if !result.FieldType.Valid() {
		h.logger.Error("Profile field outside allow-list",
			zap.String("field_type", string(result.FieldType)),
			zap.String("user_id", userID.String()))
		return nil
	}

	if err := h.storage.UpdateUserField(ctx, userID, result.FieldType, result.FieldValue); err != nil {
		h.logger.Error("Failed to update user profile",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("field_type", string(result.FieldType)))
		return nil
	}

	h.logger.Info("Updated user profile",
		zap.String("user_id", userID.String()),
		zap.String("field_type", string(result.FieldType)))

	// Only recorded after the update succeeded; a failed append is logged
	// inside saveInteraction but does not undo the update.
	saveInteraction(ctx, h.storage, h.logger, userInput, result.Description)

	return result
}
