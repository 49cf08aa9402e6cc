package handler

import (
	"context"
	"fmt"

	"github.com/xaenox/parcel-bot/internal/extractor"
	"github.com/xaenox/parcel-bot/internal/storage"
	"go.uber.org/zap"
)

const trackingApology = "⚠️ An error occurred while processing your request. Please try again later."

const trackingFoundTemplate = `📦 *Package Tracking Details* 📦

🕒 *Last Update:* %s
🚀 *Status:* %s
📍 *Location:* %s
📦 *Shipping Type:* %s

🔍 Check back for real-time updates!`

const trackingNotFoundResponse = `❌ *Tracking Error* ❌

⚠️ The tracking code you entered does not exist or has no updates available.
Please double-check the code and try again.`

// TrackingHandler answers package tracking requests.
type TrackingHandler struct {
	storage   storage.Storage
	extractor extractor.TrackingExtractor
	logger    *zap.Logger
}

func NewTrackingHandler(store storage.Storage, ext extractor.TrackingExtractor, logger *zap.Logger) *TrackingHandler {
	return &TrackingHandler{
		storage:   store,
		extractor: ext,
		logger:    logger,
	}
}

// Handle extracts the tracking code, looks up the latest record and renders
// the reply. Extraction or lookup failures become a fixed apology and leave
// no interaction row behind.
func (h *TrackingHandler) Handle(ctx context.Context, userInput string) string {
	history := recentHistory(ctx, h.storage, h.logger)

	result, err := h.extractor.Extract(ctx, userInput, history)
	if err != nil {
		h.logger.Error("Failed to extract tracking code", zap.Error(err))
		return trackingApology
	}

	record, err := h.storage.GetLatestTracking(ctx, result.TrackingCode)
	if err != nil {
		h.logger.Error("Failed to fetch tracking info",
			zap.Error(err),
			zap.String("tracking_code", result.TrackingCode))
		return trackingApology
	}

	// Recorded regardless of whether the code matched anything.
	saveInteraction(ctx, h.storage, h.logger, userInput, result.Description)

	if record == nil {
		return trackingNotFoundResponse
	}

	return fmt.Sprintf(trackingFoundTemplate,
		record.LastUpdate.Format("2006-01-02 15:04:05"),
		record.Status,
		record.Location,
		record.ShippingType)
}
