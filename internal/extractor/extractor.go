package extractor

import (
	"context"

	"github.com/xaenox/parcel-bot/internal/models"
)

// TrackingExtractor pulls a PKG tracking code out of free text.
type TrackingExtractor interface {
	Extract(ctx context.Context, userInput string, history []models.Interaction) (*models.TrackingExtraction, error)
}

// ProfileExtractor pulls a profile field update out of free text.
type ProfileExtractor interface {
	Extract(ctx context.Context, userInput string, history []models.Interaction) (*models.ProfileUpdateExtraction, error)
}
