package classifier

import (
	"context"

	"github.com/xaenox/parcel-bot/internal/models"
)

// Classifier maps raw user text to one of the supported intents.
type Classifier interface {
	Classify(ctx context.Context, userInput string, history []models.Interaction) (*models.ClassificationResult, error)
}
