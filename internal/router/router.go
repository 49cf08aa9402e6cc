package router

import (
	"context"

	"github.com/google/uuid"
	"github.com/xaenox/parcel-bot/internal/classifier"
	"github.com/xaenox/parcel-bot/internal/models"
	"go.uber.org/zap"
)

// FallbackMessage is returned when the classified intent is outside the
// known set.
const FallbackMessage = "I'm unable to process that request. Can you provide more details?"

// ErrorMessage is the only text surfaced to the user when something fails;
// the underlying error is logged, never exposed.
const ErrorMessage = "An error occurred while processing your request. Please try again later."

// TrackingHandler answers tracking requests; it never fails outward.
type TrackingHandler interface {
	Handle(ctx context.Context, userInput string) string
}

// ProfileHandler applies a profile update; nil means it could not be processed.
type ProfileHandler interface {
	Handle(ctx context.Context, userInput string, userID uuid.UUID) *models.ProfileUpdateExtraction
}

// PolicyHandler produces a retrieval-augmented policy answer.
type PolicyHandler interface {
	Handle(ctx context.Context, userInput string) (*models.PolicyAnswer, error)
}

// Router classifies an inbound message and dispatches it to a handler.
type Router struct {
	classifier classifier.Classifier
	tracking   TrackingHandler
	profile    ProfileHandler
	policy     PolicyHandler
	history    HistoryProvider
	logger     *zap.Logger
}

// HistoryProvider supplies the memory window used to condition classification.
type HistoryProvider interface {
	GetRecentInteractions(ctx context.Context, limit int) ([]models.Interaction, error)
}

func New(clf classifier.Classifier, tracking TrackingHandler, profile ProfileHandler, policy PolicyHandler, history HistoryProvider, logger *zap.Logger) *Router {
	return &Router{
		classifier: clf,
		tracking:   tracking,
		profile:    profile,
		policy:     policy,
		history:    history,
		logger:     logger,
	}
}

// Route runs the full pipeline for one inbound message and returns the reply
// text. It never returns an error; failures collapse into ErrorMessage.
func (r *Router) Route(ctx context.Context, userInput string, userID uuid.UUID) string {
	history, err := r.history.GetRecentInteractions(ctx, 5)
	if err != nil {
		r.logger.Warn("Failed to load conversation history", zap.Error(err))
		history = nil
	}

	result, err := r.classifier.Classify(ctx, userInput, history)
	if err != nil {
		r.logger.Error("Error handling request", zap.Error(err))
		return ErrorMessage
	}

	switch result.RequestType {
	case models.IntentTrackPackages:
		return r.tracking.Handle(ctx, userInput)

	case models.IntentUpdateUsersData:
		update := r.profile.Handle(ctx, userInput, userID)
		if update == nil {
			return ErrorMessage
		}
		return update.Description

	case models.IntentShippingGuidance, models.IntentLostPackages:
		answer, err := r.policy.Handle(ctx, userInput)
		if err != nil {
			r.logger.Error("Error handling request", zap.Error(err))
			return ErrorMessage
		}
		return answer.Answer

	default:
		return FallbackMessage
	}
}
