package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/xaenox/parcel-bot/internal/models"
)

// Storage is the relational persistence port used by the handlers.
type Storage interface {
	// GetRecentInteractions returns up to limit question/response pairs,
	// most recent first.
	GetRecentInteractions(ctx context.Context, limit int) ([]models.Interaction, error)
	// SaveInteraction appends one entry to the conversation memory log.
	SaveInteraction(ctx context.Context, interaction *models.Interaction) error
	// GetLatestTracking returns the most recent record for a tracking code,
	// or nil when the code is unknown.
	GetLatestTracking(ctx context.Context, trackingCode string) (*models.TrackingRecord, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	// UpdateUserField writes exactly one allow-listed profile column.
	UpdateUserField(ctx context.Context, userID uuid.UUID, field models.ProfileField, value string) error
	Close() error
}
