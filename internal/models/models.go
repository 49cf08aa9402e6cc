package models

import (
	"time"

	"github.com/google/uuid"
)

// Intent is the classified purpose of an inbound message.
type Intent string

const (
	IntentTrackPackages    Intent = "track_packages"
	IntentUpdateUsersData  Intent = "update_users_data"
	IntentShippingGuidance Intent = "shipping_guidance"
	IntentLostPackages     Intent = "lost_packages"
)

// ClassificationResult is the structured output of the intent classifier.
type ClassificationResult struct {
	RequestType     Intent  `json:"request_type"`
	ConfidenceScore float64 `json:"confidence_score"`
	Description     string  `json:"description"`
}

// Known reports whether the intent is one of the four supported values. An
// unknown intent is not a validation error here: the router answers it with
// its fixed fallback message.
func (i Intent) Known() bool {
	switch i {
	case IntentTrackPackages, IntentUpdateUsersData, IntentShippingGuidance, IntentLostPackages:
		return true
	}
	return false
}

// Validate range-checks the confidence locally; the provider-side schema
// enforcement is treated as best-effort.
func (r *ClassificationResult) Validate() error {
	return validConfidence(r.ConfidenceScore)
}

// Interaction is one question/response pair of the conversation memory log.
type Interaction struct {
	ID              uuid.UUID `json:"id"`
	Question        string    `json:"question"`
	Response        string    `json:"response"`
	InteractionTime time.Time `json:"interaction_time"`
}

// TrackingRecord is a row of the package_tracking table, owned by the
// external tracking system and read-only here.
type TrackingRecord struct {
	TrackingCode string    `json:"tracking_code"`
	Status       string    `json:"status"`
	LastUpdate   time.Time `json:"last_update"`
	Location     string    `json:"location"`
	WeightKg     float64   `json:"weight_kg"`
	ShippingType string    `json:"shipping_type"`
}

// UserProfile is a row of the users table. Only address and city are ever
// written by this service.
type UserProfile struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	PostalCode  string    `json:"postal_code"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"created_at"`
}
