package handler

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xaenox/parcel-bot/internal/models"
)

// fakeStorage records calls so tests can assert what reached the storage
// layer and when.
type fakeStorage struct {
	interactions []models.Interaction
	tracking     map[string]*models.TrackingRecord
	users        map[uuid.UUID]*models.UserProfile

	historyErr  error
	saveErr     error
	trackingErr error
	updateErr   error

	updateCalls int
	saveCalls   int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		tracking: make(map[string]*models.TrackingRecord),
		users:    make(map[uuid.UUID]*models.UserProfile),
	}
}

func (f *fakeStorage) GetRecentInteractions(ctx context.Context, limit int) ([]models.Interaction, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if len(f.interactions) > limit {
		return f.interactions[:limit], nil
	}
	return f.interactions, nil
}

func (f *fakeStorage) SaveInteraction(ctx context.Context, interaction *models.Interaction) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.interactions = append([]models.Interaction{*interaction}, f.interactions...)
	return nil
}

func (f *fakeStorage) GetLatestTracking(ctx context.Context, trackingCode string) (*models.TrackingRecord, error) {
	if f.trackingErr != nil {
		return nil, f.trackingErr
	}
	return f.tracking[trackingCode], nil
}

func (f *fakeStorage) GetUser(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	return f.users[userID], nil
}

func (f *fakeStorage) UpdateUserField(ctx context.Context, userID uuid.UUID, field models.ProfileField, value string) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	user, exists := f.users[userID]
	if !exists {
		return errors.New("user not found")
	}
	switch field {
	case models.FieldAddress:
		user.Address = value
	case models.FieldCity:
		user.City = value
	default:
		return &models.ValidationError{Field: "field_type", Value: string(field)}
	}
	return nil
}

func (f *fakeStorage) Close() error {
	return nil
}

type fakeTrackingExtractor struct {
	result *models.TrackingExtraction
	err    error
}

func (f *fakeTrackingExtractor) Extract(ctx context.Context, userInput string, history []models.Interaction) (*models.TrackingExtraction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeProfileExtractor struct {
	result *models.ProfileUpdateExtraction
	err    error
}

func (f *fakeProfileExtractor) Extract(ctx context.Context, userInput string, history []models.Interaction) (*models.ProfileUpdateExtraction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
