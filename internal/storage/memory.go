package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/xaenox/parcel-bot/internal/models"
)

// MemoryStorage is an in-memory Storage used for local runs and tests.
type MemoryStorage struct {
	mu           sync.RWMutex
	interactions []models.Interaction
	tracking     map[string][]models.TrackingRecord
	users        map[uuid.UUID]*models.UserProfile
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tracking: make(map[string][]models.TrackingRecord),
		users:    make(map[uuid.UUID]*models.UserProfile),
	}
}

func (s *MemoryStorage) GetRecentInteractions(ctx context.Context, limit int) ([]models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := make([]models.Interaction, len(s.interactions))
	copy(recent, s.interactions)

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].InteractionTime.After(recent[j].InteractionTime)
	})

	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

func (s *MemoryStorage) SaveInteraction(ctx context.Context, interaction *models.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interactions = append(s.interactions, *interaction)
	return nil
}

func (s *MemoryStorage) GetLatestTracking(ctx context.Context, trackingCode string) (*models.TrackingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, exists := s.tracking[trackingCode]
	if !exists || len(records) == 0 {
		return nil, nil
	}

	latest := records[0]
	for _, record := range records[1:] {
		if record.LastUpdate.After(latest.LastUpdate) {
			latest = record
		}
	}
	return &latest, nil
}

// AddTracking seeds a tracking record; not part of the Storage interface.
func (s *MemoryStorage) AddTracking(record models.TrackingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracking[record.TrackingCode] = append(s.tracking[record.TrackingCode], record)
}

func (s *MemoryStorage) GetUser(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

// AddUser seeds a user profile; not part of the Storage interface.
func (s *MemoryStorage) AddUser(user models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.UserID] = &user
}

func (s *MemoryStorage) UpdateUserField(ctx context.Context, userID uuid.UUID, field models.ProfileField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return fmt.Errorf("user not found")
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

func (s *MemoryStorage) Close() error {
	return nil
}
