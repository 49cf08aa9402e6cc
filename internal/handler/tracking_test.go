package handler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xaenox/parcel-bot/internal/models"
	"go.uber.org/zap"
)

func TestTrackingHandlerFound(t *testing.T) {
	store := newFakeStorage()
	lastUpdate := time.Date(2025, 3, 12, 14, 30, 0, 0, time.UTC)
	store.tracking["PKG100256"] = &models.TrackingRecord{
		TrackingCode: "PKG100256",
		Status:       "Shipped",
		LastUpdate:   lastUpdate,
		Location:     "Berlin",
		ShippingType: "Standard",
	}
	ext := &fakeTrackingExtractor{result: &models.TrackingExtraction{
		TrackingCode:    "PKG100256",
		ConfidenceScore: 0.95,
		Description:     "Track package PKG100256",
	}}
	h := NewTrackingHandler(store, ext, zap.NewNop())

	response := h.Handle(context.Background(), "I want to track PKG100256")

	for _, want := range []string{"Shipped", "Berlin", "Standard", "2025-03-12 14:30:00"} {
		if !strings.Contains(response, want) {
			t.Errorf("response missing %q:\n%s", want, response)
		}
	}
	if store.saveCalls != 1 {
		t.Errorf("expected 1 interaction saved, got %d", store.saveCalls)
	}
	if store.interactions[0].Response != "Track package PKG100256" {
		t.Errorf("interaction response should be the extraction description, got %q", store.interactions[0].Response)
	}
}

func TestTrackingHandlerNotFound(t *testing.T) {
	store := newFakeStorage()
	ext := &fakeTrackingExtractor{result: &models.TrackingExtraction{
		TrackingCode:    "PKG999999",
		ConfidenceScore: 0.9,
		Description:     "Track package PKG999999",
	}}
	h := NewTrackingHandler(store, ext, zap.NewNop())

	response := h.Handle(context.Background(), "track PKG999999 please")

	if !strings.Contains(response, "does not exist or has no updates") {
		t.Errorf("expected not-found template, got:\n%s", response)
	}
	// The interaction is recorded even when the code matched nothing.
	if store.saveCalls != 1 {
		t.Errorf("expected 1 interaction saved, got %d", store.saveCalls)
	}
}

func TestTrackingHandlerExtractionFailure(t *testing.T) {
	store := newFakeStorage()
	ext := &fakeTrackingExtractor{err: errors.New("model unavailable")}
	h := NewTrackingHandler(store, ext, zap.NewNop())

	response := h.Handle(context.Background(), "track my package")

	if response != trackingApology {
		t.Errorf("expected apology, got %q", response)
	}
	if store.saveCalls != 0 {
		t.Errorf("no interaction should be written on extraction failure, got %d", store.saveCalls)
	}
}

func TestTrackingHandlerLookupFailure(t *testing.T) {
	store := newFakeStorage()
	store.trackingErr = errors.New("db down")
	ext := &fakeTrackingExtractor{result: &models.TrackingExtraction{
		TrackingCode:    "PKG100256",
		ConfidenceScore: 0.9,
		Description:     "Track package PKG100256",
	}}
	h := NewTrackingHandler(store, ext, zap.NewNop())

	response := h.Handle(context.Background(), "track PKG100256")

	if response != trackingApology {
		t.Errorf("expected apology, got %q", response)
	}
	if store.saveCalls != 0 {
		t.Errorf("no interaction should be written on lookup failure, got %d", store.saveCalls)
	}
}

func TestTrackingHandlerHistoryFailureDegrades(t *testing.T) {
	store := newFakeStorage()
	store.historyErr = errors.New("db down")
	store.tracking["PKG100256"] = &models.TrackingRecord{
		TrackingCode: "PKG100256",
		Status:       "Delivered",
		LastUpdate:   time.Date(2025, 3, 8, 11, 20, 0, 0, time.UTC),
		Location:     "Cologne",
		ShippingType: "Express",
	}
	ext := &fakeTrackingExtractor{result: &models.TrackingExtraction{
		TrackingCode:    "PKG100256",
		ConfidenceScore: 0.9,
		Description:     "Track package PKG100256",
	}}
	h := NewTrackingHandler(store, ext, zap.NewNop())

	response := h.Handle(context.Background(), "track PKG100256")

	if !strings.Contains(response, "Delivered") {
		t.Errorf("history failure should not fail the request, got:\n%s", response)
	}
}
