package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestSendTextSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload textPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient("token-123", "555000", "v21.0", zap.NewNop()).WithBaseURL(server.URL)

	if !c.SendText(context.Background(), "4915123456789", "hello") {
		t.Fatal("expected success")
	}
	if gotPath != "/v21.0/555000/messages" {
		t.Errorf("unexpected path: %q", gotPath)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
	if gotPayload.MessagingProduct != "whatsapp" || gotPayload.To != "4915123456789" || gotPayload.Type != "text" {
		t.Errorf("unexpected payload: %+v", gotPayload)
	}
	if gotPayload.Text.Body != "hello" {
		t.Errorf("unexpected body: %q", gotPayload.Text.Body)
	}
}

func TestSendTextNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient("token-123", "555000", "v21.0", zap.NewNop()).WithBaseURL(server.URL)

	if c.SendText(context.Background(), "4915123456789", "hello") {
		t.Fatal("expected failure on non-200 status")
	}
}

func TestSendTextTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c := NewClient("token-123", "555000", "v21.0", zap.NewNop()).WithBaseURL(server.URL)

	if c.SendText(context.Background(), "4915123456789", "hello") {
		t.Fatal("expected failure on transport error")
	}
}
