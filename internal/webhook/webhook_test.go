package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeRouter struct {
	input  string
	userID uuid.UUID
	reply  string
}

func (f *fakeRouter) Route(ctx context.Context, userInput string, userID uuid.UUID) string {
	f.input = userInput
	f.userID = userID
	return f.reply
}

type fakeSender struct {
	recipient string
	text      string
	ok        bool
}

func (f *fakeSender) SendText(ctx context.Context, recipientID, messageText string) bool {
	f.recipient = recipientID
	f.text = messageText
	return f.ok
}

func newTestDeps(rtr *fakeRouter, sender *fakeSender) Deps {
	return Deps{
		Router:        rtr,
		Sender:        sender,
		VerifyToken:   "secret-token",
		DefaultUserID: uuid.MustParse("06cecdbd-ac6b-45f5-84f7-c6a8631a4ed6"),
		Logger:        zap.NewNop(),
	}
}

const messageEvent = `{
	"entry": [{
		"changes": [{
			"value": {
				"messages": [{
					"from": "4915123456789",
					"text": {"body": "I want to track PKG100256"}
				}]
			}
		}]
	}]
}`

const statusEvent = `{
	"entry": [{
		"changes": [{
			"value": {
				"statuses": [{"id": "wamid.1", "status": "delivered"}]
			}
		}]
	}]
}`

func TestVerificationChallenge(t *testing.T) {
	h := NewHandler(newTestDeps(&fakeRouter{}, &fakeSender{ok: true}))

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.verify_token=secret-token&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "12345" {
		t.Errorf("expected challenge echoed, got %q", rec.Body.String())
	}
}

func TestVerificationWrongToken(t *testing.T) {
	h := NewHandler(newTestDeps(&fakeRouter{}, &fakeSender{ok: true}))

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.verify_token=wrong&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestMessageEvent(t *testing.T) {
	rtr := &fakeRouter{reply: "tracking details"}
	sender := &fakeSender{ok: true}
	h := NewHandler(newTestDeps(rtr, sender))

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(messageEvent))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rtr.input != "I want to track PKG100256" {
		t.Errorf("router got wrong input: %q", rtr.input)
	}
	if sender.recipient != "4915123456789" {
		t.Errorf("reply sent to wrong recipient: %q", sender.recipient)
	}
	if sender.text != "tracking details" {
		t.Errorf("wrong reply text: %q", sender.text)
	}
	if !strings.Contains(rec.Body.String(), "Processed") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestMessageEventSendFailure(t *testing.T) {
	h := NewHandler(newTestDeps(&fakeRouter{reply: "x"}, &fakeSender{ok: false}))

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(messageEvent))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestStatusEvent(t *testing.T) {
	sender := &fakeSender{ok: true}
	h := NewHandler(newTestDeps(&fakeRouter{}, sender))

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(statusEvent))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sender.recipient != "" {
		t.Error("status updates must not trigger outbound messages")
	}
}

func TestUnknownEventType(t *testing.T) {
	h := NewHandler(newTestDeps(&fakeRouter{}, &fakeSender{ok: true}))

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"entry":[{"changes":[{"value":{}}]}]}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMalformedPayload(t *testing.T) {
	h := NewHandler(newTestDeps(&fakeRouter{}, &fakeSender{ok: true}))

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestEmptyEntry(t *testing.T) {
	h := NewHandler(newTestDeps(&fakeRouter{}, &fakeSender{ok: true}))

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"entry":[]}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
