package webhook

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Router is the message pipeline port; it always produces a reply text.
type Router interface {
	Route(ctx context.Context, userInput string, userID uuid.UUID) string
}

// Sender is the outbound transport port.
type Sender interface {
	SendText(ctx context.Context, recipientID, messageText string) bool
}

// Deps carries everything the webhook endpoints need.
type Deps struct {
	Router        Router
	Sender        Sender
	VerifyToken   string
	DefaultUserID uuid.UUID
	Logger        *zap.Logger
}

type eventPayload struct {
	Entry []entry `json:"entry"`
}

type entry struct {
	Changes []change `json:"changes"`
}

type change struct {
	Value eventValue `json:"value"`
}

type eventValue struct {
	Messages []inboundMessage `json:"messages"`
	Statuses []statusUpdate   `json:"statuses"`
}

type inboundMessage struct {
	From string `json:"from"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

type statusUpdate struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// NewHandler mounts the verification and event endpoints on /webhook.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/webhook", handleVerification(deps))
	r.Post("/webhook", handleEvent(deps))

	return r
}

func handleVerification(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Logger.Info("Received GET request for verification")

		params := r.URL.Query()
		if params.Get("hub.verify_token") == deps.VerifyToken {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(params.Get("hub.challenge")))
			return
		}

		http.Error(w, "Invalid verification token", http.StatusForbidden)
	}
}

func handleEvent(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Logger.Info("Processing incoming event")

		var payload eventPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			deps.Logger.Error("Error decoding event payload", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
			http.Error(w, "Unknown event type", http.StatusBadRequest)
			return
		}
		event := payload.Entry[0].Changes[0].Value

		switch {
		case len(event.Messages) > 0:
			message := event.Messages[0]
			deps.Logger.Info("Incoming message",
				zap.String("sender_id", message.From))

			reply := deps.Router.Route(r.Context(), message.Text.Body, deps.DefaultUserID)
			if !deps.Sender.SendText(r.Context(), message.From, reply) {
				http.Error(w, "Failed to send response", http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"status":  "success",
				"message": "Processed",
			})

		case len(event.Statuses) > 0:
			deps.Logger.Info("Status update",
				zap.String("status", event.Statuses[0].Status),
				zap.String("message_id", event.Statuses[0].ID))
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Status update received"))

		default:
			http.Error(w, "Unknown event type", http.StatusBadRequest)
		}
	}
}
