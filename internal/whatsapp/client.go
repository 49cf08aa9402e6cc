package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://graph.facebook.com"

// Client sends messages through the WhatsApp Cloud API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	accessToken   string
	phoneNumberID string
	apiVersion    string
	logger        *zap.Logger
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

func NewClient(accessToken, phoneNumberID, apiVersion string, logger *zap.Logger) *Client {
	return &Client{
		httpClient:    http.DefaultClient,
		baseURL:       defaultBaseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		apiVersion:    apiVersion,
		logger:        logger,
	}
}

// WithBaseURL overrides the API host; used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// SendText delivers one text message and reports success. Failures are
// logged and never retried.
func (c *Client) SendText(ctx context.Context, recipientID, messageText string) bool {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               recipientID,
		Type:             "text",
		Text:             textBody{Body: messageText},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("Failed to encode message payload", zap.Error(err))
		return false
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("Failed to build send request", zap.Error(err))
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("Sending message", zap.String("recipient_id", recipientID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("HTTP request error", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("Failed to send message",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(respBody)))
		return false
	}
	return true
}
