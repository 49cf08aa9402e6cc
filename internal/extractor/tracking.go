package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/xaenox/parcel-bot/internal/llm"
	"github.com/xaenox/parcel-bot/internal/models"
	"go.uber.org/zap"
)

const trackingSystemPrompt = "Extract the tracking number. It must start with PKG."

var trackingSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"tracking_code": {
			Type:        jsonschema.String,
			Description: "Extract the tracking code.",
		},
		"confidence_score": {
			Type:        jsonschema.Number,
			Description: "Confidence score of the update request, ranging from 0 to 1.",
		},
		"description": {
			Type:        jsonschema.String,
			Description: "A cleaned and structured description of the update request.",
		},
	},
	Required:             []string{"tracking_code", "confidence_score", "description"},
	AdditionalProperties: false,
}

type GPTTrackingExtractor struct {
	client      llm.ChatCompleter
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewGPTTrackingExtractor(client llm.ChatCompleter, model string, maxTokens int, temperature float64, logger *zap.Logger) *GPTTrackingExtractor {
	return &GPTTrackingExtractor{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (e *GPTTrackingExtractor) Extract(ctx context.Context, userInput string, history []models.Interaction) (*models.TrackingExtraction, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: trackingSystemPrompt,
			},
			llm.HistoryMessage(history),
			llm.UserMessage(userInput),
		},
		MaxTokens:   e.maxTokens,
		Temperature: float32(e.temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "tracking_package_request",
				Schema: &trackingSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract tracking code: %w", err)
	}

	var result models.TrackingExtraction
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		e.logger.Error("Failed to parse tracking extraction",
			zap.Error(err),
			zap.String("response", content))
		return nil, fmt.Errorf("failed to parse tracking extraction: %w", err)
	}

	if err := result.Validate(); err != nil {
		e.logger.Error("Tracking extraction failed validation",
			zap.Error(err),
			zap.String("tracking_code", result.TrackingCode))
		return nil, err
	}

	e.logger.Info("Extracted tracking code",
		zap.String("tracking_code", result.TrackingCode),
		zap.Float64("confidence", result.ConfidenceScore))

	return &result, nil
}
