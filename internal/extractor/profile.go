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

const profileSystemPrompt = "Extract the field type the user would like to update."

var profileSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"field_type": {
			Type: jsonschema.String,
			Enum: []string{
				string(models.FieldAddress),
				string(models.FieldCity),
			},
			Description: "The specific user profile field type to update.",
		},
		"field_value": {
			Type:        jsonschema.String,
			Description: "The specific user profile field value to update.",
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
	Required:             []string{"field_type", "field_value", "confidence_score", "description"},
	AdditionalProperties: false,
}

type GPTProfileExtractor struct {
	client      llm.ChatCompleter
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewGPTProfileExtractor(client llm.ChatCompleter, model string, maxTokens int, temperature float64, logger *zap.Logger) *GPTProfileExtractor {
	return &GPTProfileExtractor{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (e *GPTProfileExtractor) Extract(ctx context.Context, userInput string, history []models.Interaction) (*models.ProfileUpdateExtraction, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: profileSystemPrompt,
			},
			llm.HistoryMessage(history),
			llm.UserMessage(userInput),
		},
		MaxTokens:   e.maxTokens,
		Temperature: float32(e.temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "user_profile_update_request",
				Schema: &profileSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract profile update: %w", err)
	}

	var result models.ProfileUpdateExtraction
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		e.logger.Error("Failed to parse profile extraction",
			zap.Error(err),
			zap.String("response", content))
		return nil, fmt.Errorf("failed to parse profile extraction: %w", err)
	}

	if err := result.Validate(); err != nil {
		e.logger.Error("Profile extraction failed validation",
			zap.Error(err),
			zap.String("field_type", string(result.FieldType)))
		return nil, err
	}

	e.logger.Info("Extracted profile update",
		zap.String("field_type", string(result.FieldType)),
		zap.Float64("confidence", result.ConfidenceScore))

	return &result, nil
}
