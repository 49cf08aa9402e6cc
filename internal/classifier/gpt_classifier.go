package classifier

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

const classifySystemPrompt = "Classify the user's request into one of the supported request types for a parcel delivery service."

var classificationSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"request_type": {
			Type: jsonschema.String,
			Enum: []string{
				string(models.IntentTrackPackages),
				string(models.IntentUpdateUsersData),
				string(models.IntentShippingGuidance),
				string(models.IntentLostPackages),
			},
			Description: "Type of message requested by the user",
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
	Required:             []string{"request_type", "confidence_score", "description"},
	AdditionalProperties: false,
}

type GPTClassifier struct {
	client      llm.ChatCompleter
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewGPTClassifier(client llm.ChatCompleter, model string, maxTokens int, temperature float64, logger *zap.Logger) *GPTClassifier {
	return &GPTClassifier{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Classify runs a single schema-constrained completion; there are no retries.
func (c *GPTClassifier) Classify(ctx context.Context, userInput string, history []models.Interaction) (*models.ClassificationResult, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: classifySystemPrompt,
			},
			llm.HistoryMessage(history),
			llm.UserMessage(userInput),
		},
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "message_request_type",
				Schema: &classificationSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to classify message: %w", err)
	}

	var result models.ClassificationResult
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		c.logger.Error("Failed to parse classification response",
			zap.Error(err),
			zap.String("response", content))
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}

	if err := result.Validate(); err != nil {
		c.logger.Error("Classification failed validation",
			zap.Error(err),
			zap.String("response", content))
		return nil, err
	}

	if !result.RequestType.Known() {
		// Passed through so the router can answer with its fallback.
		c.logger.Warn("Classifier produced unknown intent",
			zap.String("request_type", string(result.RequestType)))
	}

	c.logger.Info("Classified message",
		zap.String("intent", string(result.RequestType)),
		zap.Float64("confidence", result.ConfidenceScore))

	return &result, nil
}
