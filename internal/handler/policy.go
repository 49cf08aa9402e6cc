package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/xaenox/parcel-bot/internal/llm"
	"github.com/xaenox/parcel-bot/internal/models"
	"github.com/xaenox/parcel-bot/internal/retriever"
	"github.com/xaenox/parcel-bot/internal/storage"
	"go.uber.org/zap"
)

const (
	policySystemPrompt = "You are a helpful assistant that strictly follows company policies."
	refinePrompt       = "Based on the extracted company policy, generate a **clear and concise answer** to the user's question."
	searchToolName     = "search_qdrant"
)

// PolicySearcher is the retrieval port of the policy handler;
// *retriever.Retriever satisfies it.
type PolicySearcher interface {
	Search(ctx context.Context, query string, collection models.Collection, limit uint64) retriever.SearchResponse
}

// searchToolArgs mirrors the strict tool schema; confidence_score exists for
// the model's own reasoning only and is never passed to retrieval.
type searchToolArgs struct {
	UserInput       string            `json:"user_input"`
	CollectionName  models.Collection `json:"collection_name"`
	ConfidenceScore float64           `json:"confidence_score"`
}

var searchToolSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"user_input": {
			Type:        jsonschema.String,
			Description: "The user's question about company policy.",
		},
		"collection_name": {
			Type: jsonschema.String,
			Enum: []string{
				string(models.CollectionLostPackagePolicy),
				string(models.CollectionShippingInformation),
			},
			Description: "The Qdrant collection to search in.",
		},
		"confidence_score": {
			Type:        jsonschema.Number,
			Description: "Confidence score for category classification, ranging from 0 to 1.",
		},
	},
	Required:             []string{"user_input", "collection_name", "confidence_score"},
	AdditionalProperties: false,
}

var policyAnswerSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"request_type": {
			Type: jsonschema.String,
			Enum: []string{
				string(models.CategoryLostPackages),
				string(models.CategoryShippingInformation),
			},
			Description: "Category of policy the user is asking about.",
		},
		"confidence_score": {
			Type:        jsonschema.Number,
			Description: "Confidence score for category classification, ranging from 0 to 1.",
		},
		"answer": {
			Type:        jsonschema.String,
			Description: "The answer to the user's question.",
		},
	},
	Required:             []string{"request_type", "confidence_score", "answer"},
	AdditionalProperties: false,
}

// PolicyHandler produces retrieval-augmented answers about company policy.
type PolicyHandler struct {
	client    llm.ChatCompleter
	retriever PolicySearcher
	storage   storage.Storage
	model     string
	logger    *zap.Logger
}

func NewPolicyHandler(client llm.ChatCompleter, searcher PolicySearcher, store storage.Storage, model string, logger *zap.Logger) *PolicyHandler {
	return &PolicyHandler{
		client:    client,
		retriever: searcher,
		storage:   store,
		model:     model,
		logger:    logger,
	}
}

// Handle lets the model decide whether retrieval is needed, feeds retrieved
// passages back as tool results and asks for a final structured answer. If no
// tool call is requested the second call still runs on the bare context.
func (h *PolicyHandler) Handle(ctx context.Context, userInput string) (*models.PolicyAnswer, error) {
	history := recentHistory(ctx, h.storage, h.logger)

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: policySystemPrompt,
		},
		llm.HistoryMessage(history),
		llm.UserMessage(userInput),
	}

	tools := []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        searchToolName,
				Description: "Retrieve company policy from the correct Qdrant collection based on the user's query.",
				Parameters:  searchToolSchema,
				Strict:      true,
			},
		},
	}

	completion, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    h.model,
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to route policy request: %w", err)
	}

	toolCalls := completion.Choices[0].Message.ToolCalls
	for _, toolCall := range toolCalls {
		var args searchToolArgs
		if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &args); err != nil {
			return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
		}

		messages = append(messages, openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{toolCall},
		})

		response := h.retriever.Search(ctx, args.UserInput, args.CollectionName, retriever.DefaultLimit)

		content, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tool result: %w", err)
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			ToolCallID: toolCall.ID,
			Content:    string(content),
		})

		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: refinePrompt,
		})
	}

	final, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    h.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "policy_category_request",
				Schema: &policyAnswerSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate policy answer: %w", err)
	}

	var answer models.PolicyAnswer
	content := strings.TrimSpace(final.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return nil, fmt.Errorf("failed to parse policy answer: %w", err)
	}
	if err := answer.Validate(); err != nil {
		return nil, err
	}

	saveInteraction(ctx, h.storage, h.logger, userInput, answer.Answer)

	return &answer, nil
}
