package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/parcel-bot/internal/models"
)

// ChatCompleter is the slice of the OpenAI client used by the pipeline;
// *openai.Client satisfies it directly.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Embedder encodes text into the vector space of a collection.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HistoryMessage renders the recent interactions into the system message all
// prompt builders share. The pairs are expected most-recent-first.
func HistoryMessage(interactions []models.Interaction) openai.ChatCompletionMessage {
	lines := make([]string, 0, len(interactions))
	for _, interaction := range interactions {
		lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", interaction.Question, interaction.Response))
	}

	content := "These are the last five messages of previous conversation but You do not need to use these pieces of information if not relevant:\n" +
		strings.Join(lines, "\n") +
		"\n\n(End of previous conversation)"

	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: content,
	}
}

// UserMessage wraps the current input the way every prompt presents it.
func UserMessage(userInput string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf("Current conversation: %s", userInput),
	}
}
