package ollama

import (
	"context"

	"github.com/go-go-golems/weatherchat/pkg/steps/ai/openai"
	"github.com/pkg/errors"
	go_openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultOpenAICompatBaseURL is ollama's OpenAI-compatible endpoint.
	DefaultOpenAICompatBaseURL = "http://localhost:11434/v1"
	// ollama ignores the key but the client requires one
	openAICompatAPIKey = "ollama"
)

// OpenAICompatCompleter sends plain-text chats to an OpenAI-compatible
// endpoint without declaring any tools.
type OpenAICompatCompleter struct {
	Client      openai.ChatCompleter
	Model       string
	Temperature float32
}

var _ TextCompleter = (*OpenAICompatCompleter)(nil)

func NewOpenAICompatCompleter(baseURL string, model string) (*OpenAICompatCompleter, error) {
	if baseURL == "" {
		baseURL = DefaultOpenAICompatBaseURL
	}
	client, err := openai.MakeClient(openAICompatAPIKey, baseURL)
	if err != nil {
		return nil, err
	}
	return &OpenAICompatCompleter{Client: client, Model: model}, nil
}

func (c *OpenAICompatCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	msgs := make([]go_openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, go_openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	resp, err := c.Client.CreateChatCompletion(ctx, go_openai.ChatCompletionRequest{
		Model:       c.Model,
		Messages:    msgs,
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
