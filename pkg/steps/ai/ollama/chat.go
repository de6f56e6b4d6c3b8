package ollama

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Message is one entry of a plain-text chat request.
type Message struct {
	Role    string
	Content string
}

// TextCompleter sends a plain-text chat and returns the model's reply.
type TextCompleter interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// ChatClient is the part of the ollama API client the native completer uses.
type ChatClient interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

var _ ChatClient = (*api.Client)(nil)

// NativeCompleter talks to the ollama chat API.
type NativeCompleter struct {
	Client  ChatClient
	Model   string
	Options map[string]any
}

var _ TextCompleter = (*NativeCompleter)(nil)

// NewNativeCompleter connects to baseURL, or to OLLAMA_HOST when baseURL is
// empty. Sampling runs at temperature 0 unless options override it.
func NewNativeCompleter(baseURL string, model string, options map[string]any) (*NativeCompleter, error) {
	var client *api.Client
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ollama URL %s", baseURL)
		}
		client = api.NewClient(u, http.DefaultClient)
	} else {
		c, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, errors.Wrap(err, "could not create ollama client")
		}
		client = c
	}

	opts := map[string]any{"temperature": 0}
	for k, v := range options {
		opts[k] = v
	}
	return &NativeCompleter{Client: client, Model: model, Options: opts}, nil
}

func (c *NativeCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	msgs := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, api.Message{Role: m.Role, Content: m.Content})
	}
	stream := false
	req := &api.ChatRequest{
		Model:    c.Model,
		Messages: msgs,
		Stream:   &stream,
		Options:  c.Options,
	}

	var reply strings.Builder
	err := c.Client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		if resp.Done {
			log.Trace().Str("model", c.Model).Msg("ollama chat done")
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "ollama chat request failed")
	}
	return reply.String(), nil
}
