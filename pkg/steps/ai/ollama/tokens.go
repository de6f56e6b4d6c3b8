package ollama

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tiktoken-go/tokenizer"
)

// per-message framing overhead, as counted for chat models
const messageOverhead = 4

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
	codecErr  error
)

// estimateTokens approximates the size of a prompt with the cl100k encoding.
// Local models use their own vocabularies, so the number is only a guide.
func estimateTokens(messages []Message) (int, error) {
	codecOnce.Do(func() {
		codec, codecErr = tokenizer.Get(tokenizer.Cl100kBase)
	})
	if codecErr != nil {
		return 0, errors.Wrap(codecErr, "could not load tokenizer")
	}

	total := 0
	for _, m := range messages {
		ids, _, err := codec.Encode(m.Content)
		if err != nil {
			return 0, errors.Wrap(err, "could not encode message")
		}
		total += len(ids) + messageOverhead
	}
	return total, nil
}

// WithContextWindow makes the adapter warn when a prompt likely exceeds the
// model's context window. Zero disables the check.
func WithContextWindow(tokens int) Option {
	return func(a *Adapter) {
		a.contextWindow = tokens
	}
}

func (a *Adapter) checkContextWindow(messages []Message) {
	if a.contextWindow <= 0 {
		return
	}
	n, err := estimateTokens(messages)
	if err != nil {
		a.Logger().Debug().Err(err).Msg("skipping context window check")
		return
	}
	if n > a.contextWindow {
		a.Logger().Warn().
			Int("estimated_tokens", n).
			Int("context_window", a.contextWindow).
			Msg("prompt probably exceeds the model context window, older turns may be ignored by the model")
	}
}
