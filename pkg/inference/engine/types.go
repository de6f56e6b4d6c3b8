package engine

import (
	"github.com/go-go-golems/weatherchat/pkg/conversation"
	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	"github.com/pkg/errors"
)

// Config is the immutable configuration an adapter is built from.
type Config struct {
	Model string
	// Instructions is the system prompt sent with every request.
	Instructions string
	Tools        []tools.ToolDefinition
	// HistorySize bounds the conversation buffer. Zero means
	// conversation.DefaultCapacity.
	HistorySize int
	Temperature *float32
}

func (c Config) Validate() error {
	if c.Model == "" {
		return errors.New("model cannot be empty")
	}
	if c.HistorySize < 0 {
		return errors.Wrapf(conversation.ErrInvalidCapacity, "got %d", c.HistorySize)
	}
	for _, t := range c.Tools {
		if t.Name == "" {
			return errors.New("tool name cannot be empty")
		}
	}
	return nil
}

// NewBuffer returns the conversation buffer sized for this configuration.
func (c Config) NewBuffer() (*conversation.Buffer, error) {
	if c.HistorySize == 0 {
		return conversation.NewDefaultBuffer(), nil
	}
	return conversation.NewBuffer(c.HistorySize)
}

// ToolDescription returns the static description of the named tool.
func (c Config) ToolDescription(name string) string {
	for _, t := range c.Tools {
		if t.Name == name {
			return t.Description
		}
	}
	return ""
}
