package types

// ClientType selects the backend adapter and transport of a chat session.
type ClientType string

const (
	// Gemini native function calling
	ClientTypeGeminiGenAI ClientType = "gemini-genai"
	// Gemini through its OpenAI-compatible endpoint
	ClientTypeGeminiOpenAI ClientType = "gemini-openai"
	// local model, prompt-based tool calls over ollama's OpenAI-compatible endpoint
	ClientTypeGemmaOpenAI ClientType = "gemma-openai"
	// local model, prompt-based tool calls over the native ollama API
	ClientTypeGemmaOllama ClientType = "gemma-ollama"
)

func ClientTypes() []ClientType {
	return []ClientType{
		ClientTypeGeminiGenAI,
		ClientTypeGeminiOpenAI,
		ClientTypeGemmaOpenAI,
		ClientTypeGemmaOllama,
	}
}

func (c ClientType) IsValid() bool {
	for _, ct := range ClientTypes() {
		if c == ct {
			return true
		}
	}
	return false
}

// IsPromptBased reports whether the client's model lacks native function calling.
func (c ClientType) IsPromptBased() bool {
	return c == ClientTypeGemmaOpenAI || c == ClientTypeGemmaOllama
}

func (c ClientType) DefaultModel() string {
	if c.IsPromptBased() {
		return "gemma3:1b"
	}
	return "gemini-2.5-flash"
}
