package llm

import (
	"context"

	"github.com/ollama/ollama/api"
)

type LLMClient interface {
	GenerateInference(
		ctx context.Context,
		messages []Message,
		callback func(chunk string) error,
		opts ...LLMOption,
	) error

	// GenerateInferenceWithTools supports native tool calling. When the model
	// answers directly, contentCallback receives the text; when the model
	// requests tools, toolCallback receives the structured calls instead.
	GenerateInferenceWithTools(
		ctx context.Context,
		messages []Message,
		contentCallback func(chunk string) error,
		toolCallback func(toolCalls []ToolCall) error,
		opts ...LLMOption,
	) error

	GetModel() string
}

type LLMSettings struct {
	model       string     // model name
	temperature float64    // randomness (0.0 to 1.0)
	maxTokens   int        // maximum tokens to generate
	system      string     // system prompt
	tools       []api.Tool // tools to use for tool calling
}

type LLMOption func(*LLMSettings)

// ApplyOptions folds opts into a settings value. Clients resolve their
// per-call overrides through it, and test fakes use it to observe what a
// caller asked for.
func ApplyOptions(defaults LLMSettings, opts ...LLMOption) LLMSettings {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

func (s LLMSettings) Model() string        { return s.model }
func (s LLMSettings) Temperature() float64 { return s.temperature }
func (s LLMSettings) MaxTokens() int       { return s.maxTokens }
func (s LLMSettings) SystemPrompt() string { return s.system }
func (s LLMSettings) Tools() []api.Tool    { return s.tools }

// Common options for all LLM providers
func WithTemperature(temp float64) LLMOption {
	return func(s *LLMSettings) { s.temperature = temp }
}

func WithMaxTokens(tokens int) LLMOption {
	return func(s *LLMSettings) { s.maxTokens = tokens }
}

func WithSystemPrompt(prompt string) LLMOption {
	return func(s *LLMSettings) { s.system = prompt }
}

func WithTools(tools []api.Tool) LLMOption {
	return func(s *LLMSettings) { s.tools = tools }
}

// WithModel overrides the client's default model for a single call. The
// answer generator uses this to retry the same request across its
// fallback-candidate list.
func WithModel(model string) LLMOption {
	return func(s *LLMSettings) { s.model = model }
}

type Message struct {
	Role    string `json:"role"`    // "user", "assistant", "system", "tool"
	Content string `json:"content"` // the message content

	// Set on assistant messages that requested tool invocations.
	ToolCalls []ToolCall `json:"-"`
	// Set on "tool" role messages carrying a tool result back to the model.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// ToolCall is a structured tool-invocation request from the model. The ID
// keys the eventual result message back to this request.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}
