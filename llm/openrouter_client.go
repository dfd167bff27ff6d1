package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/ollama/ollama/api"
)

// OpenRouterClient talks to OpenRouter's OpenAI-compatible chat completions
// endpoint. A single client serves every candidate model; the model is just a
// request field, so fallback retries reuse the same client.
type OpenRouterClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
	model      string
}

func NewOpenRouterClient(model string) LLMClient {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		// Providers are designed for dependency injection.
		// If the API key is not set, we log a fatal error.
		logger.Fatal("OPENROUTER_API_KEY environment variable is not set")
		return nil
	}

	return &OpenRouterClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		url:        "https://openrouter.ai/api/v1/chat/completions",
		model:      model,
	}
}

func (c *OpenRouterClient) GetModel() string {
	return c.model
}

func (c *OpenRouterClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := LLMSettings{
		model:       c.model,
		temperature: 0,
		maxTokens:   800,
	}

	// Apply options
	for _, opt := range opts {
		opt(&settings)
	}

	request := openRouterRequest{
		Model:       settings.model,
		Messages:    toWireMessages(messages, settings.system),
		Temperature: settings.temperature,
		MaxTokens:   settings.maxTokens,
	}

	return c.makeRequest(ctx, request, callback, nil)
}

func (c *OpenRouterClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []ToolCall) error,
	opts ...LLMOption,
) error {
	settings := LLMSettings{
		model:       c.model,
		temperature: 0,
		maxTokens:   800,
	}

	// Apply options
	for _, opt := range opts {
		opt(&settings)
	}

	// If no tools are provided, use regular inference.
	if len(settings.tools) == 0 {
		return c.GenerateInference(ctx, messages, contentCallback, opts...)
	}

	request := openRouterRequest{
		Model:       settings.model,
		Messages:    toWireMessages(messages, settings.system),
		Temperature: settings.temperature,
		MaxTokens:   settings.maxTokens,
		Tools:       convertToolsToWireFormat(settings.tools),
		ToolChoice:  "auto",
	}

	return c.makeRequest(ctx, request, contentCallback, toolCallback)
}

func (c *OpenRouterClient) makeRequest(
	ctx context.Context,
	request openRouterRequest,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []ToolCall) error,
) error {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response openRouterResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}

	if len(response.Choices) == 0 {
		return fmt.Errorf("no choices in response")
	}

	choice := response.Choices[0]

	// Handle tool calls
	if len(choice.Message.ToolCalls) > 0 && toolCallback != nil {
		toolCalls := make([]ToolCall, len(choice.Message.ToolCalls))
		for i, tc := range choice.Message.ToolCalls {
			// OpenRouter returns arguments as a JSON string.
			var args map[string]any
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return fmt.Errorf("error parsing tool call arguments: %w", err)
			}

			toolCalls[i] = ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: args,
			}
		}
		return toolCallback(toolCalls)
	}

	// Handle regular content
	if contentCallback != nil {
		return contentCallback(choice.Message.Content)
	}

	return nil
}

// toWireMessages converts messages to the OpenAI wire shape, prepending the
// system prompt when one is set.
func toWireMessages(messages []Message, system string) []openRouterMessage {
	out := make([]openRouterMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, openRouterMessage{Role: "system", Content: system})
	}

	for _, m := range messages {
		wm := openRouterMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			args, err := json.Marshal(tc.Arguments)
			if err != nil {
				args = []byte("{}")
			}
			wm.ToolCalls = append(wm.ToolCalls, openRouterToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: openRouterToolCallFunction{
					Name:      tc.Name,
					Arguments: string(args),
				},
			})
		}
		out = append(out, wm)
	}
	return out
}

// convertToolsToWireFormat converts Ollama tool declarations to OpenAI format
func convertToolsToWireFormat(tools []api.Tool) []openRouterTool {
	if len(tools) == 0 {
		return nil
	}

	wireTools := make([]openRouterTool, len(tools))
	for i, tool := range tools {
		wireTools[i] = openRouterTool{
			Type: "function",
			Function: openRouterFunction{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		}
	}
	return wireTools
}

// OpenRouter API types
type openRouterRequest struct {
	Model       string              `json:"model"`
	Messages    []openRouterMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Tools       []openRouterTool    `json:"tools,omitempty"`
	ToolChoice  string              `json:"tool_choice,omitempty"`
}

type openRouterMessage struct {
	Role       string               `json:"role"`
	Content    string               `json:"content"`
	ToolCalls  []openRouterToolCall `json:"tool_calls,omitempty"`
	ToolCallID string               `json:"tool_call_id,omitempty"`
}

type openRouterTool struct {
	Type     string             `json:"type"`
	Function openRouterFunction `json:"function"`
}

type openRouterFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  interface{} `json:"parameters"`
}

type openRouterResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []openRouterChoice `json:"choices"`
	Usage   openRouterUsage    `json:"usage"`
}

type openRouterChoice struct {
	Index        int               `json:"index"`
	Message      openRouterRespMsg `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

type openRouterRespMsg struct {
	Role      string               `json:"role"`
	Content   string               `json:"content"`
	ToolCalls []openRouterToolCall `json:"tool_calls,omitempty"`
}

type openRouterToolCall struct {
	ID       string                     `json:"id"`
	Type     string                     `json:"type"`
	Function openRouterToolCallFunction `json:"function"`
}

type openRouterToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type openRouterUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
