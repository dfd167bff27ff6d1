package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"

	"github.com/SaiNageswarS/course-core/llm"
	"github.com/SaiNageswarS/course-core/store"
	"github.com/SaiNageswarS/course-core/tools"
)

const systemPrompt = `You are an AI assistant specialized in course materials and educational content.

Available tools:
- search_course_content: for questions about specific course content or detailed educational materials
- get_course_outline: for questions about a course's structure, its link, or its complete lesson list

Tool usage:
- Use at most one tool call per query
- If a search yields no results, state that clearly without offering alternatives
- For outline queries, always include the course title, the course link and every lesson's number and title

Response protocol:
- General knowledge questions: answer from your own knowledge without tools
- Course-specific questions: use the matching tool first, then answer
- Do not mention the tools or your search process in the answer

Answers must be brief, concise and focused. Provide direct answers without reasoning commentary.`

// Generator drives tool-assisted answer generation. A query gets one
// decision round where tools are offered, an execution round for any
// tool calls the model made, and a synthesis round without tools. Every
// model call walks an ordered candidate list so a failing hosted model
// degrades to the next one instead of failing the query.
type Generator struct {
	client    llm.LLMClient
	fallbacks []string

	mu    sync.RWMutex
	model string
}

func NewGenerator(client llm.LLMClient, defaultModel string, fallbacks []string) *Generator {
	return &Generator{
		client:    client,
		fallbacks: fallbacks,
		model:     defaultModel,
	}
}

func (g *Generator) Model() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.model
}

func (g *Generator) SetModel(model string) {
	g.mu.Lock()
	g.model = model
	g.mu.Unlock()
}

// candidates returns the current model followed by the fallbacks, with
// duplicates removed, preserving order.
func (g *Generator) candidates() []string {
	current := g.Model()

	seen := map[string]bool{current: true}
	out := []string{current}
	for _, m := range g.fallbacks {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// withFallback runs attempt against each candidate model in order until
// one succeeds. The last error is returned when every candidate fails.
func (g *Generator) withFallback(ctx context.Context, attempt func(model string) error) error {
	var lastErr error
	for _, model := range g.candidates() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := attempt(model); err != nil {
			logger.Error("Model attempt failed", zap.String("model", model), zap.Error(err))
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("all candidate models failed: %w", lastErr)
}

// GenerateResponse answers a query, optionally grounded in conversation
// history and tool results. Sources name the course material consulted
// during tool execution; they are empty for direct answers.
func (g *Generator) GenerateResponse(ctx context.Context, query, history string, registry *tools.Registry) (string, []store.Source, error) {
	system := systemPrompt
	if history != "" {
		system += "\n\nPrevious conversation:\n" + history
	}

	messages := []llm.Message{{Role: "user", Content: query}}

	var answer strings.Builder
	var calls []llm.ToolCall

	err := g.withFallback(ctx, func(model string) error {
		answer.Reset()
		calls = nil
		return g.client.GenerateInferenceWithTools(ctx, messages,
			func(chunk string) error {
				answer.WriteString(chunk)
				return nil
			},
			func(toolCalls []llm.ToolCall) error {
				calls = append(calls, toolCalls...)
				return nil
			},
			llm.WithModel(model),
			llm.WithSystemPrompt(system),
			llm.WithTools(registry.Definitions()),
		)
	})
	if err != nil {
		return "", nil, err
	}

	if len(calls) == 0 {
		return answer.String(), nil, nil
	}

	messages = append(messages, llm.Message{
		Role:      "assistant",
		Content:   answer.String(),
		ToolCalls: calls,
	})

	var sources []store.Source
	for _, call := range calls {
		result, callSources, execErr := registry.Execute(ctx, call.Name, call.Arguments)
		if execErr != nil {
			// Argument validation failures go back to the model as the
			// tool result so synthesis can still produce an answer.
			result = execErr.Error()
		}
		sources = append(sources, callSources...)
		messages = append(messages, llm.Message{
			Role:       "tool",
			Content:    result,
			ToolCallID: call.ID,
		})
	}

	err = g.withFallback(ctx, func(model string) error {
		answer.Reset()
		return g.client.GenerateInference(ctx, messages,
			func(chunk string) error {
				answer.WriteString(chunk)
				return nil
			},
			llm.WithModel(model),
			llm.WithSystemPrompt(system),
		)
	})
	if err != nil {
		return "", nil, err
	}

	return answer.String(), sources, nil
}
