package rag

import (
	"context"
	"errors"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiNageswarS/course-core/appconfig"
	"github.com/SaiNageswarS/course-core/llm"
)

const courseDoc = `Course Title: Introduction to MCP
Course Link: https://example.com/mcp
Course Instructor: Ada Lovelace

Lesson 0: Getting Started
Lesson Link: https://example.com/mcp/lesson-0
MCP is a protocol for connecting models to tools. It standardises tool discovery.

Lesson 1: Building Servers
Servers expose tools over a transport. Clients call them with JSON payloads.
`

type wordEmbedder struct{}

func (wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 64)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?:;'\"()")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%64]++
	}
	return vec, nil
}

// scriptedLLM requests one search tool call on the first tools-enabled
// inference, then answers with a fixed string. failAll makes every
// model attempt error.
type scriptedLLM struct {
	answer      string
	requestTool bool
	failAll     bool
	toolServed  bool
}

func (f *scriptedLLM) GetModel() string { return "scripted" }

func (f *scriptedLLM) GenerateInference(_ context.Context, _ []llm.Message, callback func(string) error, _ ...llm.LLMOption) error {
	if f.failAll {
		return errors.New("model unavailable")
	}
	return callback(f.answer)
}

func (f *scriptedLLM) GenerateInferenceWithTools(ctx context.Context, messages []llm.Message, contentCallback func(string) error, toolCallback func([]llm.ToolCall) error, _ ...llm.LLMOption) error {
	if f.failAll {
		return errors.New("model unavailable")
	}
	if f.requestTool && !f.toolServed {
		f.toolServed = true
		return toolCallback([]llm.ToolCall{{
			ID:        "call_1",
			Name:      "search_course_content",
			Arguments: map[string]any{"query": "what is MCP", "course_name": "MCP"},
		}})
	}
	return contentCallback(f.answer)
}

func testConfig() *appconfig.AppConfig {
	cfg := &appconfig.AppConfig{}
	cfg.ApplyDefaults()
	cfg.DefaultModel = "model-a"
	cfg.FallbackModels = "model-b"
	return cfg
}

func newSystemWithDocs(t *testing.T, client llm.LLMClient) (*System, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "course1.txt"), []byte(courseDoc), 0o644))

	s := NewSystem(testConfig(), client, wordEmbedder{})
	courses, chunks, err := s.AddCourseFolder(context.Background(), dir, false)
	require.NoError(t, err)
	require.Equal(t, 1, courses)
	require.Equal(t, 2, chunks)
	return s, dir
}

func TestAddCourseFolder_SkipsExistingOnReload(t *testing.T) {
	s, dir := newSystemWithDocs(t, &scriptedLLM{answer: "ok"})

	courses, chunks, err := s.AddCourseFolder(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 0, courses)
	assert.Equal(t, 0, chunks)

	count, _ := s.Analytics()
	assert.Equal(t, 1, count)
}

func TestAddCourseFolder_ClearExisting(t *testing.T) {
	s, dir := newSystemWithDocs(t, &scriptedLLM{answer: "ok"})

	courses, _, err := s.AddCourseFolder(context.Background(), dir, true)
	require.NoError(t, err)
	assert.Equal(t, 1, courses)

	count, _ := s.Analytics()
	assert.Equal(t, 1, count)
}

func TestAddCourseFolder_SkipsMalformedAndNonCourseFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.txt"), []byte(courseDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.txt"), []byte("no headers here"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# ignored"), 0o644))

	s := NewSystem(testConfig(), &scriptedLLM{answer: "ok"}, wordEmbedder{})
	courses, _, err := s.AddCourseFolder(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, courses)
}

func TestAddCourseFolder_MissingFolder(t *testing.T) {
	s := NewSystem(testConfig(), &scriptedLLM{answer: "ok"}, wordEmbedder{})
	_, _, err := s.AddCourseFolder(context.Background(), "/does/not/exist", false)
	require.Error(t, err)
}

func TestQuery_ToolAssistedAnswer(t *testing.T) {
	client := &scriptedLLM{answer: "MCP is a protocol for tools.", requestTool: true}
	s, _ := newSystemWithDocs(t, client)

	answer, sources, sessionID := s.Query(context.Background(), "What is MCP?", "")
	assert.Equal(t, "MCP is a protocol for tools.", answer)
	assert.NotEmpty(t, sessionID)
	require.NotEmpty(t, sources)
	assert.Contains(t, sources[0].Label, "Introduction to MCP")
}

func TestQuery_SessionContinuity(t *testing.T) {
	client := &scriptedLLM{answer: "direct answer"}
	s, _ := newSystemWithDocs(t, client)

	_, _, sessionID := s.Query(context.Background(), "first question", "")
	_, _, again := s.Query(context.Background(), "second question", sessionID)
	assert.Equal(t, sessionID, again)
}

func TestQuery_ApologyOnModelExhaustion(t *testing.T) {
	client := &scriptedLLM{failAll: true}
	s, _ := newSystemWithDocs(t, client)

	answer, sources, sessionID := s.Query(context.Background(), "question", "")
	assert.Equal(t, apologyMessage, answer)
	assert.Empty(t, sources)
	assert.NotEmpty(t, sessionID)

	// A failed exchange must not pollute history.
	client.failAll = false
	_, _, _ = s.Query(context.Background(), "second", sessionID)
}

func TestAnalytics(t *testing.T) {
	s, _ := newSystemWithDocs(t, &scriptedLLM{answer: "ok"})
	count, titles := s.Analytics()
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"Introduction to MCP"}, titles)
}

func TestSetModel(t *testing.T) {
	s, _ := newSystemWithDocs(t, &scriptedLLM{answer: "ok"})

	known := llm.ModelCatalog[0].ID
	require.NoError(t, s.SetModel(known))
	assert.Equal(t, known, s.Model())

	err := s.SetModel("made-up/model")
	require.Error(t, err)
	assert.Equal(t, known, s.Model())
}
