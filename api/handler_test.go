package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiNageswarS/course-core/appconfig"
	"github.com/SaiNageswarS/course-core/llm"
	"github.com/SaiNageswarS/course-core/rag"
)

type staticLLM struct {
	answer string
}

func (f *staticLLM) GetModel() string { return "static" }

func (f *staticLLM) GenerateInference(_ context.Context, _ []llm.Message, callback func(string) error, _ ...llm.LLMOption) error {
	return callback(f.answer)
}

func (f *staticLLM) GenerateInferenceWithTools(_ context.Context, _ []llm.Message, contentCallback func(string) error, _ func([]llm.ToolCall) error, _ ...llm.LLMOption) error {
	return contentCallback(f.answer)
}

type zeroEmbedder struct{}

func (zeroEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, 8), nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &appconfig.AppConfig{}
	cfg.ApplyDefaults()

	system := rag.NewSystem(cfg, &staticLLM{answer: "a direct answer"}, zeroEmbedder{})

	dir := t.TempDir()
	doc := "Course Title: Test Course\n\nLesson 1: One\nLesson body text here.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "course.txt"), []byte(doc), 0o644))
	_, _, err := system.AddCourseFolder(context.Background(), dir, false)
	require.NoError(t, err)

	return NewRouter(system)
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestQueryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/query", map[string]string{"query": "What is in the course?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Answer    string `json:"answer"`
		Sources   []any  `json:"sources"`
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "a direct answer", resp.Answer)
	assert.NotEmpty(t, resp.SessionID)
	assert.NotNil(t, resp.Sources)
}

func TestQueryEndpoint_SessionReuse(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/query", map[string]string{"query": "first"})
	var first struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = postJSON(t, router, "/api/query", map[string]string{
		"query":      "second",
		"session_id": first.SessionID,
	})
	var second struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestQueryEndpoint_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	t.Run("empty query", func(t *testing.T) {
		rec := postJSON(t, router, "/api/query", map[string]string{"query": "  "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCoursesEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalCourses int      `json:"total_courses"`
		CourseTitles []string `json:"course_titles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalCourses)
	assert.Equal(t, []string{"Test Course"}, resp.CourseTitles)
}

func TestModelsEndpoints(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Models       []llm.ModelInfo `json:"models"`
		CurrentModel string          `json:"current_model"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Models)
	assert.NotEmpty(t, resp.CurrentModel)

	t.Run("select known model", func(t *testing.T) {
		target := resp.Models[len(resp.Models)-1].ID
		rec := postJSON(t, router, "/api/models/select", map[string]string{"model": target})
		require.Equal(t, http.StatusOK, rec.Code)

		var selected struct {
			CurrentModel string `json:"current_model"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &selected))
		assert.Equal(t, target, selected.CurrentModel)
	})

	t.Run("select unknown model", func(t *testing.T) {
		rec := postJSON(t, router, "/api/models/select", map[string]string{"model": "made-up/model"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestClearSessionEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("missing session id", func(t *testing.T) {
		rec := postJSON(t, router, "/api/sessions/clear", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("clears session", func(t *testing.T) {
		rec := postJSON(t, router, "/api/sessions/clear", map[string]string{"session_id": "some-session"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHeartbeat(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/query", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
