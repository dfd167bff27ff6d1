package appconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()

	assert.Equal(t, "8000", cfg.HTTPPort)
	assert.Equal(t, 800, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.MaxResults)
	assert.Equal(t, 2, cfg.MaxHistory)
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
	assert.Equal(t, "deepseek/deepseek-chat-v3.1:free", cfg.DefaultModel)
	assert.Len(t, cfg.FallbackModelList(), 7)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &AppConfig{ChunkSize: 400, DefaultModel: "qwen/qwen3-coder:free"}
	cfg.ApplyDefaults()

	assert.Equal(t, 400, cfg.ChunkSize)
	assert.Equal(t, "qwen/qwen3-coder:free", cfg.DefaultModel)
}

func TestFallbackModelList(t *testing.T) {
	cfg := &AppConfig{FallbackModels: " a/one:free , b/two:free ,, "}
	assert.Equal(t, []string{"a/one:free", "b/two:free"}, cfg.FallbackModelList())
}
