package appconfig

import (
	"strings"

	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	HTTPPort string `env:"HTTP-PORT" ini:"http_port"`
	DocsDir  string `env:"DOCS-DIR" ini:"docs_dir"`

	// Document processing settings.
	ChunkSize    int `env:"CHUNK-SIZE" ini:"chunk_size"`
	ChunkOverlap int `env:"CHUNK-OVERLAP" ini:"chunk_overlap"`
	MaxResults   int `env:"MAX-RESULTS" ini:"max_results"`
	MaxHistory   int `env:"MAX-HISTORY" ini:"max_history"`

	EmbeddingModel string `env:"EMBEDDING-MODEL" ini:"embedding_model"`

	// Model configuration with auto-fallback support. FallbackModels is a
	// comma-separated priority-ordered list in config.ini.
	DefaultModel   string `env:"DEFAULT-MODEL" ini:"default_model"`
	FallbackModels string `env:"FALLBACK-MODELS" ini:"fallback_models"`
}

// FallbackModelList splits the configured fallback models, dropping blanks.
func (c *AppConfig) FallbackModelList() []string {
	var out []string
	for _, m := range strings.Split(c.FallbackModels, ",") {
		m = strings.TrimSpace(m)
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// ApplyDefaults fills settings the config file left unset.
func (c *AppConfig) ApplyDefaults() {
	if c.HTTPPort == "" {
		c.HTTPPort = "8000"
	}
	if c.DocsDir == "" {
		c.DocsDir = "./docs"
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 800
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = 100
	}
	if c.MaxResults == 0 {
		c.MaxResults = 5
	}
	if c.MaxHistory == 0 {
		c.MaxHistory = 2
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "nomic-embed-text"
	}
	if c.DefaultModel == "" {
		c.DefaultModel = "deepseek/deepseek-chat-v3.1:free"
	}
	if c.FallbackModels == "" {
		c.FallbackModels = strings.Join([]string{
			"deepseek/deepseek-chat-v3.1:free",
			"qwen/qwen3-coder:free",
			"google/gemini-2.0-flash-exp:free",
			"meta-llama/llama-3.3-70b-instruct:free",
			"deepseek/deepseek-r1-0528:free",
			"mistralai/mistral-small-3.2-24b-instruct:free",
			"qwen/qwen-2.5-72b-instruct:free",
		}, ",")
	}
}
