package llm

// ModelInfo describes one selectable OpenRouter model.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Context     int    `json:"context"`
	Description string `json:"description"`
}

// ModelCatalog lists the models the service lets users switch between,
// in display order.
var ModelCatalog = []ModelInfo{
	{
		ID:          "deepseek/deepseek-chat-v3.1:free",
		Name:        "DeepSeek V3.1",
		Context:     163800,
		Description: "Fast and capable general-purpose model",
	},
	{
		ID:          "qwen/qwen3-coder:free",
		Name:        "Qwen3 Coder 480B",
		Context:     262000,
		Description: "Optimized for coding tasks",
	},
	{
		ID:          "google/gemini-2.0-flash-exp:free",
		Name:        "Gemini 2.0 Flash",
		Context:     1048576,
		Description: "Largest context window (1M tokens)",
	},
	{
		ID:          "meta-llama/llama-3.3-70b-instruct:free",
		Name:        "Llama 3.3 70B",
		Context:     131072,
		Description: "Solid general-purpose model",
	},
	{
		ID:          "deepseek/deepseek-r1-0528:free",
		Name:        "DeepSeek R1",
		Context:     163840,
		Description: "Reasoning-focused model",
	},
	{
		ID:          "mistralai/mistral-small-3.2-24b-instruct:free",
		Name:        "Mistral Small 3.2 24B",
		Context:     131072,
		Description: "Efficient and fast",
	},
	{
		ID:          "qwen/qwen-2.5-72b-instruct:free",
		Name:        "Qwen 2.5 72B",
		Context:     32768,
		Description: "Strong instruction following",
	},
}

// KnownModel reports whether id is in the catalog.
func KnownModel(id string) bool {
	for _, m := range ModelCatalog {
		if m.ID == id {
			return true
		}
	}
	return false
}
