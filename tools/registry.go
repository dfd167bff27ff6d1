package tools

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"

	"github.com/SaiNageswarS/course-core/store"
)

// Tool is an operation the model may invoke during a decision round.
// Execute returns the textual result handed back to the model plus the
// sources consulted while producing it.
type Tool interface {
	Definition() api.Tool
	Execute(ctx context.Context, args map[string]any) (string, []store.Source)
}

// ValidationError reports arguments that do not satisfy a tool's declared
// schema. It is raised before the tool runs.
type ValidationError struct {
	Tool   string
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tool %s: parameter %s %s", e.Tool, e.Param, e.Reason)
}

// Registry holds the tools offered to the model and dispatches calls by
// name after validating arguments against each tool's schema.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	name := t.Definition().Function.Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Definitions returns tool schemas in registration order, for the
// decision round of an inference.
func (r *Registry) Definitions() []api.Tool {
	defs := make([]api.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute validates args against the named tool's schema and runs it.
// An unknown tool name yields a textual result the model can recover
// from; invalid arguments yield a *ValidationError and the tool is not
// invoked.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, []store.Source, error) {
	tool, ok := r.tools[name]
	if !ok {
		return fmt.Sprintf("Tool '%s' not found", name), nil, nil
	}

	if err := validateArgs(tool.Definition(), args); err != nil {
		return "", nil, err
	}

	result, sources := tool.Execute(ctx, args)
	return result, sources, nil
}

// validateArgs checks required parameters are present and every supplied
// parameter is declared with a matching type.
func validateArgs(def api.Tool, args map[string]any) error {
	name := def.Function.Name
	params := def.Function.Parameters

	for _, required := range params.Required {
		if _, ok := args[required]; !ok {
			return &ValidationError{Tool: name, Param: required, Reason: "is required"}
		}
	}

	for param, value := range args {
		prop, ok := params.Properties[param]
		if !ok {
			return &ValidationError{Tool: name, Param: param, Reason: "is not declared"}
		}
		if len(prop.Type) == 0 {
			continue
		}
		if !typeMatches(prop.Type[0], value) {
			return &ValidationError{Tool: name, Param: param,
				Reason: fmt.Sprintf("expects type %s, got %T", prop.Type[0], value)}
		}
	}
	return nil
}

func typeMatches(declared string, value any) bool {
	switch declared {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer", "number":
		// JSON decoding hands every numeric argument over as float64.
		switch value.(type) {
		case float64, int:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	default:
		return true
	}
}
