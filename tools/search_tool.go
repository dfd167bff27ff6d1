package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/SaiNageswarS/course-core/store"
)

// SearchTool answers content questions by semantic search over indexed
// course material, with optional course and lesson filters.
type SearchTool struct {
	store *store.SemanticStore
}

func NewSearchTool(s *store.SemanticStore) *SearchTool {
	return &SearchTool{store: s}
}

func (t *SearchTool) Definition() api.Tool {
	tool := api.Tool{
		Type: "function",
		Function: api.ToolFunction{
			Name:        "search_course_content",
			Description: "Search course materials with smart course name matching and lesson filtering",
		},
	}
	tool.Function.Parameters.Type = "object"
	tool.Function.Parameters.Properties = map[string]api.ToolProperty{
		"query": {
			Type:        api.PropertyType{"string"},
			Description: "What to search for in course content",
		},
		"course_name": {
			Type:        api.PropertyType{"string"},
			Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
		},
		"lesson_number": {
			Type:        api.PropertyType{"integer"},
			Description: "Specific lesson number to search within (e.g. 1, 2, 3)",
		},
	}
	tool.Function.Parameters.Required = append(tool.Function.Parameters.Required, "query")
	return tool
}

func (t *SearchTool) Execute(ctx context.Context, args map[string]any) (string, []store.Source) {
	query, _ := args["query"].(string)

	courseName := ""
	if v, ok := args["course_name"].(string); ok {
		courseName = v
	}

	var lessonNumber *int
	if v, ok := args["lesson_number"].(float64); ok {
		n := int(v)
		lessonNumber = &n
	} else if v, ok := args["lesson_number"].(int); ok {
		n := v
		lessonNumber = &n
	}

	results := t.store.Search(ctx, query, courseName, lessonNumber)
	if results.Err != "" {
		return results.Err, nil
	}
	if results.IsEmpty() {
		return emptyMessage(courseName, lessonNumber), nil
	}
	return t.formatResults(results)
}

func emptyMessage(courseName string, lessonNumber *int) string {
	var sb strings.Builder
	sb.WriteString("No relevant content found")
	if courseName != "" {
		fmt.Fprintf(&sb, " in course '%s'", courseName)
	}
	if lessonNumber != nil {
		fmt.Fprintf(&sb, " in lesson %d", *lessonNumber)
	}
	sb.WriteString(".")
	return sb.String()
}

// formatResults renders each hit under a course and lesson header and
// collects one source per hit, linked to the lesson when a link exists.
func (t *SearchTool) formatResults(results store.SearchResults) (string, []store.Source) {
	var blocks []string
	var sources []store.Source

	for i, doc := range results.Documents {
		meta := results.Metadata[i]

		header := fmt.Sprintf("[%s", meta.CourseTitle)
		label := meta.CourseTitle
		url := ""
		if meta.LessonNumber >= 0 {
			header += fmt.Sprintf(" - Lesson %d", meta.LessonNumber)
			label += fmt.Sprintf(" - Lesson %d", meta.LessonNumber)
			url = t.store.LessonLink(meta.CourseTitle, meta.LessonNumber)
		}
		header += "]"

		blocks = append(blocks, header+"\n"+doc)
		sources = append(sources, store.Source{Label: label, URL: url})
	}

	return strings.Join(blocks, "\n\n"), sources
}
