package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/SaiNageswarS/course-core/store"
)

// OutlineTool answers structural questions about a course: its link,
// instructor and full lesson list.
type OutlineTool struct {
	store *store.SemanticStore
}

func NewOutlineTool(s *store.SemanticStore) *OutlineTool {
	return &OutlineTool{store: s}
}

func (t *OutlineTool) Definition() api.Tool {
	tool := api.Tool{
		Type: "function",
		Function: api.ToolFunction{
			Name:        "get_course_outline",
			Description: "Get the outline of a course including its link and complete lesson list",
		},
	}
	tool.Function.Parameters.Type = "object"
	tool.Function.Parameters.Properties = map[string]api.ToolProperty{
		"course_name": {
			Type:        api.PropertyType{"string"},
			Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
		},
	}
	tool.Function.Parameters.Required = append(tool.Function.Parameters.Required, "course_name")
	return tool
}

func (t *OutlineTool) Execute(ctx context.Context, args map[string]any) (string, []store.Source) {
	courseName, _ := args["course_name"].(string)

	title, err := t.store.ResolveCourseName(ctx, courseName)
	if err != nil {
		return fmt.Sprintf("No course found matching '%s'", courseName), nil
	}

	course, ok := t.store.CourseOutline(title)
	if !ok {
		return fmt.Sprintf("No course found matching '%s'", courseName), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n", course.Title)
	if course.Link != "" {
		fmt.Fprintf(&sb, "Course Link: %s\n", course.Link)
	}
	if course.Instructor != "" {
		fmt.Fprintf(&sb, "Instructor: %s\n", course.Instructor)
	}
	fmt.Fprintf(&sb, "\nLessons (%d):\n", len(course.Lessons))
	for _, lesson := range course.Lessons {
		fmt.Fprintf(&sb, "- Lesson %d: %s\n", lesson.Number, lesson.Title)
	}

	sources := []store.Source{{Label: course.Title, URL: course.Link}}
	return sb.String(), sources
}
