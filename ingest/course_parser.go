package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/SaiNageswarS/course-core/store"
)

// DocumentFormatError marks a document that does not follow the course
// header grammar. Ingestion skips such documents and continues.
type DocumentFormatError struct {
	Path   string
	Reason string
}

func (e *DocumentFormatError) Error() string {
	return fmt.Sprintf("malformed course document %s: %s", e.Path, e.Reason)
}

// Course document grammar:
//
//	Course Title: <title>
//	Course Link: <url>          (optional)
//	Course Instructor: <name>   (optional)
//
//	Lesson <n>: <title>
//	Lesson Link: <url>          (optional)
//	<free text body>
var (
	courseTitleRe      = regexp.MustCompile(`^Course Title:\s*(.+)$`)
	courseLinkRe       = regexp.MustCompile(`^Course Link:\s*(.+)$`)
	courseInstructorRe = regexp.MustCompile(`^Course Instructor:\s*(.+)$`)
	lessonMarkerRe     = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.*)$`)
	lessonLinkRe       = regexp.MustCompile(`^Lesson Link:\s*(.+)$`)
)

// lessonBody pairs a parsed lesson with its raw text, kept separate from
// store.Lesson so the chunker can consume bodies after parsing completes.
type lessonBody struct {
	lesson store.Lesson
	body   string
}

// parseCourseDocument extracts the course headers and per-lesson bodies.
// Text between the headers and the first lesson marker becomes the
// course-level body (chunked without a lesson number).
func parseCourseDocument(path, content string) (store.Course, string, []lessonBody, error) {
	lines := strings.Split(content, "\n")

	course := store.Course{}
	i := 0

	// Course headers sit on the first lines, in any order, until the first
	// line that matches none of them.
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if m := courseTitleRe.FindStringSubmatch(line); m != nil {
			course.Title = strings.TrimSpace(m[1])
			continue
		}
		if m := courseLinkRe.FindStringSubmatch(line); m != nil {
			course.Link = strings.TrimSpace(m[1])
			continue
		}
		if m := courseInstructorRe.FindStringSubmatch(line); m != nil {
			course.Instructor = strings.TrimSpace(m[1])
			continue
		}
		break
	}

	if course.Title == "" {
		return store.Course{}, "", nil, &DocumentFormatError{Path: path, Reason: "missing Course Title header"}
	}

	var courseBody strings.Builder
	var lessons []lessonBody
	var current *lessonBody

	flush := func() {
		if current != nil {
			current.body = strings.TrimSpace(current.body)
			lessons = append(lessons, *current)
			current = nil
		}
	}

	for ; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if m := lessonMarkerRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			number, _ := strconv.Atoi(m[1])
			current = &lessonBody{lesson: store.Lesson{
				Number: number,
				Title:  strings.TrimSpace(m[2]),
			}}
			continue
		}

		if current != nil {
			if m := lessonLinkRe.FindStringSubmatch(trimmed); m != nil && current.body == "" {
				current.lesson.Link = strings.TrimSpace(m[1])
				continue
			}
			current.body += line + "\n"
			continue
		}

		courseBody.WriteString(line)
		courseBody.WriteString("\n")
	}
	flush()

	for _, lb := range lessons {
		course.Lessons = append(course.Lessons, lb.lesson)
	}

	return course, strings.TrimSpace(courseBody.String()), lessons, nil
}
