package ingest

import (
	"fmt"
	"os"

	"github.com/SaiNageswarS/course-core/store"
)

// Processor turns course documents into a parsed Course plus a stream of
// enriched, sequentially indexed chunks ready for embedding.
type Processor struct {
	chunkSize    int
	chunkOverlap int
}

func NewProcessor(chunkSize, chunkOverlap int) *Processor {
	return &Processor{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// ProcessFile reads a course document from disk and processes it.
func (p *Processor) ProcessFile(path string) (store.Course, []store.CourseChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return store.Course{}, nil, fmt.Errorf("reading course document %s: %w", path, err)
	}
	return p.ProcessDocument(path, string(data))
}

// ProcessDocument parses content against the course header grammar and
// chunks every lesson body. Each chunk is prefixed with its course and
// lesson so a chunk retrieved in isolation still names its origin.
func (p *Processor) ProcessDocument(path, content string) (store.Course, []store.CourseChunk, error) {
	course, courseBody, lessons, err := parseCourseDocument(path, content)
	if err != nil {
		return store.Course{}, nil, err
	}

	var chunks []store.CourseChunk
	index := 0

	for _, text := range chunkText(courseBody, p.chunkSize, p.chunkOverlap) {
		chunks = append(chunks, store.CourseChunk{
			Content:     fmt.Sprintf("Course %s content: %s", course.Title, text),
			CourseTitle: course.Title,
			ChunkIndex:  index,
		})
		index++
	}

	for _, lb := range lessons {
		number := lb.lesson.Number
		for _, text := range chunkText(lb.body, p.chunkSize, p.chunkOverlap) {
			chunks = append(chunks, store.CourseChunk{
				Content:      fmt.Sprintf("Course %s Lesson %d content: %s", course.Title, number, text),
				CourseTitle:  course.Title,
				LessonNumber: intPtr(number),
				ChunkIndex:   index,
			})
			index++
		}
	}

	return course, chunks, nil
}

func intPtr(v int) *int { return &v }
