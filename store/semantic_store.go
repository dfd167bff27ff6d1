package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/SaiNageswarS/course-core/llm"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.uber.org/zap"
)

// ErrCourseNotFound is returned by ResolveCourseName when the catalog is
// empty and no nearest entry exists.
var ErrCourseNotFound = errors.New("course not found")

// SemanticStore maintains two collections over text embeddings: a course
// catalog keyed by title (one entry per course, used for fuzzy course-name
// resolution and metadata lookups) and course content keyed by derived chunk
// id (one entry per CourseChunk, used for filtered similarity search).
//
// The store never returns an error across its search boundary: every
// fallible search operation yields a SearchResults with an Err message so
// callers can degrade gracefully.
type SemanticStore struct {
	embedder   llm.Embedder
	maxResults int

	catalog *vectorCollection
	content *vectorCollection

	mu      sync.RWMutex
	courses map[string]Course
}

func NewSemanticStore(embedder llm.Embedder, maxResults int) *SemanticStore {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &SemanticStore{
		embedder:   embedder,
		maxResults: maxResults,
		catalog:    newVectorCollection(),
		content:    newVectorCollection(),
		courses:    make(map[string]Course),
	}
}

// AddCourse indexes the course's catalog entry and all of its content
// chunks. The store does not deduplicate: callers implement idempotent
// loading by checking ExistingTitles first.
func (s *SemanticStore) AddCourse(ctx context.Context, course Course, chunks []CourseChunk) error {
	titleEmb, err := s.embedder.Embed(ctx, course.Title)
	if err != nil {
		return fmt.Errorf("embedding course title %q: %w", course.Title, err)
	}

	// Embed chunks concurrently; ingestion happens once at startup so the
	// burst is bounded by the corpus size.
	tasks := make([]<-chan async.Result[[]float32], 0, len(chunks))
	for _, chunk := range chunks {
		content := chunk.Content
		tasks = append(tasks, async.Go(func() ([]float32, error) {
			return s.embedder.Embed(ctx, content)
		}))
	}

	embeddings, err := async.AwaitAll(tasks...)
	if err != nil {
		return fmt.Errorf("embedding chunks for course %q: %w", course.Title, err)
	}

	s.catalog.upsert(course.Title, course.Title, titleEmb, ChunkMetadata{CourseTitle: course.Title, LessonNumber: -1})

	s.mu.Lock()
	s.courses[course.Title] = course
	s.mu.Unlock()

	for i, chunk := range chunks {
		lesson := -1
		if chunk.LessonNumber != nil {
			lesson = *chunk.LessonNumber
		}
		id := fmt.Sprintf("%s_%d", chunk.CourseTitle, chunk.ChunkIndex)
		s.content.upsert(id, chunk.Content, embeddings[i], ChunkMetadata{
			CourseTitle:  chunk.CourseTitle,
			LessonNumber: lesson,
			ChunkIndex:   chunk.ChunkIndex,
		})
	}

	logger.Info("Indexed course",
		zap.String("title", course.Title),
		zap.Int("chunks", len(chunks)))
	return nil
}

// ExistingTitles returns the course titles currently indexed, sorted for
// stable display. Callers use it to skip documents whose course is already
// present.
func (s *SemanticStore) ExistingTitles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	titles := make([]string, 0, len(s.courses))
	for title := range s.courses {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// ResolveCourseName resolves a fuzzy or partial course name to the exact
// catalog title by nearest-embedding lookup. The single nearest entry is
// always returned, with no similarity threshold.
func (s *SemanticStore) ResolveCourseName(ctx context.Context, name string) (string, error) {
	emb, err := s.embedder.Embed(ctx, name)
	if err != nil {
		return "", fmt.Errorf("embedding course name %q: %w", name, err)
	}

	hits := s.catalog.query(emb, 1, nil)
	if len(hits) == 0 {
		return "", ErrCourseNotFound
	}
	return hits[0].entry.id, nil
}

// Search runs a filtered nearest-neighbor search over course content. A
// course name, if given, is resolved against the catalog first; resolution
// failure yields an error result rather than the nearest-anything content.
func (s *SemanticStore) Search(ctx context.Context, query string, courseName string, lessonNumber *int) SearchResults {
	filterTitle := ""
	if courseName != "" {
		resolved, err := s.ResolveCourseName(ctx, courseName)
		if err != nil {
			if errors.Is(err, ErrCourseNotFound) {
				return errorResults(fmt.Sprintf("No course found matching '%s'", courseName))
			}
			return errorResults(fmt.Sprintf("Search error: %v", err))
		}
		filterTitle = resolved
	}

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Error("Failed to embed search query", zap.Error(err))
		return errorResults(fmt.Sprintf("Search error: %v", err))
	}

	var filter func(ChunkMetadata) bool
	if filterTitle != "" || lessonNumber != nil {
		filter = func(m ChunkMetadata) bool {
			if filterTitle != "" && m.CourseTitle != filterTitle {
				return false
			}
			if lessonNumber != nil && m.LessonNumber != *lessonNumber {
				return false
			}
			return true
		}
	}

	hits := s.content.query(emb, s.maxResults, filter)

	results := SearchResults{}
	for _, h := range hits {
		results.Documents = append(results.Documents, h.entry.document)
		results.Metadata = append(results.Metadata, h.entry.meta)
		results.Distances = append(results.Distances, h.distance)
	}
	return results
}

// CourseOutline returns the full catalog entry for an exact title.
func (s *SemanticStore) CourseOutline(title string) (Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[title]
	return course, ok
}

// LessonLink returns the link for one lesson of a course, or "" when the
// course or lesson is unknown or has no link.
func (s *SemanticStore) LessonLink(courseTitle string, lessonNumber int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[courseTitle]
	if !ok {
		return ""
	}
	for _, lesson := range course.Lessons {
		if lesson.Number == lessonNumber {
			return lesson.Link
		}
	}
	return ""
}

// CourseCount returns the number of indexed courses.
func (s *SemanticStore) CourseCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}

// CourseTitles returns all indexed course titles.
func (s *SemanticStore) CourseTitles() []string {
	return s.ExistingTitles()
}

// Clear drops both collections and the catalog metadata for a full rebuild.
func (s *SemanticStore) Clear() {
	s.catalog.clear()
	s.content.clear()
	s.mu.Lock()
	s.courses = make(map[string]Course)
	s.mu.Unlock()
}
