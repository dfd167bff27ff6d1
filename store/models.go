package store

// Lesson is one numbered unit of a course. It is owned by its Course and has
// no independent lifecycle.
type Lesson struct {
	Number int    `json:"lesson_number"`
	Title  string `json:"lesson_title"`
	Link   string `json:"lesson_link,omitempty"`
}

// Course is the catalog entry for one ingested document. Title is the unique
// identifier across the corpus.
type Course struct {
	Title      string   `json:"title"`
	Link       string   `json:"course_link,omitempty"`
	Instructor string   `json:"instructor,omitempty"`
	Lessons    []Lesson `json:"lessons"`
}

// CourseChunk is one indexable piece of course content. Content carries the
// enrichment header naming its course and lesson, so the chunk is
// self-describing when returned without surrounding context. LessonNumber is
// nil for course-level chunks.
type CourseChunk struct {
	Content      string
	CourseTitle  string
	LessonNumber *int
	ChunkIndex   int
}

// ChunkMetadata travels with every indexed chunk and comes back on search
// hits. LessonNumber -1 marks a course-level chunk.
type ChunkMetadata struct {
	CourseTitle  string
	LessonNumber int
	ChunkIndex   int
}

// SearchResults is the value returned across the search boundary. Err is a
// message, not an error type: the semantic store never raises past its public
// surface. Empty documents with an empty Err is the valid "no match" state,
// distinct from a failed search.
type SearchResults struct {
	Documents []string
	Metadata  []ChunkMetadata
	Distances []float64
	Err       string
}

// IsEmpty reports whether the search matched nothing (and did not fail).
func (r SearchResults) IsEmpty() bool {
	return r.Err == "" && len(r.Documents) == 0
}

func errorResults(msg string) SearchResults {
	return SearchResults{Err: msg}
}

// Source is the provenance record for one retrieved chunk, surfaced to the
// UI alongside the answer.
type Source struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}
