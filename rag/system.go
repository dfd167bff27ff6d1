package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/ds"
	"go.uber.org/zap"

	"github.com/SaiNageswarS/course-core/agent"
	"github.com/SaiNageswarS/course-core/appconfig"
	"github.com/SaiNageswarS/course-core/ingest"
	"github.com/SaiNageswarS/course-core/llm"
	"github.com/SaiNageswarS/course-core/session"
	"github.com/SaiNageswarS/course-core/store"
	"github.com/SaiNageswarS/course-core/tools"
)

const apologyMessage = "I'm sorry, I couldn't generate an answer right now. Please try again in a moment."

// System wires ingestion, retrieval, tool-assisted generation and
// session tracking into one query surface.
type System struct {
	processor *ingest.Processor
	store     *store.SemanticStore
	sessions  *session.Store
	registry  *tools.Registry
	generator *agent.Generator
}

func NewSystem(cfg *appconfig.AppConfig, client llm.LLMClient, embedder llm.Embedder) *System {
	semanticStore := store.NewSemanticStore(embedder, cfg.MaxResults)

	registry := tools.NewRegistry()
	registry.Register(tools.NewSearchTool(semanticStore))
	registry.Register(tools.NewOutlineTool(semanticStore))

	return &System{
		processor: ingest.NewProcessor(cfg.ChunkSize, cfg.ChunkOverlap),
		store:     semanticStore,
		sessions:  session.NewStore(cfg.MaxHistory),
		registry:  registry,
		generator: agent.NewGenerator(client, cfg.DefaultModel, cfg.FallbackModelList()),
	}
}

// AddCourseFolder ingests every course document in a folder. Courses
// whose title is already indexed are skipped so restarts do not
// duplicate material; clearExisting drops the index first. Malformed or
// unreadable files are logged and skipped. Returns the number of courses
// and chunks added.
func (s *System) AddCourseFolder(ctx context.Context, folder string, clearExisting bool) (int, int, error) {
	if clearExisting {
		logger.Info("Clearing existing course index")
		s.store.Clear()
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return 0, 0, fmt.Errorf("reading course folder %s: %w", folder, err)
	}

	existing := ds.NewSet[string]()
	for _, title := range s.store.ExistingTitles() {
		existing.Add(title)
	}

	coursesAdded, chunksAdded := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !isCourseDocument(entry.Name()) {
			continue
		}
		path := filepath.Join(folder, entry.Name())

		course, chunks, err := s.processor.ProcessFile(path)
		if err != nil {
			logger.Error("Skipping unprocessable course document", zap.String("path", path), zap.Error(err))
			continue
		}
		if existing.Contains(course.Title) {
			continue
		}

		if err := s.store.AddCourse(ctx, course, chunks); err != nil {
			logger.Error("Failed to index course", zap.String("course", course.Title), zap.Error(err))
			continue
		}

		existing.Add(course.Title)
		coursesAdded++
		chunksAdded += len(chunks)
	}

	return coursesAdded, chunksAdded, nil
}

func isCourseDocument(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".txt")
}

// Query answers a user query within a session. A missing session id
// allocates a new session. The exchange is recorded only after a
// successful answer; when every candidate model fails the caller gets an
// apology and the history is left untouched.
func (s *System) Query(ctx context.Context, query, sessionID string) (string, []store.Source, string) {
	if sessionID == "" {
		sessionID = s.sessions.NewSession()
	}
	history := s.sessions.History(sessionID)

	answer, sources, err := s.generator.GenerateResponse(ctx, query, history, s.registry)
	if err != nil {
		logger.Error("Answer generation failed", zap.String("session", sessionID), zap.Error(err))
		return apologyMessage, nil, sessionID
	}

	s.sessions.AddExchange(sessionID, query, answer)
	return answer, sources, sessionID
}

// Analytics reports what the index currently holds.
func (s *System) Analytics() (int, []string) {
	return s.store.CourseCount(), s.store.CourseTitles()
}

// ClearSession drops a session's history.
func (s *System) ClearSession(sessionID string) {
	s.sessions.Clear(sessionID)
}

// Model returns the model currently used for generation.
func (s *System) Model() string {
	return s.generator.Model()
}

// SetModel switches generation to a known model.
func (s *System) SetModel(model string) error {
	if !llm.KnownModel(model) {
		return fmt.Errorf("unknown model %q", model)
	}
	s.generator.SetModel(model)
	logger.Info("Switched generation model", zap.String("model", model))
	return nil
}
