// Package api exposes the course assistant over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SaiNageswarS/course-core/llm"
	"github.com/SaiNageswarS/course-core/rag"
	"github.com/SaiNageswarS/course-core/store"
)

type Handler struct {
	system *rag.System
}

func NewHandler(system *rag.System) *Handler {
	return &Handler{system: system}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/query", h.handleQuery)
	r.Get("/api/courses", h.handleCourses)
	r.Get("/api/models", h.handleModels)
	r.Post("/api/models/select", h.handleSelectModel)
	r.Post("/api/sessions/clear", h.handleClearSession)
}

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type queryResponse struct {
	Answer    string         `json:"answer"`
	Sources   []store.Source `json:"sources"`
	SessionID string         `json:"session_id"`
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		Error(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	answer, sources, sessionID := h.system.Query(r.Context(), req.Query, req.SessionID)
	if sources == nil {
		sources = []store.Source{}
	}

	JSON(w, http.StatusOK, queryResponse{
		Answer:    answer,
		Sources:   sources,
		SessionID: sessionID,
	})
}

type coursesResponse struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

func (h *Handler) handleCourses(w http.ResponseWriter, r *http.Request) {
	count, titles := h.system.Analytics()
	if titles == nil {
		titles = []string{}
	}
	JSON(w, http.StatusOK, coursesResponse{TotalCourses: count, CourseTitles: titles})
}

type modelsResponse struct {
	Models       []llm.ModelInfo `json:"models"`
	CurrentModel string          `json:"current_model"`
}

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, modelsResponse{
		Models:       llm.ModelCatalog,
		CurrentModel: h.system.Model(),
	})
}

type selectModelRequest struct {
	Model string `json:"model"`
}

type selectModelResponse struct {
	CurrentModel string `json:"current_model"`
}

func (h *Handler) handleSelectModel(w http.ResponseWriter, r *http.Request) {
	var req selectModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.system.SetModel(req.Model); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	JSON(w, http.StatusOK, selectModelResponse{CurrentModel: h.system.Model()})
}

type clearSessionRequest struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	var req clearSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		Error(w, http.StatusBadRequest, "session_id is required")
		return
	}

	h.system.ClearSession(req.SessionID)
	JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
