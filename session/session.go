package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type exchange struct {
	user      string
	assistant string
}

// Store keeps a bounded, per-session history of user and assistant
// exchanges. Older exchanges are dropped once maxHistory pairs exist.
type Store struct {
	mu         sync.RWMutex
	maxHistory int
	sessions   map[string][]exchange
}

func NewStore(maxHistory int) *Store {
	return &Store{
		maxHistory: maxHistory,
		sessions:   make(map[string][]exchange),
	}
}

// NewSession allocates a fresh session id with no history.
func (s *Store) NewSession() string {
	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = nil
	s.mu.Unlock()
	return id
}

// AddExchange records one user query and the assistant's answer. The
// session is created on first use; history beyond maxHistory pairs is
// trimmed from the front.
func (s *Store) AddExchange(sessionID, userMessage, assistantMessage string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[sessionID], exchange{user: userMessage, assistant: assistantMessage})
	if s.maxHistory > 0 && len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	s.sessions[sessionID] = history
}

// History renders the session as alternating "User:" and "Assistant:"
// lines, oldest first. An unknown session yields an empty string.
func (s *Store) History(sessionID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[sessionID]
	if len(history) == 0 {
		return ""
	}

	parts := make([]string, 0, len(history))
	for _, ex := range history {
		parts = append(parts, fmt.Sprintf("User: %s\nAssistant: %s", ex.user, ex.assistant))
	}
	return strings.Join(parts, "\n")
}

// Clear removes a session's history but keeps the session id valid.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	s.sessions[sessionID] = nil
	s.mu.Unlock()
}
