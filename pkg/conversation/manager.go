// Package conversation keeps the in-memory dialogue history and resolves
// anaphoric references against the most recent turn.
package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

// Context is the derived view of the most recent turn. It is the entire
// conversational memory model; no deeper summarization exists.
type Context struct {
	LastFunctions []string
	LastLevels    []string
	LastIntent    models.Intent
}

// Session groups turns under one opaque id. Sessions live only for the
// process lifetime.
type Session struct {
	ID      string
	Started time.Time
	turns   []*models.Turn
}

// Manager owns all sessions and their turns. Turns are append-only and
// never mutated after creation. The pipeline is single-threaded, so no
// locking is needed.
type Manager struct {
	sessions map[string]*Session
	logger   *zap.Logger
}

// NewManager creates an empty conversation manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		logger:   logger.Named("conversation"),
	}
}

// StartSession creates a new session with a process-generated id.
func (m *Manager) StartSession() *Session {
	s := &Session{
		ID:      uuid.NewString(),
		Started: time.Now(),
	}
	m.sessions[s.ID] = s
	m.logger.Debug("session started", zap.String("session_id", s.ID))
	return s
}

// Session returns the session for id, or nil if it does not exist.
func (m *Manager) Session(id string) *Session {
	return m.sessions[id]
}

// AppendTurn records a completed exchange on the session.
func (m *Manager) AppendTurn(s *Session, question string, entities *models.EntityRecord, result *models.QueryResult, response string) *models.Turn {
	turn := &models.Turn{
		Timestamp: time.Now(),
		Question:  question,
		Entities:  entities,
		Result:    result,
		Response:  response,
	}
	s.turns = append(s.turns, turn)
	return turn
}

// Turns returns the session's turns oldest first.
func (s *Session) Turns() []*models.Turn {
	return s.turns
}

// CurrentContext recomputes the derived context from the most recent
// turn. An empty session yields a zero context.
func (s *Session) CurrentContext() Context {
	if len(s.turns) == 0 {
		return Context{}
	}
	last := s.turns[len(s.turns)-1]
	if last.Entities == nil {
		return Context{}
	}
	return Context{
		LastFunctions: last.Entities.Functions,
		LastLevels:    last.Entities.Levels,
		LastIntent:    last.Entities.Intent,
	}
}

// ContextSummary renders the last n turns as a short text block for LLM
// prompts.
func (s *Session) ContextSummary(n int) string {
	if len(s.turns) == 0 {
		return ""
	}
	start := len(s.turns) - n
	if start < 0 {
		start = 0
	}

	var sb strings.Builder
	for _, turn := range s.turns[start:] {
		fmt.Fprintf(&sb, "Q: %s\n", turn.Question)
		if turn.Entities != nil && len(turn.Entities.Functions) > 0 {
			fmt.Fprintf(&sb, "   functions=%s intent=%s\n",
				strings.Join(turn.Entities.Functions, ", "), turn.Entities.Intent)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
