package session

import (
	"encoding/json"
	"time"

	"github.com/wricardo/gridbots/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the JSON structure for persisted sessions. The
// simulation itself is not stored: the engine is deterministic, so the
// level, the program, and the elapsed tick count fully reproduce it.
type PersistedSessionData struct {
	ID             string          `json:"id"`
	LevelID        string          `json:"level_id"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	Program        json.RawMessage `json:"program,omitempty"`
	TicksElapsed   int             `json:"ticks_elapsed"`
}
