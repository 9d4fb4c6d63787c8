package editor

import (
	"sync"

	"github.com/google/uuid"

	"certcanvas/api-gateway/models"
)

// Registry keeps open editor sessions in process memory. Sessions are lost on
// restart, which matches their contract: edits are local until an explicit save.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewRegistry returns an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Open creates a session over the template and its persisted fields.
func (r *Registry) Open(template models.Template, fields []models.TemplateField) *Session {
	session := NewSession(template, fields)
	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	return session
}

// Get looks up an open session by id.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Close discards a session and its unsaved edits.
func (r *Registry) Close(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
