package panel

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/domain"
)

// Entry pairs a panel with the state it renders into.
type Entry struct {
	Panel *Panel
	View  *ViewState
}

// Registry keeps one mounted panel per session.
type Registry struct {
	service StaffService
	logger  *zap.Logger

	mu      sync.Mutex
	entries map[string]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry(service StaffService, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{service: service, logger: logger, entries: map[string]*Entry{}}
}

// Mount replaces any panel held for sessionID with a freshly mounted one.
// The entry is returned even when mounting reported an error.
func (r *Registry) Mount(ctx context.Context, sessionID string, auth domain.AuthContext) (*Entry, error) {
	view := NewViewState()
	entry := &Entry{Panel: New(auth, r.service, view, r.logger.With(zap.String("session_id", sessionID))), View: view}

	r.mu.Lock()
	previous := r.entries[sessionID]
	r.entries[sessionID] = entry
	r.mu.Unlock()

	if previous != nil {
		previous.Panel.Unmount()
	}
	return entry, entry.Panel.Mount(ctx)
}

// Get returns the panel for sessionID, if mounted.
func (r *Registry) Get(sessionID string) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[sessionID]
	return entry, ok
}

// Unmount tears down and forgets the panel for sessionID.
func (r *Registry) Unmount(sessionID string) bool {
	r.mu.Lock()
	entry, ok := r.entries[sessionID]
	delete(r.entries, sessionID)
	r.mu.Unlock()
	if ok {
		entry.Panel.Unmount()
	}
	return ok
}

// Len reports the number of mounted panels.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
