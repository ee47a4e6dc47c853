package server

import (
	"sort"
	"sync"

	"github.com/sampathk123/RepWise/internal/exercise"
)

// Sessions tracks the exercise sessions of connected clients.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*exercise.Session
}

// NewSessions creates an empty session directory.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*exercise.Session)}
}

// Add registers a session under its ID.
func (d *Sessions) Add(s *exercise.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[s.ID()] = s
}

// Remove forgets the session with the given ID.
func (d *Sessions) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, id)
}

// Get returns the session with the given ID.
func (d *Sessions) Get(id string) (*exercise.Session, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (d *Sessions) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}

// List returns a snapshot of every live session, oldest first.
func (d *Sessions) List() []exercise.Info {
	d.mu.RLock()
	infos := make([]exercise.Info, 0, len(d.sessions))
	for _, s := range d.sessions {
		infos = append(infos, s.Info())
	}
	d.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Reset resets the session with the given ID and reports whether it exists.
func (d *Sessions) Reset(id string) bool {
	s, ok := d.Get(id)
	if !ok {
		return false
	}
	s.Reset()
	return true
}
