package web

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/flatframe/internal/table"
)

var (
	// ErrTableNotFound is returned for an unknown workspace ID.
	ErrTableNotFound = errors.New("table not found in workspace")

	// ErrWorkspaceFull is returned when the workspace already holds its
	// maximum number of tables.
	ErrWorkspaceFull = errors.New("workspace is full")
)

// Entry is one table held by the workspace. A Table is not safe for
// concurrent mutation, so every access goes through View or Update.
type Entry struct {
	ID      uuid.UUID
	Name    string
	Created time.Time
	Source  string // "upload", or the operation and parent that produced it

	mu    sync.RWMutex
	table *table.Table
}

// View runs fn with shared access to the table.
func (e *Entry) View(fn func(*table.Table) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fn(e.table)
}

// Update runs fn with exclusive access to the table.
func (e *Entry) Update(fn func(*table.Table) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.table)
}

// ViewPair runs fn with shared access to both tables. Locks are taken in ID
// order so crossed pairs cannot deadlock against a waiting Update. a and b
// may be the same entry.
func ViewPair(a, b *Entry, fn func(x, y *table.Table) error) error {
	if a == b {
		return a.View(func(t *table.Table) error { return fn(t, t) })
	}
	first, second := a, b
	if bytes.Compare(a.ID[:], b.ID[:]) > 0 {
		first, second = b, a
	}
	first.mu.RLock()
	defer first.mu.RUnlock()
	second.mu.RLock()
	defer second.mu.RUnlock()
	return fn(a.table, b.table)
}

// Workspace is an in-memory set of tables keyed by UUID.
type Workspace struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
	max     int
	now     func() time.Time
}

// NewWorkspace creates a workspace holding at most max tables.
func NewWorkspace(max int) *Workspace {
	return &Workspace{
		entries: make(map[uuid.UUID]*Entry),
		max:     max,
		now:     time.Now,
	}
}

// Add stores t under a new ID.
func (ws *Workspace) Add(name, source string, t *table.Table) (*Entry, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.max > 0 && len(ws.entries) >= ws.max {
		return nil, ErrWorkspaceFull
	}

	e := &Entry{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(name),
		Created: ws.now(),
		Source:  source,
		table:   t,
	}
	if e.Name == "" {
		e.Name = e.ID.String()[:8]
	}
	ws.entries[e.ID] = e
	return e, nil
}

// Get returns the entry with the given ID.
func (ws *Workspace) Get(id uuid.UUID) (*Entry, error) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	e, ok := ws.entries[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	return e, nil
}

// Remove deletes the entry with the given ID.
func (ws *Workspace) Remove(id uuid.UUID) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if _, ok := ws.entries[id]; !ok {
		return ErrTableNotFound
	}
	delete(ws.entries, id)
	return nil
}

// All returns every entry, oldest first, ties broken by name.
func (ws *Workspace) All() []*Entry {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	result := make([]*Entry, 0, len(ws.entries))
	for _, e := range ws.entries {
		result = append(result, e)
	}

	slices.SortFunc(result, func(a, b *Entry) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return result
}

// Len returns the number of stored tables.
func (ws *Workspace) Len() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.entries)
}
