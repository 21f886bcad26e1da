// Package prefs keeps the UI toggles (dark mode, sidebar) for every viewer in
// one process-wide store. Pages read it on render and live views subscribe to it.
package prefs

import (
	"sync"

	"finlit-platform/models"
)

// Listener is told about every change. It runs outside the store's lock.
type Listener func(subjectID string, p models.Preferences)

type Store struct {
	mu        sync.RWMutex
	defaults  models.Preferences
	bySubject map[string]models.Preferences

	subMu     sync.Mutex
	nextID    uint64
	listeners map[uint64]Listener
}

func NewStore(defaults models.Preferences) *Store {
	s := &Store{listeners: make(map[uint64]Listener)}
	s.Init(defaults)
	return s
}

// Init sets the defaults new viewers start with and forgets every viewer's choices.
// Subscribers are kept.
func (s *Store) Init(defaults models.Preferences) {
	s.mu.Lock()
	s.defaults = defaults
	s.bySubject = make(map[string]models.Preferences)
	s.mu.Unlock()
}

// Reset restores the current defaults for everyone and drops all subscribers.
func (s *Store) Reset() {
	s.mu.Lock()
	s.bySubject = make(map[string]models.Preferences)
	s.mu.Unlock()

	s.subMu.Lock()
	s.listeners = make(map[uint64]Listener)
	s.subMu.Unlock()
}

func (s *Store) Get(subjectID string) models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.bySubject[subjectID]; ok {
		return p
	}
	return s.defaults
}

// Update applies fn to the viewer's preferences and notifies subscribers when
// something changed.
func (s *Store) Update(subjectID string, fn func(*models.Preferences)) models.Preferences {
	s.mu.Lock()
	before, ok := s.bySubject[subjectID]
	if !ok {
		before = s.defaults
	}
	after := before
	fn(&after)
	s.bySubject[subjectID] = after
	s.mu.Unlock()

	if after != before {
		s.notify(subjectID, after)
	}
	return after
}

func (s *Store) ToggleDarkMode(subjectID string) models.Preferences {
	return s.Update(subjectID, func(p *models.Preferences) { p.DarkMode = !p.DarkMode })
}

func (s *Store) ToggleSidebar(subjectID string) models.Preferences {
	return s.Update(subjectID, func(p *models.Preferences) { p.SidebarCollapsed = !p.SidebarCollapsed })
}

// Subscribe registers fn for every change and returns the function that removes it.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.listeners, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(subjectID string, p models.Preferences) {
	s.subMu.Lock()
	snapshot := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		snapshot = append(snapshot, fn)
	}
	s.subMu.Unlock()

	for _, fn := range snapshot {
		fn(subjectID, p)
	}
}
