package auth

import (
	"context"
	"sort"
	"sync"
	"time"

	"finlit-platform/models"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory. Used with DB_DRIVER=memory and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]models.User // by email
	sessions map[string]SessionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]models.User),
		sessions: make(map[string]SessionRecord),
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, email, passwordHash string, now time.Time) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return models.User{}, ErrEmailTaken
	}
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		IsActive:     true,
	}
	m.users[email] = u
	return u, nil
}

func (m *MemoryStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) TouchLogin(_ context.Context, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, u := range m.users {
		if u.ID == userID {
			u.LastLogin = now
			m.users[email] = u
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) CreateSession(_ context.Context, rec SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[rec.ID] = rec
	return nil
}

func (m *MemoryStore) SessionByID(_ context.Context, id string) (SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.sessions[id]
	if !ok {
		return SessionRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryStore) ExtendSession(_ context.Context, id string, expiresAt, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	rec.ExpiresAt = expiresAt
	rec.LastActivity = now
	m.sessions[id] = rec
	return nil
}

func (m *MemoryStore) RevokeSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	rec.Active = false
	m.sessions[id] = rec
	return nil
}

func (m *MemoryStore) ListSessions(_ context.Context, userID string) ([]SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []SessionRecord
	for _, rec := range m.sessions {
		if rec.UserID == userID && rec.Active {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActivity.After(out[j].LastActivity) })
	return out, nil
}

func (m *MemoryStore) ExpireSessions(_ context.Context, now time.Time) ([]SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []SessionRecord
	for id, rec := range m.sessions {
		if rec.Active && !now.Before(rec.ExpiresAt) {
			rec.Active = false
			m.sessions[id] = rec
			expired = append(expired, rec)
		}
	}
	return expired, nil
}
