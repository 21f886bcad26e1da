package auth

import (
	"context"
	"time"

	"finlit-platform/models"
)

// SessionRecord is the stored side of a session.
type SessionRecord struct {
	ID           string
	UserID       string
	Email        string
	Device       string
	IP           string
	CreatedAt    time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
	Active       bool
}

func (r SessionRecord) live(now time.Time) bool {
	return r.Active && now.Before(r.ExpiresAt)
}

func (r SessionRecord) session() *models.Session {
	return &models.Session{
		ID:        r.ID,
		SubjectID: r.UserID,
		Email:     r.Email,
		ExpiresAt: r.ExpiresAt,
	}
}

// Store persists users and their sessions. Lookups return ErrNotFound on a miss.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string, now time.Time) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	TouchLogin(ctx context.Context, userID string, now time.Time) error

	CreateSession(ctx context.Context, rec SessionRecord) error
	SessionByID(ctx context.Context, id string) (SessionRecord, error)
	ExtendSession(ctx context.Context, id string, expiresAt, now time.Time) error
	RevokeSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, userID string) ([]SessionRecord, error)
	// ExpireSessions deactivates every active session past its expiry and returns them.
	ExpireSessions(ctx context.Context, now time.Time) ([]SessionRecord, error)
}
