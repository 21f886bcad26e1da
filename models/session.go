// models/session.go
package models

import "time"

// Session is the read-only copy of an auth session a page view holds.
type Session struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`

	// AccessToken is only set on the session returned by a sign-in or refresh.
	AccessToken string `json:"-"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.SubjectID != ""
}

// SessionInfo is one row of the "active sessions" list on the settings page.
type SessionInfo struct {
	ID           string    `json:"id"`
	Device       string    `json:"device"`
	IP           string    `json:"ip"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
	IsCurrent    bool      `json:"is_current"`
}
