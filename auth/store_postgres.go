package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"finlit-platform/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore uses the users and auth_sessions tables created by database.InitDB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) CreateUser(ctx context.Context, email, passwordHash string, now time.Time) (models.User, error) {
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		IsActive:     true,
	}
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO users (id, email, password_hash, created_at, is_active)
        VALUES ($1, $2, $3, $4, TRUE)
    `, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return u, nil
}

func (p *PostgresStore) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	var lastLogin sql.NullTime
	err := p.db.QueryRowContext(ctx, `
        SELECT id, email, password_hash, created_at, last_login, is_active
        FROM users WHERE email = $1
    `, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &lastLogin, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	u.LastLogin = lastLogin.Time
	return u, nil
}

func (p *PostgresStore) TouchLogin(ctx context.Context, userID string, now time.Time) error {
	return p.execOne(ctx, "UPDATE users SET last_login = $2 WHERE id = $1", userID, now)
}

func (p *PostgresStore) CreateSession(ctx context.Context, rec SessionRecord) error {
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO auth_sessions (id, user_id, device, ip_address, created_at, last_activity, expires_at, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, rec.ID, rec.UserID, rec.Device, rec.IP, rec.CreatedAt, rec.LastActivity, rec.ExpiresAt, rec.Active)
	return err
}

const sessionColumns = `s.id, s.user_id, u.email, s.device, s.ip_address,
                s.created_at, s.last_activity, s.expires_at, s.is_active`

func scanSession(row interface{ Scan(...any) error }) (SessionRecord, error) {
	var rec SessionRecord
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Email, &rec.Device, &rec.IP,
		&rec.CreatedAt, &rec.LastActivity, &rec.ExpiresAt, &rec.Active,
	)
	return rec, err
}

func (p *PostgresStore) SessionByID(ctx context.Context, id string) (SessionRecord, error) {
	rec, err := scanSession(p.db.QueryRowContext(ctx, `
        SELECT `+sessionColumns+`
        FROM auth_sessions s JOIN users u ON u.id = s.user_id
        WHERE s.id = $1
    `, id))
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, ErrNotFound
	}
	return rec, err
}

func (p *PostgresStore) ExtendSession(ctx context.Context, id string, expiresAt, now time.Time) error {
	return p.execOne(ctx, `
        UPDATE auth_sessions SET expires_at = $2, last_activity = $3 WHERE id = $1
    `, id, expiresAt, now)
}

func (p *PostgresStore) RevokeSession(ctx context.Context, id string) error {
	return p.execOne(ctx, `
        UPDATE auth_sessions SET is_active = FALSE, terminated_at = NOW() WHERE id = $1
    `, id)
}

func (p *PostgresStore) ListSessions(ctx context.Context, userID string) ([]SessionRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
        SELECT `+sessionColumns+`
        FROM auth_sessions s JOIN users u ON u.id = s.user_id
        WHERE s.user_id = $1 AND s.is_active = TRUE
        ORDER BY s.last_activity DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *PostgresStore) ExpireSessions(ctx context.Context, now time.Time) ([]SessionRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
        UPDATE auth_sessions s SET is_active = FALSE, terminated_at = $1
        FROM users u
        WHERE u.id = s.user_id AND s.is_active = TRUE AND s.expires_at <= $1
        RETURNING `+sessionColumns, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *PostgresStore) execOne(ctx context.Context, query string, args ...any) error {
	res, err := p.db.ExecContext(ctx, strings.TrimSpace(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
