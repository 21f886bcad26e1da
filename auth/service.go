package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"finlit-platform/logging"
	"finlit-platform/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

type Options struct {
	Secret     []byte
	SessionTTL time.Duration
	Logger     *zap.Logger
	Now        func() time.Time
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Service is the in-process auth backend: accounts, sessions, tokens and
// the session-change notifications page views subscribe to.
type Service struct {
	store  Store
	tokens *TokenIssuer
	broker *Broker
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time
	cost   int
}

func NewService(store Store, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:  store,
		tokens: NewTokenIssuer(opts.Secret, opts.Now),
		broker: NewBroker(),
		logger: logging.OrNop(opts.Logger),
		ttl:    opts.SessionTTL,
		now:    opts.Now,
		cost:   opts.BcryptCost,
	}
}

func (s *Service) Broker() *Broker { return s.broker }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && strings.ToLower(addr.Address) == email
}

func (s *Service) SignUp(ctx context.Context, email, password string) (models.User, error) {
	email = normalizeEmail(email)
	if !validateEmail(email) {
		return models.User{}, actionError("signup", "Please enter a valid email address.", nil)
	}
	if len(password) < minPasswordLen {
		return models.User{}, actionError("signup", fmt.Sprintf("Password should be at least %d characters.", minPasswordLen), nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, actionError("signup", "Could not create the account.", err)
	}

	u, err := s.store.CreateUser(ctx, email, string(hash), s.now())
	if errors.Is(err, ErrEmailTaken) {
		return models.User{}, actionError("signup", "User already registered.", err)
	}
	if err != nil {
		return models.User{}, actionError("signup", "Could not create the account.", err)
	}
	s.logger.Info("user signed up", zap.String("user_id", u.ID))
	return u, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string, meta ClientMeta) (*models.Session, error) {
	email = normalizeEmail(email)
	u, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, actionError("signin", "Invalid login credentials.", nil)
	}
	if err != nil {
		return nil, actionError("signin", "Sign in is unavailable right now.", err)
	}
	if !u.IsActive {
		return nil, actionError("signin", "This account is disabled.", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, actionError("signin", "Invalid login credentials.", nil)
	}

	now := s.now()
	rec := SessionRecord{
		ID:           uuid.NewString(),
		UserID:       u.ID,
		Email:        u.Email,
		Device:       meta.Device,
		IP:           meta.IP,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.ttl),
		Active:       true,
	}
	if err := s.store.CreateSession(ctx, rec); err != nil {
		return nil, actionError("signin", "Sign in is unavailable right now.", err)
	}
	if err := s.store.TouchLogin(ctx, u.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", u.ID), zap.Error(err))
	}

	token, err := s.tokens.Issue(rec)
	if err != nil {
		return nil, actionError("signin", "Sign in is unavailable right now.", err)
	}
	sess := rec.session()
	sess.AccessToken = token
	s.logger.Info("user signed in", zap.String("user_id", u.ID), zap.String("session_id", rec.ID))
	return sess, nil
}

// Session resolves an access token. An invalid, expired or revoked token yields nil, nil;
// only a storage failure is an error.
func (s *Service) Session(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil
	}
	rec, err := s.store.SessionByID(ctx, claims.SessionID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFetchFailed, err)
	}
	if !rec.live(s.now()) || rec.UserID != claims.Subject {
		return nil, nil
	}
	return rec.session(), nil
}

// Refresh extends a live session and issues a new token. Watching page views are
// notified with the refreshed session.
func (s *Service) Refresh(ctx context.Context, token string) (*models.Session, error) {
	sess, err := s.Session(ctx, token)
	if err != nil {
		return nil, actionError("refresh", "Could not refresh the session.", err)
	}
	if sess == nil {
		return nil, actionError("refresh", "Session expired, please sign in again.", ErrNoSession)
	}

	now := s.now()
	expires := now.Add(s.ttl)
	if err := s.store.ExtendSession(ctx, sess.ID, expires, now); err != nil {
		return nil, actionError("refresh", "Could not refresh the session.", err)
	}
	rec := SessionRecord{ID: sess.ID, UserID: sess.SubjectID, Email: sess.Email, ExpiresAt: expires}
	newToken, err := s.tokens.Issue(rec)
	if err != nil {
		return nil, actionError("refresh", "Could not refresh the session.", err)
	}

	refreshed := rec.session()
	s.broker.Publish(sess.ID, refreshed)
	refreshed.AccessToken = newToken
	return refreshed, nil
}

// SignOut revokes the session behind token. Signing out without a session succeeds.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.store.RevokeSession(ctx, claims.SessionID); err != nil && !errors.Is(err, ErrNotFound) {
		return actionError("signout", "Could not sign out, please try again.", err)
	}
	s.logger.Info("user signed out", zap.String("user_id", claims.Subject), zap.String("session_id", claims.SessionID))
	s.broker.Publish(claims.SessionID, nil)
	return nil
}

func (s *Service) Subscribe(sessionID string, fn func(*models.Session)) Subscription {
	return s.broker.Subscribe(sessionID, fn)
}

func (s *Service) ListSessions(ctx context.Context, userID, currentID string) ([]models.SessionInfo, error) {
	recs, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]models.SessionInfo, 0, len(recs))
	for _, r := range recs {
		if !r.live(now) {
			continue
		}
		out = append(out, models.SessionInfo{
			ID:           r.ID,
			Device:       r.Device,
			IP:           r.IP,
			CreatedAt:    r.CreatedAt,
			LastActivity: r.LastActivity,
			ExpiresAt:    r.ExpiresAt,
			IsCurrent:    r.ID == currentID,
		})
	}
	return out, nil
}

// TerminateSession revokes one of userID's sessions, signing out any page view using it.
func (s *Service) TerminateSession(ctx context.Context, userID, sessionID string) error {
	rec, err := s.store.SessionByID(ctx, sessionID)
	if errors.Is(err, ErrNotFound) || (err == nil && rec.UserID != userID) {
		return actionError("terminate", "Session not found.", ErrNotFound)
	}
	if err != nil {
		return actionError("terminate", "Could not end the session.", err)
	}
	if err := s.store.RevokeSession(ctx, sessionID); err != nil {
		return actionError("terminate", "Could not end the session.", err)
	}
	s.broker.Publish(sessionID, nil)
	return nil
}

// TerminateOthers revokes every session of userID except keepID.
func (s *Service) TerminateOthers(ctx context.Context, userID, keepID string) (int, error) {
	recs, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return 0, actionError("terminate", "Could not end the sessions.", err)
	}
	n := 0
	for _, r := range recs {
		if r.ID == keepID {
			continue
		}
		if err := s.store.RevokeSession(ctx, r.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return n, actionError("terminate", "Could not end the sessions.", err)
		}
		s.broker.Publish(r.ID, nil)
		n++
	}
	return n, nil
}

// Sweep expires overdue sessions and notifies their page views.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	expired, err := s.store.ExpireSessions(ctx, s.now())
	if err != nil {
		return 0, err
	}
	for _, rec := range expired {
		s.broker.Publish(rec.ID, nil)
	}
	if len(expired) > 0 {
		s.logger.Info("expired sessions", zap.Int("count", len(expired)))
	}
	return len(expired), nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("session sweep failed", zap.Error(err))
			}
		}
	}
}
