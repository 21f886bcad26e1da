// middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"finlit-platform/auth"
	"finlit-platform/logging"
	"finlit-platform/models"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// SessionName is the cookie that carries the access token for browser pages.
const SessionName = "finlit_session"

const tokenValue = "access_token"

type ctxKey int

const (
	sessionKey ctxKey = iota
	tokenKey
)

// TokenFromRequest prefers an Authorization Bearer header and falls back to
// the session cookie.
func TokenFromRequest(r *http.Request, store sessions.Store) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	session, err := store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	token, _ := session.Values[tokenValue].(string)
	return token
}

func SaveToken(w http.ResponseWriter, r *http.Request, store sessions.Store, token string) error {
	session, _ := store.Get(r, SessionName)
	session.Values[tokenValue] = token
	return session.Save(r, w)
}

func ClearToken(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	session, _ := store.Get(r, SessionName)
	delete(session.Values, tokenValue)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Auth rejects API requests without a live session and puts the session and
// its token on the request context.
func Auth(svc *auth.Service, store sessions.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logging.OrNop(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, store)
			sess, err := svc.Session(r.Context(), token)
			if err != nil {
				logger.Error("session lookup failed", zap.Error(err))
				reject(w, http.StatusServiceUnavailable, "Could not verify your session.")
				return
			}
			if !sess.IsAuthenticated() {
				reject(w, http.StatusUnauthorized, "Authentication required.")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// SessionFrom returns the session Auth stored on the context.
func SessionFrom(ctx context.Context) (*models.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*models.Session)
	return sess, ok && sess.IsAuthenticated()
}

func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
