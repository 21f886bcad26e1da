// handlers/env.go
package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"finlit-platform/auth"
	"finlit-platform/challenge"
	"finlit-platform/logging"
	"finlit-platform/prefs"
	"finlit-platform/provider"
	"finlit-platform/templates"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Env carries the dependencies every handler closes over.
type Env struct {
	Auth       *auth.Service
	Cookies    sessions.Store
	Data       provider.DataProvider
	Prefs      *prefs.Store
	Challenges *challenge.Registry
	Pages      *templates.Set
	Logger     *zap.Logger

	// DB is optional; when set /healthz pings it.
	DB *sql.DB

	// TrustProxy honours X-Forwarded-For for the session list's IP column.
	TrustProxy bool

	RevealDelay  time.Duration
	GuardTimeout time.Duration
	Now          func() time.Time
}

func (env *Env) logger() *zap.Logger { return logging.OrNop(env.Logger) }

func (env *Env) now() time.Time {
	if env.Now != nil {
		return env.Now()
	}
	return time.Now()
}

func (env *Env) guardTimeout() time.Duration {
	if env.GuardTimeout > 0 {
		return env.GuardTimeout
	}
	return 5 * time.Second
}

// client binds the auth service to the token the request carries.
func (env *Env) client(r *http.Request) *auth.ServiceClient {
	return auth.NewClient(env.Auth, tokenFromRequest(env, r), auth.ClientMeta{
		Device: r.UserAgent(),
		IP:     env.clientIP(r),
	})
}

func (env *Env) clientIP(r *http.Request) string {
	if env.TrustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			return strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (env *Env) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := env.Pages.Render(&buf, page, data); err != nil {
		env.logger().Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "Something went wrong, please try again.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

func (env *Env) serverError(w http.ResponseWriter, op string, err error) {
	env.logger().Error(op, zap.Error(err))
	fail(w, http.StatusInternalServerError, "Something went wrong, please try again.")
}

func displayName(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
