// handlers/auth.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"finlit-platform/auth"
	"finlit-platform/middleware"

	"go.uber.org/zap"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "Invalid request.")
			return
		}

		sess, err := env.client(r).SignInWithPassword(r.Context(), req.Email, req.Password)
		if err != nil {
			fail(w, http.StatusUnauthorized, auth.Message(err))
			return
		}
		if err := middleware.SaveToken(w, r, env.Cookies, sess.AccessToken); err != nil {
			env.logger().Warn("failed to save session cookie", zap.Error(err))
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"message":    "Successfully signed in!",
			"token":      sess.AccessToken,
			"session":    sess,
			"expires_at": sess.ExpiresAt,
		})
	}
}

func Register(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "Invalid request.")
			return
		}

		if err := env.client(r).SignUp(r.Context(), req.Email, req.Password); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, auth.ErrEmailTaken) {
				status = http.StatusConflict
			}
			fail(w, status, auth.Message(err))
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": "Account created! You can sign in now.",
		})
	}
}

func Logout(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := env.Auth.SignOut(r.Context(), tokenFromRequest(env, r)); err != nil {
			fail(w, http.StatusInternalServerError, auth.Message(err))
			return
		}
		if err := middleware.ClearToken(w, r, env.Cookies); err != nil {
			env.logger().Warn("failed to clear session cookie", zap.Error(err))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Successfully signed out!",
		})
	}
}

// RefreshToken extends the session and hands out a new token. Browser clients
// get the new token in their cookie as well.
func RefreshToken(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := env.Auth.Refresh(r.Context(), tokenFromRequest(env, r))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, auth.ErrNoSession) {
				status = http.StatusUnauthorized
			}
			fail(w, status, auth.Message(err))
			return
		}
		if r.Header.Get("Authorization") == "" {
			if err := middleware.SaveToken(w, r, env.Cookies, sess.AccessToken); err != nil {
				env.logger().Warn("failed to save session cookie", zap.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"token":      sess.AccessToken,
			"expires_at": sess.ExpiresAt,
		})
	}
}

func CurrentSession(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.SessionFrom(r.Context())
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"session": sess,
			"prefs":   env.Prefs.Get(sess.SubjectID),
		})
	}
}
