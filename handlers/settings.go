// handlers/settings.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"finlit-platform/auth"
	"finlit-platform/middleware"
	"finlit-platform/models"

	"github.com/gorilla/mux"
)

type SettingsData struct {
	models.Page
	Sessions []models.SessionInfo
}

// UpdatePrefsRequest changes only the fields it sets.
type UpdatePrefsRequest struct {
	DarkMode         *bool `json:"dark_mode"`
	SidebarCollapsed *bool `json:"sidebar_collapsed"`
}

func SettingsPage(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := env.guardPage(w, r)
		if !ok {
			return
		}

		list, err := env.Auth.ListSessions(r.Context(), sess.SubjectID, sess.ID)
		if err != nil {
			env.serverError(w, "list sessions", err)
			return
		}

		env.render(w, http.StatusOK, "settings", SettingsData{
			Page:     env.page(sess, "Settings", "/settings"),
			Sessions: list,
		})
	}
}

func GetPrefs(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.SessionFrom(r.Context())
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"prefs":   env.Prefs.Get(sess.SubjectID),
		})
	}
}

func UpdatePrefs(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.SessionFrom(r.Context())

		var req UpdatePrefsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "Invalid request.")
			return
		}

		p := env.Prefs.Update(sess.SubjectID, func(p *models.Preferences) {
			if req.DarkMode != nil {
				p.DarkMode = *req.DarkMode
			}
			if req.SidebarCollapsed != nil {
				p.SidebarCollapsed = *req.SidebarCollapsed
			}
		})
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"prefs":   p,
		})
	}
}

func GetSessions(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.SessionFrom(r.Context())
		list, err := env.Auth.ListSessions(r.Context(), sess.SubjectID, sess.ID)
		if err != nil {
			env.serverError(w, "list sessions", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"sessions": list,
		})
	}
}

// TerminateSession ends another of the viewer's sessions. Any page open on
// that session is redirected to the landing page.
func TerminateSession(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.SessionFrom(r.Context())
		target := mux.Vars(r)["id"]

		if target == sess.ID {
			fail(w, http.StatusBadRequest, "Use sign out to end the current session.")
			return
		}

		if err := env.Auth.TerminateSession(r.Context(), sess.SubjectID, target); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, auth.ErrNotFound) {
				status = http.StatusNotFound
			}
			fail(w, status, auth.Message(err))
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Session ended.",
		})
	}
}

func TerminateAllSessions(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.SessionFrom(r.Context())
		n, err := env.Auth.TerminateOthers(r.Context(), sess.SubjectID, sess.ID)
		if err != nil {
			fail(w, http.StatusInternalServerError, auth.Message(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"message":    "All other sessions ended.",
			"terminated": n,
		})
	}
}
