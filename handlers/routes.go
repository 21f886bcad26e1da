// handlers/routes.go
package handlers

import (
	"finlit-platform/middleware"

	"github.com/gorilla/mux"
)

// NewRouter wires every page, API endpoint and the live session socket.
func NewRouter(env *Env, mws ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	for _, mw := range mws {
		r.Use(mw)
	}

	r.HandleFunc("/healthz", Health(env)).Methods("GET")
	r.HandleFunc("/ws/session", LiveSession(env)).Methods("GET")

	// API Router
	api := r.PathPrefix("/api").Subrouter()

	// Public API endpoints
	api.HandleFunc("/auth/login", Login(env)).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/signup", Register(env)).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", Logout(env)).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", RefreshToken(env)).Methods("POST", "OPTIONS")

	// Protected API endpoints
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(env.Auth, env.Cookies, env.Logger))

	protected.HandleFunc("/session", CurrentSession(env)).Methods("GET")

	protected.HandleFunc("/charts/series", GetSeries(env)).Methods("GET")
	protected.HandleFunc("/charts/allocation", GetAllocation(env)).Methods("GET")
	protected.HandleFunc("/charts/activity", GetActivity(env)).Methods("GET")

	protected.HandleFunc("/leaderboard", GetLeaderboard(env)).Methods("GET")

	protected.HandleFunc("/catalog", GetCatalog(env)).Methods("GET")
	protected.HandleFunc("/catalog/{id}/open", OpenCourse(env)).Methods("POST")

	protected.HandleFunc("/challenge/{attempt}", GetChallenge(env)).Methods("GET")
	protected.HandleFunc("/challenge/{attempt}/answer", AnswerChallenge(env)).Methods("POST")

	protected.HandleFunc("/prefs", GetPrefs(env)).Methods("GET")
	protected.HandleFunc("/prefs", UpdatePrefs(env)).Methods("PUT")

	protected.HandleFunc("/sessions", GetSessions(env)).Methods("GET")
	protected.HandleFunc("/sessions/terminate-all", TerminateAllSessions(env)).Methods("POST")
	protected.HandleFunc("/sessions/{id}", TerminateSession(env)).Methods("DELETE")

	// Page routes (HTML templates)
	r.HandleFunc("/", LandingPage(env)).Methods("GET")
	r.HandleFunc("/auth/login", LoginForm(env)).Methods("POST")
	r.HandleFunc("/auth/signup", SignupForm(env)).Methods("POST")
	r.HandleFunc("/auth/signout", SignoutForm(env)).Methods("POST")
	r.HandleFunc("/dashboard", DashboardPage(env)).Methods("GET")
	r.HandleFunc("/daily-challenge", ChallengePage(env)).Methods("GET")
	r.HandleFunc("/learn", LearnPage(env)).Methods("GET")
	r.HandleFunc("/friends", FriendsPage(env)).Methods("GET")
	r.HandleFunc("/settings", SettingsPage(env)).Methods("GET")

	return r
}
