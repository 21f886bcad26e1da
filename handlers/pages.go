// handlers/pages.go
package handlers

import (
	"context"
	"net/http"

	"finlit-platform/auth"
	"finlit-platform/guard"
	"finlit-platform/middleware"
	"finlit-platform/models"

	"go.uber.org/zap"
)

var navLinks = []models.NavItem{
	{Label: "Home", Icon: "⌂", Href: "/dashboard"},
	{Label: "Daily Challenges", Icon: "+", Href: "/daily-challenge"},
	{Label: "Learn", Icon: "🎓", Href: "/learn"},
	{Label: "Friends", Icon: "👥", Href: "/friends"},
	{Label: "Settings", Icon: "⚙", Href: "/settings"},
}

func navItems(active string) []models.NavItem {
	items := make([]models.NavItem, len(navLinks))
	for i, item := range navLinks {
		item.Active = item.Href == active
		items[i] = item
	}
	return items
}

func tokenFromRequest(env *Env, r *http.Request) string {
	return middleware.TokenFromRequest(r, env.Cookies)
}

// guardPage runs a Session Guard for one page request. It writes the redirect
// to "/" itself and reports false when the viewer is not signed in.
func (env *Env) guardPage(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	g := guard.New(env.client(r), guard.Options{Logger: env.logger()})
	g.Start(r.Context())
	defer func() {
		g.Close()
		<-g.Done()
	}()

	ctx, cancel := context.WithTimeout(r.Context(), env.guardTimeout())
	defer cancel()

	state, err := g.Wait(ctx)
	if err != nil {
		env.logger().Warn("session guard timed out", zap.String("path", r.URL.Path), zap.Error(err))
	}
	if state != guard.Ready {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return models.Session{}, false
	}
	return g.Session()
}

func (env *Env) page(sess models.Session, title, active string) models.Page {
	return models.Page{
		Title:       title,
		DisplayName: displayName(sess.Email),
		Nav:         navItems(active),
		Prefs:       env.Prefs.Get(sess.SubjectID),
	}
}

type LandingData struct {
	models.Page
	Session *models.Session
	SignUp  bool
	Email   string
	Message string
	IsError bool
}

func (env *Env) landing(r *http.Request, sess *models.Session) LandingData {
	data := LandingData{Page: models.Page{Title: "Welcome"}}
	if sess.IsAuthenticated() {
		data.Session = sess
		data.Prefs = env.Prefs.Get(sess.SubjectID)
	}
	data.SignUp = r.URL.Query().Get("mode") == "signup"
	return data
}

// LandingPage is public: it shows the sign-in form, or a welcome back card when
// the viewer already has a session.
func LandingPage(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := env.client(r).GetCurrentSession(r.Context())
		if err != nil {
			env.logger().Debug("landing session lookup failed", zap.Error(err))
			sess = nil
		}

		data := env.landing(r, sess)
		if r.URL.Query().Get("msg") == "signed_out" {
			data.Message = "Successfully signed out!"
		}
		env.render(w, http.StatusOK, "landing", data)
	}
}

func LoginForm(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		email := r.PostForm.Get("email")

		client := env.client(r)
		sess, err := client.SignInWithPassword(r.Context(), email, r.PostForm.Get("password"))
		if err != nil {
			data := env.landing(r, nil)
			data.Email = email
			data.Message = auth.Message(err)
			data.IsError = true
			env.render(w, http.StatusUnauthorized, "landing", data)
			return
		}

		if err := middleware.SaveToken(w, r, env.Cookies, sess.AccessToken); err != nil {
			env.logger().Error("failed to save session cookie", zap.Error(err))
			http.Error(w, "Something went wrong, please try again.", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

func SignupForm(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		email := r.PostForm.Get("email")

		data := env.landing(r, nil)
		data.Email = email
		if err := env.client(r).SignUp(r.Context(), email, r.PostForm.Get("password")); err != nil {
			data.SignUp = true
			data.Message = auth.Message(err)
			data.IsError = true
			env.render(w, http.StatusBadRequest, "landing", data)
			return
		}

		data.SignUp = false
		data.Message = "Account created! You can sign in now."
		env.render(w, http.StatusOK, "landing", data)
	}
}

// SignoutForm ends the session; a failure is shown inline and the viewer stays signed in.
func SignoutForm(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := env.client(r)
		if err := client.SignOut(r.Context()); err != nil {
			sess, _ := client.GetCurrentSession(r.Context())
			data := env.landing(r, sess)
			data.Message = auth.Message(err)
			data.IsError = true
			env.render(w, http.StatusInternalServerError, "landing", data)
			return
		}
		if err := middleware.ClearToken(w, r, env.Cookies); err != nil {
			env.logger().Warn("failed to clear session cookie", zap.Error(err))
		}
		http.Redirect(w, r, "/?msg=signed_out", http.StatusSeeOther)
	}
}
