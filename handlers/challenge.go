// handlers/challenge.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"finlit-platform/challenge"
	"finlit-platform/middleware"
	"finlit-platform/models"

	"github.com/gorilla/mux"
)

type ChallengeData struct {
	models.Page
	AttemptID string
	Card      challenge.Card
	Points    int
	MaxPoints int
	Progress  float64
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

// ChallengePage opens a fresh attempt for every visit; the page answers it
// through the challenge API using the attempt id.
func ChallengePage(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := env.guardPage(w, r)
		if !ok {
			return
		}

		card, err := env.Data.FetchChallenge(r.Context())
		if err != nil {
			env.serverError(w, "fetch challenge", err)
			return
		}

		attempt := challenge.NewAttempt(card, challenge.StartingPoints, env.RevealDelay)
		id := env.Challenges.Open(sess.SubjectID, attempt)

		env.render(w, http.StatusOK, "challenge", ChallengeData{
			Page:      env.page(sess, "Daily Challenge", "/daily-challenge"),
			AttemptID: id,
			Card:      card,
			Points:    attempt.Points(),
			MaxPoints: challenge.MaxPoints,
			Progress:  float64(attempt.Points()) / challenge.MaxPoints * 100,
		})
	}
}

func (env *Env) attempt(w http.ResponseWriter, r *http.Request) (*challenge.Attempt, bool) {
	sess, _ := middleware.SessionFrom(r.Context())
	a, ok := env.Challenges.Get(mux.Vars(r)["attempt"], sess.SubjectID)
	if !ok {
		fail(w, http.StatusNotFound, "Challenge not found or expired, reload the page.")
		return nil, false
	}
	return a, true
}

func applied(a *challenge.Attempt) bool {
	select {
	case <-a.Applied():
		return true
	default:
		return false
	}
}

func AnswerChallenge(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := env.attempt(w, r)
		if !ok {
			return
		}

		var req AnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "Invalid request.")
			return
		}

		res, err := a.Answer(req.Answer)
		switch {
		case errors.Is(err, challenge.ErrAlreadyAnswered):
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"success": false,
				"message": "You already answered today's challenge.",
				"result":  res,
			})
			return
		case errors.Is(err, challenge.ErrUnknownChoice):
			fail(w, http.StatusBadRequest, "Pick one of the listed answers.")
			return
		case err != nil:
			env.serverError(w, "answer challenge", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":         true,
			"result":          res,
			"explanation":     a.Explanation(),
			"points":          a.Points(),
			"applied":         applied(a),
			"reveal_delay_ms": env.RevealDelay.Milliseconds(),
		})
	}
}

func GetChallenge(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := env.attempt(w, r)
		if !ok {
			return
		}

		body := map[string]interface{}{
			"success":    true,
			"card":       a.Card(),
			"answered":   a.Revealed(),
			"points":     a.Points(),
			"max_points": challenge.MaxPoints,
			"applied":    applied(a),
		}
		if res, ok := a.Result(); ok {
			body["result"] = res
			body["explanation"] = a.Explanation()
		}
		writeJSON(w, http.StatusOK, body)
	}
}
