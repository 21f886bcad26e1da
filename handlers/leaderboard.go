// handlers/leaderboard.go
package handlers

import (
	"net/http"

	"finlit-platform/charts"
	"finlit-platform/leaderboard"
	"finlit-platform/models"
)

type FriendCard struct {
	Name  string
	Total float64
	Rings []charts.Ring
}

type FriendsData struct {
	models.Page
	Ranked  []models.RankedFriend
	Friends []FriendCard
}

func FriendsPage(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := env.guardPage(w, r)
		if !ok {
			return
		}

		profiles, err := env.Data.FetchLeaderboard(r.Context())
		if err != nil {
			env.serverError(w, "fetch leaderboard", err)
			return
		}

		cards := make([]FriendCard, len(profiles))
		for i, p := range profiles {
			cards[i] = FriendCard{Name: p.DisplayName, Total: leaderboard.Total(p)}
			for _, s := range p.Skills {
				cards[i].Rings = append(cards[i].Rings, charts.Donut(s.Name, s.Color, s.Value))
			}
		}

		env.render(w, http.StatusOK, "friends", FriendsData{
			Page:    env.page(sess, "Friends", "/friends"),
			Ranked:  leaderboard.Rank(profiles),
			Friends: cards,
		})
	}
}

func GetLeaderboard(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := env.Data.FetchLeaderboard(r.Context())
		if err != nil {
			env.serverError(w, "fetch leaderboard", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"leaderboard": leaderboard.Rank(profiles),
		})
	}
}
