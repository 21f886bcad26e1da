// Package leaderboard ranks friends by the sum of their skill scores.
package leaderboard

import (
	"sort"

	"finlit-platform/models"
)

// Total is the sum of a profile's skill values.
func Total(p models.FriendSkillProfile) float64 {
	var total float64
	for _, s := range p.Skills {
		total += s.Value
	}
	return total
}

// Rank orders profiles by total score, highest first. Ties keep their input
// order and still get distinct positions. The input slice is left untouched.
func Rank(profiles []models.FriendSkillProfile) []models.RankedFriend {
	ranked := make([]models.RankedFriend, len(profiles))
	for i, p := range profiles {
		ranked[i] = models.RankedFriend{Profile: p, TotalScore: Total(p)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
