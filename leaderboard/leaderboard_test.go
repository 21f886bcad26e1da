package leaderboard

import (
	"testing"

	"finlit-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profile(name string, values ...float64) models.FriendSkillProfile {
	p := models.FriendSkillProfile{DisplayName: name}
	for _, v := range values {
		p.Skills = append(p.Skills, models.Skill{Name: "skill", Value: v})
	}
	return p
}

func TestRank_OrdersByTotal(t *testing.T) {
	ranked := Rank([]models.FriendSkillProfile{
		profile("Alice", 75, 60, 85),
		profile("Bob", 80, 70, 65),
		profile("Charlie", 90, 85, 75),
	})
	require.Len(t, ranked, 3)

	assert.Equal(t, "Charlie", ranked[0].Profile.DisplayName)
	assert.Equal(t, 250.0, ranked[0].TotalScore)
	assert.Equal(t, "Alice", ranked[1].Profile.DisplayName)
	assert.Equal(t, "Bob", ranked[2].Profile.DisplayName)
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	ranked := Rank([]models.FriendSkillProfile{
		profile("first", 70),
		profile("second", 70),
		profile("top", 90),
	})

	names := []string{ranked[0].Profile.DisplayName, ranked[1].Profile.DisplayName, ranked[2].Profile.DisplayName}
	assert.Equal(t, []string{"top", "first", "second"}, names)
	assert.Equal(t, []int{1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank})
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []models.FriendSkillProfile{profile("a", 1), profile("b", 5)}
	Rank(in)
	assert.Equal(t, "a", in[0].DisplayName)
	assert.Equal(t, "b", in[1].DisplayName)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Zero(t, Total(models.FriendSkillProfile{DisplayName: "nobody"}))
}
