// models/leaderboard.go

package models

type Skill struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Color string  `json:"color" yaml:"color"`
}

type FriendSkillProfile struct {
	DisplayName string  `json:"display_name" yaml:"name"`
	Skills      []Skill `json:"skills" yaml:"skills"`
}

// RankedFriend is computed at render time and never stored.
type RankedFriend struct {
	Profile    FriendSkillProfile `json:"profile"`
	TotalScore float64            `json:"total_score"`
	Rank       int                `json:"rank"`
}
