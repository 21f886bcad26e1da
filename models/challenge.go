// models/challenge.go
package models

// ChallengeAttempt is created on the user's answer and lives until the page view ends.
type ChallengeAttempt struct {
	ChosenAnswer  string `json:"chosen_answer"`
	IsCorrect     bool   `json:"is_correct"`
	AwardedPoints int    `json:"awarded_points"`
}
