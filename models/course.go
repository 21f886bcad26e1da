// models/course.go
package models

type Course struct {
	ID          string `json:"id" yaml:"id"`
	Category    string `json:"category" yaml:"category"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Difficulty  string `json:"difficulty" yaml:"difficulty"`
	XP          int    `json:"xp" yaml:"xp"`
}

type CourseCategory struct {
	Name    string   `json:"name" yaml:"name"`
	Courses []Course `json:"courses" yaml:"courses"`
}

type LevelProgress struct {
	Level     int `json:"level"`
	XP        int `json:"xp"`
	IntoLevel int `json:"into_level"`
	PerLevel  int `json:"per_level"`
}

// Percent is how far the bar toward the next level is filled.
func (p LevelProgress) Percent() float64 {
	if p.PerLevel <= 0 {
		return 0
	}
	return float64(p.IntoLevel) / float64(p.PerLevel) * 100
}
