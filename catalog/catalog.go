// Package catalog holds the learn page's course categories and the XP level math.
package catalog

import (
	"strings"

	"finlit-platform/models"
)

// XPPerLevel is the XP needed to move up one level.
const XPPerLevel = 200

// StartingXP is what a new learner is shown before completing anything.
const StartingXP = 100

var difficultyColors = map[string]string{
	"Easy":         "#22C55E",
	"Medium":       "#F59E0B",
	"Intermediate": "#FF8C00",
	"Hard":         "#EF4444",
	"Impossible":   "#7F1D1D",
}

// DifficultyColor is the badge color for a difficulty label.
func DifficultyColor(difficulty string) string {
	if c, ok := difficultyColors[difficulty]; ok {
		return c
	}
	return "#6B7280"
}

// Progress converts a raw XP total into a level and the progress toward the next.
func Progress(xp int) models.LevelProgress {
	if xp < 0 {
		xp = 0
	}
	return models.LevelProgress{
		Level:     xp/XPPerLevel + 1,
		XP:        xp,
		IntoLevel: xp % XPPerLevel,
		PerLevel:  XPPerLevel,
	}
}

type Catalog struct {
	categories []models.CourseCategory
	byID       map[string]models.Course
}

// New indexes the categories. Each course's Category is set from its parent.
func New(categories []models.CourseCategory) *Catalog {
	c := &Catalog{byID: make(map[string]models.Course)}
	for _, cat := range categories {
		courses := make([]models.Course, len(cat.Courses))
		for i, course := range cat.Courses {
			course.Category = cat.Name
			courses[i] = course
			c.byID[course.ID] = course
		}
		c.categories = append(c.categories, models.CourseCategory{Name: cat.Name, Courses: courses})
	}
	return c
}

func (c *Catalog) Categories() []models.CourseCategory {
	out := make([]models.CourseCategory, len(c.categories))
	for i, cat := range c.categories {
		out[i] = models.CourseCategory{Name: cat.Name, Courses: append([]models.Course(nil), cat.Courses...)}
	}
	return out
}

func (c *Catalog) Find(id string) (models.Course, bool) {
	course, ok := c.byID[id]
	return course, ok
}

// Search matches the query against category names, course titles and
// descriptions, ignoring case. A category whose name matches keeps all of its
// courses; otherwise only matching courses are kept and empty categories drop out.
// A blank query returns everything.
func (c *Catalog) Search(query string) []models.CourseCategory {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Categories()
	}

	var out []models.CourseCategory
	for _, cat := range c.categories {
		if strings.Contains(strings.ToLower(cat.Name), q) {
			out = append(out, models.CourseCategory{Name: cat.Name, Courses: append([]models.Course(nil), cat.Courses...)})
			continue
		}
		var matched []models.Course
		for _, course := range cat.Courses {
			if strings.Contains(strings.ToLower(course.Title), q) ||
				strings.Contains(strings.ToLower(course.Description), q) {
				matched = append(matched, course)
			}
		}
		if len(matched) > 0 {
			out = append(out, models.CourseCategory{Name: cat.Name, Courses: matched})
		}
	}
	return out
}

func (c *Catalog) Len() int { return len(c.byID) }
