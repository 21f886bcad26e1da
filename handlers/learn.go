// handlers/learn.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"finlit-platform/catalog"
	"finlit-platform/models"

	"github.com/gorilla/mux"
)

type CourseCard struct {
	models.Course
	Color string
}

type CategoryView struct {
	Name    string
	Courses []CourseCard
}

type LearnData struct {
	models.Page
	Query      string
	Progress   models.LevelProgress
	Categories []CategoryView
}

func (env *Env) catalog(r *http.Request) (*catalog.Catalog, error) {
	cats, err := env.Data.FetchCatalog(r.Context())
	if err != nil {
		return nil, err
	}
	return catalog.New(cats), nil
}

func LearnPage(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := env.guardPage(w, r)
		if !ok {
			return
		}

		c, err := env.catalog(r)
		if err != nil {
			env.serverError(w, "fetch catalog", err)
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		var views []CategoryView
		for _, cat := range c.Search(query) {
			v := CategoryView{Name: cat.Name}
			for _, course := range cat.Courses {
				v.Courses = append(v.Courses, CourseCard{Course: course, Color: catalog.DifficultyColor(course.Difficulty)})
			}
			views = append(views, v)
		}

		data := LearnData{
			Page:       env.page(sess, "Learn", "/learn"),
			Query:      query,
			Progress:   catalog.Progress(catalog.StartingXP),
			Categories: views,
		}
		data.Title = fmt.Sprintf("Ready to Learn %s?", data.DisplayName)
		env.render(w, http.StatusOK, "learn", data)
	}
}

func GetCatalog(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := env.catalog(r)
		if err != nil {
			env.serverError(w, "fetch catalog", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"categories": c.Search(r.URL.Query().Get("q")),
			"progress":   catalog.Progress(catalog.StartingXP),
		})
	}
}

// OpenCourse answers a click on a course card.
func OpenCourse(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := env.catalog(r)
		if err != nil {
			env.serverError(w, "fetch catalog", err)
			return
		}
		course, ok := c.Find(mux.Vars(r)["id"])
		if !ok {
			fail(w, http.StatusNotFound, "Course not found.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"course":  course,
			"message": fmt.Sprintf("%s (+%d XP)", course.Title, course.XP),
		})
	}
}
