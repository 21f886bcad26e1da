// Package templates embeds the html pages. Every page is parsed together with
// layout.html and executed as "layout".
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed *.html
var files embed.FS

// Pages lists the page templates that share the layout.
var Pages = []string{"landing", "dashboard", "challenge", "learn", "friends", "settings"}

type Set struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.0f%%", v) },
	"num": func(v float64) string {
		s := fmt.Sprintf("%.1f", v)
		return strings.TrimSuffix(s, ".0")
	},
	"add": func(a, b int) int { return a + b },
}

func Parse() (*Set, error) {
	s := &Set{pages: make(map[string]*template.Template, len(Pages))}
	for _, name := range Pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(files, "layout.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		s.pages[name] = t
	}
	return s, nil
}

func (s *Set) Render(w io.Writer, page string, data any) error {
	t, ok := s.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
