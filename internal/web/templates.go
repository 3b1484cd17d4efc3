package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/2beens/gymlogger/internal/entries"
	"github.com/2beens/gymlogger/internal/history"
)

//go:embed templates
var templatesFS embed.FS

// Templates holds every page, each parsed on top of its own copy of the
// layout and partials so that the "content" blocks do not collide.
type Templates struct {
	pages map[string]*template.Template
}

func (t *Templates) ExecuteTemplate(w io.Writer, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

func LoadTemplates() (*Templates, error) {
	funcMap := template.FuncMap{
		"formatDate":   history.FormatDate,
		"formatNumber": history.FormatNumber,
		"describe":     history.Describe,
		"typeLabel":    history.TypeLabel,
		"kindTitle":    func(k entries.Kind) string { return k.Title() },
	}

	base, err := template.New("base").Funcs(funcMap).ParseFS(templatesFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pageFiles, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob pages: %w", err)
	}

	pages := map[string]*template.Template{}
	for _, f := range pageFiles {
		name := path.Base(f)
		if name == "layout.html" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templatesFS, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = clone
	}

	return &Templates{pages: pages}, nil
}
