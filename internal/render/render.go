package render

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/haguru/obito/internal/interfaces"
)

// Page names, matching the template files under the templates directory.
const (
	PageHomepage = "homepage"
	PageLogin    = "login"
	PageSignup   = "signup"
	PageSuccess  = "success"
)

// Data carries everything any page template may reference. Unused fields are
// simply ignored by templates that don't mention them.
type Data struct {
	Username string
	Error    string
	FilePath string
}

// Renderer executes the parsed HTML page templates.
type Renderer struct {
	templates *template.Template
	logger    interfaces.Logger
}

// NewRenderer parses all *.html templates in dir.
func NewRenderer(dir string, logger interfaces.Logger) (*Renderer, error) {
	templates, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates from %s: %w", dir, err)
	}

	return &Renderer{templates: templates, logger: logger}, nil
}

// Render writes the named page to the response. The status code must be set
// by the caller beforehand if it differs from 200.
func (r *Renderer) Render(w http.ResponseWriter, page string, data Data) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.templates.ExecuteTemplate(w, page+".html", data); err != nil {
		r.logger.Error("Failed to render template", "page", page, "error", err)
	}
}
