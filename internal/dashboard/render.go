package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFiles embed.FS

// HTMLRenderer renders a View as the dashboard page
type HTMLRenderer struct {
	templates *template.Template
}

// NewHTMLRenderer parses the embedded page templates
func NewHTMLRenderer() (*HTMLRenderer, error) {
	templates, err := template.New("").ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &HTMLRenderer{templates: templates}, nil
}

// Render writes the page for view to w. The page is rendered to a buffer first
// so a template failure never leaves a half-written response.
func (r *HTMLRenderer) Render(w io.Writer, view *View) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "dashboard.html", view); err != nil {
		return fmt.Errorf("rendering dashboard: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
