package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates.
type Renderer struct {
	dashboard *template.Template
	data      *template.Template
}

func NewRenderer() (*Renderer, error) {
	dashboard, err := parsePage("dashboard.html")
	if err != nil {
		return nil, err
	}
	data, err := parsePage("data.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{dashboard: dashboard, data: data}, nil
}

func parsePage(page string) (*template.Template, error) {
	t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", page, err)
	}
	return t, nil
}

func (r *Renderer) Dashboard(w io.Writer, v DashboardView) error {
	return execute(w, r.dashboard, v)
}

func (r *Renderer) Data(w io.Writer, v DataView) error {
	return execute(w, r.data, v)
}

// execute renders into a buffer first so a failing template never leaves a
// half-written page.
func execute(w io.Writer, t *template.Template, v any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		return fmt.Errorf("render %s: %w", t.Name(), err)
	}
	_, err := buf.WriteTo(w)
	return err
}
