// Package render turns a template name and its parameters into an HTML page.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	FrontPage = "frontpage"
	NewPost   = "newpost"
	Permalink = "permalink"
)

// Params keys understood by the templates.
const (
	BlogTitle = "blog_title"
	BlogEntry = "blog_entry"
	Error     = "error"
	Posts     = "posts"
	Post      = "p"
)

type Params map[string]interface{}

type Renderer interface {
	Render(w io.Writer, name string, params Params) error
}

// TemplateRenderer is safe for concurrent use; templates are parsed once.
type TemplateRenderer struct {
	templates *template.Template
}

func NewTemplateRenderer(format BodyFormat) (*TemplateRenderer, error) {
	formatter, err := format.formatter()
	if err != nil {
		return nil, err
	}
	funcs := template.FuncMap{
		"body": formatter,
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04 MST")
		},
	}
	templates, err := template.New("blog").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &TemplateRenderer{templates: templates}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, params Params) error {
	t := r.templates.Lookup(name + ".html")
	if t == nil {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.Execute(w, params)
}
