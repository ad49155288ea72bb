// Package web embeds the HTML templates and static assets of the interface.
package web

import (
	"embed"
	"html/template"
	"io/fs"

	"revisionai/internal/i18n"
	"revisionai/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// IndexTemplate is the name of the single page template.
const IndexTemplate = "index.html"

// Page is the data rendered by the index template.
type Page struct {
	L              *i18n.Localizer
	Lang           string
	Subjects       []string
	Subject        string
	RequireSubject bool
	Accept         string
	Error          string
	Results        *models.DisplayResult
}

// Templates parses the embedded templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"add1": func(i int) int { return i + 1 },
		"kv":   kv,
	}).ParseFS(templateFS, "templates/*.html")
}

// Static returns the static asset tree rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// kv builds template data for the localizer from alternating keys and values.
func kv(pairs ...any) map[string]any {
	data := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if key, ok := pairs[i].(string); ok {
			data[key] = pairs[i+1]
		}
	}
	return data
}
