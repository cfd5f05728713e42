package ui

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"aryastastic/internal/errors"
	"aryastastic/internal/report"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

type reportPage struct {
	Title string
	Body  template.HTML
}

func parseTemplates() (*template.Template, error) {
	t, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}
	return t, nil
}

// renderTemplate renders to a buffer first so a template error never
// produces a half-written page
func (a *App) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		a.logger.Error("template %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, errors.CodeInternalError, "", "template rendering failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Debug("write template response: %v", err)
	}
}

func toHTML(md string) template.HTML {
	// SkipHTML drops raw HTML from the source, so the output is safe to embed.
	return template.HTML(report.HTML(md))
}
