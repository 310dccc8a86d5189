// Package web holds the HTML pages and the stylesheet served to the browser.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html assets/app.css
var files embed.FS

const (
	PageHome          = "home"
	PageError         = "error"
	PageHRCalendar    = "hr_calendar"
	PageDeptView      = "dept_view"
	PageStaffSchedule = "staff_schedule"
	PageApproval      = "approval"
	PagePending       = "pending"
)

var pageNames = []string{
	PageHome,
	PageError,
	PageHRCalendar,
	PageDeptView,
	PageStaffSchedule,
	PageApproval,
	PagePending,
}

type Renderer struct {
	pages map[string]*template.Template
	css   []byte
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	css, err := files.ReadFile("assets/app.css")
	if err != nil {
		return nil, err
	}
	r.css = css
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// RenderHTTP renders into a buffer first so a template failure never sends a half page.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, req *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		log.WithContext(req.Context()).WithError(err).Errorf("%s template render failed", name)
		http.Error(w, "template render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (r *Renderer) CSSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(r.css)
	}
}
