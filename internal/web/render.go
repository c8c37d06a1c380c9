package web

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/mind-engage/mindengage-portal/internal/coursework"
	"github.com/mind-engage/mindengage-portal/internal/i18n"
	"github.com/mind-engage/mindengage-portal/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages rendered inside the layout; standalone pages have their own <html>.
var (
	layoutPages     = []string{"assignments", "confirm_clear", "certificate", "nav"}
	standalonePages = []string{"certificate_print", "certificate_document"}
)

// Views holds the parsed page templates. Each is cloned per render so the
// "t" and "date" funcs can be bound to the request's language.
type Views struct {
	pages map[string]*template.Template
}

func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"t":        func(key string, args ...any) string { return key },
		"date":     func(s string) string { return s },
		"filesize": coursework.FormatFileSize,
		"join":     strings.Join,
		"add":      func(a, b int) int { return a + b },
	}
}

func ParseViews() (*Views, error) {
	v := &Views{pages: map[string]*template.Template{}}
	for _, p := range layoutPages {
		t, err := template.New(p).Funcs(baseFuncs()).ParseFS(templateFS,
			"templates/layout.html", "templates/partials.html", "templates/"+p+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parse page %s", p)
		}
		v.pages[p] = t
	}
	for _, p := range standalonePages {
		t, err := template.New(p).Funcs(baseFuncs()).ParseFS(templateFS,
			"templates/partials.html", "templates/"+p+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parse page %s", p)
		}
		v.pages[p] = t
	}
	return v, nil
}

func (v *Views) bind(page string, tag language.Tag) (*template.Template, error) {
	base, ok := v.pages[page]
	if !ok {
		return nil, errors.Errorf("unknown page %q", page)
	}
	t, err := base.Clone()
	if err != nil {
		return nil, errors.Wrapf(err, "clone page %s", page)
	}
	p := i18n.Printer(tag)
	t.Funcs(template.FuncMap{
		"t":    p.Sprintf,
		"date": func(s string) string { return i18n.FormatDate(s, tag) },
	})
	return t, nil
}

// Execute runs the named template of page with data bound to tag.
func (v *Views) Execute(w io.Writer, page, name string, tag language.Tag, data any) error {
	t, err := v.bind(page, tag)
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(w, name, data)
}

// Page is the data every layout page receives.
type Page struct {
	Lang    string
	Dir     string
	Title   string
	Notices []session.Notice
	Data    any
}

func isHTMX(r *http.Request) bool { return r.Header.Get("HX-Request") == "true" }

// renderPage writes only the "content" block for HTMX requests and the
// full layout otherwise. Pending notices are consumed either way.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	tag := s.lang(r)
	pg := Page{
		Lang:  tag.String(),
		Dir:   i18n.Dir(tag),
		Title: i18n.Printer(tag).Sprintf(title),
		Data:  data,
	}
	if sess := session.FromContext(r.Context()); sess != nil {
		pg.Notices = sess.TakeNotices()
	}
	name := "layout"
	if isHTMX(r) {
		name = "content"
	}
	s.execute(w, status, page, name, tag, pg)
}

func (s *Server) execute(w http.ResponseWriter, status int, page, name string, tag language.Tag, data any) {
	var buf strings.Builder
	if err := s.Views.Execute(&buf, page, name, tag, data); err != nil {
		glog.Errorf("render %s/%s: %v", page, name, err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, buf.String())
}
