package web

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/mind-engage/mindengage-portal/internal/certificate"
	"github.com/mind-engage/mindengage-portal/internal/coursework"
	"github.com/mind-engage/mindengage-portal/internal/i18n"
	"github.com/mind-engage/mindengage-portal/internal/storage"
)

// Server wires the portal pages to their collaborators.
type Server struct {
	Catalog   *coursework.Catalog
	Submitter func(courseID string) coursework.Submitter // required
	Lookup    certificate.Lookup
	Mailer    certificate.Mailer
	Documents certificate.Renderer
	Blobs     storage.BlobStore
	Views     *Views

	Locale        language.Tag  // default UI language
	EmailCooldown time.Duration // gate re-arm delay
	UploadLimitMB int           // request body cap for file uploads
	PublicURL     string        // external base for absolute links; request host when empty
	DB            *sql.DB       // optional; pinged by /readyz
}

// Routes returns the portal router. Session middleware is applied by the
// caller so the same handler can be tested with a fixed session.
func Routes(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.Ready)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	r.Get("/dashboard", s.Dashboard)
	r.Get("/course-preview/{courseID}", s.CoursePreview)

	r.Route("/courses/{courseID}/assignments", func(r chi.Router) {
		r.Get("/", s.AssignmentsPage)
		r.Get("/progress", s.Progress)
		r.Post("/answers/{questionID}/text", s.SetText)
		r.Post("/answers/{questionID}/file", s.SetFile)
		r.Post("/answers/{questionID}/options", s.ToggleOption)
		r.Post("/submit", s.Submit)
		r.Get("/clear", s.ConfirmClear)
		r.Post("/clear", s.Clear)
	})

	r.Route("/certificates/{courseID}", func(r chi.Router) {
		r.Get("/", s.CertificatePage)
		r.Get("/content", s.CertificateContent)
		r.Get("/print", s.PrintCertificate)
		r.Get("/download", s.DownloadCertificate)
		r.Get("/email", s.EmailButton)
		r.Post("/email", s.EmailCertificate)
	})
	return r
}

// lang picks the UI language: ?lang= overrides the configured default.
func (s *Server) lang(r *http.Request) language.Tag {
	if q := r.URL.Query().Get("lang"); q != "" {
		return i18n.Match(q, s.Locale)
	}
	return s.Locale
}

// absURL resolves an app path against PublicURL, or against the request's
// own scheme and host when PublicURL is unset.
func (s *Server) absURL(r *http.Request, p string) string {
	if s.PublicURL != "" {
		return strings.TrimRight(s.PublicURL, "/") + p
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + p
}

func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ---- navigation stubs ----

type courseLink struct {
	ID    string
	Title string
}

type navView struct {
	Heading string
	Courses []courseLink
}

func (s *Server) courses() []courseLink {
	certs := certificate.SampleCertificates()
	out := make([]courseLink, 0, len(certs))
	for _, id := range []string{"1", "2", "3"} {
		if c, ok := certs[id]; ok {
			out = append(out, courseLink{ID: id, Title: c.CourseName})
		}
	}
	return out
}

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "nav", "Dashboard", navView{Heading: "Dashboard", Courses: s.courses()})
}

func (s *Server) CoursePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "courseID")
	var links []courseLink
	for _, c := range s.courses() {
		if c.ID == id {
			links = append(links, c)
		}
	}
	if len(links) == 0 {
		links = []courseLink{{ID: id, Title: id}}
	}
	s.renderPage(w, r, http.StatusOK, "nav", "Course preview", navView{Heading: "Course preview", Courses: links})
}
