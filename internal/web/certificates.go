package web

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-portal/internal/certificate"
	"github.com/mind-engage/mindengage-portal/internal/i18n"
	"github.com/mind-engage/mindengage-portal/internal/session"
)

type certificateView struct {
	CourseID        string
	State           string // certificate.State.String()
	Cert            certificate.Certificate
	VerificationURL string
	EmailSent       bool
	CooldownMS      int64
	Notices         []session.Notice // only set for out-of-band fragment updates
}

func certPath(courseID string) string {
	return "/certificates/" + url.PathEscape(courseID)
}

// load resolves the certificate for the request's course. It returns
// false when the client went away before the lookup finished; the caller
// must not write a response then.
func (s *Server) load(r *http.Request) (*certificate.Viewer, bool) {
	v := certificate.NewViewer(chi.URLParam(r, "courseID"), s.Lookup)
	st, err := v.Load(r.Context())
	if err != nil {
		glog.V(2).Infof("certificate %s: lookup dropped: %v", v.CourseID, err)
		return nil, false
	}
	if lerr := v.Err(); lerr != nil {
		glog.Warningf("certificate %s: %v", v.CourseID, lerr)
	}
	glog.V(2).Infof("certificate %s: %s", v.CourseID, st)
	return v, true
}

func (s *Server) certificateView(r *http.Request, v *certificate.Viewer) certificateView {
	cv := certificateView{CourseID: v.CourseID, State: v.State().String()}
	if c, ok := v.Certificate(); ok {
		cv.Cert = c
		cv.VerificationURL = certificate.VerificationURL(c.CertificateNumber)
	}
	if sess := session.FromContext(r.Context()); sess != nil {
		g := sess.EmailGate(v.CourseID, s.EmailCooldown)
		cv.EmailSent = g.Sent()
		cv.CooldownMS = g.Remaining().Milliseconds()
	}
	return cv
}

// CertificatePage renders the Loading shell; the browser then pulls the
// content fragment, which blocks on the lookup.
func (s *Server) CertificatePage(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	s.renderPage(w, r, http.StatusOK, "certificate", "Course certificate",
		certificateView{CourseID: courseID, State: certificate.StateLoading.String()})
}

func (s *Server) CertificateContent(w http.ResponseWriter, r *http.Request) {
	v, ok := s.load(r)
	if !ok {
		return
	}
	status := http.StatusOK
	if v.State() == certificate.StateNotFound {
		status = http.StatusNotFound
		if isHTMX(r) {
			// htmx skips non-2xx swaps by default
			status = http.StatusOK
		}
	}
	s.renderPage(w, r, status, "certificate", "Course certificate", s.certificateView(r, v))
}

func (s *Server) PrintCertificate(w http.ResponseWriter, r *http.Request) {
	v, ok := s.load(r)
	if !ok {
		return
	}
	c, err := v.Print()
	if err != nil {
		s.notAvailable(w, v)
		return
	}
	tag := s.lang(r)
	s.execute(w, http.StatusOK, "certificate_print", "print", tag, struct {
		Page
		Cert            certificate.Certificate
		VerificationURL string
	}{
		Page:            Page{Lang: tag.String(), Dir: i18n.Dir(tag)},
		Cert:            c,
		VerificationURL: certificate.VerificationURL(c.CertificateNumber),
	})
}

func (s *Server) DownloadCertificate(w http.ResponseWriter, r *http.Request) {
	v, ok := s.load(r)
	if !ok {
		return
	}
	key, err := v.Download(r.Context(), s.documents(r), s.Blobs)
	if err != nil {
		if errors.Is(err, certificate.ErrNotAvailable) {
			s.notAvailable(w, v)
			return
		}
		glog.Errorf("certificate %s download: %v", v.CourseID, err)
		http.Error(w, "could not prepare document", http.StatusInternalServerError)
		return
	}
	rc, err := s.Blobs.Get(r.Context(), key)
	if err != nil {
		glog.Errorf("certificate %s read %s: %v", v.CourseID, key, err)
		http.Error(w, "could not read document", http.StatusInternalServerError)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", s.Documents.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	if _, err := io.Copy(w, rc); err != nil {
		glog.Warningf("certificate %s stream: %v", v.CourseID, err)
	}
}

// documents binds the document renderer to the request language when it
// supports that.
func (s *Server) documents(r *http.Request) certificate.Renderer {
	if d, ok := s.Documents.(*Document); ok {
		return d.WithLang(s.lang(r))
	}
	return s.Documents
}

// EmailButton renders the email control for the current gate state.
func (s *Server) EmailButton(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	cv := certificateView{CourseID: courseID, State: certificate.StateAvailable.String()}
	if sess := session.FromContext(r.Context()); sess != nil {
		g := sess.EmailGate(courseID, s.EmailCooldown)
		cv.EmailSent = g.Sent()
		cv.CooldownMS = g.Remaining().Milliseconds()
	}
	s.execute(w, http.StatusOK, "certificate", "email_button", s.lang(r), cv)
}

func (s *Server) EmailCertificate(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	v, ok := s.load(r)
	if !ok {
		return
	}
	p := i18n.Printer(s.lang(r))
	gate := sess.EmailGate(v.CourseID, s.EmailCooldown)
	link := s.absURL(r, certPath(v.CourseID)+"/download")
	switch err := v.SendEmail(r.Context(), gate, s.Mailer, link); {
	case err == nil:
		glog.Infof("session %s: certificate %s emailed", sess.ID, v.CourseID)
	case errors.Is(err, certificate.ErrNotAvailable):
		s.notAvailable(w, v)
		return
	case errors.Is(err, certificate.ErrEmailCoolingDown):
		sess.AddNotice(session.NoticeInfo, p.Sprintf("Please wait before sending again"))
	default:
		glog.Errorf("certificate %s email: %v", v.CourseID, err)
		sess.AddNotice(session.NoticeError, p.Sprintf("Could not send the email"))
	}
	if !isHTMX(r) {
		http.Redirect(w, r, certPath(v.CourseID), http.StatusSeeOther)
		return
	}
	cv := certificateView{
		CourseID:   v.CourseID,
		State:      v.State().String(),
		EmailSent:  gate.Sent(),
		CooldownMS: gate.Remaining().Milliseconds(),
		Notices:    sess.TakeNotices(),
	}
	s.execute(w, http.StatusOK, "certificate", "email_update", s.lang(r), cv)
}

func (s *Server) notAvailable(w http.ResponseWriter, v *certificate.Viewer) {
	if v.State() == certificate.StateNotFound {
		http.Error(w, "certificate not found", http.StatusNotFound)
		return
	}
	http.Error(w, "certificate not available", http.StatusConflict)
}
