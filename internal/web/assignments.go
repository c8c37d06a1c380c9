package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-portal/internal/coursework"
	"github.com/mind-engage/mindengage-portal/internal/i18n"
	"github.com/mind-engage/mindengage-portal/internal/session"
)

// ---- view models ----

type questionView struct {
	CourseID string
	Index    int // 1-based within its assignment
	Q        coursework.Question
	Error    string // English key of the violation, empty if none

	Text     string
	File     *coursework.FileHandle
	FileName string
	Selected map[string]bool

	Accept string // <input accept> value
}

func (v questionView) IsSelected(option string) bool { return v.Selected[option] }

type assignmentView struct {
	Index      int
	Assignment coursework.Assignment
	Questions  []questionView
}

type assignmentsView struct {
	CourseID    string
	Assignments []assignmentView
	Progress    coursework.Progress
	Submitting  bool
}

type questionUpdate struct {
	CourseID   string
	Question   questionView
	Progress   coursework.Progress
	Notices    []session.Notice
	Submitting bool
}

func newQuestionView(courseID string, idx int, q coursework.Question, f *coursework.Form, errs map[string]coursework.Violation) questionView {
	v := questionView{
		CourseID: courseID,
		Index:    idx,
		Q:        q,
		Accept:   strings.Join(q.AllowedFileTypes, ","),
	}
	if viol, ok := errs[q.ID]; ok {
		v.Error = viol.Message()
	}
	a, ok := f.Answer(q.ID)
	if !ok {
		return v
	}
	switch a := a.(type) {
	case coursework.TextAnswer:
		v.Text = a.Value
	case coursework.FileAnswer:
		v.File, v.FileName = a.File, a.FileName
	case coursework.MultipleChoiceAnswer:
		v.Selected = make(map[string]bool, len(a.Selected))
		for _, o := range a.Selected {
			v.Selected[o] = true
		}
	default:
		panic("web: unhandled answer type")
	}
	return v
}

func buildAssignments(courseID string, f *coursework.Form) assignmentsView {
	errs := f.Errors()
	out := assignmentsView{
		CourseID:   courseID,
		Progress:   f.Progress(),
		Submitting: f.State() == coursework.StateSubmitting,
	}
	for i, a := range f.Catalog().Assignments() {
		av := assignmentView{Index: i + 1, Assignment: a}
		for j, q := range a.Questions {
			av.Questions = append(av.Questions, newQuestionView(courseID, j+1, q, f, errs))
		}
		out.Assignments = append(out.Assignments, av)
	}
	return out
}

// ---- handlers ----

func (s *Server) form(r *http.Request) (*session.Session, *coursework.Form, string) {
	courseID := chi.URLParam(r, "courseID")
	sess := session.FromContext(r.Context())
	if sess == nil {
		return nil, nil, courseID
	}
	return sess, sess.Form(courseID, s.Catalog), courseID
}

func pagePath(courseID string) string {
	return "/courses/" + url.PathEscape(courseID) + "/assignments"
}

func (s *Server) AssignmentsPage(w http.ResponseWriter, r *http.Request) {
	_, f, courseID := s.form(r)
	if f == nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, r, http.StatusOK, "assignments", "Course assignments", buildAssignments(courseID, f))
}

func (s *Server) Progress(w http.ResponseWriter, r *http.Request) {
	_, f, _ := s.form(r)
	if f == nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, f.Progress())
}

func (s *Server) SetText(w http.ResponseWriter, r *http.Request) {
	sess, f, courseID := s.form(r)
	if f == nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	qid := chi.URLParam(r, "questionID")
	err := f.SetTextAnswer(qid, r.PostForm.Get("value"))
	s.afterMutation(w, r, sess, f, courseID, qid, err)
}

func (s *Server) ToggleOption(w http.ResponseWriter, r *http.Request) {
	sess, f, courseID := s.form(r)
	if f == nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	qid := chi.URLParam(r, "questionID")
	err := f.ToggleMultipleChoice(qid, r.PostForm.Get("option"))
	s.afterMutation(w, r, sess, f, courseID, qid, err)
}

func (s *Server) SetFile(w http.ResponseWriter, r *http.Request) {
	sess, f, courseID := s.form(r)
	if f == nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	qid := chi.URLParam(r, "questionID")
	q, ok := s.Catalog.Question(qid)
	if !ok {
		s.afterMutation(w, r, sess, f, courseID, qid, coursework.ErrUnknownQuestion)
		return
	}

	limit := int64(s.UploadLimitMB) << 20
	if limit <= 0 {
		limit = 32 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || r.ContentLength > limit {
			s.afterMutation(w, r, sess, f, courseID, qid, &coursework.FileRejectedError{
				QuestionID:       qid,
				MaxFileSizeMB:    q.MaxFileSizeMB,
				AllowedFileTypes: q.AllowedFileTypes,
			})
			return
		}
		http.Error(w, "bad multipart form", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	if r.FormValue("remove") == "1" {
		s.afterMutation(w, r, sess, f, courseID, qid, f.SetFileAnswer(qid, nil))
		return
	}
	fhs := r.MultipartForm.File["file"]
	if len(fhs) == 0 {
		http.Error(w, "file required", http.StatusBadRequest)
		return
	}
	fh := fhs[0]
	err := f.SetFileAnswer(qid, &coursework.FileHandle{Name: fh.Filename, Size: fh.Size})
	s.afterMutation(w, r, sess, f, courseID, qid, err)
}

// afterMutation maps a mutation result to a response: HTMX requests get
// the question fragment (plus out-of-band progress and notices), everyone
// else is redirected back to the question.
func (s *Server) afterMutation(w http.ResponseWriter, r *http.Request, sess *session.Session, f *coursework.Form, courseID, qid string, err error) {
	status := http.StatusOK
	if err != nil {
		var rejected *coursework.FileRejectedError
		switch {
		case errors.As(err, &rejected):
			p := i18n.Printer(s.lang(r))
			types := strings.Join(rejected.AllowedFileTypes, ", ")
			sess.AddNotice(session.NoticeError, p.Sprintf("Invalid file. Max size: %dMB, allowed types: %s", rejected.MaxFileSizeMB, types))
			status = http.StatusUnprocessableEntity
		case errors.Is(err, coursework.ErrUnknownQuestion):
			http.Error(w, "unknown question", http.StatusNotFound)
			return
		case errors.Is(err, coursework.ErrKindMismatch), errors.Is(err, coursework.ErrUnknownOption):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		default:
			glog.Errorf("course %s question %s: %v", courseID, qid, err)
			sess.AddNotice(session.NoticeError, i18n.Printer(s.lang(r)).Sprintf("Could not save your answer"))
			status = http.StatusInternalServerError
		}
	}

	if !isHTMX(r) {
		http.Redirect(w, r, pagePath(courseID)+"#q-"+qid, http.StatusSeeOther)
		return
	}
	q, _ := s.Catalog.Question(qid)
	upd := questionUpdate{
		CourseID:   courseID,
		Question:   newQuestionView(courseID, s.questionIndex(qid), q, f, f.Errors()),
		Progress:   f.Progress(),
		Notices:    sess.TakeNotices(),
		Submitting: f.State() == coursework.StateSubmitting,
	}
	// htmx only swaps 2xx responses
	if status == http.StatusUnprocessableEntity {
		status = http.StatusOK
	}
	s.execute(w, status, "assignments", "question_update", s.lang(r), upd)
}

func (s *Server) questionIndex(qid string) int {
	for _, a := range s.Catalog.Assignments() {
		for j, q := range a.Questions {
			if q.ID == qid {
				return j + 1
			}
		}
	}
	return 0
}

// Submit validates the whole form and, when clean, hands the snapshot to
// the course's submitter. The request blocks until the submitter returns.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	sess, f, courseID := s.form(r)
	if f == nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	p := i18n.Printer(s.lang(r))
	target := pagePath(courseID)

	t, err := f.BeginSubmit()
	if err != nil {
		var invalid *coursework.InvalidError
		switch {
		case errors.As(err, &invalid):
			sess.AddNotice(session.NoticeError, p.Sprintf("Please complete the highlighted questions"))
			if len(invalid.QuestionIDs) > 0 {
				target += "#q-" + invalid.QuestionIDs[0]
			}
			s.redirect(w, r, target)
		case errors.Is(err, coursework.ErrSubmissionInFlight):
			http.Error(w, p.Sprintf("A submission is already in progress"), http.StatusConflict)
		default:
			glog.Errorf("begin submit course %s: %v", courseID, err)
			http.Error(w, "submit failed", http.StatusInternalServerError)
		}
		return
	}

	glog.V(1).Infof("session %s course %s: submitting %d answers", sess.ID, courseID, len(t.Answers))
	submitErr := s.Submitter(courseID).Submit(r.Context(), t.Answers)
	outcome, err := f.Complete(t, submitErr)
	if err != nil {
		// session expired while in flight; nothing left to update
		glog.Warningf("complete submit course %s: %v", courseID, err)
		http.Error(w, "session expired", http.StatusGone)
		return
	}
	switch outcome {
	case coursework.OutcomeSucceeded:
		glog.Infof("session %s course %s: assignments submitted", sess.ID, courseID)
		sess.AddNotice(session.NoticeSuccess, p.Sprintf("Assignments submitted successfully!"))
	case coursework.OutcomeFailed:
		glog.Warningf("session %s course %s: submit failed: %v", sess.ID, courseID, submitErr)
		sess.AddNotice(session.NoticeError, p.Sprintf("An error occurred while submitting. Please try again."))
	}
	s.redirect(w, r, target)
}

// redirect issues a 303, or an HX-Redirect for HTMX requests so the
// fragment in the target survives.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) ConfirmClear(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	s.renderPage(w, r, http.StatusOK, "confirm_clear", "Clear answers", struct{ CourseID string }{courseID})
}

func (s *Server) Clear(w http.ResponseWriter, r *http.Request) {
	sess, f, courseID := s.form(r)
	if f == nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("confirm") != "yes" {
		s.redirect(w, r, pagePath(courseID)+"/clear")
		return
	}
	p := i18n.Printer(s.lang(r))
	if err := f.ClearAll(); err != nil {
		http.Error(w, p.Sprintf("A submission is already in progress"), http.StatusConflict)
		return
	}
	sess.AddNotice(session.NoticeInfo, p.Sprintf("All answers cleared"))
	s.redirect(w, r, pagePath(courseID))
}
