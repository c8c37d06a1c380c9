package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-portal/internal/coursework"
	"github.com/mind-engage/mindengage-portal/internal/session"
)

const secret = "test-secret-0123456789"

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newManager(c *clock) *session.Manager {
	m := session.NewManager(secret, time.Hour)
	m.Now = c.Now
	return m
}

// serve runs one request through the middleware and returns the session
// the handler saw plus the response.
func serve(t *testing.T, m *session.Manager, cookie *http.Cookie) (*session.Session, *httptest.ResponseRecorder) {
	t.Helper()
	var seen *session.Session
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen == nil {
		t.Fatalf("handler saw no session")
	}
	return seen, rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestMiddlewareCreatesAndResumes(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newManager(c)

	s1, rec := serve(t, m, nil)
	ck := sessionCookie(rec)
	if ck == nil || !ck.HttpOnly {
		t.Fatalf("cookie = %+v", ck)
	}

	c.now = c.now.Add(30 * time.Second)
	s2, rec := serve(t, m, ck)
	if s2 != s1 {
		t.Fatalf("cookie did not resume the session")
	}
	if sessionCookie(rec) != nil {
		t.Fatalf("fresh cookie should not be re-issued")
	}

	c.now = c.now.Add(10 * time.Minute)
	_, rec = serve(t, m, ck)
	if sessionCookie(rec) == nil {
		t.Fatalf("cookie not refreshed after activity")
	}
	if m.Len() != 1 {
		t.Fatalf("sessions = %d", m.Len())
	}
}

func TestCookieOutlivesIdleWindow(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newManager(c)
	s1, rec := serve(t, m, nil)
	ck := sessionCookie(rec)

	c.now = c.now.Add(24 * time.Minute)
	if _, rec = serve(t, m, ck); sessionCookie(rec) != nil {
		ck = sessionCookie(rec)
	}
	if ck.Expires.Before(c.now.Add(time.Hour)) {
		t.Fatalf("cookie expires %v, before the idle deadline", ck.Expires)
	}

	// 37 minutes idle, past the first token's expiry
	c.now = c.now.Add(37 * time.Minute)
	if m.Sweep() != 0 {
		t.Fatalf("swept a session idle for less than the TTL")
	}
	s2, rec := serve(t, m, ck)
	if s2 != s1 {
		t.Fatalf("session replaced after 37m idle with a 1h TTL")
	}
	if next := sessionCookie(rec); next != nil {
		ck = next
	}

	// just under the TTL since the last request
	c.now = c.now.Add(59*time.Minute + 59*time.Second)
	if m.Sweep() != 0 {
		t.Fatalf("swept a session idle for less than the TTL")
	}
	if s3, _ := serve(t, m, ck); s3 != s1 {
		t.Fatalf("session replaced before the idle TTL ran out")
	}

	// the previous token expired 20s ago; the slack still accepts it
	c.now = c.now.Add(20 * time.Second)
	s4, rec := serve(t, m, ck)
	if s4 != s1 {
		t.Fatalf("session lost right after activity")
	}
	if next := sessionCookie(rec); next != nil {
		ck = next
	}
	c.now = c.now.Add(59 * time.Minute)
	if s5, _ := serve(t, m, ck); s5 != s1 {
		t.Fatalf("session replaced 59m after the last request")
	}
}

func TestMiddlewareRejectsForgedAndExpiredCookies(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newManager(c)
	s1, rec := serve(t, m, nil)
	ck := sessionCookie(rec)

	forged := *ck
	forged.Value = ck.Value[:len(ck.Value)-2] + "xx"
	if s, _ := serve(t, m, &forged); s == s1 {
		t.Fatalf("forged cookie accepted")
	}

	other := session.NewManager("another-secret-0123456789", time.Hour)
	other.Now = c.Now
	if s, _ := serve(t, other, ck); s == s1 {
		t.Fatalf("cookie from another key accepted")
	}

	c.now = c.now.Add(2 * time.Hour)
	if s, _ := serve(t, m, ck); s == s1 {
		t.Fatalf("expired cookie accepted")
	}
}

func TestSweepDiscardsIdleSessions(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newManager(c)
	s, _ := serve(t, m, nil)

	f := s.Form("1", coursework.MustCatalog(coursework.SampleAssignments()))
	_ = f.SetTextAnswer("q1", "x")
	_ = f.ToggleMultipleChoice("q2", "<ul>")
	_ = f.SetFileAnswer("q3", &coursework.FileHandle{Name: "a.html", Size: 1})
	_ = f.SetTextAnswer("q5", "x")
	_ = f.ToggleMultipleChoice("q6", "transform")
	_ = f.SetFileAnswer("q7", &coursework.FileHandle{Name: "a.css", Size: 1})
	_ = f.SetTextAnswer("q8", "x")
	_ = f.ToggleMultipleChoice("q9", "onClick()")
	tk, err := f.BeginSubmit()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if n := m.Sweep(); n != 0 {
		t.Fatalf("swept active session")
	}
	c.now = c.now.Add(61 * time.Minute)
	if n := m.Sweep(); n != 1 || m.Len() != 0 {
		t.Fatalf("swept = %d, live = %d", n, m.Len())
	}
	if _, err := f.Complete(tk, nil); err != coursework.ErrFormDiscarded {
		t.Fatalf("late completion after expiry: %v", err)
	}
}

func TestSessionNoticesAreOneShot(t *testing.T) {
	m := newManager(&clock{now: time.Now()})
	s, _ := serve(t, m, nil)
	s.AddNotice(session.NoticeSuccess, "done")
	s.AddNotice(session.NoticeError, "oops")
	if n := s.TakeNotices(); len(n) != 2 || n[0].Text != "done" || n[1].Kind != session.NoticeError {
		t.Fatalf("notices = %+v", n)
	}
	if n := s.TakeNotices(); len(n) != 0 {
		t.Fatalf("notices not consumed: %+v", n)
	}
}

func TestSessionFormIsPerCourse(t *testing.T) {
	m := newManager(&clock{now: time.Now()})
	s, _ := serve(t, m, nil)
	cat := coursework.MustCatalog(coursework.SampleAssignments())
	if s.Form("1", cat) != s.Form("1", cat) {
		t.Fatalf("form not reused within a course")
	}
	if s.Form("1", cat) == s.Form("2", cat) {
		t.Fatalf("courses share a form")
	}
	if s.EmailGate("1", time.Second) != s.EmailGate("1", time.Second) {
		t.Fatalf("gate not reused")
	}
}
