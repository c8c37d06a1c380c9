package session

import (
	"sync"
	"time"

	"github.com/mind-engage/mindengage-portal/internal/certificate"
	"github.com/mind-engage/mindengage-portal/internal/coursework"
)

// Notice kinds.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeInfo    = "info"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Kind string
	Text string
}

// Session is the per-browser state: one assignment form per course, one
// email gate per certificate and the pending notices.
type Session struct {
	ID string

	mu       sync.Mutex
	forms    map[string]*coursework.Form
	gates    map[string]*certificate.EmailGate
	notices  []Notice
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		forms:    map[string]*coursework.Form{},
		gates:    map[string]*certificate.EmailGate{},
		lastSeen: now,
	}
}

// Form returns the course's form, creating it over c on first use.
func (s *Session) Form(courseID string, c *coursework.Catalog) *coursework.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[courseID]
	if !ok {
		f = coursework.NewForm(c)
		s.forms[courseID] = f
	}
	return f
}

// EmailGate returns the course's email gate, creating it on first use.
func (s *Session) EmailGate(courseID string, cooldown time.Duration) *certificate.EmailGate {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[courseID]
	if !ok {
		g = certificate.NewEmailGate(cooldown)
		s.gates[courseID] = g
	}
	return g
}

func (s *Session) AddNotice(kind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, Notice{Kind: kind, Text: text})
}

// TakeNotices returns and clears the pending notices.
func (s *Session) TakeNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notices
	s.notices = nil
	return n
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// discard drops every form so late submission results are ignored.
func (s *Session) discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.forms {
		f.Discard()
	}
	s.forms = map[string]*coursework.Form{}
}
