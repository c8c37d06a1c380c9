package certificate

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var ErrEmailCoolingDown = errors.New("email was just sent; cooling down")

// EmailGate disables the email action for Cooldown after each send and
// then re-arms itself.
type EmailGate struct {
	Cooldown time.Duration
	Now      func() time.Time // optional clock

	mu    sync.Mutex
	until time.Time
}

func NewEmailGate(cooldown time.Duration) *EmailGate {
	return &EmailGate{Cooldown: cooldown}
}

func (g *EmailGate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Acquire arms the gate, or fails with ErrEmailCoolingDown while it is
// still armed.
func (g *EmailGate) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if now.Before(g.until) {
		return ErrEmailCoolingDown
	}
	g.until = now.Add(g.Cooldown)
	return nil
}

// Sent reports whether the "sent" acknowledgment should still show.
func (g *EmailGate) Sent() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now().Before(g.until)
}

// Remaining is the time until the gate re-arms; zero when open.
func (g *EmailGate) Remaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if d := g.until.Sub(g.now()); d > 0 {
		return d
	}
	return 0
}

func (g *EmailGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.until = time.Time{}
}

// Mailer delivers a certificate to its holder. downloadURL is an absolute
// link to the certificate document.
type Mailer interface {
	SendCertificate(ctx context.Context, c Certificate, downloadURL string) error
}

// LogMailer only logs; no mail leaves the process.
type LogMailer struct{}

func (LogMailer) SendCertificate(ctx context.Context, c Certificate, downloadURL string) error {
	glog.Infof("email certificate %s (course %s) to %s: %s", c.CertificateNumber, c.CourseID, c.StudentName, downloadURL)
	return nil
}
