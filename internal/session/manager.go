package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	CookieName = "portal_session"
	issuer     = "mindengage-portal"

	// refreshSlack bounds how stale a cookie's expiry may get relative to
	// lastSeen+TTL; tokens are accepted for the same slack past expiry.
	refreshSlack = time.Minute
)

// Manager keeps sessions in memory and binds browsers to them with an
// HMAC-signed JWT cookie carrying the session id.
type Manager struct {
	TTL    time.Duration
	Secure bool             // cookie Secure flag
	Now    func() time.Time // optional clock

	hmac     []byte
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		TTL:      ttl,
		hmac:     []byte(secret),
		sessions: map[string]*Session{},
	}
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

type Claims struct {
	jwt.RegisteredClaims
}

func (m *Manager) issue(sid string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.TTL)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.hmac)
	return s, exp, errors.Wrap(err, "sign session token")
}

func (m *Manager) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.hmac, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(refreshSlack),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || c.ID == "" {
		return nil, errors.New("invalid session token")
	}
	return c, nil
}

// Get returns the live session with id, if any.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) create() *Session {
	s := newSession(uuid.NewString(), m.now())
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	glog.V(2).Infof("session %s created", s.ID)
	return s
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Middleware resolves the request's session, starting a new one when the
// cookie is missing, invalid or refers to an expired session. The cookie
// is re-issued whenever its expiry trails now+TTL by more than
// refreshSlack, so it outlives the session's idle deadline.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			s       *Session
			refresh bool
		)
		if ck, err := r.Cookie(CookieName); err == nil {
			if c, err := m.parse(ck.Value); err == nil {
				if live, ok := m.Get(c.ID); ok {
					s = live
					refresh = c.ExpiresAt.Time.Sub(m.now()) < m.TTL-refreshSlack
				}
			} else {
				glog.V(2).Infof("session cookie rejected: %v", err)
			}
		}
		if s == nil {
			s = m.create()
			refresh = true
		}
		s.touch(m.now())
		if refresh {
			if err := m.setCookie(w, s.ID); err != nil {
				glog.Errorf("session cookie: %v", err)
				http.Error(w, "session error", http.StatusInternalServerError)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

func (m *Manager) setCookie(w http.ResponseWriter, sid string) error {
	tok, exp, err := m.issue(sid)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		Expires:  exp.Add(refreshSlack),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Sweep drops sessions idle for longer than TTL and discards their forms.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	var dead []*Session
	for id, s := range m.sessions {
		if s.idleSince(now) > m.TTL {
			dead = append(dead, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range dead {
		s.discard()
	}
	if len(dead) > 0 {
		glog.V(1).Infof("swept %d idle sessions", len(dead))
	}
	return len(dead)
}

// Run sweeps every interval until ctx ends.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			m.Sweep()
		}
	}
}
