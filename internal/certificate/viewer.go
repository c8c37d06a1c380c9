package certificate

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-portal/internal/storage"
)

var (
	ErrNotAvailable = errors.New("certificate is not available")
	ErrViewerClosed = errors.New("viewer closed before the lookup finished")
)

type State int

const (
	StateLoading State = iota
	StateAvailable
	StateUnavailable
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAvailable:
		return "available"
	case StateUnavailable:
		return "unavailable"
	case StateNotFound:
		return "not_found"
	}
	return "unknown"
}

// Viewer drives one certificate page: Loading until the lookup resolves,
// then one terminal state. Export actions require StateAvailable.
type Viewer struct {
	CourseID string

	mu      sync.Mutex
	lookup  Lookup
	state   State
	cert    *Certificate
	err     error
	started bool
	closed  bool
}

func NewViewer(courseID string, lookup Lookup) *Viewer {
	return &Viewer{CourseID: courseID, lookup: lookup}
}

// Load runs the lookup once. If the viewer is closed or ctx ends while
// the lookup is pending, the result is dropped and the state stays
// Loading. A failed lookup renders as NotFound; the error is kept in Err.
func (v *Viewer) Load(ctx context.Context) (State, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return StateLoading, ErrViewerClosed
	}
	if v.started {
		st := v.state
		v.mu.Unlock()
		return st, nil
	}
	v.started = true
	v.mu.Unlock()

	c, err := v.lookup.Find(ctx, v.CourseID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return StateLoading, ErrViewerClosed
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		v.started = false
		return StateLoading, ctxErr
	}
	switch {
	case err != nil:
		v.state, v.err = StateNotFound, errors.Wrapf(err, "lookup course %s", v.CourseID)
	case c == nil:
		v.state = StateNotFound
	case !c.IsAvailable:
		v.state, v.cert = StateUnavailable, c
	default:
		v.state, v.cert = StateAvailable, c
	}
	return v.state, nil
}

// Close makes any pending Load discard its result.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Certificate returns the record for Available and Unavailable states.
func (v *Viewer) Certificate() (Certificate, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cert == nil {
		return Certificate{}, false
	}
	return *v.cert, true
}

func (v *Viewer) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *Viewer) available() (Certificate, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateAvailable || v.cert == nil {
		return Certificate{}, ErrNotAvailable
	}
	return *v.cert, nil
}

// Print returns the certificate for the print-only rendering.
func (v *Viewer) Print() (Certificate, error) {
	return v.available()
}

// Renderer produces the downloadable document for a certificate.
type Renderer interface {
	RenderDocument(w io.Writer, c Certificate) error
	ContentType() string
	Extension() string
}

// Download renders the certificate document, stores it and returns the
// blob key.
func (v *Viewer) Download(ctx context.Context, r Renderer, bs storage.BlobStore) (string, error) {
	c, err := v.available()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := r.RenderDocument(&buf, c); err != nil {
		return "", errors.Wrap(err, "render certificate document")
	}
	key := ArtifactKey(c, r.Extension())
	if _, err := bs.Put(ctx, key, &buf); err != nil {
		return "", errors.Wrap(err, "store certificate document")
	}
	return key, nil
}

func ArtifactKey(c Certificate, ext string) string {
	return "certificates/" + c.CertificateNumber + ext
}

// SendEmail dispatches the certificate through m if gate allows it.
func (v *Viewer) SendEmail(ctx context.Context, gate *EmailGate, m Mailer, downloadURL string) error {
	c, err := v.available()
	if err != nil {
		return err
	}
	if err := gate.Acquire(); err != nil {
		return err
	}
	if err := m.SendCertificate(ctx, c, downloadURL); err != nil {
		gate.Reset()
		return errors.Wrap(err, "send certificate")
	}
	return nil
}
