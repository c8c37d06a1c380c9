package certificate_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-portal/internal/certificate"
)

/* ---------------- fakes ---------------- */

type lookupFunc func(ctx context.Context, courseID string) (*certificate.Certificate, error)

func (f lookupFunc) Find(ctx context.Context, id string) (*certificate.Certificate, error) {
	return f(ctx, id)
}

type memBlobs struct{ data map[string][]byte }

func (m *memBlobs) Put(_ context.Context, key string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = b
	return key, nil
}

func (m *memBlobs) Get(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := m.data[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type textRenderer struct{}

func (textRenderer) RenderDocument(w io.Writer, c certificate.Certificate) error {
	_, err := io.WriteString(w, c.StudentName+" / "+c.CourseName)
	return err
}
func (textRenderer) ContentType() string { return "text/plain" }
func (textRenderer) Extension() string   { return ".txt" }

type recordingMailer struct {
	sent  []string
	links []string
	err   error
}

func (m *recordingMailer) SendCertificate(_ context.Context, c certificate.Certificate, link string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, c.CertificateNumber)
	m.links = append(m.links, link)
	return nil
}

/* ---------------- tests ---------------- */

func TestViewerStates(t *testing.T) {
	lookup := certificate.NewStaticLookup(nil, 0)
	cases := []struct {
		course string
		want   certificate.State
	}{
		{"1", certificate.StateAvailable},
		{"2", certificate.StateAvailable},
		{"3", certificate.StateUnavailable},
		{"404", certificate.StateNotFound},
	}
	for _, tc := range cases {
		v := certificate.NewViewer(tc.course, lookup)
		if v.State() != certificate.StateLoading {
			t.Fatalf("%s: initial state = %v", tc.course, v.State())
		}
		st, err := v.Load(context.Background())
		if err != nil || st != tc.want {
			t.Errorf("%s: state = %v, err = %v, want %v", tc.course, st, err, tc.want)
		}
	}
}

func TestViewerUnavailableKeepsRecordButRefusesExport(t *testing.T) {
	v := certificate.NewViewer("3", certificate.NewStaticLookup(nil, 0))
	if _, err := v.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	c, ok := v.Certificate()
	if !ok || c.CourseName == "" || c.Duration != "15 ساعة" {
		t.Fatalf("unavailable record = %+v, %v", c, ok)
	}
	if _, err := v.Print(); !errors.Is(err, certificate.ErrNotAvailable) {
		t.Errorf("print: %v", err)
	}
	if _, err := v.Download(context.Background(), textRenderer{}, &memBlobs{}); !errors.Is(err, certificate.ErrNotAvailable) {
		t.Errorf("download: %v", err)
	}
	m := &recordingMailer{}
	if err := v.SendEmail(context.Background(), certificate.NewEmailGate(time.Second), m, ""); !errors.Is(err, certificate.ErrNotAvailable) {
		t.Errorf("email: %v", err)
	}
	if len(m.sent) != 0 {
		t.Errorf("mailer called for unavailable certificate")
	}
}

func TestViewerLookupErrorRendersNotFound(t *testing.T) {
	boom := errors.New("backend down")
	v := certificate.NewViewer("1", lookupFunc(func(context.Context, string) (*certificate.Certificate, error) {
		return nil, boom
	}))
	st, err := v.Load(context.Background())
	if err != nil || st != certificate.StateNotFound {
		t.Fatalf("state = %v, err = %v", st, err)
	}
	if !errors.Is(v.Err(), boom) {
		t.Fatalf("Err() = %v", v.Err())
	}
}

func TestViewerCloseDiscardsPendingResult(t *testing.T) {
	release := make(chan struct{})
	v := certificate.NewViewer("1", lookupFunc(func(context.Context, string) (*certificate.Certificate, error) {
		<-release
		c := certificate.SampleCertificates()["1"]
		return &c, nil
	}))
	done := make(chan error, 1)
	go func() {
		_, err := v.Load(context.Background())
		done <- err
	}()
	v.Close()
	close(release)
	if err := <-done; !errors.Is(err, certificate.ErrViewerClosed) {
		t.Fatalf("load after close: %v", err)
	}
	if v.State() != certificate.StateLoading {
		t.Fatalf("state = %v, want loading", v.State())
	}
	if _, ok := v.Certificate(); ok {
		t.Fatalf("closed viewer exposed a record")
	}
}

func TestViewerCancelledContextStaysLoading(t *testing.T) {
	v := certificate.NewViewer("1", certificate.NewStaticLookup(nil, time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st, err := v.Load(ctx)
	if !errors.Is(err, context.Canceled) || st != certificate.StateLoading {
		t.Fatalf("state = %v, err = %v", st, err)
	}
}

func TestViewerExports(t *testing.T) {
	v := certificate.NewViewer("1", certificate.NewStaticLookup(nil, 0))
	if _, err := v.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	c, err := v.Print()
	if err != nil || c.ID != "CERT-001" {
		t.Fatalf("print: %+v, %v", c, err)
	}

	blobs := &memBlobs{}
	key, err := v.Download(context.Background(), textRenderer{}, blobs)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if key != "certificates/LP-2024-001-HTML.txt" {
		t.Fatalf("key = %q", key)
	}
	if got := string(blobs.data[key]); !strings.Contains(got, "أحمد محمد علي") {
		t.Fatalf("document = %q", got)
	}

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	gate := certificate.NewEmailGate(3 * time.Second)
	gate.Now = func() time.Time { return now }
	m := &recordingMailer{}
	link := "https://portal.example/certificates/1/download"
	if err := v.SendEmail(context.Background(), gate, m, link); err != nil {
		t.Fatalf("email: %v", err)
	}
	if err := v.SendEmail(context.Background(), gate, m, link); !errors.Is(err, certificate.ErrEmailCoolingDown) {
		t.Fatalf("second email: %v", err)
	}
	if len(m.sent) != 1 || m.links[0] != link {
		t.Fatalf("sent = %v, links = %v", m.sent, m.links)
	}
}

func TestVerificationURL(t *testing.T) {
	if got := certificate.VerificationURL("LP-2024-001-HTML"); got != "https://learningplatform.com/verify/LP-2024-001-HTML" {
		t.Fatalf("url = %q", got)
	}
}
