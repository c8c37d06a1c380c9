package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrBadKey = errors.New("invalid blob key")

type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create blob dir %s", base)
	}
	return &FSStore{base: base}, nil
}

// path resolves key under base; keys may not climb out of it.
func (s *FSStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", errors.Wrapf(ErrBadKey, "%q", key)
	}
	return filepath.Join(s.base, clean), nil
}

func (s *FSStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	dst, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", errors.Wrap(err, "mkdir")
	}
	// write then rename so readers never see a partial artifact
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".put-*")
	if err != nil {
		return "", errors.Wrap(err, "create temp")
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", errors.Wrapf(err, "write %s", key)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrapf(err, "close %s", key)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", errors.Wrapf(err, "rename %s", key)
	}
	return key, nil
}

func (s *FSStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", key)
	}
	return f, nil
}
