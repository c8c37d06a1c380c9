package coursework_test

import (
	"testing"

	cw "github.com/mind-engage/mindengage-portal/internal/coursework"
)

func TestFileExtension(t *testing.T) {
	cases := map[string]string{
		"index.html":     ".html",
		"Style.CSS":      ".css",
		"archive.tar.gz": ".gz",
		"Makefile":       ".makefile",
		"trailing.":      ".",
	}
	for in, want := range cases {
		if got := cw.FileExtension(in); got != want {
			t.Errorf("FileExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsFileValid(t *testing.T) {
	q := cw.Question{ID: "q", Kind: cw.KindFile, MaxFileSizeMB: 1, AllowedFileTypes: []string{".js", ".html"}}
	cases := []struct {
		f    cw.FileHandle
		want bool
	}{
		{cw.FileHandle{Name: "app.js", Size: 1024 * 1024}, true},
		{cw.FileHandle{Name: "app.js", Size: 1024*1024 + 1}, false},
		{cw.FileHandle{Name: "APP.HTML", Size: 1}, true},
		{cw.FileHandle{Name: "app.ts", Size: 1}, false},
		{cw.FileHandle{Name: "js", Size: 1}, true}, // no dot: the whole name is the extension
	}
	for _, tc := range cases {
		if got := cw.IsFileValid(tc.f, q); got != tc.want {
			t.Errorf("IsFileValid(%+v) = %v, want %v", tc.f, got, tc.want)
		}
	}

	open := cw.Question{ID: "o", Kind: cw.KindFile}
	if !cw.IsFileValid(cw.FileHandle{Name: "anything.bin", Size: 1 << 40}, open) {
		t.Errorf("unconstrained question rejected a file")
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := map[int64]string{
		0:                      "0 Bytes",
		500:                    "500 Bytes",
		1024:                   "1 KB",
		1536:                   "1.5 KB",
		1024 * 1024:            "1 MB",
		5*1024*1024 + 1024*300: "5.29 MB",
		3 * 1024 * 1024 * 1024: "3 GB",
	}
	for in, want := range cases {
		if got := cw.FormatFileSize(in); got != want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", in, got, want)
		}
	}
}
