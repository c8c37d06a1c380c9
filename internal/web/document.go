package web

import (
	"io"

	"golang.org/x/text/language"

	"github.com/mind-engage/mindengage-portal/internal/certificate"
	"github.com/mind-engage/mindengage-portal/internal/i18n"
)

// Document renders the downloadable certificate as a self-contained HTML
// file.
type Document struct {
	Views *Views
	Lang  language.Tag
}

// WithLang returns a copy rendering in tag.
func (d *Document) WithLang(tag language.Tag) *Document {
	c := *d
	c.Lang = tag
	return &c
}

func (d *Document) ContentType() string { return "text/html; charset=utf-8" }
func (d *Document) Extension() string   { return ".html" }

func (d *Document) RenderDocument(w io.Writer, c certificate.Certificate) error {
	return d.Views.Execute(w, "certificate_document", "document", d.Lang, struct {
		Page
		Cert            certificate.Certificate
		VerificationURL string
	}{
		Page:            Page{Lang: d.Lang.String(), Dir: i18n.Dir(d.Lang)},
		Cert:            c,
		VerificationURL: certificate.VerificationURL(c.CertificateNumber),
	})
}
