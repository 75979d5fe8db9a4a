// Package fitz implements PDF document access using go-fitz (MuPDF).
// A single document handle serves both the native text layer and page
// rasterization for OCR.
package fitz

import (
	"image/png"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gmfreitas/deckparse"
)

// Ensure Opener implements deckparse.DocumentOpener at compile time.
var _ deckparse.DocumentOpener = (*Opener)(nil)

// Opener opens PDF documents with MuPDF.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open opens the PDF at path.
func (o *Opener) Open(path string) (deckparse.Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, deckparse.Errorf(deckparse.EUNAVAILABLE, "open pdf %q: %v", path, err)
	}
	return &Document{doc: doc}, nil
}

// Ensure Document implements deckparse.Document at compile time.
var _ deckparse.Document = (*Document)(nil)

// Document wraps an open MuPDF document. Page indexes are 1-based at this
// boundary; MuPDF counts from zero.
type Document struct {
	doc *fitz.Document
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.doc.NumPage()
}

// PageText returns the trimmed native text layer of a page.
func (d *Document) PageText(page int) (string, error) {
	text, err := d.doc.Text(page - 1)
	if err != nil {
		return "", deckparse.Errorf(deckparse.EINTERNAL, "text layer of page %d: %v", page, err)
	}
	return strings.TrimSpace(text), nil
}

// RenderPage rasterizes a page to a temporary PNG at the given DPI. The
// returned cleanup removes the file and must run on every exit path.
func (d *Document) RenderPage(page int, dpi float64) (string, func(), error) {
	img, err := d.doc.ImageDPI(page-1, dpi)
	if err != nil {
		return "", nil, deckparse.Errorf(deckparse.EINTERNAL, "rasterize page %d at %.0f dpi: %v", page, dpi, err)
	}

	f, err := os.CreateTemp("", "deckparse-page-*.png")
	if err != nil {
		return "", nil, deckparse.Errorf(deckparse.EINTERNAL, "create temp image: %v", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, deckparse.Errorf(deckparse.EINTERNAL, "encode page %d image: %v", page, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, deckparse.Errorf(deckparse.EINTERNAL, "close temp image: %v", err)
	}

	path := f.Name()
	cleanup := func() { os.Remove(path) }
	return path, cleanup, nil
}

// Close releases the document handle.
func (d *Document) Close() error {
	return d.doc.Close()
}
