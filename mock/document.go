// Package mock provides hand-written mocks for deckparse interfaces.
package mock

import "github.com/gmfreitas/deckparse"

var _ deckparse.DocumentOpener = (*DocumentOpener)(nil)

// DocumentOpener is a mock implementation of deckparse.DocumentOpener.
type DocumentOpener struct {
	OpenFn func(path string) (deckparse.Document, error)
}

func (o *DocumentOpener) Open(path string) (deckparse.Document, error) {
	return o.OpenFn(path)
}

var _ deckparse.Document = (*Document)(nil)

// Document is a mock implementation of deckparse.Document.
type Document struct {
	PageCountFn  func() int
	PageTextFn   func(page int) (string, error)
	RenderPageFn func(page int, dpi float64) (string, func(), error)
	CloseFn      func() error
}

func (d *Document) PageCount() int {
	return d.PageCountFn()
}

func (d *Document) PageText(page int) (string, error) {
	return d.PageTextFn(page)
}

func (d *Document) RenderPage(page int, dpi float64) (string, func(), error) {
	return d.RenderPageFn(page, dpi)
}

func (d *Document) Close() error {
	if d.CloseFn != nil {
		return d.CloseFn()
	}
	return nil
}
