package deckparse

import (
	"context"
	"os"
	"strings"
)

// Request identifies a single pitch deck to process. It is immutable and
// created once per invocation.
type Request struct {
	// Path is the location of the PDF file on disk.
	Path string

	// StartupName is the caller-supplied name of the startup. It is always
	// asserted over whatever the language model returns.
	StartupName string
}

// Validate returns an error if the request contains invalid fields.
func (r *Request) Validate() error {
	if r.Path == "" {
		return Errorf(EINVALID, "document path required")
	}
	if r.StartupName == "" {
		return Errorf(EINVALID, "startup name required")
	}
	if _, err := os.Stat(r.Path); err != nil {
		return Errorf(EINVALID, "cannot read document %q: %v", r.Path, err)
	}
	return nil
}

// Method labels which extraction strategy produced the final text.
type Method string

// Method values, in strategy priority order.
const (
	// MethodNativeText means every processed page had a usable text layer.
	MethodNativeText Method = "native_text"

	// MethodNativeTextOCR means the text layer was used where present and
	// at least one page fell back to inline OCR.
	MethodNativeTextOCR Method = "native_text_ocr"

	// MethodFullOCR means no page had a text layer and the document was
	// rasterized and OCRed as a whole.
	MethodFullOCR Method = "full_document_ocr"

	// MethodExternalCommand means text came from the external
	// text-extraction utility.
	MethodExternalCommand Method = "external_command"

	// MethodMetadataFallback means every strategy came up empty and the
	// text is a synthesized placeholder describing the file.
	MethodMetadataFallback Method = "metadata_fallback"
)

// PageResult holds the outcome of processing a single page. It lives only
// within one strategy pass and is never persisted.
type PageResult struct {
	// Page is the 1-based page index.
	Page int

	// Text is the trimmed native text layer content, or empty.
	Text string

	// OCRText is the trimmed OCR output, or empty.
	OCRText string

	// Err records a page-level failure. Page failures are logged and the
	// page skipped; they never abort the document.
	Err error
}

// Extraction is the final outcome of the strategy chain.
//
// Invariant: Method is set if and only if Text is non-empty after trimming.
// When every strategy fails, Method is MethodMetadataFallback and Text is a
// synthesized placeholder, never empty.
type Extraction struct {
	// Text is the full concatenated extracted text, including page-boundary
	// markers where a per-page strategy produced it.
	Text string `json:"extracted_text"`

	// Method labels the strategy that produced Text.
	Method Method `json:"extraction_method"`

	// TextLength is the length of Text in characters.
	TextLength int `json:"text_length"`

	// FileSize is the size of the source document in bytes.
	FileSize int64 `json:"file_size"`
}

// Empty reports whether the extraction carries no usable text.
func (e *Extraction) Empty() bool {
	return strings.TrimSpace(e.Text) == ""
}

// Document is an opened PDF. Page indexes are 1-based throughout.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// PageText returns the trimmed native text layer of a page, or empty
	// if the page has none.
	PageText(page int) (string, error)

	// RenderPage rasterizes a page to a temporary PNG file at the given
	// resolution and returns its path along with a cleanup function that
	// removes the file. The cleanup function must be called on every exit
	// path, including OCR failure.
	RenderPage(page int, dpi float64) (path string, cleanup func(), err error)

	// Close releases the underlying document handle.
	Close() error
}

// DocumentOpener opens PDF documents.
type DocumentOpener interface {
	Open(path string) (Document, error)
}

// OCR recognizes text in a rasterized page image. Recognition languages are
// fixed at construction time.
type OCR interface {
	// Recognize returns the trimmed recognized text for the image at path,
	// or empty if nothing was recognized.
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// TextCommand invokes an external text-extraction utility as a last resort
// before giving up on real content.
type TextCommand interface {
	// ExtractText returns the utility's trimmed standard output, or an
	// error if the tool is missing, times out, or exits non-zero.
	ExtractText(ctx context.Context, path string) (string, error)
}
