// Package tesseract implements OCR by shelling out to the Tesseract
// binary. The external command is isolated behind a Runner so tests can
// stub it.
package tesseract

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/gmfreitas/deckparse"
)

// DefaultLanguages are the recognition languages used when none are
// configured. Pitch decks processed by this tool are Brazilian, so
// Portuguese comes first with English as a secondary.
const DefaultLanguages = "por+eng"

// Runner executes an external command and returns its output streams.
// It exists so tests can stub the Tesseract binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// Ensure OCR implements deckparse.OCR at compile time.
var _ deckparse.OCR = (*OCR)(nil)

// OCR recognizes text in page images via the tesseract executable.
type OCR struct {
	binary    string
	languages string
	runner    Runner
}

// Option configures an OCR.
type Option func(*OCR)

// WithBinary overrides the tesseract binary name or path.
func WithBinary(binary string) Option {
	return func(o *OCR) { o.binary = binary }
}

// WithRunner overrides the command runner. Tests use this to stub the
// external binary.
func WithRunner(r Runner) Option {
	return func(o *OCR) { o.runner = r }
}

// New creates an OCR for the given recognition languages. An empty
// languages string selects DefaultLanguages.
func New(languages string, opts ...Option) *OCR {
	if languages == "" {
		languages = DefaultLanguages
	}
	o := &OCR{
		binary:    "tesseract",
		languages: languages,
		runner:    execRunner{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Recognize runs tesseract on the image at path and returns the trimmed
// recognized text. A missing binary, non-zero exit, or cancelled context
// all surface as EUNAVAILABLE; the caller decides whether that is fatal.
func (o *OCR) Recognize(ctx context.Context, imagePath string) (string, error) {
	if imagePath == "" {
		return "", deckparse.Errorf(deckparse.EINVALID, "image path required")
	}

	// tesseract <image> stdout -l <langs>
	out, errb, err := o.runner.Run(ctx, o.binary, imagePath, "stdout", "-l", o.languages)
	if err != nil {
		return "", deckparse.Errorf(deckparse.EUNAVAILABLE, "tesseract on %q: %v: %s", imagePath, err, truncate(string(errb), 512))
	}
	return strings.TrimSpace(string(out)), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
