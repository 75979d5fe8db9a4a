// Package poppler invokes the pdftotext utility from Poppler as a
// last-resort extraction strategy before giving up on real content.
package poppler

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/gmfreitas/deckparse"
)

// DefaultTimeout bounds a single pdftotext invocation.
const DefaultTimeout = 30 * time.Second

// Ensure Command implements deckparse.TextCommand at compile time.
var _ deckparse.TextCommand = (*Command)(nil)

// Command extracts text from PDFs using the pdftotext CLI tool.
type Command struct {
	binary  string
	timeout time.Duration
}

// Option configures a Command.
type Option func(*Command)

// WithBinary overrides the pdftotext binary name or path.
func WithBinary(binary string) Option {
	return func(c *Command) { c.binary = binary }
}

// WithTimeout overrides the invocation timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Command) { c.timeout = d }
}

// NewCommand creates a Command with defaults.
func NewCommand(opts ...Option) *Command {
	c := &Command{
		binary:  "pdftotext",
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExtractText runs pdftotext -layout on the given PDF and returns its
// trimmed standard output. A missing tool, timeout, or non-zero exit is
// reported as EUNAVAILABLE so the caller treats the strategy as
// unavailable rather than the run as failed.
func (c *Command) ExtractText(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// pdftotext -layout -enc UTF-8 <path> -
	cmd := exec.CommandContext(ctx, c.binary, "-layout", "-enc", "UTF-8", path, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", deckparse.Errorf(deckparse.EUNAVAILABLE, "pdftotext on %q: %v: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
