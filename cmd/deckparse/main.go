package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gmfreitas/deckparse"
	"github.com/gmfreitas/deckparse/extract"
	"github.com/gmfreitas/deckparse/fitz"
	"github.com/gmfreitas/deckparse/gemini"
	"github.com/gmfreitas/deckparse/poppler"
	deckslog "github.com/gmfreitas/deckparse/slog"
	"github.com/gmfreitas/deckparse/tesseract"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Collaborators overridable for end-to-end testing. Nil fields are
	// wired with the real implementations in Run().
	Docs     deckparse.DocumentOpener
	OCR      deckparse.OCR
	Command  deckparse.TextCommand
	Analyzer deckparse.Analyzer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments. Normal completion always
// returns nil, even when every extraction strategy failed and a fallback
// record was produced; only a malformed invocation or unreadable path is
// an error. On error paths a JSON error object has already been written to
// stdout before Run returns.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("deckparse"),
		kong.Description("Extract a structured startup profile from a PDF pitch deck."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars(Vars()),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 {
		if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
			_, _ = parser.Parse([]string{"--help"})
			return nil
		}
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		invalid := deckparse.Errorf(deckparse.EINVALID, "invalid invocation: %v", err)
		_ = writeJSON(stdout, deckparse.NewErrorRecord(cli.StartupName, invalid))
		return invalid
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("run_id", uuid.NewString())

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
		Pipeline: &extract.Pipeline{
			Docs:    m.Docs,
			OCR:     m.OCR,
			Command: m.Command,
			Logger:  logger,
		},
		Analyzer: m.Analyzer,
	}

	if deps.Pipeline.Docs == nil {
		deps.Pipeline.Docs = fitz.NewOpener()
	}
	if deps.Pipeline.OCR == nil {
		deps.Pipeline.OCR = tesseract.New(cli.OCRLang)
	}
	if deps.Pipeline.Command == nil {
		deps.Pipeline.Command = deckslog.NewLoggingTextCommand(poppler.NewCommand(), logger)
	}

	if deps.Analyzer == nil {
		var client *genai.Client
		if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey == "" {
			logger.Warn("GEMINI_API_KEY not set, analysis will be skipped")
		} else {
			client, err = genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				logger.Warn("cannot connect to Gemini API, analysis will be skipped", "error", err)
				client = nil
			}
		}
		deps.Analyzer = deckslog.NewLoggingAnalyzer(gemini.NewAnalyzer(client, cli.Model), logger)
	}

	return kongCtx.Run(deps)
}
