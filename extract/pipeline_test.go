package extract_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gmfreitas/deckparse"
	"github.com/gmfreitas/deckparse/extract"
	"github.com/gmfreitas/deckparse/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tempPDF writes a dummy file of the given size and returns its path.
func tempPDF(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.pdf")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

// textDoc returns a mock document whose pages all have the given text layer.
func textDoc(pages int, text string) *mock.Document {
	return &mock.Document{
		PageCountFn: func() int { return pages },
		PageTextFn:  func(page int) (string, error) { return text, nil },
		RenderPageFn: func(page int, dpi float64) (string, func(), error) {
			return fmt.Sprintf("page-%d-%.0f.png", page, dpi), func() {}, nil
		},
	}
}

func openerFor(doc deckparse.Document) *mock.DocumentOpener {
	return &mock.DocumentOpener{
		OpenFn: func(path string) (deckparse.Document, error) { return doc, nil },
	}
}

func failingOCR(t *testing.T) *mock.OCR {
	return &mock.OCR{
		RecognizeFn: func(ctx context.Context, imagePath string) (string, error) {
			t.Fatalf("unexpected OCR call for %s", imagePath)
			return "", nil
		},
	}
}

func emptyOCR() *mock.OCR {
	return &mock.OCR{
		RecognizeFn: func(ctx context.Context, imagePath string) (string, error) {
			return "", nil
		},
	}
}

func noCommand() *mock.TextCommand {
	return &mock.TextCommand{
		ExtractTextFn: func(ctx context.Context, path string) (string, error) {
			return "", deckparse.Errorf(deckparse.EUNAVAILABLE, "pdftotext not installed")
		},
	}
}

func TestPipeline_NativeText(t *testing.T) {
	t.Parallel()

	p := &extract.Pipeline{
		Docs:    openerFor(textDoc(2, "Receita recorrente de R$ 50 mil")),
		OCR:     failingOCR(t), // text pages must never trigger OCR
		Command: noCommand(),
		Logger:  discardLogger(),
	}

	extraction, err := p.Extract(context.Background(), &deckparse.Request{
		Path:        tempPDF(t, 2048),
		StartupName: "Acme",
	})

	require.NoError(t, err)
	assert.Equal(t, deckparse.MethodNativeText, extraction.Method)
	assert.Contains(t, extraction.Text, "=== PÁGINA 1 ===")
	assert.Contains(t, extraction.Text, "=== PÁGINA 2 ===")
	assert.Contains(t, extraction.Text, "Receita recorrente")
	assert.Equal(t, len([]rune(extraction.Text)), extraction.TextLength)
	assert.Equal(t, int64(2048), extraction.FileSize)
}

func TestPipeline_InlineOCRForBlankPage(t *testing.T) {
	t.Parallel()

	doc := &mock.Document{
		PageCountFn: func() int { return 2 },
		PageTextFn: func(page int) (string, error) {
			if page == 1 {
				return "texto nativo", nil
			}
			return "", nil
		},
		RenderPageFn: func(page int, dpi float64) (string, func(), error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, float64(extract.DefaultNativeDPI), dpi)
			return "page-2.png", func() {}, nil
		},
	}
	ocr := &mock.OCR{
		RecognizeFn: func(ctx context.Context, imagePath string) (string, error) {
			return "texto via ocr", nil
		},
	}

	p := &extract.Pipeline{
		Docs:    openerFor(doc),
		OCR:     ocr,
		Command: noCommand(),
		Logger:  discardLogger(),
	}

	extraction, err := p.Extract(context.Background(), &deckparse.Request{
		Path:        tempPDF(t, 1024),
		StartupName: "Acme",
	})

	require.NoError(t, err)
	assert.Equal(t, deckparse.MethodNativeTextOCR, extraction.Method)
	assert.Contains(t, extraction.Text, "=== PÁGINA 1 ===")
	assert.Contains(t, extraction.Text, "=== PÁGINA 2 (OCR) ===")
	assert.Contains(t, extraction.Text, "texto via ocr")
}

func TestPipeline_NativePageCap(t *testing.T) {
	t.Parallel()

	var textCalls int
	doc := &mock.Document{
		PageCountFn: func() int { return 25 },
		PageTextFn: func(page int) (string, error) {
			textCalls++
			return fmt.Sprintf("página %d", page), nil
		},
	}

	p := &extract.Pipeline{
		Docs:    openerFor(doc),
		OCR:     failingOCR(t),
		Command: noCommand(),
		Logger:  discardLogger(),
	}

	extraction, err := p.Extract(context.Background(), &deckparse.Request{
		Path:        tempPDF(t, 1024),
		StartupName: "Acme",
	})

	require.NoError(t, err)
	assert.Equal(t, extract.DefaultNativePageCap, textCalls)
	assert.Contains(t, extraction.Text, "=== PÁGINA 10 ===")
	assert.NotContains(t, extraction.Text, "=== PÁGINA 11 ===")
}

func TestPipeline_PageErrorIsolation(t *testing.T) {
	t.Parallel()

	doc := &mock.Document{
		PageCountFn: func() int { return 3 },
		PageTextFn: func(page int) (string, error) {
			if page == 2 {
				return "", deckparse.Errorf(deckparse.EINTERNAL, "corrupt page")
			}
			return fmt.Sprintf("página %d", page), nil
		},
		RenderPageFn: func(page int, dpi float64) (string, func(), error) {
			return "", nil, deckparse.Errorf(deckparse.EINTERNAL, "render failed")
		},
	}

	p := &extract.Pipeline{
		Docs:    openerFor(doc),
		OCR:     emptyOCR(),
		Command: noCommand(),
		Logger:  discardLogger(),
	}

	extraction, err := p.Extract(context.Background(), &deckparse.Request{
		Path:        tempPDF(t, 1024),
		StartupName: "Acme",
	})

	require.NoError(t, err)
	assert.Equal(t, deckparse.MethodNativeText, extraction.Method)
	assert.Contains(t, extraction.Text, "=== PÁGINA 1 ===")
	assert.Contains(t, extraction.Text, "=== PÁGINA 3 ===")
	assert.NotContains(t, extraction.Text, "=== PÁGINA 2")
}

func TestPipeline_FullDocumentOCR(t *testing.T) {
	t.Parallel()

	var rendered []string
	doc := &mock.Document{
		PageCountFn: func() int { return 8 },
		PageTextFn:  func(page int) (string, error) { return "", nil },
		RenderPageFn: func(page int, dpi float64) (string, func(), error) {
			path := fmt.Sprintf("page-%d-%.0f.png", page, dpi)
			rendered = append(rendered, path)
			return path, func() {}, nil
		},
	}
	// The low-resolution bulk pass recognizes text; the inline pass does not.
	ocr := &mock.OCR{
		RecognizeFn: func(ctx context.Context, imagePath string) (string, error) {
			if strings.HasSuffix(imagePath, "-200.png") {
				return "texto digitalizado", nil
			}
			return "", nil
		},
	}

	p := &extract.Pipeline{
		Docs:    openerFor(doc),
		OCR:     ocr,
		Command: noCommand(),
		Logger:  discardLogger(),
	}

	extraction, err := p.Extract(context.Background(), &deckparse.Request{
		Path:        tempPDF(t, 1024),
		StartupName: "Acme",
	})

	require.NoError(t, err)
	assert.Equal(t, deckparse.MethodFullOCR, extraction.Method)
	assert.Contains(t, extraction.Text, "=== PÁGINA 1 (OCR COMPLETO) ===")
	assert.Contains(t, extraction.Text, "=== PÁGINA 5 (OCR COMPLETO) ===")
	assert.NotContains(t, extraction.Text, "=== PÁGINA 6")

	var bulk int
	for _, path := range rendered {
		if strings.HasSuffix(path, "-200.png") {
			bulk++
		}
	}
	assert.Equal(t, extract.DefaultOCRPageCap, bulk)
}

func TestPipeline_ExternalCommand(t *testing.T) {
	t.Parallel()

	var commandCalled bool
	command := &mock.TextCommand{
		ExtractTextFn: func(ctx context.Context, path string) (string, error) {
			commandCalled = true
			return "texto do pdftotext", nil
		},
	}

	p := &extract.Pipeline{
		Docs:    openerFor(textDoc(2, "")),
		OCR:     emptyOCR(),
		Command: command,
		Logger:  discardLogger(),
	}

	extraction, err := p.Extract(context.Background(), &deckparse.Request{
		Path:        tempPDF(t, 1024),
		StartupName: "Acme",
	})

	require.NoError(t, err)
	assert.True(t, commandCalled)
	assert.Equal(t, deckparse.MethodExternalCommand, extraction.Method)
	assert.Equal(t, "texto do pdftotext", extraction.Text)
}

func TestPipeline_MetadataFallback(t *testing.T) {
	t.Parallel()

	path := tempPDF(t, 4096)

	p := &extract.Pipeline{
		Docs:    openerFor(textDoc(1, "")),
		OCR:     emptyOCR(),
		Command: noCommand(),
		Logger:  discardLogger(),
	}

	extraction, err := p.Extract(context.Background(), &deckparse.Request{
		Path:        path,
		StartupName: "Acme Fintech",
	})

	require.NoError(t, err)
	assert.Equal(t, deckparse.MethodMetadataFallback, extraction.Method)
	assert.Contains(t, extraction.Text, "Acme Fintech")
	assert.Contains(t, extraction.Text, filepath.Base(path))
	assert.Contains(t, extraction.Text, "4KB")
	assert.Contains(t, extraction.Text, "revisão manual")
	assert.False(t, extraction.Empty())
}

func TestPipeline_OpenFailureFallsThroughToCommand(t *testing.T) {
	t.Parallel()

	opener := &mock.DocumentOpener{
		OpenFn: func(path string) (deckparse.Document, error) {
			return nil, deckparse.Errorf(deckparse.EUNAVAILABLE, "not a pdf")
		},
	}
	command := &mock.TextCommand{
		ExtractTextFn: func(ctx context.Context, path string) (string, error) {
			return "recuperado pelo pdftotext", nil
		},
	}

	p := &extract.Pipeline{
		Docs:    opener,
		OCR:     emptyOCR(),
		Command: command,
		Logger:  discardLogger(),
	}

	extraction, err := p.Extract(context.Background(), &deckparse.Request{
		Path:        tempPDF(t, 1024),
		StartupName: "Acme",
	})

	require.NoError(t, err)
	assert.Equal(t, deckparse.MethodExternalCommand, extraction.Method)
	assert.Equal(t, "recuperado pelo pdftotext", extraction.Text)
}

func TestPipeline_TempImagesAlwaysCleanedUp(t *testing.T) {
	t.Parallel()

	var renders, cleanups int
	doc := &mock.Document{
		PageCountFn: func() int { return 3 },
		PageTextFn:  func(page int) (string, error) { return "", nil },
		RenderPageFn: func(page int, dpi float64) (string, func(), error) {
			renders++
			return fmt.Sprintf("page-%d.png", page), func() { cleanups++ }, nil
		},
	}
	ocr := &mock.OCR{
		RecognizeFn: func(ctx context.Context, imagePath string) (string, error) {
			return "", deckparse.Errorf(deckparse.EUNAVAILABLE, "tesseract crashed")
		},
	}

	p := &extract.Pipeline{
		Docs:    openerFor(doc),
		OCR:     ocr,
		Command: noCommand(),
		Logger:  discardLogger(),
	}

	_, err := p.Extract(context.Background(), &deckparse.Request{
		Path:        tempPDF(t, 1024),
		StartupName: "Acme",
	})

	require.NoError(t, err)
	assert.Positive(t, renders)
	assert.Equal(t, renders, cleanups)
}

func TestPipeline_UnreadablePathIsFatal(t *testing.T) {
	t.Parallel()

	p := &extract.Pipeline{
		Docs:    openerFor(textDoc(1, "texto")),
		OCR:     emptyOCR(),
		Command: noCommand(),
		Logger:  discardLogger(),
	}

	_, err := p.Extract(context.Background(), &deckparse.Request{
		Path:        filepath.Join(t.TempDir(), "missing.pdf"),
		StartupName: "Acme",
	})

	require.Error(t, err)
	assert.Equal(t, deckparse.EINVALID, deckparse.ErrorCode(err))
}

func TestPipeline_CustomLimits(t *testing.T) {
	t.Parallel()

	var textCalls int
	doc := &mock.Document{
		PageCountFn: func() int { return 10 },
		PageTextFn: func(page int) (string, error) {
			textCalls++
			return "texto", nil
		},
	}

	p := &extract.Pipeline{
		Docs:    openerFor(doc),
		OCR:     failingOCR(t),
		Command: noCommand(),
		Limits:  extract.Limits{NativePageCap: 3},
		Logger:  discardLogger(),
	}

	_, err := p.Extract(context.Background(), &deckparse.Request{
		Path:        tempPDF(t, 1024),
		StartupName: "Acme",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, textCalls)
}
