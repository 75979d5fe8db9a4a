// Package extract provides the strategy-chain extraction pipeline.
// It coordinates the native text layer, inline and full-document OCR,
// the external text command, and the metadata fallback, in strict
// cheapest-first order.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gmfreitas/deckparse"
)

// Default cost caps. Pages beyond these are deliberately left
// unprocessed; the caps bound time, not correctness.
const (
	DefaultNativePageCap = 10
	DefaultOCRPageCap    = 5
	DefaultNativeDPI     = 300
	DefaultOCRDPI        = 200
)

// Limits bounds the cost of an extraction run. Zero values select the
// defaults.
type Limits struct {
	// NativePageCap caps pages processed by the native-text strategy.
	NativePageCap int

	// OCRPageCap caps pages processed by the full-document OCR strategy.
	OCRPageCap int

	// NativeDPI is the rasterization resolution for inline per-page OCR.
	NativeDPI float64

	// OCRDPI is the rasterization resolution for full-document OCR. It is
	// lower than NativeDPI to bound the cost of the bulk pass.
	OCRDPI float64
}

func (l Limits) withDefaults() Limits {
	if l.NativePageCap <= 0 {
		l.NativePageCap = DefaultNativePageCap
	}
	if l.OCRPageCap <= 0 {
		l.OCRPageCap = DefaultOCRPageCap
	}
	if l.NativeDPI <= 0 {
		l.NativeDPI = DefaultNativeDPI
	}
	if l.OCRDPI <= 0 {
		l.OCRDPI = DefaultOCRDPI
	}
	return l
}

// Pipeline runs the extraction strategy chain for one document.
//
// Strategies run strictly sequentially: each is attempted only if the
// previous produced no text after trimming, and the first non-empty result
// is terminal. Page-level failures are logged and the page skipped; they
// never abort the document.
type Pipeline struct {
	Docs    deckparse.DocumentOpener
	OCR     deckparse.OCR
	Command deckparse.TextCommand
	Limits  Limits
	Logger  *slog.Logger
}

// Extract runs the strategy chain for req. The only error return is an
// invalid request or unreadable path; every extraction-level failure
// degrades into the next strategy and, ultimately, the metadata fallback.
func (p *Pipeline) Extract(ctx context.Context, req *deckparse.Request) (*deckparse.Extraction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	info, err := os.Stat(req.Path)
	if err != nil {
		return nil, deckparse.Errorf(deckparse.EINVALID, "cannot read document %q: %v", req.Path, err)
	}

	limits := p.Limits.withDefaults()
	logger := p.logger()

	logger.Info("extraction started", "path", req.Path, "startup", req.StartupName, "size_bytes", info.Size())

	text, method := p.nativeText(ctx, req.Path, limits, logger)

	if strings.TrimSpace(text) == "" {
		logger.Info("native text layer empty, trying full-document ocr")
		text = p.fullOCR(ctx, req.Path, limits, logger)
		method = deckparse.MethodFullOCR
	}

	if strings.TrimSpace(text) == "" {
		logger.Info("full-document ocr empty, trying external command")
		text = p.externalCommand(ctx, req.Path, logger)
		method = deckparse.MethodExternalCommand
	}

	if strings.TrimSpace(text) == "" {
		logger.Warn("all extraction strategies failed, synthesizing metadata fallback")
		text = metadataFallback(req.Path, info.Size(), req.StartupName)
		method = deckparse.MethodMetadataFallback
	}

	extraction := &deckparse.Extraction{
		Text:       text,
		Method:     method,
		TextLength: len([]rune(text)),
		FileSize:   info.Size(),
	}
	logger.Info("extraction finished", "method", string(method), "text_length", extraction.TextLength)
	return extraction, nil
}

// nativeText walks the document's text layer page by page, falling back to
// inline OCR for pages without one. It returns the concatenated text and
// the method label for this strategy (native_text, or native_text_ocr when
// at least one page needed OCR).
func (p *Pipeline) nativeText(ctx context.Context, path string, limits Limits, logger *slog.Logger) (string, deckparse.Method) {
	doc, err := p.Docs.Open(path)
	if err != nil {
		logger.Warn("cannot open document for native text", "error", deckparse.ErrorMessage(err))
		return "", deckparse.MethodNativeText
	}
	defer doc.Close()

	pages := doc.PageCount()
	logger.Info("document opened", "pages", pages)
	if pages > limits.NativePageCap {
		logger.Info("native page cap reached, later pages skipped", "cap", limits.NativePageCap, "pages", pages)
		pages = limits.NativePageCap
	}

	var sb strings.Builder
	usedOCR := false
	for page := 1; page <= pages; page++ {
		res := p.nativePage(ctx, doc, page, limits.NativeDPI)
		switch {
		case res.Err != nil:
			logger.Warn("page skipped", "page", page, "error", deckparse.ErrorMessage(res.Err))
		case res.Text != "":
			fmt.Fprintf(&sb, "\n=== PÁGINA %d ===\n%s\n", page, res.Text)
			logger.Info("page extracted", "page", page, "chars", len([]rune(res.Text)), "source", "text")
		case res.OCRText != "":
			usedOCR = true
			fmt.Fprintf(&sb, "\n=== PÁGINA %d (OCR) ===\n%s\n", page, res.OCRText)
			logger.Info("page extracted", "page", page, "chars", len([]rune(res.OCRText)), "source", "ocr")
		default:
			logger.Info("page empty", "page", page)
		}
	}

	method := deckparse.MethodNativeText
	if usedOCR {
		method = deckparse.MethodNativeTextOCR
	}
	return sb.String(), method
}

// nativePage processes one page: text layer first, inline OCR only if the
// layer is empty. Errors are recorded, never propagated.
func (p *Pipeline) nativePage(ctx context.Context, doc deckparse.Document, page int, dpi float64) deckparse.PageResult {
	res := deckparse.PageResult{Page: page}

	text, err := doc.PageText(page)
	if err == nil && text != "" {
		res.Text = text
		return res
	}
	if err != nil {
		p.logger().Warn("text layer failed, trying inline ocr", "page", page, "error", deckparse.ErrorMessage(err))
	}

	ocrText, err := p.ocrPage(ctx, doc, page, dpi)
	if err != nil {
		res.Err = err
		return res
	}
	res.OCRText = ocrText
	return res
}

// fullOCR rasterizes the whole document (bounded by the OCR page cap) at a
// reduced resolution and OCRs each page independently, skipping failures.
func (p *Pipeline) fullOCR(ctx context.Context, path string, limits Limits, logger *slog.Logger) string {
	doc, err := p.Docs.Open(path)
	if err != nil {
		logger.Warn("cannot open document for full-document ocr", "error", deckparse.ErrorMessage(err))
		return ""
	}
	defer doc.Close()

	pages := doc.PageCount()
	if pages > limits.OCRPageCap {
		logger.Info("ocr page cap reached, later pages skipped", "cap", limits.OCRPageCap, "pages", pages)
		pages = limits.OCRPageCap
	}

	var sb strings.Builder
	for page := 1; page <= pages; page++ {
		text, err := p.ocrPage(ctx, doc, page, limits.OCRDPI)
		if err != nil {
			logger.Warn("page skipped", "page", page, "error", deckparse.ErrorMessage(err))
			continue
		}
		if text == "" {
			logger.Info("page empty", "page", page)
			continue
		}
		fmt.Fprintf(&sb, "\n=== PÁGINA %d (OCR COMPLETO) ===\n%s\n", page, text)
		logger.Info("page extracted", "page", page, "chars", len([]rune(text)), "source", "full_ocr")
	}
	return sb.String()
}

// ocrPage rasterizes one page to a scoped temporary image and OCRs it.
// The temporary file is removed on every exit path.
func (p *Pipeline) ocrPage(ctx context.Context, doc deckparse.Document, page int, dpi float64) (string, error) {
	imagePath, cleanup, err := doc.RenderPage(page, dpi)
	if err != nil {
		return "", err
	}
	defer cleanup()
	return p.OCR.Recognize(ctx, imagePath)
}

// externalCommand tries the external text-extraction utility. Any failure
// to invoke it means the strategy is unavailable, never that the run failed.
func (p *Pipeline) externalCommand(ctx context.Context, path string, logger *slog.Logger) string {
	if p.Command == nil {
		return ""
	}
	text, err := p.Command.ExtractText(ctx, path)
	if err != nil {
		logger.Warn("external command unavailable", "error", deckparse.ErrorMessage(err))
		return ""
	}
	return text
}

// metadataFallback synthesizes the placeholder text used when every real
// strategy came up empty. It always succeeds.
func metadataFallback(path string, size int64, startupName string) string {
	return fmt.Sprintf(`DOCUMENTO PDF: %s
TAMANHO: %dKB
STARTUP: %s

AVISO: Não foi possível extrair texto automaticamente deste PDF.
Este documento requer revisão manual para extração das informações.`,
		filepath.Base(path), size/1024, startupName)
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
