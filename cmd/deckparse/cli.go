package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/gmfreitas/deckparse"
	"github.com/gmfreitas/deckparse/extract"
	"github.com/gmfreitas/deckparse/gemini"
	"github.com/gmfreitas/deckparse/tesseract"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Pipeline *extract.Pipeline
	Analyzer deckparse.Analyzer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Path        string `arg:"" help:"Path to the pitch deck PDF"`
	StartupName string `arg:"" help:"Name of the startup"`

	Verbose bool   `short:"v" help:"Enable debug logging"`
	OCRLang string `name:"ocr-lang" default:"${ocrlang}" help:"Tesseract language codes"`
	Model   string `default:"${model}" help:"Gemini model for structured analysis"`
}

// Vars returns the default values interpolated into CLI tags.
func Vars() map[string]string {
	return map[string]string{
		"ocrlang": tesseract.DefaultLanguages,
		"model":   gemini.DefaultModel,
	}
}

// Run processes one pitch deck: extraction chain, analysis, JSON output.
func (c *CLI) Run(deps *Dependencies) error {
	req := &deckparse.Request{
		Path:        c.Path,
		StartupName: c.StartupName,
	}

	extraction, err := deps.Pipeline.Extract(deps.Ctx, req)
	if err != nil {
		_ = writeJSON(deps.Stdout, deckparse.NewErrorRecord(c.StartupName, err))
		return err
	}

	analysis := deps.Analyzer.Analyze(deps.Ctx, extraction.Text, req.StartupName)

	record := &deckparse.Record{
		Extraction: *extraction,
		Analysis:   analysis,
	}
	return writeJSON(deps.Stdout, record)
}

// writeJSON pretty-prints v to w as literal UTF-8, with HTML escaping off.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
