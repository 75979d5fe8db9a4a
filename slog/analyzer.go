// Package slog provides logging decorators for deckparse interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/gmfreitas/deckparse"
)

// Ensure LoggingAnalyzer implements deckparse.Analyzer.
var _ deckparse.Analyzer = (*LoggingAnalyzer)(nil)

// LoggingAnalyzer wraps an Analyzer with progress and timing logs.
type LoggingAnalyzer struct {
	next   deckparse.Analyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next deckparse.Analyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer and logs the outcome,
// including whether the result is degraded and why.
func (a *LoggingAnalyzer) Analyze(ctx context.Context, text, startupName string) *deckparse.Analysis {
	begin := time.Now()
	a.logger.Info("analysis started", "startup", startupName, "input_chars", len([]rune(text)))

	analysis := a.next.Analyze(ctx, text, startupName)

	if analysis.Error != "" {
		a.logger.Warn("analysis degraded",
			"startup", startupName,
			"kind", analysis.ErrorKind,
			"error", analysis.Error,
			"duration", time.Since(begin),
		)
		return analysis
	}
	a.logger.Info("analysis finished",
		"startup", startupName,
		"duration", time.Since(begin),
	)
	return analysis
}
