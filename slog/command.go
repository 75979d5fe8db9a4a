package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/gmfreitas/deckparse"
)

// Ensure LoggingTextCommand implements deckparse.TextCommand.
var _ deckparse.TextCommand = (*LoggingTextCommand)(nil)

// LoggingTextCommand wraps a TextCommand with timing logs.
type LoggingTextCommand struct {
	next   deckparse.TextCommand
	logger *slog.Logger
}

// NewLoggingTextCommand creates a new LoggingTextCommand.
func NewLoggingTextCommand(next deckparse.TextCommand, logger *slog.Logger) *LoggingTextCommand {
	return &LoggingTextCommand{next: next, logger: logger}
}

// ExtractText delegates to the wrapped command and logs the outcome.
func (c *LoggingTextCommand) ExtractText(ctx context.Context, path string) (string, error) {
	begin := time.Now()
	text, err := c.next.ExtractText(ctx, path)
	if err != nil {
		c.logger.Warn("external text command failed",
			"path", path,
			"error", deckparse.ErrorMessage(err),
			"duration", time.Since(begin),
		)
		return "", err
	}
	c.logger.Info("external text command finished",
		"path", path,
		"chars", len([]rune(text)),
		"duration", time.Since(begin),
	)
	return text, nil
}
