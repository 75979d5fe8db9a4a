package mock

import (
	"context"

	"github.com/gmfreitas/deckparse"
)

var _ deckparse.TextCommand = (*TextCommand)(nil)

// TextCommand is a mock implementation of deckparse.TextCommand.
type TextCommand struct {
	ExtractTextFn func(ctx context.Context, path string) (string, error)
}

func (c *TextCommand) ExtractText(ctx context.Context, path string) (string, error) {
	return c.ExtractTextFn(ctx, path)
}
