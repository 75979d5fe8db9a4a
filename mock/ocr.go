package mock

import (
	"context"

	"github.com/gmfreitas/deckparse"
)

var _ deckparse.OCR = (*OCR)(nil)

// OCR is a mock implementation of deckparse.OCR.
type OCR struct {
	RecognizeFn func(ctx context.Context, imagePath string) (string, error)
}

func (o *OCR) Recognize(ctx context.Context, imagePath string) (string, error) {
	return o.RecognizeFn(ctx, imagePath)
}
