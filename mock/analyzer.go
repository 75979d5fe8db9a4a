package mock

import (
	"context"

	"github.com/gmfreitas/deckparse"
)

var _ deckparse.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of deckparse.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, text, startupName string) *deckparse.Analysis
}

func (a *Analyzer) Analyze(ctx context.Context, text, startupName string) *deckparse.Analysis {
	return a.AnalyzeFn(ctx, text, startupName)
}
