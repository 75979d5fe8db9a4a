package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/gmfreitas/deckparse"
	"github.com/gmfreitas/deckparse/mock"
	deckslog "github.com/gmfreitas/deckparse/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestLoggingAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	next := &mock.Analyzer{
		AnalyzeFn: func(ctx context.Context, text, startupName string) *deckparse.Analysis {
			return &deckparse.Analysis{Name: startupName}
		},
	}
	buf := &bytes.Buffer{}

	analyzer := deckslog.NewLoggingAnalyzer(next, testLogger(buf))
	analysis := analyzer.Analyze(context.Background(), "texto", "Acme")

	require.NotNil(t, analysis)
	assert.Equal(t, "Acme", analysis.Name)
	assert.Contains(t, buf.String(), "analysis started")
	assert.Contains(t, buf.String(), "analysis finished")
}

func TestLoggingAnalyzer_Analyze_LogsDegradedResult(t *testing.T) {
	t.Parallel()

	next := &mock.Analyzer{
		AnalyzeFn: func(ctx context.Context, text, startupName string) *deckparse.Analysis {
			return &deckparse.Analysis{
				Name:      startupName,
				Error:     "model unreachable",
				ErrorKind: deckparse.ErrKindAPI,
			}
		},
	}
	buf := &bytes.Buffer{}

	analyzer := deckslog.NewLoggingAnalyzer(next, testLogger(buf))
	analysis := analyzer.Analyze(context.Background(), "texto", "Acme")

	require.NotNil(t, analysis)
	assert.Contains(t, buf.String(), "analysis degraded")
	assert.Contains(t, buf.String(), "model unreachable")
}
